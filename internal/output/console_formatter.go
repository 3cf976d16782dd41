package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/chaitu5981/money-lender/internal/domain"
)

// ConsoleFormatter provides the concise totals view.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "LOAN INTEREST SUMMARY")
	fmt.Fprintln(&buf, "================================")
	writeSummary(&buf, report)
	return buf.Bytes(), nil
}

// writeSummary prints the headline figures shared by the console views.
func writeSummary(w io.Writer, report *domain.Report) {
	res := report.Result
	if report.Parties.Lender != "" || report.Parties.Borrower != "" {
		fmt.Fprintf(w, "Lender / Borrower:     %s / %s\n", orDash(report.Parties.Lender), orDash(report.Parties.Borrower))
	}
	fmt.Fprintf(w, "Interest Rate:         %s per year, compounded annually\n", FormatPercentage(res.RatePercent))
	fmt.Fprintf(w, "Calculated As Of:      %s\n", FormatDate(res.ValuationDate))
	fmt.Fprintf(w, "First Transaction:     %s\n", FormatDate(res.FirstTransactionDate))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total Borrowed:        %s\n", FormatCurrency(res.TotalBorrowed))
	fmt.Fprintf(w, "Total Repaid:          %s\n", FormatCurrency(res.TotalRepaid))
	fmt.Fprintf(w, "Outstanding Principal: %s\n", FormatCurrency(res.OutstandingPrincipal))
	fmt.Fprintf(w, "Total Interest:        %s\n", FormatCurrency(res.TotalInterest))
	fmt.Fprintf(w, "Total Amount Due:      %s\n", FormatCurrency(res.TotalAmountDue))
	if res.RepaymentCredit.IsPositive() {
		fmt.Fprintf(w, "Repayment Credit:      %s (repaid beyond the running balance)\n", FormatCurrency(res.RepaymentCredit))
	}
	if len(res.ExcludedTransactionIDs) > 0 {
		fmt.Fprintf(w, "Not yet effective:     %s\n", strings.Join(res.ExcludedTransactionIDs, ", "))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
