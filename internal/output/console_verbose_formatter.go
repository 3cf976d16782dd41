package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/chaitu5981/money-lender/internal/domain"
)

// ConsoleVerboseFormatter renders the full audit trail: every transaction
// with the interest periods it closed, the yearly compounding table and
// the final period.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console-verbose" }

func (c ConsoleVerboseFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	res := report.Result
	rule := strings.Repeat("=", 80)

	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, "DETAILED LOAN INTEREST REPORT")
	fmt.Fprintln(&buf, rule)
	writeSummary(&buf, report)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "TRANSACTIONS")
	fmt.Fprintln(&buf, strings.Repeat("-", 80))
	if len(res.Transactions) == 0 {
		fmt.Fprintln(&buf, "  (none)")
	}
	for i, cell := range res.Transactions {
		fmt.Fprintf(&buf, "%2d. %s  %-9s  %12s  balance %12s  (year %d)\n",
			i+1, FormatDate(cell.Date), cell.Kind, FormatCurrency(cell.Amount), FormatCurrency(cell.PrincipalAfter), cell.YearNumber)
		if len(cell.SourceIDs) > 1 {
			fmt.Fprintf(&buf, "    combined from: %s\n", strings.Join(cell.SourceIDs, ", "))
		}
		for _, p := range res.PeriodsForTransaction(cell.ID) {
			writePeriod(&buf, p)
		}
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "YEARLY COMPOUNDING")
	fmt.Fprintln(&buf, strings.Repeat("-", 80))
	fmt.Fprintf(&buf, "%-5s %-10s   %-10s %14s %14s %14s\n", "Year", "From", "To", "Opening", "Interest", "Closing")
	for _, y := range res.YearSummaries {
		fmt.Fprintf(&buf, "%-5d %s → %s %14s %14s %14s\n",
			y.YearNumber, FormatDate(y.FromDate), FormatDate(y.ToDate),
			FormatCurrency(y.OpeningPrincipal), FormatCurrency(y.InterestForYear), FormatCurrency(y.PrincipalAfterCompounding))
	}
	if open, ok := openYear(res); ok {
		fmt.Fprintf(&buf, "%-5d %s → %s %14s %14s %14s  (not yet compounded)\n",
			open.YearNumber, FormatDate(open.FromDate), FormatDate(open.ToDate),
			FormatCurrency(open.OpeningPrincipal), FormatCurrency(open.InterestForYear), FormatCurrency(open.PrincipalAfterCompounding))
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "ANNIVERSARY AND FINAL PERIODS")
	fmt.Fprintln(&buf, strings.Repeat("-", 80))
	for _, p := range res.InterestPeriods {
		if p.Kind != domain.PeriodTransaction {
			writePeriod(&buf, p)
		}
	}
	fmt.Fprintf(&buf, "Principal after last event: %s\n", FormatCurrency(res.PrincipalAtLastCell))
	fmt.Fprintf(&buf, "Final period interest:      %s\n", FormatCurrency(res.FinalPeriodInterest))
	fmt.Fprintf(&buf, "Interest since anniversary: %s\n", FormatCurrency(res.CurrentYearInterest))
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "TOTAL AMOUNT DUE: %s\n", FormatCurrency(res.TotalAmountDue))
	return buf.Bytes(), nil
}

func writePeriod(buf *bytes.Buffer, p domain.InterestPeriod) {
	fmt.Fprintf(buf, "    %-11s %s → %s %4d days on %12s = %10s\n",
		p.Kind, FormatDate(p.FromDate), FormatDate(p.ToDate), p.Days,
		FormatCurrency(p.PrincipalBefore), FormatAmount(p.InterestAccrued))
}
