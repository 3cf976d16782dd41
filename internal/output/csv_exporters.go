package output

import (
	"bytes"
	"encoding/csv"

	"github.com/chaitu5981/money-lender/internal/domain"
)

// CSVPeriodsExporter writes one row per audited interest period.
type CSVPeriodsExporter struct{}

func (c CSVPeriodsExporter) Name() string { return "csv" }

func (c CSVPeriodsExporter) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Kind", "TransactionID", "Year", "From", "To", "Days", "PrincipalBefore", "InterestAccrued"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, p := range report.Result.InterestPeriods {
		row := []string{
			string(p.Kind),
			p.TransactionID,
			intToString(p.YearNumber),
			FormatDate(p.FromDate),
			FormatDate(p.ToDate),
			intToString(p.Days),
			FormatAmount(p.PrincipalBefore),
			FormatAmount(p.InterestAccrued),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CSVYearlyExporter writes one row per compounded year plus the open year.
type CSVYearlyExporter struct{}

func (c CSVYearlyExporter) Name() string { return "yearly-csv" }

func (c CSVYearlyExporter) Format(report *domain.Report) ([]byte, error) {
	res := report.Result
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "From", "To", "OpeningPrincipal", "InterestForYear", "PrincipalAfterCompounding", "Compounded"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, y := range res.YearSummaries {
		row := []string{
			intToString(y.YearNumber),
			FormatDate(y.FromDate),
			FormatDate(y.ToDate),
			FormatAmount(y.OpeningPrincipal),
			FormatAmount(y.InterestForYear),
			FormatAmount(y.PrincipalAfterCompounding),
			"true",
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	if open, ok := openYear(res); ok {
		row := []string{
			intToString(open.YearNumber),
			FormatDate(open.FromDate),
			FormatDate(open.ToDate),
			FormatAmount(open.OpeningPrincipal),
			FormatAmount(open.InterestForYear),
			FormatAmount(open.PrincipalAfterCompounding),
			"false",
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// openYear describes the year still running at the valuation date. Its
// interest is the result's CurrentYearInterest, not yet capitalised.
func openYear(res *domain.CalculationResult) (domain.YearSummary, bool) {
	if res.FirstTransactionDate.IsZero() {
		return domain.YearSummary{}, false
	}
	open := domain.YearSummary{
		YearNumber:                len(res.YearSummaries) + 1,
		FromDate:                  res.FirstTransactionDate,
		ToDate:                    res.ValuationDate,
		InterestForYear:           res.CurrentYearInterest,
		PrincipalAfterCompounding: res.PrincipalAtLastCell,
	}
	if n := len(res.YearSummaries); n > 0 {
		last := res.YearSummaries[n-1]
		open.FromDate = last.ToDate
		open.OpeningPrincipal = last.PrincipalAfterCompounding
	}
	if !open.ToDate.After(open.FromDate) {
		return domain.YearSummary{}, false
	}
	return open, true
}
