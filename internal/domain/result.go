package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodKind labels what closed an interest period.
type PeriodKind string

const (
	// PeriodTransaction ends on a transaction date.
	PeriodTransaction PeriodKind = "transaction"
	// PeriodAnniversary ends on a compounding anniversary.
	PeriodAnniversary PeriodKind = "anniversary"
	// PeriodFinal runs from the last event to the valuation date.
	PeriodFinal PeriodKind = "final"
)

// InterestPeriod is one audited span of simple interest at a fixed principal.
type InterestPeriod struct {
	Kind            PeriodKind      `json:"kind"`
	TransactionID   string          `json:"transaction_id,omitempty"`
	YearNumber      int             `json:"year_number"`
	FromDate        time.Time       `json:"from_date"`
	ToDate          time.Time       `json:"to_date"`
	Days            int             `json:"days"`
	PrincipalBefore decimal.Decimal `json:"principal_before"`
	InterestAccrued decimal.Decimal `json:"interest_accrued"`
}

// YearSummary closes one compounding year at an anniversary.
type YearSummary struct {
	YearNumber                int             `json:"year_number"`
	FromDate                  time.Time       `json:"from_date"`
	ToDate                    time.Time       `json:"to_date"`
	OpeningPrincipal          decimal.Decimal `json:"opening_principal"`
	InterestForYear           decimal.Decimal `json:"interest_for_year"`
	PrincipalAfterCompounding decimal.Decimal `json:"principal_after_compounding"`
}

// TransactionCell is a (possibly same-day combined) transaction as the
// simulator applied it.
type TransactionCell struct {
	ID             string          `json:"id"`
	SourceIDs      []string        `json:"source_ids"`
	Date           time.Time       `json:"date"`
	Kind           TransactionKind `json:"kind"`
	Amount         decimal.Decimal `json:"amount"`
	YearNumber     int             `json:"year_number"`
	PrincipalAfter decimal.Decimal `json:"principal_after"`
}

// CalculationResult is the complete, read-only output of one accrual run.
// TotalAmountDue always equals OutstandingPrincipal + TotalInterest.
type CalculationResult struct {
	RatePercent          decimal.Decimal `json:"rate_percent"`
	ValuationDate        time.Time       `json:"valuation_date"`
	FirstTransactionDate time.Time       `json:"first_transaction_date,omitempty"`

	TotalBorrowed        decimal.Decimal `json:"total_borrowed"`
	TotalRepaid          decimal.Decimal `json:"total_repaid"`
	OutstandingPrincipal decimal.Decimal `json:"outstanding_principal"`
	TotalInterest        decimal.Decimal `json:"total_interest"`
	TotalAmountDue       decimal.Decimal `json:"total_amount_due"`

	// PrincipalAtLastCell is the principal after the most recent anniversary
	// or transaction, before the final period.
	PrincipalAtLastCell decimal.Decimal `json:"principal_at_last_cell"`
	FinalPeriodInterest decimal.Decimal `json:"final_period_interest"`
	// CurrentYearInterest is everything accrued since the last anniversary,
	// final period included; it has not been compounded yet.
	CurrentYearInterest decimal.Decimal `json:"current_year_interest"`
	// RepaymentCredit is the part of repayments that exceeded the running principal.
	RepaymentCredit decimal.Decimal `json:"repayment_credit"`

	YearSummaries   []YearSummary     `json:"year_summaries"`
	InterestPeriods []InterestPeriod  `json:"interest_periods"`
	Transactions    []TransactionCell `json:"transactions"`
	// ExcludedTransactionIDs lists transactions dated after the valuation date.
	ExcludedTransactionIDs []string `json:"excluded_transaction_ids,omitempty"`
}

// ZeroResult builds the all-zero result used for degenerate input.
func ZeroResult(rate decimal.Decimal, valuation time.Time) *CalculationResult {
	return &CalculationResult{
		RatePercent:          rate,
		ValuationDate:        valuation,
		TotalBorrowed:        decimal.Zero,
		TotalRepaid:          decimal.Zero,
		OutstandingPrincipal: decimal.Zero,
		TotalInterest:        decimal.Zero,
		TotalAmountDue:       decimal.Zero,
		PrincipalAtLastCell:  decimal.Zero,
		FinalPeriodInterest:  decimal.Zero,
		CurrentYearInterest:  decimal.Zero,
		RepaymentCredit:      decimal.Zero,
		YearSummaries:        []YearSummary{},
		InterestPeriods:      []InterestPeriod{},
		Transactions:         []TransactionCell{},
	}
}

// SegmentInterest sums the interest of every audited period.
func (r *CalculationResult) SegmentInterest() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range r.InterestPeriods {
		sum = sum.Add(p.InterestAccrued)
	}
	return sum
}

// PeriodsForTransaction returns the periods closed by the given transaction cell.
func (r *CalculationResult) PeriodsForTransaction(id string) []InterestPeriod {
	var out []InterestPeriod
	for _, p := range r.InterestPeriods {
		if p.Kind == PeriodTransaction && p.TransactionID == id {
			out = append(out, p)
		}
	}
	return out
}

// Reconciles reports whether the totals satisfy the amount-due identity.
func (r *CalculationResult) Reconciles() bool {
	return r.TotalAmountDue.Equal(r.OutstandingPrincipal.Add(r.TotalInterest))
}

// Report bundles a ledger with its calculation for the output formatters.
type Report struct {
	Parties      Parties            `json:"parties"`
	Currency     string             `json:"currency"`
	GeneratedAt  time.Time          `json:"generated_at"`
	Transactions []Transaction      `json:"transactions"`
	Result       *CalculationResult `json:"result"`
}
