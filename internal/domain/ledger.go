package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Parties names the two sides of the loan. Purely descriptive.
type Parties struct {
	Lender   string `json:"lender,omitempty"`
	Borrower string `json:"borrower,omitempty"`
}

// Ledger is everything persisted about one informal loan.
type Ledger struct {
	Parties Parties `json:"parties"`
	// InterestRate is the annual rate as a percentage (10 means 10%).
	InterestRate decimal.Decimal `json:"interest_rate"`
	// ValuationDate pins the calculation end date; nil means "today".
	ValuationDate *time.Time    `json:"valuation_date,omitempty"`
	Currency      string        `json:"currency,omitempty"`
	Transactions  []Transaction `json:"transactions"`
}

// FindTransaction returns the index of the transaction with the given id, or -1.
func (l *Ledger) FindTransaction(id string) int {
	for i := range l.Transactions {
		if l.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}

// Totals sums borrowals and repayments separately.
func (l *Ledger) Totals() (borrowed, repaid decimal.Decimal) {
	borrowed, repaid = decimal.Zero, decimal.Zero
	for _, tx := range l.Transactions {
		if tx.Kind == KindRepayment {
			repaid = repaid.Add(tx.Amount)
		} else {
			borrowed = borrowed.Add(tx.Amount)
		}
	}
	return borrowed, repaid
}

// EffectiveValuationDate resolves the pinned valuation date against now.
func (l *Ledger) EffectiveValuationDate(now time.Time) time.Time {
	if l.ValuationDate != nil && !l.ValuationDate.IsZero() {
		return *l.ValuationDate
	}
	return now
}
