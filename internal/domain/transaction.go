package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes money lent out from money paid back.
type TransactionKind string

const (
	// KindBorrowal increases the outstanding principal.
	KindBorrowal TransactionKind = "borrowal"
	// KindRepayment decreases the outstanding principal.
	KindRepayment TransactionKind = "repayment"
)

// ParseTransactionKind accepts the canonical names plus the receipt/payment
// vocabulary used by older ledgers.
func ParseTransactionKind(s string) (TransactionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "borrowal", "borrow", "receipt", "b", "+":
		return KindBorrowal, nil
	case "repayment", "repay", "payment", "r", "-":
		return KindRepayment, nil
	default:
		return "", fmt.Errorf("unknown transaction kind %q", s)
	}
}

// Sign returns +1 for borrowals and -1 for repayments.
func (k TransactionKind) Sign() int {
	if k == KindRepayment {
		return -1
	}
	return 1
}

// Valid reports whether k is one of the known kinds.
func (k TransactionKind) Valid() bool {
	return k == KindBorrowal || k == KindRepayment
}

// Transaction is a single dated cash-flow event between lender and borrower.
// The calculation engine only reads transactions; it never mutates them.
type Transaction struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Kind   TransactionKind `json:"kind"`
	Note   string          `json:"note,omitempty"`
}

// SignedAmount returns the amount with the sign of its kind applied.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindRepayment {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Validate checks the per-transaction invariants.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("transaction id is required")
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("transaction %s: unknown kind %q", t.ID, t.Kind)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("transaction %s: amount must be positive, got %s", t.ID, t.Amount.String())
	}
	if t.Date.IsZero() {
		return fmt.Errorf("transaction %s: date is required", t.ID)
	}
	return nil
}
