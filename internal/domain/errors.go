package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidTimeline means the earliest transaction is a repayment.
	ErrInvalidTimeline = errors.New("invalid timeline: first transaction must be a borrowal")
	// ErrInvalidTransaction means a transaction broke a per-record invariant.
	ErrInvalidTransaction = errors.New("invalid transaction")
	// ErrNegativeAmountDue means repayments exceed borrowals plus interest.
	ErrNegativeAmountDue = errors.New("total amount due is negative")
	// ErrTransactionNotFound is returned by ledger edits for unknown ids.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// RejectedCalculationError is returned instead of a result when the engine
// refuses a calculation. It unwraps to one of the sentinel errors above.
type RejectedCalculationError struct {
	Reason        error
	TransactionID string
	AmountDue     decimal.Decimal
	Detail        string
}

func (e *RejectedCalculationError) Error() string {
	switch {
	case errors.Is(e.Reason, ErrNegativeAmountDue):
		return fmt.Sprintf("calculation rejected: %v (%s)", e.Reason, e.AmountDue.StringFixed(2))
	case e.TransactionID != "" && e.Detail != "":
		return fmt.Sprintf("calculation rejected: %v: %s: %s", e.Reason, e.TransactionID, e.Detail)
	case e.TransactionID != "":
		return fmt.Sprintf("calculation rejected: %v: %s", e.Reason, e.TransactionID)
	case e.Detail != "":
		return fmt.Sprintf("calculation rejected: %v: %s", e.Reason, e.Detail)
	default:
		return fmt.Sprintf("calculation rejected: %v", e.Reason)
	}
}

func (e *RejectedCalculationError) Unwrap() error { return e.Reason }
