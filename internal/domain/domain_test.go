package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionKind(t *testing.T) {
	tests := []struct {
		in      string
		want    TransactionKind
		wantErr bool
	}{
		{in: "borrowal", want: KindBorrowal},
		{in: " Receipt ", want: KindBorrowal},
		{in: "+", want: KindBorrowal},
		{in: "repayment", want: KindRepayment},
		{in: "PAYMENT", want: KindRepayment},
		{in: "r", want: KindRepayment},
		{in: "gift", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTransactionKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{ID: "b1", Kind: KindBorrowal, Amount: decimal.NewFromInt(10), Date: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, valid.Validate())

	cases := map[string]func(tx *Transaction){
		"id is required":          func(tx *Transaction) { tx.ID = " " },
		"unknown kind":            func(tx *Transaction) { tx.Kind = "gift" },
		"amount must be positive": func(tx *Transaction) { tx.Amount = decimal.Zero },
		"date is required":        func(tx *Transaction) { tx.Date = time.Time{} },
	}
	for want, mutate := range cases {
		tx := valid
		mutate(&tx)
		assert.ErrorContains(t, tx.Validate(), want)
	}
}

func TestSignedAmount(t *testing.T) {
	b := Transaction{Kind: KindBorrowal, Amount: decimal.NewFromInt(5)}
	r := Transaction{Kind: KindRepayment, Amount: decimal.NewFromInt(5)}
	assert.Equal(t, "5", b.SignedAmount().String())
	assert.Equal(t, "-5", r.SignedAmount().String())
	assert.Equal(t, 1, KindBorrowal.Sign())
	assert.Equal(t, -1, KindRepayment.Sign())
}

func TestLedgerHelpers(t *testing.T) {
	l := Ledger{Transactions: []Transaction{
		{ID: "b1", Kind: KindBorrowal, Amount: decimal.NewFromInt(100)},
		{ID: "r1", Kind: KindRepayment, Amount: decimal.NewFromInt(30)},
		{ID: "b2", Kind: KindBorrowal, Amount: decimal.NewFromInt(20)},
	}}
	assert.Equal(t, 1, l.FindTransaction("r1"))
	assert.Equal(t, -1, l.FindTransaction("zz"))

	borrowed, repaid := l.Totals()
	assert.Equal(t, "120", borrowed.String())
	assert.Equal(t, "30", repaid.String())

	now := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, now, l.EffectiveValuationDate(now))
	pinned := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.ValuationDate = &pinned
	assert.Equal(t, pinned, l.EffectiveValuationDate(now))
}

func TestRejectedCalculationError(t *testing.T) {
	err := error(&RejectedCalculationError{Reason: ErrInvalidTimeline, TransactionID: "r1"})
	assert.True(t, errors.Is(err, ErrInvalidTimeline))
	assert.Equal(t, "calculation rejected: invalid timeline: first transaction must be a borrowal: r1", err.Error())

	neg := &RejectedCalculationError{Reason: ErrNegativeAmountDue, AmountDue: decimal.RequireFromString("-12.345")}
	assert.Contains(t, neg.Error(), "(-12.35)")

	var target *RejectedCalculationError
	require.True(t, errors.As(error(neg), &target))
	assert.Equal(t, ErrNegativeAmountDue, target.Reason)
}

func TestZeroResultReconciles(t *testing.T) {
	r := ZeroResult(decimal.NewFromInt(10), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, r.Reconciles())
	assert.True(t, r.SegmentInterest().IsZero())
	assert.NotNil(t, r.InterestPeriods)
	assert.Empty(t, r.PeriodsForTransaction("x"))
}
