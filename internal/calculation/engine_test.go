package calculation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chaitu5981/money-lender/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func borrow(id, amount string, d time.Time) domain.Transaction {
	return domain.Transaction{ID: id, Amount: dec(amount), Date: d, Kind: domain.KindBorrowal}
}

func repay(id, amount string, d time.Time) domain.Transaction {
	return domain.Transaction{ID: id, Amount: dec(amount), Date: d, Kind: domain.KindRepayment}
}

// assertReconciles checks the amount-due identity and that the audited
// segments add up to the reported interest.
func assertReconciles(t *testing.T, r *domain.CalculationResult) {
	t.Helper()
	assert.True(t, r.Reconciles(), "due %s != principal %s + interest %s", r.TotalAmountDue, r.OutstandingPrincipal, r.TotalInterest)
	assert.True(t, r.SegmentInterest().Equal(r.TotalInterest), "segments %s != interest %s", r.SegmentInterest(), r.TotalInterest)
}

func TestComputeAccrualSingleBorrowalScenario(t *testing.T) {
	engine := NewAccrualEngine()
	txs := []domain.Transaction{borrow("b1", "50000", date(2023, 1, 1))}

	r, err := engine.ComputeAccrual(txs, dec("10"), date(2024, 6, 1))
	require.NoError(t, err)

	require.Len(t, r.YearSummaries, 1)
	y1 := r.YearSummaries[0]
	assert.Equal(t, 1, y1.YearNumber)
	assert.Equal(t, date(2023, 1, 1), y1.FromDate)
	assert.Equal(t, date(2024, 1, 1), y1.ToDate)
	assert.Equal(t, "5069.44", y1.InterestForYear.StringFixed(2))
	assert.Equal(t, "55069.44", y1.PrincipalAfterCompounding.StringFixed(2))

	require.Len(t, r.InterestPeriods, 2)
	final := r.InterestPeriods[1]
	assert.Equal(t, domain.PeriodFinal, final.Kind)
	assert.Equal(t, 152, final.Days)
	assert.Equal(t, "2325.15", final.InterestAccrued.StringFixed(2))
	assert.Equal(t, "2325.15", r.FinalPeriodInterest.StringFixed(2))

	assert.True(t, r.OutstandingPrincipal.Equal(dec("50000")))
	assert.Equal(t, "57394.60", r.TotalAmountDue.StringFixed(2))
	assert.Equal(t, "7394.60", r.TotalInterest.StringFixed(2))
	assertReconciles(t, r)
}

func TestComputeAccrualAnnualCompoundingTwoYears(t *testing.T) {
	engine := NewAccrualEngine()
	txs := []domain.Transaction{borrow("b1", "100000", date(2023, 1, 1))}

	r, err := engine.ComputeAccrual(txs, dec("12"), date(2025, 1, 1))
	require.NoError(t, err)
	require.Len(t, r.YearSummaries, 2)

	year1 := SimpleInterest(dec("100000"), dec("12"), 365)
	assert.True(t, r.YearSummaries[0].InterestForYear.Equal(year1))
	assert.True(t, r.YearSummaries[1].OpeningPrincipal.Equal(dec("100000").Add(year1)))

	year2 := SimpleInterest(dec("100000").Add(year1), dec("12"), 366)
	assert.True(t, r.YearSummaries[1].InterestForYear.Equal(year2))
	assert.Equal(t, "25851.00", r.TotalInterest.StringFixed(2))

	// valuation on the anniversary leaves no final period
	assert.True(t, r.FinalPeriodInterest.IsZero())
	for _, p := range r.InterestPeriods {
		assert.NotEqual(t, domain.PeriodFinal, p.Kind)
	}
	assertReconciles(t, r)
}

func TestComputeAccrualMidYearTransactions(t *testing.T) {
	engine := NewAccrualEngine()
	txs := []domain.Transaction{
		repay("r1", "3000", date(2024, 3, 1)),
		borrow("b2", "5000", date(2023, 7, 1)),
		borrow("b1", "10000", date(2023, 1, 1)),
	}

	r, err := engine.ComputeAccrual(txs, dec("12"), date(2024, 6, 1))
	require.NoError(t, err)

	require.Len(t, r.InterestPeriods, 4)
	p := r.InterestPeriods
	assert.Equal(t, domain.PeriodTransaction, p[0].Kind)
	assert.Equal(t, "b2", p[0].TransactionID)
	assert.Equal(t, 181, p[0].Days)
	assert.Equal(t, "603.33", p[0].InterestAccrued.StringFixed(2))
	assert.True(t, p[0].PrincipalBefore.Equal(dec("10000")))

	assert.Equal(t, domain.PeriodAnniversary, p[1].Kind)
	assert.Equal(t, 184, p[1].Days)
	assert.Equal(t, "920.00", p[1].InterestAccrued.StringFixed(2))
	assert.Equal(t, 1, p[1].YearNumber)

	assert.Equal(t, "r1", p[2].TransactionID)
	assert.Equal(t, 2, p[2].YearNumber)
	assert.Equal(t, "16523.33", p[2].PrincipalBefore.StringFixed(2))
	assert.Equal(t, "330.47", p[2].InterestAccrued.StringFixed(2))

	assert.Equal(t, domain.PeriodFinal, p[3].Kind)
	assert.Equal(t, "13523.33", p[3].PrincipalBefore.StringFixed(2))
	assert.Equal(t, "414.72", p[3].InterestAccrued.StringFixed(2))

	require.Len(t, r.YearSummaries, 1)
	assert.Equal(t, "1523.33", r.YearSummaries[0].InterestForYear.StringFixed(2))

	require.Len(t, r.Transactions, 3)
	assert.Equal(t, "13523.33", r.Transactions[2].PrincipalAfter.StringFixed(2))
	assert.Equal(t, "13523.33", r.PrincipalAtLastCell.StringFixed(2))

	assert.True(t, r.OutstandingPrincipal.Equal(dec("12000")))
	assert.Equal(t, "14268.52", r.TotalAmountDue.StringFixed(2))
	assert.Equal(t, "2268.52", r.TotalInterest.StringFixed(2))
	assert.Equal(t, "745.18", r.CurrentYearInterest.StringFixed(2))
	assertReconciles(t, r)
}

func TestComputeAccrualRepaymentOnAnniversary(t *testing.T) {
	engine := NewAccrualEngine()
	txs := []domain.Transaction{
		borrow("b1", "10000", date(2023, 1, 1)),
		repay("r1", "2000", date(2024, 1, 1)),
	}
	r, err := engine.ComputeAccrual(txs, dec("10"), date(2024, 7, 1))
	require.NoError(t, err)

	// the year closes before the repayment is applied
	require.Len(t, r.YearSummaries, 1)
	assert.Equal(t, "11013.89", r.YearSummaries[0].PrincipalAfterCompounding.StringFixed(2))
	assert.Equal(t, 2, r.Transactions[1].YearNumber)
	assert.Equal(t, "9013.89", r.Transactions[1].PrincipalAfter.StringFixed(2))
	assert.Empty(t, r.PeriodsForTransaction("r1"))

	assert.Equal(t, "455.70", r.FinalPeriodInterest.StringFixed(2))
	assert.Equal(t, "9469.59", r.TotalAmountDue.StringFixed(2))
	assert.Equal(t, "1469.59", r.TotalInterest.StringFixed(2))
	assertReconciles(t, r)
}

func TestComputeAccrualSameDayNetting(t *testing.T) {
	engine := NewAccrualEngine()
	txs := []domain.Transaction{
		repay("r1", "400", date(2024, 1, 1)),
		borrow("b1", "1000", date(2024, 1, 1)),
	}
	r, err := engine.ComputeAccrual(txs, dec("12"), date(2024, 4, 1))
	require.NoError(t, err)

	require.Len(t, r.Transactions, 1)
	cell := r.Transactions[0]
	assert.True(t, strings.HasPrefix(cell.ID, "combined-2024-01-01-"))
	assert.ElementsMatch(t, []string{"b1", "r1"}, cell.SourceIDs)
	assert.Equal(t, domain.KindBorrowal, cell.Kind)
	assert.True(t, cell.Amount.Equal(dec("600")))

	// no zero-length period between the two entries
	require.Len(t, r.InterestPeriods, 1)
	assert.Equal(t, 91, r.InterestPeriods[0].Days)
	assert.Equal(t, "18.20", r.TotalInterest.StringFixed(2))
	assert.True(t, r.OutstandingPrincipal.Equal(dec("600")))
	assertReconciles(t, r)
}

func TestComputeAccrualWithoutNettingNeverAccruesZeroDays(t *testing.T) {
	engine := NewAccrualEngineWithOptions(Options{CombineSameDay: false, TieBreak: BorrowalFirst})
	txs := []domain.Transaction{
		borrow("b1", "1000", date(2024, 1, 1)),
		repay("r1", "400", date(2024, 1, 1)),
	}
	r, err := engine.ComputeAccrual(txs, dec("12"), date(2024, 4, 1))
	require.NoError(t, err)
	require.Len(t, r.Transactions, 2)
	require.Len(t, r.InterestPeriods, 1)
	for _, p := range r.InterestPeriods {
		assert.Positive(t, p.Days)
	}
	assert.Equal(t, "18.20", r.TotalInterest.StringFixed(2))
}

func TestComputeAccrualTieBreakPolicy(t *testing.T) {
	txs := []domain.Transaction{
		borrow("b1", "1000", date(2024, 1, 1)),
		repay("r1", "1200", date(2024, 2, 1)),
		borrow("b2", "500", date(2024, 2, 1)),
	}

	borrowFirst := NewAccrualEngineWithOptions(Options{TieBreak: BorrowalFirst})
	r, err := borrowFirst.ComputeAccrual(txs, dec("12"), date(2024, 3, 1))
	require.NoError(t, err)
	require.Len(t, r.Transactions, 3)
	assert.Equal(t, "b2", r.Transactions[1].ID)
	assert.True(t, r.Transactions[1].PrincipalAfter.Equal(dec("1500")))
	assert.True(t, r.Transactions[2].PrincipalAfter.Equal(dec("300")))

	repayFirst := NewAccrualEngineWithOptions(Options{TieBreak: RepaymentFirst})
	r2, err := repayFirst.ComputeAccrual(txs, dec("12"), date(2024, 3, 1))
	require.NoError(t, err)
	require.Len(t, r2.Transactions, 3)
	assert.Equal(t, "r1", r2.Transactions[1].ID)
	assert.True(t, r2.Transactions[1].PrincipalAfter.IsZero())
	assert.True(t, r2.Transactions[2].PrincipalAfter.Equal(dec("300")))
	assert.True(t, r2.RepaymentCredit.IsZero())

	assert.True(t, r.TotalAmountDue.Equal(r2.TotalAmountDue))
	assertReconciles(t, r)
	assertReconciles(t, r2)
}

func TestComputeAccrualRejectsRepaymentFirst(t *testing.T) {
	engine := NewAccrualEngine()
	txs := []domain.Transaction{
		repay("r1", "100", date(2023, 12, 31)),
		borrow("b1", "1000", date(2024, 1, 1)),
	}
	r, err := engine.ComputeAccrual(txs, dec("10"), date(2024, 6, 1))
	assert.Nil(t, r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTimeline))

	var rejected *domain.RejectedCalculationError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "r1", rejected.TransactionID)
}

func TestComputeAccrualSameDayBorrowalOpensTimeline(t *testing.T) {
	engine := NewAccrualEngine()
	txs := []domain.Transaction{
		repay("r1", "100", date(2024, 1, 1)),
		borrow("b1", "1000", date(2024, 1, 1)),
	}
	_, err := engine.ComputeAccrual(txs, dec("10"), date(2024, 6, 1))
	assert.NoError(t, err)
}

func TestComputeAccrualRejectsInvalidTransactions(t *testing.T) {
	engine := NewAccrualEngine()
	tests := []struct {
		name string
		tx   domain.Transaction
	}{
		{"zero amount", borrow("b1", "0", date(2024, 1, 1))},
		{"negative amount", borrow("b1", "-5", date(2024, 1, 1))},
		{"missing id", borrow("", "5", date(2024, 1, 1))},
		{"unknown kind", domain.Transaction{ID: "x", Amount: dec("5"), Date: date(2024, 1, 1), Kind: "gift"}},
		{"missing date", domain.Transaction{ID: "x", Amount: dec("5"), Kind: domain.KindBorrowal}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.ComputeAccrual([]domain.Transaction{tt.tx}, dec("10"), date(2024, 6, 1))
			assert.ErrorIs(t, err, domain.ErrInvalidTransaction)
		})
	}
}

func TestComputeAccrualNegativeAmountDue(t *testing.T) {
	engine := NewAccrualEngine()
	txs := []domain.Transaction{
		borrow("b1", "1000", date(2024, 1, 1)),
		repay("r1", "5000", date(2024, 2, 1)),
	}
	r, err := engine.ComputeAccrual(txs, dec("12"), date(2024, 6, 1))
	assert.Nil(t, r)
	assert.ErrorIs(t, err, domain.ErrNegativeAmountDue)

	var rejected *domain.RejectedCalculationError
	require.True(t, errors.As(err, &rejected))
	assert.True(t, rejected.AmountDue.IsNegative())
}

func TestComputeAccrualOverpaymentCreditConsumedByBorrowal(t *testing.T) {
	engine := NewAccrualEngine()
	txs := []domain.Transaction{
		borrow("b1", "1000", date(2024, 1, 1)),
		repay("r1", "1200", date(2024, 1, 31)),
		borrow("b2", "500", date(2024, 3, 1)),
	}
	r, err := engine.ComputeAccrual(txs, dec("12"), date(2024, 4, 1))
	require.NoError(t, err)

	assert.True(t, r.Transactions[1].PrincipalAfter.IsZero())
	assert.True(t, r.Transactions[2].PrincipalAfter.Equal(dec("300")))
	assert.True(t, r.RepaymentCredit.IsZero())
	assert.True(t, r.OutstandingPrincipal.Equal(dec("300")))
	assert.Equal(t, "313.10", r.TotalAmountDue.StringFixed(2))
	assert.Equal(t, "13.10", r.TotalInterest.StringFixed(2))
	assertReconciles(t, r)
}

func TestComputeAccrualZeroPrincipalGapAccruesNothing(t *testing.T) {
	engine := NewAccrualEngine()
	txs := []domain.Transaction{
		borrow("b1", "1000", date(2024, 1, 1)),
		repay("r1", "1000", date(2024, 1, 31)),
		borrow("b2", "500", date(2024, 3, 1)),
	}
	r, err := engine.ComputeAccrual(txs, dec("12"), date(2024, 4, 1))
	require.NoError(t, err)
	assert.Empty(t, r.PeriodsForTransaction("b2"))
	assert.Equal(t, "515.17", r.TotalAmountDue.StringFixed(2))
	assertReconciles(t, r)
}

func TestComputeAccrualEmptyInput(t *testing.T) {
	engine := NewAccrualEngine()
	r, err := engine.ComputeAccrual(nil, dec("10"), date(2024, 6, 1))
	require.NoError(t, err)
	assert.True(t, r.OutstandingPrincipal.IsZero())
	assert.True(t, r.TotalInterest.IsZero())
	assert.True(t, r.TotalAmountDue.IsZero())
	assert.NotNil(t, r.YearSummaries)
	assert.Empty(t, r.YearSummaries)
	assert.NotNil(t, r.InterestPeriods)
	assert.Empty(t, r.InterestPeriods)
}

func TestComputeAccrualNonPositiveRate(t *testing.T) {
	engine := NewAccrualEngine()
	txs := []domain.Transaction{borrow("b1", "50000", date(2023, 1, 1))}
	for _, rate := range []decimal.Decimal{decimal.Zero, dec("-5")} {
		r, err := engine.ComputeAccrual(txs, rate, date(2024, 6, 1))
		require.NoError(t, err)
		assert.True(t, r.TotalAmountDue.IsZero())
		assert.True(t, r.OutstandingPrincipal.IsZero())
		assert.Empty(t, r.YearSummaries)
	}
}

func TestComputeAccrualExcludesFutureTransactions(t *testing.T) {
	engine := NewAccrualEngine()
	txs := []domain.Transaction{
		borrow("b1", "1000", date(2024, 1, 1)),
		borrow("b2", "500", date(2025, 1, 1)),
	}
	r, err := engine.ComputeAccrual(txs, dec("12"), date(2024, 7, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, r.ExcludedTransactionIDs)
	assert.True(t, r.OutstandingPrincipal.Equal(dec("1000")))
	assertReconciles(t, r)

	r, err = engine.ComputeAccrual(txs, dec("12"), date(2023, 7, 1))
	require.NoError(t, err)
	assert.True(t, r.TotalAmountDue.IsZero())
	assert.Len(t, r.ExcludedTransactionIDs, 2)
}

func TestComputeAccrualLeapDayStart(t *testing.T) {
	engine := NewAccrualEngine()
	txs := []domain.Transaction{borrow("b1", "10000", date(2024, 2, 29))}
	r, err := engine.ComputeAccrual(txs, dec("10"), date(2026, 3, 1))
	require.NoError(t, err)

	require.Len(t, r.YearSummaries, 2)
	assert.Equal(t, date(2025, 2, 28), r.YearSummaries[0].ToDate)
	assert.Equal(t, date(2026, 2, 28), r.YearSummaries[1].ToDate)
	assert.Equal(t, "1013.89", r.YearSummaries[0].InterestForYear.StringFixed(2))
	assert.Equal(t, "1116.69", r.YearSummaries[1].InterestForYear.StringFixed(2))
	assert.Equal(t, "12133.94", r.TotalAmountDue.StringFixed(2))
	assertReconciles(t, r)
}

func TestComputeAccrualIsPure(t *testing.T) {
	engine := NewAccrualEngine()
	txs := []domain.Transaction{
		repay("r1", "3000", date(2024, 3, 1)),
		borrow("b1", "10000", date(2023, 1, 1)),
	}
	before := append([]domain.Transaction(nil), txs...)
	r1, err := engine.ComputeAccrual(txs, dec("12"), date(2024, 6, 1))
	require.NoError(t, err)
	r2, err := engine.ComputeAccrual(txs, dec("12"), date(2024, 6, 1))
	require.NoError(t, err)

	assert.Equal(t, before, txs)
	assert.True(t, r1.TotalAmountDue.Equal(r2.TotalAmountDue))
	assert.Equal(t, len(r1.InterestPeriods), len(r2.InterestPeriods))
}

func TestSetLoggerNil(t *testing.T) {
	engine := NewAccrualEngine()
	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger)
}
