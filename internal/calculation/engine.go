package calculation

import (
	"fmt"
	"time"

	"github.com/chaitu5981/money-lender/internal/domain"
	"github.com/chaitu5981/money-lender/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Options tunes the policies of the accrual engine.
type Options struct {
	// CombineSameDay nets all transactions of a calendar day into one event.
	CombineSameDay bool
	// TieBreak orders same-day borrowals and repayments.
	TieBreak TieBreak
}

// DefaultOptions nets same-day transactions and applies borrowals first.
func DefaultOptions() Options {
	return Options{CombineSameDay: true, TieBreak: BorrowalFirst}
}

// AccrualEngine runs the annual-compounding interest simulation.
// It holds no per-calculation state and is safe for concurrent use.
type AccrualEngine struct {
	Options Options
	Logger  Logger
}

// NewAccrualEngine creates an engine with the default policies.
func NewAccrualEngine() *AccrualEngine {
	return &AccrualEngine{Options: DefaultOptions(), Logger: NopLogger{}}
}

// NewAccrualEngineWithOptions creates an engine with explicit policies.
func NewAccrualEngineWithOptions(opts Options) *AccrualEngine {
	return &AccrualEngine{Options: opts, Logger: NopLogger{}}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (ae *AccrualEngine) SetLogger(l Logger) {
	if l == nil {
		ae.Logger = NopLogger{}
		return
	}
	ae.Logger = l
}

func (ae *AccrualEngine) log() Logger {
	if ae.Logger == nil {
		return NopLogger{}
	}
	return ae.Logger
}

// ValidateTimeline checks every transaction and that the chronologically
// first one, under the given tie-break, is a borrowal.
func ValidateTimeline(txs []domain.Transaction, tb TieBreak) error {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return &domain.RejectedCalculationError{Reason: domain.ErrInvalidTransaction, TransactionID: tx.ID, Detail: err.Error()}
		}
	}
	if len(txs) == 0 {
		return nil
	}
	first := SortTransactions(txs, tb)[0]
	if first.Kind != domain.KindBorrowal {
		return &domain.RejectedCalculationError{Reason: domain.ErrInvalidTimeline, TransactionID: first.ID}
	}
	return nil
}

// simulation carries the running state of one ComputeAccrual call.
type simulation struct {
	rate       decimal.Decimal
	principal  decimal.Decimal
	credit     decimal.Decimal
	yearNumber int
	yearStart  time.Time
	yearOpen   decimal.Decimal
	yearTotal  decimal.Decimal
	lastDate   time.Time
	result     *domain.CalculationResult
}

// accrue books interest from the previous event up to date.
func (s *simulation) accrue(date time.Time, kind domain.PeriodKind, txID string) decimal.Decimal {
	if !s.principal.IsPositive() || !dateutil.Before(s.lastDate, date) {
		return decimal.Zero
	}
	pi := Compound(s.principal, s.rate, s.lastDate, date)
	s.result.InterestPeriods = append(s.result.InterestPeriods, domain.InterestPeriod{
		Kind:            kind,
		TransactionID:   txID,
		YearNumber:      s.yearNumber,
		FromDate:        s.lastDate,
		ToDate:          date,
		Days:            dateutil.DiffDaysExclusive(s.lastDate, date),
		PrincipalBefore: s.principal,
		InterestAccrued: pi.Interest,
	})
	return pi.Interest
}

// closeYear capitalises the year's interest at an anniversary.
func (s *simulation) closeYear(anniversary time.Time) {
	s.principal = s.principal.Add(s.yearTotal)
	s.result.YearSummaries = append(s.result.YearSummaries, domain.YearSummary{
		YearNumber:                s.yearNumber,
		FromDate:                  s.yearStart,
		ToDate:                    anniversary,
		OpeningPrincipal:          s.yearOpen,
		InterestForYear:           s.yearTotal,
		PrincipalAfterCompounding: s.principal,
	})
	s.yearNumber++
	s.yearStart = anniversary
	s.yearOpen = s.principal
	s.yearTotal = decimal.Zero
}

// apply books a transaction cell against the running principal. Repayments
// clamp the principal at zero; the excess is held as a credit that later
// borrowals consume first.
func (s *simulation) apply(cell *domain.TransactionCell) {
	if cell.Kind == domain.KindRepayment {
		if cell.Amount.GreaterThan(s.principal) {
			s.credit = s.credit.Add(cell.Amount.Sub(s.principal))
			s.principal = decimal.Zero
		} else {
			s.principal = s.principal.Sub(cell.Amount)
		}
	} else {
		amount := cell.Amount
		if s.credit.IsPositive() {
			used := decimal.Min(s.credit, amount)
			s.credit = s.credit.Sub(used)
			amount = amount.Sub(used)
		}
		s.principal = s.principal.Add(amount)
	}
	cell.YearNumber = s.yearNumber
	cell.PrincipalAfter = s.principal
}

// ComputeAccrual simulates the loan from its first transaction to the
// valuation date and returns totals with the full audit trail.
//
// A non-positive rate or an empty transaction list yields an all-zero result.
// Invalid transactions, a timeline that opens with a repayment and a
// negative amount due are returned as *domain.RejectedCalculationError.
func (ae *AccrualEngine) ComputeAccrual(transactions []domain.Transaction, ratePercent decimal.Decimal, valuationDate time.Time) (*domain.CalculationResult, error) {
	valuation := dateutil.StartOfDay(valuationDate)
	if !ratePercent.IsPositive() {
		ae.log().Debugf("rate %s is not positive; returning zero result", ratePercent.String())
		return domain.ZeroResult(ratePercent, valuation), nil
	}

	if err := ValidateTimeline(transactions, ae.Options.TieBreak); err != nil {
		ae.log().Warnf("rejecting calculation: %v", err)
		return nil, err
	}

	var included []domain.Transaction
	var excluded []string
	for _, tx := range transactions {
		if dateutil.Before(valuation, tx.Date) {
			excluded = append(excluded, tx.ID)
			continue
		}
		included = append(included, tx)
	}
	if len(excluded) > 0 {
		ae.log().Infof("%d transaction(s) after valuation date %s ignored", len(excluded), dateutil.FormatDate(valuation))
	}

	result := domain.ZeroResult(ratePercent, valuation)
	result.ExcludedTransactionIDs = excluded
	if len(included) == 0 {
		return result, nil
	}

	sorted := SortTransactions(included, ae.Options.TieBreak)
	var cells []domain.TransactionCell
	if ae.Options.CombineSameDay {
		cells = CombineSameDay(sorted)
	} else {
		cells = cellsFromTransactions(sorted)
	}

	first := cells[0].Date
	result.FirstTransactionDate = first
	checkpoints := AnniversaryCheckpoints(first, valuation)
	events := mergeEvents(cells, checkpoints, ae.Options.TieBreak)
	ae.log().Debugf("simulating %d transaction cell(s) and %d anniversary checkpoint(s)", len(cells), len(checkpoints))

	sim := &simulation{
		rate:       ratePercent,
		principal:  decimal.Zero,
		credit:     decimal.Zero,
		yearNumber: 1,
		yearStart:  first,
		yearOpen:   decimal.Zero,
		yearTotal:  decimal.Zero,
		lastDate:   first,
		result:     result,
	}

	for _, ev := range events {
		switch ev.typ {
		case eventCheckpoint:
			sim.yearTotal = sim.yearTotal.Add(sim.accrue(ev.date, domain.PeriodAnniversary, ""))
			sim.closeYear(ev.date)
		case eventTransaction:
			cell := &cells[ev.cell]
			sim.yearTotal = sim.yearTotal.Add(sim.accrue(ev.date, domain.PeriodTransaction, cell.ID))
			sim.apply(cell)
		}
		sim.lastDate = ev.date
	}

	finalInterest := sim.accrue(valuation, domain.PeriodFinal, "")

	borrowed, repaid := decimal.Zero, decimal.Zero
	for _, tx := range included {
		if tx.Kind == domain.KindRepayment {
			repaid = repaid.Add(tx.Amount)
		} else {
			borrowed = borrowed.Add(tx.Amount)
		}
	}

	result.Transactions = cells
	result.PrincipalAtLastCell = sim.principal
	result.FinalPeriodInterest = finalInterest
	result.CurrentYearInterest = sim.yearTotal.Add(finalInterest)
	result.RepaymentCredit = sim.credit
	result.TotalBorrowed = borrowed
	result.TotalRepaid = repaid
	result.OutstandingPrincipal = borrowed.Sub(repaid)
	result.TotalAmountDue = sim.principal.Add(result.CurrentYearInterest).Sub(sim.credit)
	result.TotalInterest = result.TotalAmountDue.Sub(result.OutstandingPrincipal)

	if result.TotalAmountDue.IsNegative() {
		err := &domain.RejectedCalculationError{Reason: domain.ErrNegativeAmountDue, AmountDue: result.TotalAmountDue}
		ae.log().Warnf("rejecting calculation: %v", err)
		return nil, err
	}
	if !result.Reconciles() {
		return nil, fmt.Errorf("internal error: amount due %s does not reconcile with principal %s + interest %s",
			result.TotalAmountDue.String(), result.OutstandingPrincipal.String(), result.TotalInterest.String())
	}

	ae.log().Infof("accrual to %s: principal=%s interest=%s due=%s over %d year(s)",
		dateutil.FormatDate(valuation),
		result.OutstandingPrincipal.StringFixed(2),
		result.TotalInterest.StringFixed(2),
		result.TotalAmountDue.StringFixed(2),
		len(result.YearSummaries))
	return result, nil
}
