package ledger

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/chaitu5981/money-lender/internal/calculation"
	"github.com/chaitu5981/money-lender/internal/config"
	"github.com/chaitu5981/money-lender/internal/domain"
	"github.com/chaitu5981/money-lender/pkg/dateutil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TransactionInput carries the user-editable fields of a transaction.
type TransactionInput struct {
	Kind   domain.TransactionKind
	Amount decimal.Decimal
	Date   time.Time
	Note   string
}

// Service applies edits to a stored ledger and recalculates it. Every
// read-modify-write sequence runs under one mutex.
type Service struct {
	mu     sync.Mutex
	store  Store
	engine *calculation.AccrualEngine
	parser *config.LedgerParser
	log    zerolog.Logger

	nowFunc func() time.Time
	idFunc  func() string
}

// NewService wires a service over store. A nil engine gets the defaults.
func NewService(store Store, engine *calculation.AccrualEngine, log zerolog.Logger) *Service {
	if engine == nil {
		engine = calculation.NewAccrualEngine()
	}
	return &Service{
		store:   store,
		engine:  engine,
		parser:  config.NewLedgerParser(),
		log:     log.With().Str("component", "ledger").Logger(),
		nowFunc: time.Now,
		idFunc:  uuid.NewString,
	}
}

// SetNowFunc overrides the clock used for "today" (use only in tests).
func (s *Service) SetNowFunc(f func() time.Time) { s.nowFunc = f }

// SetIDFunc overrides transaction id generation (use only in tests).
func (s *Service) SetIDFunc(f func() string) { s.idFunc = f }

// Ledger returns the stored ledger.
func (s *Service) Ledger(ctx context.Context) (*domain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx)
}

// validate runs the file-level checks plus the engine's own tie-break rule.
func (s *Service) validate(l *domain.Ledger) error {
	if err := s.parser.ValidateLedger(l); err != nil {
		return err
	}
	if s.engine.Options.TieBreak != calculation.BorrowalFirst {
		return calculation.ValidateTimeline(l.Transactions, s.engine.Options.TieBreak)
	}
	return nil
}

// mutate loads the ledger, applies fn, validates and saves. Nothing is
// written when fn or validation fails.
func (s *Service) mutate(ctx context.Context, op string, fn func(l *domain.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to load ledger: %w", op, err)
	}
	if err := fn(l); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.validate(l); err != nil {
		s.log.Warn().Err(err).Str("op", op).Msg("edit rejected")
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.Save(ctx, l); err != nil {
		return fmt.Errorf("%s: failed to save ledger: %w", op, err)
	}
	return nil
}

func (s *Service) newTransaction(id string, in TransactionInput) domain.Transaction {
	return domain.Transaction{
		ID:     id,
		Kind:   in.Kind,
		Amount: in.Amount,
		Date:   dateutil.StartOfDay(in.Date),
		Note:   in.Note,
	}
}

// AddTransaction appends a new transaction with a generated id.
func (s *Service) AddTransaction(ctx context.Context, in TransactionInput) (domain.Transaction, error) {
	tx := s.newTransaction(s.idFunc(), in)
	err := s.mutate(ctx, "add transaction", func(l *domain.Ledger) error {
		l.Transactions = append(l.Transactions, tx)
		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	s.log.Info().Str("id", tx.ID).Str("kind", string(tx.Kind)).Str("amount", tx.Amount.String()).
		Str("date", dateutil.FormatDate(tx.Date)).Msg("transaction added")
	return tx, nil
}

// EditTransaction replaces the fields of an existing transaction.
func (s *Service) EditTransaction(ctx context.Context, id string, in TransactionInput) (domain.Transaction, error) {
	tx := s.newTransaction(id, in)
	err := s.mutate(ctx, "edit transaction", func(l *domain.Ledger) error {
		i := l.FindTransaction(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, id)
		}
		l.Transactions[i] = tx
		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	s.log.Info().Str("id", id).Msg("transaction updated")
	return tx, nil
}

// DeleteTransaction removes a transaction. Deleting the only borrowal ahead
// of a repayment is rejected like any other edit that breaks the timeline.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	err := s.mutate(ctx, "delete transaction", func(l *domain.Ledger) error {
		i := l.FindTransaction(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, id)
		}
		l.Transactions = append(l.Transactions[:i], l.Transactions[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("id", id).Msg("transaction deleted")
	return nil
}

// SetRate stores the annual interest rate in percent.
func (s *Service) SetRate(ctx context.Context, ratePercent decimal.Decimal) error {
	return s.mutate(ctx, "set rate", func(l *domain.Ledger) error {
		l.InterestRate = ratePercent
		return nil
	})
}

// SetValuationDate pins the calculation end date; nil means today.
func (s *Service) SetValuationDate(ctx context.Context, date *time.Time) error {
	return s.mutate(ctx, "set valuation date", func(l *domain.Ledger) error {
		if date == nil {
			l.ValuationDate = nil
			return nil
		}
		d := dateutil.StartOfDay(*date)
		l.ValuationDate = &d
		return nil
	})
}

// SetParties records the names of lender and borrower.
func (s *Service) SetParties(ctx context.Context, parties domain.Parties) error {
	return s.mutate(ctx, "set parties", func(l *domain.Ledger) error {
		l.Parties = parties
		return nil
	})
}

// ImportTransactions adds transactions in bulk. With replace the existing
// transactions are dropped first; otherwise ids must not collide.
func (s *Service) ImportTransactions(ctx context.Context, txs []domain.Transaction, replace bool) (int, error) {
	err := s.mutate(ctx, "import transactions", func(l *domain.Ledger) error {
		if replace {
			l.Transactions = l.Transactions[:0]
		}
		for _, tx := range txs {
			tx.Date = dateutil.StartOfDay(tx.Date)
			l.Transactions = append(l.Transactions, tx)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info().Int("count", len(txs)).Bool("replace", replace).Msg("transactions imported")
	return len(txs), nil
}

// ImportCSV reads transactions from r and imports them.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader, replace bool) (int, error) {
	txs, err := ReadTransactionsCSV(r, s.parser.Location)
	if err != nil {
		return 0, fmt.Errorf("import transactions: %w", err)
	}
	return s.ImportTransactions(ctx, txs, replace)
}

// ExportCSV writes the stored transactions in date order.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	l, err := s.Ledger(ctx)
	if err != nil {
		return err
	}
	return WriteTransactionsCSV(w, calculation.SortTransactions(l.Transactions, s.engine.Options.TieBreak))
}

// Clear removes all stored data.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	s.log.Info().Msg("ledger cleared")
	return nil
}

// Calculate runs the accrual engine over the stored ledger up to its
// valuation date (today when unset).
func (s *Service) Calculate(ctx context.Context) (*domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("calculate: failed to load ledger: %w", err)
	}

	now := s.nowFunc()
	valuation := l.EffectiveValuationDate(dateutil.StartOfDay(now))
	result, err := s.engine.ComputeAccrual(l.Transactions, l.InterestRate, valuation)
	if err != nil {
		return nil, fmt.Errorf("calculate: %w", err)
	}

	s.log.Debug().Str("valuation_date", dateutil.FormatDate(valuation)).
		Str("amount_due", result.TotalAmountDue.StringFixed(2)).Msg("ledger calculated")

	return &domain.Report{
		Parties:      l.Parties,
		Currency:     l.Currency,
		GeneratedAt:  now,
		Transactions: calculation.SortTransactions(l.Transactions, s.engine.Options.TieBreak),
		Result:       result,
	}, nil
}
