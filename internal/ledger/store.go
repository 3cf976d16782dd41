package ledger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/chaitu5981/money-lender/internal/config"
	"github.com/chaitu5981/money-lender/internal/domain"
	"github.com/shopspring/decimal"
)

// Store persists a single ledger. The service depends on this interface,
// not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go Store
type Store interface {
	Load(ctx context.Context) (*domain.Ledger, error)
	Save(ctx context.Context, ledger *domain.Ledger) error
	Clear(ctx context.Context) error
}

// NewEmptyLedger returns a ledger with no rate and no transactions.
func NewEmptyLedger() *domain.Ledger {
	return &domain.Ledger{InterestRate: decimal.Zero, Currency: "INR", Transactions: []domain.Transaction{}}
}

// FileStore keeps the ledger in a YAML file. A missing file reads as an
// empty ledger.
type FileStore struct {
	Path   string
	Parser *config.LedgerParser
}

// NewFileStore creates a YAML-backed store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path, Parser: config.NewLedgerParser()}
}

func (fs *FileStore) Load(ctx context.Context) (*domain.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ledger, err := fs.Parser.LoadFromFile(fs.Path)
	if errors.Is(err, os.ErrNotExist) {
		return NewEmptyLedger(), nil
	}
	if err != nil {
		return nil, err
	}
	return ledger, nil
}

func (fs *FileStore) Save(ctx context.Context, ledger *domain.Ledger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fs.Parser.SaveToFile(ledger, fs.Path)
}

func (fs *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(fs.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", fs.Path, err)
	}
	return nil
}

// MemoryStore keeps a ledger in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	ledger *domain.Ledger
}

// NewMemoryStore creates a store seeded with ledger (nil means empty).
func NewMemoryStore(ledger *domain.Ledger) *MemoryStore {
	return &MemoryStore{ledger: cloneLedger(ledger)}
}

func (ms *MemoryStore) Load(ctx context.Context) (*domain.Ledger, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.ledger == nil {
		return NewEmptyLedger(), nil
	}
	return cloneLedger(ms.ledger), nil
}

func (ms *MemoryStore) Save(ctx context.Context, ledger *domain.Ledger) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.ledger = cloneLedger(ledger)
	return nil
}

func (ms *MemoryStore) Clear(ctx context.Context) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.ledger = nil
	return nil
}

func cloneLedger(l *domain.Ledger) *domain.Ledger {
	if l == nil {
		return nil
	}
	out := *l
	out.Transactions = append([]domain.Transaction(nil), l.Transactions...)
	if l.ValuationDate != nil {
		d := *l.ValuationDate
		out.ValuationDate = &d
	}
	return &out
}
