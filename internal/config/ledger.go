package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chaitu5981/money-lender/internal/calculation"
	"github.com/chaitu5981/money-lender/internal/domain"
	"github.com/chaitu5981/money-lender/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ledgerFile is the on-disk YAML shape of a ledger. Amounts and dates are
// kept as strings so they round-trip exactly.
type ledgerFile struct {
	Parties       partiesRecord       `yaml:"parties,omitempty"`
	InterestRate  string              `yaml:"interest_rate"`
	ValuationDate string              `yaml:"valuation_date,omitempty"`
	Currency      string              `yaml:"currency,omitempty"`
	Transactions  []transactionRecord `yaml:"transactions"`
}

type partiesRecord struct {
	Lender   string `yaml:"lender,omitempty"`
	Borrower string `yaml:"borrower,omitempty"`
}

type transactionRecord struct {
	ID     string `yaml:"id"`
	Kind   string `yaml:"kind"`
	Amount string `yaml:"amount"`
	Date   string `yaml:"date"`
	Note   string `yaml:"note,omitempty"`
}

// LedgerParser handles reading, validating and writing ledger files
type LedgerParser struct {
	// Location anchors calendar dates; nil means time.Local.
	Location *time.Location
}

// NewLedgerParser creates a parser that reads dates in local time
func NewLedgerParser() *LedgerParser {
	return &LedgerParser{}
}

func (lp *LedgerParser) location() *time.Location {
	if lp.Location == nil {
		return time.Local
	}
	return lp.Location
}

// LoadFromFile loads and validates a ledger from a YAML file
func (lp *LedgerParser) LoadFromFile(filename string) (*domain.Ledger, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return lp.Parse(data)
}

// Parse decodes and validates ledger YAML
func (lp *LedgerParser) Parse(data []byte) (*domain.Ledger, error) {
	var file ledgerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ledger, err := lp.fromFile(&file)
	if err != nil {
		return nil, err
	}

	if err := lp.ValidateLedger(ledger); err != nil {
		return nil, fmt.Errorf("ledger validation failed: %w", err)
	}
	return ledger, nil
}

func (lp *LedgerParser) fromFile(file *ledgerFile) (*domain.Ledger, error) {
	ledger := &domain.Ledger{
		Parties:      domain.Parties{Lender: file.Parties.Lender, Borrower: file.Parties.Borrower},
		InterestRate: decimal.Zero,
		Currency:     file.Currency,
		Transactions: make([]domain.Transaction, 0, len(file.Transactions)),
	}

	if s := strings.TrimSpace(file.InterestRate); s != "" {
		rate, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid interest_rate %q: %w", file.InterestRate, err)
		}
		ledger.InterestRate = rate
	}

	if s := strings.TrimSpace(file.ValuationDate); s != "" {
		d, err := dateutil.ParseDate(s, lp.location())
		if err != nil {
			return nil, fmt.Errorf("invalid valuation_date: %w", err)
		}
		ledger.ValuationDate = &d
	}

	for i, rec := range file.Transactions {
		tx, err := lp.parseTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}
		ledger.Transactions = append(ledger.Transactions, tx)
	}
	return ledger, nil
}

func (lp *LedgerParser) parseTransaction(rec transactionRecord) (domain.Transaction, error) {
	kind, err := domain.ParseTransactionKind(rec.Kind)
	if err != nil {
		return domain.Transaction{}, err
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec.Amount), ",", ""))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid amount %q: %w", rec.Amount, err)
	}
	d, err := dateutil.ParseDate(rec.Date, lp.location())
	if err != nil {
		return domain.Transaction{}, err
	}
	return domain.Transaction{
		ID:     strings.TrimSpace(rec.ID),
		Kind:   kind,
		Amount: amount,
		Date:   d,
		Note:   rec.Note,
	}, nil
}

// ValidateLedger validates the loaded ledger
func (lp *LedgerParser) ValidateLedger(ledger *domain.Ledger) error {
	if ledger.InterestRate.IsNegative() {
		return fmt.Errorf("interest rate cannot be negative")
	}
	if ledger.InterestRate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("interest rate must be at most 100%% per year")
	}

	seen := make(map[string]bool, len(ledger.Transactions))
	for _, tx := range ledger.Transactions {
		if err := tx.Validate(); err != nil {
			return err
		}
		if seen[tx.ID] {
			return fmt.Errorf("duplicate transaction id %s", tx.ID)
		}
		seen[tx.ID] = true
	}

	// The first transaction must be money lent out.
	if err := calculation.ValidateTimeline(ledger.Transactions, calculation.BorrowalFirst); err != nil {
		return err
	}
	return nil
}

// Marshal encodes a ledger as YAML
func (lp *LedgerParser) Marshal(ledger *domain.Ledger) ([]byte, error) {
	file := ledgerFile{
		Parties:      partiesRecord{Lender: ledger.Parties.Lender, Borrower: ledger.Parties.Borrower},
		InterestRate: ledger.InterestRate.String(),
		Currency:     ledger.Currency,
		Transactions: make([]transactionRecord, 0, len(ledger.Transactions)),
	}
	if ledger.ValuationDate != nil {
		file.ValuationDate = dateutil.FormatDate(*ledger.ValuationDate)
	}
	for _, tx := range ledger.Transactions {
		file.Transactions = append(file.Transactions, transactionRecord{
			ID:     tx.ID,
			Kind:   string(tx.Kind),
			Amount: tx.Amount.String(),
			Date:   dateutil.FormatDate(tx.Date),
			Note:   tx.Note,
		})
	}
	return yaml.Marshal(&file)
}

// SaveToFile writes a ledger to a YAML file
func (lp *LedgerParser) SaveToFile(ledger *domain.Ledger, filename string) error {
	data, err := lp.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// CreateExampleLedger creates an example ledger
func (lp *LedgerParser) CreateExampleLedger() *domain.Ledger {
	loc := lp.location()
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, loc) }

	return &domain.Ledger{
		Parties:      domain.Parties{Lender: "Lender", Borrower: "Borrower"},
		InterestRate: decimal.NewFromInt(10),
		Currency:     "INR",
		Transactions: []domain.Transaction{
			{ID: "tx-0001", Kind: domain.KindBorrowal, Amount: decimal.NewFromInt(50000), Date: day(2023, 1, 1), Note: "initial loan"},
			{ID: "tx-0002", Kind: domain.KindBorrowal, Amount: decimal.NewFromInt(20000), Date: day(2023, 8, 15)},
			{ID: "tx-0003", Kind: domain.KindRepayment, Amount: decimal.NewFromInt(15000), Date: day(2024, 3, 10)},
			{ID: "tx-0004", Kind: domain.KindRepayment, Amount: decimal.NewFromInt(10000), Date: day(2024, 11, 1)},
		},
	}
}
