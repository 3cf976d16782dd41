package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chaitu5981/money-lender/internal/domain"
	"github.com/chaitu5981/money-lender/pkg/dateutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CSVHeader is the column layout used by import and export.
var CSVHeader = []string{"id", "kind", "amount", "date", "note"}

// ReadTransactionsCSV parses transactions from r. The header row is
// required; the note column is optional and a blank id gets a fresh UUID.
func ReadTransactionsCSV(r io.Reader, loc *time.Location) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 4 || !strings.EqualFold(strings.TrimSpace(header[0]), "id") {
		return nil, fmt.Errorf("unexpected header %v, want %s", header, strings.Join(CSVHeader, ","))
	}

	var transactions []domain.Transaction
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("error reading record on line %d: %w", line, err)
		}
		if len(record) < 4 {
			return nil, fmt.Errorf("line %d: expected at least 4 columns, got %d", line, len(record))
		}

		kind, err := domain.ParseTransactionKind(record[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(record[2]), ",", ""))
		if err != nil {
			return nil, fmt.Errorf("line %d: could not parse amount '%s': %w", line, record[2], err)
		}
		date, err := dateutil.ParseDate(record[3], loc)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		tx := domain.Transaction{
			ID:     strings.TrimSpace(record[0]),
			Kind:   kind,
			Amount: amount,
			Date:   date,
		}
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}
		if len(record) > 4 {
			tx.Note = strings.TrimSpace(record[4])
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// WriteTransactionsCSV writes transactions to w in CSVHeader layout.
func WriteTransactionsCSV(w io.Writer, transactions []domain.Transaction) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, tx := range transactions {
		record := []string{tx.ID, string(tx.Kind), tx.Amount.String(), dateutil.FormatDate(tx.Date), tx.Note}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write transaction %s: %w", tx.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
