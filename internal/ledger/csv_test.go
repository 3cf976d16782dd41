package ledger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/chaitu5981/money-lender/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTransactionsCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr string
	}{
		{name: "four columns", input: "id,kind,amount,date\nb1,borrowal,100,2023-01-01\n", wantLen: 1},
		{name: "aliases and note", input: "id,kind,amount,date,note\nb1,receipt,100,2023-01-01,cash\nr1,payment,50,2023-02-01,\n", wantLen: 2},
		{name: "header only", input: "id,kind,amount,date\n", wantLen: 0},
		{name: "empty input", input: "", wantErr: "failed to read header"},
		{name: "wrong header", input: "amount,date\n1,2\n", wantErr: "unexpected header"},
		{name: "bad amount", input: "id,kind,amount,date\nb1,borrowal,ten,2023-01-01\n", wantErr: "line 2: could not parse amount"},
		{name: "bad date", input: "id,kind,amount,date\nb1,borrowal,10,01/02/2023\n", wantErr: "line 2: invalid date"},
		{name: "bad kind", input: "id,kind,amount,date\nb1,gift,10,2023-01-01\n", wantErr: "unknown transaction kind"},
		{name: "negative amount", input: "id,kind,amount,date\nb1,borrowal,-10,2023-01-01\n", wantErr: "amount must be positive"},
		{name: "short row", input: "id,kind,amount,date\nb1,borrowal,10\n", wantErr: "expected at least 4 columns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := ReadTransactionsCSV(strings.NewReader(tt.input), time.UTC)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, txs, tt.wantLen)
		})
	}
}

func TestReadTransactionsCSV_GeneratesMissingIDs(t *testing.T) {
	txs, err := ReadTransactionsCSV(strings.NewReader("id,kind,amount,date\n,borrowal,100,2023-01-01\n"), time.UTC)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Len(t, txs[0].ID, 36)
	assert.Equal(t, domain.KindBorrowal, txs[0].Kind)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), txs[0].Date)
}

func TestWriteTransactionsCSV_RoundTrip(t *testing.T) {
	in := []domain.Transaction{
		{ID: "b1", Kind: domain.KindBorrowal, Amount: decimal.RequireFromString("1500.50"), Date: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), Note: "rent, deposit"},
		{ID: "r1", Kind: domain.KindRepayment, Amount: decimal.NewFromInt(700), Date: time.Date(2023, 5, 9, 0, 0, 0, 0, time.UTC)},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsCSV(&buf, in))
	assert.Contains(t, buf.String(), `"rent, deposit"`)

	out, err := ReadTransactionsCSV(&buf, time.UTC)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, in[0].Amount.Equal(out[0].Amount))
	assert.Equal(t, in[0].Note, out[0].Note)
	assert.Equal(t, in[1].Date, out[1].Date)
}
