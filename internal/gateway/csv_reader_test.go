package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fx-settlement/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVTransactionRepository_GetTransactions(t *testing.T) {
	tests := []struct {
		name     string
		csvData  [][]string
		expected []domain.Transaction
		wantErr  bool
	}{
		{
			name: "english headers",
			csvData: [][]string{
				{"id", "owner", "counterparty", "amount", "date", "settled"},
				{"P1", "ACME", "EXP-A", "1000.00", "2024-01-10", "Not done"},
				{"P2", "ACME", "EXP-A", "3000", "2024-02-01", "Done"},
			},
			expected: []domain.Transaction{
				{ID: "P1", Owner: "ACME", Counterparty: "EXP-A", Amount: decimal.NewFromInt(1000), Date: mustParseDate("2024-01-10")},
				{ID: "P2", Owner: "ACME", Counterparty: "EXP-A", Amount: decimal.NewFromInt(3000), Date: mustParseDate("2024-02-01"), Settled: true},
			},
		},
		{
			name: "spreadsheet headers",
			csvData: [][]string{
				{"Processo", "Empresa", "Exportador", "Valor", "Data", "Cambio_Fechado"},
				{"P9", "Globex", "EXP-B", "2500.50", "15/03/2024", "Feito"},
			},
			expected: []domain.Transaction{
				{ID: "P9", Owner: "Globex", Counterparty: "EXP-B", Amount: decimal.RequireFromString("2500.50"), Date: mustParseDate("2024-03-15"), Settled: true},
			},
		},
		{
			name: "settled column is optional",
			csvData: [][]string{
				{"id", "owner", "counterparty", "amount"},
				{"P1", "ACME", "EXP-A", "10"},
			},
			expected: []domain.Transaction{
				{ID: "P1", Owner: "ACME", Counterparty: "EXP-A", Amount: decimal.NewFromInt(10)},
			},
		},
		{
			name: "unparseable date becomes unknown",
			csvData: [][]string{
				{"id", "owner", "counterparty", "amount", "date"},
				{"P1", "ACME", "EXP-A", "10", "someday"},
			},
			expected: []domain.Transaction{
				{ID: "P1", Owner: "ACME", Counterparty: "EXP-A", Amount: decimal.NewFromInt(10)},
			},
		},
		{
			name: "rows with bad amounts or ids are dropped",
			csvData: [][]string{
				{"id", "owner", "counterparty", "amount", "date"},
				{"P1", "ACME", "EXP-A", "abc", "2024-01-10"},
				{"P2", "ACME", "EXP-A", "", "2024-01-10"},
				{"P3", "ACME", "EXP-A", "-5", "2024-01-10"},
				{"P4", "ACME", "EXP-A", "NaN", "2024-01-10"},
				{"", "ACME", "EXP-A", "5", "2024-01-10"},
				{"P5", "ACME", "EXP-A", "1,250.75", "2024-01-10"},
				{"P6", "ACME", "EXP-A", "1,5", "2024-01-10"},
				{"P7", "ACME", "EXP-A", "1.234,56", "2024-01-10"},
				{"P8", "ACME", "EXP-A", "12,34", "2024-01-10"},
				{"P9", "ACME", "EXP-A", "1234,567", "2024-01-10"},
				{"P10", "ACME", "EXP-A", "12,345,678.90", "2024-01-10"},
			},
			expected: []domain.Transaction{
				{ID: "P5", Owner: "ACME", Counterparty: "EXP-A", Amount: decimal.RequireFromString("1250.75"), Date: mustParseDate("2024-01-10")},
				{ID: "P10", Owner: "ACME", Counterparty: "EXP-A", Amount: decimal.RequireFromString("12345678.90"), Date: mustParseDate("2024-01-10")},
			},
		},
		{
			name: "empty file with header only",
			csvData: [][]string{
				{"id", "owner", "counterparty", "amount"},
			},
			expected: nil,
		},
		{
			name: "missing required column",
			csvData: [][]string{
				{"id", "owner", "amount"},
				{"P1", "ACME", "10"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile := createTempCSV(t, tt.csvData)

			repo := NewCSVTransactionRepository(nil)
			got, err := repo.GetTransactions(context.Background(), tmpFile)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.Len(t, got, len(tt.expected))
			for i, want := range tt.expected {
				assert.True(t, compareTransactions(got[i], want), "transaction[%d] = %+v, want %+v", i, got[i], want)
			}
		})
	}
}

func TestCSVTransactionRepository_GetTransactions_FileErrors(t *testing.T) {
	repo := NewCSVTransactionRepository(nil)
	ctx := context.Background()

	t.Run("file not found", func(t *testing.T) {
		_, err := repo.GetTransactions(ctx, filepath.Join(t.TempDir(), "nonexistent.csv"))
		assert.Error(t, err)
	})

	t.Run("file with no header", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.csv")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		_, err := repo.GetTransactions(ctx, path)
		assert.Error(t, err)
	})
}

func TestCSVTransactionRepository_ReadTransactions_Cancelled(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,owner,counterparty,amount\n")
	for i := 0; i < 2500; i++ {
		fmt.Fprintf(&b, "P%d,ACME,EXP-A,10\n", i)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCSVTransactionRepository(nil).ReadTransactions(ctx, strings.NewReader(b.String()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-05-01", mustParseDate("2024-05-01")},
		{"01/05/2024", mustParseDate("2024-05-01")},
		{"2024-05-01T10:00:00Z", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"05-01-2024", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, tt.want.Equal(parseDate(tt.in)))
		})
	}
}

// Helper functions

func createTempCSV(t testing.TB, data [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	writer := csv.NewWriter(file)
	require.NoError(t, writer.WriteAll(data))
	return path
}

func mustParseDate(dateStr string) time.Time {
	t, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

func compareTransactions(got, want domain.Transaction) bool {
	return got.ID == want.ID &&
		got.Owner == want.Owner &&
		got.Counterparty == want.Counterparty &&
		got.Amount.Equal(want.Amount) &&
		got.Date.Equal(want.Date) &&
		got.Settled == want.Settled
}

// Benchmark tests

func BenchmarkGetTransactions(b *testing.B) {
	data := [][]string{{"id", "owner", "counterparty", "amount", "date", "settled"}}
	for i := 0; i < 1000; i++ {
		data = append(data, []string{fmt.Sprintf("P%d", i), "ACME", "EXP-A", "150.00", "2025-09-01", "Not done"})
	}
	tmpFile := createTempCSV(b, data)

	repo := NewCSVTransactionRepository(nil)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := repo.GetTransactions(ctx, tmpFile); err != nil {
			b.Fatalf("Error in benchmark: %v", err)
		}
	}
}
