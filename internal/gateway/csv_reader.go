package gateway

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fx-settlement/internal/domain"
)

// Canonical column names. The original spreadsheet headers are accepted as aliases.
const (
	colID           = "id"
	colOwner        = "owner"
	colCounterparty = "counterparty"
	colAmount       = "amount"
	colDate         = "date"
	colSettled      = "settled"
)

var headerAliases = map[string]string{
	"id":             colID,
	"processo":       colID,
	"process":        colID,
	"owner":          colOwner,
	"empresa":        colOwner,
	"company":        colOwner,
	"counterparty":   colCounterparty,
	"exportador":     colCounterparty,
	"exporter":       colCounterparty,
	"amount":         colAmount,
	"valor":          colAmount,
	"value":          colAmount,
	"date":           colDate,
	"data":           colDate,
	"settled":        colSettled,
	"cambio_fechado": colSettled,
	"status":         colSettled,
}

var requiredColumns = []string{colID, colOwner, colCounterparty, colAmount}

// thousandsGrouped matches amounts whose only commas are thousands separators.
// Decimal-comma values such as "1,5" or "1.234,56" do not match and are dropped.
var thousandsGrouped = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)

var dateLayouts = []string{time.DateOnly, time.RFC3339, "02/01/2006", "2006-01-02 15:04:05"}

// CSVTransactionRepository implements the TransactionRepository interface for CSV files.
type CSVTransactionRepository struct {
	logger *slog.Logger
}

// NewCSVTransactionRepository creates a new repository instance.
func NewCSVTransactionRepository(logger *slog.Logger) *CSVTransactionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVTransactionRepository{logger: logger}
}

// GetTransactions reads and normalizes a transaction base. Rows whose amount
// is missing, non-numeric or negative, or whose id is empty, are dropped.
func (r *CSVTransactionRepository) GetTransactions(ctx context.Context, path string) ([]domain.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction file %s: %w", path, err)
	}
	defer file.Close()

	txs, err := r.ReadTransactions(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return txs, nil
}

// ReadTransactions parses CSV content with a header row.
func (r *CSVTransactionRepository) ReadTransactions(ctx context.Context, in io.Reader) ([]domain.Transaction, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var transactions []domain.Transaction
	dropped := 0
	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("error reading row %d: %w", row, err)
		}

		if row%1000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		tx, reason := parseRecord(record, columns)
		if reason != "" {
			dropped++
			r.logger.Debug("dropping row", "row", row, "reason", reason)
			continue
		}
		transactions = append(transactions, tx)
	}

	if dropped > 0 {
		r.logger.Warn("rows dropped during ingestion", "dropped", dropped, "kept", len(transactions))
	}
	return transactions, nil
}

func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if canonical, ok := headerAliases[key]; ok {
			if _, dup := columns[canonical]; !dup {
				columns[canonical] = i
			}
		}
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func field(record []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseRecord returns the transaction or, when the row must be dropped, the reason.
func parseRecord(record []string, columns map[string]int) (domain.Transaction, string) {
	id := field(record, columns, colID)
	if id == "" {
		return domain.Transaction{}, "missing id"
	}

	raw := field(record, columns, colAmount)
	amount, err := parseAmount(raw)
	if err != nil {
		return domain.Transaction{}, fmt.Sprintf("amount %q: %v", raw, err)
	}

	return domain.Transaction{
		ID:           id,
		Owner:        field(record, columns, colOwner),
		Counterparty: field(record, columns, colCounterparty),
		Amount:       amount,
		Date:         parseDate(field(record, columns, colDate)),
		Settled:      domain.ParseSettlementStatus(field(record, columns, colSettled)) == domain.StatusSettled,
	}, ""
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, errors.New("empty")
	}
	cleaned := raw
	if strings.Contains(raw, ",") {
		if !thousandsGrouped.MatchString(raw) {
			return decimal.Zero, errors.New("not a number")
		}
		cleaned = strings.ReplaceAll(raw, ",", "")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, errors.New("not a number")
	}
	if amount.IsNegative() {
		return decimal.Zero, errors.New("negative")
	}
	return amount, nil
}

// parseDate returns the zero time when the value is absent or unparseable.
func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
