package gateway

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fx-settlement/internal/domain"
)

var (
	combinationHeader = []string{"owner", "counterparty", "transactions", "dates", "total"}
	transactionHeader = []string{"id", "owner", "counterparty", "amount", "date", "age_days", "status"}
)

// CSVReportWriter exports combinations and transaction listings as CSV.
type CSVReportWriter struct{}

func NewCSVReportWriter() *CSVReportWriter {
	return &CSVReportWriter{}
}

// WriteCombinations writes one row per combination, member ids and dates joined by ", ".
func (w *CSVReportWriter) WriteCombinations(out io.Writer, combos []domain.Combination) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(combinationHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, c := range combos {
		record := []string{
			c.Owner,
			c.Counterparty,
			strings.Join(c.MemberIDs(), ", "),
			strings.Join(c.MemberDates(), ", "),
			c.Total.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write combination %s: %w", c.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTransactions writes a listing of transactions with their age as of now.
// The age column is empty when the date is unknown.
func (w *CSVReportWriter) WriteTransactions(out io.Writer, txs []domain.Transaction, now time.Time) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(transactionHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, tx := range txs {
		age := ""
		if days, ok := tx.AgeDays(now); ok {
			age = strconv.Itoa(days)
		}
		record := []string{
			tx.ID,
			tx.Owner,
			tx.Counterparty,
			tx.Amount.StringFixed(2),
			tx.DateString(),
			age,
			tx.Status().Label(),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write transaction %s: %w", tx.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile creates path, including parent directories, and hands it to write.
func WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
