package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"fx-settlement/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS settlements (
    id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    counterparty TEXT NOT NULL,
    total TEXT NOT NULL,
    applied_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settlement_members (
    settlement_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    transaction_id TEXT NOT NULL,
    PRIMARY KEY (settlement_id, position),
    FOREIGN KEY (settlement_id) REFERENCES settlements(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS settled_transactions (
    transaction_id TEXT PRIMARY KEY,
    settlement_id TEXT NOT NULL,
    settled_at INTEGER NOT NULL,
    FOREIGN KEY (settlement_id) REFERENCES settlements(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_settlement_members_settlement_id ON settlement_members(settlement_id);
`

// SettlementRecord is one persisted, applied combination.
type SettlementRecord struct {
	ID             string          `json:"id"`
	Owner          string          `json:"owner"`
	Counterparty   string          `json:"counterparty"`
	Total          decimal.Decimal `json:"total"`
	AppliedAt      time.Time       `json:"applied_at"`
	TransactionIDs []string        `json:"transaction_ids"`
}

// SQLiteStore persists applied settlements so that settled state survives
// across runs over the same transaction base.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens the database at dbPath, creating parent directories
// and the schema as needed.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordSettlement stores the combinations and marks their members settled in
// a single SQL transaction. Re-recording a combination or an already settled
// transaction is a no-op.
func (s *SQLiteStore) RecordSettlement(ctx context.Context, combos []domain.Combination) error {
	if len(combos) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	appliedAt := s.now().Unix()
	for _, c := range combos {
		id := c.ID
		if id == "" {
			id = uuid.New().String()
		}

		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO settlements (id, owner, counterparty, total, applied_at) VALUES (?, ?, ?, ?, ?)`,
			id, c.Owner, c.Counterparty, c.Total.String(), appliedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement %s: %w", id, err)
		}

		for pos, txID := range c.MemberIDs() {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO settlement_members (settlement_id, position, transaction_id) VALUES (?, ?, ?)`,
				id, pos, txID,
			); err != nil {
				return fmt.Errorf("failed to insert member %s: %w", txID, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO settled_transactions (transaction_id, settlement_id, settled_at) VALUES (?, ?, ?)`,
				txID, id, appliedAt,
			); err != nil {
				return fmt.Errorf("failed to mark %s settled: %w", txID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadSettled returns every transaction id settled by a previous run.
func (s *SQLiteStore) LoadSettled(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT transaction_id FROM settled_transactions ORDER BY settled_at, transaction_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load settled transactions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan settled transaction: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListSettlements returns every persisted settlement, oldest first, with
// member ids in combination order.
func (s *SQLiteStore) ListSettlements(ctx context.Context) ([]SettlementRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner, counterparty, total, applied_at FROM settlements ORDER BY applied_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}

	var records []SettlementRecord
	for rows.Next() {
		var (
			r         SettlementRecord
			total     string
			appliedAt int64
		)
		if err := rows.Scan(&r.ID, &r.Owner, &r.Counterparty, &total, &appliedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		if r.Total, err = decimal.NewFromString(total); err != nil {
			rows.Close()
			return nil, fmt.Errorf("settlement %s has corrupt total %q: %w", r.ID, total, err)
		}
		r.AppliedAt = time.Unix(appliedAt, 0)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	rows.Close()

	for i := range records {
		ids, err := s.memberIDs(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].TransactionIDs = ids
	}
	return records, nil
}

func (s *SQLiteStore) memberIDs(ctx context.Context, settlementID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT transaction_id FROM settlement_members WHERE settlement_id = ? ORDER BY position`,
		settlementID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load members of %s: %w", settlementID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member of %s: %w", settlementID, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
