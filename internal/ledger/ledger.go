// Package ledger applies operator-approved combinations to the transaction
// pool and keeps the history of what was settled.
//
// Settlement is one-way: a transaction goes from pending to settled and never
// back. Reversal, if ever needed, belongs to a separate administrative
// operation, not to this package.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"fx-settlement/internal/domain"
)

// Journal persists applied combinations.
type Journal interface {
	RecordSettlement(ctx context.Context, combos []domain.Combination) error
}

// Ledger is the only component that settles transactions.
type Ledger struct {
	settler Settler
	journal Journal
	logger  *slog.Logger

	mu      sync.Mutex
	applied []domain.Combination
}

// New creates a ledger over settler. journal may be nil.
func New(settler Settler, journal Journal, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		settler: settler,
		journal: journal,
		logger:  logger,
	}
}

// Commit applies the selection of rs. Either every selected member is settled
// or none is. The applied combinations are returned with the number of
// transactions that changed state.
func (l *Ledger) Commit(ctx context.Context, rs *ResultSet) ([]domain.Combination, int, error) {
	selected := rs.Selected()
	if len(selected) == 0 {
		return nil, 0, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	settled, err := rs.Commit(l.settler)
	if err != nil {
		return nil, 0, fmt.Errorf("could not apply settlement: %w", err)
	}
	l.applied = append(l.applied, selected...)

	l.logger.Info("settlement applied",
		"combinations", len(selected),
		"transactions", len(rs.MemberIDs()),
		"newly_settled", settled,
	)

	if l.journal != nil {
		if err := l.journal.RecordSettlement(ctx, selected); err != nil {
			return selected, settled, fmt.Errorf("settlement applied but not persisted: %w", err)
		}
	}
	return selected, settled, nil
}

// Applied lists every combination committed through this ledger, in order.
func (l *Ledger) Applied() []domain.Combination {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Combination, len(l.applied))
	copy(out, l.applied)
	return out
}
