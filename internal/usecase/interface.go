package usecase

import (
	"context"
	"time"

	"fx-settlement/internal/domain"
)

// TransactionRepository defines the interface for fetching transaction data.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go
type TransactionRepository interface {
	GetTransactions(ctx context.Context, path string) ([]domain.Transaction, error)
}

// SettlementStore persists applied settlements across sessions.
type SettlementStore interface {
	LoadSettled(ctx context.Context) ([]string, error)
	RecordSettlement(ctx context.Context, combos []domain.Combination) error
}

// Recorder receives search and commit observations.
type Recorder interface {
	ObserveSearch(strategy, status string, found, evaluated int, elapsed time.Duration)
	ObserveCommit(settled int, err error)
}
