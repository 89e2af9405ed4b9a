package gateway

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fx-settlement/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "settler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	store.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return store
}

func combination(id, owner, cp string, total int64, members ...string) domain.Combination {
	c := domain.Combination{ID: id, Owner: owner, Counterparty: cp, Total: decimal.NewFromInt(total)}
	for _, m := range members {
		c.Members = append(c.Members, domain.Transaction{ID: m, Owner: owner, Counterparty: cp})
	}
	return c
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh store has nothing settled", func(t *testing.T) {
		store := newTestStore(t)

		ids, err := store.LoadSettled(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)

		records, err := store.ListSettlements(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("RecordSettlement persists combinations and members", func(t *testing.T) {
		store := newTestStore(t)

		err := store.RecordSettlement(ctx, []domain.Combination{
			combination("c1", "ACME", "EXP-A", 5000, "P3", "P1"),
			combination("c2", "ACME", "EXP-A", 5500, "P1", "P2", "P4"),
		})
		require.NoError(t, err)

		ids, err := store.LoadSettled(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"P1", "P2", "P3", "P4"}, ids)

		records, err := store.ListSettlements(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "c1", records[0].ID)
		assert.Equal(t, []string{"P3", "P1"}, records[0].TransactionIDs)
		assert.True(t, decimal.NewFromInt(5000).Equal(records[0].Total))
		assert.Equal(t, time.Unix(1_700_000_000, 0), records[0].AppliedAt)
		assert.Equal(t, []string{"P1", "P2", "P4"}, records[1].TransactionIDs)
	})

	t.Run("re-recording is a no-op", func(t *testing.T) {
		store := newTestStore(t)
		combo := combination("c1", "ACME", "EXP-A", 5000, "P1", "P3")

		require.NoError(t, store.RecordSettlement(ctx, []domain.Combination{combo}))
		require.NoError(t, store.RecordSettlement(ctx, []domain.Combination{combo}))

		ids, err := store.LoadSettled(ctx)
		require.NoError(t, err)
		assert.Len(t, ids, 2)

		records, err := store.ListSettlements(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("missing id is generated", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.RecordSettlement(ctx, []domain.Combination{combination("", "ACME", "EXP-A", 10, "P1")}))

		records, err := store.ListSettlements(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.NotEmpty(t, records[0].ID)
	})

	t.Run("state survives reopening", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settler.db")
		store, err := NewSQLiteStore(path)
		require.NoError(t, err)
		require.NoError(t, store.RecordSettlement(ctx, []domain.Combination{combination("c1", "ACME", "EXP-A", 10, "P7")}))
		require.NoError(t, store.Close())

		reopened, err := NewSQLiteStore(path)
		require.NoError(t, err)
		defer reopened.Close()

		ids, err := reopened.LoadSettled(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"P7"}, ids)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		store := newTestStore(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := store.RecordSettlement(cancelled, []domain.Combination{combination("c1", "ACME", "EXP-A", 10, "P1")})
		assert.Error(t, err)
	})
}
