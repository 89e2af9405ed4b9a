package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveSearch(t *testing.T) {
	m := New()
	m.ObserveSearch("exhaustive", "complete", 3, 7, 2*time.Millisecond)
	m.ObserveSearch("exhaustive", "cancelled", 1, 100, time.Second)
	m.ObserveSearch("greedy", "complete", 0, 4, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.searches.WithLabelValues("exhaustive", "complete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.searches.WithLabelValues("exhaustive", "cancelled")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.combinations.WithLabelValues("exhaustive")))
	assert.Equal(t, 107.0, testutil.ToFloat64(m.evaluated.WithLabelValues("exhaustive")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.searchDuration))
}

func TestMetrics_ObserveCommit(t *testing.T) {
	m := New()
	m.ObserveCommit(3, nil)
	m.ObserveCommit(2, nil)
	m.ObserveCommit(9, errors.New("unknown transaction"))

	assert.Equal(t, 5.0, testutil.ToFloat64(m.settled))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.commits.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commits.WithLabelValues("error")))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.ObserveCommit(1, nil)

	path := filepath.Join(t.TempDir(), "settler.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "settler_transactions_settled_total 1")
}
