// Package pool holds the in-memory working set of transactions and owns
// their settlement flags.
package pool

import (
	"fmt"
	"sync"
	"time"

	"fx-settlement/internal/domain"
)

// Pool is the authoritative, explicitly owned collection of transactions for
// one session. Reads share a pool-wide lock; settlement takes it exclusively,
// so a batch of searches never observes a half-applied commit.
type Pool struct {
	mu    sync.RWMutex
	txs   []domain.Transaction
	index map[string]int
	now   func() time.Time
}

// Option configures a Pool.
type Option func(*Pool)

// WithClock overrides the clock used for age computations.
func WithClock(now func() time.Time) Option {
	return func(p *Pool) { p.now = now }
}

// New builds a pool from normalized transactions, keeping their order.
func New(txs []domain.Transaction, opts ...Option) (*Pool, error) {
	p := &Pool{
		txs:   make([]domain.Transaction, 0, len(txs)),
		index: make(map[string]int, len(txs)),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, tx := range txs {
		if _, ok := p.index[tx.ID]; ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateTransaction, tx.ID)
		}
		if tx.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: %s has amount %s", domain.ErrInvalidAmount, tx.ID, tx.Amount)
		}
		p.index[tx.ID] = len(p.txs)
		p.txs = append(p.txs, tx)
	}
	return p, nil
}

// View is a read-only window onto the pool, valid only inside Read.
type View struct {
	p *Pool
}

// Filter returns the matching transactions in pool order.
func (v View) Filter(f domain.Filter) []domain.Transaction {
	return v.p.filterLocked(f)
}

// Pairs lists owner/counterparty pairs in order of first appearance.
func (v View) Pairs() []domain.Pair {
	return v.p.pairsLocked()
}

// Read runs fn while holding the shared lock, so everything fn reads comes
// from a single consistent state. Settlement blocks until fn returns.
func (p *Pool) Read(fn func(View) error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return fn(View{p: p})
}

// Filter returns a copy of the transactions matching f, in pool order.
func (p *Pool) Filter(f domain.Filter) []domain.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.filterLocked(f)
}

// Snapshot returns a copy of every transaction.
func (p *Pool) Snapshot() []domain.Transaction {
	return p.Filter(domain.Filter{})
}

// Len returns the number of transactions held.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.txs)
}

// Pairs lists owner/counterparty pairs in order of first appearance.
func (p *Pool) Pairs() []domain.Pair {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pairsLocked()
}

// Has reports whether id is present.
func (p *Pool) Has(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.index[id]
	return ok
}

// ApplySettlement marks every referenced transaction settled and returns how
// many changed state. If any id is unknown nothing is applied. Ids that are
// already settled are left as they are.
func (p *Pool) ApplySettlement(ids []string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var unknown []string
	for _, id := range ids {
		if _, ok := p.index[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return 0, &domain.UnknownTransactionError{IDs: unknown}
	}

	settled := 0
	for _, id := range ids {
		tx := &p.txs[p.index[id]]
		if !tx.Settled {
			tx.Settled = true
			settled++
		}
	}
	return settled, nil
}

// Remove withdraws transactions from the pool, e.g. when a corrected base is
// re-ingested without them. It returns how many were removed.
func (p *Pool) Remove(ids ...string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := p.index[id]; ok {
			drop[id] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return 0
	}

	kept := p.txs[:0]
	for _, tx := range p.txs {
		if _, ok := drop[tx.ID]; !ok {
			kept = append(kept, tx)
		}
	}
	p.txs = kept
	p.index = make(map[string]int, len(kept))
	for i, tx := range kept {
		p.index[tx.ID] = i
	}
	return len(drop)
}

// ListSettled returns the settled transactions in pool order.
func (p *Pool) ListSettled() []domain.Transaction {
	return p.Filter(domain.WithStatus(domain.StatusSettled))
}

// ListPendingOverAge returns pending transactions with a known date that have
// been open for more than thresholdDays.
func (p *Pool) ListPendingOverAge(thresholdDays int) []domain.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()

	now := p.now()
	var out []domain.Transaction
	for _, tx := range p.txs {
		if tx.Settled {
			continue
		}
		if age, ok := tx.AgeDays(now); ok && age > thresholdDays {
			out = append(out, tx)
		}
	}
	return out
}

// MeanOpenDays averages the age of every dated transaction, settled or not.
func (p *Pool) MeanOpenDays() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	now := p.now()
	total, n := 0, 0
	for _, tx := range p.txs {
		if age, ok := tx.AgeDays(now); ok {
			total += age
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// Now returns the pool clock's current time.
func (p *Pool) Now() time.Time {
	return p.now()
}

func (p *Pool) filterLocked(f domain.Filter) []domain.Transaction {
	out := make([]domain.Transaction, 0)
	for _, tx := range p.txs {
		if f.Match(tx) {
			out = append(out, tx)
		}
	}
	return out
}

func (p *Pool) pairsLocked() []domain.Pair {
	seen := make(map[domain.Pair]struct{})
	var pairs []domain.Pair
	for _, tx := range p.txs {
		pair := tx.Pair()
		if _, ok := seen[pair]; ok {
			continue
		}
		seen[pair] = struct{}{}
		pairs = append(pairs, pair)
	}
	return pairs
}
