// Package matcher finds groups of open transactions whose total falls within a
// tolerance band around a settlement target.
//
// Two strategies share one contract:
//   - Exhaustive enumerates subsets by increasing size, then lexicographically
//     by candidate position, and returns the first MaxResults that qualify.
//     It is exponential and bounded by Options.MaxExhaustiveCandidates.
//   - Greedy packs candidates sorted by amount, one combination per pass,
//     never reusing a transaction within a call. Fast, but it can miss
//     combinations Exhaustive would find.
//
// Results are the first ones found under the strategy's order, not the best.
package matcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fx-settlement/internal/domain"
)

// DefaultMaxExhaustiveCandidates bounds exhaustive enumeration at about a million subsets.
const DefaultMaxExhaustiveCandidates = 20

// Strategy selects the search algorithm.
type Strategy int

const (
	Exhaustive Strategy = iota
	Greedy
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case Exhaustive:
		return "exhaustive"
	case Greedy:
		return "greedy"
	default:
		return "unknown"
	}
}

// ParseStrategy parses a strategy name, case-insensitively.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "exhaustive", "":
		return Exhaustive, nil
	case "greedy":
		return Greedy, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q", name)
	}
}

// Status tells whether a search ran to completion.
type Status int

const (
	StatusComplete Status = iota
	// StatusCancelled marks a partial result: the context ended mid-search.
	StatusCancelled
)

func (s Status) String() string {
	if s == StatusCancelled {
		return "cancelled"
	}
	return "complete"
}

// Query holds the parameters of one search.
type Query struct {
	Target     decimal.Decimal
	Tolerance  decimal.Decimal
	MaxResults int
	Strategy   Strategy
}

// Result is the outcome of one search call.
type Result struct {
	Combinations []domain.Combination
	Status       Status
	// Evaluated counts subsets (Exhaustive) or candidate visits (Greedy).
	Evaluated int
}

// Options configures an Engine.
type Options struct {
	MaxExhaustiveCandidates int
	Clock                   func() time.Time
	NewID                   func() string
}

// Engine runs searches. It holds no per-search state and is safe for concurrent use.
type Engine struct {
	maxExhaustive int
	now           func() time.Time
	newID         func() string
}

// NewEngine creates an engine, filling unset options with defaults.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		maxExhaustive: opts.MaxExhaustiveCandidates,
		now:           opts.Clock,
		newID:         opts.NewID,
	}
	if e.maxExhaustive <= 0 {
		e.maxExhaustive = DefaultMaxExhaustiveCandidates
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	return e
}

// outcome is what a strategy reports back: member positions per combination.
type outcome struct {
	groups    [][]int
	cancelled bool
	evaluated int
}

// Search finds up to q.MaxResults combinations of candidates within the band
// of q.Target. Candidates must be open transactions of a single pair. A
// cancelled context yields the partial result with StatusCancelled, not an error.
func (e *Engine) Search(ctx context.Context, candidates []domain.Transaction, q Query) (Result, error) {
	band, err := domain.NewBand(q.Target, q.Tolerance)
	if err != nil {
		return Result{}, err
	}
	if err := validateCandidates(candidates); err != nil {
		return Result{}, err
	}
	if len(candidates) == 0 || q.MaxResults <= 0 {
		return Result{Combinations: []domain.Combination{}}, nil
	}

	amounts := make([]decimal.Decimal, len(candidates))
	for i, c := range candidates {
		amounts[i] = c.Amount
	}

	var out outcome
	switch q.Strategy {
	case Exhaustive:
		if len(candidates) > e.maxExhaustive {
			return Result{}, fmt.Errorf("%w: %d candidates, limit %d", domain.ErrCandidateLimitExceeded, len(candidates), e.maxExhaustive)
		}
		out = searchExhaustive(ctx, amounts, band, q.MaxResults)
	case Greedy:
		out = searchGreedy(ctx, amounts, band, q.MaxResults)
	default:
		return Result{}, fmt.Errorf("%w: unknown strategy %d", domain.ErrInvalidQuery, q.Strategy)
	}

	res := Result{
		Combinations: make([]domain.Combination, 0, len(out.groups)),
		Evaluated:    out.evaluated,
	}
	if out.cancelled {
		res.Status = StatusCancelled
	}
	for _, group := range out.groups {
		res.Combinations = append(res.Combinations, e.combine(candidates, group))
	}
	return res, nil
}

func (e *Engine) combine(candidates []domain.Transaction, positions []int) domain.Combination {
	members := make([]domain.Transaction, len(positions))
	total := decimal.Zero
	for i, pos := range positions {
		members[i] = candidates[pos]
		total = total.Add(candidates[pos].Amount)
	}
	return domain.Combination{
		ID:           e.newID(),
		Owner:        members[0].Owner,
		Counterparty: members[0].Counterparty,
		Members:      members,
		Total:        total,
		GeneratedAt:  e.now(),
	}
}

func validateCandidates(candidates []domain.Transaction) error {
	if len(candidates) == 0 {
		return nil
	}
	pair := candidates[0].Pair()
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if c.Pair() != pair {
			return fmt.Errorf("%w: %s mixes %s/%s with %s/%s", domain.ErrInvalidCandidateSet,
				c.ID, c.Owner, c.Counterparty, pair.Owner, pair.Counterparty)
		}
		if c.Settled {
			return fmt.Errorf("%w: %s is already settled", domain.ErrInvalidCandidateSet, c.ID)
		}
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("%w: %s appears twice", domain.ErrInvalidCandidateSet, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

func cancelled(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}
