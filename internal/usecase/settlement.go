package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fx-settlement/internal/domain"
	"fx-settlement/internal/ledger"
	"fx-settlement/internal/matcher"
	"fx-settlement/internal/pool"
)

const pairStatusFailed = "failed"

// Options tunes how searches run.
type Options struct {
	MaxExhaustiveCandidates int
	// Timeout bounds one Search call; zero means no deadline.
	Timeout time.Duration
	// Workers bounds the number of pairs searched concurrently.
	Workers int
	Clock   func() time.Time
	NewID   func() string
}

// SearchRequest scopes one search. Empty Owners or Counterparties means all.
// MaxResults applies to each owner/counterparty pair separately.
type SearchRequest struct {
	Owners         []string
	Counterparties []string
	Target         decimal.Decimal
	Tolerance      decimal.Decimal
	MaxResults     int
	Strategy       matcher.Strategy
}

// SettlementUseCase orchestrates ingestion, search and settlement of a single
// transaction base.
type SettlementUseCase struct {
	repo     TransactionRepository
	store    SettlementStore
	recorder Recorder
	logger   *slog.Logger
	engine   *matcher.Engine
	opts     Options

	mu       sync.Mutex
	pool     *pool.Pool
	ledger   *ledger.Ledger
	results  *ledger.ResultSet
	restored int
}

// NewSettlementUseCase creates a new instance of the usecase. store and
// recorder may be nil.
func NewSettlementUseCase(repo TransactionRepository, store SettlementStore, recorder Recorder, logger *slog.Logger, opts Options) *SettlementUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &SettlementUseCase{
		repo:     repo,
		store:    store,
		recorder: recorder,
		logger:   logger,
		engine: matcher.NewEngine(matcher.Options{
			MaxExhaustiveCandidates: opts.MaxExhaustiveCandidates,
			Clock:                   opts.Clock,
			NewID:                   opts.NewID,
		}),
		opts: opts,
	}
}

// Load ingests the transaction base at path, replacing any previous session
// state, and restores settlement flags persisted by earlier runs.
func (uc *SettlementUseCase) Load(ctx context.Context, path string) (domain.IngestSummary, error) {
	txs, err := uc.repo.GetTransactions(ctx, path)
	if err != nil {
		return domain.IngestSummary{}, fmt.Errorf("could not get transactions: %w", err)
	}

	p, err := pool.New(txs, pool.WithClock(uc.opts.Clock))
	if err != nil {
		return domain.IngestSummary{}, fmt.Errorf("could not build transaction pool: %w", err)
	}

	restored := 0
	var journal ledger.Journal
	if uc.store != nil {
		journal = uc.store
		restored, err = uc.restore(ctx, p)
		if err != nil {
			return domain.IngestSummary{}, err
		}
	}

	uc.mu.Lock()
	uc.pool = p
	uc.ledger = ledger.New(p, journal, uc.logger)
	uc.results = ledger.NewResultSet(nil)
	uc.restored = restored
	uc.mu.Unlock()

	summary, err := uc.Summary()
	if err != nil {
		return domain.IngestSummary{}, err
	}
	uc.logger.Info("transactions loaded",
		"path", path,
		"total", summary.TotalTransactions,
		"pending", summary.PendingTransactions,
		"restored_settled", restored,
	)
	return summary, nil
}

func (uc *SettlementUseCase) restore(ctx context.Context, p *pool.Pool) (int, error) {
	ids, err := uc.store.LoadSettled(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not load persisted settlements: %w", err)
	}

	known := make([]string, 0, len(ids))
	var missing []string
	for _, id := range ids {
		if p.Has(id) {
			known = append(known, id)
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		uc.logger.Warn("persisted settlements reference unknown transactions", "count", len(missing), "ids", missing)
	}

	restored, err := p.ApplySettlement(known)
	if err != nil {
		return 0, fmt.Errorf("could not restore settlements: %w", err)
	}
	return restored, nil
}

// Search finds combinations for every owner/counterparty pair in scope and
// replaces the current result set with them, in pair order. The whole batch
// reads one consistent pool state. A timeout or cancellation yields the
// partial results with status cancelled.
func (uc *SettlementUseCase) Search(ctx context.Context, req SearchRequest) (domain.SearchReport, error) {
	p, err := uc.currentPool()
	if err != nil {
		return domain.SearchReport{}, err
	}

	band, err := domain.NewBand(req.Target, req.Tolerance)
	if err != nil {
		return domain.SearchReport{}, err
	}

	if uc.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.opts.Timeout)
		defer cancel()
	}

	query := matcher.Query{
		Target:     req.Target,
		Tolerance:  req.Tolerance,
		MaxResults: req.MaxResults,
		Strategy:   req.Strategy,
	}

	var (
		outcomes []domain.PairOutcome
		results  []matcher.Result
	)
	err = p.Read(func(v pool.View) error {
		pairs := inScope(v.Pairs(), req.Owners, req.Counterparties)
		candidates := make([][]domain.Transaction, 0, len(pairs))
		for _, pair := range pairs {
			pending := v.Filter(domain.PendingFor(pair))
			if len(pending) == 0 {
				continue
			}
			outcomes = append(outcomes, domain.PairOutcome{Pair: pair, Candidates: len(pending)})
			candidates = append(candidates, pending)
		}
		results = make([]matcher.Result, len(candidates))

		var g errgroup.Group
		g.SetLimit(uc.opts.Workers)
		for i := range candidates {
			g.Go(func() error {
				start := time.Now()
				res, err := uc.engine.Search(ctx, candidates[i], query)
				if err != nil {
					outcomes[i].Status = pairStatusFailed
					outcomes[i].Error = err.Error()
					uc.logger.Warn("pair search failed",
						"owner", outcomes[i].Pair.Owner,
						"counterparty", outcomes[i].Pair.Counterparty,
						"error", err,
					)
					return nil
				}
				results[i] = res
				outcomes[i].Found = len(res.Combinations)
				outcomes[i].Status = res.Status.String()
				uc.recorder.ObserveSearch(query.Strategy.String(), res.Status.String(), len(res.Combinations), res.Evaluated, time.Since(start))
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return domain.SearchReport{}, err
	}

	status := matcher.StatusComplete
	combos := make([]domain.Combination, 0)
	for _, res := range results {
		if res.Status == matcher.StatusCancelled {
			status = matcher.StatusCancelled
		}
		combos = append(combos, res.Combinations...)
	}

	uc.mu.Lock()
	uc.results = ledger.NewResultSet(combos)
	uc.mu.Unlock()

	uc.logger.Info("search finished",
		"strategy", query.Strategy.String(),
		"pairs", len(outcomes),
		"found", len(combos),
		"status", status.String(),
	)

	if outcomes == nil {
		outcomes = make([]domain.PairOutcome, 0)
	}
	return domain.SearchReport{
		Strategy:     query.Strategy.String(),
		Target:       req.Target,
		Tolerance:    req.Tolerance,
		Band:         band,
		Status:       status.String(),
		Pairs:        outcomes,
		Combinations: domain.Summarize(combos),
	}, nil
}

// Select marks combinations of the latest search for settlement and returns
// the deduplicated member ids they cover.
func (uc *SettlementUseCase) Select(indices []int) ([]string, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.pool == nil {
		return nil, domain.ErrNoPool
	}
	return uc.results.Select(indices)
}

// Commit settles the selected combinations. An empty selection is a no-op.
// On success the selection is cleared. If the settlement was applied but could not be persisted, the
// report is returned together with the error.
func (uc *SettlementUseCase) Commit(ctx context.Context) (domain.CommitReport, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.pool == nil {
		return domain.CommitReport{}, domain.ErrNoPool
	}

	ids := uc.results.MemberIDs()
	if len(ids) == 0 {
		return domain.CommitReport{TransactionIDs: ids}, nil
	}

	applied, settled, err := uc.ledger.Commit(ctx, uc.results)
	uc.recorder.ObserveCommit(settled, err)
	if applied == nil && err != nil {
		return domain.CommitReport{}, err
	}

	report := domain.CommitReport{
		Combinations:   len(applied),
		TransactionIDs: ids,
		NewlySettled:   settled,
	}
	if _, clearErr := uc.results.Select(nil); clearErr != nil && err == nil {
		err = clearErr
	}
	return report, err
}

// ListCombinations returns the combinations of the latest search, in index order.
func (uc *SettlementUseCase) ListCombinations() ([]domain.Combination, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.pool == nil {
		return nil, domain.ErrNoPool
	}
	return uc.results.Combinations(), nil
}

// ListApplied returns every combination committed in this session.
func (uc *SettlementUseCase) ListApplied() ([]domain.Combination, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.pool == nil {
		return nil, domain.ErrNoPool
	}
	return uc.ledger.Applied(), nil
}

// ListSettled returns the settled transactions.
func (uc *SettlementUseCase) ListSettled() ([]domain.Transaction, error) {
	p, err := uc.currentPool()
	if err != nil {
		return nil, err
	}
	return p.ListSettled(), nil
}

// ListPendingOverAge returns pending transactions open for more than days.
func (uc *SettlementUseCase) ListPendingOverAge(days int) ([]domain.Transaction, error) {
	p, err := uc.currentPool()
	if err != nil {
		return nil, err
	}
	return p.ListPendingOverAge(days), nil
}

// Snapshot returns every transaction with its current settlement flag.
func (uc *SettlementUseCase) Snapshot() ([]domain.Transaction, error) {
	p, err := uc.currentPool()
	if err != nil {
		return nil, err
	}
	return p.Snapshot(), nil
}

// Summary computes headline figures over the loaded base.
func (uc *SettlementUseCase) Summary() (domain.IngestSummary, error) {
	p, err := uc.currentPool()
	if err != nil {
		return domain.IngestSummary{}, err
	}
	uc.mu.Lock()
	restored := uc.restored
	uc.mu.Unlock()

	txs := p.Snapshot()
	owners := make(map[string]struct{})
	summary := domain.IngestSummary{
		TotalTransactions: len(txs),
		RestoredSettled:   restored,
		Pairs:             len(p.Pairs()),
		MeanOpenDays:      p.MeanOpenDays(),
	}
	for _, tx := range txs {
		owners[tx.Owner] = struct{}{}
		if tx.Settled {
			summary.SettledTransactions++
		} else {
			summary.PendingTransactions++
		}
	}
	summary.Owners = len(owners)
	return summary, nil
}

// Now returns the clock used for ages and timestamps.
func (uc *SettlementUseCase) Now() time.Time {
	return uc.opts.Clock()
}

func (uc *SettlementUseCase) currentPool() (*pool.Pool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.pool == nil {
		return nil, domain.ErrNoPool
	}
	return uc.pool, nil
}

func inScope(pairs []domain.Pair, owners, counterparties []string) []domain.Pair {
	ownerSet := toSet(owners)
	cpSet := toSet(counterparties)
	out := make([]domain.Pair, 0, len(pairs))
	for _, pair := range pairs {
		if ownerSet != nil {
			if _, ok := ownerSet[pair.Owner]; !ok {
				continue
			}
		}
		if cpSet != nil {
			if _, ok := cpSet[pair.Counterparty]; !ok {
				continue
			}
		}
		out = append(out, pair)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// IsSearchError reports whether err stems from invalid search input rather
// than an infrastructure failure.
func IsSearchError(err error) bool {
	return errors.Is(err, domain.ErrInvalidQuery) ||
		errors.Is(err, domain.ErrInvalidCandidateSet) ||
		errors.Is(err, domain.ErrCandidateLimitExceeded)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSearch(string, string, int, int, time.Duration) {}
func (nopRecorder) ObserveCommit(int, error)                              {}
