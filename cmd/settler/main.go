package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fx-settlement/internal/config"
	"fx-settlement/internal/domain"
	"fx-settlement/internal/gateway"
	"fx-settlement/internal/logging"
	"fx-settlement/internal/matcher"
	"fx-settlement/internal/metrics"
	"fx-settlement/internal/usecase"
)

func main() {
	// Define command-line flags
	configPath := flag.String("config", "settler.yaml", "Path to the YAML config file; environment variables are used when it is absent")
	inputFile := flag.String("input", "", "Path to the transaction base CSV file (required)")
	ownersStr := flag.String("owner", "", "Comma-separated owners to search (default: all)")
	counterpartiesStr := flag.String("counterparty", "", "Comma-separated counterparties to search (default: all)")
	targetStr := flag.String("target", "", "Target amount; no search runs when empty")
	toleranceStr := flag.String("tolerance", "", "Tolerance around the target (overrides config)")
	maxResults := flag.Int("max", 0, "Maximum combinations per owner/counterparty pair (overrides config)")
	strategyName := flag.String("strategy", "", "Search strategy: exhaustive or greedy (overrides config)")
	timeout := flag.Duration("timeout", 0, "Search deadline (overrides config)")
	selectStr := flag.String("select", "", "Comma-separated combination indices to settle after the search")
	exportCombinations := flag.String("export-combinations", "", "Write found combinations to this CSV file")
	exportTransactions := flag.String("export-transactions", "", "Write the updated transaction base to this CSV file")
	dbPath := flag.String("db", "", "SQLite database holding settlement history (overrides config)")
	pendingOver := flag.Int("pending-over", -1, "Report pending transactions open for more than this many days (overrides config)")
	metricsFile := flag.String("metrics-file", "", "Write prometheus metrics to this textfile (overrides config)")
	flag.Parse()

	// Validate required flags
	if *inputFile == "" {
		fmt.Println("Error: the -input flag is required.")
		flag.Usage()
		os.Exit(1)
	}
	if *selectStr != "" && *targetStr == "" {
		fmt.Println("Error: -select needs a search; set -target.")
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.LoadOrEnv(*configPath)
	applyOverrides(cfg, *toleranceStr, *maxResults, *strategyName, *timeout, *dbPath, *pendingOver, *metricsFile)

	logger := logging.NewLogger(cfg.Observability.Logging, os.Stderr)
	if err := cfg.Validate(); err != nil {
		fatal(logger, "invalid configuration", err)
	}

	strategy, err := matcher.ParseStrategy(cfg.Matching.Strategy)
	if err != nil {
		fatal(logger, "invalid strategy", err)
	}
	tolerance, err := cfg.Matching.ToleranceDecimal()
	if err != nil {
		fatal(logger, "invalid tolerance", err)
	}
	indices, err := parseIndices(*selectStr)
	if err != nil {
		fatal(logger, "invalid selection", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// --- Dependency Injection (Wiring the application) ---
	csvRepo := gateway.NewCSVTransactionRepository(logger.With("system", "gateway"))

	var store usecase.SettlementStore
	if cfg.Storage.DatabasePath != "" {
		sqliteStore, err := gateway.NewSQLiteStore(cfg.Storage.DatabasePath)
		if err != nil {
			fatal(logger, "could not open settlement database", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	}

	m := metrics.New()
	settlementUseCase := usecase.NewSettlementUseCase(csvRepo, store, m, logger.With("system", "usecase"), usecase.Options{
		MaxExhaustiveCandidates: cfg.Matching.MaxExhaustiveCandidates,
		Timeout:                 cfg.Matching.Timeout,
		Workers:                 cfg.Matching.Workers,
	})

	// --- Execute the Usecase ---
	var report domain.RunReport
	report.Ingest, err = settlementUseCase.Load(ctx, *inputFile)
	if err != nil {
		fatal(logger, "ingestion failed", err)
	}

	if *targetStr != "" {
		target, err := decimal.NewFromString(*targetStr)
		if err != nil {
			fatal(logger, "invalid target", err)
		}
		searchReport, err := settlementUseCase.Search(ctx, usecase.SearchRequest{
			Owners:         splitList(*ownersStr),
			Counterparties: splitList(*counterpartiesStr),
			Target:         target,
			Tolerance:      tolerance,
			MaxResults:     cfg.Matching.MaxResults,
			Strategy:       strategy,
		})
		if err != nil {
			fatal(logger, "search failed", err)
		}
		report.Search = &searchReport

		if *exportCombinations != "" {
			combos, err := settlementUseCase.ListCombinations()
			if err != nil {
				fatal(logger, "could not list combinations", err)
			}
			writer := gateway.NewCSVReportWriter()
			if err := gateway.WriteFile(*exportCombinations, func(w io.Writer) error {
				return writer.WriteCombinations(w, combos)
			}); err != nil {
				fatal(logger, "could not export combinations", err)
			}
		}
	}

	if len(indices) > 0 {
		if _, err := settlementUseCase.Select(indices); err != nil {
			fatal(logger, "invalid selection", err)
		}
		commitReport, err := settlementUseCase.Commit(ctx)
		if err != nil && commitReport.Combinations == 0 {
			fatal(logger, "settlement failed", err)
		}
		if err != nil {
			logger.Error("settlement applied in memory only", "error", err)
		}
		report.Commit = &commitReport
	}

	report.Notifications, err = notifications(settlementUseCase, cfg.Notifications.PendingAgeDays)
	if err != nil {
		fatal(logger, "could not build notifications", err)
	}

	if *exportTransactions != "" {
		txs, err := settlementUseCase.Snapshot()
		if err != nil {
			fatal(logger, "could not snapshot transactions", err)
		}
		writer := gateway.NewCSVReportWriter()
		if err := gateway.WriteFile(*exportTransactions, func(w io.Writer) error {
			return writer.WriteTransactions(w, txs, settlementUseCase.Now())
		}); err != nil {
			fatal(logger, "could not export transactions", err)
		}
	}

	if cfg.Observability.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.Observability.MetricsFile); err != nil {
			logger.Warn("could not write metrics", "path", cfg.Observability.MetricsFile, "error", err)
		}
	}

	// --- Present the Output ---
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fatal(logger, "failed to generate JSON report", err)
	}

	fmt.Println(string(output))
}

func applyOverrides(cfg *config.Config, tolerance string, maxResults int, strategy string, timeout time.Duration, dbPath string, pendingOver int, metricsFile string) {
	if tolerance != "" {
		cfg.Matching.Tolerance = tolerance
	}
	if maxResults > 0 {
		cfg.Matching.MaxResults = maxResults
	}
	if strategy != "" {
		cfg.Matching.Strategy = strategy
	}
	if timeout > 0 {
		cfg.Matching.Timeout = timeout
	}
	if dbPath != "" {
		cfg.Storage.DatabasePath = dbPath
	}
	if pendingOver >= 0 {
		cfg.Notifications.PendingAgeDays = pendingOver
	}
	if metricsFile != "" {
		cfg.Observability.MetricsFile = metricsFile
	}
}

func notifications(uc *usecase.SettlementUseCase, days int) (domain.NotificationReport, error) {
	overdue, err := uc.ListPendingOverAge(days)
	if err != nil {
		return domain.NotificationReport{}, err
	}
	settled, err := uc.ListSettled()
	if err != nil {
		return domain.NotificationReport{}, err
	}
	return domain.NotificationReport{
		PendingAgeDays: days,
		PendingOverAge: orEmpty(overdue),
		Settled:        orEmpty(settled),
	}, nil
}

// orEmpty keeps empty listings rendering as [] rather than null.
func orEmpty(txs []domain.Transaction) []domain.Transaction {
	if txs == nil {
		return []domain.Transaction{}
	}
	return txs
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseIndices(s string) ([]int, error) {
	var out []int
	for _, part := range splitList(s) {
		i, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("combination index %q is not a number", part)
		}
		out = append(out, i)
	}
	return out, nil
}

func fatal(logger *slog.Logger, msg string, err error) {
	if usecase.IsSearchError(err) {
		logger.Error(msg, "error", err, "hint", "check target, tolerance and strategy")
	} else {
		logger.Error(msg, "error", err)
	}
	os.Exit(1)
}
