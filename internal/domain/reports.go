package domain

import "github.com/shopspring/decimal"

// IngestSummary provides high-level statistics about a loaded transaction base.
type IngestSummary struct {
	TotalTransactions   int     `json:"total_transactions"`
	PendingTransactions int     `json:"pending_transactions"`
	SettledTransactions int     `json:"settled_transactions"`
	RestoredSettled     int     `json:"restored_settled"`
	Owners              int     `json:"owners"`
	Pairs               int     `json:"pairs"`
	MeanOpenDays        float64 `json:"mean_open_days"`
}

// CombinationSummary is one row of the combinations report.
type CombinationSummary struct {
	Index          int             `json:"index"`
	ID             string          `json:"id"`
	Owner          string          `json:"owner"`
	Counterparty   string          `json:"counterparty"`
	TransactionIDs []string        `json:"transaction_ids"`
	Dates          []string        `json:"dates"`
	Total          decimal.Decimal `json:"total"`
}

// PairOutcome describes the search run for a single owner/counterparty pair.
type PairOutcome struct {
	Pair       Pair   `json:"pair"`
	Candidates int    `json:"candidates"`
	Found      int    `json:"found"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

// SearchReport is the top-level structure printed after a search.
type SearchReport struct {
	Strategy     string               `json:"strategy"`
	Target       decimal.Decimal      `json:"target"`
	Tolerance    decimal.Decimal      `json:"tolerance"`
	Band         Band                 `json:"band"`
	Status       string               `json:"status"`
	Pairs        []PairOutcome        `json:"pairs"`
	Combinations []CombinationSummary `json:"combinations"`
}

// CommitReport summarises an applied selection.
type CommitReport struct {
	Combinations   int      `json:"combinations"`
	TransactionIDs []string `json:"transaction_ids"`
	NewlySettled   int      `json:"newly_settled"`
}

// Summarize converts combinations into report rows, indexed in result order.
func Summarize(combos []Combination) []CombinationSummary {
	rows := make([]CombinationSummary, len(combos))
	for i, c := range combos {
		rows[i] = CombinationSummary{
			Index:          i,
			ID:             c.ID,
			Owner:          c.Owner,
			Counterparty:   c.Counterparty,
			TransactionIDs: c.MemberIDs(),
			Dates:          c.MemberDates(),
			Total:          c.Total,
		}
	}
	return rows
}

// NotificationReport lists transactions that need operator attention.
type NotificationReport struct {
	PendingAgeDays int           `json:"pending_age_days"`
	PendingOverAge []Transaction `json:"pending_over_age"`
	Settled        []Transaction `json:"settled"`
}

// RunReport is everything one settler invocation did, printed as JSON.
type RunReport struct {
	Ingest        IngestSummary      `json:"ingest"`
	Search        *SearchReport      `json:"search,omitempty"`
	Commit        *CommitReport      `json:"commit,omitempty"`
	Notifications NotificationReport `json:"notifications"`
}
