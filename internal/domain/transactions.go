package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownDatePlaceholder is rendered wherever a transaction date could not be parsed.
const UnknownDatePlaceholder = "unknown"

// SettlementStatus is the lifecycle state of a transaction: Pending until a
// combination containing it is applied, then Settled for good.
type SettlementStatus int

const (
	StatusPending SettlementStatus = iota
	StatusSettled
)

// String returns the machine-friendly name of the status.
func (s SettlementStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Label returns the human-readable label used in exports.
func (s SettlementStatus) Label() string {
	if s == StatusSettled {
		return "Done"
	}
	return "Not done"
}

// ParseSettlementStatus maps a free-form spreadsheet label to a status.
// Anything that is not recognisably "done" is treated as pending.
func ParseSettlementStatus(label string) SettlementStatus {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "done", "feito", "settled", "true", "yes", "y", "1":
		return StatusSettled
	default:
		return StatusPending
	}
}

// Transaction is a single outstanding record eligible for settlement matching.
type Transaction struct {
	ID           string          `json:"id"`
	Owner        string          `json:"owner"`
	Counterparty string          `json:"counterparty"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"` // zero when unknown
	Settled      bool            `json:"settled"`
}

// Status reports the settlement status of the transaction.
func (t Transaction) Status() SettlementStatus {
	if t.Settled {
		return StatusSettled
	}
	return StatusPending
}

// HasDate reports whether the transaction date is known.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// DateString formats the date as YYYY-MM-DD, or the unknown placeholder.
func (t Transaction) DateString() string {
	if !t.HasDate() {
		return UnknownDatePlaceholder
	}
	return t.Date.Format(time.DateOnly)
}

// Pair returns the owner/counterparty scope the transaction belongs to.
func (t Transaction) Pair() Pair {
	return Pair{Owner: t.Owner, Counterparty: t.Counterparty}
}

// AgeDays returns the whole number of calendar days the transaction has been
// open as of now, clamped at zero. The date is read in its own location and
// today in now's location. The second result is false when the date is unknown.
func (t Transaction) AgeDays(now time.Time) (int, bool) {
	if !t.HasDate() {
		return 0, false
	}
	days := int(calendarDay(now).Sub(calendarDay(t.Date)) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	return days, true
}

// MarshalJSON renders the date as YYYY-MM-DD, or the unknown placeholder.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type plain Transaction
	return json.Marshal(struct {
		plain
		Date string `json:"date"`
	}{plain: plain(t), Date: t.DateString()})
}

// calendarDay maps t to UTC midnight of its own calendar date, so day
// differences ignore zone offsets and DST.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Pair identifies one owner/counterparty scope.
type Pair struct {
	Owner        string `json:"owner"`
	Counterparty string `json:"counterparty"`
}
