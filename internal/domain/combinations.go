package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Band is the inclusive amount range [target - tolerance, target + tolerance].
type Band struct {
	Lower decimal.Decimal `json:"lower"`
	Upper decimal.Decimal `json:"upper"`
}

// NewBand validates the search parameters and builds the band around target.
func NewBand(target, tolerance decimal.Decimal) (Band, error) {
	if target.IsNegative() {
		return Band{}, fmt.Errorf("%w: target %s is negative", ErrInvalidQuery, target)
	}
	if tolerance.IsNegative() {
		return Band{}, fmt.Errorf("%w: tolerance %s is negative", ErrInvalidQuery, tolerance)
	}
	return Band{Lower: target.Sub(tolerance), Upper: target.Add(tolerance)}, nil
}

// Contains reports whether v lies within the band, edges included.
func (b Band) Contains(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(b.Lower) && v.LessThanOrEqual(b.Upper)
}

// Combination is a group of open transactions of one owner/counterparty pair
// whose amounts sum within the band of a target.
type Combination struct {
	ID           string          `json:"id"`
	Owner        string          `json:"owner"`
	Counterparty string          `json:"counterparty"`
	Members      []Transaction   `json:"members"`
	Total        decimal.Decimal `json:"total"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

// MemberIDs returns the member transaction ids in combination order.
func (c Combination) MemberIDs() []string {
	ids := make([]string, len(c.Members))
	for i, m := range c.Members {
		ids[i] = m.ID
	}
	return ids
}

// MemberDates returns member dates as YYYY-MM-DD, with a placeholder for unknown ones.
func (c Combination) MemberDates() []string {
	dates := make([]string, len(c.Members))
	for i, m := range c.Members {
		dates[i] = m.DateString()
	}
	return dates
}

// Pair returns the scope of the combination.
func (c Combination) Pair() Pair {
	return Pair{Owner: c.Owner, Counterparty: c.Counterparty}
}
