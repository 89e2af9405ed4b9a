package domain

// Filter is a conjunctive predicate over transactions. A nil field matches everything.
type Filter struct {
	Owner        *string
	Counterparty *string
	Status       *SettlementStatus
}

// Match reports whether the transaction satisfies every set field.
func (f Filter) Match(tx Transaction) bool {
	if f.Owner != nil && tx.Owner != *f.Owner {
		return false
	}
	if f.Counterparty != nil && tx.Counterparty != *f.Counterparty {
		return false
	}
	if f.Status != nil && tx.Status() != *f.Status {
		return false
	}
	return true
}

// PendingFor builds the filter selecting open transactions of one pair.
func PendingFor(p Pair) Filter {
	status := StatusPending
	return Filter{Owner: &p.Owner, Counterparty: &p.Counterparty, Status: &status}
}

// WithStatus builds a filter on settlement status only.
func WithStatus(s SettlementStatus) Filter {
	return Filter{Status: &s}
}
