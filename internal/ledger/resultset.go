package ledger

import (
	"sort"

	"fx-settlement/internal/domain"
)

// Settler applies a settlement to the set of transactions it owns.
type Settler interface {
	ApplySettlement(ids []string) (int, error)
}

// ResultSet holds the combinations produced by one search plus the subset the
// operator selected for settlement. It is superseded by the next search.
type ResultSet struct {
	combos   []domain.Combination
	selected []int
}

// NewResultSet wraps the combinations of a search, keeping their order.
func NewResultSet(combos []domain.Combination) *ResultSet {
	if combos == nil {
		combos = []domain.Combination{}
	}
	return &ResultSet{combos: combos}
}

// Len returns the number of combinations.
func (rs *ResultSet) Len() int {
	return len(rs.combos)
}

// Combinations returns the combinations in discovery order.
func (rs *ResultSet) Combinations() []domain.Combination {
	out := make([]domain.Combination, len(rs.combos))
	copy(out, rs.combos)
	return out
}

// Select replaces the current selection with the given indices and returns
// the deduplicated member ids they cover. If any index is out of range the
// previous selection is kept.
func (rs *ResultSet) Select(indices []int) ([]string, error) {
	var bad []int
	uniq := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(rs.combos) {
			bad = append(bad, i)
			continue
		}
		uniq[i] = struct{}{}
	}
	if len(bad) > 0 {
		return nil, &domain.IndexOutOfRangeError{Indices: bad, Len: len(rs.combos)}
	}

	selected := make([]int, 0, len(uniq))
	for i := range uniq {
		selected = append(selected, i)
	}
	sort.Ints(selected)
	rs.selected = selected
	return rs.MemberIDs(), nil
}

// Selected returns the selected combinations in index order.
func (rs *ResultSet) Selected() []domain.Combination {
	out := make([]domain.Combination, len(rs.selected))
	for i, idx := range rs.selected {
		out[i] = rs.combos[idx]
	}
	return out
}

// MemberIDs returns the union of member ids across the selection, in first
// appearance order. A transaction shared by two selected combinations appears once.
func (rs *ResultSet) MemberIDs() []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, idx := range rs.selected {
		for _, id := range rs.combos[idx].MemberIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// Commit settles the union of the selected combinations' members.
func (rs *ResultSet) Commit(s Settler) (int, error) {
	return s.ApplySettlement(rs.MemberIDs())
}
