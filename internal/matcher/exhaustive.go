package matcher

import (
	"context"

	"github.com/shopspring/decimal"

	"fx-settlement/internal/domain"
)

// searchExhaustive walks every r-subset for r = 1..n in lexicographic order of
// positions and keeps those whose sum lies in band, stopping at limit.
func searchExhaustive(ctx context.Context, amounts []decimal.Decimal, band domain.Band, limit int) outcome {
	var out outcome
	done := ctx.Done()
	n := len(amounts)

	for r := 1; r <= n; r++ {
		idx := make([]int, r)
		for i := range idx {
			idx[i] = i
		}
		// partial[k] is the sum of the first k chosen amounts. Only the
		// suffix from the first changed position needs recomputing.
		partial := make([]decimal.Decimal, r+1)
		partial[0] = decimal.Zero
		from := 0

		for {
			if cancelled(done) {
				out.cancelled = true
				return out
			}
			for k := from; k < r; k++ {
				partial[k+1] = partial[k].Add(amounts[idx[k]])
			}
			out.evaluated++

			if band.Contains(partial[r]) {
				group := make([]int, r)
				copy(group, idx)
				out.groups = append(out.groups, group)
				if len(out.groups) == limit {
					return out
				}
			}

			i := r - 1
			for i >= 0 && idx[i] == n-r+i {
				i--
			}
			if i < 0 {
				break
			}
			idx[i]++
			for j := i + 1; j < r; j++ {
				idx[j] = idx[j-1] + 1
			}
			from = i
		}
	}
	return out
}
