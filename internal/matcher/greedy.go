package matcher

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"fx-settlement/internal/domain"
)

// searchGreedy packs candidates largest first. Each pass accumulates every
// candidate that keeps the running sum at or under the upper edge and emits
// the group as soon as the sum enters band. Accumulated members leave the
// working pool after every pass, successful or not, so a transaction is used
// at most once. A candidate skipped for overflowing is not reconsidered
// within the same pass.
func searchGreedy(ctx context.Context, amounts []decimal.Decimal, band domain.Band, limit int) outcome {
	var out outcome
	done := ctx.Done()

	working := make([]int, len(amounts))
	for i := range working {
		working[i] = i
	}
	sort.SliceStable(working, func(a, b int) bool {
		return amounts[working[a]].GreaterThan(amounts[working[b]])
	})

	for len(working) > 0 && len(out.groups) < limit {
		sum := decimal.Zero
		var members []int
		entered := false

		for _, pos := range working {
			if cancelled(done) {
				out.cancelled = true
				return out
			}
			out.evaluated++

			next := sum.Add(amounts[pos])
			if next.GreaterThan(band.Upper) {
				continue
			}
			sum = next
			members = append(members, pos)
			if band.Contains(sum) {
				entered = true
				break
			}
		}

		if len(members) == 0 {
			// Every remaining candidate overflows on its own.
			break
		}
		if entered {
			group := make([]int, len(members))
			copy(group, members)
			out.groups = append(out.groups, group)
		}
		working = without(working, members)
	}
	return out
}

func without(working, members []int) []int {
	drop := make(map[int]struct{}, len(members))
	for _, m := range members {
		drop[m] = struct{}{}
	}
	kept := make([]int, 0, len(working)-len(members))
	for _, pos := range working {
		if _, ok := drop[pos]; !ok {
			kept = append(kept, pos)
		}
	}
	return kept
}
