package scorer

import (
	"sort"

	"github.com/eco-locaux/prospect-cli/internal/model"
)

// SortByScore returns a new slice of leads ordered by computed score.
// The sort is stable: leads with equal scores keep their relative input
// order. The input slice is not modified.
func SortByScore(leads []model.Lead, ascending bool) []model.Lead {
	sorted := make([]model.Lead, len(leads))
	copy(sorted, leads)

	// Scores are computed once up front so the comparator stays cheap.
	scores := make([]int, len(sorted))
	for i := range sorted {
		scores[i] = Score(&sorted[i])
	}
	idx := make([]int, len(sorted))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		if ascending {
			return scores[idx[a]] < scores[idx[b]]
		}
		return scores[idx[a]] > scores[idx[b]]
	})

	out := make([]model.Lead, len(sorted))
	for i, j := range idx {
		out[i] = sorted[j]
	}
	return out
}

// FilterByTier returns the leads whose computed tier category matches
// exactly, preserving input order.
func FilterByTier(leads []model.Lead, category TierCategory) []model.Lead {
	var out []model.Lead
	for i := range leads {
		if TierFor(Score(&leads[i])).Category == category {
			out = append(out, leads[i])
		}
	}
	return out
}
