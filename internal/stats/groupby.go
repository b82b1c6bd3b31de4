package stats

import (
	"math"
	"sort"

	"github.com/eco-locaux/prospect-cli/internal/model"
)

// UnspecifiedKey is the sentinel bucket for leads missing a grouping
// attribute (no establishment type, no search city).
const UnspecifiedKey = "unspecified"

// groupLeads partitions leads by an arbitrary key. The key function
// returns false to exclude a lead from every group. All grouping
// dimensions (type, city, salesperson) share this one helper.
func groupLeads[K comparable](leads []model.Lead, key func(*model.Lead) (K, bool)) map[K][]*model.Lead {
	groups := make(map[K][]*model.Lead)
	for i := range leads {
		k, ok := key(&leads[i])
		if !ok {
			continue
		}
		groups[k] = append(groups[k], &leads[i])
	}
	return groups
}

// optionalString keys on a nullable attribute, folding nil/empty into
// the sentinel bucket.
func optionalString(v *string) (string, bool) {
	if v == nil || *v == "" {
		return UnspecifiedKey, true
	}
	return *v, true
}

// round1 rounds to one decimal place, half away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ratePct returns part/total as a percentage rounded to one decimal,
// and 0 when total is zero.
func ratePct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

// countWon counts converted leads in a group.
func countWon(leads []*model.Lead) int {
	n := 0
	for _, l := range leads {
		if l.Status.IsWon() {
			n++
		}
	}
	return n
}

// sumWonTickets sums the average-ticket value over won leads that have
// one. Absent tickets contribute nothing to the sum.
func sumWonTickets(leads []*model.Lead) float64 {
	var sum float64
	for _, l := range leads {
		if l.Status.IsWon() && l.AvgTicket != nil {
			sum += *l.AvgTicket
		}
	}
	return sum
}

// sortByCountDesc orders summary rows by a count accessor descending,
// breaking ties by label so output is deterministic.
func sortByCountDesc[T any](rows []T, count func(T) int, label func(T) string) {
	sort.SliceStable(rows, func(a, b int) bool {
		ca, cb := count(rows[a]), count(rows[b])
		if ca != cb {
			return ca > cb
		}
		return label(rows[a]) < label(rows[b])
	})
}
