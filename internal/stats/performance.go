package stats

import (
	"github.com/eco-locaux/prospect-cli/internal/model"
)

// leaderboardSize caps the salesperson leaderboard.
const leaderboardSize = 10

// cityTableSize caps the per-city performance table.
const cityTableSize = 10

// TypeShare is one slice of the establishment-type distribution.
type TypeShare struct {
	Type       string  `json:"type"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ComputeTypeDistribution groups leads by establishment type (missing
// types fall into the "unspecified" bucket) and reports each group's
// share of the total, largest first.
func ComputeTypeDistribution(leads []model.Lead) []TypeShare {
	groups := groupLeads(leads, func(l *model.Lead) (string, bool) {
		return optionalString(l.Type)
	})

	rows := make([]TypeShare, 0, len(groups))
	for typ, members := range groups {
		rows = append(rows, TypeShare{
			Type:       typ,
			Count:      len(members),
			Percentage: ratePct(len(members), len(leads)),
		})
	}
	sortByCountDesc(rows, func(r TypeShare) int { return r.Count }, func(r TypeShare) string { return r.Type })
	return rows
}

// SalespersonSummary is one leaderboard row.
type SalespersonSummary struct {
	SalespersonID    string  `json:"salesperson_id"`
	Name             string  `json:"name"`
	AssignedLeads    int     `json:"assigned_leads"`
	WonLeads         int     `json:"won_leads"`
	ConversionRate   float64 `json:"conversion_rate"`
	PotentialRevenue float64 `json:"potential_revenue"`
}

// ComputeLeaderboard ranks salespeople by won leads. Unassigned leads are
// excluded; names are joined from the profile snapshot with the raw ID as
// fallback. Capped to the top 10.
func ComputeLeaderboard(leads []model.Lead, profiles []model.Profile) []SalespersonSummary {
	names := make(map[string]string, len(profiles))
	for i := range profiles {
		names[profiles[i].ID] = profiles[i].FullName()
	}

	groups := groupLeads(leads, func(l *model.Lead) (string, bool) {
		if l.SalespersonID == nil || *l.SalespersonID == "" {
			return "", false
		}
		return *l.SalespersonID, true
	})

	rows := make([]SalespersonSummary, 0, len(groups))
	for id, members := range groups {
		won := countWon(members)
		name := names[id]
		if name == "" {
			name = id
		}
		rows = append(rows, SalespersonSummary{
			SalespersonID:    id,
			Name:             name,
			AssignedLeads:    len(members),
			WonLeads:         won,
			ConversionRate:   ratePct(won, len(members)),
			PotentialRevenue: sumWonTickets(members),
		})
	}
	sortByCountDesc(rows, func(r SalespersonSummary) int { return r.WonLeads }, func(r SalespersonSummary) string { return r.Name })
	if len(rows) > leaderboardSize {
		rows = rows[:leaderboardSize]
	}
	return rows
}

// MarketPotential classifies a city by prospect volume.
type MarketPotential string

const (
	PotentialHigh   MarketPotential = "high"
	PotentialMedium MarketPotential = "medium"
	PotentialLow    MarketPotential = "low"
)

// potentialFor buckets a lead count: more than 100 is high, more than 50
// medium, anything else low.
func potentialFor(count int) MarketPotential {
	switch {
	case count > 100:
		return PotentialHigh
	case count > 50:
		return PotentialMedium
	default:
		return PotentialLow
	}
}

// CityPerformance is one row of the per-city table.
type CityPerformance struct {
	City           string          `json:"city"`
	Count          int             `json:"count"`
	WonLeads       int             `json:"won_leads"`
	ConversionRate float64         `json:"conversion_rate"`
	Potential      MarketPotential `json:"potential"`
}

// ComputeCityPerformance groups leads by search city (missing cities fall
// into "unspecified"), largest first, capped to the top 10.
func ComputeCityPerformance(leads []model.Lead) []CityPerformance {
	groups := groupLeads(leads, func(l *model.Lead) (string, bool) {
		return optionalString(l.SearchCity)
	})

	rows := make([]CityPerformance, 0, len(groups))
	for city, members := range groups {
		won := countWon(members)
		rows = append(rows, CityPerformance{
			City:           city,
			Count:          len(members),
			WonLeads:       won,
			ConversionRate: ratePct(won, len(members)),
			Potential:      potentialFor(len(members)),
		})
	}
	sortByCountDesc(rows, func(r CityPerformance) int { return r.Count }, func(r CityPerformance) string { return r.City })
	if len(rows) > cityTableSize {
		rows = rows[:cityTableSize]
	}
	return rows
}

// TypePerformance is one row of the per-type conversion table.
type TypePerformance struct {
	Type           string  `json:"type"`
	Count          int     `json:"count"`
	WonLeads       int     `json:"won_leads"`
	ConversionRate float64 `json:"conversion_rate"`
	AvgWonTicket   float64 `json:"avg_won_ticket"`
	AvgRating      float64 `json:"avg_rating"`
}

// ComputeTypePerformance reports conversion and quality metrics per
// establishment type, largest group first. Averages only consider leads
// where the underlying value is present, and are 0 when no lead has one.
func ComputeTypePerformance(leads []model.Lead) []TypePerformance {
	groups := groupLeads(leads, func(l *model.Lead) (string, bool) {
		return optionalString(l.Type)
	})

	rows := make([]TypePerformance, 0, len(groups))
	for typ, members := range groups {
		won := countWon(members)

		var wonTicketSum float64
		var wonTicketN int
		var ratingSum float64
		var ratingN int
		for _, l := range members {
			if l.Status.IsWon() && l.AvgTicket != nil {
				wonTicketSum += *l.AvgTicket
				wonTicketN++
			}
			if l.Rating != nil {
				ratingSum += *l.Rating
				ratingN++
			}
		}

		row := TypePerformance{
			Type:           typ,
			Count:          len(members),
			WonLeads:       won,
			ConversionRate: ratePct(won, len(members)),
		}
		if wonTicketN > 0 {
			row.AvgWonTicket = round1(wonTicketSum / float64(wonTicketN))
		}
		if ratingN > 0 {
			row.AvgRating = round1(ratingSum / float64(ratingN))
		}
		rows = append(rows, row)
	}
	sortByCountDesc(rows, func(r TypePerformance) int { return r.Count }, func(r TypePerformance) string { return r.Type })
	return rows
}
