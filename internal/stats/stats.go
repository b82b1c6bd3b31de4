// Package stats computes read-only dashboard rollups from in-memory
// snapshots of leads, appointments, and team profiles. Every computation
// is a pure function: empty snapshots produce zero-valued results, absent
// optional fields are excluded from averages and contribute zero to sums,
// and no input is ever mutated.
package stats

import (
	"time"

	"github.com/eco-locaux/prospect-cli/internal/model"
)

// Snapshot is a point-in-time copy of the data store, materialized by the
// caller before aggregation. The aggregator never queries anything itself;
// on a change notification the caller simply fetches a fresh snapshot and
// recomputes.
type Snapshot struct {
	Leads        []model.Lead        `json:"leads"`
	Appointments []model.Appointment `json:"appointments"`
	Profiles     []model.Profile     `json:"profiles"`
}

// Options tunes the aggregation windows and targets.
type Options struct {
	EvolutionDays int              `json:"evolution_days"`
	Targets       ObjectiveTargets `json:"targets"`
}

// DefaultOptions returns the dashboard defaults: a 7-day evolution window
// and the standard monthly targets.
func DefaultOptions() Options {
	return Options{
		EvolutionDays: 7,
		Targets:       DefaultTargets(),
	}
}

// Report assembles every dashboard view in one pass.
type Report struct {
	KPIs             KPISummary            `json:"kpis"`
	Evolution        []EvolutionPoint      `json:"evolution"`
	TypeDistribution []TypeShare           `json:"type_distribution"`
	Leaderboard      []SalespersonSummary  `json:"leaderboard"`
	Cities           []CityPerformance     `json:"cities"`
	Types            []TypePerformance     `json:"types"`
	Objectives       MonthlyObjectives     `json:"objectives"`
	Activity         MonthlyActivity       `json:"activity"`
	Quality          ReviewQuality         `json:"quality"`
	Priorities       PriorityDistribution  `json:"priorities"`
	GeneratedAt      time.Time             `json:"generated_at"`
}

// Compute runs the full aggregation over a snapshot. now anchors the
// evolution and calendar-month windows so results are reproducible.
func Compute(snap Snapshot, now time.Time, opts Options) Report {
	if opts.EvolutionDays <= 0 {
		opts.EvolutionDays = 7
	}
	return Report{
		KPIs:             ComputeKPIs(snap.Leads),
		Evolution:        ComputeEvolution(snap.Leads, now, opts.EvolutionDays),
		TypeDistribution: ComputeTypeDistribution(snap.Leads),
		Leaderboard:      ComputeLeaderboard(snap.Leads, snap.Profiles),
		Cities:           ComputeCityPerformance(snap.Leads),
		Types:            ComputeTypePerformance(snap.Leads),
		Objectives:       ComputeMonthlyObjectives(snap.Leads, snap.Appointments, now, opts.Targets),
		Activity:         ComputeMonthlyActivity(snap.Leads, snap.Appointments, now),
		Quality:          ComputeReviewQuality(snap.Leads),
		Priorities:       ComputePriorityDistribution(snap.Leads),
		GeneratedAt:      now.UTC(),
	}
}

// KPISummary holds the headline dashboard cards.
type KPISummary struct {
	TotalLeads       int     `json:"total_leads"`
	ConversionRate   float64 `json:"conversion_rate"`
	PotentialRevenue float64 `json:"potential_revenue"`
	ActiveLeads      int     `json:"active_leads"`
}

// ComputeKPIs computes the headline counters over the full lead snapshot.
func ComputeKPIs(leads []model.Lead) KPISummary {
	var won, active int
	var revenue float64
	for i := range leads {
		l := &leads[i]
		if l.Status.IsWon() {
			won++
			if l.AvgTicket != nil {
				revenue += *l.AvgTicket
			}
		}
		if l.Status.IsActive() {
			active++
		}
	}
	return KPISummary{
		TotalLeads:       len(leads),
		ConversionRate:   ratePct(won, len(leads)),
		PotentialRevenue: revenue,
		ActiveLeads:      active,
	}
}
