package stats

import (
	"math"
	"time"

	"github.com/eco-locaux/prospect-cli/internal/model"
)

// ObjectiveTargets holds the fixed monthly targets against which actuals
// are tracked. Targets are configuration, never computed.
type ObjectiveTargets struct {
	NewLeads     int     `yaml:"new_leads" mapstructure:"new_leads" json:"new_leads"`
	Appointments int     `yaml:"appointments" mapstructure:"appointments" json:"appointments"`
	Conversions  int     `yaml:"conversions" mapstructure:"conversions" json:"conversions"`
	Revenue      float64 `yaml:"revenue" mapstructure:"revenue" json:"revenue"`
}

// DefaultTargets returns the standard monthly objectives.
func DefaultTargets() ObjectiveTargets {
	return ObjectiveTargets{
		NewLeads:     50,
		Appointments: 80,
		Conversions:  25,
		Revenue:      50000,
	}
}

// Objective pairs an actual with its target for progress-bar rendering.
type Objective struct {
	Actual float64 `json:"actual"`
	Target float64 `json:"target"`
}

// Progress returns the completion percentage, clamped to 100 so a bar
// never overflows, and 0 when the target itself is 0.
func (o Objective) Progress() float64 {
	if o.Target <= 0 {
		return 0
	}
	return math.Min(round1(o.Actual/o.Target*100), 100)
}

// MonthlyObjectives tracks this month's actuals against fixed targets.
type MonthlyObjectives struct {
	NewLeads     Objective `json:"new_leads"`
	Appointments Objective `json:"appointments"`
	Conversions  Objective `json:"conversions"`
	Revenue      Objective `json:"revenue"`
}

// ComputeMonthlyObjectives counts activity inside the calendar month
// containing now: leads created, appointments booked, leads won, and
// revenue from won leads, each paired with its configured target.
func ComputeMonthlyObjectives(leads []model.Lead, appts []model.Appointment, now time.Time, targets ObjectiveTargets) MonthlyObjectives {
	monthStart := startOfMonth(now)

	var newLeads, conversions int
	var revenue float64
	for i := range leads {
		l := &leads[i]
		if l.CreatedAt.Before(monthStart) {
			continue
		}
		newLeads++
		if l.Status.IsWon() {
			conversions++
			if l.AvgTicket != nil {
				revenue += *l.AvgTicket
			}
		}
	}

	var booked int
	for i := range appts {
		if !appts[i].CreatedAt.Before(monthStart) {
			booked++
		}
	}

	return MonthlyObjectives{
		NewLeads:     Objective{Actual: float64(newLeads), Target: float64(targets.NewLeads)},
		Appointments: Objective{Actual: float64(booked), Target: float64(targets.Appointments)},
		Conversions:  Objective{Actual: float64(conversions), Target: float64(targets.Conversions)},
		Revenue:      Objective{Actual: revenue, Target: targets.Revenue},
	}
}

// MonthlyActivity summarizes this month's appointment and lead activity
// for the dashboard activity card.
type MonthlyActivity struct {
	AppointmentsUpcoming int `json:"appointments_upcoming"`
	AppointmentsDone     int `json:"appointments_done"`
	NewLeads             int `json:"new_leads"`
	LeadsWon             int `json:"leads_won"`
}

// ComputeMonthlyActivity counts appointments falling in the calendar
// month containing now (by appointment date) and leads created in it.
func ComputeMonthlyActivity(leads []model.Lead, appts []model.Appointment, now time.Time) MonthlyActivity {
	monthStart := startOfMonth(now)

	var act MonthlyActivity
	for i := range appts {
		a := &appts[i]
		if a.Date.Before(monthStart) {
			continue
		}
		switch {
		case a.Status.IsUpcoming():
			act.AppointmentsUpcoming++
		case a.Status == model.AppointmentDone:
			act.AppointmentsDone++
		}
	}
	for i := range leads {
		l := &leads[i]
		if l.CreatedAt.Before(monthStart) {
			continue
		}
		act.NewLeads++
		if l.Status.IsWon() {
			act.LeadsWon++
		}
	}
	return act
}

// ReviewQuality summarizes external review coverage across the snapshot.
type ReviewQuality struct {
	AvgRating    float64 `json:"avg_rating"`
	TotalReviews int     `json:"total_reviews"`
	RatedLeads   int     `json:"rated_leads"`
	RatedPct     float64 `json:"rated_pct"`
}

// ComputeReviewQuality averages ratings over leads that have one and sums
// review counts treating absent counts as zero.
func ComputeReviewQuality(leads []model.Lead) ReviewQuality {
	var q ReviewQuality
	var ratingSum float64
	for i := range leads {
		l := &leads[i]
		if l.Rating != nil {
			ratingSum += *l.Rating
			q.RatedLeads++
		}
		if l.ReviewCount != nil && *l.ReviewCount > 0 {
			q.TotalReviews += *l.ReviewCount
		}
	}
	if q.RatedLeads > 0 {
		q.AvgRating = round1(ratingSum / float64(q.RatedLeads))
	}
	q.RatedPct = ratePct(q.RatedLeads, len(leads))
	return q
}

// PriorityDistribution counts leads per manual priority flag.
type PriorityDistribution struct {
	High   int `json:"high"`
	Normal int `json:"normal"`
	Low    int `json:"low"`
}

// ComputePriorityDistribution tallies the manual priority flags.
func ComputePriorityDistribution(leads []model.Lead) PriorityDistribution {
	var d PriorityDistribution
	for i := range leads {
		switch leads[i].Priority {
		case model.PriorityHigh:
			d.High++
		case model.PriorityLow:
			d.Low++
		case model.PriorityNormal:
			d.Normal++
		}
	}
	return d
}
