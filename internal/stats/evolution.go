package stats

import (
	"time"

	"github.com/eco-locaux/prospect-cli/internal/model"
)

// EvolutionPoint is the pipeline composition as of the end of one day.
// Counts are cumulative (creation timestamp at or before the day's end),
// not per-day deltas, so consecutive points chart pipeline growth.
type EvolutionPoint struct {
	Date           string `json:"date"` // YYYY-MM-DD
	ToContact      int    `json:"to_contact"`
	AppointmentSet int    `json:"appointment_set"`
	FollowUp       int    `json:"follow_up"`
	Won            int    `json:"won"`
	Lost           int    `json:"lost"`
}

// ComputeEvolution returns one point per day for the trailing window
// ending today, oldest first. Each point counts leads per status among
// those created on or before that day.
func ComputeEvolution(leads []model.Lead, now time.Time, days int) []EvolutionPoint {
	if days <= 0 {
		return nil
	}

	points := make([]EvolutionPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		cutoff := endOfDay(day)

		p := EvolutionPoint{Date: day.Format("2006-01-02")}
		for j := range leads {
			l := &leads[j]
			if l.CreatedAt.After(cutoff) {
				continue
			}
			switch l.Status {
			case model.StatusToContact:
				p.ToContact++
			case model.StatusAppointmentSet:
				p.AppointmentSet++
			case model.StatusFollowUp:
				p.FollowUp++
			case model.StatusWon:
				p.Won++
			case model.StatusLost:
				p.Lost++
			}
		}
		points = append(points, p)
	}
	return points
}

// endOfDay returns the last instant of t's civil day in t's location.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// startOfMonth returns the first instant of t's calendar month.
func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
