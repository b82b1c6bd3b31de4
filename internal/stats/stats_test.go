package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eco-locaux/prospect-cli/internal/model"
)

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

func leadWith(status model.LeadStatus, ticket *float64) model.Lead {
	return model.Lead{Name: "lead", Status: status, AvgTicket: ticket}
}

func TestComputeKPIs_EmptySnapshot(t *testing.T) {
	got := ComputeKPIs(nil)
	assert.Equal(t, 0, got.TotalLeads)
	assert.Equal(t, 0.0, got.ConversionRate)
	assert.Equal(t, 0.0, got.PotentialRevenue)
	assert.Equal(t, 0, got.ActiveLeads)
}

func TestComputeKPIs_ConversionAndRevenue(t *testing.T) {
	// 10 leads, 3 won with tickets {20, 30, 50}, 7 not won.
	leads := []model.Lead{
		leadWith(model.StatusWon, ptrFloat64(20)),
		leadWith(model.StatusWon, ptrFloat64(30)),
		leadWith(model.StatusWon, ptrFloat64(50)),
		leadWith(model.StatusToContact, nil),
		leadWith(model.StatusToContact, ptrFloat64(99)),
		leadWith(model.StatusAppointmentSet, nil),
		leadWith(model.StatusFollowUp, nil),
		leadWith(model.StatusLost, ptrFloat64(10)),
		leadWith(model.StatusLost, nil),
		leadWith(model.StatusToContact, nil),
	}

	got := ComputeKPIs(leads)
	assert.Equal(t, 10, got.TotalLeads)
	assert.Equal(t, 30.0, got.ConversionRate)
	assert.Equal(t, 100.0, got.PotentialRevenue)
	assert.Equal(t, 5, got.ActiveLeads)
}

func TestComputeKPIs_WonWithoutTicketExcludedFromRevenue(t *testing.T) {
	leads := []model.Lead{
		leadWith(model.StatusWon, nil),
		leadWith(model.StatusWon, ptrFloat64(45)),
	}
	got := ComputeKPIs(leads)
	assert.Equal(t, 100.0, got.ConversionRate)
	assert.Equal(t, 45.0, got.PotentialRevenue)
}

func TestRatePct_Rounding(t *testing.T) {
	// 1/3 = 33.333... -> 33.3; 2/3 = 66.666... -> 66.7.
	assert.Equal(t, 33.3, ratePct(1, 3))
	assert.Equal(t, 66.7, ratePct(2, 3))
	// Half rounds away from zero: 1/8 = 12.5% stays 12.5, 25/1000 = 2.5 -> 2.5.
	assert.Equal(t, 12.5, ratePct(1, 8))
	// Zero denominator never errors.
	assert.Equal(t, 0.0, ratePct(5, 0))
}

func TestRound1_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 0.1, round1(0.05))
	assert.Equal(t, -0.1, round1(-0.05))
	assert.Equal(t, 2.3, round1(2.25))
}

func TestCompute_FullReportOnEmptySnapshot(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	report := Compute(Snapshot{}, now, DefaultOptions())

	assert.Equal(t, KPISummary{}, report.KPIs)
	assert.Len(t, report.Evolution, 7)
	for _, p := range report.Evolution {
		assert.Equal(t, EvolutionPoint{Date: p.Date}, p)
	}
	assert.Empty(t, report.TypeDistribution)
	assert.Empty(t, report.Leaderboard)
	assert.Empty(t, report.Cities)
	assert.Empty(t, report.Types)
	assert.Equal(t, 0.0, report.Objectives.NewLeads.Actual)
	assert.Equal(t, MonthlyActivity{}, report.Activity)
	assert.Equal(t, ReviewQuality{}, report.Quality)
	assert.Equal(t, PriorityDistribution{}, report.Priorities)
}

func TestCompute_DoesNotMutateSnapshot(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	leads := []model.Lead{
		{Name: "A", Status: model.StatusWon, AvgTicket: ptrFloat64(30), CreatedAt: now},
		{Name: "B", Status: model.StatusToContact, CreatedAt: now},
	}
	want := make([]model.Lead, len(leads))
	copy(want, leads)

	_ = Compute(Snapshot{Leads: leads}, now, DefaultOptions())
	require.Equal(t, want, leads)
}
