package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eco-locaux/prospect-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func insertTestProfile(t *testing.T, s *SQLiteStore, p model.Profile) model.Profile {
	t.Helper()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Role == "" {
		p.Role = model.RoleSalesperson
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	_, err := s.db.Exec(
		`INSERT INTO profiles (id, first_name, last_name, email, role, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.FirstName, p.LastName, p.Email, string(p.Role), p.Active,
		formatTime(p.CreatedAt),
	)
	require.NoError(t, err)
	return p
}

func insertTestAppointment(t *testing.T, s *SQLiteStore, a model.Appointment) {
	t.Helper()
	_, err := s.db.Exec(
		`INSERT INTO appointments (id, lead_id, salesperson_id, date, time, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.LeadID, a.SalespersonID, formatTime(a.Date), a.Time,
		string(a.Status), formatTime(a.CreatedAt),
	)
	require.NoError(t, err)
}

func TestSQLiteStore_InsertAndListLeads(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	rating := 4.5
	reviews := 120
	ticket := 32.5
	city := "Lyon"
	typ := "bakery"

	n, err := s.InsertLeads(ctx, []model.Lead{
		{Name: "Boulangerie Dupont", Type: &typ, Rating: &rating,
			ReviewCount: &reviews, AvgTicket: &ticket, SearchCity: &city},
		{Name: "Chez Marcel"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	leads, err := s.ListLeads(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 2)

	byName := map[string]model.Lead{}
	for _, l := range leads {
		byName[l.Name] = l
	}
	first, ok := byName["Boulangerie Dupont"]
	require.True(t, ok)
	assert.NotEmpty(t, first.ID)
	require.NotNil(t, first.Rating)
	assert.InDelta(t, 4.5, *first.Rating, 0.001)
	require.NotNil(t, first.ReviewCount)
	assert.Equal(t, 120, *first.ReviewCount)
	assert.Equal(t, model.StatusToContact, first.Status)
	assert.Equal(t, model.PriorityNormal, first.Priority)
	assert.False(t, first.CreatedAt.IsZero())

	second, ok := byName["Chez Marcel"]
	require.True(t, ok)
	assert.Nil(t, second.Rating)
	assert.Nil(t, second.Type)
	assert.Nil(t, second.SearchCity)
}

func TestSQLiteStore_InsertLeads_Empty(t *testing.T) {
	s := newTestSQLite(t)
	n, err := s.InsertLeads(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteStore_ListLeads_Empty(t *testing.T) {
	s := newTestSQLite(t)
	leads, err := s.ListLeads(context.Background())
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestSQLiteStore_ListProfilesAndAppointments(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	p := insertTestProfile(t, s, model.Profile{
		FirstName: "Alice", LastName: "Martin",
		Email: "alice@eco-locaux.fr", Active: true,
	})

	n, err := s.InsertLeads(ctx, []model.Lead{{Name: "Pizzeria Roma"}})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	leads, err := s.ListLeads(ctx)
	require.NoError(t, err)

	when := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	insertTestAppointment(t, s, model.Appointment{
		ID: uuid.New().String(), LeadID: leads[0].ID, SalespersonID: p.ID,
		Date: when, Time: "14:30", Status: model.AppointmentPlanned,
		CreatedAt: when,
	})

	profiles, err := s.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Alice Martin", profiles[0].FullName())
	assert.Equal(t, model.RoleSalesperson, profiles[0].Role)
	assert.True(t, profiles[0].Active)

	appts, err := s.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, leads[0].ID, appts[0].LeadID)
	assert.Equal(t, "14:30", appts[0].Time)
	assert.Equal(t, model.AppointmentPlanned, appts[0].Status)
	assert.True(t, appts[0].Date.Equal(when))
}

func TestSQLiteStore_UpdatePassword(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	p := insertTestProfile(t, s, model.Profile{
		FirstName: "Bruno", Email: "bruno@eco-locaux.fr", Active: true,
	})

	require.NoError(t, s.UpdatePassword(ctx, p.ID, "$2a$10$fakehash"))

	var hash string
	require.NoError(t, s.db.QueryRow(
		`SELECT password_hash FROM profiles WHERE id = ?`, p.ID).Scan(&hash))
	assert.Equal(t, "$2a$10$fakehash", hash)

	err := s.UpdatePassword(ctx, "no-such-id", "x")
	assert.Error(t, err)
}

func TestSnapshot_ParallelFetch(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	insertTestProfile(t, s, model.Profile{
		FirstName: "Alice", Email: "alice@eco-locaux.fr", Active: true,
	})
	_, err := s.InsertLeads(ctx, []model.Lead{
		{Name: "A", Status: model.StatusWon},
		{Name: "B"},
	})
	require.NoError(t, err)

	snap, err := Snapshot(ctx, s)
	require.NoError(t, err)
	assert.Len(t, snap.Leads, 2)
	assert.Len(t, snap.Profiles, 1)
	assert.Empty(t, snap.Appointments)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestOpen_SQLite(t *testing.T) {
	s, err := Open(context.Background(), Options{Driver: "sqlite", DatabaseURL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
}
