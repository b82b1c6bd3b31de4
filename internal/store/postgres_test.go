package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eco-locaux/prospect-cli/internal/model"
)

func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PostgresStore{pool: mock}, mock
}

func TestPostgresStore_ListLeads(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()
	rating := 4.2
	reviews := 87
	city := "Marseille"

	mock.ExpectQuery(`SELECT .+ FROM leads ORDER BY created_at`).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "type", "address", "website", "phone", "email",
			"rating", "review_count", "avg_ticket", "status", "priority",
			"salesperson_id", "search_city", "notes", "created_at", "updated_at",
		}).AddRow(
			"lead-1", "Poissonnerie du Port", strPtr("fishmonger"), nil, nil,
			strPtr("+33 4 91 00 00 00"), nil,
			&rating, &reviews, nil, "to_contact", "normal",
			nil, &city, nil, now, now,
		))

	leads, err := s.ListLeads(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 1)

	l := leads[0]
	assert.Equal(t, "Poissonnerie du Port", l.Name)
	assert.Equal(t, model.StatusToContact, l.Status)
	assert.Equal(t, model.PriorityNormal, l.Priority)
	require.NotNil(t, l.Rating)
	assert.InDelta(t, 4.2, *l.Rating, 0.001)
	assert.Nil(t, l.Website)
	require.NotNil(t, l.SearchCity)
	assert.Equal(t, "Marseille", *l.SearchCity)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListLeads_QueryError(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	mock.ExpectQuery(`SELECT .+ FROM leads`).
		WillReturnError(assert.AnError)

	_, err := s.ListLeads(context.Background())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListProfiles(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM profiles ORDER BY last_name, first_name`).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "first_name", "last_name", "email", "role", "active", "created_at",
		}).
			AddRow("p1", "Alice", "Martin", "alice@eco-locaux.fr", "salesperson", true, now).
			AddRow("p2", "Rémi", "Boutin", "remi@eco-locaux.fr", "admin", false, now))

	profiles, err := s.ListProfiles(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, model.RoleSalesperson, profiles[0].Role)
	assert.True(t, profiles[0].Active)
	assert.Equal(t, model.RoleAdmin, profiles[1].Role)
	assert.False(t, profiles[1].Active)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListAppointments(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	when := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM appointments ORDER BY date`).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "lead_id", "salesperson_id", "date", "time", "status", "created_at",
		}).AddRow("a1", "lead-1", "p1", when, "09:00", "confirmed", when))

	appts, err := s.ListAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, model.AppointmentConfirmed, appts[0].Status)
	assert.True(t, appts[0].Date.Equal(when))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertLeads(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"leads"}, []string{
		"id", "name", "type", "address", "website", "phone", "email",
		"rating", "review_count", "avg_ticket", "status", "priority",
		"salesperson_id", "search_city", "notes", "created_at", "updated_at",
	}).WillReturnResult(2)

	n, err := s.InsertLeads(context.Background(), []model.Lead{
		{Name: "Pressing Net"},
		{Name: "Boucherie Centrale"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertLeads_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	n, err := s.InsertLeads(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdatePassword(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE profiles SET password_hash`).
		WithArgs("$2a$10$hash", "p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.UpdatePassword(context.Background(), "p1", "$2a$10$hash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdatePassword_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE profiles SET password_hash`).
		WithArgs("x", "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdatePassword(context.Background(), "ghost", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFillLeadDefaults(t *testing.T) {
	now := time.Now().UTC()
	l := fillLeadDefaults(model.Lead{Name: "X"}, now)
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, model.StatusToContact, l.Status)
	assert.Equal(t, model.PriorityNormal, l.Priority)
	assert.Equal(t, now, l.CreatedAt)
	assert.Equal(t, now, l.UpdatedAt)

	kept := fillLeadDefaults(model.Lead{
		ID: "keep", Name: "Y", Status: model.StatusWon,
		Priority: model.PriorityHigh,
	}, now)
	assert.Equal(t, "keep", kept.ID)
	assert.Equal(t, model.StatusWon, kept.Status)
	assert.Equal(t, model.PriorityHigh, kept.Priority)
}

func strPtr(s string) *string { return &s }
