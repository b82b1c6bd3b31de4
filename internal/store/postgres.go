package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/eco-locaux/prospect-cli/internal/model"
)

// Pool is the subset of *pgxpool.Pool the store uses; pgxmock satisfies
// it for unit tests.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

const leadColumns = `id, name, type, address, website, phone, email, rating,
	review_count, avg_ticket, status, priority, salesperson_id, search_city,
	notes, created_at, updated_at`

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, opts Options) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(opts.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := opts.MaxConns
	if maxConns <= 0 {
		maxConns = 10
	}
	minConns := opts.MinConns
	if minConns <= 0 {
		minConns = 2
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS profiles (
	id            UUID PRIMARY KEY,
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL UNIQUE,
	role          TEXT NOT NULL DEFAULT 'salesperson',
	active        BOOLEAN NOT NULL DEFAULT true,
	password_hash TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS leads (
	id             UUID PRIMARY KEY,
	name           TEXT NOT NULL,
	type           TEXT,
	address        TEXT,
	website        TEXT,
	phone          TEXT,
	email          TEXT,
	rating         DOUBLE PRECISION,
	review_count   INTEGER,
	avg_ticket     DOUBLE PRECISION,
	status         TEXT NOT NULL DEFAULT 'to_contact',
	priority       TEXT NOT NULL DEFAULT 'normal',
	salesperson_id UUID REFERENCES profiles(id),
	search_city    TEXT,
	notes          TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS appointments (
	id             UUID PRIMARY KEY,
	lead_id        UUID NOT NULL REFERENCES leads(id),
	salesperson_id UUID NOT NULL REFERENCES profiles(id),
	date           TIMESTAMPTZ NOT NULL,
	time           TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'planned',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_salesperson ON leads(salesperson_id);
CREATE INDEX IF NOT EXISTS idx_leads_search_city ON leads(search_city);
CREATE INDEX IF NOT EXISTS idx_appointments_lead ON appointments(lead_id);
CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(date);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) ListLeads(ctx context.Context) ([]model.Lead, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY created_at`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var l model.Lead
		var status, priority string
		err := rows.Scan(
			&l.ID, &l.Name, &l.Type, &l.Address, &l.Website, &l.Phone,
			&l.Email, &l.Rating, &l.ReviewCount, &l.AvgTicket,
			&status, &priority, &l.SalespersonID, &l.SearchCity,
			&l.Notes, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		l.Status = model.LeadStatus(status)
		l.Priority = model.LeadPriority(priority)
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: iterate leads")
}

func (s *PostgresStore) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, lead_id, salesperson_id, date, time, status, created_at
		 FROM appointments ORDER BY date`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list appointments")
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		var a model.Appointment
		var status string
		err := rows.Scan(&a.ID, &a.LeadID, &a.SalespersonID, &a.Date,
			&a.Time, &status, &a.CreatedAt)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan appointment")
		}
		a.Status = model.AppointmentStatus(status)
		appts = append(appts, a)
	}
	return appts, eris.Wrap(rows.Err(), "postgres: iterate appointments")
}

func (s *PostgresStore) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, first_name, last_name, email, role, active, created_at
		 FROM profiles ORDER BY last_name, first_name`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list profiles")
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		var p model.Profile
		var role string
		err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email,
			&role, &p.Active, &p.CreatedAt)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan profile")
		}
		p.Role = model.Role(role)
		profiles = append(profiles, p)
	}
	return profiles, eris.Wrap(rows.Err(), "postgres: iterate profiles")
}

// InsertLeads bulk-inserts leads via the COPY protocol. Missing IDs,
// statuses, priorities, and timestamps are filled with defaults.
func (s *PostgresStore) InsertLeads(ctx context.Context, leads []model.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(leads))
	for i := range leads {
		l := fillLeadDefaults(leads[i], now)
		rows = append(rows, []any{
			l.ID, l.Name, l.Type, l.Address, l.Website, l.Phone, l.Email,
			l.Rating, l.ReviewCount, l.AvgTicket, string(l.Status),
			string(l.Priority), l.SalespersonID, l.SearchCity, l.Notes,
			l.CreatedAt, l.UpdatedAt,
		})
	}

	n, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"leads"},
		[]string{"id", "name", "type", "address", "website", "phone", "email",
			"rating", "review_count", "avg_ticket", "status", "priority",
			"salesperson_id", "search_city", "notes", "created_at", "updated_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: copy leads")
	}
	return int(n), nil
}

func (s *PostgresStore) UpdatePassword(ctx context.Context, profileID, passwordHash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE profiles SET password_hash = $1 WHERE id = $2`,
		passwordHash, profileID)
	if err != nil {
		return eris.Wrapf(err, "postgres: update password %s", profileID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: profile %s not found", profileID)
	}
	return nil
}

// fillLeadDefaults assigns an ID, pipeline defaults, and timestamps to
// an imported lead that lacks them.
func fillLeadDefaults(l model.Lead, now time.Time) model.Lead {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Status == "" {
		l.Status = model.StatusToContact
	}
	if l.Priority == "" {
		l.Priority = model.PriorityNormal
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = now
	}
	return l
}
