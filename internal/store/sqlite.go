package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/eco-locaux/prospect-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS profiles (
	id            TEXT PRIMARY KEY,
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL UNIQUE,
	role          TEXT NOT NULL DEFAULT 'salesperson',
	active        INTEGER NOT NULL DEFAULT 1,
	password_hash TEXT,
	created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
);

CREATE TABLE IF NOT EXISTS leads (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	type           TEXT,
	address        TEXT,
	website        TEXT,
	phone          TEXT,
	email          TEXT,
	rating         REAL,
	review_count   INTEGER,
	avg_ticket     REAL,
	status         TEXT NOT NULL DEFAULT 'to_contact',
	priority       TEXT NOT NULL DEFAULT 'normal',
	salesperson_id TEXT REFERENCES profiles(id),
	search_city    TEXT,
	notes          TEXT,
	created_at     TEXT NOT NULL,
	updated_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS appointments (
	id             TEXT PRIMARY KEY,
	lead_id        TEXT NOT NULL REFERENCES leads(id),
	salesperson_id TEXT NOT NULL REFERENCES profiles(id),
	date           TEXT NOT NULL,
	time           TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'planned',
	created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_salesperson ON leads(salesperson_id);
CREATE INDEX IF NOT EXISTS idx_leads_search_city ON leads(search_city);
CREATE INDEX IF NOT EXISTS idx_appointments_lead ON appointments(lead_id);
CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(date);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Timestamps are stored as RFC 3339 strings so rows stay readable with
// the sqlite3 shell.
func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "sqlite: parse time %q", s)
	}
	return t, nil
}

func (s *SQLiteStore) ListLeads(ctx context.Context) ([]model.Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY created_at`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var l model.Lead
		var status, priority, createdAt, updatedAt string
		err := rows.Scan(
			&l.ID, &l.Name, &l.Type, &l.Address, &l.Website, &l.Phone,
			&l.Email, &l.Rating, &l.ReviewCount, &l.AvgTicket,
			&status, &priority, &l.SalespersonID, &l.SearchCity,
			&l.Notes, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		l.Status = model.LeadStatus(status)
		l.Priority = model.LeadPriority(priority)
		if l.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}

func (s *SQLiteStore) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lead_id, salesperson_id, date, time, status, created_at
		 FROM appointments ORDER BY date`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list appointments")
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		var a model.Appointment
		var status, date, createdAt string
		err := rows.Scan(&a.ID, &a.LeadID, &a.SalespersonID, &date,
			&a.Time, &status, &createdAt)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan appointment")
		}
		a.Status = model.AppointmentStatus(status)
		if a.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		if a.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, eris.Wrap(rows.Err(), "sqlite: list appointments iterate")
}

func (s *SQLiteStore) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email, role, active, created_at
		 FROM profiles ORDER BY last_name, first_name`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list profiles")
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		var p model.Profile
		var role, createdAt string
		err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email,
			&role, &p.Active, &createdAt)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan profile")
		}
		p.Role = model.Role(role)
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, eris.Wrap(rows.Err(), "sqlite: list profiles iterate")
}

// InsertLeads bulk-inserts leads inside one transaction.
func (s *SQLiteStore) InsertLeads(ctx context.Context, leads []model.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin insert leads")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO leads
		(id, name, type, address, website, phone, email, rating, review_count,
		 avg_ticket, status, priority, salesperson_id, search_city, notes,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert lead")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range leads {
		l := fillLeadDefaults(leads[i], now)
		_, err := stmt.ExecContext(ctx,
			l.ID, l.Name, l.Type, l.Address, l.Website, l.Phone, l.Email,
			l.Rating, l.ReviewCount, l.AvgTicket, string(l.Status),
			string(l.Priority), l.SalespersonID, l.SearchCity, l.Notes,
			formatTime(l.CreatedAt), formatTime(l.UpdatedAt),
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert lead %q", l.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit insert leads")
	}
	return len(leads), nil
}

func (s *SQLiteStore) UpdatePassword(ctx context.Context, profileID, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET password_hash = ? WHERE id = ?`,
		passwordHash, profileID)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update password %s", profileID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: profile %s not found", profileID)
	}
	return nil
}
