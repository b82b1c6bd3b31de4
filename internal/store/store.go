// Package store persists leads, appointments, and team profiles, and
// materializes the snapshots consumed by the scoring and statistics
// layers. Postgres is the primary backend; SQLite serves local and
// offline use.
package store

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/eco-locaux/prospect-cli/internal/model"
	"github.com/eco-locaux/prospect-cli/internal/stats"
)

// Store defines the persistence interface for the CRM.
type Store interface {
	// Snapshots
	ListLeads(ctx context.Context) ([]model.Lead, error)
	ListAppointments(ctx context.Context) ([]model.Appointment, error)
	ListProfiles(ctx context.Context) ([]model.Profile, error)

	// Bulk import
	InsertLeads(ctx context.Context, leads []model.Lead) (int, error)

	// Team administration
	UpdatePassword(ctx context.Context, profileID, passwordHash string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Options selects and tunes the backend.
type Options struct {
	Driver      string // "postgres" or "sqlite"
	DatabaseURL string
	MaxConns    int32
	MinConns    int32
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "postgres":
		return NewPostgres(ctx, opts)
	case "sqlite":
		return NewSQLite(opts.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", opts.Driver)
	}
}

// Snapshot fetches leads, appointments, and profiles in parallel and
// returns them as one snapshot for aggregation. This mirrors the
// dashboard's refresh: three independent queries issued concurrently,
// recomputed from scratch on every change notification.
func Snapshot(ctx context.Context, s Store) (stats.Snapshot, error) {
	var snap stats.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		leads, err := s.ListLeads(gctx)
		if err != nil {
			return eris.Wrap(err, "store: snapshot leads")
		}
		snap.Leads = leads
		return nil
	})
	g.Go(func() error {
		appts, err := s.ListAppointments(gctx)
		if err != nil {
			return eris.Wrap(err, "store: snapshot appointments")
		}
		snap.Appointments = appts
		return nil
	})
	g.Go(func() error {
		profiles, err := s.ListProfiles(gctx)
		if err != nil {
			return eris.Wrap(err, "store: snapshot profiles")
		}
		snap.Profiles = profiles
		return nil
	})

	if err := g.Wait(); err != nil {
		return stats.Snapshot{}, err
	}
	return snap, nil
}
