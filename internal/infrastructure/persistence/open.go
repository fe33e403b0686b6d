// Package persistence opens the configured store and exposes it through the application ports.
package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/config"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/persistence/db"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/persistence/postgres"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/persistence/sqlite"
)

// Stores is one open database seen through the repository ports.
type Stores struct {
	Users      ports.UserRepository
	Projects   ports.ProjectRepository
	MagicLinks ports.MagicLinkStore
	pinger     interface{ Ping(context.Context) error }
	close      func()
}

// Ping checks the underlying connection.
func (s *Stores) Ping(ctx context.Context) error { return s.pinger.Ping(ctx) }

// Close releases the connection pool.
func (s *Stores) Close() { s.close() }

// Open connects to the configured driver and brings the schema up to date.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Stores, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		q := db.New(pool)
		return &Stores{
			Users:      postgres.NewUserRepository(q),
			Projects:   postgres.NewProjectRepository(q, pool),
			MagicLinks: postgres.NewMagicLinkRepository(q),
			pinger:     pool,
			close:      pool.Close,
		}, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Users:      store.Users(),
			Projects:   store.Projects(),
			MagicLinks: store.MagicLinks(),
			pinger:     store,
			close:      func() { _ = store.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown database driver %q", config.ErrInvalid, cfg.Driver)
	}
}
