// Package migrate applies versioned SQL schema changes to a database/sql
// handle, recording the applied version in a tracking table.
package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Latest asks To for the newest known version
const Latest = -1

// Migration is one numbered schema change with its rollback
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// Source supplies migrations and keeps the version table
type Source interface {
	Migrations() ([]Migration, error)
	EnsureTable(ctx context.Context, db *sql.DB) error
	Version(ctx context.Context, db *sql.DB) (int, error)
	SetVersion(ctx context.Context, tx *sql.Tx, version int) error
}

// Migrator moves a database between schema versions
type Migrator struct {
	db     *sql.DB
	source Source
	logger *zap.SugaredLogger
}

// step is one migration applied in one direction
type step struct {
	mg Migration
	up bool
}

func NewMigrator(db *sql.DB, source Source, logger *zap.SugaredLogger) *Migrator {
	return &Migrator{
		db:     db,
		source: source,
		logger: logger,
	}
}

// Up applies every pending migration
func (m *Migrator) Up(ctx context.Context) error {
	return m.To(ctx, Latest)
}

// Version returns the applied schema version, 0 for a fresh database
func (m *Migrator) Version(ctx context.Context) (int, error) {
	if err := m.source.EnsureTable(ctx, m.db); err != nil {
		return 0, err
	}
	return m.source.Version(ctx, m.db)
}

// To migrates up or down until target is the applied version. Each step
// runs in its own transaction, so a failure leaves the schema at the last
// version that succeeded.
func (m *Migrator) To(ctx context.Context, target int) error {
	current, err := m.Version(ctx)
	if err != nil {
		return err
	}

	migrations, err := m.source.Migrations()
	if err != nil {
		return err
	}

	steps, err := plan(migrations, current, target)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		m.logger.Debugw("schema is current", "version", current)
		return nil
	}

	for _, s := range steps {
		if err := m.apply(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// plan orders the steps between current and target. migrations must be
// sorted by ascending version.
func plan(migrations []Migration, current, target int) ([]step, error) {
	if target == Latest {
		target = current
		if n := len(migrations); n > 0 && migrations[n-1].Version > current {
			target = migrations[n-1].Version
		}
	}
	if target < 0 {
		return nil, fmt.Errorf("invalid target version %d", target)
	}

	var steps []step
	if target >= current {
		for _, mg := range migrations {
			if mg.Version > current && mg.Version <= target {
				steps = append(steps, step{mg: mg, up: true})
			}
		}
		return steps, nil
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		mg := migrations[i]
		if mg.Version > target && mg.Version <= current {
			if mg.Down == "" {
				return nil, fmt.Errorf("migration %d (%s) cannot be rolled back", mg.Version, mg.Name)
			}
			steps = append(steps, step{mg: mg, up: false})
		}
	}
	return steps, nil
}

func (m *Migrator) apply(ctx context.Context, s step) error {
	stmt, version, direction := s.mg.Up, s.mg.Version, "up"
	if !s.up {
		stmt, version, direction = s.mg.Down, s.mg.Version-1, "down"
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", s.mg.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("migration %d %s: %w", s.mg.Version, direction, err)
	}
	if err := m.source.SetVersion(ctx, tx, version); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", s.mg.Version, err)
	}

	m.logger.Infow("migrated schema", "migration", s.mg.Version, "name", s.mg.Name, "direction", direction)
	return nil
}
