// Package archive keeps the statistics of every run in a SQLite database so
// results from different windows or data vintages can be compared later.
// Undefined statistics are stored as NULL.
package archive

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/hydrostats/internal/hydro"
	"github.com/chrissnell/hydrostats/internal/types"
	"github.com/chrissnell/hydrostats/pkg/migrate"
)

const (
	dateLayout = "2006-01-02"

	// fixed width so TEXT ordering matches time ordering
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNoRuns is returned when the archive holds nothing for a station
var ErrNoRuns = errors.New("no archived runs")

// Archive stores run results
type Archive struct {
	db     *sql.DB
	logger *zap.SugaredLogger
	now    func() time.Time
}

// Run describes one archived invocation
type Run struct {
	ID       uuid.UUID
	Started  time.Time
	Finished sql.NullTime
	Window   hydro.Window
}

// Open opens or creates the database at path
func Open(path string, logger *zap.SugaredLogger) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &Archive{db: db, logger: logger, now: time.Now}, nil
}

// Migrate brings the schema up to date
func (a *Archive) Migrate(ctx context.Context) error {
	source := migrate.NewFSProvider(migrationsFS, "migrations", "")
	return migrate.NewMigrator(a.db, source, a.logger).Up(ctx)
}

// Close closes the database
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) timestamp() string {
	return a.now().UTC().Format(timestampLayout)
}

// NewRun records the start of a run over window and returns its ID
func (a *Archive) NewRun(ctx context.Context, window hydro.Window) (uuid.UUID, error) {
	id := uuid.New()
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, window_start, window_end)
		VALUES (?, ?, ?, ?)
	`, id.String(), a.timestamp(), window.Start.Format(dateLayout), window.End.Format(dateLayout))
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// FinishRun marks a run as complete
func (a *Archive) FinishRun(ctx context.Context, id uuid.UUID) error {
	res, err := a.db.ExecContext(ctx, `UPDATE runs SET finished_at = ? WHERE id = ?`,
		a.timestamp(), id.String())
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run: unknown run %s", id)
	}
	return nil
}

// SaveResult stores one station's tables under runID. The result must be labeled.
func (a *Archive) SaveResult(ctx context.Context, runID uuid.UUID, res *hydro.Result) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO station_runs (run_id, station, site_no, observations, missing_at_ingestion, missing_in_range)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID.String(), res.Station, res.SiteID, res.Observations, res.MissingAtIngestion, res.MissingInRange)
	if err != nil {
		return fmt.Errorf("insert station run: %w", err)
	}

	annual, err := tx.PrepareContext(ctx, `
		INSERT INTO annual_statistics (run_id, station, site_no, water_year, mean_flow, peak_flow, median_flow,
			coeff_var, skew, tqmean, rb_index, seven_q, three_x_median)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer annual.Close()

	for _, r := range res.Annual {
		_, err := annual.ExecContext(ctx, runID.String(), res.Station, r.SiteID, r.WaterYear,
			nullable(r.MeanFlow), nullable(r.PeakFlow), nullable(r.MedianFlow), nullable(r.CoeffVar),
			nullable(r.Skew), nullable(r.Tqmean), nullable(r.RBIndex), nullable(r.SevenQ), nullable(r.ThreeXMedian))
		if err != nil {
			return fmt.Errorf("insert water year %d: %w", r.WaterYear, err)
		}
	}

	monthly, err := tx.PrepareContext(ctx, `
		INSERT INTO monthly_statistics (run_id, station, site_no, year, month, mean_flow, coeff_var, tqmean, rb_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer monthly.Close()

	for _, r := range res.Monthly {
		_, err := monthly.ExecContext(ctx, runID.String(), res.Station, r.SiteID, r.Year, int(r.Month),
			nullable(r.MeanFlow), nullable(r.CoeffVar), nullable(r.Tqmean), nullable(r.RBIndex))
		if err != nil {
			return fmt.Errorf("insert month %d-%02d: %w", r.Year, r.Month, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	a.logger.Debugw("archived station", "run", runID, "station", res.Station,
		"years", len(res.Annual), "months", len(res.Monthly))
	return nil
}

// Runs lists archived runs, newest first
func (a *Archive) Runs(ctx context.Context) ([]Run, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, window_start, window_end
		FROM runs
		ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			id, started, start, end string
			finished                sql.NullString
			run                     Run
		)
		if err := rows.Scan(&id, &started, &finished, &start, &end); err != nil {
			return nil, err
		}
		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("run id %q: %w", id, err)
		}
		if run.Started, err = time.Parse(timestampLayout, started); err != nil {
			return nil, err
		}
		if finished.Valid {
			t, err := time.Parse(timestampLayout, finished.String)
			if err != nil {
				return nil, err
			}
			run.Finished = sql.NullTime{Time: t, Valid: true}
		}
		if run.Window.Start, err = time.Parse(dateLayout, start); err != nil {
			return nil, err
		}
		if run.Window.End, err = time.Parse(dateLayout, end); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestAnnual returns the water-year table of the most recent finished run
// that included station.
func (a *Archive) LatestAnnual(ctx context.Context, station string) (uuid.UUID, []types.AnnualStatistics, error) {
	var id string
	err := a.db.QueryRowContext(ctx, `
		SELECT r.id
		FROM runs r
		JOIN station_runs s ON s.run_id = r.id
		WHERE s.station = ? AND r.finished_at IS NOT NULL
		ORDER BY r.started_at DESC
		LIMIT 1
	`, station).Scan(&id)
	if err == sql.ErrNoRows {
		return uuid.Nil, nil, fmt.Errorf("%w for station %q", ErrNoRuns, station)
	}
	if err != nil {
		return uuid.Nil, nil, err
	}

	runID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, nil, err
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT site_no, water_year, mean_flow, peak_flow, median_flow, coeff_var, skew, tqmean, rb_index,
			seven_q, three_x_median
		FROM annual_statistics
		WHERE run_id = ? AND station = ?
		ORDER BY water_year
	`, id, station)
	if err != nil {
		return uuid.Nil, nil, err
	}
	defer rows.Close()

	var out []types.AnnualStatistics
	for rows.Next() {
		var r types.AnnualStatistics
		var site sql.NullString
		var mean, peak, med, cv, skew, tq, rb, q7, x3 sql.NullFloat64
		if err := rows.Scan(&site, &r.WaterYear, &mean, &peak, &med, &cv, &skew, &tq, &rb, &q7, &x3); err != nil {
			return uuid.Nil, nil, err
		}
		r.SiteID = site.String
		r.Station = station
		r.Period = hydro.WaterYearPeriod(r.WaterYear)
		r.MeanFlow, r.PeakFlow, r.MedianFlow = value(mean), value(peak), value(med)
		r.CoeffVar, r.Skew, r.Tqmean = value(cv), value(skew), value(tq)
		r.RBIndex, r.SevenQ, r.ThreeXMedian = value(rb), value(q7), value(x3)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return uuid.Nil, nil, err
	}

	return runID, out, nil
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func value(n sql.NullFloat64) float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Float64
}
