// Package app runs one complete analysis: fetch and read every station's
// record, analyze the stations in parallel, then write outputs, archive the
// run and record run metrics.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chrissnell/hydrostats/internal/archive"
	"github.com/chrissnell/hydrostats/internal/controllers/restserver"
	"github.com/chrissnell/hydrostats/internal/export"
	"github.com/chrissnell/hydrostats/internal/hydro"
	"github.com/chrissnell/hydrostats/internal/metrics"
	"github.com/chrissnell/hydrostats/internal/nwis"
	"github.com/chrissnell/hydrostats/pkg/config"
	"github.com/chrissnell/hydrostats/pkg/rdb"
)

// App represents the main application
type App struct {
	cfg    *config.ConfigData
	logger *zap.SugaredLogger
}

// New creates a new application instance for a validated configuration
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// Run analyzes every configured station and writes the results. Results
// are returned in configuration order.
func (a *App) Run(ctx context.Context) ([]*hydro.Result, error) {
	start, end, err := a.cfg.Window.Bounds()
	if err != nil {
		return nil, err
	}
	window := hydro.Window{Start: start, End: end}

	results, err := a.analyzeStations(ctx, window)
	if err != nil {
		return nil, err
	}

	if err := export.NewWriter(a.cfg.Output, a.logger.Named("export")).WriteAll(results); err != nil {
		return nil, err
	}

	if a.cfg.Archive.Path != "" {
		if err := a.archive(ctx, window, results); err != nil {
			return nil, err
		}
	}

	metrics.LastRunSuccess.SetToCurrentTime()
	if a.cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
			return nil, fmt.Errorf("write metrics: %w", err)
		}
	}

	a.logger.Infow("run complete", "stations", len(results))
	return results, nil
}

// Serve exposes the archive over HTTP until ctx is cancelled
func (a *App) Serve(ctx context.Context) error {
	if a.cfg.Archive.Path == "" {
		return errors.New("serving requires an archive path")
	}

	store, err := archive.Open(a.cfg.Archive.Path, a.logger.Named("archive"))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate archive: %w", err)
	}

	return restserver.NewController(a.cfg.Server.Listen, store, a.logger.Named("restserver")).Run(ctx)
}

// analyzeStations runs one goroutine per station, bounded by Workers.
// Each goroutine writes only its own slot of the result slice.
func (a *App) analyzeStations(ctx context.Context, window hydro.Window) ([]*hydro.Result, error) {
	analyzer := hydro.NewAnalyzer(a.logger.Named("hydro"), window)

	var client *nwis.Client
	if a.cfg.NWIS.Enabled {
		client = nwis.NewClient(a.cfg.NWIS.BaseURL, a.cfg.NWIS.Timeout, a.logger.Named("nwis"))
	}

	results := make([]*hydro.Result, len(a.cfg.Stations))

	g, ctx := errgroup.WithContext(ctx)
	if a.cfg.Workers > 0 {
		g.SetLimit(a.cfg.Workers)
	}

	for i, st := range a.cfg.Stations {
		i, st := i, st
		g.Go(func() error {
			began := time.Now()

			path, err := a.recordPath(ctx, client, st, window)
			if err != nil {
				return fmt.Errorf("station %s: %w", st.Name, err)
			}

			raw, err := rdb.ReadFile(path, rdb.Options{NoDataFlags: a.cfg.NoDataFlags})
			if err != nil {
				return fmt.Errorf("station %s: %w", st.Name, err)
			}
			metrics.ObservationsIngested.WithLabelValues(st.Name).Add(float64(len(raw)))

			res, err := analyzer.Analyze(st.Name, raw)
			if err != nil {
				return fmt.Errorf("station %s: %w", st.Name, err)
			}
			res.Label(st.Name)

			metrics.MissingObservations.WithLabelValues(st.Name, "ingestion").Set(float64(res.MissingAtIngestion))
			metrics.MissingObservations.WithLabelValues(st.Name, "window").Set(float64(res.MissingInRange))
			metrics.PeriodsComputed.WithLabelValues(st.Name, "water_year").Add(float64(len(res.Annual)))
			metrics.PeriodsComputed.WithLabelValues(st.Name, "month").Add(float64(len(res.Monthly)))
			metrics.StationAnalysisSeconds.WithLabelValues(st.Name).Observe(time.Since(began).Seconds())

			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// recordPath returns the file holding a station's record, downloading it
// first when it is missing and NWIS downloads are enabled.
func (a *App) recordPath(ctx context.Context, client *nwis.Client, st config.StationData, window hydro.Window) (string, error) {
	if _, err := os.Stat(st.File); err == nil || client == nil || st.SiteNo == "" {
		return st.File, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	path := st.File
	if a.cfg.NWIS.CacheDir != "" {
		path = filepath.Join(a.cfg.NWIS.CacheDir, filepath.Base(st.File))
	}

	if err := client.Download(ctx, st.SiteNo, window.Start, window.End, path); err != nil {
		return "", fmt.Errorf("download site %s: %w", st.SiteNo, err)
	}
	return path, nil
}

func (a *App) archive(ctx context.Context, window hydro.Window, results []*hydro.Result) error {
	store, err := archive.Open(a.cfg.Archive.Path, a.logger.Named("archive"))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate archive: %w", err)
	}

	runID, err := store.NewRun(ctx, window)
	if err != nil {
		return err
	}

	for _, res := range results {
		if err := store.SaveResult(ctx, runID, res); err != nil {
			return fmt.Errorf("archive station %s: %w", res.Station, err)
		}
	}

	if err := store.FinishRun(ctx, runID); err != nil {
		return err
	}

	a.logger.Infow("archived run", "run", runID, "path", a.cfg.Archive.Path)
	return nil
}
