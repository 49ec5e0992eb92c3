// Package restserver serves archived run results over HTTP
package restserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chrissnell/hydrostats/internal/archive"
	"github.com/chrissnell/hydrostats/internal/metrics"
	"github.com/chrissnell/hydrostats/pkg/responseformat"
)

// Controller represents the REST server controller
type Controller struct {
	Server    http.Server
	archive   *archive.Archive
	formatter *responseformat.Formatter
	logger    *zap.SugaredLogger
}

// NewController creates a REST server listening on listen and reading from store
func NewController(listen string, store *archive.Archive, logger *zap.SugaredLogger) *Controller {
	c := &Controller{
		archive:   store,
		formatter: responseformat.NewFormatter(),
		logger:    logger,
	}
	c.Server.Addr = listen
	c.Server.Handler = c.setupRouter()
	c.Server.ReadHeaderTimeout = 10 * time.Second
	return c
}

// Run serves until ctx is cancelled, then shuts the server down
func (c *Controller) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		c.logger.Infow("starting REST server", "listen", c.Server.Addr)
		if err := c.Server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.logger.Info("shutting down the REST server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.Server.Shutdown(shutdownCtx)
}

func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/runs", c.GetRuns).Methods(http.MethodGet)
	router.HandleFunc("/stations/{station}/annual", c.GetLatestAnnual).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return router
}
