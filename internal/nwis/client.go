// Package nwis downloads daily discharge records from the USGS National
// Water Information System in the RDB format pkg/rdb reads.
package nwis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/chrissnell/hydrostats/internal/metrics"
)

const (
	// discharge, cubic feet per second
	parameterDischarge = "00060"
	// daily mean
	statisticMean = "00003"
)

// Client fetches daily-value files from the NWIS dv service
type Client struct {
	baseURL    string
	client     *http.Client
	logger     *zap.SugaredLogger
	newBackOff func() backoff.BackOff
}

// NewClient creates a client for the dv service at baseURL
func NewClient(baseURL string, timeout time.Duration, logger *zap.SugaredLogger) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.MaxElapsedTime = 2 * time.Minute
			return bo
		},
	}
}

// URL builds the request for a site's mean daily discharge between start and end
func (c *Client) URL(site string, start, end time.Time) string {
	q := url.Values{}
	q.Set("format", "rdb")
	q.Set("sites", site)
	q.Set("parameterCd", parameterDischarge)
	q.Set("statCd", statisticMean)
	q.Set("startDT", start.Format("2006-01-02"))
	q.Set("endDT", end.Format("2006-01-02"))
	return c.baseURL + "?" + q.Encode()
}

// Fetch downloads the RDB text for site. Rate limiting and server errors are
// retried with exponential backoff; any other failure status is final.
func (c *Client) Fetch(ctx context.Context, site string, start, end time.Time) ([]byte, error) {
	u := c.URL(site, start, end)

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("fetch %s: %w", site, err))
		}

		resp, err := c.client.Do(req)
		if err != nil {
			metrics.NWISRequests.WithLabelValues(site, "error").Inc()
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("fetch %s: %w", site, err)
		}
		defer resp.Body.Close()

		metrics.NWISRequests.WithLabelValues(site, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			c.logger.Warnw("nwis request failed, retrying", "site", site, "status", resp.StatusCode)
			return fmt.Errorf("fetch %s: status %d", site, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d: %s", site, resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(c.newBackOff(), ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

// Download fetches site into path unless path already exists. The file is
// written to a temporary name first so an interrupted download never leaves
// a truncated record behind.
func (c *Client) Download(ctx context.Context, site string, start, end time.Time, path string) error {
	if _, err := os.Stat(path); err == nil {
		c.logger.Debugw("station record cached", "site", site, "path", path)
		return nil
	}

	c.logger.Infow("downloading station record", "site", site, "start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"))
	body, err := c.Fetch(ctx, site, start, end)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
