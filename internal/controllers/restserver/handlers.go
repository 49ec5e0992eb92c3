package restserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/chrissnell/hydrostats/internal/archive"
	"github.com/chrissnell/hydrostats/internal/types"
)

// runResponse is one archived run as served by /runs
type runResponse struct {
	ID          string `json:"id" msgpack:"id"`
	Started     string `json:"started" msgpack:"started"`
	Finished    string `json:"finished,omitempty" msgpack:"finished,omitempty"`
	WindowStart string `json:"window_start" msgpack:"window_start"`
	WindowEnd   string `json:"window_end" msgpack:"window_end"`
}

type annualResponse struct {
	RunID   string                   `json:"run_id" msgpack:"run_id"`
	Station string                   `json:"station" msgpack:"station"`
	Years   []types.AnnualStatistics `json:"years" msgpack:"years"`
}

// GetRuns lists archived runs, newest first
func (c *Controller) GetRuns(w http.ResponseWriter, req *http.Request) {
	runs, err := c.archive.Runs(req.Context())
	if err != nil {
		c.logger.Errorw("listing runs", "error", err)
		http.Error(w, "error reading archive", http.StatusInternalServerError)
		return
	}

	out := make([]runResponse, len(runs))
	for i, r := range runs {
		out[i] = runResponse{
			ID:          r.ID.String(),
			Started:     r.Started.Format(time.RFC3339),
			WindowStart: r.Window.Start.Format("2006-01-02"),
			WindowEnd:   r.Window.End.Format("2006-01-02"),
		}
		if r.Finished.Valid {
			out[i].Finished = r.Finished.Time.Format(time.RFC3339)
		}
	}

	if err := c.formatter.WriteResponse(w, req, out, nil); err != nil {
		c.logger.Errorw("writing response", "error", err)
		http.Error(w, "error encoding response", http.StatusInternalServerError)
	}
}

// GetLatestAnnual returns the water-year table of the newest finished run
// that included the station
func (c *Controller) GetLatestAnnual(w http.ResponseWriter, req *http.Request) {
	station := mux.Vars(req)["station"]

	runID, years, err := c.archive.LatestAnnual(req.Context(), station)
	if errors.Is(err, archive.ErrNoRuns) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		c.logger.Errorw("reading annual statistics", "station", station, "error", err)
		http.Error(w, "error reading archive", http.StatusInternalServerError)
		return
	}

	resp := annualResponse{RunID: runID.String(), Station: station, Years: years}
	if err := c.formatter.WriteResponse(w, req, resp, nil); err != nil {
		c.logger.Errorw("writing response", "error", err)
		http.Error(w, "error encoding response", http.StatusInternalServerError)
	}
}
