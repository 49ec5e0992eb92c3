package hydro

import (
	"time"

	"go.uber.org/zap"

	"github.com/chrissnell/hydrostats/internal/types"
)

// Window is the inclusive date range every station is clipped to so their
// statistics cover the same years.
type Window struct {
	Start time.Time
	End   time.Time
}

// Result is everything computed for one station
type Result struct {
	Station            string                    `json:"station" msgpack:"station"`
	SiteID             string                    `json:"site_no" msgpack:"site_no"`
	Observations       int                       `json:"observations" msgpack:"observations"`
	MissingAtIngestion int                       `json:"missing_at_ingestion" msgpack:"missing_at_ingestion"`
	MissingInRange     int                       `json:"missing_in_range" msgpack:"missing_in_range"`
	Raw                types.Description         `json:"raw" msgpack:"raw"`
	Clipped            types.Description         `json:"clipped" msgpack:"clipped"`
	Annual             []types.AnnualStatistics  `json:"annual" msgpack:"annual"`
	Monthly            []types.MonthlyStatistics `json:"monthly" msgpack:"monthly"`
	AnnualSummary      types.AnnualSummary       `json:"annual_summary" msgpack:"annual_summary"`
	MonthlySummary     [12]types.MonthlySummary  `json:"monthly_summary" msgpack:"monthly_summary"`
}

// Label stamps the station name onto every table row and summary
func (r *Result) Label(station string) {
	r.Station = station
	for i := range r.Annual {
		r.Annual[i].Station = station
	}
	for i := range r.Monthly {
		r.Monthly[i].Station = station
	}
	r.AnnualSummary.Station = station
	for i := range r.MonthlySummary {
		r.MonthlySummary[i].Station = station
	}
}

// Analyzer runs the clean, clip, aggregate and reduce stages for one
// station's series at a time. It keeps no state between calls, so one
// Analyzer may serve several goroutines.
type Analyzer struct {
	logger *zap.SugaredLogger
	window Window
}

// NewAnalyzer creates an Analyzer clipping every series to window
func NewAnalyzer(logger *zap.SugaredLogger, window Window) *Analyzer {
	return &Analyzer{
		logger: logger,
		window: window,
	}
}

// Analyze computes the water-year and monthly tables and their averages for
// raw. The returned result is not labeled; callers decide the station name
// written into the tables.
func (a *Analyzer) Analyze(station string, raw types.Series) (*Result, error) {
	logger := a.logger.With("station", station)
	logger.Infow("working on station", "observations", len(raw))

	res := &Result{
		SiteID:       raw.SiteID(),
		Observations: len(raw),
	}

	// negative readings are already missing in the raw description
	cleaned, missing := Clean(raw)
	res.MissingAtIngestion = missing
	res.Raw = Describe(cleaned)
	logger.Infow("raw data", "missing", missing, "count", res.Raw.Count, "mean", res.Raw.Mean, "max", res.Raw.Max)

	clipped, missing, err := Clip(cleaned, a.window.Start, a.window.End)
	if err != nil {
		return nil, err
	}
	res.MissingInRange = missing
	res.Clipped = Describe(clipped)
	logger.Infow("selected period",
		"start", a.window.Start.Format(dateLayout),
		"end", a.window.End.Format(dateLayout),
		"observations", len(clipped),
		"missing", missing,
		"mean", res.Clipped.Mean)

	res.Annual = WaterYearStatistics(clipped)
	res.AnnualSummary = AnnualAverages(res.Annual)
	logger.Infow("water year metrics",
		"years", len(res.Annual),
		"mean_flow", res.AnnualSummary.MeanFlow,
		"rb_index", res.AnnualSummary.RBIndex,
		"seven_q", res.AnnualSummary.SevenQ)

	res.Monthly = MonthlyStatistics(clipped)
	res.MonthlySummary = MonthlyAverages(res.Monthly)
	logger.Infow("monthly metrics", "months", len(res.Monthly))

	return res, nil
}
