package hydro

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestAnalyze(t *testing.T) {
	raw := dailyFunc(date(1968, 6, 1), date(1972, 3, 15), func(d time.Time) float64 {
		switch {
		case d.Equal(date(1970, 2, 1)):
			return -999
		case d.Day() == 31 && d.Month() == time.May:
			return nan
		}
		return float64(d.Month())
	})

	a := NewAnalyzer(zap.NewNop().Sugar(), Window{Start: date(1969, 10, 1), End: date(1971, 9, 30)})
	res, err := a.Analyze("Wildcat", raw)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	// May 31 1969, 1970, 1971
	if res.MissingAtIngestion != 3 {
		t.Errorf("missing at ingestion = %d, expected 3", res.MissingAtIngestion)
	}
	// May 31 1970, 1971 and the scrubbed negative reading
	if res.MissingInRange != 3 {
		t.Errorf("missing in range = %d, expected 3", res.MissingInRange)
	}
	if res.SiteID != "03335000" {
		t.Errorf("site id %q", res.SiteID)
	}
	if len(res.Annual) != 2 || res.Annual[0].WaterYear != 1969 || res.Annual[1].WaterYear != 1970 {
		t.Fatalf("unexpected water years: %+v", res.Annual)
	}
	if len(res.Monthly) != 24 {
		t.Errorf("expected 24 months, got %d", len(res.Monthly))
	}
	if res.Observations != len(raw) {
		t.Errorf("observations = %d, expected %d", res.Observations, len(raw))
	}
	// the negative reading is scrubbed before the raw description
	if res.Raw.Count != len(raw)-4 || res.Raw.Min < 0 || res.Clipped.Count != 730-3 {
		t.Errorf("descriptions: raw %d clipped %d", res.Raw.Count, res.Clipped.Count)
	}
	if res.MonthlySummary[4].MeanFlow != 5 {
		t.Errorf("May average %v", res.MonthlySummary[4].MeanFlow)
	}

	if res.Station != "" || res.Annual[0].Station != "" {
		t.Errorf("results should not be labeled by the analyzer")
	}
	res.Label("Wildcat")
	if res.Station != "Wildcat" || res.Annual[1].Station != "Wildcat" || res.Monthly[23].Station != "Wildcat" ||
		res.AnnualSummary.Station != "Wildcat" || res.MonthlySummary[11].Station != "Wildcat" {
		t.Errorf("label not applied everywhere")
	}
}

func TestAnalyzeInvalidWindow(t *testing.T) {
	a := NewAnalyzer(zap.NewNop().Sugar(), Window{Start: date(2019, 9, 30), End: date(1969, 10, 1)})

	_, err := a.Analyze("Tippe", daily(date(2000, 1, 1), 1, 2, 3))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}
