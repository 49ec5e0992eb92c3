package hydro

import (
	"math"
	"time"

	"github.com/chrissnell/hydrostats/internal/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daily builds a series of consecutive days starting at start; NaN marks a
// missing day
func daily(start time.Time, vals ...float64) types.Series {
	s := make(types.Series, len(vals))
	for i, v := range vals {
		s[i] = types.Observation{
			SiteID:  "03335000",
			Date:    start.AddDate(0, 0, i),
			Quality: "A",
		}
		if !math.IsNaN(v) {
			s[i].Discharge.Float64 = v
			s[i].Discharge.Valid = true
		}
	}
	return s
}

// dailyFunc builds consecutive days from start through end inclusive,
// taking each discharge from f
func dailyFunc(start, end time.Time, f func(time.Time) float64) types.Series {
	var vals []float64
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		vals = append(vals, f(d))
	}
	return daily(start, vals...)
}
