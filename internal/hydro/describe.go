package hydro

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/chrissnell/hydrostats/internal/types"
)

// Describe summarizes the non-missing discharge of s. Std is the sample
// standard deviation; quartiles interpolate linearly between order statistics.
func Describe(s types.Series) types.Description {
	x := present(s.Discharges())
	sort.Float64s(x)

	d := types.Description{Count: len(x)}
	if len(x) == 0 {
		nan := math.NaN()
		d.Mean, d.Std, d.Min, d.Q25, d.Median, d.Q75, d.Max = nan, nan, nan, nan, nan, nan, nan
		return d
	}

	d.Mean = stat.Mean(x, nil)
	d.Std = math.NaN()
	if len(x) > 1 {
		d.Std = stat.StdDev(x, nil)
	}
	d.Min = x[0]
	d.Max = x[len(x)-1]
	d.Q25 = quantile(x, 0.25)
	d.Median = quantile(x, 0.5)
	d.Q75 = quantile(x, 0.75)

	return d
}

// quantile of sorted at p, interpolating at rank p*(n-1).
// stat.Quantile's LinInterp steps on the empirical CDF instead.
func quantile(sorted []float64, p float64) float64 {
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
