package hydro

import (
	"database/sql"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// LowFlowWindow is the length in days of the 7Q moving window
	LowFlowWindow = 7

	// ExceedanceMultiple scales the median for the high-flow day count
	ExceedanceMultiple = 3.0
)

// All calculators below take one period's discharge in date order with
// missing days left in place. None of them fail: a result that cannot be
// defined (no data, too little data, zero denominator) is NaN.

// present drops missing entries, keeping the order of the rest
func present(q []sql.NullFloat64) []float64 {
	x := make([]float64, 0, len(q))
	for _, v := range q {
		if v.Valid {
			x = append(x, v.Float64)
		}
	}
	return x
}

func median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}

	sorted := make([]float64, n)
	copy(sorted, x)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// MeanFlow is the arithmetic mean of the non-missing discharge
func MeanFlow(q []sql.NullFloat64) float64 {
	x := present(q)
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// PeakFlow is the largest non-missing discharge
func PeakFlow(q []sql.NullFloat64) float64 {
	x := present(q)
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Max(x)
}

// MedianFlow is the median of the non-missing discharge. An even count
// averages the two middle values.
func MedianFlow(q []sql.NullFloat64) float64 {
	return median(present(q))
}

// CoeffVar is the sample standard deviation as a percentage of the mean
func CoeffVar(q []sql.NullFloat64) float64 {
	x := present(q)
	if len(x) < 2 {
		return math.NaN()
	}

	mean, std := stat.MeanStdDev(x, nil)
	if mean == 0 {
		return math.NaN()
	}
	return std / mean * 100
}

// Skew is the Fisher-Pearson coefficient of skewness, m3 / m2^1.5, using
// population central moments.
func Skew(q []sql.NullFloat64) float64 {
	x := present(q)
	if len(x) == 0 {
		return math.NaN()
	}

	m2 := stat.Moment(2, x, nil)
	if m2 == 0 {
		return math.NaN()
	}
	return stat.Moment(3, x, nil) / math.Pow(m2, 1.5)
}

// Tqmean is the fraction of days whose flow is above the period's mean flow
func Tqmean(q []sql.NullFloat64) float64 {
	x := present(q)
	if len(x) == 0 {
		return math.NaN()
	}

	mean := stat.Mean(x, nil)
	above := 0
	for _, v := range x {
		if v > mean {
			above++
		}
	}
	return float64(above) / float64(len(x))
}

// RBIndex is the Richards-Baker flashiness index: the path length of the
// day-to-day changes divided by the total flow. Changes are taken between
// consecutive non-missing days, so a gap joins the days on either side of it.
func RBIndex(q []sql.NullFloat64) float64 {
	x := present(q)

	var path float64
	for i := 1; i < len(x); i++ {
		path += math.Abs(x[i] - x[i-1])
	}

	// missing days add nothing to the total
	total := floats.Sum(x)
	if total == 0 {
		return math.NaN()
	}
	return path / total
}

// SevenQ is the lowest mean over any LowFlowWindow consecutive non-missing days
func SevenQ(q []sql.NullFloat64) float64 {
	x := present(q)
	if len(x) < LowFlowWindow {
		return math.NaN()
	}

	low := math.Inf(1)
	for i := LowFlowWindow; i <= len(x); i++ {
		low = math.Min(low, floats.Sum(x[i-LowFlowWindow:i])/LowFlowWindow)
	}
	return low
}

// Exceed3xMedian counts days with flow above ExceedanceMultiple times the
// period's median flow.
func Exceed3xMedian(q []sql.NullFloat64) float64 {
	x := present(q)
	if len(x) == 0 {
		return math.NaN()
	}

	threshold := median(x) * ExceedanceMultiple
	count := 0
	for _, v := range x {
		if v > threshold {
			count++
		}
	}
	return float64(count)
}
