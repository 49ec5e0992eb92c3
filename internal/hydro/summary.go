package hydro

import (
	"math"
	"time"

	"github.com/chrissnell/hydrostats/internal/types"
)

// nanMean averages the defined values, NaN when there are none
type nanMean struct {
	sum float64
	n   int
}

func (m *nanMean) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	m.sum += v
	m.n++
}

func (m nanMean) value() float64 {
	if m.n == 0 {
		return math.NaN()
	}
	return m.sum / float64(m.n)
}

// AnnualAverages averages every column of a water-year table. Undefined
// entries are left out of their column's mean.
func AnnualAverages(rows []types.AnnualStatistics) types.AnnualSummary {
	var mean, peak, med, cv, skew, tq, rb, q7, x3 nanMean
	for _, r := range rows {
		mean.add(r.MeanFlow)
		peak.add(r.PeakFlow)
		med.add(r.MedianFlow)
		cv.add(r.CoeffVar)
		skew.add(r.Skew)
		tq.add(r.Tqmean)
		rb.add(r.RBIndex)
		q7.add(r.SevenQ)
		x3.add(r.ThreeXMedian)
	}

	return types.AnnualSummary{
		MeanFlow:     mean.value(),
		PeakFlow:     peak.value(),
		MedianFlow:   med.value(),
		CoeffVar:     cv.value(),
		Skew:         skew.value(),
		Tqmean:       tq.value(),
		RBIndex:      rb.value(),
		SevenQ:       q7.value(),
		ThreeXMedian: x3.value(),
	}
}

// MonthlyAverages groups monthly rows by month number regardless of year and
// averages each group. The result always has twelve rows, January first; a
// month with no rows is all NaN. Rows with a month outside January to
// December are ignored.
func MonthlyAverages(rows []types.MonthlyStatistics) [12]types.MonthlySummary {
	var acc [12][4]nanMean
	for _, r := range rows {
		if r.Month < time.January || r.Month > time.December {
			continue
		}
		m := r.Month - time.January
		acc[m][0].add(r.MeanFlow)
		acc[m][1].add(r.CoeffVar)
		acc[m][2].add(r.Tqmean)
		acc[m][3].add(r.RBIndex)
	}

	var out [12]types.MonthlySummary
	for i := range out {
		out[i] = types.MonthlySummary{
			Month:    time.January + time.Month(i),
			MeanFlow: acc[i][0].value(),
			CoeffVar: acc[i][1].value(),
			Tqmean:   acc[i][2].value(),
			RBIndex:  acc[i][3].value(),
		}
	}
	return out
}
