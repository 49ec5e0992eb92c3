package hydro

import (
	"database/sql"

	"github.com/chrissnell/hydrostats/internal/types"
)

// partition slices the discharge of a date-ordered series into the given
// consecutive periods. Missing days stay in place; a period with no
// observations gets an empty slice.
func partition(s types.Series, periods []types.Period) [][]sql.NullFloat64 {
	out := make([][]sql.NullFloat64, len(periods))

	i := 0
	for p, period := range periods {
		for i < len(s) && s[i].Date.Before(period.Start) {
			i++
		}
		start := i
		for i < len(s) && s[i].Date.Before(period.End) {
			i++
		}
		out[p] = s[start:i].Discharges()
	}

	return out
}

// WaterYearStatistics computes one row per water year spanned by s, ordered
// by water year.
func WaterYearStatistics(s types.Series) []types.AnnualStatistics {
	periods := WaterYears(s.First(), s.Last())
	if len(s) == 0 {
		periods = nil
	}

	site := s.SiteID()
	rows := make([]types.AnnualStatistics, 0, len(periods))
	for i, q := range partition(s, periods) {
		rows = append(rows, types.AnnualStatistics{
			SiteID:       site,
			WaterYear:    periods[i].Start.Year(),
			Period:       periods[i],
			MeanFlow:     MeanFlow(q),
			PeakFlow:     PeakFlow(q),
			MedianFlow:   MedianFlow(q),
			CoeffVar:     CoeffVar(q),
			Skew:         Skew(q),
			Tqmean:       Tqmean(q),
			RBIndex:      RBIndex(q),
			SevenQ:       SevenQ(q),
			ThreeXMedian: Exceed3xMedian(q),
		})
	}

	return rows
}

// MonthlyStatistics computes one row per calendar month spanned by s, in
// chronological order.
func MonthlyStatistics(s types.Series) []types.MonthlyStatistics {
	periods := Months(s.First(), s.Last())
	if len(s) == 0 {
		periods = nil
	}

	site := s.SiteID()
	rows := make([]types.MonthlyStatistics, 0, len(periods))
	for i, q := range partition(s, periods) {
		rows = append(rows, types.MonthlyStatistics{
			SiteID:   site,
			Year:     periods[i].Start.Year(),
			Month:    periods[i].Start.Month(),
			Period:   periods[i],
			MeanFlow: MeanFlow(q),
			CoeffVar: CoeffVar(q),
			Tqmean:   Tqmean(q),
			RBIndex:  RBIndex(q),
		})
	}

	return rows
}
