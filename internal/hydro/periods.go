package hydro

import (
	"time"

	"github.com/chrissnell/hydrostats/internal/types"
)

const dateLayout = "2006-01-02"

// WaterYearStartMonth is the first month of a USGS water year
const WaterYearStartMonth = time.October

// WaterYearOf returns the label (start year) of the water year containing t
func WaterYearOf(t time.Time) int {
	if t.Month() >= WaterYearStartMonth {
		return t.Year()
	}
	return t.Year() - 1
}

// WaterYearPeriod returns [Oct 1 of y, Oct 1 of y+1)
func WaterYearPeriod(y int) types.Period {
	return types.Period{
		Start: time.Date(y, WaterYearStartMonth, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(y+1, WaterYearStartMonth, 1, 0, 0, 0, 0, time.UTC),
	}
}

// MonthPeriod returns [first of the month, first of the next month)
func MonthPeriod(y int, m time.Month) types.Period {
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return types.Period{
		Start: start,
		End:   start.AddDate(0, 1, 0),
	}
}

// WaterYears returns the consecutive water years covering first through last.
// The result is empty when last precedes first.
func WaterYears(first, last time.Time) []types.Period {
	if last.Before(first) {
		return nil
	}

	var periods []types.Period
	for y := WaterYearOf(first); y <= WaterYearOf(last); y++ {
		periods = append(periods, WaterYearPeriod(y))
	}
	return periods
}

// Months returns the consecutive calendar months covering first through last
func Months(first, last time.Time) []types.Period {
	if last.Before(first) {
		return nil
	}

	var periods []types.Period
	p := MonthPeriod(first.Year(), first.Month())
	for !p.Start.After(last) {
		periods = append(periods, p)
		p = MonthPeriod(p.End.Year(), p.End.Month())
	}
	return periods
}
