package hydro

import (
	"fmt"
	"math"
	"testing"
	"time"
)

func TestWaterYearStatistics(t *testing.T) {
	// 2 cfs all of water year 2018, 4 cfs all of 2019
	s := dailyFunc(date(2018, 10, 1), date(2020, 9, 30), func(d time.Time) float64 {
		if WaterYearOf(d) == 2018 {
			return 2
		}
		return 4
	})

	rows := WaterYearStatistics(s)
	if len(rows) != 2 {
		t.Fatalf("expected 2 water years, got %d", len(rows))
	}

	for i, want := range []float64{2, 4} {
		r := rows[i]
		if r.WaterYear != 2018+i {
			t.Errorf("row %d: water year %d", i, r.WaterYear)
		}
		if r.SiteID != "03335000" {
			t.Errorf("row %d: site %q", i, r.SiteID)
		}
		if r.MeanFlow != want || r.PeakFlow != want || r.MedianFlow != want || r.SevenQ != want {
			t.Errorf("row %d: mean/peak/median/7Q = %v/%v/%v/%v, expected %v", i, r.MeanFlow, r.PeakFlow, r.MedianFlow, r.SevenQ, want)
		}
		if r.CoeffVar != 0 || r.Tqmean != 0 || r.RBIndex != 0 || r.ThreeXMedian != 0 {
			t.Errorf("row %d: constant flow should have no variability: %+v", i, r)
		}
		if !math.IsNaN(r.Skew) {
			t.Errorf("row %d: skew of constant flow should be undefined, got %v", i, r.Skew)
		}
	}
}

func TestWaterYearStatisticsBoundary(t *testing.T) {
	// Sep 30 belongs to the earlier water year, Oct 1 starts the next one
	s := daily(date(2019, 9, 24), 1, 1, 1, 1, 1, 1, 1, 9, 9)

	rows := WaterYearStatistics(s)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].WaterYear != 2018 || rows[0].PeakFlow != 1 || rows[0].SevenQ != 1 {
		t.Errorf("water year 2018: %+v", rows[0])
	}
	if rows[1].WaterYear != 2019 || rows[1].MeanFlow != 9 || !math.IsNaN(rows[1].SevenQ) {
		t.Errorf("water year 2019: %+v", rows[1])
	}
}

func TestWaterYearStatisticsEmptyPeriod(t *testing.T) {
	s := append(daily(date(2017, 10, 1), 5, 6), daily(date(2019, 10, 1), 7, 8)...)

	rows := WaterYearStatistics(s)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	gap := rows[1]
	if gap.WaterYear != 2018 {
		t.Fatalf("middle row is water year %d", gap.WaterYear)
	}
	for name, v := range map[string]float64{
		"mean": gap.MeanFlow, "peak": gap.PeakFlow, "median": gap.MedianFlow, "cv": gap.CoeffVar,
		"skew": gap.Skew, "tqmean": gap.Tqmean, "rb": gap.RBIndex, "7q": gap.SevenQ, "3x": gap.ThreeXMedian,
	} {
		if !math.IsNaN(v) {
			t.Errorf("%s of empty water year = %v, expected NaN", name, v)
		}
	}
}

func TestWaterYearStatisticsEmptySeries(t *testing.T) {
	if rows := WaterYearStatistics(nil); len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
	if rows := MonthlyStatistics(nil); len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestMonthlyStatistics(t *testing.T) {
	s := dailyFunc(date(2019, 1, 1), date(2020, 12, 31), func(d time.Time) float64 {
		return float64(d.Day())
	})

	rows := MonthlyStatistics(s)
	if len(rows) != 24 {
		t.Fatalf("expected 24 months, got %d", len(rows))
	}

	feb := rows[1]
	if feb.Year != 2019 || feb.Month != time.February {
		t.Fatalf("second row is %d-%d", feb.Year, feb.Month)
	}
	// days 1..28
	if !closeTo(feb.MeanFlow, 14.5, 1e-12) || !closeTo(feb.Tqmean, 0.5, 1e-12) {
		t.Errorf("February: mean %v tqmean %v", feb.MeanFlow, feb.Tqmean)
	}
	if !closeTo(feb.RBIndex, 27.0/406.0, 1e-12) {
		t.Errorf("February: rb index %v", feb.RBIndex)
	}

	for i := 1; i < len(rows); i++ {
		if !rows[i-1].Period.End.Equal(rows[i].Period.Start) {
			t.Errorf("months %d and %d do not tile", i-1, i)
		}
	}
}

func TestAggregationIsDeterministic(t *testing.T) {
	s := dailyFunc(date(1999, 10, 1), date(2004, 9, 30), func(d time.Time) float64 {
		v := math.Sin(float64(d.YearDay())/58) * 100
		if d.Day() == 13 {
			return math.NaN()
		}
		return math.Abs(v)
	})

	first := fmt.Sprintf("%v %v", WaterYearStatistics(s), MonthlyStatistics(s))
	second := fmt.Sprintf("%v %v", WaterYearStatistics(s), MonthlyStatistics(s))
	if first != second {
		t.Errorf("aggregation is not deterministic")
	}
}
