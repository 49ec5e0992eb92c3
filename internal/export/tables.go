// Package export writes station results to delimited text, an Excel
// workbook, or a JSON/MessagePack bundle.
package export

import (
	"math"

	"github.com/chrissnell/hydrostats/internal/hydro"
)

const dateLayout = "2006-01-02"

// Table is a named grid of cells. Cells hold string, int or float64 values,
// or nil for an undefined statistic.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

var (
	annualHeader = []string{"Date", "site_no", "Mean Flow", "Peak Flow", "Median Flow", "Coeff Var",
		"Skew", "Tqmean", "R-B Index", "7Q", "3xMedian", "Station"}
	monthlyHeader        = []string{"Date", "site_no", "Mean Flow", "Coeff Var", "Tqmean", "R-B Index", "Station"}
	annualAverageHeader  = []string{"Mean Flow", "Peak Flow", "Median Flow", "Coeff Var", "Skew", "Tqmean", "R-B Index", "7Q", "3xMedian", "Station"}
	monthlyAverageHeader = []string{"Month", "Mean Flow", "Coeff Var", "Tqmean", "R-B Index", "Station"}
)

// cell maps NaN to nil so writers can leave the field empty
func cell(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// AnnualTable concatenates every station's water-year rows
func AnnualTable(results []*hydro.Result) Table {
	t := Table{Name: "Annual Metrics", Header: annualHeader}
	for _, res := range results {
		for _, r := range res.Annual {
			t.Rows = append(t.Rows, []any{
				r.Period.Start.Format(dateLayout), r.SiteID,
				cell(r.MeanFlow), cell(r.PeakFlow), cell(r.MedianFlow), cell(r.CoeffVar), cell(r.Skew),
				cell(r.Tqmean), cell(r.RBIndex), cell(r.SevenQ), cell(r.ThreeXMedian),
				r.Station,
			})
		}
	}
	return t
}

// MonthlyTable concatenates every station's monthly rows
func MonthlyTable(results []*hydro.Result) Table {
	t := Table{Name: "Monthly Metrics", Header: monthlyHeader}
	for _, res := range results {
		for _, r := range res.Monthly {
			t.Rows = append(t.Rows, []any{
				r.Period.Start.Format(dateLayout), r.SiteID,
				cell(r.MeanFlow), cell(r.CoeffVar), cell(r.Tqmean), cell(r.RBIndex),
				r.Station,
			})
		}
	}
	return t
}

// AnnualAveragesTable has one row per station
func AnnualAveragesTable(results []*hydro.Result) Table {
	t := Table{Name: "Average Annual Metrics", Header: annualAverageHeader}
	for _, res := range results {
		a := res.AnnualSummary
		t.Rows = append(t.Rows, []any{
			cell(a.MeanFlow), cell(a.PeakFlow), cell(a.MedianFlow), cell(a.CoeffVar), cell(a.Skew),
			cell(a.Tqmean), cell(a.RBIndex), cell(a.SevenQ), cell(a.ThreeXMedian),
			a.Station,
		})
	}
	return t
}

// MonthlyAveragesTable has twelve rows per station
func MonthlyAveragesTable(results []*hydro.Result) Table {
	t := Table{Name: "Average Monthly Metrics", Header: monthlyAverageHeader}
	for _, res := range results {
		for _, m := range res.MonthlySummary {
			t.Rows = append(t.Rows, []any{
				int(m.Month), cell(m.MeanFlow), cell(m.CoeffVar), cell(m.Tqmean), cell(m.RBIndex),
				m.Station,
			})
		}
	}
	return t
}
