package types

import (
	"database/sql"
	"time"
)

// Observation is a single daily discharge reading from a gauging station.
// Discharge is missing when Discharge.Valid is false; this covers blank
// values, the source file's "no data" flags and readings scrubbed by the cleaner.
type Observation struct {
	SiteID    string
	Date      time.Time
	Discharge sql.NullFloat64
	Quality   string
}

// Missing reports whether the observation carries no usable discharge value
func (o Observation) Missing() bool {
	return !o.Discharge.Valid
}

// Series is an ordered run of observations for one site. Dates are strictly
// increasing and unique; ingestion is responsible for guaranteeing that.
type Series []Observation

// SiteID returns the site of the first observation, or "" for an empty series
func (s Series) SiteID() string {
	if len(s) == 0 {
		return ""
	}
	return s[0].SiteID
}

// Discharges returns the discharge values in date order, missing entries kept in place
func (s Series) Discharges() []sql.NullFloat64 {
	q := make([]sql.NullFloat64, len(s))
	for i, o := range s {
		q[i] = o.Discharge
	}
	return q
}

// Missing counts the observations without a discharge value
func (s Series) Missing() int {
	n := 0
	for _, o := range s {
		if o.Missing() {
			n++
		}
	}
	return n
}

// First and Last return the dates bounding the series. Both are the zero
// time for an empty series.
func (s Series) First() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[0].Date
}

func (s Series) Last() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Date
}

// Period is a half-open date interval [Start, End)
type Period struct {
	Start time.Time `json:"start" msgpack:"start"`
	End   time.Time `json:"end" msgpack:"end"`
}

// Contains reports whether t falls inside the period
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// AnnualStatistics holds the hydrologic metrics for one water year.
// Undefined values are NaN.
type AnnualStatistics struct {
	SiteID       string  `json:"site_no" msgpack:"site_no"`
	WaterYear    int     `json:"water_year" msgpack:"water_year"`
	Period       Period  `json:"period" msgpack:"period"`
	MeanFlow     float64 `json:"mean_flow" msgpack:"mean_flow"`
	PeakFlow     float64 `json:"peak_flow" msgpack:"peak_flow"`
	MedianFlow   float64 `json:"median_flow" msgpack:"median_flow"`
	CoeffVar     float64 `json:"coeff_var" msgpack:"coeff_var"`
	Skew         float64 `json:"skew" msgpack:"skew"`
	Tqmean       float64 `json:"tqmean" msgpack:"tqmean"`
	RBIndex      float64 `json:"rb_index" msgpack:"rb_index"`
	SevenQ       float64 `json:"seven_q" msgpack:"seven_q"`
	ThreeXMedian float64 `json:"three_x_median" msgpack:"three_x_median"`
	Station      string  `json:"station,omitempty" msgpack:"station,omitempty"`
}

// MonthlyStatistics holds the hydrologic metrics for one calendar month
type MonthlyStatistics struct {
	SiteID   string     `json:"site_no" msgpack:"site_no"`
	Year     int        `json:"year" msgpack:"year"`
	Month    time.Month `json:"month" msgpack:"month"`
	Period   Period     `json:"period" msgpack:"period"`
	MeanFlow float64    `json:"mean_flow" msgpack:"mean_flow"`
	CoeffVar float64    `json:"coeff_var" msgpack:"coeff_var"`
	Tqmean   float64    `json:"tqmean" msgpack:"tqmean"`
	RBIndex  float64    `json:"rb_index" msgpack:"rb_index"`
	Station  string     `json:"station,omitempty" msgpack:"station,omitempty"`
}

// AnnualSummary is the per-column average of a station's water-year table
type AnnualSummary struct {
	MeanFlow     float64 `json:"mean_flow" msgpack:"mean_flow"`
	PeakFlow     float64 `json:"peak_flow" msgpack:"peak_flow"`
	MedianFlow   float64 `json:"median_flow" msgpack:"median_flow"`
	CoeffVar     float64 `json:"coeff_var" msgpack:"coeff_var"`
	Skew         float64 `json:"skew" msgpack:"skew"`
	Tqmean       float64 `json:"tqmean" msgpack:"tqmean"`
	RBIndex      float64 `json:"rb_index" msgpack:"rb_index"`
	SevenQ       float64 `json:"seven_q" msgpack:"seven_q"`
	ThreeXMedian float64 `json:"three_x_median" msgpack:"three_x_median"`
	Station      string  `json:"station,omitempty" msgpack:"station,omitempty"`
}

// MonthlySummary is the average of every monthly row sharing a month number
type MonthlySummary struct {
	Month    time.Month `json:"month" msgpack:"month"`
	MeanFlow float64    `json:"mean_flow" msgpack:"mean_flow"`
	CoeffVar float64    `json:"coeff_var" msgpack:"coeff_var"`
	Tqmean   float64    `json:"tqmean" msgpack:"tqmean"`
	RBIndex  float64    `json:"rb_index" msgpack:"rb_index"`
	Station  string     `json:"station,omitempty" msgpack:"station,omitempty"`
}

// Description is a count/mean/spread/quantile summary of a series' discharge
type Description struct {
	Count  int     `json:"count" msgpack:"count"`
	Mean   float64 `json:"mean" msgpack:"mean"`
	Std    float64 `json:"std" msgpack:"std"`
	Min    float64 `json:"min" msgpack:"min"`
	Q25    float64 `json:"q25" msgpack:"q25"`
	Median float64 `json:"median" msgpack:"median"`
	Q75    float64 `json:"q75" msgpack:"q75"`
	Max    float64 `json:"max" msgpack:"max"`
}
