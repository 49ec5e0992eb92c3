// Package hydro turns a daily streamflow series into per-water-year and
// per-month hydrologic statistics and averages them into station summaries.
//
// A water year runs from October 1 through September 30 and is labeled by
// the calendar year it starts in. Missing discharge is carried as an invalid
// sql.NullFloat64 and every metric documents how it treats those gaps;
// undefined results are NaN rather than errors.
package hydro
