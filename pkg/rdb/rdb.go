// Package rdb reads USGS daily-value discharge files in RDB format.
//
// An RDB file starts with "#" comment lines followed by a column-name line and
// a column-format line. Every remaining line holds tab-separated agency code,
// site number, date, mean daily discharge and a qualification code. Lines
// without tabs are split on runs of whitespace. Discharge may be blank, one of
// the USGS "no data" flags such as Eqp or Ice, or a null marker like NaN or NA;
// all of these are read as missing.
package rdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chrissnell/hydrostats/internal/types"
)

const dateLayout = "2006-01-02"

var (
	// ErrNoHeader means the input ended before the column-name and format lines
	ErrNoHeader = errors.New("rdb: missing header")

	// ErrDuplicateDate means a site reported the same day twice
	ErrDuplicateDate = errors.New("rdb: duplicate date")
)

// DefaultNoDataFlags are the discharge codes read as missing when Options
// leaves NoDataFlags empty
var DefaultNoDataFlags = []string{"Eqp"}

// nullTokens are the discharge values read as missing regardless of Options.
// They match the null markers pandas recognizes by default.
var nullTokens = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true,
	"N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// Options controls how discharge tokens are interpreted
type Options struct {
	// NoDataFlags lists discharge tokens that mean "no value for this day"
	NoDataFlags []string
}

func (o Options) flags() map[string]bool {
	list := o.NoDataFlags
	if len(list) == 0 {
		list = DefaultNoDataFlags
	}
	m := make(map[string]bool, len(list))
	for _, f := range list {
		m[f] = true
	}
	return m
}

// ReadFile opens path and reads it with Read
func ReadFile(path string, opts Options) (types.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Read parses an RDB daily-value table. The returned series is sorted by date.
func Read(r io.Reader, opts Options) (types.Series, error) {
	noData := opts.flags()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var series types.Series
	headerLines := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if trimmed := strings.TrimSpace(line); trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		// column names, then column formats
		if headerLines < 2 {
			headerLines++
			continue
		}

		obs, err := parseRow(line, noData)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		series = append(series, obs)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if headerLines < 2 {
		return nil, ErrNoHeader
	}

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	for i := 1; i < len(series); i++ {
		if series[i].Date.Equal(series[i-1].Date) {
			return nil, fmt.Errorf("%s: %w", series[i].Date.Format(dateLayout), ErrDuplicateDate)
		}
	}

	return series, nil
}

// splitRow keeps empty tab-separated fields in place so a blank discharge
// followed by a qualification code stays in the discharge column.
func splitRow(line string) []string {
	if !strings.Contains(line, "\t") {
		return strings.Fields(line)
	}
	fields := strings.Split(line, "\t")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

func parseRow(line string, noData map[string]bool) (types.Observation, error) {
	fields := splitRow(line)
	if len(fields) < 3 {
		return types.Observation{}, fmt.Errorf("expected at least 3 columns, got %d", len(fields))
	}

	date, err := time.Parse(dateLayout, fields[2])
	if err != nil {
		return types.Observation{}, fmt.Errorf("bad date %q: %w", fields[2], err)
	}

	obs := types.Observation{
		SiteID: fields[1],
		Date:   date,
	}

	if len(fields) > 3 {
		q := fields[3]
		if q != "" && !noData[q] && !nullTokens[q] {
			v, err := strconv.ParseFloat(q, 64)
			if err != nil {
				return types.Observation{}, fmt.Errorf("bad discharge %q: %w", q, err)
			}
			// Inf and NaN spellings ParseFloat accepts are not readings
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				obs.Discharge.Float64 = v
				obs.Discharge.Valid = true
			}
		}
	}
	if len(fields) > 4 {
		obs.Quality = fields[4]
	}

	return obs, nil
}
