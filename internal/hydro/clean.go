package hydro

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/hydrostats/internal/types"
)

// ErrInvalidRange is returned by Clip when the window start is after its end
var ErrInvalidRange = errors.New("invalid range")

// Clean returns a copy of raw with negative discharge rewritten to missing,
// along with the number of observations that were already missing in raw.
// Readings scrubbed here are not part of that count; they only show up in
// the missing count Clip reports.
func Clean(raw types.Series) (types.Series, int) {
	missing := raw.Missing()

	cleaned := make(types.Series, len(raw))
	copy(cleaned, raw)
	for i := range cleaned {
		if cleaned[i].Discharge.Valid && cleaned[i].Discharge.Float64 < 0 {
			cleaned[i].Discharge = sql.NullFloat64{}
		}
	}

	return cleaned, missing
}

// Clip returns the observations dated within [start, end], inclusive at both
// ends, and the number of those with missing discharge.
func Clip(s types.Series, start, end time.Time) (types.Series, int, error) {
	if start.After(end) {
		return nil, 0, fmt.Errorf("clip %s..%s: %w", start.Format(dateLayout), end.Format(dateLayout), ErrInvalidRange)
	}

	clipped := make(types.Series, 0, len(s))
	for _, o := range s {
		if o.Date.Before(start) || o.Date.After(end) {
			continue
		}
		clipped = append(clipped, o)
	}

	return clipped, clipped.Missing(), nil
}
