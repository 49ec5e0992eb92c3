package hydro

import (
	"errors"
	"testing"
)

func TestCleanScrubsNegativeDischarge(t *testing.T) {
	raw := daily(date(2019, 10, 1), -5, 3, 4)

	cleaned, missing := Clean(raw)

	if missing != 0 {
		t.Errorf("missing at ingestion = %d, expected 0", missing)
	}
	if !cleaned[0].Missing() {
		t.Errorf("negative reading should become missing, got %v", cleaned[0].Discharge)
	}
	if cleaned[1].Discharge.Float64 != 3 || cleaned[2].Discharge.Float64 != 4 {
		t.Errorf("valid readings changed: %v", cleaned.Discharges())
	}

	// input untouched
	if raw[0].Missing() || raw[0].Discharge.Float64 != -5 {
		t.Errorf("Clean modified its input: %v", raw[0].Discharge)
	}

	_, inRange, err := Clip(cleaned, date(2019, 10, 1), date(2019, 10, 3))
	if err != nil {
		t.Fatalf("clip: %v", err)
	}
	if inRange != 1 {
		t.Errorf("missing in range = %d, expected 1", inRange)
	}
}

func TestCleanCountsRawMissing(t *testing.T) {
	raw := daily(date(2000, 1, 1), nan, 2, -1, nan, 0)

	cleaned, missing := Clean(raw)
	if missing != 2 {
		t.Errorf("missing at ingestion = %d, expected 2", missing)
	}
	if cleaned.Missing() != 3 {
		t.Errorf("missing after cleaning = %d, expected 3", cleaned.Missing())
	}
	for i, o := range cleaned {
		if o.Discharge.Valid && o.Discharge.Float64 < 0 {
			t.Errorf("observation %d still negative: %v", i, o.Discharge.Float64)
		}
	}
	if !cleaned[4].Discharge.Valid {
		t.Errorf("zero flow is a valid reading")
	}
}

func TestClip(t *testing.T) {
	s := daily(date(1969, 9, 28), 1, nan, 3, 4, nan, 6, 7)

	tests := []struct {
		name        string
		start, end  int // offsets from the first day
		wantLen     int
		wantMissing int
	}{
		{"whole series", 0, 6, 7, 2},
		{"inclusive bounds", 2, 4, 3, 1},
		{"single day", 1, 1, 1, 1},
		{"window past the data", 5, 40, 2, 0},
		{"window before the data", -10, -1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := s[0].Date.AddDate(0, 0, tt.start)
			end := s[0].Date.AddDate(0, 0, tt.end)

			clipped, missing, err := Clip(s, start, end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(clipped) != tt.wantLen {
				t.Errorf("len = %d, expected %d", len(clipped), tt.wantLen)
			}
			if missing != tt.wantMissing {
				t.Errorf("missing = %d, expected %d", missing, tt.wantMissing)
			}
			for _, o := range clipped {
				if o.Date.Before(start) || o.Date.After(end) {
					t.Errorf("%s outside [%s, %s]", o.Date, start, end)
				}
			}
			for i := 1; i < len(clipped); i++ {
				if !clipped[i].Date.After(clipped[i-1].Date) {
					t.Errorf("order not preserved at %d", i)
				}
			}
		})
	}
}

func TestClipInvalidRange(t *testing.T) {
	s := daily(date(2019, 1, 1), 1, 2, 3)

	_, _, err := Clip(s, date(2019, 9, 30), date(1969, 10, 1))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}
