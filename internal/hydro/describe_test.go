package hydro

import (
	"math"
	"testing"
)

func TestDescribe(t *testing.T) {
	d := Describe(daily(date(1970, 1, 1), 4, nan, 1, 3, 2, -5))

	if d.Count != 5 {
		t.Fatalf("Count = %d, want 5", d.Count)
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"mean", d.Mean, 1},
		{"std", d.Std, math.Sqrt(12.5)},
		{"min", d.Min, -5},
		{"q25", d.Q25, 1},
		{"median", d.Median, 2},
		{"q75", d.Q75, 3},
		{"max", d.Max, 4},
	}

	for _, tt := range tests {
		if !closeTo(tt.got, tt.want, 1e-12) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestDescribeInterpolatesQuartiles(t *testing.T) {
	d := Describe(daily(date(1970, 1, 1), 1, 2, 3, 4))

	if !closeTo(d.Q25, 1.75, 1e-12) || !closeTo(d.Median, 2.5, 1e-12) || !closeTo(d.Q75, 3.25, 1e-12) {
		t.Errorf("quartiles = %v %v %v, want 1.75 2.5 3.25", d.Q25, d.Median, d.Q75)
	}
}

func TestDescribeSmallInputs(t *testing.T) {
	d := Describe(daily(date(1970, 1, 1), nan, nan))
	if d.Count != 0 || !math.IsNaN(d.Mean) || !math.IsNaN(d.Max) {
		t.Errorf("all missing: got %+v", d)
	}

	d = Describe(daily(date(1970, 1, 1), 7))
	if d.Count != 1 || d.Mean != 7 || d.Q25 != 7 || d.Q75 != 7 || !math.IsNaN(d.Std) {
		t.Errorf("single value: got %+v", d)
	}
}
