package runtime

import (
	"math"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		value     float64
		precision int
		want      string
	}{
		{14, ShortestPrecision, "14"},
		{0.1, ShortestPrecision, "0.1"},
		{1000000, ShortestPrecision, "1000000"},
		{-2.5, ShortestPrecision, "-2.5"},
		{1e21, ShortestPrecision, "1e+21"},
		{1.5e-7, ShortestPrecision, "1.5e-07"},
		{math.Pi, 4, "3.1416"},
		{2, 2, "2.00"},
		{math.NaN(), ShortestPrecision, "NaN"},
		{math.Inf(1), 3, "inf"},
		{math.Inf(-1), ShortestPrecision, "-inf"},
	}

	for _, tc := range tests {
		if got := FormatNumber(tc.value, tc.precision); got != tc.want {
			t.Fatalf("FormatNumber(%v, %d) = %q, want %q", tc.value, tc.precision, got, tc.want)
		}
	}
}
