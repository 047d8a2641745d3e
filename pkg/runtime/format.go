package runtime

import (
	"math"
	"strconv"
)

// ShortestPrecision asks FormatNumber for the fewest digits that round-trip.
const ShortestPrecision = -1

// FormatNumber renders an evaluation result. With a negative precision the
// shortest exact representation is used, switching to exponent form only for
// very large or very small magnitudes; otherwise precision is the number of
// digits after the decimal point.
func FormatNumber(v float64, precision int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if precision >= 0 {
		return strconv.FormatFloat(v, 'f', precision, 64)
	}
	if abs := math.Abs(v); abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
