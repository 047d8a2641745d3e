package interpreter

import (
	"math"

	"github.com/godfearingman/ape/pkg/token"
)

// applyBinary computes l op r. Out-of-domain results follow IEEE-754;
// division by zero is the caller's concern.
func applyBinary(op token.Operator, l, r float64) (float64, bool) {
	switch op {
	case token.OpAdd:
		return l + r, true
	case token.OpSubtract:
		return l - r, true
	case token.OpMultiply:
		return l * r, true
	case token.OpDivide:
		return l / r, true
	case token.OpPower:
		return math.Pow(l, r), true
	case token.OpModulo:
		return math.Mod(l, r), true
	case token.OpLog:
		return math.Log(l) / math.Log(r), true
	default:
		return 0, false
	}
}

func applyUnary(op token.Operator, v float64) (float64, bool) {
	switch op {
	case token.OpSubtract:
		return -v, true
	case token.OpNot:
		return -(v + 1), true
	case token.OpFactorial:
		return factorial(v), true
	case token.OpSin:
		return math.Sin(v), true
	case token.OpCos:
		return math.Cos(v), true
	case token.OpTan:
		return math.Tan(v), true
	case token.OpAsin:
		return math.Asin(v), true
	case token.OpAcos:
		return math.Acos(v), true
	case token.OpAtan:
		return math.Atan(v), true
	case token.OpSinh:
		return math.Sinh(v), true
	case token.OpCosh:
		return math.Cosh(v), true
	case token.OpTanh:
		return math.Tanh(v), true
	case token.OpSqrt:
		return math.Sqrt(v), true
	case token.OpExp:
		return math.Exp(v), true
	case token.OpAbs:
		return math.Abs(v), true
	case token.OpFloor:
		return math.Floor(v), true
	case token.OpCeil:
		return math.Ceil(v), true
	case token.OpRound:
		return math.Round(v), true
	default:
		return 0, false
	}
}

// factorial is NaN below zero and 1*2*...*trunc(n) otherwise.
func factorial(n float64) float64 {
	switch {
	case math.IsNaN(n), n < 0:
		return math.NaN()
	case math.IsInf(n, 1):
		return n
	}
	result := 1.0
	for k := 2.0; k <= math.Trunc(n); k++ {
		result *= k
		if math.IsInf(result, 1) {
			break
		}
	}
	return result
}
