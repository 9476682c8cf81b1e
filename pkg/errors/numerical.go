package errors

import (
	"math"
)

// CheckNumericalStability checks if values contain NaN or Inf
// and returns an error if numerical instability is detected.
func CheckNumericalStability(operation string, values []float64, iteration int) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, values, iteration)
		}
	}
	return nil
}

// CheckScalar checks a single scalar value for numerical instability.
func CheckScalar(operation string, value float64, iteration int) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, []float64{value}, iteration)
	}
	return nil
}

// ClipValue clips a value to the range [min, max].
func ClipValue(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// StabilizeExp computes exp with protection against overflow.
// Clips the input to prevent exp from returning Inf.
func StabilizeExp(value float64) float64 {
	const maxExp = 700.0 // exp(700) is close to the maximum float64
	if value > maxExp {
		return math.Exp(maxExp)
	}
	if value < -maxExp {
		return 0
	}
	return math.Exp(value)
}

// Sigmoid computes 1/(1+exp(-z)) without overflowing for large |z|.
func Sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + StabilizeExp(-z))
	}
	e := StabilizeExp(z)
	return e / (1 + e)
}

// SoftmaxInPlace replaces scores with exp(s)/sum(exp(s)). The maximum is
// subtracted first so large scores do not overflow.
func SoftmaxInPlace(scores []float64) {
	if len(scores) == 0 {
		return
	}
	maxVal := scores[0]
	for _, v := range scores[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	sum := 0.0
	for i, v := range scores {
		scores[i] = math.Exp(v - maxVal)
		sum += scores[i]
	}
	for i := range scores {
		scores[i] /= sum
	}
}
