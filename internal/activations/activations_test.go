// Package activations provides unit tests for activation functions.
package activations

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestReLU tests ReLU activation and its output-based derivative.
func TestReLU(t *testing.T) {
	relu := ReLU{}

	tests := []struct {
		input    float64
		expected float64
		deriv    float64
	}{
		{-1.0, 0.0, 0.0}, // Negative -> 0
		{0.0, 0.0, 0.0},  // Zero -> 0
		{1.0, 1.0, 1.0},  // Positive -> identity
		{2.5, 2.5, 1.0},  // Larger positive -> identity
	}

	for _, tt := range tests {
		y := relu.Activate(tt.input)
		assert.InDelta(t, tt.expected, y, 1e-12, "ReLU(%v)", tt.input)
		assert.InDelta(t, tt.deriv, relu.Derivative(y), 1e-12, "ReLU'(%v)", tt.input)
	}
}

// TestSigmoid tests Sigmoid activation.
func TestSigmoid(t *testing.T) {
	sigmoid := Sigmoid{}

	tests := []struct {
		input    float64
		expected float64
	}{
		{math.Inf(-1), 0.0},
		{-2.0, 1 / (1 + math.Exp(2))},
		{0.0, 0.5},
		{2.0, 1 / (1 + math.Exp(-2))},
		{math.Inf(1), 1.0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, sigmoid.Activate(tt.input), 1e-12, "Sigmoid(%v)", tt.input)
	}
}

// TestSigmoidDerivative checks y*(1-y) against a central difference.
func TestSigmoidDerivative(t *testing.T) {
	sigmoid := Sigmoid{}
	const h = 1e-6

	for _, x := range []float64{-3, -0.5, 0, 0.7, 2} {
		y := sigmoid.Activate(x)
		numeric := (sigmoid.Activate(x+h) - sigmoid.Activate(x-h)) / (2 * h)
		assert.InDelta(t, numeric, sigmoid.Derivative(y), 1e-8, "x=%v", x)
	}
	assert.InDelta(t, 0.25, sigmoid.Derivative(0.5), 1e-12)
}

// TestTanh tests Tanh activation and derivative.
func TestTanh(t *testing.T) {
	tanh := Tanh{}
	const h = 1e-6

	for _, x := range []float64{-2, -0.3, 0, 0.4, 1.5} {
		y := tanh.Activate(x)
		assert.InDelta(t, math.Tanh(x), y, 1e-12)

		numeric := (tanh.Activate(x+h) - tanh.Activate(x-h)) / (2 * h)
		assert.InDelta(t, numeric, tanh.Derivative(y), 1e-8, "x=%v", x)
	}
	assert.Equal(t, 1.0, tanh.Derivative(0))
}

// TestIdentity tests the pass-through activation.
func TestIdentity(t *testing.T) {
	id := Identity{}
	for _, x := range []float64{-5, 0, 3.25} {
		assert.Equal(t, x, id.Activate(x))
		assert.Equal(t, 1.0, id.Derivative(x))
	}
}

// TestLeakyReLU tests the leaky variant.
func TestLeakyReLU(t *testing.T) {
	l := NewLeakyReLU(0.01)

	assert.Equal(t, 2.0, l.Activate(2))
	assert.InDelta(t, -0.02, l.Activate(-2), 1e-12)
	assert.Equal(t, 1.0, l.Derivative(l.Activate(2)))
	assert.Equal(t, 0.01, l.Derivative(l.Activate(-2)))
}
