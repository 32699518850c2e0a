// Package loss provides comprehensive unit tests for loss functions.
package loss

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlavioCFOliveira/GoNeuron/internal/tensor"
)

// TestMSEForward tests MSE forward pass.
func TestMSEForward(t *testing.T) {
	mse := MSE{}

	tests := []struct {
		name     string
		yPred    []float64
		yTrue    []float64
		expected float64
	}{
		{"Perfect prediction", []float64{1.0, 2.0, 3.0}, []float64{1.0, 2.0, 3.0}, 0.0},
		{"Single error", []float64{1.0, 2.0}, []float64{1.5, 2.0}, 0.125},            // (0.5^2 + 0) / 2
		{"Multiple errors", []float64{1.0, 2.0, 3.0}, []float64{0.0, 1.0, 2.0}, 1.0}, // (1+1+1)/3
		{"Large errors", []float64{10.0}, []float64{0.0}, 100.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, mse.Forward(tt.yPred, tt.yTrue), 1e-12)
		})
	}
}

// TestMSEBackward tests the un-normalized gradient 2*(p-t).
func TestMSEBackward(t *testing.T) {
	mse := MSE{}

	tests := []struct {
		name     string
		yPred    []float64
		yTrue    []float64
		expected []float64
	}{
		{"Perfect prediction", []float64{1.0, 2.0}, []float64{1.0, 2.0}, []float64{0.0, 0.0}},
		{"Single error", []float64{1.0, 2.0}, []float64{1.5, 2.0}, []float64{-1.0, 0.0}},
		{"Three outputs", []float64{3, 0, -1}, []float64{1, 1, 1}, []float64{4, -2, -4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDeltaSlice(t, tt.expected, mse.Backward(tt.yPred, tt.yTrue), 1e-12)
		})
	}
}

// TestLengthMismatchPanics checks the slice-level losses reject mismatched
// lengths.
func TestLengthMismatchPanics(t *testing.T) {
	for name, fn := range Names {
		t.Run(name, func(t *testing.T) {
			assert.Panics(t, func() { fn.Forward([]float64{0.5, 0.5}, []float64{1}) })
			assert.Panics(t, func() { fn.Backward([]float64{0.5, 0.5}, []float64{1}) })
		})
	}
}

// TestBCE tests binary cross entropy against hand-computed values.
func TestBCE(t *testing.T) {
	bce := BCE{}

	p := []float64{0.9, 0.2}
	y := []float64{1, 0}

	want := -(math.Log(0.9) + math.Log(0.8)) / 2
	assert.InDelta(t, want, bce.Forward(p, y), 1e-12)

	grad := bce.Backward(p, y)
	assert.InDelta(t, -(1-0.9)/(0.9*0.1), grad[0], 1e-12)
	assert.InDelta(t, 0.2/(0.2*0.8), grad[1], 1e-12)
}

// TestBCEGradientNumeric checks the BCE gradient by central differences on a
// single output.
func TestBCEGradientNumeric(t *testing.T) {
	bce := BCE{}
	const h = 1e-6

	for _, tc := range []struct{ p, y float64 }{{0.3, 1}, {0.7, 0}, {0.5, 0.25}} {
		numeric := (bce.Forward([]float64{tc.p + h}, []float64{tc.y}) -
			bce.Forward([]float64{tc.p - h}, []float64{tc.y})) / (2 * h)
		assert.InDelta(t, numeric, bce.Backward([]float64{tc.p}, []float64{tc.y})[0], 1e-5)
	}
}

// TestHuber tests both regions of the Huber loss.
func TestHuber(t *testing.T) {
	h := NewHuber(1.0)

	assert.InDelta(t, 0.125, h.Forward([]float64{0.5}, []float64{0}), 1e-12)
	assert.InDelta(t, 2.5, h.Forward([]float64{3}, []float64{0}), 1e-12)
	assert.InDeltaSlice(t, []float64{0.5, -1}, h.Backward([]float64{0.5, -3}, []float64{0, 0}), 1e-12)
}

// TestL1 tests mean absolute error.
func TestL1(t *testing.T) {
	l := L1{}

	assert.InDelta(t, 1.5, l.Forward([]float64{1, -2}, []float64{0, 0}), 1e-12)
	assert.Equal(t, []float64{1, -1, 0}, l.Backward([]float64{1, -2, 0}, []float64{0, 0, 0}))
}

// TestCriterionMSEZeroAtTarget checks zero loss at zero error and that the
// gradient has the output's shape.
func TestCriterionMSEZeroAtTarget(t *testing.T) {
	c := NewCriterion(MSE{})

	y, err := tensor.Vector(0.3, -1.7, 2)
	require.NoError(t, err)

	l, err := c.Forward(y, y)
	require.NoError(t, err)
	r, cols := l.Dims()
	assert.Equal(t, 1, r)
	assert.Equal(t, 1, cols)
	assert.Equal(t, 0.0, l.At(0, 0))

	target, err := tensor.Vector(0, 0, 0)
	require.NoError(t, err)
	g, err := c.Backward(y, target)
	require.NoError(t, err)
	assert.True(t, tensor.SameShape(y, g))
	assert.InDeltaSlice(t, []float64{0.6, -3.4, 4}, g.Data(), 1e-12)
}

// TestCriterionCaches checks the caches hold the last results and do not
// affect later calls.
func TestCriterionCaches(t *testing.T) {
	c := NewCriterion(nil)
	assert.Nil(t, c.Output())
	assert.Nil(t, c.Gradient())
	assert.IsType(t, MSE{}, c.Loss())

	out, err := tensor.Vector(1)
	require.NoError(t, err)
	target, err := tensor.Vector(3)
	require.NoError(t, err)

	first, err := c.Value(out, target)
	require.NoError(t, err)
	assert.Equal(t, 4.0, first)
	assert.Equal(t, 4.0, c.Output().At(0, 0))

	second, err := c.Value(out, target)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = c.Backward(out, target)
	require.NoError(t, err)
	assert.Equal(t, -4.0, c.Gradient().At(0, 0))
}

// TestCriterionShapeMismatch checks no panic escapes a Criterion.
func TestCriterionShapeMismatch(t *testing.T) {
	c := NewCriterion(BCE{})

	a, err := tensor.Vector(0.5, 0.5)
	require.NoError(t, err)
	b, err := tensor.Vector(1)
	require.NoError(t, err)

	_, err = c.Forward(a, b)
	assert.ErrorIs(t, err, tensor.ErrShape)
	_, err = c.Backward(a, b)
	assert.ErrorIs(t, err, tensor.ErrShape)
	_, err = c.Forward(nil, b)
	assert.ErrorIs(t, err, tensor.ErrNil)
}
