// Package opt provides comprehensive unit tests for optimizers.
package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlavioCFOliveira/GoNeuron/internal/layer"
	"github.com/FlavioCFOliveira/GoNeuron/internal/tensor"
)

type paramList []*layer.Param

func (p paramList) Params() []*layer.Param { return p }

func newParam(t *testing.T, name string, value, grad []float64) *layer.Param {
	t.Helper()
	v, err := tensor.FromSlice(len(value), 1, value)
	require.NoError(t, err)
	g, err := tensor.FromSlice(len(grad), 1, grad)
	require.NoError(t, err)
	return &layer.Param{Name: name, Value: v, Grad: g}
}

// TestSGDPlainStep tests w -= lr * grad.
func TestSGDPlainStep(t *testing.T) {
	sgd := NewSGD(Config{LearningRate: 0.1})
	p := newParam(t, "w", []float64{1.0, 2.0, 3.0}, []float64{0.1, 0.2, 0.3})

	require.NoError(t, sgd.Evaluate(paramList{p}))

	assert.InDeltaSlice(t, []float64{0.99, 1.98, 2.97}, p.Value.Data(), 1e-12)
	assert.InDeltaSlice(t, []float64{0.1, 0.2, 0.3}, p.Grad.Data(), 1e-12)
	assert.Equal(t, 1, sgd.Evaluations())
}

// TestSGDDefaults tests the zero config.
func TestSGDDefaults(t *testing.T) {
	sgd := NewSGD(Config{})
	cfg := sgd.Config()

	assert.Equal(t, DefaultLearningRate, cfg.LearningRate)
	assert.Zero(t, cfg.LearningRateDecay)
	assert.Zero(t, cfg.WeightDecay)
	assert.Zero(t, cfg.Momentum)
	assert.Zero(t, cfg.Dampening)
	assert.Zero(t, cfg.Evaluations)
}

// TestSGDLearningRateDecay tests lr = base / (1 + n * decay), recomputed
// from the counter each step.
func TestSGDLearningRateDecay(t *testing.T) {
	sgd := NewSGD(Config{LearningRate: 1.0, LearningRateDecay: 0.5})
	p := newParam(t, "w", []float64{0}, []float64{1})

	expectedLR := []float64{1.0, 1.0 / 1.5, 1.0 / 2.0, 1.0 / 2.5}
	w := 0.0
	for _, lr := range expectedLR {
		assert.InDelta(t, lr, sgd.LearningRate(), 1e-12)
		require.NoError(t, sgd.Evaluate(paramList{p}))
		w -= lr
		assert.InDelta(t, w, p.Value.At(0, 0), 1e-12)
	}
	assert.Equal(t, 4, sgd.Evaluations())
}

// TestSGDInitialEvaluations tests the configured starting counter.
func TestSGDInitialEvaluations(t *testing.T) {
	sgd := NewSGD(Config{LearningRate: 1.0, LearningRateDecay: 1.0, Evaluations: 3})
	assert.InDelta(t, 0.25, sgd.LearningRate(), 1e-12)
}

// TestSGDWeightDecayBeforeMomentum tests that weight decay is folded into
// the gradient before momentum, which is applied before the step.
func TestSGDWeightDecayBeforeMomentum(t *testing.T) {
	sgd := NewSGD(Config{
		LearningRate: 0.1,
		WeightDecay:  0.5,
		Momentum:     0.9,
		Dampening:    0.2,
	})
	p := newParam(t, "w", []float64{2.0}, []float64{1.0})

	require.NoError(t, sgd.Evaluate(paramList{p}))

	// grad = 1 + 0.5*2 = 2; grad = 2 + 0.9*0.8*2 = 3.44; w = 2 - 0.1*3.44
	assert.InDelta(t, 3.44, p.Grad.At(0, 0), 1e-12)
	assert.InDelta(t, 2-0.344, p.Value.At(0, 0), 1e-12)
}

// TestSGDFullDampeningCancelsMomentum tests dampening == 1.
func TestSGDFullDampeningCancelsMomentum(t *testing.T) {
	sgd := NewSGD(Config{LearningRate: 0.1, Momentum: 0.9, Dampening: 1})
	p := newParam(t, "w", []float64{1.0}, []float64{1.0})

	require.NoError(t, sgd.Evaluate(paramList{p}))
	assert.InDelta(t, 0.9, p.Value.At(0, 0), 1e-12)
}

// TestSGDZeroGradients tests zero gradient behavior.
func TestSGDZeroGradients(t *testing.T) {
	sgd := NewSGD(Config{LearningRate: 0.1, Momentum: 0.5})
	p := newParam(t, "w", []float64{1.0, 2.0, 3.0}, []float64{0, 0, 0})

	require.NoError(t, sgd.Evaluate(paramList{p}))
	assert.Equal(t, []float64{1.0, 2.0, 3.0}, p.Value.Data())
}

// TestSGDUpdatesLinearLayer tests both the weights and the bias of a
// linear layer move, and that the counter advances once per Evaluate.
func TestSGDUpdatesLinearLayer(t *testing.T) {
	l, err := layer.NewLinear(2, 1, tensor.One)
	require.NoError(t, err)

	x, err := tensor.Vector(1, 2)
	require.NoError(t, err)
	g, err := tensor.Vector(1)
	require.NoError(t, err)
	_, err = l.Update(x, g, 1)
	require.NoError(t, err)

	sgd := NewSGD(Config{LearningRate: 0.5})
	require.NoError(t, sgd.Evaluate(l))

	assert.InDeltaSlice(t, []float64{0.5, 0.0}, l.Weights().Data(), 1e-12)
	assert.InDeltaSlice(t, []float64{0.5}, l.Bias().Data(), 1e-12)
	assert.Equal(t, 1, sgd.Evaluations())
}

// TestSGDShapeMismatch tests a corrupted parameter surfaces an error.
func TestSGDShapeMismatch(t *testing.T) {
	sgd := NewSGD(Config{LearningRate: 0.1})
	p := newParam(t, "w", []float64{1, 2}, []float64{1})

	assert.ErrorIs(t, sgd.Evaluate(paramList{p}), tensor.ErrShape)
}

// TestSGDImplementsOptimizer is a compile-time style check.
func TestSGDImplementsOptimizer(t *testing.T) {
	var o Optimizer = NewSGD(Config{LearningRate: 0.2})
	assert.Equal(t, 0.2, o.LearningRate())
}
