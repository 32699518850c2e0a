package net

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/FlavioCFOliveira/GoNeuron/internal/loss"
	"github.com/FlavioCFOliveira/GoNeuron/internal/opt"
	"github.com/FlavioCFOliveira/GoNeuron/internal/tensor"
)

// SampleFunc returns the input and target for training step i.
type SampleFunc func(step int) (x, target *tensor.Matrix, err error)

// Sample is an input/target pair.
type Sample struct {
	X      *tensor.Matrix
	Target *tensor.Matrix
}

// Trainer runs the online training loop: one example per optimizer step.
type Trainer struct {
	Network   *Network
	Criterion *loss.Criterion
	Optimizer opt.Optimizer

	// Logger receives debug records for failed steps. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// NewTrainer creates a trainer.
func NewTrainer(n *Network, c *loss.Criterion, o opt.Optimizer) *Trainer {
	return &Trainer{Network: n, Criterion: c, Optimizer: o}
}

func (t *Trainer) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}

// Step trains on a single example: zero gradients, forward, loss and loss
// gradient, two-pass backward, optimizer step. It returns the loss.
func (t *Trainer) Step(x, target *tensor.Matrix) (float64, error) {
	if t.Network == nil || t.Criterion == nil || t.Optimizer == nil {
		return 0, errors.New("net: trainer needs a network, a criterion and an optimizer")
	}

	t.Network.ZeroGradients()

	out, err := t.Network.Forward(x)
	if err != nil {
		return 0, err
	}

	l, err := t.Criterion.Value(out, target)
	if err != nil {
		return 0, err
	}

	grad, err := t.Criterion.Backward(out, target)
	if err != nil {
		return 0, err
	}

	if _, err := t.Network.Backward(x, grad); err != nil {
		return 0, err
	}

	if err := t.Optimizer.Evaluate(t.Network); err != nil {
		return 0, err
	}

	return l, nil
}

// Fit runs iterations training steps on examples drawn from sample and
// returns the per-step losses. It stops early, without error, when a
// callback requests it.
func (t *Trainer) Fit(sample SampleFunc, iterations int, callbacks ...Callback) (History, error) {
	history := make(History, 0, iterations)

	for _, cb := range callbacks {
		cb.OnTrainBegin(t)
	}

	for i := 0; i < iterations; i++ {
		x, target, err := sample(i)
		if err != nil {
			return history, fmt.Errorf("net: sample %d: %w", i, err)
		}

		l, err := t.Step(x, target)
		if err != nil {
			t.logger().Debug("training step failed", "step", i, "err", err)
			return history, fmt.Errorf("net: step %d: %w", i, err)
		}
		history = append(history, l)

		stop := false
		for _, cb := range callbacks {
			if cb.OnStepEnd(i, l, t) {
				stop = true
			}
		}
		if stop {
			break
		}
	}

	for _, cb := range callbacks {
		cb.OnTrainEnd(t, history)
	}
	return history, nil
}

// Predict runs a forward pass.
func (t *Trainer) Predict(x *tensor.Matrix) (*tensor.Matrix, error) {
	return t.Network.Forward(x)
}

// Evaluate returns the mean loss over samples. Only forward caches are
// touched; parameters and gradients are left as they are.
func (t *Trainer) Evaluate(samples []Sample) (float64, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	var total float64
	for i, s := range samples {
		out, err := t.Network.Forward(s.X)
		if err != nil {
			return 0, fmt.Errorf("net: evaluate sample %d: %w", i, err)
		}
		l, err := t.Criterion.Value(out, s.Target)
		if err != nil {
			return 0, fmt.Errorf("net: evaluate sample %d: %w", i, err)
		}
		total += l
	}
	return total / float64(len(samples)), nil
}
