package layer

import (
	"fmt"

	"github.com/FlavioCFOliveira/GoNeuron/internal/tensor"
)

// Linear is a fully connected layer y = W*x + b with W of shape (out x in)
// and b of shape (out x 1).
type Linear struct {
	caches
	weights *Param
	bias    *Param
}

// NewLinear creates a linear layer. Weights and bias are both filled by init;
// a nil init fills with zeros.
func NewLinear(in, out int, init tensor.Initializer) (*Linear, error) {
	c, err := newCaches(in, out)
	if err != nil {
		return nil, err
	}
	w, err := newParam("weights", out, in, init)
	if err != nil {
		return nil, err
	}
	b, err := newParam("bias", out, 1, init)
	if err != nil {
		return nil, err
	}
	return &Linear{caches: c, weights: w, bias: b}, nil
}

// Forward computes W*x + b.
func (l *Linear) Forward(x *tensor.Matrix) (*tensor.Matrix, error) {
	if err := checkVector("linear input", x, l.inSize); err != nil {
		return nil, err
	}
	wx, err := tensor.Multiply(l.weights.Value, x)
	if err != nil {
		return nil, fmt.Errorf("layer: linear forward: %w", err)
	}
	y, err := tensor.Add(wx, l.bias.Value)
	if err != nil {
		return nil, fmt.Errorf("layer: linear forward: %w", err)
	}
	l.output = y
	return tensor.Copy(y), nil
}

// Backward computes dx = W^T * dy.
func (l *Linear) Backward(input, grad *tensor.Matrix) (*tensor.Matrix, error) {
	if err := checkVector("linear input", input, l.inSize); err != nil {
		return nil, err
	}
	if err := checkVector("linear gradient", grad, l.outSize); err != nil {
		return nil, err
	}
	dx, err := tensor.Multiply(tensor.Transpose(l.weights.Value), grad)
	if err != nil {
		return nil, fmt.Errorf("layer: linear backward: %w", err)
	}
	l.gradient = dx
	return tensor.Copy(dx), nil
}

// Update accumulates dW += scale * dy * x^T and db += scale * dy, and
// returns a copy of the accumulated weight gradient.
func (l *Linear) Update(input, grad *tensor.Matrix, scale float64) (*tensor.Matrix, error) {
	if err := checkVector("linear input", input, l.inSize); err != nil {
		return nil, err
	}
	if err := checkVector("linear gradient", grad, l.outSize); err != nil {
		return nil, err
	}
	outer, err := tensor.Multiply(grad, tensor.Transpose(input))
	if err != nil {
		return nil, fmt.Errorf("layer: linear update: %w", err)
	}
	if err := l.weights.Accumulate(tensor.Scale(outer, scale)); err != nil {
		return nil, err
	}
	if err := l.bias.Accumulate(tensor.Scale(grad, scale)); err != nil {
		return nil, err
	}
	return tensor.Copy(l.weights.Grad), nil
}

// Params returns the weight and bias slots, in that order.
func (l *Linear) Params() []*Param {
	return []*Param{l.weights, l.bias}
}

// ZeroGradients resets dW, db and the input-gradient cache.
func (l *Linear) ZeroGradients() {
	l.weights.ZeroGrad()
	l.bias.ZeroGrad()
	l.zeroGradient()
}

// Weights returns a copy of W.
func (l *Linear) Weights() *tensor.Matrix { return tensor.Copy(l.weights.Value) }

// Bias returns a copy of b.
func (l *Linear) Bias() *tensor.Matrix { return tensor.Copy(l.bias.Value) }

// SetWeights replaces W; the shape must be (out x in).
func (l *Linear) SetWeights(w *tensor.Matrix) error { return l.weights.Set(w) }

// SetBias replaces b; the shape must be (out x 1).
func (l *Linear) SetBias(b *tensor.Matrix) error { return l.bias.Set(b) }

// WeightGradient returns a copy of the accumulated dW.
func (l *Linear) WeightGradient() *tensor.Matrix { return tensor.Copy(l.weights.Grad) }

// BiasGradient returns a copy of the accumulated db.
func (l *Linear) BiasGradient() *tensor.Matrix { return tensor.Copy(l.bias.Grad) }
