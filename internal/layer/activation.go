package layer

import (
	"github.com/FlavioCFOliveira/GoNeuron/internal/activations"
	"github.com/FlavioCFOliveira/GoNeuron/internal/tensor"
)

// Activation applies an elementwise activation. It has no parameters and
// its input and output sizes are equal.
type Activation struct {
	caches
	act activations.Activation
}

// NewActivation creates an activation layer of the given size. A nil act is
// the identity.
func NewActivation(size int, act activations.Activation) (*Activation, error) {
	c, err := newCaches(size, size)
	if err != nil {
		return nil, err
	}
	if act == nil {
		act = activations.Identity{}
	}
	return &Activation{caches: c, act: act}, nil
}

// NewIdentity creates a pass-through layer.
func NewIdentity(size int) (*Activation, error) {
	return NewActivation(size, activations.Identity{})
}

// NewSigmoid creates a sigmoid layer.
func NewSigmoid(size int) (*Activation, error) {
	return NewActivation(size, activations.Sigmoid{})
}

// NewTanh creates a tanh layer.
func NewTanh(size int) (*Activation, error) {
	return NewActivation(size, activations.Tanh{})
}

// NewReLU creates a ReLU layer.
func NewReLU(size int) (*Activation, error) {
	return NewActivation(size, activations.ReLU{})
}

// Forward computes y = f(x) elementwise.
func (a *Activation) Forward(x *tensor.Matrix) (*tensor.Matrix, error) {
	if err := checkVector("activation input", x, a.inSize); err != nil {
		return nil, err
	}
	a.output = tensor.Apply(x, a.act.Activate)
	return tensor.Copy(a.output), nil
}

// Backward computes dx = dy * f'(x), with f' taken from the cached output.
// The input argument is only shape-checked.
func (a *Activation) Backward(input, grad *tensor.Matrix) (*tensor.Matrix, error) {
	if err := checkVector("activation input", input, a.inSize); err != nil {
		return nil, err
	}
	if err := checkVector("activation gradient", grad, a.outSize); err != nil {
		return nil, err
	}
	dx, err := tensor.Hadamard(grad, tensor.Apply(a.output, a.act.Derivative))
	if err != nil {
		return nil, err
	}
	a.gradient = dx
	return tensor.Copy(dx), nil
}

// Update is a no-op.
func (a *Activation) Update(_, _ *tensor.Matrix, _ float64) (*tensor.Matrix, error) {
	return nil, nil
}

// Params returns nil.
func (a *Activation) Params() []*Param { return nil }

// ZeroGradients resets the input-gradient cache.
func (a *Activation) ZeroGradients() { a.zeroGradient() }

// Func returns the activation function.
func (a *Activation) Func() activations.Activation { return a.act }
