// Package layer provides neural network layer implementations.
//
// Every layer works on column vectors and owns three caches: the output of
// its last Forward call, the gradient returned by its last Backward call (the
// gradient at its input boundary) and, for trainable layers, the parameter
// gradients accumulated by Update since the last ZeroGradients.
package layer

import (
	"fmt"

	"github.com/FlavioCFOliveira/GoNeuron/internal/tensor"
)

// Layer is a neural network layer.
type Layer interface {
	// Forward computes the layer output for x and caches it.
	Forward(x *tensor.Matrix) (*tensor.Matrix, error)

	// Backward computes the gradient w.r.t. the layer input from the input
	// the layer saw and the gradient w.r.t. its output, and caches it.
	Backward(input, grad *tensor.Matrix) (*tensor.Matrix, error)

	// Update adds scale times this example's parameter gradient into the
	// accumulated gradient and returns a copy of it. Parameters themselves
	// are never touched. Layers without parameters return nil, nil.
	Update(input, grad *tensor.Matrix, scale float64) (*tensor.Matrix, error)

	// Params returns the live trainable parameter slots, nil if none.
	Params() []*Param

	// Output returns a copy of the cached forward result.
	Output() *tensor.Matrix

	// Gradient returns a copy of the cached backward result.
	Gradient() *tensor.Matrix

	// ZeroGradients resets the gradient caches, keeping their dimensions.
	ZeroGradients()

	InSize() int
	OutSize() int
}

// Param is a trainable parameter with its accumulated gradient.
// Value and Grad always share a shape.
type Param struct {
	Name  string
	Value *tensor.Matrix
	Grad  *tensor.Matrix
}

func newParam(name string, rows, cols int, init tensor.Initializer) (*Param, error) {
	v, err := tensor.New(rows, cols, init)
	if err != nil {
		return nil, fmt.Errorf("layer: %s: %w", name, err)
	}
	return &Param{Name: name, Value: v, Grad: tensor.ZerosLike(v)}, nil
}

// Accumulate adds delta into the gradient.
func (p *Param) Accumulate(delta *tensor.Matrix) error {
	g, err := tensor.Add(p.Grad, delta)
	if err != nil {
		return fmt.Errorf("layer: accumulate %s: %w", p.Name, err)
	}
	p.Grad = g
	return nil
}

// ZeroGrad resets the gradient to zeros.
func (p *Param) ZeroGrad() {
	p.Grad = tensor.ZerosLike(p.Value)
}

// Set replaces the value after checking the shape.
func (p *Param) Set(v *tensor.Matrix) error {
	if v == nil {
		return fmt.Errorf("layer: set %s: %w", p.Name, tensor.ErrNil)
	}
	if !tensor.SameShape(p.Value, v) {
		pr, pc := p.Value.Dims()
		vr, vc := v.Dims()
		return fmt.Errorf("layer: set %s: %w: want %dx%d, got %dx%d",
			p.Name, tensor.ErrShape, pr, pc, vr, vc)
	}
	p.Value = tensor.Copy(v)
	return nil
}

// caches holds the per-layer output and input-gradient buffers.
type caches struct {
	inSize   int
	outSize  int
	output   *tensor.Matrix
	gradient *tensor.Matrix
}

func newCaches(in, out int) (caches, error) {
	if in <= 0 || out <= 0 {
		return caches{}, fmt.Errorf("layer: %w: in=%d out=%d", tensor.ErrDims, in, out)
	}
	output, err := tensor.Zeros(out, 1)
	if err != nil {
		return caches{}, err
	}
	gradient, err := tensor.Zeros(in, 1)
	if err != nil {
		return caches{}, err
	}
	return caches{inSize: in, outSize: out, output: output, gradient: gradient}, nil
}

func (c *caches) Output() *tensor.Matrix   { return tensor.Copy(c.output) }
func (c *caches) Gradient() *tensor.Matrix { return tensor.Copy(c.gradient) }
func (c *caches) InSize() int              { return c.inSize }
func (c *caches) OutSize() int             { return c.outSize }

func (c *caches) zeroGradient() {
	c.gradient = tensor.ZerosLike(c.gradient)
}

// checkVector verifies m is a rows x 1 column vector.
func checkVector(what string, m *tensor.Matrix, rows int) error {
	if m == nil {
		return fmt.Errorf("layer: %s: %w", what, tensor.ErrNil)
	}
	r, c := m.Dims()
	if r != rows || c != 1 {
		return fmt.Errorf("layer: %s: %w: want %dx1, got %dx%d", what, tensor.ErrShape, rows, r, c)
	}
	return nil
}
