package loss

import (
	"fmt"

	"github.com/FlavioCFOliveira/GoNeuron/internal/tensor"
)

// Criterion evaluates a Loss on matrices and keeps the last loss and
// gradient for inspection. The caches never influence later calls.
type Criterion struct {
	fn       Loss
	output   *tensor.Matrix
	gradient *tensor.Matrix
}

// NewCriterion wraps fn. A nil fn is MSE.
func NewCriterion(fn Loss) *Criterion {
	if fn == nil {
		fn = MSE{}
	}
	return &Criterion{fn: fn}
}

// Forward returns the loss as a 1x1 matrix.
func (c *Criterion) Forward(output, target *tensor.Matrix) (*tensor.Matrix, error) {
	if err := checkPair(output, target); err != nil {
		return nil, err
	}
	l, err := tensor.FromSlice(1, 1, []float64{c.fn.Forward(output.Data(), target.Data())})
	if err != nil {
		return nil, err
	}
	c.output = l
	return tensor.Copy(l), nil
}

// Backward returns dL/d(output), shaped like output.
func (c *Criterion) Backward(output, target *tensor.Matrix) (*tensor.Matrix, error) {
	if err := checkPair(output, target); err != nil {
		return nil, err
	}
	r, cols := output.Dims()
	g, err := tensor.FromSlice(r, cols, c.fn.Backward(output.Data(), target.Data()))
	if err != nil {
		return nil, err
	}
	c.gradient = g
	return tensor.Copy(g), nil
}

// Output returns the last loss, nil before the first Forward.
func (c *Criterion) Output() *tensor.Matrix {
	if c.output == nil {
		return nil
	}
	return tensor.Copy(c.output)
}

// Gradient returns the last gradient, nil before the first Backward.
func (c *Criterion) Gradient() *tensor.Matrix {
	if c.gradient == nil {
		return nil
	}
	return tensor.Copy(c.gradient)
}

// Loss returns the wrapped loss function.
func (c *Criterion) Loss() Loss { return c.fn }

// Value is Forward reduced to a float64.
func (c *Criterion) Value(output, target *tensor.Matrix) (float64, error) {
	l, err := c.Forward(output, target)
	if err != nil {
		return 0, err
	}
	return l.At(0, 0), nil
}

func checkPair(output, target *tensor.Matrix) error {
	if output == nil || target == nil {
		return fmt.Errorf("loss: %w", tensor.ErrNil)
	}
	if !tensor.SameShape(output, target) {
		or, oc := output.Dims()
		tr, tc := target.Dims()
		return fmt.Errorf("loss: %w: output %dx%d, target %dx%d", tensor.ErrShape, or, oc, tr, tc)
	}
	return nil
}
