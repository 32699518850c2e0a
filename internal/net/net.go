// Package net provides the network pipeline and its training loop.
package net

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/FlavioCFOliveira/GoNeuron/internal/layer"
	"github.com/FlavioCFOliveira/GoNeuron/internal/tensor"
)

var (
	// ErrEmpty is returned by operations on a network without layers.
	ErrEmpty = errors.New("net: network has no layers")

	// ErrIncompatible is returned when a layer does not compose with the
	// current tail of the pipeline.
	ErrIncompatible = errors.New("net: incompatible layer")
)

// Network is an ordered pipeline of layers; layer i's output feeds layer
// i+1's input.
type Network struct {
	layers []layer.Layer
}

// New creates a network from layers, checking that they compose.
func New(layers ...layer.Layer) (*Network, error) {
	n := &Network{}
	for _, l := range layers {
		if err := n.AddLayer(l); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// AddLayer appends l. Its input size must equal the current tail's output
// size. The check happens here only, not on every call.
func (n *Network) AddLayer(l layer.Layer) error {
	if l == nil {
		return fmt.Errorf("%w: nil layer", ErrIncompatible)
	}
	if len(n.layers) > 0 {
		tail := n.layers[len(n.layers)-1]
		if tail.OutSize() != l.InSize() {
			return fmt.Errorf("%w: layer %d outputs %d, layer %d expects %d",
				ErrIncompatible, len(n.layers)-1, tail.OutSize(), len(n.layers), l.InSize())
		}
	}
	n.layers = append(n.layers, l)
	return nil
}

// Forward feeds x through every layer in order and returns a copy of the
// last layer's output. Each layer keeps its own output cached.
func (n *Network) Forward(x *tensor.Matrix) (*tensor.Matrix, error) {
	if len(n.layers) == 0 {
		return nil, ErrEmpty
	}
	curr := x
	for i, l := range n.layers {
		out, err := l.Forward(curr)
		if err != nil {
			return nil, fmt.Errorf("net: forward layer %d: %w", i, err)
		}
		curr = out
	}
	return curr, nil
}

// Backward runs the two-pass backward algorithm for the example x whose
// loss gradient is grad, and returns the gradient w.r.t. x.
//
// Pass one walks the layers last to first, propagating the gradient through
// each layer's Backward; afterwards every layer's gradient cache holds the
// gradient at its input boundary. Pass two walks them again and lets each
// trainable layer accumulate its parameter gradient from the gradient at
// its output boundary: grad itself for the last layer, the next layer's
// gradient cache otherwise.
func (n *Network) Backward(x, grad *tensor.Matrix) (*tensor.Matrix, error) {
	if len(n.layers) == 0 {
		return nil, ErrEmpty
	}

	curr := grad
	for i := len(n.layers) - 1; i >= 0; i-- {
		g, err := n.layers[i].Backward(n.layerInput(i, x), curr)
		if err != nil {
			return nil, fmt.Errorf("net: backward layer %d: %w", i, err)
		}
		curr = g
	}

	upstream := grad
	for i := len(n.layers) - 1; i >= 0; i-- {
		l := n.layers[i]
		if l.Params() != nil {
			if _, err := l.Update(n.layerInput(i, x), upstream, 1); err != nil {
				return nil, fmt.Errorf("net: update layer %d: %w", i, err)
			}
		}
		upstream = l.Gradient()
	}

	return curr, nil
}

// layerInput returns what layer i saw on the last forward pass.
func (n *Network) layerInput(i int, x *tensor.Matrix) *tensor.Matrix {
	if i == 0 {
		return x
	}
	return n.layers[i-1].Output()
}

// ZeroGradients resets every layer's gradient caches. Call it once per
// example before Backward; skipping it accumulates across examples.
func (n *Network) ZeroGradients() {
	for _, l := range n.layers {
		l.ZeroGradients()
	}
}

// Params returns all trainable parameters in pipeline order.
func (n *Network) Params() []*layer.Param {
	var params []*layer.Param
	for _, l := range n.layers {
		params = append(params, l.Params()...)
	}
	return params
}

// Layers returns the network's layers slice.
func (n *Network) Layers() []layer.Layer {
	return n.layers
}

// Len returns the number of layers.
func (n *Network) Len() int {
	return len(n.layers)
}

// InSize returns the first layer's input size, 0 if empty.
func (n *Network) InSize() int {
	if len(n.layers) == 0 {
		return 0
	}
	return n.layers[0].InSize()
}

// OutSize returns the last layer's output size, 0 if empty.
func (n *Network) OutSize() int {
	if len(n.layers) == 0 {
		return 0
	}
	return n.layers[len(n.layers)-1].OutSize()
}

// Summary writes a table of the network architecture to w.
func (n *Network) Summary(w io.Writer) error {
	var b strings.Builder
	rule := strings.Repeat("_", 65)
	fmt.Fprintln(&b, "Model: Network")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "%-25s %-20s %-10s\n", "Layer (type)", "Output Shape", "Param #")
	fmt.Fprintln(&b, strings.Repeat("=", 65))

	totalParams := 0
	for i, l := range n.layers {
		lType := fmt.Sprintf("%T", l)
		if j := strings.LastIndexByte(lType, '.'); j >= 0 {
			lType = lType[j+1:]
		}

		params := 0
		for _, p := range l.Params() {
			r, c := p.Value.Dims()
			params += r * c
		}
		totalParams += params

		fmt.Fprintf(&b, "%-25s %-20s %-10d\n", fmt.Sprintf("%s_%d", lType, i), fmt.Sprintf("(%d, 1)", l.OutSize()), params)
	}
	fmt.Fprintln(&b, strings.Repeat("=", 65))
	fmt.Fprintf(&b, "Total params: %d\n", totalParams)
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}
