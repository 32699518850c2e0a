// Package activations provides elementwise activation functions.
package activations

import "math"

// Activation is an activation function with derivative.
//
// Derivative is expressed in terms of the activated value y = Activate(x),
// which is what a layer has cached after its forward pass.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64

	// Derivative computes f'(x) given y = f(x)
	Derivative(y float64) float64
}

// Identity passes values through unchanged.
type Identity struct{}

// Activate returns x
func (Identity) Activate(x float64) float64 { return x }

// Derivative returns 1
func (Identity) Derivative(float64) float64 { return 1 }

// ReLU activation function.
type ReLU struct{}

// Activate computes max(0, x)
func (r ReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// Derivative returns 1 if y > 0, else 0
func (r ReLU) Derivative(y float64) float64 {
	if y > 0 {
		return 1
	}
	return 0
}

// Sigmoid activation function.
type Sigmoid struct{}

// Activate computes 1 / (1 + exp(-x))
func (s Sigmoid) Activate(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Derivative computes y * (1 - y)
func (s Sigmoid) Derivative(y float64) float64 {
	return y * (1 - y)
}

// Tanh activation function.
type Tanh struct{}

// Activate computes tanh(x)
func (t Tanh) Activate(x float64) float64 {
	return math.Tanh(x)
}

// Derivative computes 1 - y^2
func (t Tanh) Derivative(y float64) float64 {
	return 1 - y*y
}

// LeakyReLU activation function to prevent dying neurons.
type LeakyReLU struct {
	Alpha float64 // Slope for x <= 0
}

// NewLeakyReLU creates a LeakyReLU with the given alpha value.
func NewLeakyReLU(alpha float64) *LeakyReLU {
	return &LeakyReLU{Alpha: alpha}
}

// Activate computes x if x > 0, else alpha*x
func (l *LeakyReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return l.Alpha * x
}

// Derivative returns 1 if y > 0, else alpha. Valid for alpha > 0, where the
// sign of y matches the sign of x.
func (l *LeakyReLU) Derivative(y float64) float64 {
	if y > 0 {
		return 1
	}
	return l.Alpha
}
