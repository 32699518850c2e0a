// Package opt provides optimization algorithms.
package opt

import "github.com/FlavioCFOliveira/GoNeuron/internal/layer"

// ParamSource exposes trainable parameters in pipeline order.
type ParamSource interface {
	Params() []*layer.Param
}

// Optimizer updates parameters from their accumulated gradients.
type Optimizer interface {
	// Evaluate performs one optimization step over every parameter of src.
	Evaluate(src ParamSource) error

	// LearningRate returns the rate the next Evaluate will use.
	LearningRate() float64
}
