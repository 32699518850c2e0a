// Package loss provides loss functions and the caching Criterion wrapper.
package loss

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Loss is a loss function with derivative.
type Loss interface {
	// Forward computes the loss between predicted and true values.
	Forward(yPred, yTrue []float64) float64

	// Backward computes the gradient of the loss w.r.t. prediction.
	Backward(yPred, yTrue []float64) []float64
}

// MSE (Mean Squared Error) loss.
//
// The gradient is not divided by the element count.
type MSE struct{}

// Forward computes mean squared error: (1/n) * sum((y_pred - y_true)^2)
func (m MSE) Forward(yPred, yTrue []float64) float64 {
	n := len(yPred)
	if n != len(yTrue) {
		panic("MSE: prediction and target must have same length")
	}

	diff := floats.SubTo(make([]float64, n), yPred, yTrue)
	return floats.Dot(diff, diff) / float64(n)
}

// Backward computes gradient: dL/dy_pred = 2 * (y_pred - y_true)
func (m MSE) Backward(yPred, yTrue []float64) []float64 {
	n := len(yPred)
	if n != len(yTrue) {
		panic("MSE: prediction and target must have same length")
	}

	grad := floats.SubTo(make([]float64, n), yPred, yTrue)
	floats.Scale(2, grad)
	return grad
}

// BCE (Binary Cross Entropy) loss. Predictions must already lie in (0, 1);
// no clamping is done here.
type BCE struct{}

// Forward computes (1/n) * sum(-(t*ln(p) + (1-t)*ln(1-p)))
func (b BCE) Forward(yPred, yTrue []float64) float64 {
	n := len(yPred)
	if n != len(yTrue) {
		panic("BCE: prediction and target must have same length")
	}

	var sum float64
	for i := 0; i < n; i++ {
		p, t := yPred[i], yTrue[i]
		sum -= t*math.Log(p) + (1-t)*math.Log(1-p)
	}
	return sum / float64(n)
}

// Backward computes gradient: -(t - p) / (p * (1 - p))
func (b BCE) Backward(yPred, yTrue []float64) []float64 {
	n := len(yPred)
	if n != len(yTrue) {
		panic("BCE: prediction and target must have same length")
	}

	grad := make([]float64, n)
	for i := 0; i < n; i++ {
		p := yPred[i]
		grad[i] = -(yTrue[i] - p) / (p * (1 - p))
	}
	return grad
}

// Huber loss for robust regression.
type Huber struct {
	Delta float64 // Threshold for quadratic/linear transition
}

// NewHuber creates a Huber loss with the given delta.
func NewHuber(delta float64) *Huber {
	return &Huber{Delta: delta}
}

// Forward computes Huber loss.
func (h Huber) Forward(yPred, yTrue []float64) float64 {
	n := len(yPred)
	if n != len(yTrue) {
		panic("Huber: prediction and target must have same length")
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := math.Abs(yPred[i] - yTrue[i])
		if diff <= h.Delta {
			sum += 0.5 * diff * diff
		} else {
			sum += h.Delta * (diff - 0.5*h.Delta)
		}
	}
	return sum / float64(n)
}

// Backward computes gradient for Huber loss.
func (h Huber) Backward(yPred, yTrue []float64) []float64 {
	n := len(yPred)
	if n != len(yTrue) {
		panic("Huber: prediction and target must have same length")
	}

	grad := make([]float64, n)
	for i := 0; i < n; i++ {
		diff := yPred[i] - yTrue[i]
		if math.Abs(diff) <= h.Delta {
			grad[i] = diff
		} else {
			grad[i] = h.Delta * math.Copysign(1, diff)
		}
	}
	return grad
}

// L1 (Mean Absolute Error) loss.
type L1 struct{}

// Forward computes mean absolute error: (1/n) * sum(|y_pred - y_true|)
func (l L1) Forward(yPred, yTrue []float64) float64 {
	n := len(yPred)
	if n != len(yTrue) {
		panic("L1: prediction and target must have same length")
	}

	return floats.Distance(yPred, yTrue, 1) / float64(n)
}

// Backward computes gradient: sign(y_pred - y_true), 0 at equality.
func (l L1) Backward(yPred, yTrue []float64) []float64 {
	n := len(yPred)
	if n != len(yTrue) {
		panic("L1: prediction and target must have same length")
	}

	grad := make([]float64, n)
	for i := 0; i < n; i++ {
		diff := yPred[i] - yTrue[i]
		switch {
		case diff > 0:
			grad[i] = 1
		case diff < 0:
			grad[i] = -1
		}
	}
	return grad
}

// Names maps configuration names to losses.
var Names = map[string]Loss{
	"mse":   MSE{},
	"bce":   BCE{},
	"l1":    L1{},
	"huber": NewHuber(1.0),
}
