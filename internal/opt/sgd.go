package opt

import (
	"fmt"

	"github.com/FlavioCFOliveira/GoNeuron/internal/tensor"
)

// DefaultLearningRate is used when Config.LearningRate is zero.
const DefaultLearningRate = 1e-3

// Config holds SGD hyperparameters. Zero values are neutral, except for
// LearningRate which falls back to DefaultLearningRate.
type Config struct {
	LearningRate      float64 `yaml:"learning_rate"`
	LearningRateDecay float64 `yaml:"learning_rate_decay"`
	WeightDecay       float64 `yaml:"weight_decay"`
	Momentum          float64 `yaml:"momentum"`
	Dampening         float64 `yaml:"dampening"`
	Evaluations       int     `yaml:"evaluations"`
}

// SGD (Stochastic Gradient Descent) optimizer with learning-rate decay,
// weight decay, momentum and dampening.
//
// For each parameter, one Evaluate does, in order:
//
//	lr    = base / (1 + evaluations * lrDecay)
//	grad += weightDecay * w                 (if weightDecay != 0)
//	grad += momentum * (1 - dampening) * grad (if momentum != 0)
//	w    -= lr * grad
//
// Momentum is folded into the stored gradient; there is no separate
// velocity buffer. The modified gradient is written back to the parameter.
type SGD struct {
	lr          float64
	lrDecay     float64
	weightDecay float64
	momentum    float64
	dampening   float64
	evaluations int
}

// NewSGD creates an SGD optimizer.
func NewSGD(cfg Config) *SGD {
	if cfg.LearningRate == 0 {
		cfg.LearningRate = DefaultLearningRate
	}
	return &SGD{
		lr:          cfg.LearningRate,
		lrDecay:     cfg.LearningRateDecay,
		weightDecay: cfg.WeightDecay,
		momentum:    cfg.Momentum,
		dampening:   cfg.Dampening,
		evaluations: cfg.Evaluations,
	}
}

// Evaluate applies one step to every parameter of src, in order, then
// increments the evaluation counter.
func (s *SGD) Evaluate(src ParamSource) error {
	lr := s.LearningRate()

	for _, p := range src.Params() {
		grad := p.Grad

		if s.weightDecay != 0 {
			g, err := tensor.Add(grad, tensor.Scale(p.Value, s.weightDecay))
			if err != nil {
				return fmt.Errorf("opt: weight decay on %s: %w", p.Name, err)
			}
			grad = g
		}

		if s.momentum != 0 {
			g, err := tensor.Add(grad, tensor.Scale(grad, s.momentum*(1-s.dampening)))
			if err != nil {
				return fmt.Errorf("opt: momentum on %s: %w", p.Name, err)
			}
			grad = g
		}

		w, err := tensor.Add(p.Value, tensor.Scale(grad, -lr))
		if err != nil {
			return fmt.Errorf("opt: update %s: %w", p.Name, err)
		}
		p.Grad = grad
		p.Value = w
	}

	s.evaluations++
	return nil
}

// LearningRate returns the decayed rate the next Evaluate will use.
func (s *SGD) LearningRate() float64 {
	return s.lr / (1 + float64(s.evaluations)*s.lrDecay)
}

// BaseLR returns the undecayed learning rate.
func (s *SGD) BaseLR() float64 { return s.lr }

// SetBaseLR replaces the undecayed learning rate. Used by schedulers.
func (s *SGD) SetBaseLR(lr float64) { s.lr = lr }

// Evaluations returns the number of completed steps, including the
// configured starting count.
func (s *SGD) Evaluations() int { return s.evaluations }

// Config returns the current hyperparameters.
func (s *SGD) Config() Config {
	return Config{
		LearningRate:      s.lr,
		LearningRateDecay: s.lrDecay,
		WeightDecay:       s.weightDecay,
		Momentum:          s.momentum,
		Dampening:         s.dampening,
		Evaluations:       s.evaluations,
	}
}
