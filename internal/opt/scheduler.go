package opt

import "math"

// Scheduler adjusts the SGD base learning rate between steps.
type Scheduler interface {
	Step()
	StepWithLoss(loss float64)
	LR() float64
}

// BaseScheduler provides default implementations for Scheduler.
type BaseScheduler struct{}

func (s BaseScheduler) Step()                     {}
func (s BaseScheduler) StepWithLoss(loss float64) {}

// StepLR multiplies the learning rate by gamma every stepSize steps.
type StepLR struct {
	BaseScheduler
	optimizer *SGD
	stepSize  int
	gamma     float64
	lastStep  int
}

func NewStepLR(optimizer *SGD, stepSize int, gamma float64) *StepLR {
	if stepSize <= 0 {
		stepSize = 1
	}
	return &StepLR{
		optimizer: optimizer,
		stepSize:  stepSize,
		gamma:     gamma,
	}
}

func (s *StepLR) Step() {
	s.lastStep++
	if s.lastStep%s.stepSize == 0 {
		s.optimizer.SetBaseLR(s.optimizer.BaseLR() * s.gamma)
	}
}

func (s *StepLR) LR() float64 { return s.optimizer.BaseLR() }

// ExponentialLR multiplies the learning rate by gamma every step.
type ExponentialLR struct {
	BaseScheduler
	optimizer *SGD
	gamma     float64
}

func NewExponentialLR(optimizer *SGD, gamma float64) *ExponentialLR {
	return &ExponentialLR{
		optimizer: optimizer,
		gamma:     gamma,
	}
}

func (s *ExponentialLR) Step() {
	s.optimizer.SetBaseLR(s.optimizer.BaseLR() * s.gamma)
}

func (s *ExponentialLR) LR() float64 { return s.optimizer.BaseLR() }

// ReduceLROnPlateau reduces the learning rate when the loss has stopped
// improving.
type ReduceLROnPlateau struct {
	BaseScheduler
	optimizer *SGD
	factor    float64
	patience  int
	threshold float64
	Cooldown  int // steps to skip after a reduction
	minLR     float64

	bestLoss        float64
	numBadSteps     int
	cooldownCounter int
}

func NewReduceLROnPlateau(optimizer *SGD, factor float64, patience int, threshold, minLR float64) *ReduceLROnPlateau {
	return &ReduceLROnPlateau{
		optimizer: optimizer,
		factor:    factor,
		patience:  patience,
		threshold: threshold,
		minLR:     minLR,
		bestLoss:  math.MaxFloat64,
	}
}

func (s *ReduceLROnPlateau) StepWithLoss(currentLoss float64) {
	if s.cooldownCounter > 0 {
		s.cooldownCounter--
		return
	}

	if currentLoss < s.bestLoss-s.threshold {
		s.bestLoss = currentLoss
		s.numBadSteps = 0
	} else {
		s.numBadSteps++
	}

	if s.numBadSteps >= s.patience {
		newLR := s.optimizer.BaseLR() * s.factor
		if newLR < s.minLR {
			newLR = s.minLR
		}
		s.optimizer.SetBaseLR(newLR)
		s.numBadSteps = 0
		s.cooldownCounter = s.Cooldown
	}
}

func (s *ReduceLROnPlateau) LR() float64 { return s.optimizer.BaseLR() }
