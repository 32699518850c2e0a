package net

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/FlavioCFOliveira/GoNeuron/internal/opt"
)

// History holds the loss of every completed training step.
type History []float64

// Last returns the most recent loss, NaN if empty.
func (h History) Last() float64 {
	if len(h) == 0 {
		return math.NaN()
	}
	return h[len(h)-1]
}

// WindowMean returns the mean loss of steps [from, from+size).
func (h History) WindowMean(from, size int) float64 {
	if from < 0 || size <= 0 || from+size > len(h) {
		return math.NaN()
	}
	return stat.Mean(h[from:from+size], nil)
}

// Callback observes a training run. OnStepEnd returning true stops Fit.
type Callback interface {
	OnTrainBegin(t *Trainer)
	OnStepEnd(step int, loss float64, t *Trainer) bool
	OnTrainEnd(t *Trainer, h History)
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (c BaseCallback) OnTrainBegin(t *Trainer)                           {}
func (c BaseCallback) OnStepEnd(step int, loss float64, t *Trainer) bool { return false }
func (c BaseCallback) OnTrainEnd(t *Trainer, h History)                  {}

// SchedulerCallback is a callback that wraps a learning rate scheduler.
type SchedulerCallback struct {
	BaseCallback
	scheduler opt.Scheduler
}

func NewSchedulerCallback(scheduler opt.Scheduler) *SchedulerCallback {
	return &SchedulerCallback{scheduler: scheduler}
}

func (c *SchedulerCallback) OnStepEnd(step int, loss float64, t *Trainer) bool {
	c.scheduler.Step()
	c.scheduler.StepWithLoss(loss)
	return false
}

// EarlyStopping stops training when the loss has stopped improving. With
// Window > 1 the monitored value is the mean of the last Window losses.
type EarlyStopping struct {
	BaseCallback
	Patience  int
	Threshold float64
	Window    int

	recent      []float64
	bestLoss    float64
	numBadSteps int
	Stopped     bool
	StoppedAt   int
}

func NewEarlyStopping(patience int, threshold float64) *EarlyStopping {
	return &EarlyStopping{
		Patience:  patience,
		Threshold: threshold,
		bestLoss:  math.MaxFloat64,
	}
}

func (c *EarlyStopping) OnTrainBegin(t *Trainer) {
	c.bestLoss = math.MaxFloat64
	c.numBadSteps = 0
	c.Stopped = false
	c.StoppedAt = 0
	c.recent = c.recent[:0]
}

func (c *EarlyStopping) OnStepEnd(step int, loss float64, t *Trainer) bool {
	if c.Window > 1 {
		c.recent = append(c.recent, loss)
		if len(c.recent) > c.Window {
			c.recent = c.recent[1:]
		}
		if len(c.recent) < c.Window {
			return false
		}
		loss = stat.Mean(c.recent, nil)
	}

	if loss < c.bestLoss-c.Threshold {
		c.bestLoss = loss
		c.numBadSteps = 0
	} else {
		c.numBadSteps++
	}

	if c.numBadSteps >= c.Patience {
		t.logger().Info("early stopping", "step", step, "loss", loss, "patience", c.Patience)
		c.Stopped = true
		c.StoppedAt = step
	}
	return c.Stopped
}

// Logger logs training progress every Interval steps.
type Logger struct {
	BaseCallback
	Interval int
	Log      *slog.Logger // nil means the trainer's logger
}

func (c Logger) logger(t *Trainer) *slog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return t.logger()
}

func (c Logger) OnStepEnd(step int, loss float64, t *Trainer) bool {
	if c.Interval > 0 && step%c.Interval == 0 {
		c.logger(t).Info("training", "step", step, "loss", loss, "lr", t.Optimizer.LearningRate())
	}
	return false
}

func (c Logger) OnTrainEnd(t *Trainer, h History) {
	c.logger(t).Info("training finished", "steps", len(h), "loss", h.Last())
}

// LossWindow records the mean loss of each consecutive window of Size
// steps.
type LossWindow struct {
	BaseCallback
	Size  int
	Means []float64

	buf []float64
}

func NewLossWindow(size int) *LossWindow {
	if size <= 0 {
		size = 1
	}
	return &LossWindow{Size: size}
}

func (c *LossWindow) OnTrainBegin(t *Trainer) {
	c.Means = nil
	c.buf = c.buf[:0]
}

func (c *LossWindow) OnStepEnd(step int, loss float64, t *Trainer) bool {
	c.buf = append(c.buf, loss)
	if len(c.buf) == c.Size {
		c.Means = append(c.Means, stat.Mean(c.buf, nil))
		c.buf = c.buf[:0]
	}
	return false
}
