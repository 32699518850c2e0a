package goneuron

import (
	"golang.org/x/exp/rand"

	"github.com/FlavioCFOliveira/GoNeuron/internal/activations"
	"github.com/FlavioCFOliveira/GoNeuron/internal/config"
	"github.com/FlavioCFOliveira/GoNeuron/internal/layer"
	"github.com/FlavioCFOliveira/GoNeuron/internal/loss"
	"github.com/FlavioCFOliveira/GoNeuron/internal/net"
	"github.com/FlavioCFOliveira/GoNeuron/internal/opt"
	"github.com/FlavioCFOliveira/GoNeuron/internal/tensor"
)

// Re-export common types and functions for easier access
type (
	Matrix      = tensor.Matrix
	Initializer = tensor.Initializer
	Network     = net.Network
	Trainer     = net.Trainer
	Sample      = net.Sample
	SampleFunc  = net.SampleFunc
	History     = net.History
	Dataset     = net.Dataset
	Layer       = layer.Layer
	Param       = layer.Param
	Kind        = layer.Kind
	Criterion   = loss.Criterion
	Loss        = loss.Loss
	Optimizer   = opt.Optimizer
	SGDConfig   = opt.Config
	Config      = config.Config
)

// Matrices
func NewMatrix(rows, cols int, init Initializer) (*Matrix, error) {
	return tensor.New(rows, cols, init)
}

func Vector(values ...float64) (*Matrix, error) {
	return tensor.Vector(values...)
}

// Initializers
var (
	Zeros = tensor.Zero
	Ones  = tensor.One
)

func UniformSymmetric(src rand.Source) Initializer {
	return tensor.UniformSymmetric(src)
}

func Xavier(in, out int, src rand.Source) Initializer {
	return tensor.Xavier(in, out, src)
}

// Model creation
func NewNetwork(layers ...Layer) (*Network, error) {
	return net.New(layers...)
}

func NewTrainer(n *Network, c *Criterion, o Optimizer) *Trainer {
	return net.NewTrainer(n, c, o)
}

// Activations
var (
	ReLU     = activations.ReLU{}
	Sigmoid  = activations.Sigmoid{}
	Tanh     = activations.Tanh{}
	Identity = activations.Identity{}
)

func LeakyReLU(alpha float64) activations.Activation {
	return activations.NewLeakyReLU(alpha)
}

// Layers
func Linear(in, out int, init Initializer) (*layer.Linear, error) {
	return layer.NewLinear(in, out, init)
}

func Activation(size int, act activations.Activation) (*layer.Activation, error) {
	return layer.NewActivation(size, act)
}

func NewLayer(kind Kind, in, out int, init Initializer) (Layer, error) {
	return layer.New(kind, in, out, init)
}

// Optimizers
func SGD(cfg SGDConfig) *opt.SGD {
	return opt.NewSGD(cfg)
}

func StepLR(optimizer *opt.SGD, stepSize int, gamma float64) *opt.StepLR {
	return opt.NewStepLR(optimizer, stepSize, gamma)
}

func ReduceLROnPlateau(optimizer *opt.SGD, factor float64, patience int, threshold, minLR float64) *opt.ReduceLROnPlateau {
	return opt.NewReduceLROnPlateau(optimizer, factor, patience, threshold, minLR)
}

// Callbacks
type Callback = net.Callback

func Logger(interval int) net.Logger {
	return net.Logger{Interval: interval}
}

func EarlyStopping(patience int, minDelta float64) *net.EarlyStopping {
	return net.NewEarlyStopping(patience, minDelta)
}

func SchedulerCallback(scheduler opt.Scheduler) net.Callback {
	return net.NewSchedulerCallback(scheduler)
}

func CSVLogger(filename string, append bool) *net.CSVLogger {
	return net.NewCSVLogger(filename, append)
}

// Losses
var (
	MSE = loss.MSE{}
	BCE = loss.BCE{}
	L1  = loss.L1{}
)

func Huber(delta float64) Loss {
	return loss.NewHuber(delta)
}

func NewCriterion(fn Loss) *Criterion {
	return loss.NewCriterion(fn)
}

// Data and configuration
func LoadCSV(filename string, labelCols []int, hasHeader bool) (*Dataset, error) {
	return net.LoadCSV(filename, labelCols, hasHeader)
}

func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

func DefaultConfig() *Config {
	return config.Default()
}
