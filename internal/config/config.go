// Package config loads training run descriptions from YAML and turns them
// into networks, criteria and optimizers.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"

	"github.com/FlavioCFOliveira/GoNeuron/internal/layer"
	"github.com/FlavioCFOliveira/GoNeuron/internal/loss"
	"github.com/FlavioCFOliveira/GoNeuron/internal/net"
	"github.com/FlavioCFOliveira/GoNeuron/internal/opt"
	"github.com/FlavioCFOliveira/GoNeuron/internal/tensor"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config captures the knobs for a training run.
type Config struct {
	Seed       uint64         `yaml:"seed"`
	Iterations int            `yaml:"iterations"`
	LogEvery   int            `yaml:"log_every"`
	Layers     []LayerSpec    `yaml:"layers"`
	Loss       string         `yaml:"loss"`
	SGD        opt.Config     `yaml:"sgd"`
	Scheduler  *SchedulerSpec `yaml:"scheduler,omitempty"`
}

// LayerSpec describes one layer. Activation layers may leave In and Out
// unset; they take the size of the previous layer.
type LayerSpec struct {
	Kind layer.Kind `yaml:"kind"`
	In   int        `yaml:"in,omitempty"`
	Out  int        `yaml:"out,omitempty"`
	Init string     `yaml:"init,omitempty"`
}

// SchedulerSpec describes an optional learning rate schedule.
type SchedulerSpec struct {
	Kind     string  `yaml:"kind"`
	StepSize int     `yaml:"step_size,omitempty"`
	Gamma    float64 `yaml:"gamma"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	Seed         uint64
	Iterations   int
	LogEvery     int
	LearningRate float64
}

// Init names accepted by LayerSpec.Init.
const (
	InitZero      = "zero"
	InitOne       = "one"
	InitUniform   = "uniform"
	InitSymmetric = "symmetric"
	InitXavier    = "xavier"
)

const defaultLogEvery = 1000

// Default returns the XOR demo run: 2 -> 10 -> 1 with a tanh hidden layer,
// weights uniform in [-1, 1), MSE and plain SGD.
func Default() *Config {
	return &Config{
		Seed:       1,
		Iterations: 100000,
		LogEvery:   defaultLogEvery,
		Layers: []LayerSpec{
			{Kind: layer.KindLinear, In: 2, Out: 10, Init: InitSymmetric},
			{Kind: layer.KindTanh},
			{Kind: layer.KindLinear, Out: 1, Init: InitSymmetric},
		},
		Loss: "mse",
		SGD:  opt.Config{LearningRate: 0.01},
	}
}

// Load reads and validates a Config from YAML.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes and validates a Config. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty config", ErrInvalid)
		}
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ApplyOverrides updates c using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Iterations > 0 {
		c.Iterations = o.Iterations
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
	if o.LearningRate > 0 {
		c.SGD.LearningRate = o.LearningRate
	}
}

// Validate verifies the config is runnable. A zero LogEvery is replaced by
// the default interval and an empty loss by "mse".
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalid)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be > 0 (got %d)", ErrInvalid, c.Iterations)
	}
	if c.LogEvery < 0 {
		return fmt.Errorf("%w: log_every must be >= 0 (got %d)", ErrInvalid, c.LogEvery)
	}
	if c.LogEvery == 0 {
		c.LogEvery = defaultLogEvery
	}
	if _, err := c.sizes(); err != nil {
		return err
	}
	for i, l := range c.Layers {
		if !l.Kind.Trainable() && l.Init != "" {
			return fmt.Errorf("%w: layer %d: init is only valid for linear layers", ErrInvalid, i)
		}
		if _, err := initializer(l.Init, 1, 1, nil); err != nil {
			return fmt.Errorf("%w: layer %d: %v", ErrInvalid, i, err)
		}
	}

	c.Loss = strings.ToLower(c.Loss)
	if c.Loss == "" {
		c.Loss = "mse"
	}
	if _, ok := loss.Names[c.Loss]; !ok {
		return fmt.Errorf("%w: unknown loss %q", ErrInvalid, c.Loss)
	}

	s := c.SGD
	if s.LearningRate < 0 || s.LearningRateDecay < 0 || s.WeightDecay < 0 ||
		s.Momentum < 0 || s.Dampening < 0 || s.Evaluations < 0 {
		return fmt.Errorf("%w: sgd hyperparameters must be >= 0", ErrInvalid)
	}

	if sc := c.Scheduler; sc != nil {
		switch sc.Kind {
		case "step":
			if sc.StepSize <= 0 {
				return fmt.Errorf("%w: scheduler step_size must be > 0 (got %d)", ErrInvalid, sc.StepSize)
			}
		case "exponential":
		default:
			return fmt.Errorf("%w: unknown scheduler %q", ErrInvalid, sc.Kind)
		}
		if sc.Gamma <= 0 {
			return fmt.Errorf("%w: scheduler gamma must be > 0 (got %g)", ErrInvalid, sc.Gamma)
		}
	}
	return nil
}

// sizes resolves the (in, out) pair of every layer.
func (c *Config) sizes() ([][2]int, error) {
	if len(c.Layers) == 0 {
		return nil, fmt.Errorf("%w: at least one layer is required", ErrInvalid)
	}
	out := make([][2]int, len(c.Layers))
	prev := 0
	for i, l := range c.Layers {
		in := l.In
		if in == 0 {
			in = prev
		}
		if in <= 0 {
			return nil, fmt.Errorf("%w: layer %d: input size is unknown", ErrInvalid, i)
		}
		if prev != 0 && in != prev {
			return nil, fmt.Errorf("%w: layer %d: expects %d inputs, previous layer gives %d", ErrInvalid, i, in, prev)
		}

		o := l.Out
		if l.Kind.Trainable() {
			if o <= 0 {
				return nil, fmt.Errorf("%w: layer %d: linear out must be > 0", ErrInvalid, i)
			}
		} else {
			if o == 0 {
				o = in
			}
			if o != in {
				return nil, fmt.Errorf("%w: layer %d: %s needs in == out", ErrInvalid, i, l.Kind)
			}
		}
		out[i] = [2]int{in, o}
		prev = o
	}
	return out, nil
}

func initializer(name string, in, out int, src rand.Source) (tensor.Initializer, error) {
	switch strings.ToLower(name) {
	case "", InitZero:
		return tensor.Zero, nil
	case InitOne:
		return tensor.One, nil
	case InitUniform:
		return tensor.Uniform(src), nil
	case InitSymmetric:
		return tensor.UniformSymmetric(src), nil
	case InitXavier:
		return tensor.Xavier(in, out, src), nil
	}
	return nil, fmt.Errorf("unknown init %q", name)
}

// BuildNetwork creates the network, drawing random weights from src. A nil
// src uses a source seeded with c.Seed.
func (c *Config) BuildNetwork(src rand.Source) (*net.Network, error) {
	sizes, err := c.sizes()
	if err != nil {
		return nil, err
	}
	if src == nil {
		src = rand.NewSource(c.Seed)
	}

	n, err := net.New()
	if err != nil {
		return nil, err
	}
	for i, spec := range c.Layers {
		in, out := sizes[i][0], sizes[i][1]
		init, err := initializer(spec.Init, in, out, src)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %d: %v", ErrInvalid, i, err)
		}
		l, err := layer.New(spec.Kind, in, out, init)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		if err := n.AddLayer(l); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// BuildCriterion creates the configured loss wrapper.
func (c *Config) BuildCriterion() (*loss.Criterion, error) {
	name := c.Loss
	if name == "" {
		name = "mse"
	}
	fn, ok := loss.Names[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown loss %q", ErrInvalid, c.Loss)
	}
	return loss.NewCriterion(fn), nil
}

// BuildSGD creates the optimizer.
func (c *Config) BuildSGD() *opt.SGD {
	return opt.NewSGD(c.SGD)
}

// BuildScheduler creates the configured scheduler driving sgd, or nil if
// none is configured.
func (c *Config) BuildScheduler(sgd *opt.SGD) (opt.Scheduler, error) {
	sc := c.Scheduler
	if sc == nil {
		return nil, nil
	}
	switch sc.Kind {
	case "step":
		return opt.NewStepLR(sgd, sc.StepSize, sc.Gamma), nil
	case "exponential":
		return opt.NewExponentialLR(sgd, sc.Gamma), nil
	}
	return nil, fmt.Errorf("%w: unknown scheduler %q", ErrInvalid, sc.Kind)
}
