package main

import (
	"golang.org/x/exp/rand"

	"github.com/FlavioCFOliveira/GoNeuron/internal/net"
	"github.com/FlavioCFOliveira/GoNeuron/internal/tensor"
)

// xorSample draws x uniformly from [-1, 1)^2. The target is -1 when both
// coordinates share a sign and 1 otherwise.
func xorSample(rng *rand.Rand) (x0, x1, target float64) {
	x0 = 2*rng.Float64() - 1
	x1 = 2*rng.Float64() - 1
	target = 1
	if x0*x1 > 0 {
		target = -1
	}
	return x0, x1, target
}

func xorSampler(rng *rand.Rand) net.SampleFunc {
	return func(int) (*tensor.Matrix, *tensor.Matrix, error) {
		x0, x1, target := xorSample(rng)
		x, err := tensor.Vector(x0, x1)
		if err != nil {
			return nil, nil, err
		}
		y, err := tensor.Vector(target)
		if err != nil {
			return nil, nil, err
		}
		return x, y, nil
	}
}

// accuracy counts the samples whose output has the target's sign.
func accuracy(t *net.Trainer, sample net.SampleFunc, n int) (int, error) {
	correct := 0
	for i := 0; i < n; i++ {
		x, target, err := sample(i)
		if err != nil {
			return 0, err
		}
		out, err := t.Predict(x)
		if err != nil {
			return 0, err
		}
		if (out.At(0, 0) > 0) == (target.At(0, 0) > 0) {
			correct++
		}
	}
	return correct, nil
}
