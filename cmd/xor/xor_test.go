package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/FlavioCFOliveira/GoNeuron/internal/config"
	"github.com/FlavioCFOliveira/GoNeuron/internal/layer"
	"github.com/FlavioCFOliveira/GoNeuron/internal/loss"
	"github.com/FlavioCFOliveira/GoNeuron/internal/net"
	"github.com/FlavioCFOliveira/GoNeuron/internal/opt"
	"github.com/FlavioCFOliveira/GoNeuron/internal/tensor"
)

func TestXORSample(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		x0, x1, target := xorSample(rng)
		require.True(t, x0 >= -1 && x0 < 1)
		require.True(t, x1 >= -1 && x1 < 1)
		if x0*x1 > 0 {
			assert.Equal(t, -1.0, target)
		} else {
			assert.Equal(t, 1.0, target)
		}
	}
}

func TestAccuracy(t *testing.T) {
	// y = x0 agrees with the target exactly when x1 < 0
	l, err := layer.NewLinear(2, 1, nil)
	require.NoError(t, err)
	w, err := tensor.FromSlice(1, 2, []float64{1, 0})
	require.NoError(t, err)
	require.NoError(t, l.SetWeights(w))
	n, err := net.New(l)
	require.NoError(t, err)
	tr := net.NewTrainer(n, loss.NewCriterion(nil), opt.NewSGD(opt.Config{}))

	samples := [][3]float64{
		{0.5, -0.5, 1},
		{0.5, 0.5, -1},
		{-0.5, -0.5, -1},
		{-0.5, 0.5, 1},
	}
	sample := func(i int) (*tensor.Matrix, *tensor.Matrix, error) {
		x, _ := tensor.Vector(samples[i][0], samples[i][1])
		y, _ := tensor.Vector(samples[i][2])
		return x, y, nil
	}

	correct, err := accuracy(tr, sample, len(samples))
	require.NoError(t, err)
	assert.Equal(t, 2, correct)
}

func TestRun(t *testing.T) {
	cfg := config.Default()
	cfg.ApplyOverrides(config.Overrides{Iterations: 200, LogEvery: 50})
	cfg.Scheduler = &config.SchedulerSpec{Kind: "exponential", Gamma: 0.999}
	require.NoError(t, cfg.Validate())

	csvPath := filepath.Join(t.TempDir(), "loss.csv")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, run(cfg, logger, 100, csvPath))

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 201)
}

func TestRunRejectsWrongShape(t *testing.T) {
	cfg := config.Default()
	cfg.Layers[0].In = 3
	require.NoError(t, cfg.Validate())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Error(t, run(cfg, logger, 10, ""))
}
