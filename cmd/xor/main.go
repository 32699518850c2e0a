package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/exp/rand"

	"github.com/FlavioCFOliveira/GoNeuron/internal/config"
	"github.com/FlavioCFOliveira/GoNeuron/internal/net"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (default: built-in XOR run)")
	iterations := flag.Int("iterations", 0, "Number of training steps")
	seed := flag.Uint64("seed", 0, "PRNG seed")
	lr := flag.Float64("lr", 0, "Learning rate")
	logEvery := flag.Int("log-every", 0, "Log every N steps")
	testSteps := flag.Int("test", 1000, "Number of test samples")
	csvLog := flag.String("csv-log", "", "Write per-step loss to this CSV file")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fatal("failed to load config", err)
		}
		cfg = loaded
	}

	cfg.ApplyOverrides(config.Overrides{
		Seed:         *seed,
		Iterations:   *iterations,
		LogEvery:     *logEvery,
		LearningRate: *lr,
	})

	if err := cfg.Validate(); err != nil {
		fatal("invalid config", err)
	}

	if err := run(cfg, logger, *testSteps, *csvLog); err != nil {
		fatal("training failed", err)
	}
}

func run(cfg *config.Config, logger *slog.Logger, testSteps int, csvLog string) error {
	network, err := cfg.BuildNetwork(rand.NewSource(cfg.Seed))
	if err != nil {
		return err
	}
	if network.InSize() != 2 || network.OutSize() != 1 {
		return fmt.Errorf("xor needs a 2 -> 1 network, got %d -> %d", network.InSize(), network.OutSize())
	}
	criterion, err := cfg.BuildCriterion()
	if err != nil {
		return err
	}
	sgd := cfg.BuildSGD()

	callbacks := []net.Callback{net.Logger{Interval: cfg.LogEvery}}
	scheduler, err := cfg.BuildScheduler(sgd)
	if err != nil {
		return err
	}
	if scheduler != nil {
		callbacks = append(callbacks, net.NewSchedulerCallback(scheduler))
	}
	if csvLog != "" {
		callbacks = append(callbacks, net.NewCSVLogger(csvLog, false))
	}

	if logger.Enabled(context.Background(), slog.LevelDebug) {
		if err := network.Summary(os.Stderr); err != nil {
			return err
		}
	}

	trainer := net.NewTrainer(network, criterion, sgd)
	trainer.Logger = logger

	rng := rand.New(rand.NewSource(cfg.Seed + 1))
	if _, err := trainer.Fit(xorSampler(rng), cfg.Iterations, callbacks...); err != nil {
		return err
	}

	correct, err := accuracy(trainer, xorSampler(rng), testSteps)
	if err != nil {
		return err
	}
	logger.Info("test", "samples", testSteps, "correct", correct,
		"accuracy", float64(correct)/float64(max(testSteps, 1)))
	return nil
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}
