package net

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSVLogger logs the loss and learning rate of every step to a CSV file.
type CSVLogger struct {
	BaseCallback
	Filename string
	Append   bool

	file   *os.File
	writer *csv.Writer
	start  time.Time
}

// NewCSVLogger creates a new CSVLogger.
func NewCSVLogger(filename string, append bool) *CSVLogger {
	return &CSVLogger{
		Filename: filename,
		Append:   append,
	}
}

func (c *CSVLogger) OnTrainBegin(t *Trainer) {
	mode := os.O_CREATE | os.O_WRONLY
	if c.Append {
		mode |= os.O_APPEND
	} else {
		mode |= os.O_TRUNC
	}

	file, err := os.OpenFile(c.Filename, mode, 0o644)
	if err != nil {
		t.logger().Error("csv logger: open failed", "file", c.Filename, "err", err)
		return
	}
	c.file = file
	c.writer = csv.NewWriter(file)
	c.start = time.Now()

	info, err := file.Stat()
	if err == nil && (info.Size() == 0 || !c.Append) {
		c.writer.Write([]string{"step", "loss", "learning_rate", "time_seconds"})
		c.writer.Flush()
	}
}

func (c *CSVLogger) OnStepEnd(step int, loss float64, t *Trainer) bool {
	if c.writer == nil {
		return false
	}

	record := []string{
		strconv.Itoa(step),
		strconv.FormatFloat(loss, 'f', 6, 64),
		strconv.FormatFloat(t.Optimizer.LearningRate(), 'g', -1, 64),
		strconv.FormatFloat(time.Since(c.start).Seconds(), 'f', 2, 64),
	}

	if err := c.writer.Write(record); err != nil {
		t.logger().Error("csv logger: write failed", "file", c.Filename, "err", err)
	}
	c.writer.Flush()
	return false
}

func (c *CSVLogger) OnTrainEnd(t *Trainer, h History) {
	if c.file != nil {
		c.writer.Flush()
		c.file.Close()
		c.file = nil
		c.writer = nil
	}
}
