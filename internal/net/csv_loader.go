package net

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"

	"github.com/FlavioCFOliveira/GoNeuron/internal/tensor"
)

// Dataset represents a collection of samples and labels.
type Dataset struct {
	Samples [][]float64
	Labels  [][]float64
}

// LoadCSV loads data from a CSV file.
// labelCols specifies the indices of columns to be used as labels.
// All other columns are used as features.
// hasHeader skips the first line if true.
func LoadCSV(filename string, labelCols []int, hasHeader bool) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file, labelCols, hasHeader)
}

// ReadCSV is LoadCSV on an open reader.
func ReadCSV(r io.Reader, labelCols []int, hasHeader bool) (*Dataset, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	if len(records) == 0 {
		return nil, errors.New("csv file is empty")
	}

	startRow := 0
	if hasHeader {
		startRow = 1
	}

	if len(records) <= startRow {
		return nil, errors.New("csv file has no data rows")
	}

	numCols := len(records[0])
	isLabelCol := make(map[int]bool)
	for _, col := range labelCols {
		if col < 0 || col >= numCols {
			return nil, fmt.Errorf("label column %d out of range [0, %d)", col, numCols)
		}
		isLabelCol[col] = true
	}
	if len(isLabelCol) == numCols {
		return nil, errors.New("csv file has no feature columns")
	}

	numSamples := len(records) - startRow
	samples := make([][]float64, numSamples)
	labels := make([][]float64, numSamples)

	for i := startRow; i < len(records); i++ {
		record := records[i]
		if len(record) != numCols {
			return nil, fmt.Errorf("inconsistent number of columns at row %d", i)
		}

		sampleRow := make([]float64, 0, numCols-len(isLabelCol))
		labelValues := make(map[int]float64, len(labelCols))

		for j, valStr := range record {
			val, err := strconv.ParseFloat(valStr, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse value at row %d, col %d: %w", i, j, err)
			}

			if isLabelCol[j] {
				labelValues[j] = val
			} else {
				sampleRow = append(sampleRow, val)
			}
		}

		// labels keep the order given in labelCols
		labelRow := make([]float64, 0, len(labelCols))
		for _, col := range labelCols {
			labelRow = append(labelRow, labelValues[col])
		}

		samples[i-startRow] = sampleRow
		labels[i-startRow] = labelRow
	}

	return &Dataset{
		Samples: samples,
		Labels:  labels,
	}, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.Samples) }

// Normalize performs min-max normalization of every feature to [0, 1].
// Constant features become 0.
func (d *Dataset) Normalize() {
	if len(d.Samples) == 0 {
		return
	}

	numFeatures := len(d.Samples[0])
	column := make([]float64, len(d.Samples))
	for f := 0; f < numFeatures; f++ {
		for i, sample := range d.Samples {
			column[i] = sample[f]
		}
		lo, hi := floats.Min(column), floats.Max(column)
		diff := hi - lo
		for _, sample := range d.Samples {
			if diff != 0 {
				sample[f] = (sample[f] - lo) / diff
			} else {
				sample[f] = 0
			}
		}
	}
}

// Split splits the dataset into two based on the given ratio (0.0 to 1.0).
// Returns two new Datasets (train, test).
func (d *Dataset) Split(ratio float64) (*Dataset, *Dataset) {
	if ratio <= 0 {
		return &Dataset{}, d
	}
	if ratio >= 1 {
		return d, &Dataset{}
	}

	splitIdx := int(float64(len(d.Samples)) * ratio)

	train := &Dataset{
		Samples: d.Samples[:splitIdx],
		Labels:  d.Labels[:splitIdx],
	}

	test := &Dataset{
		Samples: d.Samples[splitIdx:],
		Labels:  d.Labels[splitIdx:],
	}

	return train, test
}

// Pairs converts the dataset into column-vector samples.
func (d *Dataset) Pairs() ([]Sample, error) {
	pairs := make([]Sample, len(d.Samples))
	for i := range d.Samples {
		x, err := tensor.Vector(d.Samples[i]...)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		y, err := tensor.Vector(d.Labels[i]...)
		if err != nil {
			return nil, fmt.Errorf("label %d: %w", i, err)
		}
		pairs[i] = Sample{X: x, Target: y}
	}
	return pairs, nil
}

// Sampler returns a SampleFunc over the dataset. With a nil src the samples
// are visited in order, cycling; otherwise each step draws one uniformly.
func (d *Dataset) Sampler(src rand.Source) (SampleFunc, error) {
	pairs, err := d.Pairs()
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, errors.New("dataset is empty")
	}
	if src == nil {
		return func(step int) (*tensor.Matrix, *tensor.Matrix, error) {
			s := pairs[step%len(pairs)]
			return s.X, s.Target, nil
		}, nil
	}
	rng := rand.New(src)
	return func(int) (*tensor.Matrix, *tensor.Matrix, error) {
		s := pairs[rng.Intn(len(pairs))]
		return s.X, s.Target, nil
	}, nil
}
