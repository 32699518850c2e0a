// Package tensor provides the dense matrix engine the network is built on.
//
// Matrices are value-like: every producing operation returns a fresh matrix
// and never mutates its arguments. Storage is a gonum dense matrix.
package tensor

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrShape is returned when operand shapes are incompatible.
	ErrShape = errors.New("tensor: shape mismatch")

	// ErrDims is returned for non-positive dimensions or a data length that
	// does not match rows*cols.
	ErrDims = errors.New("tensor: invalid dimensions")

	// ErrNil is returned when an operand is nil.
	ErrNil = errors.New("tensor: nil matrix")
)

// Matrix is a dense rows x cols matrix of float64 values.
type Matrix struct {
	d *mat.Dense
}

// New creates a rows x cols matrix whose cell (i, j) is init(i, j).
// A nil init fills with zeros.
func New(rows, cols int, init Initializer) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDims, rows, cols)
	}
	d := mat.NewDense(rows, cols, nil)
	if init != nil {
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				d.Set(i, j, init(i, j))
			}
		}
	}
	return &Matrix{d: d}, nil
}

// FromSlice creates a rows x cols matrix from row-major data. The data is
// copied.
func FromSlice(rows, cols int, data []float64) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDims, rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrDims, len(data), rows, cols)
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return &Matrix{d: mat.NewDense(rows, cols, buf)}, nil
}

// Vector creates a column vector (len(values) x 1).
func Vector(values ...float64) (*Matrix, error) {
	return FromSlice(len(values), 1, values)
}

// Zeros creates a zero-filled rows x cols matrix.
func Zeros(rows, cols int) (*Matrix, error) {
	return New(rows, cols, nil)
}

// ZerosLike returns a zero matrix with the same shape as m.
func ZerosLike(m *Matrix) *Matrix {
	r, c := m.Dims()
	return &Matrix{d: mat.NewDense(r, c, nil)}
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (rows, cols int) {
	return m.d.Dims()
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	r, _ := m.d.Dims()
	return r
}

// Cols returns the number of columns.
func (m *Matrix) Cols() int {
	_, c := m.d.Dims()
	return c
}

// At returns the value at (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.d.At(i, j)
}

// Set writes v at (i, j). It is the only mutating method and is meant for
// the owner of a freshly created matrix.
func (m *Matrix) Set(i, j int, v float64) {
	m.d.Set(i, j, v)
}

// Data returns a row-major copy of the values.
func (m *Matrix) Data() []float64 {
	r, c := m.d.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, m.d.RawRowView(i)...)
	}
	return out
}

// SameShape reports whether a and b have identical dimensions.
func SameShape(a, b *Matrix) bool {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	return ar == br && ac == bc
}

// Multiply returns the matrix product a*b.
func Multiply(a, b *Matrix) (*Matrix, error) {
	if a == nil || b == nil {
		return nil, ErrNil
	}
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != br {
		return nil, fmt.Errorf("%w: multiply %dx%d by %dx%d", ErrShape, ar, ac, br, bc)
	}
	var c mat.Dense
	c.Mul(a.d, b.d)
	return &Matrix{d: &c}, nil
}

// Add returns the elementwise sum a+b.
func Add(a, b *Matrix) (*Matrix, error) {
	if err := checkSameShape("add", a, b); err != nil {
		return nil, err
	}
	var c mat.Dense
	c.Add(a.d, b.d)
	return &Matrix{d: &c}, nil
}

// Sub returns the elementwise difference a-b.
func Sub(a, b *Matrix) (*Matrix, error) {
	if err := checkSameShape("sub", a, b); err != nil {
		return nil, err
	}
	var c mat.Dense
	c.Sub(a.d, b.d)
	return &Matrix{d: &c}, nil
}

// Hadamard returns the elementwise product of a and b.
func Hadamard(a, b *Matrix) (*Matrix, error) {
	if err := checkSameShape("hadamard", a, b); err != nil {
		return nil, err
	}
	var c mat.Dense
	c.MulElem(a.d, b.d)
	return &Matrix{d: &c}, nil
}

// Scale returns k*a.
func Scale(a *Matrix, k float64) *Matrix {
	var c mat.Dense
	c.Scale(k, a.d)
	return &Matrix{d: &c}
}

// Apply returns a matrix whose cell (i, j) is fn(a[i][j]).
func Apply(a *Matrix, fn func(v float64) float64) *Matrix {
	var c mat.Dense
	c.Apply(func(_, _ int, v float64) float64 { return fn(v) }, a.d)
	return &Matrix{d: &c}
}

// Transpose returns the transpose of m.
func Transpose(m *Matrix) *Matrix {
	return &Matrix{d: mat.DenseCopyOf(m.d.T())}
}

// Copy returns a deep copy of m.
func Copy(m *Matrix) *Matrix {
	return &Matrix{d: mat.DenseCopyOf(m.d)}
}

// Equal reports whether a and b have the same shape and identical values.
func Equal(a, b *Matrix) bool {
	return SameShape(a, b) && mat.Equal(a.d, b.d)
}

// EqualApprox reports whether a and b have the same shape and all values
// within tol of each other.
func EqualApprox(a, b *Matrix, tol float64) bool {
	return SameShape(a, b) && mat.EqualApprox(a.d, b.d, tol)
}

func checkSameShape(op string, a, b *Matrix) error {
	if a == nil || b == nil {
		return ErrNil
	}
	if !SameShape(a, b) {
		ar, ac := a.Dims()
		br, bc := b.Dims()
		return fmt.Errorf("%w: %s %dx%d and %dx%d", ErrShape, op, ar, ac, br, bc)
	}
	return nil
}
