package tensor

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Initializer returns the initial value for cell (i, j).
type Initializer func(i, j int) float64

// Zero fills with 0.
func Zero(_, _ int) float64 { return 0 }

// One fills with 1.
func One(_, _ int) float64 { return 1 }

// Constant fills every cell with v.
func Constant(v float64) Initializer {
	return func(_, _ int) float64 { return v }
}

// Uniform draws from U[0, 1). A nil src uses the global source.
func Uniform(src rand.Source) Initializer {
	return uniform(0, 1, src)
}

// UniformSymmetric draws from U[-1, 1). A nil src uses the global source.
func UniformSymmetric(src rand.Source) Initializer {
	return uniform(-1, 1, src)
}

// Xavier draws from U[-b, b) with b = sqrt(6/(in+out)).
func Xavier(in, out int, src rand.Source) Initializer {
	b := math.Sqrt(6.0 / float64(in+out))
	return uniform(-b, b, src)
}

func uniform(lo, hi float64, src rand.Source) Initializer {
	d := distuv.Uniform{Min: lo, Max: hi, Src: src}
	return func(_, _ int) float64 {
		v := d.Rand()
		// distuv can return Max itself; keep the interval half-open
		if v >= hi {
			v = lo
		}
		return v
	}
}
