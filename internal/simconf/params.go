package simconf

import (
	"math"

	"github.com/mdprep/mdprep/internal/ptable"
)

// Defaults applied when a configuration does not pin them explicitly.
const (
	DefaultEpsilon      = 1.0
	DefaultCutoffFactor = 2.5
)

// LJParams holds the Lennard-Jones parameters of a pairwise potential.
// Epsilon is the well depth, Sigma the zero-crossing distance and Cutoff
// the interaction truncation distance, all in the caller's unit system.
type LJParams struct {
	Epsilon float64 `json:"epsilon" yaml:"epsilon"`
	Sigma   float64 `json:"sigma" yaml:"sigma"`
	Cutoff  float64 `json:"cutoff" yaml:"cutoff"`
}

// DeriveLJParams derives LJ parameters from the covalent radii of the
// given elements. The sigma places the potential minimum at twice the
// average radius, i.e. at the contact distance of two average atoms:
//
//	sigma  = 2 * rAvg * 2^(-1/6)
//	cutoff = sigma * cutoffFactor
//
// Duplicate symbols count once per occurrence, so the average is weighted
// by how often an element appears. An empty element list fails with
// ErrNoElements; the first unknown symbol aborts the whole derivation
// with an *ptable.UnknownElementError naming it.
func DeriveLJParams(elements []string, epsilon, cutoffFactor float64) (LJParams, error) {
	if len(elements) == 0 {
		return LJParams{}, ErrNoElements
	}

	sum := 0.0
	for _, symbol := range elements {
		r, err := ptable.CovalentRadius(symbol)
		if err != nil {
			return LJParams{}, err
		}
		sum += r
	}
	rAvg := sum / float64(len(elements))

	sigma := 2 * rAvg * math.Pow(2, -1.0/6.0)
	return LJParams{
		Epsilon: epsilon,
		Sigma:   sigma,
		Cutoff:  sigma * cutoffFactor,
	}, nil
}

// DefaultLJParams derives LJ parameters with the default well depth and
// cutoff factor.
func DefaultLJParams(elements []string) (LJParams, error) {
	return DeriveLJParams(elements, DefaultEpsilon, DefaultCutoffFactor)
}
