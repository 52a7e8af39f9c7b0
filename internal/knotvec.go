package internal

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

const Epsilon = 1e-10

type KnotVec []float64

func (this KnotVec) Clone() KnotVec {
	return append(KnotVec(nil), this...)
}

// Rescale a knot vector onto [0, 1]
//
// **params**
// + array of nondecreasing knot values
//
// **returns**
// + a new array where each knot k is (k - first) / (last - first); an empty input gives an empty output
//
func Normalize(knots []float64) KnotVec {
	normalized := make(KnotVec, len(knots))
	if len(knots) == 0 {
		return normalized
	}

	first, last := knots[0], knots[len(knots)-1]
	for i, knot := range knots {
		normalized[i] = (knot - first) / (last - first)
	}

	return normalized
}

// CheckNormalizable reports why a raw knot vector cannot be rescaled onto [0, 1].
func CheckNormalizable(knots []float64) error {
	if len(knots) == 0 {
		return nil
	}
	if floats.HasNaN(knots) {
		return errors.New("knot vector contains NaN")
	}
	for _, k := range knots {
		if math.IsInf(k, 0) {
			return errors.New("knot vector contains an infinite value")
		}
	}
	if !KnotVec(knots).IsNonDecreasing() {
		return errors.New("knot vector must be nondecreasing")
	}
	if knots[len(knots)-1] == knots[0] {
		return errors.New("knot vector must span a nonzero range")
	}

	return nil
}

// Find the span on the knot Array knots of the given parameter
// (corresponds to algorithm 2.1 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + integer degree of function
// + integer number of control points, n = len(knots) - degree - 1
// + parameter
//
// **returns**
// + the index of the knot span
//
func (this KnotVec) Span(degree, n int, u float64) int {
	if u == this[n] {
		return n - 1
	}

	// only reachable with unclamped knot vectors, where the search below would not terminate
	if u > this[n] {
		return n - 1
	}
	if u < this[degree] {
		return degree
	}

	low, high := degree, n
	mid := (low + high) / 2

	for u < this[mid] || u >= this[mid+1] {
		if u < this[mid] {
			high = mid
		} else {
			low = mid
		}

		mid = (low + high) / 2
	}

	return mid
}

// IsClamped reports whether the first and last degree+1 knots repeat.
func (this KnotVec) IsClamped(degree int) bool {
	if len(this) < (degree+1)*2 {
		return false
	}

	rep := this[0]

	for _, knot := range this[:degree+1] {
		if math.Abs(knot-rep) > Epsilon {
			return false
		}
	}

	rep = this[len(this)-1]

	for _, knot := range this[len(this)-degree-1:] {
		if math.Abs(knot-rep) > Epsilon {
			return false
		}
	}

	return true
}

func (this KnotVec) IsNonDecreasing() bool {
	if len(this) == 0 {
		return true
	}

	rep := this[0]
	for _, knot := range this[1:] {
		if knot < rep-Epsilon {
			return false
		}
		rep = knot
	}
	return true
}

//
// Determine the multiplicities of the values in a knot vector
//
// **params**
// + array of nondecreasing knot values
//
// **returns**
// + *Array* of length 2 arrays, [knotValue, knotMultiplicity]
//
func (this KnotVec) Multiplicities() []KnotMultiplicity {
	if len(this) == 0 {
		return nil
	}

	mults := []KnotMultiplicity{{this[0], 0}}

	var currI int
	for _, knot := range this {
		if math.Abs(knot-mults[currI].Knot) > Epsilon {
			mults = append(mults, KnotMultiplicity{knot, 0})
			currI++
		}

		mults[currI].Mult++
	}

	return mults
}

type KnotMultiplicity struct {
	Knot float64
	Mult int
}
