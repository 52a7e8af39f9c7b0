package nurbs

import (
	"runtime"
	"sort"

	"github.com/ungerik/go3d/float64/vec3"
	"golang.org/x/sync/errgroup"

	. "github.com/alexozer/nurbs/internal"
)

// basis locates the knot span of u and returns it with the non-vanishing basis functions
func basis(knots KnotVec, degree, numCtrlPts int, u float64) (int, []float64) {
	span := knots.Span(degree, numCtrlPts, u)
	return span, BasisFunctions(span, u, degree, knots)
}

func (this *Surface) homogenized(i, j int) HomoPoint {
	return Homogenized(this.controlPoints.At(i, j), this.weights[this.controlPoints.index(i, j)])
}

// Compute a point on a NURBS surface
// (corresponds to algorithm 3.5 from The NURBS book, Piegl & Tiller 2nd edition, run on
// homogeneous control points and projected back)
//
// **params**
// + u parameter at which to evaluate the surface point
// + v parameter at which to evaluate the surface point
//
// **returns**
// + the surface point, or an error for an unconfigured surface or parameters outside [0, 1]
func (this *Surface) Point(u, v float64) (vec3.T, error) {
	if err := this.Check(); err != nil {
		return vec3.T{}, err
	}
	if err := this.checkUV(u, v, false); err != nil {
		return vec3.T{}, err
	}

	spanU, basisU := basis(this.knotsU, this.degreeU, this.controlPoints.numU, u)
	spanV, basisV := basis(this.knotsV, this.degreeV, this.controlPoints.numV, v)

	return this.rationalPoint(spanU, basisU, spanV, basisV), nil
}

func (this *Surface) rationalPoint(spanU int, basisU []float64, spanV int, basisV []float64) vec3.T {
	uind := spanU - this.degreeU
	var position HomoPoint

	for l := 0; l <= this.degreeV; l++ {
		temp := HomoPoint{}
		vind := spanV - this.degreeV + l

		// sample u isoline
		for k := 0; k <= this.degreeU; k++ {
			scaled := this.homogenized(uind+k, vind)
			scaled.Scale(basisU[k])
			temp.Add(&scaled)
		}

		// add point from u isoline
		temp.Scale(basisV[l])
		position.Add(&temp)
	}

	return position.Dehomogenized()
}

// NonRationalPoint evaluates the plain tensor product B-spline sum at (u, v),
// ignoring the weights. It matches Point whenever all weights are equal.
func (this *Surface) NonRationalPoint(u, v float64) (vec3.T, error) {
	if err := this.Check(); err != nil {
		return vec3.T{}, err
	}
	if err := this.checkUV(u, v, false); err != nil {
		return vec3.T{}, err
	}

	spanU, basisU := basis(this.knotsU, this.degreeU, this.controlPoints.numU, u)
	spanV, basisV := basis(this.knotsV, this.degreeV, this.controlPoints.numV, v)
	uind := spanU - this.degreeU
	var position vec3.T

	for l := 0; l <= this.degreeV; l++ {
		var temp vec3.T
		vind := spanV - this.degreeV + l

		for k := 0; k <= this.degreeU; k++ {
			scaled := this.controlPoints.At(uind+k, vind)
			scaled.Scale(basisU[k])
			temp.Add(&scaled)
		}

		temp.Scale(basisV[l])
		position.Add(&temp)
	}

	return position, nil
}

// params returns 0, delta, 2*delta, ... below 1, followed by 1 itself.
// Multiples are used instead of a running sum so rounding cannot add a sample.
func params(delta float64) []float64 {
	const eps = 1e-12

	result := make([]float64, 0, int(1/delta)+2)
	for i := 0; float64(i)*delta < 1-eps; i++ {
		result = append(result, float64(i)*delta)
	}

	return append(result, 1)
}

// Evaluate samples the surface on the lattice {0, delta, 2*delta, ..., 1} in both directions
// and caches the result for Points and GridPoint. Rows of constant v are computed concurrently;
// every sample depends only on its own parameters.
func (this *Surface) Evaluate() (*PointGrid, error) {
	if err := this.Check(); err != nil {
		return nil, err
	}

	us := params(this.Delta())
	grid := newPointGrid(us, params(this.Delta()))

	spansU := make([]int, len(us))
	basesU := make([][]float64, len(us))
	for iu, u := range us {
		spansU[iu], basesU[iu] = basis(this.knotsU, this.degreeU, this.controlPoints.numU, u)
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for iv, v := range grid.vs {
		iv, v := iv, v
		g.Go(func() error {
			spanV, basisV := basis(this.knotsV, this.degreeV, this.controlPoints.numV, v)
			for iu := range us {
				grid.points[grid.index(iu, iv)] = this.rationalPoint(spansU[iu], basesU[iu], spanV, basisV)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	this.points = grid
	return grid, nil
}

// Points returns the grid computed by the last Evaluate, evaluating again if
// the surface changed since.
func (this *Surface) Points() (*PointGrid, error) {
	if this.points != nil {
		return this.points, nil
	}
	return this.Evaluate()
}

// GridPoint returns the sample of the evaluated grid nearest to (u, v). The sample is
// rounded to the closest lattice parameter rather than truncated to int(u/delta), so
// u = 0.2 with delta 0.25 selects the sample at 0.25, not the one at 0.
func (this *Surface) GridPoint(u, v float64) (vec3.T, error) {
	if err := this.Check(); err != nil {
		return vec3.T{}, err
	}
	if err := this.checkUV(u, v, false); err != nil {
		return vec3.T{}, err
	}

	grid, err := this.Points()
	if err != nil {
		return vec3.T{}, err
	}

	return grid.At(nearest(grid.us, u), nearest(grid.vs, v)), nil
}

func nearest(sorted []float64, x float64) int {
	i := sort.SearchFloat64s(sorted, x)
	if i == len(sorted) {
		return i - 1
	}
	if i > 0 && x-sorted[i-1] < sorted[i]-x {
		return i - 1
	}
	return i
}
