// Package nurbs evaluates tensor product NURBS surfaces: points, point grids,
// partial derivatives, tangents and normals, following the algorithms of
// The NURBS Book (Piegl & Tiller, 2nd edition).
//
// A Surface is built empty (or with NewSurface), configured through its
// setters and then evaluated. Knot vectors are always stored rescaled onto
// [0, 1], so every evaluation takes u and v in [0, 1].
package nurbs

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/mat4"
	"github.com/ungerik/go3d/float64/vec3"
	"go.uber.org/multierr"

	"github.com/alexozer/nurbs/bbox"
	. "github.com/alexozer/nurbs/internal"
)

// DefaultDelta is the parameter step used by Evaluate when none is set.
const DefaultDelta = 0.01

type UV [2]float64

// The zero value is an empty surface that evaluates with DefaultDelta.
type Surface struct {
	// integer degree of surface in u direction
	degreeU int

	// integer degree of surface in v direction
	degreeV int

	// arrays of nondecreasing knot values, rescaled onto [0, 1]
	knotsU, knotsV KnotVec

	controlPoints ControlGrid

	// one weight per control point, indexed like controlPoints
	weights []float64

	delta float64

	// last grid computed by Evaluate, dropped by every mutation
	points *PointGrid
}

// New returns an empty surface, to be configured through its setters.
func New() *Surface {
	return &Surface{delta: DefaultDelta}
}

// NewSurface builds and validates a surface. controlPoints and weights are indexed [u][v];
// nil weights select a plain B-spline surface (all weights 1).
func NewSurface(degreeU, degreeV int, controlPoints [][]vec3.T, weights [][]float64, knotsU, knotsV []float64) (*Surface, error) {
	this := New()

	err := multierr.Combine(
		this.SetDegreeU(degreeU),
		this.SetDegreeV(degreeV),
		this.SetKnotsU(knotsU),
		this.SetKnotsV(knotsV),
		this.SetControlPointRows(controlPoints),
	)
	if err != nil {
		return nil, err
	}

	if weights != nil {
		grid := &this.controlPoints
		mismatch := fmt.Errorf("%w: weights do not match the %dx%d control grid", ErrConfig, grid.numU, grid.numV)
		if len(weights) != grid.numU {
			return nil, mismatch
		}

		flat := make([]float64, grid.Len())
		for i, row := range weights {
			if len(row) != grid.numV {
				return nil, mismatch
			}
			for j, w := range row {
				flat[grid.index(i, j)] = w
			}
		}
		if err := this.SetWeights(flat); err != nil {
			return nil, err
		}
	}

	if err := this.Check(); err != nil {
		return nil, err
	}

	return this, nil
}

func (this *Surface) invalidate() {
	this.points = nil
}

func (this *Surface) DegreeU() int {
	return this.degreeU
}

// SetDegreeU rejects degrees below 1 and keeps the previous value.
func (this *Surface) SetDegreeU(degree int) error {
	if degree <= 0 {
		return fmt.Errorf("%w: degree u must be positive, got %d", ErrConfig, degree)
	}

	this.degreeU = degree
	this.invalidate()
	return nil
}

func (this *Surface) DegreeV() int {
	return this.degreeV
}

// SetDegreeV rejects degrees below 1 and keeps the previous value.
func (this *Surface) SetDegreeV(degree int) error {
	if degree <= 0 {
		return fmt.Errorf("%w: degree v must be positive, got %d", ErrConfig, degree)
	}

	this.degreeV = degree
	this.invalidate()
	return nil
}

func (this *Surface) KnotsU() []float64 {
	return []float64(this.knotsU.Clone())
}

// SetKnotsU stores knots rescaled onto [0, 1].
func (this *Surface) SetKnotsU(knots []float64) error {
	if err := CheckNormalizable(knots); err != nil {
		return fmt.Errorf("%w: knots u: %v", ErrConfig, err)
	}

	this.knotsU = Normalize(knots)
	this.invalidate()
	return nil
}

func (this *Surface) KnotsV() []float64 {
	return []float64(this.knotsV.Clone())
}

// SetKnotsV stores knots rescaled onto [0, 1].
func (this *Surface) SetKnotsV(knots []float64) error {
	if err := CheckNormalizable(knots); err != nil {
		return fmt.Errorf("%w: knots v: %v", ErrConfig, err)
	}

	this.knotsV = Normalize(knots)
	this.invalidate()
	return nil
}

// ControlPoints returns a copy of the control grid.
func (this *Surface) ControlPoints() ControlGrid {
	grid := this.controlPoints
	grid.points = grid.Flat()
	return grid
}

func (this *Surface) NumControlPointsU() int {
	return this.controlPoints.numU
}

func (this *Surface) NumControlPointsV() int {
	return this.controlPoints.numV
}

// SetControlPoints replaces the control net with a flat array where the point
// at (i, j) sits at index i + j*numU. Weights are left untouched.
func (this *Surface) SetControlPoints(points []vec3.T, numU, numV int) error {
	grid, err := NewControlGrid(points, numU, numV)
	if err != nil {
		return err
	}

	this.controlPoints = grid
	this.invalidate()
	return nil
}

// ControlPointRows returns the control points indexed [u][v].
func (this *Surface) ControlPointRows() [][]vec3.T {
	return this.controlPoints.Rows()
}

// SetControlPointRows replaces the control net with rows[i][j] at (u=i, v=j)
// and resets every weight to 1, as the control point file import does.
func (this *Surface) SetControlPointRows(rows [][]vec3.T) error {
	grid, err := NewControlGridFromRows(rows)
	if err != nil {
		return err
	}

	this.controlPoints = grid
	this.SetUnitWeights()
	return nil
}

func (this *Surface) Weights() []float64 {
	return append([]float64(nil), this.weights...)
}

// SetWeights rejects an array whose size differs from the number of control points,
// and any weight that is not a positive finite number.
func (this *Surface) SetWeights(weights []float64) error {
	if len(weights) != this.controlPoints.Len() {
		return fmt.Errorf("%w: %d weights for %d control points", ErrConfig, len(weights), this.controlPoints.Len())
	}
	if err := checkWeights(weights); err != nil {
		return err
	}

	this.weights = append([]float64(nil), weights...)
	this.invalidate()
	return nil
}

func checkWeights(weights []float64) error {
	for i, w := range weights {
		if !(w > 0) || math.IsInf(w, 1) {
			return fmt.Errorf("%w: weight %d must be positive and finite, got %v", ErrConfig, i, w)
		}
	}
	return nil
}

// SetUnitWeights gives every control point a weight of 1.
func (this *Surface) SetUnitWeights() {
	this.weights = make([]float64, this.controlPoints.Len())
	for i := range this.weights {
		this.weights[i] = 1
	}
	this.invalidate()
}

// ControlBounds returns the bounding box of the control net, which contains the whole surface
// as long as every weight is positive.
func (this *Surface) ControlBounds() bbox.BoundingBox {
	return this.controlPoints.Bounds()
}

// Transform applies mat to every control point. Rational surfaces are invariant under
// affine maps, so this moves the surface itself; weights and knots are unchanged.
func (this *Surface) Transform(mat *mat4.T) {
	for i := range this.controlPoints.points {
		this.controlPoints.points[i] = mat.MulVec3(&this.controlPoints.points[i])
	}
	this.invalidate()
}

func (this *Surface) Delta() float64 {
	if this.delta == 0 {
		return DefaultDelta
	}
	return this.delta
}

// SetDelta sets the parameter step of Evaluate. It must be a positive finite number.
func (this *Surface) SetDelta(delta float64) error {
	if !(delta > 0) || math.IsInf(delta, 1) {
		return fmt.Errorf("%w: delta must be positive, got %v", ErrConfig, delta)
	}

	this.delta = delta
	this.invalidate()
	return nil
}

// Check validates the configuration every evaluation depends on and reports all problems at once.
func (this *Surface) Check() error {
	var err error
	fail := func(format string, args ...interface{}) {
		err = multierr.Append(err, fmt.Errorf("%w: "+format, append([]interface{}{ErrConfig}, args...)...))
	}

	if this.degreeU <= 0 {
		fail("degree u is not set")
	}
	if this.degreeV <= 0 {
		fail("degree v is not set")
	}
	if len(this.knotsU) == 0 {
		fail("knot vector u is not set")
	}
	if len(this.knotsV) == 0 {
		fail("knot vector v is not set")
	}
	if this.controlPoints.Len() == 0 {
		fail("control points are not set")
	}
	if len(this.weights) == 0 {
		fail("weights are not set")
	} else if len(this.weights) != this.controlPoints.Len() {
		fail("%d weights for %d control points", len(this.weights), this.controlPoints.Len())
	} else if werr := checkWeights(this.weights); werr != nil {
		err = multierr.Append(err, werr)
	}
	if err != nil {
		return err
	}

	if len(this.knotsU) != this.controlPoints.numU+this.degreeU+1 {
		fail("len(knotsU) must equal numU + degreeU + 1 (%d != %d + %d + 1)", len(this.knotsU), this.controlPoints.numU, this.degreeU)
	}
	if len(this.knotsV) != this.controlPoints.numV+this.degreeV+1 {
		fail("len(knotsV) must equal numV + degreeV + 1 (%d != %d + %d + 1)", len(this.knotsV), this.controlPoints.numV, this.degreeV)
	}

	return err
}

// checkUV rejects parameters outside [0, 1]. For normals it also rejects
// parameters closer than delta to either edge of the patch.
func (this *Surface) checkUV(u, v float64, normal bool) error {
	if !(u >= 0 && u <= 1) {
		return fmt.Errorf("%w: u = %v is outside [0, 1]", ErrDomain, u)
	}
	if !(v >= 0 && v <= 1) {
		return fmt.Errorf("%w: v = %v is outside [0, 1]", ErrDomain, v)
	}

	if normal {
		delta := this.Delta()
		if u < delta || u > 1-delta || v < delta || v > 1-delta {
			return fmt.Errorf("%w: cannot calculate a normal within %v of an edge (u = %v, v = %v)", ErrDomain, delta, u, v)
		}
	}

	return nil
}

// Transpose swaps the u and v directions: degrees, knot vectors, control points and weights.
// Transposing twice restores the original surface.
func (this *Surface) Transpose() error {
	if err := this.Check(); err != nil {
		return err
	}

	this.degreeU, this.degreeV = this.degreeV, this.degreeU
	this.knotsU, this.knotsV = this.knotsV, this.knotsU
	this.controlPoints, this.weights = this.controlPoints.transposed(this.weights)
	this.invalidate()

	return nil
}

// IsClamped reports whether both knot vectors repeat their end knots degree+1 times,
// in which case the surface interpolates its corner control points.
func (this *Surface) IsClamped() bool {
	return this.knotsU.IsClamped(this.degreeU) && this.knotsV.IsClamped(this.degreeV)
}
