package nurbs

import (
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/alexozer/nurbs/bbox"
)

// ControlGrid is a rectangular net of control points stored once, flat, with
// the u index running fastest: index = i + j*NumU.
type ControlGrid struct {
	points     []vec3.T
	numU, numV int
}

// NewControlGrid copies points into a numU by numV grid.
func NewControlGrid(points []vec3.T, numU, numV int) (ControlGrid, error) {
	if numU < 0 || numV < 0 || len(points) != numU*numV {
		return ControlGrid{}, fmt.Errorf("%w: %d control points do not fill a %dx%d grid", ErrConfig, len(points), numU, numV)
	}

	return ControlGrid{append([]vec3.T(nil), points...), numU, numV}, nil
}

// NewControlGridFromRows builds a grid where rows[i][j] is the point at u index i and v index j,
// the shape produced by the control point text format.
func NewControlGridFromRows(rows [][]vec3.T) (ControlGrid, error) {
	if len(rows) == 0 {
		return ControlGrid{}, nil
	}

	numU, numV := len(rows), len(rows[0])
	grid := ControlGrid{make([]vec3.T, numU*numV), numU, numV}

	for i, row := range rows {
		if len(row) != numV {
			return ControlGrid{}, fmt.Errorf("%w: control point row %d has %d points, expected %d", ErrConfig, i, len(row), numV)
		}
		for j := range row {
			grid.points[grid.index(i, j)] = row[j]
		}
	}

	return grid, nil
}

func (this *ControlGrid) NumU() int {
	return this.numU
}

func (this *ControlGrid) NumV() int {
	return this.numV
}

func (this *ControlGrid) Len() int {
	return len(this.points)
}

func (this *ControlGrid) index(i, j int) int {
	return i + j*this.numU
}

func (this *ControlGrid) At(i, j int) vec3.T {
	return this.points[this.index(i, j)]
}

func (this *ControlGrid) Set(i, j int, pt vec3.T) {
	this.points[this.index(i, j)] = pt
}

// Flat returns a copy of the points in storage order.
func (this *ControlGrid) Flat() []vec3.T {
	return append([]vec3.T(nil), this.points...)
}

// Rows returns a copy of the points indexed [u][v].
func (this *ControlGrid) Rows() [][]vec3.T {
	rows := make([][]vec3.T, this.numU)
	for i := range rows {
		rows[i] = make([]vec3.T, this.numV)
		for j := range rows[i] {
			rows[i][j] = this.At(i, j)
		}
	}

	return rows
}

// transposed swaps the u and v directions; values keeps a parallel per-point array in step.
func (this *ControlGrid) transposed(values []float64) (ControlGrid, []float64) {
	result := ControlGrid{make([]vec3.T, len(this.points)), this.numV, this.numU}
	var resultValues []float64
	if values != nil {
		resultValues = make([]float64, len(values))
	}

	for i := 0; i < this.numU; i++ {
		for j := 0; j < this.numV; j++ {
			src, dst := this.index(i, j), result.index(j, i)
			result.points[dst] = this.points[src]
			if resultValues != nil {
				resultValues[dst] = values[src]
			}
		}
	}

	return result, resultValues
}

func (this *ControlGrid) Bounds() bbox.BoundingBox {
	var bb bbox.BoundingBox
	bb.AddRange(this.points)
	return bb
}

// PointGrid holds surface points sampled on a uniform parameter lattice.
// Like ControlGrid it is stored flat with the u index running fastest.
type PointGrid struct {
	points []vec3.T
	us, vs []float64
}

func newPointGrid(us, vs []float64) *PointGrid {
	return &PointGrid{
		points: make([]vec3.T, len(us)*len(vs)),
		us:     us,
		vs:     vs,
	}
}

func (this *PointGrid) NumU() int {
	return len(this.us)
}

func (this *PointGrid) NumV() int {
	return len(this.vs)
}

func (this *PointGrid) Len() int {
	return len(this.points)
}

func (this *PointGrid) index(iu, iv int) int {
	return iu + iv*len(this.us)
}

func (this *PointGrid) At(iu, iv int) vec3.T {
	return this.points[this.index(iu, iv)]
}

// UV returns the parameters the point at (iu, iv) was evaluated at.
func (this *PointGrid) UV(iu, iv int) UV {
	return UV{this.us[iu], this.vs[iv]}
}

// Params returns copies of the u and v sample parameters.
func (this *PointGrid) Params() (us, vs []float64) {
	return append([]float64(nil), this.us...), append([]float64(nil), this.vs...)
}

// Flat returns a copy of the points in storage order.
func (this *PointGrid) Flat() []vec3.T {
	return append([]vec3.T(nil), this.points...)
}

// Rows returns a copy of the points indexed [u][v].
func (this *PointGrid) Rows() [][]vec3.T {
	rows := make([][]vec3.T, len(this.us))
	for iu := range rows {
		rows[iu] = make([]vec3.T, len(this.vs))
		for iv := range rows[iu] {
			rows[iu][iv] = this.At(iu, iv)
		}
	}

	return rows
}

func (this *PointGrid) Bounds() bbox.BoundingBox {
	var bb bbox.BoundingBox
	bb.AddRange(this.points)
	return bb
}
