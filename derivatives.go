package nurbs

import (
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/alexozer/nurbs/geom"
	. "github.com/alexozer/nurbs/internal"
)

// Compute the derivatives at a point on a NURBS surface
// (corresponds to algorithm 4.4 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + u parameter at which to evaluate the derivatives
// + v parameter at which to evaluate the derivatives
// + maximum total order of derivatives to evaluate
//
// **returns**
// + a (d+1) x (d+1) table where entry [k][l] is the derivative taken k times in u and l times in v.
// Entries with k + l > d are zero.
func (this *Surface) Derivatives(u, v float64, d int) ([][]vec3.T, error) {
	if err := this.Check(); err != nil {
		return nil, err
	}
	if err := this.checkUV(u, v, false); err != nil {
		return nil, err
	}
	if d < 0 {
		return nil, fmt.Errorf("%w: derivative order must not be negative, got %d", ErrDomain, d)
	}

	return this.derivatives(u, v, d), nil
}

func (this *Surface) derivatives(u, v float64, d int) [][]vec3.T {
	ders := this.nonRationalDerivatives(u, v, d)
	skl := zeroTable(d)
	w := ders[0][0].W

	for k := 0; k <= d; k++ {
		for l := 0; l <= d-k; l++ {
			pt := ders[k][l].Vec3

			for j := 1; j <= l; j++ {
				scaled := skl[k][l-j].Scaled(binomial(l, j) * ders[0][j].W)
				pt.Sub(&scaled)
			}

			for i := 1; i <= k; i++ {
				scaled := skl[k-i][l].Scaled(binomial(k, i) * ders[i][0].W)
				pt.Sub(&scaled)

				var pt2 vec3.T

				for j := 1; j <= l; j++ {
					scaled := skl[k-i][l-j].Scaled(binomial(l, j) * ders[i][j].W)
					pt2.Add(&scaled)
				}

				scaled = pt2.Scaled(binomial(k, i))
				pt.Sub(&scaled)
			}

			pt.Scale(1 / w)
			skl[k][l] = pt
		}
	}

	return skl
}

// Compute the derivatives on a non-uniform, non-rational B spline surface
// (corresponds to algorithm 3.6 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + u parameter at which to evaluate the derivatives
// + v parameter at which to evaluate the derivatives
// + maximum total order of derivatives to evaluate
//
// **returns**
// + a (d+1) x (d+1) table of homogeneous derivatives - u derivatives increase by row, v by column
func (this *Surface) nonRationalDerivatives(u, v float64, d int) [][]HomoPoint {
	degreeU, degreeV := this.degreeU, this.degreeV

	du := min(d, degreeU)
	dv := min(d, degreeV)

	// derivatives past the degree in either direction vanish, so rows k > degreeU
	// and columns l > degreeV keep their zero value
	skl := make([][]HomoPoint, d+1)
	for k := range skl {
		skl[k] = make([]HomoPoint, d+1)
	}

	spanU := this.knotsU.Span(degreeU, this.controlPoints.numU, u)
	spanV := this.knotsV.Span(degreeV, this.controlPoints.numV, v)
	uders := DerivativeBasisFunctions(spanU, u, degreeU, du, this.knotsU)
	vders := DerivativeBasisFunctions(spanV, v, degreeV, dv, this.knotsV)
	temp := make([]HomoPoint, degreeV+1)

	for k := 0; k <= du; k++ {
		for s := range temp {
			temp[s] = HomoPoint{}

			for r := 0; r <= degreeU; r++ {
				scaled := this.homogenized(spanU-degreeU+r, spanV-degreeV+s)
				scaled.Scale(uders[k][r])
				temp[s].Add(&scaled)
			}
		}

		dd := min(d-k, dv)

		for l := 0; l <= dd; l++ {
			for s := 0; s <= degreeV; s++ {
				scaled := temp[s].Scaled(vders[l][s])
				skl[k][l].Add(&scaled)
			}
		}
	}

	return skl
}

func zeroTable(d int) [][]vec3.T {
	table := make([][]vec3.T, d+1)
	for i := range table {
		table[i] = make([]vec3.T, d+1)
	}
	return table
}

// TangentU returns the first partial derivative in u.
func (this *Surface) TangentU(u, v float64) (vec3.T, error) {
	skl, err := this.Derivatives(u, v, 1)
	if err != nil {
		return vec3.T{}, err
	}
	return skl[1][0], nil
}

// TangentV returns the first partial derivative in v.
func (this *Surface) TangentV(u, v float64) (vec3.T, error) {
	skl, err := this.Derivatives(u, v, 1)
	if err != nil {
		return vec3.T{}, err
	}
	return skl[0][1], nil
}

// Normal returns TangentU x TangentV, unnormalized. It is refused within Delta of the patch
// edges. At a degenerate point the tangents are parallel and the result is the zero vector.
func (this *Surface) Normal(u, v float64) (vec3.T, error) {
	if err := this.Check(); err != nil {
		return vec3.T{}, err
	}
	if err := this.checkUV(u, v, true); err != nil {
		return vec3.T{}, err
	}

	skl := this.derivatives(u, v, 1)
	return vec3.Cross(&skl[1][0], &skl[0][1]), nil
}

// UnitNormal normalizes Normal. A normal shorter than tol yields the zero vector and ErrDegenerate.
func (this *Surface) UnitNormal(u, v, tol float64) (vec3.T, error) {
	n, err := this.Normal(u, v)
	if err != nil {
		return vec3.T{}, err
	}
	if geom.IsZero(n, tol) {
		return vec3.T{}, fmt.Errorf("%w at (%v, %v)", ErrDegenerate, u, v)
	}
	return geom.Normalize(n), nil
}
