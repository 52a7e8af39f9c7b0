package nurbs_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/alexozer/nurbs"
)

// planarBicubic is a single bicubic patch over the 4x4 lattice (i, j, 0).
func planarBicubic(t *testing.T) *nurbs.Surface {
	t.Helper()

	rows := make([][]vec3.T, 4)
	for i := range rows {
		rows[i] = make([]vec3.T, 4)
		for j := range rows[i] {
			rows[i][j] = vec3.T{float64(i), float64(j), 0}
		}
	}

	knots := []float64{0, 0, 0, 0, 1, 1, 1, 1}
	s, err := nurbs.NewSurface(3, 3, rows, nil, knots, knots)
	require.NoError(t, err)
	return s
}

func curvedRows() [][]vec3.T {
	rows := make([][]vec3.T, 5)
	for i := range rows {
		rows[i] = make([]vec3.T, 4)
		for j := range rows[i] {
			rows[i][j] = vec3.T{
				float64(i),
				float64(j) * 1.5,
				0.5*math.Sin(float64(i)) + 0.25*math.Cos(float64(2*j)),
			}
		}
	}
	return rows
}

var (
	curvedKnotsU = []float64{0, 0, 0, 0, 1, 2, 2, 2, 2}
	curvedKnotsV = []float64{0, 0, 0, 3, 6, 6, 6}
)

// curved is a cubic by quadratic surface with an interior knot in each direction.
func curved(t *testing.T) *nurbs.Surface {
	t.Helper()

	s, err := nurbs.NewSurface(3, 2, curvedRows(), nil, curvedKnotsU, curvedKnotsV)
	require.NoError(t, err)
	return s
}

// curvedRational is curved with non-uniform weights.
func curvedRational(t *testing.T) *nurbs.Surface {
	t.Helper()

	weights := make([][]float64, 5)
	for i := range weights {
		weights[i] = make([]float64, 4)
		for j := range weights[i] {
			weights[i][j] = 1 + 0.3*float64((i+2*j)%3)
		}
	}

	s, err := nurbs.NewSurface(3, 2, curvedRows(), weights, curvedKnotsU, curvedKnotsV)
	require.NoError(t, err)
	return s
}

// quarterCylinder sweeps an exact rational quarter circle of radius 1 along z.
func quarterCylinder(t *testing.T) *nurbs.Surface {
	t.Helper()

	w := math.Sqrt2 / 2
	rows := [][]vec3.T{
		{{1, 0, 0}, {1, 0, 1}},
		{{1, 1, 0}, {1, 1, 1}},
		{{0, 1, 0}, {0, 1, 1}},
	}
	weights := [][]float64{{1, 1}, {w, w}, {1, 1}}

	s, err := nurbs.NewSurface(2, 1, rows, weights, []float64{0, 0, 0, 1, 1, 1}, []float64{0, 0, 1, 1})
	require.NoError(t, err)
	return s
}

func assertVecInDelta(t *testing.T, expected, actual vec3.T, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	for i := range expected {
		require.InDelta(t, expected[i], actual[i], delta, msgAndArgs...)
	}
}
