package nurbs_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/mat4"
	"github.com/ungerik/go3d/float64/vec3"
	"go.uber.org/multierr"

	"github.com/alexozer/nurbs"
	"github.com/alexozer/nurbs/geom"
)

func TestEmptySurfaceCheck(t *testing.T) {
	err := nurbs.New().Check()
	require.Error(t, err)
	assert.True(t, errors.Is(err, nurbs.ErrConfig))
	assert.Len(t, multierr.Errors(err), 6)

	var zero nurbs.Surface
	assert.Equal(t, nurbs.DefaultDelta, zero.Delta())
	assert.True(t, errors.Is(zero.Check(), nurbs.ErrConfig))
}

func TestPointBeforeWeights(t *testing.T) {
	s := nurbs.New()
	require.NoError(t, s.SetDegreeU(3))
	require.NoError(t, s.SetDegreeV(3))
	require.NoError(t, s.SetKnotsU([]float64{0, 0, 0, 0, 1, 1, 1, 1}))
	require.NoError(t, s.SetKnotsV([]float64{0, 0, 0, 0, 1, 1, 1, 1}))

	flat := make([]vec3.T, 16)
	for i := range flat {
		flat[i] = vec3.T{float64(i % 4), float64(i / 4), 1}
	}
	require.NoError(t, s.SetControlPoints(flat, 4, 4))

	pt, err := s.Point(0.5, 0.5)
	assert.True(t, errors.Is(err, nurbs.ErrConfig))
	assert.Equal(t, vec3.T{}, pt)

	_, err = s.Evaluate()
	assert.True(t, errors.Is(err, nurbs.ErrConfig))

	s.SetUnitWeights()
	pt, err = s.Point(0.5, 0.5)
	require.NoError(t, err)
	assertVecInDelta(t, vec3.T{1.5, 1.5, 1}, pt, 1e-12)
}

func TestKnotCountMismatch(t *testing.T) {
	s := planarBicubic(t)
	require.NoError(t, s.SetKnotsU([]float64{0, 0, 0, 0, 0.5, 1, 1, 1, 1}))

	err := s.Check()
	assert.True(t, errors.Is(err, nurbs.ErrConfig))
	_, err = s.Point(0.5, 0.5)
	assert.True(t, errors.Is(err, nurbs.ErrConfig))
}

func TestSetDegree(t *testing.T) {
	s := nurbs.New()
	require.NoError(t, s.SetDegreeU(2))
	require.NoError(t, s.SetDegreeV(4))

	assert.True(t, errors.Is(s.SetDegreeU(0), nurbs.ErrConfig))
	assert.True(t, errors.Is(s.SetDegreeV(-3), nurbs.ErrConfig))
	assert.Equal(t, 2, s.DegreeU())
	assert.Equal(t, 4, s.DegreeV())
}

func TestSetKnotsNormalizes(t *testing.T) {
	s := nurbs.New()
	require.NoError(t, s.SetKnotsU([]float64{0, 5, 10}))
	assert.Equal(t, []float64{0, 0.5, 1}, s.KnotsU())

	require.NoError(t, s.SetKnotsV([]float64{2, 2, 3, 4, 4}))
	assert.Equal(t, []float64{0, 0, 0.5, 1, 1}, s.KnotsV())

	assert.True(t, errors.Is(s.SetKnotsU([]float64{0, 2, 1}), nurbs.ErrConfig))
	assert.True(t, errors.Is(s.SetKnotsV([]float64{1, 1}), nurbs.ErrConfig))
	assert.Equal(t, []float64{0, 0.5, 1}, s.KnotsU())
	assert.Equal(t, []float64{0, 0, 0.5, 1, 1}, s.KnotsV())

	require.NoError(t, s.SetKnotsU(nil))
	assert.Empty(t, s.KnotsU())
}

func TestSetWeights(t *testing.T) {
	s := planarBicubic(t)
	assert.Equal(t, 16, len(s.Weights()))

	err := s.SetWeights([]float64{1, 2, 3})
	assert.True(t, errors.Is(err, nurbs.ErrConfig))
	for _, w := range s.Weights() {
		assert.Equal(t, 1.0, w)
	}

	weights := make([]float64, 16)
	for i := range weights {
		weights[i] = 2
	}
	require.NoError(t, s.SetWeights(weights))
	weights[0] = 7
	assert.Equal(t, 2.0, s.Weights()[0])
}

func TestSetWeightsRejectsNonPositive(t *testing.T) {
	s := planarBicubic(t)

	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		weights := make([]float64, 16)
		for i := range weights {
			weights[i] = 1
		}
		weights[5] = bad

		assert.True(t, errors.Is(s.SetWeights(weights), nurbs.ErrConfig), "weight %v", bad)
	}
	assert.True(t, errors.Is(s.SetWeights(make([]float64, 16)), nurbs.ErrConfig))

	for _, w := range s.Weights() {
		assert.Equal(t, 1.0, w)
	}
	pt, err := s.Point(0.5, 0.5)
	require.NoError(t, err)
	assertVecInDelta(t, vec3.T{1.5, 1.5, 0}, pt, 1e-12)

	weights := [][]float64{{1, 1, 1, 1}, {1, 0, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}}
	rows := planarBicubic(t).ControlPointRows()
	knots := []float64{0, 0, 0, 0, 1, 1, 1, 1}
	_, err = nurbs.NewSurface(3, 3, rows, weights, knots, knots)
	assert.True(t, errors.Is(err, nurbs.ErrConfig))
}

func TestSetKnotsRejectsInfinite(t *testing.T) {
	s := planarBicubic(t)

	assert.True(t, errors.Is(s.SetKnotsU([]float64{0, 0, 0, 0, 1, 1, 1, math.Inf(1)}), nurbs.ErrConfig))
	assert.True(t, errors.Is(s.SetKnotsV([]float64{math.Inf(-1), 0, 0, 0, 1, 1, 1, 1}), nurbs.ErrConfig))
	assert.Equal(t, []float64{0, 0, 0, 0, 1, 1, 1, 1}, s.KnotsU())
	assert.Equal(t, []float64{0, 0, 0, 0, 1, 1, 1, 1}, s.KnotsV())

	pt, err := s.Point(0.5, 0.5)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(pt[0]))
}

func TestSetDelta(t *testing.T) {
	s := nurbs.New()
	assert.Equal(t, nurbs.DefaultDelta, s.Delta())

	for _, bad := range []float64{0, -0.1, math.NaN(), math.Inf(1)} {
		assert.True(t, errors.Is(s.SetDelta(bad), nurbs.ErrConfig), "delta %v", bad)
	}
	assert.Equal(t, nurbs.DefaultDelta, s.Delta())

	require.NoError(t, s.SetDelta(0.25))
	assert.Equal(t, 0.25, s.Delta())
}

func TestNewSurfaceErrors(t *testing.T) {
	rows := curvedRows()

	_, err := nurbs.NewSurface(0, 2, rows, nil, curvedKnotsU, curvedKnotsV)
	assert.True(t, errors.Is(err, nurbs.ErrConfig))

	_, err = nurbs.NewSurface(3, 2, rows, [][]float64{{1}}, curvedKnotsU, curvedKnotsV)
	assert.True(t, errors.Is(err, nurbs.ErrConfig))

	ragged := curvedRows()
	ragged[2] = ragged[2][:3]
	_, err = nurbs.NewSurface(3, 2, ragged, nil, curvedKnotsU, curvedKnotsV)
	assert.True(t, errors.Is(err, nurbs.ErrConfig))

	_, err = nurbs.NewSurface(3, 3, rows, nil, curvedKnotsU, curvedKnotsV)
	assert.True(t, errors.Is(err, nurbs.ErrConfig))
}

func TestControlPointViews(t *testing.T) {
	s := nurbs.New()
	flat := make([]vec3.T, 6)
	for i := range flat {
		flat[i] = vec3.T{float64(i), 0, 0}
	}
	require.NoError(t, s.SetControlPoints(flat, 3, 2))
	assert.Equal(t, 3, s.NumControlPointsU())
	assert.Equal(t, 2, s.NumControlPointsV())

	grid := s.ControlPoints()
	rows := s.ControlPointRows()
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			assert.Equal(t, flat[i+j*3], rows[i][j])
			assert.Equal(t, flat[i+j*3], grid.At(i, j))
		}
	}

	grid.Set(0, 0, vec3.T{9, 9, 9})
	assert.Equal(t, vec3.T{0, 0, 0}, s.ControlPointRows()[0][0])

	assert.True(t, errors.Is(s.SetControlPoints(flat, 4, 2), nurbs.ErrConfig))
	assert.Equal(t, 3, s.NumControlPointsU())
}

func TestSetControlPointRowsFillsUnitWeights(t *testing.T) {
	s := nurbs.New()
	require.NoError(t, s.SetControlPointRows(curvedRows()))
	assert.Equal(t, 20, len(s.Weights()))
	assert.Equal(t, curvedRows(), s.ControlPointRows())

	grid := s.ControlPoints()
	assert.Equal(t, curvedRows()[3][1], grid.Flat()[3+1*5])
}

func TestDomain(t *testing.T) {
	s := planarBicubic(t)

	for _, uv := range [][2]float64{{-0.1, 0.5}, {0.5, 1.01}, {math.NaN(), 0.5}} {
		_, err := s.Point(uv[0], uv[1])
		assert.True(t, errors.Is(err, nurbs.ErrDomain), "uv %v", uv)
		_, err = s.Derivatives(uv[0], uv[1], 1)
		assert.True(t, errors.Is(err, nurbs.ErrDomain), "uv %v", uv)
		_, err = s.TangentU(uv[0], uv[1])
		assert.True(t, errors.Is(err, nurbs.ErrDomain), "uv %v", uv)
	}

	for _, uv := range [][2]float64{{0, 0.5}, {0.005, 0.5}, {0.5, 0.995}, {1, 1}} {
		_, err := s.Normal(uv[0], uv[1])
		assert.True(t, errors.Is(err, nurbs.ErrDomain), "uv %v", uv)

		_, err = s.Point(uv[0], uv[1])
		assert.NoError(t, err, "uv %v", uv)
	}

	_, err := s.Normal(0.02, 0.98)
	assert.NoError(t, err)

	_, err = s.Derivatives(0.5, 0.5, -1)
	assert.True(t, errors.Is(err, nurbs.ErrDomain))
}

func TestTranspose(t *testing.T) {
	s := curvedRational(t)
	require.NoError(t, s.SetDelta(0.05))
	before, err := s.Evaluate()
	require.NoError(t, err)

	require.NoError(t, s.Transpose())
	assert.Equal(t, 2, s.DegreeU())
	assert.Equal(t, 3, s.DegreeV())
	assert.Equal(t, 4, s.NumControlPointsU())
	assert.Equal(t, 5, s.NumControlPointsV())

	ref := curvedRational(t)
	for _, uv := range [][2]float64{{0, 0}, {0.2, 0.7}, {0.5, 0.5}, {0.93, 0.11}, {1, 1}} {
		want, err := ref.Point(uv[0], uv[1])
		require.NoError(t, err)
		got, err := s.Point(uv[1], uv[0])
		require.NoError(t, err)
		assertVecInDelta(t, want, got, 1e-9, "uv %v", uv)
	}

	require.NoError(t, s.Transpose())
	after, err := s.Evaluate()
	require.NoError(t, err)

	require.Equal(t, before.Len(), after.Len())
	for i, pt := range before.Flat() {
		assertVecInDelta(t, pt, after.Flat()[i], 1e-12)
	}
	assert.Equal(t, ref.Weights(), s.Weights())
	assert.Equal(t, ref.ControlPointRows(), s.ControlPointRows())
}

func TestTransposeRequiresConfiguration(t *testing.T) {
	s := nurbs.New()
	require.NoError(t, s.SetDegreeU(2))
	assert.True(t, errors.Is(s.Transpose(), nurbs.ErrConfig))
	assert.Equal(t, 2, s.DegreeU())
}

func TestIsClamped(t *testing.T) {
	assert.True(t, planarBicubic(t).IsClamped())
	assert.True(t, curved(t).IsClamped())

	s := curved(t)
	require.NoError(t, s.SetKnotsU([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8}))
	assert.False(t, s.IsClamped())
}

func TestControlBounds(t *testing.T) {
	bb := planarBicubic(t).ControlBounds()
	assert.Equal(t, vec3.T{0, 0, 0}, bb.Min)
	assert.Equal(t, vec3.T{3, 3, 0}, bb.Max)
	assert.True(t, geom.Equal(bb.Center(), vec3.T{1.5, 1.5, 0}, geom.DefaultTolerance))
}

func TestTransformTranslates(t *testing.T) {
	s := curvedRational(t)
	ref := curvedRational(t)
	require.NoError(t, s.SetDelta(0.5))
	before, err := s.Points()
	require.NoError(t, err)

	offset := vec3.T{1, -2, 3}
	mat := mat4.Ident
	mat.SetTranslation(&offset)
	s.Transform(&mat)

	after, err := s.Points()
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Equal(t, ref.Weights(), s.Weights())

	for _, uv := range [][2]float64{{0, 0}, {0.3, 0.6}, {1, 0.5}} {
		want, err := ref.Point(uv[0], uv[1])
		require.NoError(t, err)
		got, err := s.Point(uv[0], uv[1])
		require.NoError(t, err)
		assertVecInDelta(t, geom.Add(want, offset), got, 1e-12, "uv %v", uv)
	}
}
