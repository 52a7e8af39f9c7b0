// Package geom holds the point and vector primitives used by the surface evaluator.
//
// Both Point3 and Vector3 are plain go3d vectors, so values flow directly into
// go3d routines. Comparisons always take the tolerance as an argument.
package geom

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
	"gonum.org/v1/gonum/floats/scalar"
)

// DefaultTolerance is the absolute tolerance historically used for point equality.
const DefaultTolerance = 1e-4

type (
	Point3  = vec3.T
	Vector3 = vec3.T
)

// NewVector returns the vector pointing from start to end.
func NewVector(start, end Point3) Vector3 {
	return vec3.Sub(&end, &start)
}

// VectorTo returns the vector from the origin to end.
func VectorTo(end Point3) Vector3 {
	return end
}

func Component(v Vector3, i int) float64 {
	return v[i]
}

func SetComponent(v *Vector3, i int, value float64) {
	v[i] = value
}

func Add(a, b Vector3) Vector3 {
	return vec3.Add(&a, &b)
}

func Sub(a, b Vector3) Vector3 {
	return vec3.Sub(&a, &b)
}

// Mul multiplies component by component.
func Mul(a, b Vector3) Vector3 {
	return Vector3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Div divides component by component. Zero components in b are the caller's problem.
func Div(a, b Vector3) Vector3 {
	return Vector3{a[0] / b[0], a[1] / b[1], a[2] / b[2]}
}

func Scale(v Vector3, f float64) Vector3 {
	return v.Scaled(f)
}

func DivScalar(v Vector3, f float64) Vector3 {
	return v.Scaled(1 / f)
}

func Dot(a, b Vector3) float64 {
	return vec3.Dot(&a, &b)
}

func Cross(a, b Vector3) Vector3 {
	return vec3.Cross(&a, &b)
}

func Magnitude(v Vector3) float64 {
	return v.Length()
}

func Distance(a, b Point3) float64 {
	return vec3.Distance(&a, &b)
}

// Normalize returns a unit length copy of v. The zero vector normalizes to itself.
func Normalize(v Vector3) Vector3 {
	l := v.Length()
	if l == 0 {
		return Vector3{}
	}
	return v.Scaled(1 / l)
}

// Equal reports whether every component of a and b differs by at most tol.
func Equal(a, b Vector3, tol float64) bool {
	for i := range a {
		if !scalar.EqualWithinAbs(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

// IsZero reports whether the magnitude of v is within tol of zero.
func IsZero(v Vector3, tol float64) bool {
	return scalar.EqualWithinAbs(v.Length(), 0, tol)
}

// Parallel reports whether a and b point the same way. The sine of the angle
// between them must be within tol; zero vectors are never parallel.
func Parallel(a, b Vector3, tol float64) bool {
	s, ok := sine(a, b)
	return ok && s <= tol && Dot(a, b) > 0
}

// Antiparallel reports whether a and b point in opposite directions.
func Antiparallel(a, b Vector3, tol float64) bool {
	s, ok := sine(a, b)
	return ok && s <= tol && Dot(a, b) < 0
}

func sine(a, b Vector3) (float64, bool) {
	la, lb := a.Length(), b.Length()
	if la == 0 || lb == 0 {
		return 0, false
	}
	c := Cross(a, b)
	return math.Abs(c.Length() / (la * lb)), true
}
