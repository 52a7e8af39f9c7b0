package nurbs

import "errors"

var (
	// ErrConfig marks a surface that is missing or has inconsistent configuration
	// (degree, knots, control points, weights, delta).
	ErrConfig = errors.New("nurbs: invalid configuration")

	// ErrDomain marks parameters outside the evaluable domain.
	ErrDomain = errors.New("nurbs: parameter out of domain")

	// ErrDegenerate marks a point whose tangents are parallel, so no unit normal exists.
	ErrDegenerate = errors.New("nurbs: degenerate normal")
)
