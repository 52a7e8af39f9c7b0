// Package bbox provides axis-aligned bounding boxes for control nets and
// evaluated surface grids.
package bbox

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

const Tolerance = 1e-4

// The zero value for BoundingBox is ready to use
type BoundingBox struct {
	Min, Max    vec3.T
	initialized bool
}

// Adds a point to the bounding box, expanding the bounding box if the point is outside of it.
// If the bounding box is not initialized, this method has that side effect.
//
// **params**
// + the point to include
//
// **returns**
// + This BoundingBox for chaining
func (this *BoundingBox) Add(point *vec3.T) *BoundingBox {
	if !this.initialized {
		this.Min, this.Max = *point, *point
		this.initialized = true

		return this
	}

	for i, val := range point {
		this.Max[i] = math.Max(this.Max[i], val)
		this.Min[i] = math.Min(this.Min[i], val)
	}

	return this
}

func (this *BoundingBox) AddRange(points []vec3.T) *BoundingBox {
	for i := range points {
		this.Add(&points[i])
	}

	return this
}

// Empty reports whether no point has been added yet.
func (this *BoundingBox) Empty() bool {
	return !this.initialized
}

// Determines if point is contained in the bounding box
//
// **params**
// + the point
// + the tolerance, negative values select Tolerance
//
// **returns**
// + true if the point lies inside the box grown by tol
func (this *BoundingBox) Contains(point *vec3.T, tol float64) bool {
	if !this.initialized {
		return false
	}

	return this.Intersects(new(BoundingBox).Add(point), tol)
}

// Determines if this bounding box intersects with another
//
// **params**
// + BoundingBox to check for intersection with this one
// + the tolerance, negative values select Tolerance
//
// **returns**
// +  true if the two bounding boxes intersect, otherwise false
func (this *BoundingBox) Intersects(bb *BoundingBox, tol float64) bool {
	if !this.initialized || !bb.initialized {
		return false
	}
	if tol < 0 {
		tol = Tolerance
	}

	for i := range this.Min {
		if this.Min[i]-tol > bb.Max[i] || bb.Min[i]-tol > this.Max[i] {
			return false
		}
	}

	return true
}

func (this *BoundingBox) Size() vec3.T {
	if !this.initialized {
		return vec3.T{}
	}
	return vec3.Sub(&this.Max, &this.Min)
}

func (this *BoundingBox) Center() vec3.T {
	if !this.initialized {
		return vec3.T{}
	}
	return vec3.Interpolate(&this.Min, &this.Max, 0.5)
}

// Get longest axis of bounding box
//
// **returns**
// + Index of longest axis
func (this *BoundingBox) LongestAxis() int {
	id, max := 0, 0.0

	for i := range this.Min {
		l := this.AxisLength(i)
		if l > max {
			max = l
			id = i
		}
	}

	return id
}

// AxisLength returns the extent along axis i, or 0 for an axis outside 0..2.
func (this *BoundingBox) AxisLength(i int) float64 {
	if i < 0 || i > len(this.Min)-1 {
		return 0
	}
	return math.Abs(this.Min[i] - this.Max[i])
}
