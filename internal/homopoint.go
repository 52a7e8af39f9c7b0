package internal

import "github.com/ungerik/go3d/float64/vec3"

// HomoPoint is a control point in homogeneous space: (w*x, w*y, w*z, w).
type HomoPoint struct {
	Vec3 vec3.T
	W    float64
}

func (this *HomoPoint) Add(pt *HomoPoint) *HomoPoint {
	this.Vec3.Add(&pt.Vec3)
	this.W += pt.W

	return this
}

func (this *HomoPoint) Scale(scale float64) *HomoPoint {
	this.Vec3.Scale(scale)
	this.W *= scale

	return this
}

func (this HomoPoint) Scaled(scale float64) HomoPoint {
	return HomoPoint{this.Vec3.Scaled(scale), this.W * scale}
}

func Homogenized(pt vec3.T, w float64) HomoPoint {
	return HomoPoint{pt.Scaled(w), w}
}

// Dehomogenize a point
//
// **params**
// + a point represented by an array (wi*pi, wi) with length (dim+1)
//
// **returns**
// + a point represented by an array pi with length (dim)
func (this *HomoPoint) Dehomogenized() vec3.T {
	return this.Vec3.Scaled(1 / this.W)
}
