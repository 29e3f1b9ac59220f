package spatialmath

import (
	"math"

	"github.com/golang/geo/r2"
)

// SE2 is a rigid transformation in the plane, a rotation by theta followed
// by a translation. Immutable value type; the zero value is the identity.
type SE2 struct {
	theta float64
	t     r2.Point
}

// NewSE2 creates an SE2 from a rotation angle in radians and a translation.
func NewSE2(theta float64, t r2.Point) SE2 {
	return SE2{theta: theta, t: t}
}

// NewSE2Identity returns the identity transformation.
func NewSE2Identity() SE2 {
	return SE2{}
}

// Theta returns the rotation angle in radians.
func (p SE2) Theta() float64 {
	return p.theta
}

// Translation returns the translation component.
func (p SE2) Translation() r2.Point {
	return p.t
}

// Mul composes two transformations, p * other.
func (p SE2) Mul(other SE2) SE2 {
	return SE2{
		theta: p.theta + other.theta,
		t:     rotate(p.theta, other.t).Add(p.t),
	}
}

// Inverse returns the inverse transformation.
func (p SE2) Inverse() SE2 {
	return SE2{theta: -p.theta, t: rotate(-p.theta, p.t).Mul(-1)}
}

// Transform applies the transformation to a point, R*v + t.
func (p SE2) Transform(v r2.Point) r2.Point {
	return rotate(p.theta, v).Add(p.t)
}

// ExpSE2 is the exponential map of SE2. The tangent vector is
// (tx, ty, theta); the translation passes through the 2D V(theta) matrix so
// that exp traces out a circular arc.
func ExpSE2(tangent []float64) SE2 {
	theta := tangent[2]

	// V = [a -b; b a] with a = sin(theta)/theta, b = (1-cos(theta))/theta
	a := 1 - theta*theta/6
	b := theta/2 - theta*theta*theta/24
	if math.Abs(theta) > 1e-6 {
		a = math.Sin(theta) / theta
		b = (1 - math.Cos(theta)) / theta
	}
	return SE2{
		theta: theta,
		t: r2.Point{
			X: a*tangent[0] - b*tangent[1],
			Y: b*tangent[0] + a*tangent[1],
		},
	}
}

// LogSE2 is the logarithmic map of SE2, the inverse of ExpSE2, returning
// (tx, ty, theta).
func LogSE2(p SE2) []float64 {
	theta := p.theta

	a := 1 - theta*theta/6
	b := theta/2 - theta*theta*theta/24
	if math.Abs(theta) > 1e-6 {
		a = math.Sin(theta) / theta
		b = (1 - math.Cos(theta)) / theta
	}
	den := a*a + b*b
	return []float64{
		(a*p.t.X + b*p.t.Y) / den,
		(-b*p.t.X + a*p.t.Y) / den,
		theta,
	}
}

func rotate(theta float64, v r2.Point) r2.Point {
	c, s := math.Cos(theta), math.Sin(theta)
	return r2.Point{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y}
}
