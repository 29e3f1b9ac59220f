package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Sim3 is a similarity transformation in 3D: a rotation, a translation and a
// strictly positive uniform scale. Immutable value type; the zero value is
// not valid, use NewSim3Identity.
type Sim3 struct {
	rot   RotationMatrix
	t     r3.Vector
	scale float64
}

// NewSim3 creates a Sim3 from a rotation, translation and scale. The scale
// must be strictly positive.
func NewSim3(rot RotationMatrix, t r3.Vector, scale float64) (Sim3, error) {
	if scale <= 0 {
		return Sim3{}, errors.Errorf("similarity scale must be positive, got %f", scale)
	}
	return Sim3{rot: rot, t: t, scale: scale}, nil
}

// NewSim3Identity returns the identity transformation.
func NewSim3Identity() Sim3 {
	return Sim3{rot: NewIdentityRotationMatrix(), scale: 1}
}

// Rotation returns the rotation component.
func (p Sim3) Rotation() RotationMatrix {
	return p.rot
}

// Translation returns the translation component.
func (p Sim3) Translation() r3.Vector {
	return p.t
}

// Scale returns the scale component.
func (p Sim3) Scale() float64 {
	return p.scale
}

// Mul composes two transformations, p * other.
func (p Sim3) Mul(other Sim3) Sim3 {
	return Sim3{
		rot:   p.rot.Mul(other.rot),
		t:     p.rot.MulVec(other.t).Mul(p.scale).Add(p.t),
		scale: p.scale * other.scale,
	}
}

// Inverse returns the inverse transformation.
func (p Sim3) Inverse() Sim3 {
	rt := p.rot.Transpose()
	return Sim3{
		rot:   rt,
		t:     rt.MulVec(p.t).Mul(-1 / p.scale),
		scale: 1 / p.scale,
	}
}

// Transform applies the transformation to a point, s*R*v + t.
func (p Sim3) Transform(v r3.Vector) r3.Vector {
	return p.rot.MulVec(v).Mul(p.scale).Add(p.t)
}

// ExpSim3 is the exponential map of Sim3. The tangent vector is ordered
// (tx, ty, tz, wx, wy, wz, sigma) with scale = e^sigma, so any exponential
// update keeps the scale strictly positive.
func ExpSim3(tangent []float64) Sim3 {
	u := r3.Vector{X: tangent[0], Y: tangent[1], Z: tangent[2]}
	omega := r3.Vector{X: tangent[3], Y: tangent[4], Z: tangent[5]}
	sigma := tangent[6]
	scale := math.Exp(sigma)
	theta := omega.Norm()

	w := calcW(theta, sigma, scale, Skew(omega))
	return Sim3{
		rot:   ExpSO3(omega),
		t:     mulDenseVec(w, u),
		scale: scale,
	}
}

// LogSim3 is the logarithmic map of Sim3, the inverse of ExpSim3, returning
// (tx, ty, tz, wx, wy, wz, sigma). The translation part solves t = W*u by
// inverting W.
func LogSim3(p Sim3) []float64 {
	sigma := math.Log(p.scale)
	omega := LogSO3(p.rot)
	theta := omega.Norm()

	w := calcW(theta, sigma, p.scale, Skew(omega))
	var wInv mat.Dense
	if err := wInv.Inverse(w); err != nil {
		// W is a perturbation of the identity and only loses rank for
		// rotation angles far beyond the injectivity radius of the log
		u := r3.Vector{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}
		return []float64{u.X, u.Y, u.Z, omega.X, omega.Y, omega.Z, sigma}
	}
	u := mulDenseVec(&wInv, p.t)
	return []float64{u.X, u.Y, u.Z, omega.X, omega.Y, omega.Z, sigma}
}

// calcW builds W = C*I + A*Omega + B*Omega^2, the similarity analogue of the
// SE3 V matrix, with Taylor branches as the rotation angle and the log-scale
// sigma approach zero. At sigma = 0 it reduces to V.
func calcW(theta, sigma, scale float64, omega *mat.Dense) *mat.Dense {
	const epsilon = 1e-5

	var a, b, c float64
	switch {
	case math.Abs(sigma) < epsilon && theta < epsilon:
		c = 1
		a = 0.5
		b = 1.0 / 6.0
	case math.Abs(sigma) < epsilon:
		c = 1
		a = (1 - math.Cos(theta)) / (theta * theta)
		b = (theta - math.Sin(theta)) / (theta * theta * theta)
	case theta < epsilon:
		c = (scale - 1) / sigma
		a = ((sigma-1)*scale + 1) / (sigma * sigma)
		b = ((0.5*sigma*sigma-sigma+1)*scale - 1) / (sigma * sigma * sigma)
	default:
		c = (scale - 1) / sigma
		sn := scale * math.Sin(theta)
		cs := scale * math.Cos(theta)
		denom := theta*theta + sigma*sigma
		a = (sn*sigma + (1-cs)*theta) / (theta * denom)
		b = (c - ((cs-1)*sigma+sn*theta)/denom) / (theta * theta)
	}

	var omega2, w mat.Dense
	omega2.Mul(omega, omega)
	w.Scale(a, omega)
	var b2 mat.Dense
	b2.Scale(b, &omega2)
	w.Add(&w, &b2)
	var cI mat.Dense
	cI.Scale(c, identity3())
	w.Add(&w, &cI)
	return &w
}
