package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/robovis/geom/utils"
)

// SE3 is a rigid transformation in 3D, a rotation followed by a translation.
// It is an immutable value type; all operations return new values. The zero
// value is not a valid transformation, use NewSE3Identity.
type SE3 struct {
	rot RotationMatrix
	t   r3.Vector
}

// NewSE3 creates an SE3 from a rotation and a translation.
func NewSE3(rot RotationMatrix, t r3.Vector) SE3 {
	return SE3{rot: rot, t: t}
}

// NewSE3Identity returns the identity transformation.
func NewSE3Identity() SE3 {
	return SE3{rot: NewIdentityRotationMatrix()}
}

// Rotation returns the rotation component.
func (p SE3) Rotation() RotationMatrix {
	return p.rot
}

// Translation returns the translation component.
func (p SE3) Translation() r3.Vector {
	return p.t
}

// Mul composes two transformations, p * other.
func (p SE3) Mul(other SE3) SE3 {
	return SE3{
		rot: p.rot.Mul(other.rot),
		t:   p.rot.MulVec(other.t).Add(p.t),
	}
}

// Inverse returns the inverse transformation.
func (p SE3) Inverse() SE3 {
	rt := p.rot.Transpose()
	return SE3{rot: rt, t: rt.MulVec(p.t).Mul(-1)}
}

// Transform applies the transformation to a point, R*v + t.
func (p SE3) Transform(v r3.Vector) r3.Vector {
	return p.rot.MulVec(v).Add(p.t)
}

// AlmostEqual returns whether the two transformations are within epsilon of
// each other elementwise.
func (p SE3) AlmostEqual(other SE3, epsilon float64) bool {
	return p.rot.AlmostEqual(other.rot, epsilon) &&
		utils.Float64AlmostEqual(p.t.X, other.t.X, epsilon) &&
		utils.Float64AlmostEqual(p.t.Y, other.t.Y, epsilon) &&
		utils.Float64AlmostEqual(p.t.Z, other.t.Z, epsilon)
}

// Mat4 returns the transformation as a homogeneous 4x4 matrix.
func (p SE3) Mat4() mgl64.Mat4 {
	m := mgl64.Ident4()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, p.rot.At(i, j))
		}
	}
	m.Set(0, 3, p.t.X)
	m.Set(1, 3, p.t.Y)
	m.Set(2, 3, p.t.Z)
	return m
}

// NewSE3FromMat4 extracts the rigid transformation from the upper 3x4 block
// of a homogeneous matrix.
func NewSE3FromMat4(m mgl64.Mat4) SE3 {
	var rot RotationMatrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rot.mat[3*i+j] = m.At(i, j)
		}
	}
	return SE3{rot: rot, t: r3.Vector{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)}}
}

// ExpSE3 is the exponential map of SE3. The tangent vector is ordered
// translation first, (tx, ty, tz, wx, wy, wz), matching the perturbation
// layout used by incremental updates.
func ExpSE3(tangent []float64) SE3 {
	u := r3.Vector{X: tangent[0], Y: tangent[1], Z: tangent[2]}
	omega := r3.Vector{X: tangent[3], Y: tangent[4], Z: tangent[5]}
	theta := omega.Norm()

	// V = I + A*Omega + B*Omega^2 couples the rotation into the translation
	a := 0.5 - theta*theta/24
	b := 1.0/6.0 - theta*theta/120
	if theta > 1e-6 {
		a = (1 - math.Cos(theta)) / (theta * theta)
		b = (theta - math.Sin(theta)) / (theta * theta * theta)
	}
	var omega2 mat.Dense
	om := Skew(omega)
	omega2.Mul(om, om)
	t := u
	t = t.Add(mulDenseVec(om, u).Mul(a))
	t = t.Add(mulDenseVec(&omega2, u).Mul(b))

	return SE3{rot: ExpSO3(omega), t: t}
}

// LogSE3 is the logarithmic map of SE3, the inverse of the exponential. The
// result is ordered rotation first, (wx, wy, wz, vx, vy, vz), the ordering
// residual vectors carry. The translation part is Vinv * t.
func LogSE3(p SE3) []float64 {
	omega, vInv := logRotationAndVInv(p.rot)
	v := mulDenseVec(vInv, p.t)
	return []float64{omega.X, omega.Y, omega.Z, v.X, v.Y, v.Z}
}

// LogSO3xR3 is the logarithm under the decoupled rotation-translation
// product group: the rotation logarithm concatenated with the raw
// translation, with no Vinv coupling.
func LogSO3xR3(p SE3) []float64 {
	omega := LogSO3(p.rot)
	return []float64{omega.X, omega.Y, omega.Z, p.t.X, p.t.Y, p.t.Z}
}

// logRotationAndVInv computes the rotation logarithm omega together with
// Vinv = I - Omega/2 + c*Omega^2, the inverse Jacobian of the exponential,
// sharing the near-identity branch between the two. The coefficient c is
// 1/12 in the Taylor branch and (1 - theta/(2*tan(theta/2)))/theta^2
// otherwise.
func logRotationAndVInv(r RotationMatrix) (r3.Vector, *mat.Dense) {
	d := 0.5 * (r.Trace() - 1)

	var omega r3.Vector
	var c float64
	if d > singularityThreshold {
		omega = deltaR(r).Mul(0.5)
		c = 1.0 / 12.0
	} else {
		theta := math.Acos(d)
		omega = deltaR(r).Mul(theta / (2 * math.Sqrt(1-d*d)))
		c = (1 - theta/(2*math.Tan(theta/2))) / (theta * theta)
	}

	om := Skew(omega)
	var omega2 mat.Dense
	omega2.Mul(om, om)
	vInv := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
	var half, sq mat.Dense
	half.Scale(0.5, om)
	sq.Scale(c, &omega2)
	vInv.Sub(vInv, &half)
	vInv.Add(vInv, &sq)
	return omega, vInv
}

// mulDenseVec multiplies a 3x3 dense matrix with a 3 vector.
func mulDenseVec(m *mat.Dense, v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z,
		Y: m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z,
		Z: m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z,
	}
}
