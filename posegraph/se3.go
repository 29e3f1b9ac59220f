package posegraph

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/robovis/geom/spatialmath"
)

// SE3Constraint is the rigid relative-pose constraint: the residual is the
// full SE3 logarithm of (C*T1)*T2^-1, rotation and translation coupled
// through Vinv, and both Jacobians are exact chain rules assembled from the
// closed-form derivative helpers in spatialmath.
type SE3Constraint struct{}

// NewSE3Constraint creates the coupled rigid constraint.
func NewSE3Constraint() *SE3Constraint {
	return &SE3Constraint{}
}

// DoF returns the tangent dimension of SE3.
func (f *SE3Constraint) DoF() int {
	return 6
}

// Diff computes the log-map residual of the edge.
func (f *SE3Constraint) Diff(t1, c, t2 spatialmath.SE3) []float64 {
	return spatialmath.LogSE3(c.Mul(t1).Mul(t2.Inverse()))
}

// DiffJacobianT1 chains, right to left, the embedding of the T1 perturbation
// into stacked matrix entries, the derivative of the composed difference,
// and the derivative of the SE3 logarithm, all evaluated at D = (C*T1)*T2^-1.
func (f *SE3Constraint) DiffJacobianT1(t1, c, t2 spatialmath.SE3) *mat.Dense {
	d := c.Mul(t1).Mul(t2.Inverse())

	var chain, jac mat.Dense
	chain.Mul(spatialmath.DLogTDT(d), spatialmath.DDiffDT1(c, t2))
	jac.Mul(&chain, spatialmath.DExpDelta(t1))
	return &jac
}

// DiffJacobianT2 is the analogous chain with respect to T2.
func (f *SE3Constraint) DiffJacobianT2(t1, c, t2 spatialmath.SE3) *mat.Dense {
	d := c.Mul(t1).Mul(t2.Inverse())

	var chain, jac mat.Dense
	chain.Mul(spatialmath.DLogTDT(d), spatialmath.DDiffDT2(t1, c, t2))
	jac.Mul(&chain, spatialmath.DExpDelta(t2))
	return &jac
}

// Add left-multiplies the pose by the exponential of the increment.
func (f *SE3Constraint) Add(t spatialmath.SE3, delta []float64) spatialmath.SE3 {
	return spatialmath.ExpSE3(delta).Mul(t)
}

// SO3xR3Constraint models rotation and translation as a decoupled product
// group: the residual is the rotation logarithm concatenated with the raw
// translation difference and the update rotates and translates
// independently, SO3(w)*R and t + dt. It is not algebraically equivalent to
// SE3Constraint. Jacobians use the finite-difference default.
type SO3xR3Constraint struct{}

// NewSO3xR3Constraint creates the decoupled product-group constraint.
func NewSO3xR3Constraint() *SO3xR3Constraint {
	return &SO3xR3Constraint{}
}

// DoF returns the tangent dimension of the product group.
func (f *SO3xR3Constraint) DoF() int {
	return 6
}

// Diff computes the decoupled residual of the edge.
func (f *SO3xR3Constraint) Diff(t1, c, t2 spatialmath.SE3) []float64 {
	return spatialmath.LogSO3xR3(c.Mul(t1).Mul(t2.Inverse()))
}

// DiffJacobianT1 uses the finite-difference default.
func (f *SO3xR3Constraint) DiffJacobianT1(t1, c, t2 spatialmath.SE3) *mat.Dense {
	return NumericalDiffJacobianT1[spatialmath.SE3](f, t1, c, t2)
}

// DiffJacobianT2 uses the finite-difference default.
func (f *SO3xR3Constraint) DiffJacobianT2(t1, c, t2 spatialmath.SE3) *mat.Dense {
	return NumericalDiffJacobianT2[spatialmath.SE3](f, t1, c, t2)
}

// Add updates rotation and translation independently.
func (f *SO3xR3Constraint) Add(t spatialmath.SE3, delta []float64) spatialmath.SE3 {
	omega := r3.Vector{X: delta[3], Y: delta[4], Z: delta[5]}
	rot := spatialmath.ExpSO3(omega).Mul(t.Rotation())
	trans := t.Translation().Add(r3.Vector{X: delta[0], Y: delta[1], Z: delta[2]})
	return spatialmath.NewSE3(rot, trans)
}

// SE3xSO3xR3Constraint keeps the decoupled rotation/translation residual of
// SO3xR3Constraint but applies updates as proper SE3 exponential
// left-multiplications. The two decoupled variants differ in their update
// geometry and must not be conflated.
type SE3xSO3xR3Constraint struct{}

// NewSE3xSO3xR3Constraint creates the decoupled-residual, SE3-update constraint.
func NewSE3xSO3xR3Constraint() *SE3xSO3xR3Constraint {
	return &SE3xSO3xR3Constraint{}
}

// DoF returns the tangent dimension of SE3.
func (f *SE3xSO3xR3Constraint) DoF() int {
	return 6
}

// Diff computes the decoupled residual of the edge.
func (f *SE3xSO3xR3Constraint) Diff(t1, c, t2 spatialmath.SE3) []float64 {
	return spatialmath.LogSO3xR3(c.Mul(t1).Mul(t2.Inverse()))
}

// DiffJacobianT1 uses the finite-difference default.
func (f *SE3xSO3xR3Constraint) DiffJacobianT1(t1, c, t2 spatialmath.SE3) *mat.Dense {
	return NumericalDiffJacobianT1[spatialmath.SE3](f, t1, c, t2)
}

// DiffJacobianT2 uses the finite-difference default.
func (f *SE3xSO3xR3Constraint) DiffJacobianT2(t1, c, t2 spatialmath.SE3) *mat.Dense {
	return NumericalDiffJacobianT2[spatialmath.SE3](f, t1, c, t2)
}

// Add left-multiplies the pose by the exponential of the increment.
func (f *SE3xSO3xR3Constraint) Add(t spatialmath.SE3, delta []float64) spatialmath.SE3 {
	return spatialmath.ExpSE3(delta).Mul(t)
}
