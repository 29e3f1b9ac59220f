package posegraph

import (
	"gonum.org/v1/gonum/mat"

	"github.com/robovis/geom/spatialmath"
)

// Sim3Constraint lifts the relative-pose residual to the 7-DoF similarity
// group, for loop closures where the two pose estimates disagree in scale.
// No closed-form Jacobians are supplied; both use the finite-difference
// default. Since the update is an exponential left-multiplication, the scale
// of a pose stays strictly positive through any sequence of updates.
type Sim3Constraint struct{}

// NewSim3Constraint creates the similarity constraint.
func NewSim3Constraint() *Sim3Constraint {
	return &Sim3Constraint{}
}

// DoF returns the tangent dimension of Sim3.
func (f *Sim3Constraint) DoF() int {
	return 7
}

// Diff computes the Sim3 log-map residual of the edge.
func (f *Sim3Constraint) Diff(t1, c, t2 spatialmath.Sim3) []float64 {
	return spatialmath.LogSim3(c.Mul(t1).Mul(t2.Inverse()))
}

// DiffJacobianT1 uses the finite-difference default.
func (f *Sim3Constraint) DiffJacobianT1(t1, c, t2 spatialmath.Sim3) *mat.Dense {
	return NumericalDiffJacobianT1[spatialmath.Sim3](f, t1, c, t2)
}

// DiffJacobianT2 uses the finite-difference default.
func (f *Sim3Constraint) DiffJacobianT2(t1, c, t2 spatialmath.Sim3) *mat.Dense {
	return NumericalDiffJacobianT2[spatialmath.Sim3](f, t1, c, t2)
}

// Add left-multiplies the pose by the exponential of the increment.
func (f *Sim3Constraint) Add(t spatialmath.Sim3, delta []float64) spatialmath.Sim3 {
	return spatialmath.ExpSim3(delta).Mul(t)
}
