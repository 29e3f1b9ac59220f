// Package posegraph implements relative-pose constraint functions for pose
// graph optimization: the log-map residual between two absolute poses and a
// measured relative transform, and the residual's Jacobians with respect to
// manifold perturbations of either pose. All functions are pure and safe for
// concurrent use.
package posegraph

import "gonum.org/v1/gonum/mat"

// JacobianStep is the perturbation used by the one-sided finite-difference
// Jacobian fallback, mirroring the step used by the prediction models.
const JacobianStep = 1e-12

// Constraint expresses the residual of a relative-pose edge over a
// transformation group T (SE3 or Sim3) and differentiates it. The residual
// of an edge (T1, C, T2) is the logarithm of (C*T1)*T2^-1 and vanishes when
// the measured relative transform C exactly explains the two absolute poses.
type Constraint[T any] interface {
	// Diff computes the DoF-sized residual of the edge.
	Diff(t1, c, t2 T) []float64

	// DiffJacobianT1 is the DoF x DoF derivative of Diff with respect to a
	// perturbation of T1, valid only at the given operating point.
	DiffJacobianT1(t1, c, t2 T) *mat.Dense

	// DiffJacobianT2 is the DoF x DoF derivative of Diff with respect to a
	// perturbation of T2.
	DiffJacobianT2(t1, c, t2 T) *mat.Dense

	// Add applies a manifold increment to a pose.
	Add(t T, delta []float64) T

	// DoF is the tangent-space dimension of the transformation group.
	DoF() int
}

// NumericalDiffJacobianT1 differentiates f.Diff with respect to T1 by
// one-sided finite differences, perturbing one tangent direction at a time.
func NumericalDiffJacobianT1[T any](f Constraint[T], t1, c, t2 T) *mat.Dense {
	dof := f.DoF()
	jac := mat.NewDense(dof, dof, nil)
	base := f.Diff(t1, c, t2)
	for i := 0; i < dof; i++ {
		eps := make([]float64, dof)
		eps[i] = JacobianStep
		shifted := f.Diff(f.Add(t1, eps), c, t2)
		for row := 0; row < dof; row++ {
			jac.Set(row, i, (shifted[row]-base[row])/JacobianStep)
		}
	}
	return jac
}

// NumericalDiffJacobianT2 differentiates f.Diff with respect to T2 by
// one-sided finite differences.
func NumericalDiffJacobianT2[T any](f Constraint[T], t1, c, t2 T) *mat.Dense {
	dof := f.DoF()
	jac := mat.NewDense(dof, dof, nil)
	base := f.Diff(t1, c, t2)
	for i := 0; i < dof; i++ {
		eps := make([]float64, dof)
		eps[i] = JacobianStep
		shifted := f.Diff(t1, c, f.Add(t2, eps))
		for row := 0; row < dof; row++ {
			jac.Set(row, i, (shifted[row]-base[row])/JacobianStep)
		}
	}
	return jac
}
