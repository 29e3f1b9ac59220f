// Package bundle implements the measurement models consumed by bundle
// adjustment: prediction functions that map a pose and a point
// parametrization to an image observation, their Jacobians with respect to
// manifold perturbations, and the observation records tying measurements to
// pose/point ids. The package owns no optimizer state; everything here is a
// pure function of its arguments and safe for concurrent use.
package bundle

import (
	"gonum.org/v1/gonum/mat"
)

// JacobianStep is the perturbation used by the one-sided finite-difference
// Jacobians. It trades truncation error against rounding noise; analytic
// overrides are expected to agree with the numerical result only down to
// roughly the rounding floor of this step.
const JacobianStep = 1e-12

// Dims describes the fixed dimensions of a prediction model.
type Dims struct {
	// FrameDoF is the dimension of a pose perturbation.
	FrameDoF int
	// PointParams is the length of the stored point vector.
	PointParams int
	// PointDoF is the dimension of a point perturbation.
	PointDoF int
	// ObsDim is the dimension of an observation.
	ObsDim int
}

// Prediction maps a pose of type F and a point parametrization to an
// observation, and differentiates that mapping. Implementations are
// stateless apart from read-only camera parameters; concrete models override
// the Jacobians with closed forms where available and otherwise fall back to
// NumericalFrameJacobian/NumericalPointJacobian.
type Prediction[F any] interface {
	// Map predicts the observation of point from the sensor frame pose.
	// Points at or behind the projection plane are a precondition
	// violation; the result for them is non-finite rather than an error.
	Map(pose F, point []float64) []float64

	// FrameJacobian is the ObsDim x FrameDoF derivative of Map with
	// respect to a perturbation of pose, evaluated at the given operating
	// point only.
	FrameJacobian(pose F, point []float64) *mat.Dense

	// PointJacobian is the ObsDim x PointDoF derivative of Map with
	// respect to a perturbation of point.
	PointJacobian(pose F, point []float64) *mat.Dense

	// AddFrame applies a manifold increment to pose, exp(delta)*pose for
	// group-valued frames.
	AddFrame(pose F, delta []float64) F

	// AddPoint applies an increment to the point parametrization.
	AddPoint(point, delta []float64) []float64

	// Dims reports the fixed dimensions of the model.
	Dims() Dims

	// RotationSlice reports which slice of a pose perturbation vector is
	// rotation, as a first index and count.
	RotationSlice() (int, int)

	// TranslationSlice reports which slice of a pose perturbation vector
	// is translation.
	TranslationSlice() (int, int)
}

// NumericalFrameJacobian differentiates m.Map with respect to the pose by
// one-sided finite differences, perturbing one tangent direction at a time.
func NumericalFrameJacobian[F any](m Prediction[F], pose F, point []float64) *mat.Dense {
	dims := m.Dims()
	jac := mat.NewDense(dims.ObsDim, dims.FrameDoF, nil)
	base := m.Map(pose, point)
	for i := 0; i < dims.FrameDoF; i++ {
		eps := make([]float64, dims.FrameDoF)
		eps[i] = JacobianStep
		shifted := m.Map(m.AddFrame(pose, eps), point)
		for row := 0; row < dims.ObsDim; row++ {
			jac.Set(row, i, (shifted[row]-base[row])/JacobianStep)
		}
	}
	return jac
}

// NumericalPointJacobian differentiates m.Map with respect to the point by
// one-sided finite differences.
func NumericalPointJacobian[F any](m Prediction[F], pose F, point []float64) *mat.Dense {
	dims := m.Dims()
	jac := mat.NewDense(dims.ObsDim, dims.PointDoF, nil)
	base := m.Map(pose, point)
	for i := 0; i < dims.PointDoF; i++ {
		eps := make([]float64, dims.PointDoF)
		eps[i] = JacobianStep
		shifted := m.Map(pose, m.AddPoint(point, eps))
		for row := 0; row < dims.ObsDim; row++ {
			jac.Set(row, i, (shifted[row]-base[row])/JacobianStep)
		}
	}
	return jac
}

// addVectors is the plain vector-space point update shared by the Euclidean
// and inverse-depth parametrizations.
func addVectors(point, delta []float64) []float64 {
	out := make([]float64, len(point))
	for i := range point {
		out[i] = point[i] + delta[i]
	}
	return out
}
