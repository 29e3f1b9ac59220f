package bundle

import (
	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"

	"github.com/robovis/geom/spatialmath"
)

// SE2XY predicts the 1D projective bearing of a planar XY landmark seen from
// an SE2 frame: the point is transformed into the sensor frame and projected
// to x'/y'. Points on the sensor baseline (y' = 0) are a precondition
// violation and produce a non-finite observation. There are no closed-form
// Jacobians; both fall back to the finite-difference default.
type SE2XY struct{}

// NewSE2XY creates the planar bearing-only model.
func NewSE2XY() *SE2XY {
	return &SE2XY{}
}

// Dims reports 3 pose DoF, a 2-parameter/2-DoF point and a 1D observation.
func (m *SE2XY) Dims() Dims {
	return Dims{FrameDoF: 3, PointParams: 2, PointDoF: 2, ObsDim: 1}
}

// Map transforms the point into the sensor frame and projects it to a single
// bearing coordinate.
func (m *SE2XY) Map(pose spatialmath.SE2, point []float64) []float64 {
	p := pose.Transform(r2.Point{X: point[0], Y: point[1]})
	return []float64{p.X / p.Y}
}

// FrameJacobian uses the finite-difference default.
func (m *SE2XY) FrameJacobian(pose spatialmath.SE2, point []float64) *mat.Dense {
	return NumericalFrameJacobian[spatialmath.SE2](m, pose, point)
}

// PointJacobian uses the finite-difference default.
func (m *SE2XY) PointJacobian(pose spatialmath.SE2, point []float64) *mat.Dense {
	return NumericalPointJacobian[spatialmath.SE2](m, pose, point)
}

// AddFrame left-multiplies the pose by the exponential of the increment.
func (m *SE2XY) AddFrame(pose spatialmath.SE2, delta []float64) spatialmath.SE2 {
	return spatialmath.ExpSE2(delta).Mul(pose)
}

// AddPoint is plain vector addition for the XY parametrization.
func (m *SE2XY) AddPoint(point, delta []float64) []float64 {
	return addVectors(point, delta)
}

// RotationSlice reports the single angular component of the tangent vector.
func (m *SE2XY) RotationSlice() (int, int) {
	return 2, 1
}

// TranslationSlice reports the two translational components of the tangent vector.
func (m *SE2XY) TranslationSlice() (int, int) {
	return 0, 2
}
