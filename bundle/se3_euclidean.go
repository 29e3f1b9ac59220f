package bundle

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/robovis/geom/camera"
	"github.com/robovis/geom/spatialmath"
)

// se3Frame supplies the pose operations shared by all models that observe
// from a rigid 3D sensor frame: exponential left-multiplicative updates and
// the translation-first tangent layout.
type se3Frame struct{}

func (se3Frame) AddFrame(pose spatialmath.SE3, delta []float64) spatialmath.SE3 {
	return spatialmath.ExpSE3(delta).Mul(pose)
}

func (se3Frame) RotationSlice() (int, int) {
	return 3, 3
}

func (se3Frame) TranslationSlice() (int, int) {
	return 0, 3
}

// SE3XYZ predicts the pixel observation of a Euclidean XYZ landmark seen
// from an SE3 camera frame, with analytic Jacobians of the projective
// mapping (following Eade's derivation).
type SE3XYZ struct {
	se3Frame
	cam *camera.Pinhole
}

// NewSE3XYZ creates the model around a pinhole camera.
func NewSE3XYZ(cam *camera.Pinhole) *SE3XYZ {
	return &SE3XYZ{cam: cam}
}

// Dims reports 6 pose DoF, a 3-parameter/3-DoF point and a 2D observation.
func (m *SE3XYZ) Dims() Dims {
	return Dims{FrameDoF: 6, PointParams: 3, PointDoF: 3, ObsDim: 2}
}

// Map transforms the point into the camera frame and projects it. The point
// must have positive depth in the camera frame; otherwise the result is
// non-finite.
func (m *SE3XYZ) Map(pose spatialmath.SE3, point []float64) []float64 {
	p := pose.Transform(r3.Vector{X: point[0], Y: point[1], Z: point[2]})
	px := m.cam.Project(r2.Point{X: p.X / p.Z, Y: p.Y / p.Z})
	return []float64{px.X, px.Y}
}

// FrameJacobian is the analytic 2x6 derivative of Map with respect to a pose
// perturbation, columns ordered translation then rotation.
func (m *SE3XYZ) FrameJacobian(pose spatialmath.SE3, point []float64) *mat.Dense {
	p := pose.Transform(r3.Vector{X: point[0], Y: point[1], Z: point[2]})
	x, y, z := p.X, p.Y, p.Z
	z2 := z * z

	jProj := mat.NewDense(2, 6, []float64{
		1 / z, 0, -x / z2, -x * y / z2, 1 + x*x/z2, -y / z,
		0, 1 / z, -y / z2, -(1 + y*y/z2), x * y / z2, x / z,
	})
	var jac mat.Dense
	jac.Mul(m.cam.Jacobian(), jProj)
	return &jac
}

// PointJacobian is the analytic 2x3 derivative of Map with respect to the
// point.
func (m *SE3XYZ) PointJacobian(pose spatialmath.SE3, point []float64) *mat.Dense {
	p := pose.Transform(r3.Vector{X: point[0], Y: point[1], Z: point[2]})
	x, y, z := p.X, p.Y, p.Z

	tmp := mat.NewDense(2, 3, []float64{
		1, 0, -x / z,
		0, 1, -y / z,
	})
	var jPoint, jac mat.Dense
	jPoint.Mul(tmp, pose.Rotation().Dense())
	jPoint.Scale(1/z, &jPoint)
	jac.Mul(m.cam.Jacobian(), &jPoint)
	return &jac
}

// AddPoint is plain vector addition for the Euclidean parametrization.
func (m *SE3XYZ) AddPoint(point, delta []float64) []float64 {
	return addVectors(point, delta)
}
