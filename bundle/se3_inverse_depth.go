package bundle

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/robovis/geom/camera"
	"github.com/robovis/geom/spatialmath"
)

// SE3UVQ predicts the pixel observation of a landmark stored in
// inverse-depth parametrization: bearing (u, v) plus inverse depth q,
// converted to the Euclidean point (u/q, v/q, 1/q) before projection. The
// parametrization stays well conditioned for distant points, but q = 0 is a
// singularity: callers must keep the inverse depth nonzero, the model does
// not guard it and the result is non-finite otherwise.
type SE3UVQ struct {
	se3Frame
	cam *camera.Pinhole
}

// NewSE3UVQ creates the model around a pinhole camera.
func NewSE3UVQ(cam *camera.Pinhole) *SE3UVQ {
	return &SE3UVQ{cam: cam}
}

// Dims reports 6 pose DoF, a 3-parameter/3-DoF point and a 2D observation.
func (m *SE3UVQ) Dims() Dims {
	return Dims{FrameDoF: 6, PointParams: 3, PointDoF: 3, ObsDim: 2}
}

// Map converts the inverse-depth point to Euclidean coordinates, transforms
// it into the camera frame and projects it.
func (m *SE3UVQ) Map(pose spatialmath.SE3, point []float64) []float64 {
	q := point[2]
	xyz := r3.Vector{X: point[0] / q, Y: point[1] / q, Z: 1 / q}
	p := pose.Transform(xyz)
	px := m.cam.Project(r2.Point{X: p.X / p.Z, Y: p.Y / p.Z})
	return []float64{px.X, px.Y}
}

// FrameJacobian is the analytic 2x6 derivative of Map with respect to a pose
// perturbation; the projective part is identical to the Euclidean model
// since the pose acts on the converted point.
func (m *SE3UVQ) FrameJacobian(pose spatialmath.SE3, point []float64) *mat.Dense {
	q := point[2]
	p := pose.Transform(r3.Vector{X: point[0] / q, Y: point[1] / q, Z: 1 / q})
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
// (u, v, q) parameters, carrying the extra 1/q scaling of the conversion.
func (m *SE3UVQ) PointJacobian(pose spatialmath.SE3, point []float64) *mat.Dense {
	q := point[2]
	rot := pose.Rotation()
	t := pose.Translation()
	p := pose.Transform(r3.Vector{X: point[0] / q, Y: point[1] / q, Z: 1 / q})
	x, y, z := p.X, p.Y, p.Z

	// columns: first two columns of R, then the translation
	c0, c1 := rot.Col(0), rot.Col(1)
	r12t := mat.NewDense(3, 3, []float64{
		c0.X, c1.X, t.X,
		c0.Y, c1.Y, t.Y,
		c0.Z, c1.Z, t.Z,
	})
	tmp := mat.NewDense(2, 3, []float64{
		1, 0, -x / z,
		0, 1, -y / z,
	})
	var jPoint, jac mat.Dense
	jPoint.Mul(tmp, r12t)
	jPoint.Scale(1/(z*q), &jPoint)
	jac.Mul(m.cam.Jacobian(), &jPoint)
	return &jac
}

// AddPoint is plain vector addition on the (u, v, q) triple.
func (m *SE3UVQ) AddPoint(point, delta []float64) []float64 {
	return addVectors(point, delta)
}
