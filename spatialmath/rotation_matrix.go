// Package spatialmath implements the Lie-group calculus used by pose
// estimation and bundle adjustment: rigid (SE3, SE2) and similarity (Sim3)
// transformations, their exponential and logarithmic maps, and closed-form
// Jacobians of those maps with respect to manifold perturbations.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"github.com/robovis/geom/utils"
)

// RotationMatrix is a 3x3 orthonormal matrix with unit determinant,
// stored row major. It is an immutable value type; the zero value is not a
// valid rotation, use NewIdentityRotationMatrix.
type RotationMatrix struct {
	mat [9]float64
}

// NewRotationMatrix creates a RotationMatrix from a row-major slice of 9 values.
func NewRotationMatrix(data []float64) (RotationMatrix, error) {
	if len(data) != 9 {
		return RotationMatrix{}, errors.Errorf("input slice has %d elements, need exactly 9", len(data))
	}
	var m [9]float64
	copy(m[:], data)
	return RotationMatrix{m}, nil
}

// NewIdentityRotationMatrix returns the identity rotation.
func NewIdentityRotationMatrix() RotationMatrix {
	return RotationMatrix{[9]float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}}
}

// NewRotationMatrixFromQuaternion converts a unit quaternion to its rotation matrix.
func NewRotationMatrixFromQuaternion(q quat.Number) RotationMatrix {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return RotationMatrix{[9]float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	}}
}

// At returns the value at the given row and column.
func (rm RotationMatrix) At(row, col int) float64 {
	return rm.mat[3*row+col]
}

// Row returns the a 3 vector corresponding to the given row.
func (rm RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat[3*row], Y: rm.mat[3*row+1], Z: rm.mat[3*row+2]}
}

// Col returns the a 3 vector corresponding to the given column.
func (rm RotationMatrix) Col(col int) r3.Vector {
	return r3.Vector{X: rm.mat[col], Y: rm.mat[3+col], Z: rm.mat[6+col]}
}

// Mul returns the matrix product rm * other.
func (rm RotationMatrix) Mul(other RotationMatrix) RotationMatrix {
	var out [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[3*i+j] = rm.mat[3*i]*other.mat[j] + rm.mat[3*i+1]*other.mat[3+j] + rm.mat[3*i+2]*other.mat[6+j]
		}
	}
	return RotationMatrix{out}
}

// MulVec returns the product of the rotation matrix with a 3 vector.
func (rm RotationMatrix) MulVec(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: rm.mat[0]*v.X + rm.mat[1]*v.Y + rm.mat[2]*v.Z,
		Y: rm.mat[3]*v.X + rm.mat[4]*v.Y + rm.mat[5]*v.Z,
		Z: rm.mat[6]*v.X + rm.mat[7]*v.Y + rm.mat[8]*v.Z,
	}
}

// Transpose returns the transpose, which for a rotation is also the inverse.
func (rm RotationMatrix) Transpose() RotationMatrix {
	return RotationMatrix{[9]float64{
		rm.mat[0], rm.mat[3], rm.mat[6],
		rm.mat[1], rm.mat[4], rm.mat[7],
		rm.mat[2], rm.mat[5], rm.mat[8],
	}}
}

// Trace returns the sum of the diagonal elements.
func (rm RotationMatrix) Trace() float64 {
	return rm.mat[0] + rm.mat[4] + rm.mat[8]
}

// Dense returns the rotation as a gonum dense matrix.
func (rm RotationMatrix) Dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		rm.mat[0], rm.mat[1], rm.mat[2],
		rm.mat[3], rm.mat[4], rm.mat[5],
		rm.mat[6], rm.mat[7], rm.mat[8],
	})
}

// Quaternion converts the rotation matrix to a unit quaternion using
// Shepperd's method, branching on the largest diagonal element.
func (rm RotationMatrix) Quaternion() quat.Number {
	m := rm.mat
	tr := rm.Trace()
	switch {
	case tr > 0:
		s := 2 * math.Sqrt(tr+1)
		return quat.Number{
			Real: s / 4,
			Imag: (m[7] - m[5]) / s,
			Jmag: (m[2] - m[6]) / s,
			Kmag: (m[3] - m[1]) / s,
		}
	case m[0] > m[4] && m[0] > m[8]:
		s := 2 * math.Sqrt(1+m[0]-m[4]-m[8])
		return quat.Number{
			Real: (m[7] - m[5]) / s,
			Imag: s / 4,
			Jmag: (m[1] + m[3]) / s,
			Kmag: (m[2] + m[6]) / s,
		}
	case m[4] > m[8]:
		s := 2 * math.Sqrt(1+m[4]-m[0]-m[8])
		return quat.Number{
			Real: (m[2] - m[6]) / s,
			Imag: (m[1] + m[3]) / s,
			Jmag: s / 4,
			Kmag: (m[5] + m[7]) / s,
		}
	default:
		s := 2 * math.Sqrt(1+m[8]-m[0]-m[4])
		return quat.Number{
			Real: (m[3] - m[1]) / s,
			Imag: (m[2] + m[6]) / s,
			Jmag: (m[5] + m[7]) / s,
			Kmag: s / 4,
		}
	}
}

// AlmostEqual returns whether the two rotations are within epsilon of each
// other elementwise.
func (rm RotationMatrix) AlmostEqual(other RotationMatrix, epsilon float64) bool {
	for i := 0; i < 9; i++ {
		if !utils.Float64AlmostEqual(rm.mat[i], other.mat[i], epsilon) {
			return false
		}
	}
	return true
}
