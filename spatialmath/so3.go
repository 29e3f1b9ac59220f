package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// singularityThreshold is the cutoff on d = (trace(R)-1)/2, the cosine of the
// rotation angle, above which the rotation is treated as near-identity and
// the logarithm and its Jacobians switch to their first-order Taylor
// expansions. Without the branch these maps divide by a near-zero sin/tan
// term as the angle goes to zero.
const singularityThreshold = 0.99999

// Skew returns the 3x3 skew-symmetric cross-product matrix of v.
func Skew(v r3.Vector) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0, -v.Z, v.Y,
		v.Z, 0, -v.X,
		-v.Y, v.X, 0,
	})
}

// deltaR extracts the vector of off-diagonal skew components of R,
// (R32-R23, R13-R31, R21-R12). For a rotation by angle theta about unit axis
// n this equals 2*sin(theta)*n.
func deltaR(r RotationMatrix) r3.Vector {
	return r3.Vector{
		X: r.At(2, 1) - r.At(1, 2),
		Y: r.At(0, 2) - r.At(2, 0),
		Z: r.At(1, 0) - r.At(0, 1),
	}
}

// ExpSO3 is the exponential map of SO3: it converts an axis-angle vector
// omega to a rotation matrix, going through the unit quaternion
// (cos(theta/2), sin(theta/2)*n).
func ExpSO3(omega r3.Vector) RotationMatrix {
	theta := omega.Norm()
	// sin(theta/2)/theta, with its limit of 1/2 as theta goes to zero
	sincHalf := 0.5 - theta*theta/48
	if theta > 1e-6 {
		sincHalf = math.Sin(theta/2) / theta
	}
	q := quat.Number{
		Real: math.Cos(theta / 2),
		Imag: sincHalf * omega.X,
		Jmag: sincHalf * omega.Y,
		Kmag: sincHalf * omega.Z,
	}
	return NewRotationMatrixFromQuaternion(q)
}

// LogSO3 is the logarithmic map of SO3: it converts a rotation matrix to its
// axis-angle vector. Near the identity (d > 0.99999 where d is the cosine of
// the rotation angle) it uses the first-order expansion deltaR(R)/2.
func LogSO3(r RotationMatrix) r3.Vector {
	d := 0.5 * (r.Trace() - 1)
	if d > singularityThreshold {
		return deltaR(r).Mul(0.5)
	}
	theta := math.Acos(d)
	return deltaR(r).Mul(theta / (2 * math.Sqrt(1-d*d)))
}
