package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// The derivative helpers below differentiate through the 9 entries of a
// rotation matrix, or the 12 stacked entries of an SE3 element, using
// column-major (Fortran) stacking: entry k of vec(R) is R[k%3][k/3], and an
// SE3 element stacks vec(R) followed by t. That convention makes
// vec(A*X*B) = kron(B^T, A)*vec(X) hold, which DDiffDT1/DDiffDT2 rely on.
// They exist so SE3Constraint can assemble an exact chain-rule Jacobian of
// the relative-pose residual without finite differences.

// m3x9 assembles the 3x9 derivative of a function of deltaR(R) and trace(R):
// the diagonal entries of R each contribute the column a, and the
// off-diagonal entries contribute signed columns of b following the
// skew structure of deltaR.
func m3x9(a r3.Vector, b *mat.Dense) *mat.Dense {
	j := mat.NewDense(3, 9, nil)
	setColVec(j, 0, a)
	setColVec(j, 4, a)
	setColVec(j, 8, a)
	setColVec(j, 1, colScaled(b, 2, -1))
	setColVec(j, 2, colScaled(b, 1, 1))
	setColVec(j, 3, colScaled(b, 2, 1))
	setColVec(j, 5, colScaled(b, 0, -1))
	setColVec(j, 6, colScaled(b, 1, -1))
	setColVec(j, 7, colScaled(b, 0, 1))
	return j
}

// DLogRDR is the 3x9 Jacobian of the SO3 logarithm with respect to the
// entries of the rotation matrix. The near-identity branch uses the limits
// of the general expression, a -> -deltaR/12 and B -> -(1/2 + (1-d)/6)*I,
// keeping the Jacobian continuous across the threshold.
func DLogRDR(r RotationMatrix) *mat.Dense {
	d := 0.5 * (r.Trace() - 1)

	var a r3.Vector
	b := mat.NewDense(3, 3, nil)
	if d > singularityThreshold {
		a = deltaR(r).Mul(-1.0 / 12)
		b.Scale(-(0.5 + (1-d)/6), identity3())
	} else {
		theta := math.Acos(d)
		sq := math.Sqrt(1 - d*d)
		a = deltaR(r).Mul((d*theta - sq) / (4 * sq * sq * sq))
		b.Scale(-theta/(2*sq), identity3())
	}
	return m3x9(a, b)
}

// dDeltaRT is the 3x3 derivative term of skew(deltaR(R))*t that feeds the
// off-diagonal block of DVInvTDR.
func dDeltaRT(p SE3) *mat.Dense {
	t := p.Translation()
	abc := deltaR(p.Rotation())
	a, b, c := abc.X, abc.Y, abc.Z

	return mat.NewDense(3, 3, []float64{
		-b*t.Y - c*t.Z, 2*b*t.X - a*t.Y, 2*c*t.X - a*t.Z,
		-b*t.X + 2*a*t.Y, -a*t.X - c*t.Z, 2*c*t.Y - b*t.Z,
		-c*t.X + 2*a*t.Z, -c*t.Y + 2*b*t.Z, -a*t.X - b*t.Y,
	})
}

// DVInvTDR is the 3x9 Jacobian of the translation part of the SE3 logarithm,
// Vinv(R)*t, with respect to the entries of the rotation matrix. The
// near-identity branch takes the limits of the general expression,
// a -> skew(deltaR)*t/24 and B -> -(1/4 + (1-d)/12)*skew(t) + dDeltaRT/48,
// keeping the Jacobian continuous across the threshold.
func DVInvTDR(p SE3) *mat.Dense {
	r := p.Rotation()
	t := p.Translation()
	d := 0.5 * (r.Trace() - 1)

	var a r3.Vector
	b := mat.NewDense(3, 3, nil)
	if d > singularityThreshold {
		a = mulDenseVec(Skew(deltaR(r)), t).Mul(1.0 / 24)
		var term1, term2 mat.Dense
		term1.Scale(-(0.25 + (1-d)/12), Skew(t))
		term2.Scale(1.0/48, dDeltaRT(p))
		b.Add(&term1, &term2)
	} else {
		theta := math.Acos(d)
		theta2 := theta * theta
		oned2 := 1 - d*d
		sq := math.Sqrt(oned2)
		cot := 1 / math.Tan(0.5*theta)
		csc2 := 1 / (math.Sin(0.5 * theta) * math.Sin(0.5*theta))

		skewR := Skew(deltaR(r))
		srt := mulDenseVec(skewR, t)
		var skewR2 mat.Dense
		skewR2.Mul(skewR, skewR)
		ssrt := mulDenseVec(&skewR2, t)

		coef := ((theta*sq-d*theta2)*(0.5*theta*cot-1) - theta*sq*(0.25*theta*cot+0.125*theta2*csc2-1)) /
			(4 * theta2 * oned2 * oned2)
		a = srt.Mul(-(d*theta - sq) / (8 * sq * sq * sq)).Add(ssrt.Mul(coef))

		var term1, term2 mat.Dense
		term1.Scale(-0.5*theta/(2*sq), Skew(t))
		term2.Scale(-(theta*cot-2)/(8*oned2), dDeltaRT(p))
		b.Add(&term1, &term2)
	}
	return m3x9(a, b)
}

// DLogTDT is the 6x12 Jacobian of the SE3 logarithmic map with respect to
// the stacked entries of the transformation.
func DLogTDT(p SE3) *mat.Dense {
	j := mat.NewDense(6, 12, nil)
	setBlock(j, 0, 0, DLogRDR(p.Rotation()))
	setBlock(j, 3, 0, DVInvTDR(p))
	_, vInv := logRotationAndVInv(p.Rotation())
	setBlock(j, 3, 9, vInv)
	return j
}

// DExpDelta is the 12x6 Jacobian of the incremental update exp(delta)*T with
// respect to delta, evaluated at delta = 0. Columns are ordered like the
// perturbation vector, translation first.
func DExpDelta(p SE3) *mat.Dense {
	r := p.Rotation()
	j := mat.NewDense(12, 6, nil)
	for c := 0; c < 3; c++ {
		var block mat.Dense
		block.Scale(-1, Skew(r.Col(c)))
		setBlock(j, 3*c, 3, &block)
	}
	var tBlock mat.Dense
	tBlock.Scale(-1, Skew(p.Translation()))
	setBlock(j, 9, 3, &tBlock)
	setBlock(j, 9, 0, identity3())
	return j
}

// DDiffDT1 is the 12x12 Jacobian of the composed difference
// D = (C*T1)*T2^-1 with respect to the stacked entries of T1.
func DDiffDT1(c, t2 SE3) *mat.Dense {
	rc := c.Rotation().Dense()
	r2 := t2.Rotation().Dense()

	j := mat.NewDense(12, 12, nil)
	var rotBlock mat.Dense
	rotBlock.Kronecker(r2, rc)
	setBlock(j, 0, 0, &rotBlock)

	// d(translation of D)/d(vec R1) = kron(-(R2^T t2)^T, Rc)
	rt2 := t2.Rotation().Transpose().MulVec(t2.Translation())
	var transBlock mat.Dense
	transBlock.Kronecker(mat.NewDense(1, 3, []float64{-rt2.X, -rt2.Y, -rt2.Z}), rc)
	setBlock(j, 9, 0, &transBlock)

	setBlock(j, 9, 9, rc)
	return j
}

// DDiffDT2 is the 12x12 Jacobian of the composed difference
// D = (C*T1)*T2^-1 with respect to the stacked entries of T2.
func DDiffDT2(t1, c, t2 SE3) *mat.Dense {
	rcR1 := c.Rotation().Mul(t1.Rotation())
	t2t := t2.Translation()

	j := mat.NewDense(12, 12, nil)
	for k := 0; k < 3; k++ {
		// column k of Rc*R1, as the 3x1 factor of the Kronecker products
		ck := rcR1.Col(k)
		col := mat.NewDense(3, 1, []float64{ck.X, ck.Y, ck.Z})

		var rotBlock, transBlock mat.Dense
		rotBlock.Kronecker(identity3(), col)
		transBlock.Kronecker(mat.NewDense(1, 3, []float64{-t2t.X, -t2t.Y, -t2t.Z}), col)
		setBlock(j, 0, 3*k, &rotBlock)
		setBlock(j, 9, 3*k, &transBlock)
	}

	var corner mat.Dense
	corner.Scale(-1, rcR1.Mul(t2.Rotation().Transpose()).Dense())
	setBlock(j, 9, 9, &corner)
	return j
}

func identity3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}

func setBlock(dst *mat.Dense, row, col int, src mat.Matrix) {
	r, c := src.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(row+i, col+j, src.At(i, j))
		}
	}
}

func setColVec(dst *mat.Dense, col int, v r3.Vector) {
	dst.Set(0, col, v.X)
	dst.Set(1, col, v.Y)
	dst.Set(2, col, v.Z)
}

// colScaled returns column col of a 3x3 matrix scaled by s.
func colScaled(m *mat.Dense, col int, s float64) r3.Vector {
	return r3.Vector{X: s * m.At(0, col), Y: s * m.At(1, col), Z: s * m.At(2, col)}
}
