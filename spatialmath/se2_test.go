package spatialmath

import (
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"github.com/robovis/geom/utils"
)

func TestSE2GroupOps(t *testing.T) {
	rng := rand.New(rand.NewSource(20))
	identity := NewSE2Identity()
	for i := 0; i < 20; i++ {
		p := NewSE2(rng.Float64()*4-2, r2.Point{X: rng.NormFloat64(), Y: rng.NormFloat64()})
		inv := p.Inverse()
		round := p.Mul(inv)
		test.That(t, round.Theta(), test.ShouldAlmostEqual, identity.Theta(), 1e-12)
		test.That(t, round.Translation().X, test.ShouldAlmostEqual, 0, 1e-12)
		test.That(t, round.Translation().Y, test.ShouldAlmostEqual, 0, 1e-12)
	}
}

func TestSE2Transform(t *testing.T) {
	p := NewSE2(utils.DegToRad(90), r2.Point{X: 1, Y: 0})
	out := p.Transform(r2.Point{X: 2, Y: 0})
	test.That(t, out.X, test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, out.Y, test.ShouldAlmostEqual, 2, 1e-12)
	test.That(t, utils.RadToDeg(p.Theta()), test.ShouldAlmostEqual, 90, 1e-12)
}

func TestSE2ExpLogRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for i := 0; i < 50; i++ {
		tangent := []float64{rng.NormFloat64(), rng.NormFloat64(), rng.Float64()*4 - 2}
		back := LogSE2(ExpSE2(tangent))
		test.That(t, back[0], test.ShouldAlmostEqual, tangent[0], 1e-9)
		test.That(t, back[1], test.ShouldAlmostEqual, tangent[1], 1e-9)
		test.That(t, back[2], test.ShouldAlmostEqual, tangent[2], 1e-9)
	}

	// near-zero angle goes through the Taylor branch
	back := LogSE2(ExpSE2([]float64{1, -2, 1e-9}))
	test.That(t, back[0], test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, back[1], test.ShouldAlmostEqual, -2, 1e-9)
}
