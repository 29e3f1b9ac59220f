package camera

import (
	"strings"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestPinholeValidation(t *testing.T) {
	_, err := NewPinhole(0, 500, 320, 240)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "fx")

	_, err = NewPinhole(500, -1, 320, 240)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "fy")

	var nilCam *Pinhole
	test.That(t, nilCam.CheckValid(), test.ShouldNotBeNil)

	cam, err := NewPinhole(500, 500, 320, 240)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cam.CheckValid(), test.ShouldBeNil)
}

func TestPinholeProjection(t *testing.T) {
	cam, err := NewPinhole(500, 400, 320, 240)
	test.That(t, err, test.ShouldBeNil)

	px := cam.Project(r2.Point{X: 0.1, Y: -0.2})
	test.That(t, px.X, test.ShouldAlmostEqual, 370)
	test.That(t, px.Y, test.ShouldAlmostEqual, 160)

	back := cam.Unproject(px)
	test.That(t, back.X, test.ShouldAlmostEqual, 0.1)
	test.That(t, back.Y, test.ShouldAlmostEqual, -0.2)

	jac := cam.Jacobian()
	test.That(t, jac.At(0, 0), test.ShouldEqual, 500)
	test.That(t, jac.At(1, 1), test.ShouldEqual, 400)
	test.That(t, jac.At(0, 1), test.ShouldEqual, 0)
	test.That(t, jac.At(1, 0), test.ShouldEqual, 0)
}

func TestReadPinhole(t *testing.T) {
	cam, err := ReadPinhole(strings.NewReader(`{"fx": 1, "fy": 1, "ppx": 0, "ppy": 0}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cam.Fx, test.ShouldEqual, 1)

	_, err = ReadPinhole(strings.NewReader(`{"fx": 0}`))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = ReadPinhole(strings.NewReader(`not json`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "decode")
}
