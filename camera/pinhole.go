// Package camera provides the pinhole projection model consumed by the
// prediction models in package bundle: a linear mapping from normalized
// image coordinates to pixel coordinates, together with its Jacobian.
package camera

import (
	"encoding/json"
	"io"
	"os"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"
)

// ErrNoIntrinsics is returned when camera intrinsic parameters are missing or unusable.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// Pinhole holds the intrinsic parameters of a perspective projection onto
// the image plane. The value is read-only after construction; models hold it
// by pointer and never mutate it, so concurrent use needs no coordination.
type Pinhole struct {
	Fx  float64 `json:"fx"`
	Fy  float64 `json:"fy"`
	Ppx float64 `json:"ppx"`
	Ppy float64 `json:"ppy"`
}

// NewPinhole returns a validated pinhole model from focal lengths and
// principal point.
func NewPinhole(fx, fy, ppx, ppy float64) (*Pinhole, error) {
	cam := &Pinhole{Fx: fx, Fy: fy, Ppx: ppx, Ppy: ppy}
	if err := cam.CheckValid(); err != nil {
		return nil, err
	}
	return cam, nil
}

// NewPinholeFromJSON reads intrinsics from a JSON file.
func NewPinholeFromJSON(path string) (*Pinhole, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open intrinsics file %s", path)
	}
	defer f.Close()
	return ReadPinhole(f)
}

// ReadPinhole decodes intrinsics from a JSON stream and validates them.
func ReadPinhole(r io.Reader) (*Pinhole, error) {
	cam := &Pinhole{}
	if err := json.NewDecoder(r).Decode(cam); err != nil {
		return nil, errors.Wrap(err, "failed to decode intrinsics")
	}
	if err := cam.CheckValid(); err != nil {
		return nil, err
	}
	return cam, nil
}

// CheckValid checks if the fields of the struct are usable for projection.
func (p *Pinhole) CheckValid() error {
	if p == nil {
		return errors.Wrap(ErrNoIntrinsics, "intrinsics do not exist")
	}
	var err error
	if p.Fx <= 0 {
		err = multierr.Append(err, errors.Wrapf(ErrNoIntrinsics, "focal length fx = %f", p.Fx))
	}
	if p.Fy <= 0 {
		err = multierr.Append(err, errors.Wrapf(ErrNoIntrinsics, "focal length fy = %f", p.Fy))
	}
	return err
}

// Project maps a normalized image point (x/z, y/z) to pixel coordinates.
func (p *Pinhole) Project(pt r2.Point) r2.Point {
	return r2.Point{X: p.Fx*pt.X + p.Ppx, Y: p.Fy*pt.Y + p.Ppy}
}

// Unproject maps a pixel back to normalized image coordinates.
func (p *Pinhole) Unproject(px r2.Point) r2.Point {
	return r2.Point{X: (px.X - p.Ppx) / p.Fx, Y: (px.Y - p.Ppy) / p.Fy}
}

// Jacobian is the 2x2 derivative of Project with respect to the normalized
// point; for a pinhole this is constant.
func (p *Pinhole) Jacobian() *mat.Dense {
	return mat.NewDense(2, 2, []float64{
		p.Fx, 0,
		0, p.Fy,
	})
}
