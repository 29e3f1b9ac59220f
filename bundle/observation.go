package bundle

import "gonum.org/v1/gonum/mat"

// Observation pairs a measurement with the ids of the point and frame it
// belongs to. The ids are opaque; the optimizer uses them to index its own
// pose and point storage.
type Observation struct {
	PointID int
	FrameID int
	Value   []float64
}

// NewObservation creates an observation record.
func NewObservation(pointID, frameID int, value []float64) Observation {
	return Observation{PointID: pointID, FrameID: frameID, Value: value}
}

// WeightedObservation is an observation carrying an information matrix, the
// inverse of the measurement covariance, with ObsDim rows and columns.
type WeightedObservation struct {
	Observation
	Information *mat.Dense
}

// NewWeightedObservation creates an observation with an attached information matrix.
func NewWeightedObservation(pointID, frameID int, value []float64, information *mat.Dense) WeightedObservation {
	return WeightedObservation{
		Observation: NewObservation(pointID, frameID, value),
		Information: information,
	}
}
