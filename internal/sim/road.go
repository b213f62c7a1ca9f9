package sim

import "fmt"

// Road is immutable run configuration: the target distance and the effect
// pipeline applied to every vehicle each tick, in order. One Road is shared
// read-only by all vehicles in a run.
type Road struct {
	Length  int
	Effects []Effect
}

// NewRoad builds a road, rejecting a non-positive length.
func NewRoad(length int, effects ...Effect) (Road, error) {
	if length <= 0 {
		return Road{}, fmt.Errorf("road length must be positive, got %d", length)
	}
	return Road{Length: length, Effects: effects}, nil
}
