package collision

import (
	"errors"
	"fmt"
)

// Backend names accepted by Backend.
const (
	BackendAABB     = "aabb"
	BackendChipmunk = "chipmunk"
)

var ErrUnknownBackend = errors.New("collision: unknown backend")

// Backend returns a constructor for the named contact source. For the AABB
// backend a zero cellSize yields nil, leaving the map to size its own grid
// from the tile size.
func Backend(name string, cellSize float64) (func(tickRate float64) Source, error) {
	switch name {
	case BackendAABB, "":
		return func(float64) Source {
			if cellSize <= 0 {
				return nil
			}
			return NewGrid(cellSize)
		}, nil
	case BackendChipmunk:
		return func(tickRate float64) Source { return NewChipmunk(tickRate) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}
