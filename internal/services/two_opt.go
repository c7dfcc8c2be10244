package services

import (
	"slices"

	"tiffin-route-service/internal/domain"
	"tiffin-route-service/internal/geo"
)

const (
	DefaultTwoOptPasses = 50
	twoOptEpsilonKm     = 1e-9
)

// TwoOpt shortens an open route that starts at start by reversing segments
// while doing so strictly reduces the total haversine length. It stops
// after maxPasses full sweeps or when a sweep finds no improvement, so the
// result is never longer than route. route is not modified.
func TwoOpt[T Locatable](start domain.Coordinates, route []T, maxPasses int) []T {
	if maxPasses <= 0 {
		maxPasses = DefaultTwoOptPasses
	}

	best := slices.Clone(route)
	if len(best) < 2 {
		return best
	}

	for pass := 0; pass < maxPasses; pass++ {
		improved := false
		for i := 0; i < len(best)-1; i++ {
			for k := i + 1; k < len(best); k++ {
				if twoOptGain(start, best, i, k) > twoOptEpsilonKm {
					slices.Reverse(best[i : k+1])
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}

	return best
}

// twoOptGain is the length saved by reversing r[i..k]. Only the two edges
// at the ends of the segment change; the route has no closing edge.
func twoOptGain[T Locatable](start domain.Coordinates, r []T, i, k int) float64 {
	prev := start
	if i > 0 {
		prev = r[i-1].Coords()
	}

	before := geo.HaversineKm(prev, r[i].Coords())
	after := geo.HaversineKm(prev, r[k].Coords())

	if k+1 < len(r) {
		next := r[k+1].Coords()
		before += geo.HaversineKm(r[k].Coords(), next)
		after += geo.HaversineKm(r[i].Coords(), next)
	}

	return before - after
}
