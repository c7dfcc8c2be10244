package services

import (
	"cmp"
	"slices"

	"tiffin-route-service/internal/domain"
	"tiffin-route-service/internal/geo"
)

// FindOptimalRoute orders items into a visiting sequence using a greedy
// nearest-neighbor heuristic.
//
// Starting at start, each step stable-sorts the remaining items by
// haversine distance from the current position and visits the nearest.
// Ties keep the order left by the previous sort. The result is not a
// shortest tour; see TwoOpt for an opt-in improvement pass.
// items is not modified.
func FindOptimalRoute[T Locatable](start domain.Coordinates, items []T) []T {
	remaining := slices.Clone(items)
	route := make([]T, 0, len(items))
	current := start

	for len(remaining) > 0 {
		from := current
		slices.SortStableFunc(remaining, func(a, b T) int {
			return cmp.Compare(geo.HaversineKm(from, a.Coords()), geo.HaversineKm(from, b.Coords()))
		})

		next := remaining[0]
		remaining = remaining[1:]

		route = append(route, next)
		current = next.Coords()
	}

	return route
}

// NewDeliveryRoute turns an ordered list of points into a DeliveryRoute with
// per-leg and cumulative distances measured from start.
func NewDeliveryRoute(
	storeID string,
	date string,
	zone domain.Zone,
	start domain.Coordinates,
	ordered []domain.DeliveryPoint,
	returnToStore bool,
) *domain.DeliveryRoute {
	route := &domain.DeliveryRoute{
		StoreID: storeID,
		Date:    date,
		Zone:    zone,
		Start:   start,
		Stops:   make([]domain.RouteStop, 0, len(ordered)),
		Counts:  domain.CountStatuses(ordered),
	}

	current := start
	total := 0.0
	for i, p := range ordered {
		leg := geo.HaversineKm(current, p.Coordinates)
		total += leg
		route.Stops = append(route.Stops, domain.RouteStop{
			Sequence:     i + 1,
			Point:        p,
			LegKm:        leg,
			CumulativeKm: total,
		})
		current = p.Coordinates
	}

	// Optionally includes return leg to the store for total route metrics.
	if returnToStore && len(ordered) > 0 {
		route.ReturnToStore = true
		route.ReturnLegKm = geo.HaversineKm(current, start)
		total += route.ReturnLegKm
	}
	route.TotalKm = total

	return route
}
