package services

import (
	"tiffin-route-service/internal/domain"
)

// Locatable is anything that can be placed on the map.
type Locatable interface {
	Coords() domain.Coordinates
}

// Zones is the partition produced by GroupByZone.
// Unassigned collects items that belong to neither zone: points lying
// exactly on the divider line, and points with NaN coordinates.
type Zones[T any] struct {
	Zone1      []T
	Zone2      []T
	Unassigned []T
}

// Of returns the items of one zone; ZoneNone yields the unassigned items.
func (z Zones[T]) Of(zone domain.Zone) []T {
	switch zone {
	case domain.Zone1:
		return z.Zone1
	case domain.Zone2:
		return z.Zone2
	default:
		return z.Unassigned
	}
}

// SideOfLine returns the 2D cross product of start->end against start->p,
// treating latitude/longitude as a flat plane. Positive is the "up" side
// (Zone1), negative the "down" side (Zone2), zero is on the line.
func SideOfLine(p domain.Coordinates, divider domain.DividerLine) float64 {
	s, e := divider.Start, divider.End
	return (e.Lng-s.Lng)*(p.Lat-s.Lat) - (e.Lat-s.Lat)*(p.Lng-s.Lng)
}

// ZoneOf classifies a single point.
func ZoneOf(p domain.Coordinates, divider domain.DividerLine) domain.Zone {
	cross := SideOfLine(p, divider)
	switch {
	case cross > 0:
		return domain.Zone1
	case cross < 0:
		return domain.Zone2
	default:
		return domain.ZoneNone
	}
}

// GroupByZone partitions items by the side of the divider they fall on,
// keeping their relative order. It never returns nil slices.
func GroupByZone[T Locatable](items []T, divider domain.DividerLine) Zones[T] {
	z := Zones[T]{
		Zone1:      make([]T, 0, len(items)),
		Zone2:      make([]T, 0, len(items)),
		Unassigned: make([]T, 0),
	}

	for _, it := range items {
		switch ZoneOf(it.Coords(), divider) {
		case domain.Zone1:
			z.Zone1 = append(z.Zone1, it)
		case domain.Zone2:
			z.Zone2 = append(z.Zone2, it)
		default:
			z.Unassigned = append(z.Unassigned, it)
		}
	}

	return z
}
