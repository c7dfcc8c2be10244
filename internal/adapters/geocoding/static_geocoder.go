package geocoding

import (
	"context"

	"tiffin-route-service/internal/domain"
)

// StaticGeocoder resolves addresses from a fixed table. Lookups are
// whitespace-insensitive.
type StaticGeocoder struct {
	table map[string]domain.Coordinates
}

func NewStaticGeocoder(table map[string]domain.Coordinates) *StaticGeocoder {
	t := make(map[string]domain.Coordinates, len(table))
	for k, v := range table {
		t[normalize(k)] = v
	}
	return &StaticGeocoder{table: t}
}

func (s *StaticGeocoder) Geocode(_ context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	out := make(map[string]domain.Coordinates, len(addresses))
	for _, a := range addresses {
		if c, ok := s.table[normalize(a)]; ok {
			out[a] = c
		}
	}
	return out, nil
}
