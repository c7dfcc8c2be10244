package ports

import (
	"context"
	"tiffin-route-service/internal/domain"
)

// Contract for resolving free-form addresses to coordinates.
type Geocoder interface {
	// Return coordinates keyed by the input address. Addresses that cannot be
	// resolved are absent from the result rather than failing the batch. A
	// non-nil error may still come with the addresses that did resolve.
	Geocode(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
}

// Persistent address -> coordinates cache placed in front of a Geocoder.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
