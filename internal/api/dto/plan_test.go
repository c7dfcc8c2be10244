package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"

	"tiffin-route-service/internal/domain"
)

func decodeRoute(t *testing.T, r domain.DeliveryRoute) [][]float64 {
	t.Helper()
	coords, rest, err := polyline.DecodeCoords([]byte(EncodeRoute(r)))
	require.NoError(t, err)
	require.Empty(t, rest)
	return coords
}

func TestEncodeRoute(t *testing.T) {
	store := domain.Coordinates{Lat: 43.7, Lng: -79.3}
	stop := domain.RouteStop{Sequence: 1, Point: domain.DeliveryPoint{
		OrderID:     "t1",
		Coordinates: domain.Coordinates{Lat: 43.75, Lng: -79.35},
		Located:     true,
	}}

	open := decodeRoute(t, domain.DeliveryRoute{Start: store, Stops: []domain.RouteStop{stop}})
	require.Len(t, open, 2)
	assert.InDelta(t, 43.75, open[1][0], 1e-5)
	assert.InDelta(t, -79.35, open[1][1], 1e-5)

	closed := decodeRoute(t, domain.DeliveryRoute{
		Start:         store,
		Stops:         []domain.RouteStop{stop},
		ReturnToStore: true,
		ReturnLegKm:   6.8,
	})
	require.Len(t, closed, 3)
	assert.InDelta(t, 43.7, closed[2][0], 1e-5)
}

func TestEncodeRoute_LastStopAtStore(t *testing.T) {
	store := domain.Coordinates{Lat: 43.7, Lng: -79.3}
	r := domain.DeliveryRoute{
		Start: store,
		Stops: []domain.RouteStop{
			{Sequence: 1, Point: domain.DeliveryPoint{OrderID: "a", Coordinates: domain.Coordinates{Lat: 43.72, Lng: -79.3}, Located: true}},
			{Sequence: 2, Point: domain.DeliveryPoint{OrderID: "b", Coordinates: store, Located: true}},
		},
		ReturnToStore: true,
	}

	coords := decodeRoute(t, r)
	require.Len(t, coords, 4, "closing vertex is kept for a zero-length return leg")

	res := NewRouteResponse(r)
	assert.True(t, res.ReturnToStore)
	assert.Zero(t, res.ReturnLegKm)
}
