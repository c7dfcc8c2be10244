package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiffin-route-service/internal/domain"
)

type pt struct {
	id  string
	loc domain.Coordinates
}

func (p pt) Coords() domain.Coordinates { return p.loc }

func at(id string, lat, lng float64) pt {
	return pt{id: id, loc: domain.Coordinates{Lat: lat, Lng: lng}}
}

func ids(items []pt) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.id)
	}
	return out
}

func line(lat1, lng1, lat2, lng2 float64) domain.DividerLine {
	return domain.DividerLine{
		Start: domain.Coordinates{Lat: lat1, Lng: lng1},
		End:   domain.Coordinates{Lat: lat2, Lng: lng2},
	}
}

func TestGroupByZoneOppositeSides(t *testing.T) {
	divider := line(0, 0, 0, 10)

	zones := GroupByZone([]pt{at("east", 5, 5), at("west", -5, 5)}, divider)

	assert.Equal(t, []string{"east"}, ids(zones.Zone1))
	assert.Equal(t, []string{"west"}, ids(zones.Zone2))
	assert.Empty(t, zones.Unassigned)
}

func TestGroupByZoneCollinearPointInNeitherZone(t *testing.T) {
	divider := line(0, 0, 0, 10)

	assert.Equal(t, 0.0, SideOfLine(domain.Coordinates{Lat: 0, Lng: 5}, divider))

	zones := GroupByZone([]pt{at("on-line", 0, 5), at("up", 1, 1)}, divider)

	assert.Equal(t, []string{"up"}, ids(zones.Zone1))
	assert.Empty(t, zones.Zone2)
	assert.Equal(t, []string{"on-line"}, ids(zones.Unassigned))
}

func TestGroupByZoneNaNIsUnassigned(t *testing.T) {
	zones := GroupByZone([]pt{at("nan", math.NaN(), 1)}, line(0, 0, 0, 10))

	assert.Empty(t, zones.Zone1)
	assert.Empty(t, zones.Zone2)
	assert.Equal(t, []string{"nan"}, ids(zones.Unassigned))
}

func TestGroupByZoneEmpty(t *testing.T) {
	zones := GroupByZone([]pt{}, line(0, 0, 0, 10))

	require.NotNil(t, zones.Zone1)
	require.NotNil(t, zones.Zone2)
	assert.Empty(t, zones.Zone1)
	assert.Empty(t, zones.Zone2)
}

func TestGroupByZoneKeepsInputOrder(t *testing.T) {
	items := []pt{at("a", 3, 1), at("b", -1, 2), at("c", 1, 9), at("d", -4, 4), at("e", 2, 2)}

	zones := GroupByZone(items, line(0, 0, 0, 10))

	assert.Equal(t, []string{"a", "c", "e"}, ids(zones.Zone1))
	assert.Equal(t, []string{"b", "d"}, ids(zones.Zone2))
	assert.Equal(t, []string{"a", "c", "e"}, ids(zones.Of(domain.Zone1)))
}

func TestGroupByZoneReversedLineSwapsZones(t *testing.T) {
	items := []pt{at("north", 5, 5), at("south", -5, 5)}

	zones := GroupByZone(items, line(0, 10, 0, 0))

	assert.Equal(t, []string{"south"}, ids(zones.Zone1))
	assert.Equal(t, []string{"north"}, ids(zones.Zone2))
}

func TestZoneOf(t *testing.T) {
	divider := line(43.7, -79.5, 43.7, -79.3)

	assert.Equal(t, domain.Zone1, ZoneOf(domain.Coordinates{Lat: 43.75, Lng: -79.4}, divider))
	assert.Equal(t, domain.Zone2, ZoneOf(domain.Coordinates{Lat: 43.65, Lng: -79.4}, divider))
	assert.Equal(t, domain.ZoneNone, ZoneOf(domain.Coordinates{Lat: 43.7, Lng: -79.4}, divider))
}
