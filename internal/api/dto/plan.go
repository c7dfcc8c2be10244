package dto

import (
	"math"

	"github.com/mmcloughlin/geohash"
	"github.com/twpayne/go-polyline"

	"tiffin-route-service/internal/domain"
)

const GeohashPrecision = 7

type PointResponse struct {
	OrderID      string              `json:"order_id"`
	Kind         string              `json:"kind,omitempty"`
	CustomerName string              `json:"customer_name,omitempty"`
	Address      string              `json:"address,omitempty"`
	Location     *domain.Coordinates `json:"location,omitempty"`
	Geohash      string              `json:"geohash,omitempty"`
	Status       string              `json:"status"`
}

type StopResponse struct {
	Sequence     int     `json:"sequence"`
	LegKm        float64 `json:"leg_km"`
	CumulativeKm float64 `json:"cumulative_km"`
	PointResponse
}

type RouteResponse struct {
	Zone          int                 `json:"zone"`
	ZoneName      string              `json:"zone_name"`
	Stops         []StopResponse      `json:"stops"`
	TotalKm       float64             `json:"total_km"`
	ReturnToStore bool                `json:"return_to_store"`
	ReturnLegKm   float64             `json:"return_leg_km,omitempty"`
	Optimized     bool                `json:"optimized"`
	Polyline      string              `json:"polyline"`
	Counts        domain.StatusCounts `json:"counts"`
}

type PlanResponse struct {
	StoreID    string              `json:"store_id"`
	StoreName  string              `json:"store_name,omitempty"`
	Date       string              `json:"date,omitempty"`
	Start      domain.Coordinates  `json:"start"`
	Routes     []RouteResponse     `json:"routes"`
	Unassigned []PointResponse     `json:"unassigned"`
	Unlocated  []PointResponse     `json:"unlocated"`
	Counts     domain.StatusCounts `json:"counts"`
}

func roundKm(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func NewPointResponse(p domain.DeliveryPoint) PointResponse {
	res := PointResponse{
		OrderID:      p.OrderID,
		Kind:         string(p.Kind),
		CustomerName: p.CustomerName,
		Address:      p.Address,
		Status:       string(p.Status),
	}
	if p.Located {
		c := p.Coordinates
		res.Location = &c
		res.Geohash = geohash.EncodeWithPrecision(c.Lat, c.Lng, GeohashPrecision)
	}
	return res
}

func pointResponses(points []domain.DeliveryPoint) []PointResponse {
	out := make([]PointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, NewPointResponse(p))
	}
	return out
}

// EncodeRoute returns the Google encoded polyline of start followed by every
// stop, closed back to start when the route returns to the store.
func EncodeRoute(r domain.DeliveryRoute) string {
	coords := make([][]float64, 0, len(r.Stops)+2)
	coords = append(coords, []float64{r.Start.Lat, r.Start.Lng})
	for _, s := range r.Stops {
		c := s.Point.Coordinates
		coords = append(coords, []float64{c.Lat, c.Lng})
	}
	if r.ReturnToStore {
		coords = append(coords, []float64{r.Start.Lat, r.Start.Lng})
	}
	return string(polyline.EncodeCoords(coords))
}

func NewRouteResponse(r domain.DeliveryRoute) RouteResponse {
	stops := make([]StopResponse, 0, len(r.Stops))
	for _, s := range r.Stops {
		stops = append(stops, StopResponse{
			Sequence:      s.Sequence,
			LegKm:         roundKm(s.LegKm),
			CumulativeKm:  roundKm(s.CumulativeKm),
			PointResponse: NewPointResponse(s.Point),
		})
	}

	return RouteResponse{
		Zone:          int(r.Zone),
		ZoneName:      r.Zone.String(),
		Stops:         stops,
		TotalKm:       roundKm(r.TotalKm),
		ReturnToStore: r.ReturnToStore,
		ReturnLegKm:   roundKm(r.ReturnLegKm),
		Optimized:     r.Optimized,
		Polyline:      EncodeRoute(r),
		Counts:        r.Counts,
	}
}

func NewPlanResponse(p *domain.DeliveryPlan) PlanResponse {
	routes := make([]RouteResponse, 0, len(p.Routes))
	for _, r := range p.Routes {
		routes = append(routes, NewRouteResponse(r))
	}

	return PlanResponse{
		StoreID:    p.StoreID,
		StoreName:  p.StoreName,
		Date:       p.Date,
		Start:      p.Start,
		Routes:     routes,
		Unassigned: pointResponses(p.Unassigned),
		Unlocated:  pointResponses(p.Unlocated),
		Counts:     p.Counts,
	}
}
