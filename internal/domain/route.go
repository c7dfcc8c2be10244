package domain

// Represents a single stop in a delivery route.
// LegKm is the haversine distance from the previous stop (or the store for
// the first stop) and CumulativeKm the running total up to this stop.
type RouteStop struct {
	Sequence     int
	Point        DeliveryPoint
	LegKm        float64
	CumulativeKm float64
}

// Represents the ordered delivery sequence for one zone of one store on
// one day. It is planning data and carries no side effects.
type DeliveryRoute struct {
	StoreID string
	Date    string
	Zone    Zone
	Start   Coordinates
	Stops   []RouteStop
	TotalKm float64
	// ReturnToStore marks a non-empty route planned to end back at Start.
	// ReturnLegKm may be zero when the last stop is at the store.
	ReturnToStore bool
	ReturnLegKm   float64
	Optimized     bool
	Counts        StatusCounts
}

// DeliveryPlan is the result of planning one store's deliveries for a day.
// Unassigned holds located points that fell in neither zone (on the
// divider line); Unlocated holds points whose address has no coordinates.
type DeliveryPlan struct {
	StoreID    string
	StoreName  string
	Date       string
	Start      Coordinates
	Routes     []DeliveryRoute
	Unassigned []DeliveryPoint
	Unlocated  []DeliveryPoint
	Counts     StatusCounts
}
