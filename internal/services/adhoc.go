package services

import (
	"fmt"
	"strconv"

	"tiffin-route-service/internal/domain"
)

// AdHocRequest carries everything needed to plan without touching storage:
// a start location, an optional divider and already located points.
type AdHocRequest struct {
	Start   domain.Coordinates
	Divider *domain.DividerLine
	Points  []domain.DeliveryPoint
	Zone    domain.Zone
	Options RouteOptions
}

// PlanAdHoc validates the request and runs BuildPlan over it.
func PlanAdHoc(req AdHocRequest) (*domain.DeliveryPlan, error) {
	if !req.Start.Valid() {
		return nil, invalid("store", "invalid coordinates %+v", req.Start)
	}
	if req.Divider != nil && !req.Divider.Valid() {
		return nil, invalid("divider", "endpoints must be valid, distinct coordinates")
	}
	if req.Zone != domain.ZoneNone && !req.Zone.Valid() {
		return nil, invalid("zone", "must be 1 or 2")
	}

	// Caller ids are reserved first so generated ones never collide.
	seen := make(map[string]struct{}, len(req.Points))
	for _, p := range req.Points {
		if p.OrderID == "" {
			continue
		}
		if _, dup := seen[p.OrderID]; dup {
			return nil, invalid("orders", "duplicate id %q", p.OrderID)
		}
		seen[p.OrderID] = struct{}{}
	}

	points := make([]domain.DeliveryPoint, 0, len(req.Points))
	for i, p := range req.Points {
		if p.OrderID == "" {
			p.OrderID = positionalID(i, seen)
			seen[p.OrderID] = struct{}{}
		}

		if !p.Coordinates.Valid() {
			return nil, invalid("orders", "order %q has invalid coordinates", p.OrderID)
		}
		if p.Status == "" {
			p.Status = domain.StatusPending
		}
		if !p.Status.Valid() {
			return nil, invalid("orders", "order %q has unknown status %q", p.OrderID, p.Status)
		}
		p.Located = true
		points = append(points, p)
	}

	store := &domain.Store{StoreID: "adhoc", Location: req.Start, Divider: req.Divider}
	return BuildPlan(store, "", points, req.Zone, req.Options), nil
}

// positionalID names the i-th order by its 1-based position, suffixed when
// the caller already used that name.
func positionalID(i int, taken map[string]struct{}) string {
	id := strconv.Itoa(i + 1)
	for n := 2; ; n++ {
		if _, ok := taken[id]; !ok {
			return id
		}
		id = fmt.Sprintf("%d-%d", i+1, n)
	}
}
