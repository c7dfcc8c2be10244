package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"tiffin-route-service/internal/domain"
	"tiffin-route-service/internal/platform/obs"
	"tiffin-route-service/internal/ports"
)

const DateLayout = "2006-01-02"

type PlanDeliveriesRequest struct {
	StoreID string
	Date    string
	// Zone restricts planning to one zone; ZoneNone plans both.
	Zone domain.Zone
	// StaffID, when set, overrides Zone with the driver's assigned zone.
	StaffID       string
	Optimize      bool
	ReturnToStore bool
}

// RouteOptions tune how each zone's route is sequenced.
type RouteOptions struct {
	Optimize      bool
	ReturnToStore bool
	MaxPasses     int
}

// Planner plans a store's deliveries for a day. Geocoder, Cache and
// Metrics are optional.
type Planner struct {
	Stores   ports.StoreRepository
	Staff    ports.StaffRepository
	Orders   ports.OrderRepository
	Geocoder ports.Geocoder
	Cache    ports.PlanCache
	Metrics  *obs.Metrics
}

// PlanDeliveries loads the store and the day's deliveries, splits them into
// zones and sequences the requested zone(s) from the store location.
func (p *Planner) PlanDeliveries(ctx context.Context, req PlanDeliveriesRequest) (_ *domain.DeliveryPlan, err error) {
	defer obs.Time(ctx, "planner.PlanDeliveries")(&err)

	storeID := strings.TrimSpace(req.StoreID)
	if storeID == "" {
		return nil, invalid("store_id", "must be non-empty")
	}
	if _, err := time.Parse(DateLayout, req.Date); err != nil {
		return nil, invalid("date", "must be formatted YYYY-MM-DD, got %q", req.Date)
	}
	if req.Zone != domain.ZoneNone && !req.Zone.Valid() {
		return nil, invalid("zone", "must be 1 or 2")
	}

	zone := req.Zone
	if staffID := strings.TrimSpace(req.StaffID); staffID != "" {
		if p.Staff == nil {
			return nil, errors.New("plan deliveries: staff repository is not configured")
		}
		staff, err := p.Staff.GetStaff(ctx, staffID)
		if err != nil {
			return nil, fmt.Errorf("plan deliveries: get staff %q: %w", staffID, err)
		}
		zone, err = staff.ZoneFor(storeID)
		if err != nil {
			return nil, &ValidationError{Field: "staff_id", Msg: err.Error()}
		}
	}

	key := ports.PlanKey{
		StoreID:       storeID,
		Date:          req.Date,
		Zone:          zone,
		Optimize:      req.Optimize,
		ReturnToStore: req.ReturnToStore,
	}
	useCache := p.Cache != nil
	if useCache {
		gen, err := p.Cache.Generation(ctx, storeID)
		if err != nil {
			obs.L(ctx).WithError(err).Warn("plan cache generation read failed")
			useCache = false
		}
		key.Generation = gen
	}
	if useCache {
		cached, ok, err := p.Cache.Get(ctx, key)
		if err != nil {
			// A broken cache must not take planning down with it.
			obs.L(ctx).WithError(err).Warn("plan cache read failed")
		}
		p.Metrics.PlanCacheResult(ok)
		if ok {
			return cached, nil
		}
	}

	var (
		store  *domain.Store
		points []domain.DeliveryPoint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := p.Stores.GetStore(gctx, storeID)
		if err != nil {
			return fmt.Errorf("get store %q: %w", storeID, err)
		}
		store = s
		return nil
	})
	g.Go(func() error {
		pts, err := p.Orders.ListDeliveries(gctx, storeID, req.Date)
		if err != nil {
			return fmt.Errorf("list deliveries: %w", err)
		}
		points = pts
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	points = p.locate(ctx, points)

	plan := BuildPlan(store, req.Date, points, zone, RouteOptions{
		Optimize:      req.Optimize,
		ReturnToStore: req.ReturnToStore,
	})
	p.Metrics.ObservePlan(plan, req.Optimize)

	if useCache {
		if err := p.Cache.Put(ctx, key, plan); err != nil {
			obs.L(ctx).WithError(err).Warn("plan cache write failed")
		}
	}

	return plan, nil
}

// locate geocodes points whose address has no coordinates yet. Failures are
// logged and leave the points unlocated.
func (p *Planner) locate(ctx context.Context, points []domain.DeliveryPoint) []domain.DeliveryPoint {
	if p.Geocoder == nil {
		return points
	}

	seen := make(map[string]struct{})
	addresses := make([]string, 0)
	for _, pt := range points {
		if pt.Located {
			continue
		}
		a := strings.TrimSpace(pt.Address)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		addresses = append(addresses, a)
	}
	if len(addresses) == 0 {
		return points
	}

	resolved, err := p.Geocoder.Geocode(ctx, addresses)
	if err != nil {
		obs.L(ctx).WithError(err).
			WithField("addresses", len(addresses)).
			WithField("resolved", len(resolved)).
			Warn("geocoding delivery addresses failed")
	}
	p.Metrics.GeocodeResult(len(resolved), len(addresses)-len(resolved))
	if len(resolved) == 0 {
		return points
	}

	for i := range points {
		if points[i].Located {
			continue
		}
		if c, ok := resolved[strings.TrimSpace(points[i].Address)]; ok {
			points[i].Coordinates = c
			points[i].Located = true
		}
	}

	if err := p.Orders.SaveAddressCoordinates(ctx, resolved); err != nil {
		obs.L(ctx).WithError(err).Warn("persist geocoded addresses failed")
	}

	return points
}

// BuildPlan is the pure part of planning: classify located points into
// zones and sequence each requested zone from the store location. A store
// without a divider line has a single delivery area, reported as Zone1.
func BuildPlan(
	store *domain.Store,
	date string,
	points []domain.DeliveryPoint,
	zone domain.Zone,
	opts RouteOptions,
) *domain.DeliveryPlan {
	located := make([]domain.DeliveryPoint, 0, len(points))
	unlocated := make([]domain.DeliveryPoint, 0)
	for _, pt := range points {
		if pt.Located {
			located = append(located, pt)
		} else {
			unlocated = append(unlocated, pt)
		}
	}

	var zones Zones[domain.DeliveryPoint]
	if store.Divider != nil {
		zones = GroupByZone(located, *store.Divider)
	} else {
		zones = Zones[domain.DeliveryPoint]{
			Zone1:      located,
			Zone2:      []domain.DeliveryPoint{},
			Unassigned: []domain.DeliveryPoint{},
		}
	}

	plan := &domain.DeliveryPlan{
		StoreID:    store.StoreID,
		StoreName:  store.Name,
		Date:       date,
		Start:      store.Location,
		Routes:     make([]domain.DeliveryRoute, 0, 2),
		Unassigned: zones.Unassigned,
		Unlocated:  unlocated,
		Counts:     domain.CountStatuses(points),
	}

	requested := []domain.Zone{domain.Zone1, domain.Zone2}
	if zone.Valid() {
		requested = []domain.Zone{zone}
	}

	for _, z := range requested {
		ordered := FindOptimalRoute(store.Location, zones.Of(z))
		if opts.Optimize {
			ordered = TwoOpt(store.Location, ordered, opts.MaxPasses)
		}

		route := NewDeliveryRoute(store.StoreID, date, z, store.Location, ordered, opts.ReturnToStore)
		route.Optimized = opts.Optimize
		plan.Routes = append(plan.Routes, *route)
	}

	return plan
}
