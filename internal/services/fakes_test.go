package services

import (
	"context"
	"errors"
	"sync"

	"tiffin-route-service/internal/domain"
	"tiffin-route-service/internal/ports"
)

type fakeStores struct {
	stores map[string]*domain.Store
}

func (f *fakeStores) GetStore(_ context.Context, id string) (*domain.Store, error) {
	s, ok := f.stores[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStores) ListStores(context.Context) ([]*domain.Store, error) {
	out := make([]*domain.Store, 0, len(f.stores))
	for _, s := range f.stores {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStores) UpdateDivider(_ context.Context, id string, d domain.DividerLine) error {
	s, ok := f.stores[id]
	if !ok {
		return ports.ErrNotFound
	}
	s.Divider = &d
	return nil
}

type fakeStaff map[string]*domain.Staff

func (f fakeStaff) GetStaff(_ context.Context, id string) (*domain.Staff, error) {
	s, ok := f[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return s, nil
}

type statusUpdate struct {
	kind    domain.OrderKind
	orderID string
	date    string
	status  domain.DeliveryStatus
}

type fakeOrders struct {
	mu       sync.Mutex
	points   map[string][]domain.DeliveryPoint
	catering map[string]*domain.CateringOrder
	updates  []statusUpdate
	saved    map[string]domain.Coordinates
	listErr  error
	lists    int
}

func (f *fakeOrders) ListDeliveries(_ context.Context, storeID, date string) ([]domain.DeliveryPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.DeliveryPoint(nil), f.points[storeID+"|"+date]...), nil
}

func (f *fakeOrders) UpdateDeliveryStatus(_ context.Context, kind domain.OrderKind, orderID, date string, status domain.DeliveryStatus) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if orderID == "missing" {
		return "", ports.ErrNotFound
	}
	f.updates = append(f.updates, statusUpdate{kind, orderID, date, status})
	return "store-1", nil
}

func (f *fakeOrders) GetCateringOrder(_ context.Context, id string) (*domain.CateringOrder, error) {
	o, ok := f.catering[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) SaveCateringPayment(_ context.Context, id string, paid int64) error {
	o, ok := f.catering[id]
	if !ok {
		return ports.ErrNotFound
	}
	o.Financials.PaidCents = paid
	return nil
}

func (f *fakeOrders) SaveAddressCoordinates(_ context.Context, coords map[string]domain.Coordinates) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		f.saved = map[string]domain.Coordinates{}
	}
	for k, v := range coords {
		f.saved[k] = v
	}
	return nil
}

type fakeGeocoder struct {
	known map[string]domain.Coordinates
	err   error
	calls [][]string
}

func (f *fakeGeocoder) Geocode(_ context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	f.calls = append(f.calls, addresses)
	out := map[string]domain.Coordinates{}
	for _, a := range addresses {
		if c, ok := f.known[a]; ok {
			out[a] = c
		}
	}
	return out, f.err
}

type fakeCache struct {
	plans       map[ports.PlanKey]*domain.DeliveryPlan
	invalidated []string
	getErr      error
	genErr      error
	gens        map[string]int64
	// Runs after the plan data is loaded, before the plan is stored.
	onPut func()
}

func newFakeCache() *fakeCache {
	return &fakeCache{plans: map[ports.PlanKey]*domain.DeliveryPlan{}, gens: map[string]int64{}}
}

func (f *fakeCache) Get(_ context.Context, key ports.PlanKey) (*domain.DeliveryPlan, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	p, ok := f.plans[key]
	return p, ok, nil
}

func (f *fakeCache) Put(_ context.Context, key ports.PlanKey, plan *domain.DeliveryPlan) error {
	if f.onPut != nil {
		f.onPut()
	}
	f.plans[key] = plan
	return nil
}

func (f *fakeCache) Generation(_ context.Context, storeID string) (int64, error) {
	if f.genErr != nil {
		return 0, f.genErr
	}
	return f.gens[storeID], nil
}

func (f *fakeCache) Invalidate(_ context.Context, storeID string) error {
	f.invalidated = append(f.invalidated, storeID)
	f.gens[storeID]++
	for k := range f.plans {
		if k.StoreID == storeID {
			delete(f.plans, k)
		}
	}
	return nil
}

var errBoom = errors.New("boom")
