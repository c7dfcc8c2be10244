package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiffin-route-service/internal/adapters/cache"
	"tiffin-route-service/internal/adapters/geocoding"
	"tiffin-route-service/internal/adapters/repositories"
	"tiffin-route-service/internal/api/dto"
	"tiffin-route-service/internal/api/handlers"
	"tiffin-route-service/internal/domain"
	"tiffin-route-service/internal/platform/db"
	"tiffin-route-service/internal/platform/obs"
	"tiffin-route-service/internal/ports"
	"tiffin-route-service/internal/services"
)

const today = "2025-03-10"

func loc(lat, lng float64) *domain.Coordinates {
	return &domain.Coordinates{Lat: lat, Lng: lng}
}

// The divider runs west to east along lat 43.70: orders north of it are
// zone 1, south of it zone 2.
func fixture() *repositories.SeedFile {
	return &repositories.SeedFile{
		Stores: []repositories.SeedStore{{
			StoreID:  "s1",
			Name:     "Midtown Kitchen",
			Location: domain.Coordinates{Lat: 43.70, Lng: -79.30},
			Divider: &domain.DividerLine{
				Start: domain.Coordinates{Lat: 43.70, Lng: -79.40},
				End:   domain.Coordinates{Lat: 43.70, Lng: -79.20},
			},
		}},
		Staff: []repositories.SeedStaff{
			{StaffID: "d2", StoreID: "s1", Name: "Ana", Role: domain.RoleDriver, Zone: 2},
		},
		Tiffin: []repositories.SeedTiffin{
			{OrderID: "t1", StoreID: "s1", CustomerName: "Far North", Address: "1 North Rd",
				Location: loc(43.75, -79.30), Statuses: map[string]string{today: "PENDING"}},
			{OrderID: "t2", StoreID: "s1", CustomerName: "Near North", Address: "2 North Rd",
				Location: loc(43.72, -79.30), Statuses: map[string]string{today: "DELIVERED"}},
			{OrderID: "t3", StoreID: "s1", CustomerName: "South", Address: "3 South Rd",
				Location: loc(43.65, -79.30), Statuses: map[string]string{today: "PENDING"}},
			{OrderID: "t4", StoreID: "s1", CustomerName: "Unknown", Address: "4 Nowhere",
				Statuses: map[string]string{today: "PENDING"}},
		},
		Catering: []repositories.SeedCatering{
			{OrderID: "c1", StoreID: "s1", CustomerName: "On The Line", Address: "5 Line Ave",
				Location: loc(43.70, -79.25), EventDate: today, Status: "ONGOING",
				SubtotalCents: 10000, DeliveryFeeCents: 1000, TaxRate: 0.13},
		},
	}
}

type testServer struct {
	handler http.Handler
	redis   *miniredis.Miniredis
}

func newTestServer(t *testing.T, geocoder ...ports.Geocoder) *testServer {
	t.Helper()
	ctx := context.Background()

	conn, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(ctx, conn))
	require.NoError(t, repositories.Seed(ctx, conn, fixture(), nil))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	reg := prometheus.NewRegistry()
	metrics := obs.NewMetrics(reg)

	stores := repositories.NewSQLStoreRepository(conn)
	orders := repositories.NewSQLOrderRepository(conn)
	planCache := cache.NewRedisPlanCache(rdb, time.Minute)

	var g ports.Geocoder
	if len(geocoder) > 0 {
		g = geocoder[0]
	}

	clock := handlers.Clock{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) },
	}

	h := NewRouter(Deps{
		Planner: &services.Planner{
			Stores:   stores,
			Staff:    stores,
			Orders:   orders,
			Geocoder: g,
			Cache:    planCache,
			Metrics:  metrics,
		},
		Stores:   stores,
		Orders:   orders,
		Cache:    planCache,
		Metrics:  metrics,
		Gatherer: reg,
		Clock:    clock,
	})
	return &testServer{handler: h, redis: mr}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func stopIDs(r dto.RouteResponse) []string {
	out := make([]string, 0, len(r.Stops))
	for _, s := range r.Stops {
		out = append(out, s.OrderID)
	}
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestStores(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/stores", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[dto.ListStoresResponse](t, rec)
	require.Len(t, list.Stores, 1)
	assert.Equal(t, "Midtown Kitchen", list.Stores[0].Name)

	rec = s.do(t, http.MethodGet, "/stores/s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	store := decode[dto.StoreResponse](t, rec)
	require.NotNil(t, store.Divider)

	rec = s.do(t, http.MethodGet, "/stores/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Resource not found.", decode[handlers.ErrResponse](t, rec).StatusText)
}

func TestPlanDeliveries(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/stores/s1/deliveries", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	plan := decode[dto.PlanResponse](t, rec)

	assert.Equal(t, today, plan.Date, "date defaults to today")
	require.Len(t, plan.Routes, 2)

	z1 := plan.Routes[0]
	assert.Equal(t, 1, z1.Zone)
	assert.Equal(t, []string{"t2", "t1"}, stopIDs(z1), "nearest first")
	assert.NotEmpty(t, z1.Polyline)
	assert.Len(t, z1.Stops[0].Geohash, dto.GeohashPrecision)
	assert.Equal(t, domain.StatusCounts{Total: 2, Pending: 1, Delivered: 1}, z1.Counts)

	z2 := plan.Routes[1]
	assert.Equal(t, []string{"t3"}, stopIDs(z2))

	require.Len(t, plan.Unassigned, 1)
	assert.Equal(t, "c1", plan.Unassigned[0].OrderID)
	require.Len(t, plan.Unlocated, 1)
	assert.Equal(t, "t4", plan.Unlocated[0].OrderID)
	assert.Nil(t, plan.Unlocated[0].Location)

	assert.Equal(t, domain.StatusCounts{Total: 5, Pending: 3, Ongoing: 1, Delivered: 1}, plan.Counts)
}

func TestPlanDeliveries_ZoneAndStaff(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/stores/s1/deliveries?date=2025-03-10&zone=1&return_to_store=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	plan := decode[dto.PlanResponse](t, rec)
	require.Len(t, plan.Routes, 1)
	assert.Equal(t, 1, plan.Routes[0].Zone)
	assert.Greater(t, plan.Routes[0].ReturnLegKm, 0.0)
	assert.True(t, plan.Routes[0].ReturnToStore)

	rec = s.do(t, http.MethodGet, "/stores/s1/deliveries?staff_id=d2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	plan = decode[dto.PlanResponse](t, rec)
	require.Len(t, plan.Routes, 1)
	assert.Equal(t, 2, plan.Routes[0].Zone)
}

func TestPlanDeliveries_BadInput(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{
		"/stores/s1/deliveries?zone=3",
		"/stores/s1/deliveries?optimize=maybe",
		"/stores/s1/deliveries?date=10-03-2025",
	} {
		rec := s.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}

	rec := s.do(t, http.MethodGet, "/stores/ghost/deliveries", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatus_InvalidatesCachedPlan(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/stores/s1/deliveries", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, s.redis.Keys(), "plan was cached")

	rec = s.do(t, http.MethodPatch, "/orders/tiffin/t1/status", map[string]string{"status": "delivered"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[dto.StatusResponse](t, rec)
	assert.Equal(t, "DELIVERED", res.Status)
	assert.Equal(t, today, res.Date)
	assert.Empty(t, s.redis.Keys(), "store plans dropped")

	rec = s.do(t, http.MethodGet, "/stores/s1/deliveries", nil)
	plan := decode[dto.PlanResponse](t, rec)
	assert.Equal(t, 2, plan.Counts.Delivered)
}

func TestUpdateStatus_Errors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPatch, "/orders/tiffin/t1/status", map[string]string{"status": "LOST"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errRes := decode[handlers.ErrResponse](t, rec)
	require.Len(t, errRes.ErrValidation, 1)
	assert.Contains(t, errRes.ErrValidation[0], "status")

	rec = s.do(t, http.MethodPatch, "/orders/meals/t1/status", map[string]string{"status": "PENDING"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, "/orders/tiffin/ghost/status", map[string]string{"status": "PENDING"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatering(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/catering/c1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[dto.CateringResponse](t, rec)
	assert.Equal(t, int64(11000), got.Totals.TaxableCents)
	assert.Equal(t, int64(1430), got.Totals.TaxCents)
	assert.Equal(t, int64(12430), got.Totals.BalanceCents)
	assert.False(t, got.Totals.Settled)

	rec = s.do(t, http.MethodPost, "/catering/c1/payments", map[string]int64{"amount_cents": 12430})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = decode[dto.CateringResponse](t, rec)
	assert.True(t, got.Totals.Settled)
	assert.Equal(t, int64(0), got.Totals.BalanceCents)

	rec = s.do(t, http.MethodPost, "/catering/c1/payments", map[string]int64{"amount_cents": -5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/catering/c1/payments", map[string]int64{"amount_cents": math.MaxInt64})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodGet, "/catering/c1", nil)
	got = decode[dto.CateringResponse](t, rec)
	assert.Equal(t, int64(0), got.Totals.BalanceCents, "rejected payment leaves the paid total alone")

	rec = s.do(t, http.MethodGet, "/catering/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPutDivider(t *testing.T) {
	s := newTestServer(t)

	// A north-south divider at lng -79.30 puts every seeded stop on the line.
	body := map[string]any{
		"start": map[string]float64{"lat": 43.60, "lng": -79.30},
		"end":   map[string]float64{"lat": 43.80, "lng": -79.30},
	}
	rec := s.do(t, http.MethodPut, "/stores/s1/divider", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/stores/s1/deliveries?zone=1", nil)
	plan := decode[dto.PlanResponse](t, rec)
	assert.Len(t, plan.Unassigned, 3)

	rec = s.do(t, http.MethodPut, "/stores/s1/divider", map[string]any{
		"start": map[string]float64{"lat": 43.60},
		"end":   map[string]float64{"lat": 43.80, "lng": -79.30},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Identical endpoints do not define a line.
	rec = s.do(t, http.MethodPut, "/stores/s1/divider", map[string]any{
		"start": map[string]float64{"lat": 43.60, "lng": -79.30},
		"end":   map[string]float64{"lat": 43.60, "lng": -79.30},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdHocRoutes(t *testing.T) {
	s := newTestServer(t)

	body := map[string]any{
		"store": map[string]float64{"lat": 0, "lng": 0},
		"orders": []map[string]any{
			{"lat": 0, "lng": 1},
			{"lat": 0, "lng": 5},
			{"lat": 0, "lng": 2},
		},
	}
	rec := s.do(t, http.MethodPost, "/routes", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	plan := decode[dto.PlanResponse](t, rec)
	require.Len(t, plan.Routes, 2)
	assert.Equal(t, []string{"1", "3", "2"}, stopIDs(plan.Routes[0]))
	assert.Empty(t, plan.Routes[1].Stops)

	rec = s.do(t, http.MethodPost, "/routes", map[string]any{
		"store":  map[string]float64{"lat": 0, "lng": 0},
		"orders": []map[string]any{{"lat": 95, "lng": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/stores/s1/deliveries", nil)

	rec := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tiffin_routes_plans_total")
	assert.Contains(t, rec.Body.String(), "tiffin_routes_request_duration_seconds")
}

func TestPlanDeliveries_GeocodesUnlocatedOrders(t *testing.T) {
	g := geocoding.NewStaticGeocoder(map[string]domain.Coordinates{
		"4 Nowhere": {Lat: 43.68, Lng: -79.31},
	})
	s := newTestServer(t, g)

	rec := s.do(t, http.MethodGet, "/stores/s1/deliveries?zone=2", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	plan := decode[dto.PlanResponse](t, rec)

	assert.Empty(t, plan.Unlocated)
	require.Len(t, plan.Routes, 1)
	assert.Equal(t, []string{"t4", "t3"}, stopIDs(plan.Routes[0]))
	assert.NotEmpty(t, plan.Routes[0].Stops[0].Geohash)
}
