package obs

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"tiffin-route-service/internal/domain"
)

// Metrics groups the service's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	httpDuration   *prometheus.HistogramVec
	httpResponses  *prometheus.CounterVec
	plans          *prometheus.CounterVec
	plannedStops   *prometheus.CounterVec
	unassigned     prometheus.Counter
	unlocated      prometheus.Counter
	planCache      *prometheus.CounterVec
	statusUpdates  *prometheus.CounterVec
	geocodeLookups *prometheus.CounterVec
}

const namespace = "tiffin_routes"

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "The duration of HTTP requests",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),
		httpResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "HTTP responses by status code",
		}, []string{"method", "route", "status"}),
		plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Delivery plans computed",
		}, []string{"optimized"}),
		plannedStops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "planned_stops_total",
			Help:      "Stops sequenced into routes",
		}, []string{"zone"}),
		unassigned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unassigned_points_total",
			Help:      "Delivery points that fell on a divider line",
		}),
		unlocated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unlocated_points_total",
			Help:      "Delivery points without coordinates at planning time",
		}),
		planCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_cache_lookups_total",
			Help:      "Plan cache lookups by result",
		}, []string{"result"}),
		statusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_updates_total",
			Help:      "Delivery status updates by new status",
		}, []string{"status"}),
		geocodeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_lookups_total",
			Help:      "Addresses sent to the geocoder by result",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.httpDuration, m.httpResponses, m.plans, m.plannedStops,
		m.unassigned, m.unlocated, m.planCache, m.statusUpdates, m.geocodeLookups,
	)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
	m.httpResponses.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObservePlan(plan *domain.DeliveryPlan, optimized bool) {
	if m == nil || plan == nil {
		return
	}
	m.plans.WithLabelValues(strconv.FormatBool(optimized)).Inc()
	for _, r := range plan.Routes {
		m.plannedStops.WithLabelValues(r.Zone.String()).Add(float64(len(r.Stops)))
	}
	m.unassigned.Add(float64(len(plan.Unassigned)))
	m.unlocated.Add(float64(len(plan.Unlocated)))
}

func (m *Metrics) PlanCacheResult(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.planCache.WithLabelValues(result).Inc()
}

func (m *Metrics) StatusUpdated(status domain.DeliveryStatus) {
	if m == nil {
		return
	}
	m.statusUpdates.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) GeocodeResult(resolved, unresolved int) {
	if m == nil {
		return
	}
	m.geocodeLookups.WithLabelValues("resolved").Add(float64(resolved))
	m.geocodeLookups.WithLabelValues("unresolved").Add(float64(unresolved))
}
