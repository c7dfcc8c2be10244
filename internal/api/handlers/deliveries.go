package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"tiffin-route-service/internal/api/dto"
	"tiffin-route-service/internal/domain"
	"tiffin-route-service/internal/services"
)

type DeliveryHandler struct {
	Planner *services.Planner
	Clock   Clock
}

// Clock yields "today" in the service timezone.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func (c Clock) Today() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc).Format(services.DateLayout)
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", name, raw)
	}
	return v, nil
}

// Plan sequences the store's deliveries for a day, per zone.
func (h *DeliveryHandler) Plan(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	date := strings.TrimSpace(q.Get("date"))
	if date == "" {
		date = h.Clock.Today()
	}

	zone, err := domain.ParseZone(q.Get("zone"))
	if err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	optimize, err := queryBool(r, "optimize")
	if err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	returnToStore, err := queryBool(r, "return_to_store")
	if err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	plan, err := h.Planner.PlanDeliveries(r.Context(), services.PlanDeliveriesRequest{
		StoreID:       chi.URLParam(r, "storeID"),
		Date:          date,
		Zone:          zone,
		StaffID:       q.Get("staff_id"),
		Optimize:      optimize,
		ReturnToStore: returnToStore,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, dto.NewPlanResponse(plan))
}
