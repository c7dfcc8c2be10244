package handlers

import (
	"net/http"

	"github.com/go-chi/render"

	"tiffin-route-service/internal/api/dto"
	"tiffin-route-service/internal/domain"
	"tiffin-route-service/internal/services"
)

// AdHocRoutes zones and sequences caller-supplied points without touching
// storage.
func AdHocRoutes(w http.ResponseWriter, r *http.Request) {
	var req dto.AdHocRouteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var divider *domain.DividerLine
	if req.Divider != nil {
		d := req.Divider.DividerLine()
		divider = &d
	}

	plan, err := services.PlanAdHoc(services.AdHocRequest{
		Start:   req.Store.Coordinates(),
		Divider: divider,
		Points:  req.Points(),
		Zone:    domain.Zone(req.Zone),
		Options: services.RouteOptions{
			Optimize:      req.Optimize,
			ReturnToStore: req.ReturnToStore,
		},
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, dto.NewPlanResponse(plan))
}
