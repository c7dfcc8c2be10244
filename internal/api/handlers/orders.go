package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"tiffin-route-service/internal/api/dto"
	"tiffin-route-service/internal/domain"
	"tiffin-route-service/internal/platform/obs"
	"tiffin-route-service/internal/ports"
	"tiffin-route-service/internal/services"
)

type OrderHandler struct {
	Orders  ports.OrderRepository
	Cache   ports.PlanCache
	Metrics *obs.Metrics
	Clock   Clock
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.StatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Date == "" {
		req.Date = h.Clock.Today()
	}

	kind := domain.OrderKind(chi.URLParam(r, "kind"))
	orderID := chi.URLParam(r, "orderID")
	status := domain.DeliveryStatus(req.Status)

	err := services.UpdateDeliveryStatus(r.Context(), services.StatusUpdateRequest{
		Kind:    kind,
		OrderID: orderID,
		Date:    req.Date,
		Status:  status,
	}, h.Orders, h.Cache, h.Metrics)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, dto.StatusResponse{
		Kind:    string(kind),
		OrderID: orderID,
		Date:    req.Date,
		Status:  string(status),
	})
}

func (h *OrderHandler) GetCatering(w http.ResponseWriter, r *http.Request) {
	sum, err := services.GetCateringSummary(r.Context(), h.Orders, chi.URLParam(r, "orderID"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, dto.NewCateringResponse(sum.Order, sum.Totals))
}

func (h *OrderHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sum, err := services.RecordCateringPayment(r.Context(), h.Orders, chi.URLParam(r, "orderID"), req.AmountCents)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, dto.NewCateringResponse(sum.Order, sum.Totals))
}
