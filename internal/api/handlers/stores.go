package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"tiffin-route-service/internal/api/dto"
	"tiffin-route-service/internal/ports"
	"tiffin-route-service/internal/services"
)

type StoreHandler struct {
	Stores ports.StoreRepository
	Cache  ports.PlanCache
}

func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	stores, err := h.Stores.ListStores(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	res := dto.ListStoresResponse{Stores: make([]dto.StoreResponse, 0, len(stores))}
	for _, s := range stores {
		res.Stores = append(res.Stores, dto.NewStoreResponse(s))
	}
	render.JSON(w, r, res)
}

func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Stores.GetStore(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, dto.NewStoreResponse(s))
}

// PutDivider replaces the line splitting the store's delivery area.
func (h *StoreHandler) PutDivider(w http.ResponseWriter, r *http.Request) {
	var req dto.DividerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	storeID := chi.URLParam(r, "storeID")
	if err := services.ConfigureDivider(r.Context(), h.Stores, h.Cache, storeID, req.DividerLine()); err != nil {
		renderError(w, r, err)
		return
	}

	s, err := h.Stores.GetStore(r.Context(), storeID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, dto.NewStoreResponse(s))
}
