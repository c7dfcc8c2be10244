package dto

import (
	"strings"

	"tiffin-route-service/internal/domain"
)

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING ONGOING DELIVERED CANCELLED"`
	// Defaults to today in the service timezone.
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (s *StatusRequest) Normalize() {
	s.Status = strings.ToUpper(strings.TrimSpace(s.Status))
	s.Date = strings.TrimSpace(s.Date)
}

type StatusResponse struct {
	Kind    string `json:"kind"`
	OrderID string `json:"order_id"`
	Date    string `json:"date"`
	Status  string `json:"status"`
}

type PaymentRequest struct {
	AmountCents int64 `json:"amount_cents" validate:"required,gt=0,lte=10000000000"`
}

type CateringResponse struct {
	OrderID          string        `json:"order_id"`
	StoreID          string        `json:"store_id"`
	CustomerName     string        `json:"customer_name"`
	Address          string        `json:"address"`
	EventDate        string        `json:"event_date"`
	Fulfillment      string        `json:"fulfillment"`
	Status           string        `json:"status"`
	SubtotalCents    int64         `json:"subtotal_cents"`
	DiscountCents    int64         `json:"discount_cents"`
	DeliveryFeeCents int64         `json:"delivery_fee_cents"`
	TaxRate          float64       `json:"tax_rate"`
	Totals           domain.Totals `json:"totals"`
}

func NewCateringResponse(o *domain.CateringOrder, t domain.Totals) CateringResponse {
	return CateringResponse{
		OrderID:          o.OrderID,
		StoreID:          o.StoreID,
		CustomerName:     o.CustomerName,
		Address:          o.Address,
		EventDate:        o.EventDate,
		Fulfillment:      string(o.Fulfillment),
		Status:           string(o.Status),
		SubtotalCents:    o.Financials.SubtotalCents,
		DiscountCents:    o.Financials.DiscountCents,
		DeliveryFeeCents: o.Financials.DeliveryFeeCents,
		TaxRate:          o.Financials.TaxRate,
		Totals:           t,
	}
}

type AdHocOrderRequest struct {
	OrderID      string   `json:"order_id"`
	CustomerName string   `json:"customer_name"`
	Address      string   `json:"address"`
	Lat          *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng          *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
	Status       string   `json:"status" validate:"omitempty,oneof=PENDING ONGOING DELIVERED CANCELLED"`
}

type AdHocRouteRequest struct {
	Store         CoordinatesRequest  `json:"store"`
	Divider       *DividerRequest     `json:"divider"`
	Orders        []AdHocOrderRequest `json:"orders" validate:"dive"`
	Zone          int                 `json:"zone" validate:"omitempty,oneof=1 2"`
	Optimize      bool                `json:"optimize"`
	ReturnToStore bool                `json:"return_to_store"`
}

func (a *AdHocRouteRequest) Normalize() {
	for i := range a.Orders {
		a.Orders[i].Status = strings.ToUpper(strings.TrimSpace(a.Orders[i].Status))
	}
}

func (a *AdHocRouteRequest) Points() []domain.DeliveryPoint {
	out := make([]domain.DeliveryPoint, 0, len(a.Orders))
	for _, o := range a.Orders {
		out = append(out, domain.DeliveryPoint{
			OrderID:      o.OrderID,
			CustomerName: o.CustomerName,
			Address:      o.Address,
			Coordinates:  CoordinatesRequest{Lat: o.Lat, Lng: o.Lng}.Coordinates(),
			Status:       domain.DeliveryStatus(o.Status),
		})
	}
	return out
}
