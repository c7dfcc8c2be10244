package ports

import (
	"context"
	"tiffin-route-service/internal/domain"
)

// Port: access to the order records that feed route planning.
type OrderRepository interface {
	// Return the day's delivery-fulfilment tiffin and catering orders of a
	// store as delivery points. Pickup orders are never returned.
	ListDeliveries(ctx context.Context, storeID string, date string) ([]domain.DeliveryPoint, error)

	// Record the status of one order's delivery on date.
	UpdateDeliveryStatus(ctx context.Context, kind domain.OrderKind, orderID string, date string, status domain.DeliveryStatus) (storeID string, err error)

	GetCateringOrder(ctx context.Context, orderID string) (*domain.CateringOrder, error)
	SaveCateringPayment(ctx context.Context, orderID string, paidCents int64) error

	// Persist coordinates resolved for an address so later loads are located.
	SaveAddressCoordinates(ctx context.Context, coords map[string]domain.Coordinates) error
}
