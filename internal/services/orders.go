package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tiffin-route-service/internal/domain"
	"tiffin-route-service/internal/platform/obs"
	"tiffin-route-service/internal/ports"
)

type StatusUpdateRequest struct {
	Kind    domain.OrderKind
	OrderID string
	Date    string
	Status  domain.DeliveryStatus
}

// UpdateDeliveryStatus records a delivery status change and drops the cached
// plans of the order's store so counts and routes are recomputed.
func UpdateDeliveryStatus(
	ctx context.Context,
	req StatusUpdateRequest,
	repo ports.OrderRepository,
	cache ports.PlanCache,
	metrics *obs.Metrics,
) (err error) {
	defer obs.Time(ctx, "orders.UpdateDeliveryStatus")(&err)

	if !req.Kind.Valid() {
		return invalid("kind", "must be tiffin or catering, got %q", req.Kind)
	}
	if strings.TrimSpace(req.OrderID) == "" {
		return invalid("order_id", "must be non-empty")
	}
	if _, err := time.Parse(DateLayout, req.Date); err != nil {
		return invalid("date", "must be formatted YYYY-MM-DD, got %q", req.Date)
	}
	if !req.Status.Valid() {
		return invalid("status", "unknown status %q", req.Status)
	}

	storeID, err := repo.UpdateDeliveryStatus(ctx, req.Kind, req.OrderID, req.Date, req.Status)
	if err != nil {
		return fmt.Errorf("update delivery status: %s %s: %w", req.Kind, req.OrderID, err)
	}
	metrics.StatusUpdated(req.Status)

	if cache != nil {
		if err := cache.Invalidate(ctx, storeID); err != nil {
			obs.L(ctx).WithError(err).WithField("store_id", storeID).Warn("plan cache invalidation failed")
		}
	}

	return nil
}

// CateringSummary pairs a catering order with its recomputed totals.
type CateringSummary struct {
	Order  *domain.CateringOrder
	Totals domain.Totals
}

func GetCateringSummary(ctx context.Context, repo ports.OrderRepository, orderID string) (*CateringSummary, error) {
	order, err := repo.GetCateringOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get catering summary %q: %w", orderID, err)
	}
	return &CateringSummary{Order: order, Totals: order.Financials.Recompute()}, nil
}

// RecordCateringPayment applies a payment to a catering order and persists
// the new paid total. Totals are always recomputed from the stored inputs.
func RecordCateringPayment(
	ctx context.Context,
	repo ports.OrderRepository,
	orderID string,
	amountCents int64,
) (_ *CateringSummary, err error) {
	defer obs.Time(ctx, "orders.RecordCateringPayment")(&err)

	order, err := repo.GetCateringOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("record catering payment: get order %q: %w", orderID, err)
	}

	totals, err := order.Financials.ApplyPayment(amountCents)
	if errors.Is(err, domain.ErrInvalidPayment) {
		return nil, invalid("amount_cents", "%v", err)
	}
	if err != nil {
		return nil, fmt.Errorf("record catering payment: %w", err)
	}

	if err := repo.SaveCateringPayment(ctx, orderID, order.Financials.PaidCents); err != nil {
		return nil, fmt.Errorf("record catering payment: save order %q: %w", orderID, err)
	}

	return &CateringSummary{Order: order, Totals: totals}, nil
}

// ConfigureDivider validates and stores a store's divider line.
func ConfigureDivider(
	ctx context.Context,
	repo ports.StoreRepository,
	cache ports.PlanCache,
	storeID string,
	divider domain.DividerLine,
) error {
	if strings.TrimSpace(storeID) == "" {
		return invalid("store_id", "must be non-empty")
	}
	if !divider.Valid() {
		return invalid("divider", "endpoints must be valid, distinct coordinates")
	}

	if err := repo.UpdateDivider(ctx, storeID, divider); err != nil {
		return fmt.Errorf("configure divider: store %q: %w", storeID, err)
	}

	if cache != nil {
		if err := cache.Invalidate(ctx, storeID); err != nil {
			obs.L(ctx).WithError(err).WithField("store_id", storeID).Warn("plan cache invalidation failed")
		}
	}
	return nil
}
