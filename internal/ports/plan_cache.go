package ports

import (
	"context"
	"tiffin-route-service/internal/domain"
)

// PlanKey identifies a cached delivery plan.
type PlanKey struct {
	StoreID       string
	Date          string
	Zone          domain.Zone
	Optimize      bool
	ReturnToStore bool
	// Generation of the store's cache the plan was computed under.
	Generation int64
}

// Cache of planned deliveries. A miss is reported as (nil, false, nil).
type PlanCache interface {
	Get(ctx context.Context, key PlanKey) (*domain.DeliveryPlan, bool, error)
	Put(ctx context.Context, key PlanKey, plan *domain.DeliveryPlan) error
	// Current generation of a store's plans. Read it before loading the data
	// a plan is built from, so a plan computed across an Invalidate is
	// stored under a generation no reader asks for.
	Generation(ctx context.Context, storeID string) (int64, error)
	// Drop every cached plan of a store, whatever the date, and bump its
	// generation.
	Invalidate(ctx context.Context, storeID string) error
}
