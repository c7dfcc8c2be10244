package ports

import (
	"context"
	"tiffin-route-service/internal/domain"
)

// Port: a boundary for reading stores and their zone configuration.
type StoreRepository interface {
	GetStore(ctx context.Context, storeID string) (*domain.Store, error)
	ListStores(ctx context.Context) ([]*domain.Store, error)
	// Persist the divider line used to split the store's delivery area.
	UpdateDivider(ctx context.Context, storeID string, divider domain.DividerLine) error
}

// Port: staff lookups needed to resolve a driver's zone.
type StaffRepository interface {
	GetStaff(ctx context.Context, staffID string) (*domain.Staff, error)
}
