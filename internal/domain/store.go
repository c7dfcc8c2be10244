package domain

// Store is a kitchen location that dispatches deliveries.
// Divider is nil until the store's delivery zones are configured.
type Store struct {
	StoreID  string
	Name     string
	Address  string
	Location Coordinates
	Divider  *DividerLine
}
