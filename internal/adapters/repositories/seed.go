package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tiffin-route-service/internal/domain"
)

// SeedFile is the on-disk layout consumed by SeedFromJSON.
type SeedFile struct {
	Stores   []SeedStore    `json:"stores"`
	Staff    []SeedStaff    `json:"staff"`
	Tiffin   []SeedTiffin   `json:"tiffin"`
	Catering []SeedCatering `json:"catering"`
}

type SeedStore struct {
	StoreID  string              `json:"store_id"`
	Name     string              `json:"name"`
	Address  string              `json:"address"`
	Location domain.Coordinates  `json:"location"`
	Divider  *domain.DividerLine `json:"divider,omitempty"`
}

type SeedStaff struct {
	StaffID string `json:"staff_id"`
	StoreID string `json:"store_id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Zone    int    `json:"zone"`
}

type SeedTiffin struct {
	OrderID      string              `json:"order_id"`
	StoreID      string              `json:"store_id"`
	CustomerName string              `json:"customer_name"`
	Address      string              `json:"address"`
	Location     *domain.Coordinates `json:"location,omitempty"`
	Fulfillment  string              `json:"fulfillment"`
	// Delivery date -> status.
	Statuses map[string]string `json:"statuses"`
}

type SeedCatering struct {
	OrderID          string              `json:"order_id"`
	StoreID          string              `json:"store_id"`
	CustomerName     string              `json:"customer_name"`
	Address          string              `json:"address"`
	Location         *domain.Coordinates `json:"location,omitempty"`
	Fulfillment      string              `json:"fulfillment"`
	EventDate        string              `json:"event_date"`
	Status           string              `json:"status"`
	SubtotalCents    int64               `json:"subtotal_cents"`
	DiscountCents    int64               `json:"discount_cents"`
	DeliveryFeeCents int64               `json:"delivery_fee_cents"`
	TaxRate          float64             `json:"tax_rate"`
	PaidCents        int64               `json:"paid_cents"`
}

// Records counts the rows a seed file will write.
func (f *SeedFile) Records() int {
	n := len(f.Stores) + len(f.Staff) + len(f.Catering)
	for _, t := range f.Tiffin {
		n += 1 + len(t.Statuses)
	}
	return n
}

func LoadSeedFile(path string) (*SeedFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load seed file %q: %w", path, err)
	}

	var f SeedFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("load seed file %q: decode: %w", path, err)
	}
	return &f, nil
}

// SeedFromJSON loads path and upserts its contents. onProgress, when set, is
// called once per written row.
func SeedFromJSON(ctx context.Context, db *sqlx.DB, path string, onProgress func()) (*SeedFile, error) {
	f, err := LoadSeedFile(path)
	if err != nil {
		return nil, err
	}
	if err := Seed(ctx, db, f, onProgress); err != nil {
		return nil, err
	}
	return f, nil
}

// Seed inserts every record of f in a single transaction. Rows that already
// exist are left as they are, so dividers, statuses, payments and geocoded
// coordinates recorded since the last run survive a reseed. Orders without
// an id are given a random one.
func Seed(ctx context.Context, db *sqlx.DB, f *SeedFile, onProgress func()) error {
	if db == nil {
		return errors.New("seed: DB is nil")
	}
	if onProgress == nil {
		onProgress = func() {}
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	storeQ := tx.Rebind(`
	INSERT INTO stores (
		store_id, name, address, lat, lng,
		divider_start_lat, divider_start_lng, divider_end_lat, divider_end_lng
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (store_id) DO NOTHING;
	`)
	for _, s := range f.Stores {
		if strings.TrimSpace(s.StoreID) == "" {
			return errors.New("seed: store without store_id")
		}
		var sLat, sLng, eLat, eLng any
		if s.Divider != nil {
			sLat, sLng = s.Divider.Start.Lat, s.Divider.Start.Lng
			eLat, eLng = s.Divider.End.Lat, s.Divider.End.Lng
		}
		if _, err := tx.ExecContext(ctx, storeQ,
			s.StoreID, s.Name, s.Address, s.Location.Lat, s.Location.Lng,
			sLat, sLng, eLat, eLng,
		); err != nil {
			return fmt.Errorf("seed store %q: %w", s.StoreID, err)
		}
		onProgress()
	}

	staffQ := tx.Rebind(`
	INSERT INTO staff (staff_id, store_id, name, role, zone)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (staff_id) DO NOTHING;
	`)
	for _, s := range f.Staff {
		id := s.StaffID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, staffQ, id, s.StoreID, s.Name, s.Role, s.Zone); err != nil {
			return fmt.Errorf("seed staff %q: %w", id, err)
		}
		onProgress()
	}

	tiffinQ := tx.Rebind(`
	INSERT INTO tiffin_subscriptions (order_id, store_id, customer_name, address, lat, lng, fulfillment)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (order_id) DO NOTHING;
	`)
	statusQ := tx.Rebind(`
	INSERT INTO tiffin_status (order_id, delivery_date, status)
	VALUES (?, ?, ?)
	ON CONFLICT (order_id, delivery_date) DO NOTHING;
	`)
	for _, t := range f.Tiffin {
		id := t.OrderID
		if id == "" {
			id = uuid.NewString()
		}
		lat, lng := nullableCoords(t.Location)
		if _, err := tx.ExecContext(ctx, tiffinQ,
			id, t.StoreID, t.CustomerName, t.Address, lat, lng, fulfillmentOrDefault(t.Fulfillment),
		); err != nil {
			return fmt.Errorf("seed tiffin %q: %w", id, err)
		}
		onProgress()

		for date, raw := range t.Statuses {
			st, err := domain.ParseDeliveryStatus(raw)
			if err != nil {
				return fmt.Errorf("seed tiffin %q on %s: %w", id, date, err)
			}
			if _, err := tx.ExecContext(ctx, statusQ, id, date, string(st)); err != nil {
				return fmt.Errorf("seed tiffin status %q on %s: %w", id, date, err)
			}
			onProgress()
		}
	}

	cateringQ := tx.Rebind(`
	INSERT INTO catering_orders (
		order_id, store_id, customer_name, address, lat, lng, fulfillment,
		event_date, status, subtotal_cents, discount_cents, delivery_fee_cents,
		tax_rate, paid_cents
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (order_id) DO NOTHING;
	`)
	for _, c := range f.Catering {
		id := c.OrderID
		if id == "" {
			id = uuid.NewString()
		}
		status := domain.StatusPending
		if c.Status != "" {
			st, err := domain.ParseDeliveryStatus(c.Status)
			if err != nil {
				return fmt.Errorf("seed catering %q: %w", id, err)
			}
			status = st
		}
		lat, lng := nullableCoords(c.Location)
		if _, err := tx.ExecContext(ctx, cateringQ,
			id, c.StoreID, c.CustomerName, c.Address, lat, lng, fulfillmentOrDefault(c.Fulfillment),
			c.EventDate, string(status), c.SubtotalCents, c.DiscountCents, c.DeliveryFeeCents,
			c.TaxRate, c.PaidCents,
		); err != nil {
			return fmt.Errorf("seed catering %q: %w", id, err)
		}
		onProgress()
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}
	return nil
}

func nullableCoords(c *domain.Coordinates) (any, any) {
	if c == nil {
		return nil, nil
	}
	return c.Lat, c.Lng
}

func fulfillmentOrDefault(s string) string {
	if s == "" {
		return string(domain.FulfillmentDelivery)
	}
	return strings.ToLower(s)
}
