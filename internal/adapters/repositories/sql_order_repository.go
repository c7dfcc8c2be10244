package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"tiffin-route-service/internal/domain"
	"tiffin-route-service/internal/ports"
)

// SQL-backed implementation of the OrderRepository port.
type SQLOrderRepository struct{ DB *sqlx.DB }

func NewSQLOrderRepository(db *sqlx.DB) *SQLOrderRepository {
	return &SQLOrderRepository{DB: db}
}

type deliveryRow struct {
	OrderID      string          `db:"order_id"`
	CustomerName string          `db:"customer_name"`
	Address      string          `db:"address"`
	Lat          sql.NullFloat64 `db:"lat"`
	Lng          sql.NullFloat64 `db:"lng"`
	Status       string          `db:"status"`
}

func (r deliveryRow) toPoint(kind domain.OrderKind) domain.DeliveryPoint {
	p := domain.DeliveryPoint{
		OrderID:      r.OrderID,
		Kind:         kind,
		CustomerName: r.CustomerName,
		Address:      r.Address,
		Status:       domain.DeliveryStatus(r.Status),
	}
	if r.Lat.Valid && r.Lng.Valid {
		p.Coordinates = domain.Coordinates{Lat: r.Lat.Float64, Lng: r.Lng.Float64}
		p.Located = true
	}
	return p
}

// Return the day's delivery orders: tiffin status rows first, then catering,
// each ordered by order id.
func (s *SQLOrderRepository) ListDeliveries(ctx context.Context, storeID string, date string) ([]domain.DeliveryPoint, error) {
	if s.DB == nil {
		return nil, errors.New("sql order repository: DB is nil")
	}

	tiffinQuery := s.DB.Rebind(`
	SELECT
		t.order_id,
		t.customer_name,
		t.address,
		t.lat,
		t.lng,
		st.status
	FROM tiffin_status st
	JOIN tiffin_subscriptions t ON t.order_id = st.order_id
	WHERE t.store_id = ?
		AND st.delivery_date = ?
		AND t.fulfillment = 'delivery'
	ORDER BY t.order_id;
	`)
	var tiffin []deliveryRow
	if err := s.DB.SelectContext(ctx, &tiffin, tiffinQuery, storeID, date); err != nil {
		return nil, fmt.Errorf("list deliveries: query tiffin_status table: %w", err)
	}

	cateringQuery := s.DB.Rebind(`
	SELECT
		order_id,
		customer_name,
		address,
		lat,
		lng,
		status
	FROM catering_orders
	WHERE store_id = ?
		AND event_date = ?
		AND fulfillment = 'delivery'
	ORDER BY order_id;
	`)
	var catering []deliveryRow
	if err := s.DB.SelectContext(ctx, &catering, cateringQuery, storeID, date); err != nil {
		return nil, fmt.Errorf("list deliveries: query catering_orders table: %w", err)
	}

	points := make([]domain.DeliveryPoint, 0, len(tiffin)+len(catering))
	for _, r := range tiffin {
		points = append(points, r.toPoint(domain.KindTiffin))
	}
	for _, r := range catering {
		points = append(points, r.toPoint(domain.KindCatering))
	}
	return points, nil
}

func (s *SQLOrderRepository) UpdateDeliveryStatus(
	ctx context.Context,
	kind domain.OrderKind,
	orderID string,
	date string,
	status domain.DeliveryStatus,
) (string, error) {
	if s.DB == nil {
		return "", errors.New("sql order repository: DB is nil")
	}

	switch kind {
	case domain.KindTiffin:
		return s.updateTiffinStatus(ctx, orderID, date, status)
	case domain.KindCatering:
		return s.updateCateringStatus(ctx, orderID, date, status)
	default:
		return "", fmt.Errorf("update delivery status: unknown order kind %q", kind)
	}
}

func (s *SQLOrderRepository) updateTiffinStatus(ctx context.Context, orderID, date string, status domain.DeliveryStatus) (string, error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("update tiffin status: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var storeID string
	q := tx.Rebind(`SELECT store_id FROM tiffin_subscriptions WHERE order_id = ?;`)
	if err := tx.GetContext(ctx, &storeID, q, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("update tiffin status %q: %w", orderID, ports.ErrNotFound)
		}
		return "", fmt.Errorf("update tiffin status %q: query subscription: %w", orderID, err)
	}

	upsert := tx.Rebind(`
	INSERT INTO tiffin_status (order_id, delivery_date, status)
	VALUES (?, ?, ?)
	ON CONFLICT (order_id, delivery_date) DO UPDATE
	SET status = excluded.status;
	`)
	if _, err := tx.ExecContext(ctx, upsert, orderID, date, string(status)); err != nil {
		return "", fmt.Errorf("update tiffin status %q: upsert: %w", orderID, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("update tiffin status %q: commit tx: %w", orderID, err)
	}
	return storeID, nil
}

func (s *SQLOrderRepository) updateCateringStatus(ctx context.Context, orderID, date string, status domain.DeliveryStatus) (string, error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("update catering status: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var storeID string
	q := tx.Rebind(`SELECT store_id FROM catering_orders WHERE order_id = ? AND event_date = ?;`)
	if err := tx.GetContext(ctx, &storeID, q, orderID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("update catering status %q on %s: %w", orderID, date, ports.ErrNotFound)
		}
		return "", fmt.Errorf("update catering status %q: query order: %w", orderID, err)
	}

	upd := tx.Rebind(`UPDATE catering_orders SET status = ? WHERE order_id = ?;`)
	if _, err := tx.ExecContext(ctx, upd, string(status), orderID); err != nil {
		return "", fmt.Errorf("update catering status %q: %w", orderID, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("update catering status %q: commit tx: %w", orderID, err)
	}
	return storeID, nil
}

type cateringRow struct {
	OrderID          string  `db:"order_id"`
	StoreID          string  `db:"store_id"`
	CustomerName     string  `db:"customer_name"`
	Address          string  `db:"address"`
	Fulfillment      string  `db:"fulfillment"`
	EventDate        string  `db:"event_date"`
	Status           string  `db:"status"`
	SubtotalCents    int64   `db:"subtotal_cents"`
	DiscountCents    int64   `db:"discount_cents"`
	DeliveryFeeCents int64   `db:"delivery_fee_cents"`
	TaxRate          float64 `db:"tax_rate"`
	PaidCents        int64   `db:"paid_cents"`
}

func (s *SQLOrderRepository) GetCateringOrder(ctx context.Context, orderID string) (*domain.CateringOrder, error) {
	if s.DB == nil {
		return nil, errors.New("sql order repository: DB is nil")
	}

	q := s.DB.Rebind(`
	SELECT
		order_id,
		store_id,
		customer_name,
		address,
		fulfillment,
		event_date,
		status,
		subtotal_cents,
		discount_cents,
		delivery_fee_cents,
		tax_rate,
		paid_cents
	FROM catering_orders
	WHERE order_id = ?;
	`)
	var r cateringRow
	if err := s.DB.GetContext(ctx, &r, q, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get catering order %q: %w", orderID, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("get catering order %q: %w", orderID, err)
	}

	return &domain.CateringOrder{
		OrderID:      r.OrderID,
		StoreID:      r.StoreID,
		CustomerName: r.CustomerName,
		Address:      r.Address,
		EventDate:    r.EventDate,
		Fulfillment:  domain.Fulfillment(r.Fulfillment),
		Status:       domain.DeliveryStatus(r.Status),
		Financials: domain.Financials{
			SubtotalCents:    r.SubtotalCents,
			DiscountCents:    r.DiscountCents,
			DeliveryFeeCents: r.DeliveryFeeCents,
			TaxRate:          r.TaxRate,
			PaidCents:        r.PaidCents,
		},
	}, nil
}

func (s *SQLOrderRepository) SaveCateringPayment(ctx context.Context, orderID string, paidCents int64) error {
	if s.DB == nil {
		return errors.New("sql order repository: DB is nil")
	}

	q := s.DB.Rebind(`UPDATE catering_orders SET paid_cents = ? WHERE order_id = ?;`)
	res, err := s.DB.ExecContext(ctx, q, paidCents, orderID)
	if err != nil {
		return fmt.Errorf("save catering payment %q: %w", orderID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save catering payment %q: rows affected: %w", orderID, err)
	}
	if n == 0 {
		return fmt.Errorf("save catering payment %q: %w", orderID, ports.ErrNotFound)
	}
	return nil
}

// Fill in coordinates on every order whose address was still unlocated.
func (s *SQLOrderRepository) SaveAddressCoordinates(ctx context.Context, coords map[string]domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("sql order repository: DB is nil")
	}
	if len(coords) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save address coordinates: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"tiffin_subscriptions", "catering_orders"} {
		q := tx.Rebind(fmt.Sprintf(`UPDATE %s SET lat = ?, lng = ? WHERE address = ? AND lat IS NULL;`, table))
		for addr, c := range coords {
			if strings.TrimSpace(addr) == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, q, c.Lat, c.Lng, addr); err != nil {
				return fmt.Errorf("save address coordinates %s addr=%q: %w", table, addr, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save address coordinates: commit tx: %w", err)
	}
	return nil
}

// ListUnlocatedAddresses returns distinct order addresses without coordinates.
func (s *SQLOrderRepository) ListUnlocatedAddresses(ctx context.Context) ([]string, error) {
	if s.DB == nil {
		return nil, errors.New("sql order repository: DB is nil")
	}

	q := `
	SELECT address FROM tiffin_subscriptions WHERE lat IS NULL OR lng IS NULL
	UNION
	SELECT address FROM catering_orders WHERE lat IS NULL OR lng IS NULL
	ORDER BY address;
	`
	var out []string
	if err := s.DB.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list unlocated addresses: %w", err)
	}
	return out, nil
}
