package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tiffin-route-service/internal/domain"
	"tiffin-route-service/internal/ports"
)

// SQL-backed implementation of the StoreRepository and StaffRepository ports.
type SQLStoreRepository struct{ DB *sqlx.DB }

func NewSQLStoreRepository(db *sqlx.DB) *SQLStoreRepository {
	return &SQLStoreRepository{DB: db}
}

type storeRow struct {
	StoreID         string          `db:"store_id"`
	Name            string          `db:"name"`
	Address         string          `db:"address"`
	Lat             float64         `db:"lat"`
	Lng             float64         `db:"lng"`
	DividerStartLat sql.NullFloat64 `db:"divider_start_lat"`
	DividerStartLng sql.NullFloat64 `db:"divider_start_lng"`
	DividerEndLat   sql.NullFloat64 `db:"divider_end_lat"`
	DividerEndLng   sql.NullFloat64 `db:"divider_end_lng"`
}

func (r storeRow) toDomain() *domain.Store {
	s := &domain.Store{
		StoreID:  r.StoreID,
		Name:     r.Name,
		Address:  r.Address,
		Location: domain.Coordinates{Lat: r.Lat, Lng: r.Lng},
	}
	// A divider is only usable when all four ends are set.
	if r.DividerStartLat.Valid && r.DividerStartLng.Valid && r.DividerEndLat.Valid && r.DividerEndLng.Valid {
		s.Divider = &domain.DividerLine{
			Start: domain.Coordinates{Lat: r.DividerStartLat.Float64, Lng: r.DividerStartLng.Float64},
			End:   domain.Coordinates{Lat: r.DividerEndLat.Float64, Lng: r.DividerEndLng.Float64},
		}
	}
	return s
}

const storeColumns = `
	store_id,
	name,
	address,
	lat,
	lng,
	divider_start_lat,
	divider_start_lng,
	divider_end_lat,
	divider_end_lng
`

func (s *SQLStoreRepository) GetStore(ctx context.Context, storeID string) (*domain.Store, error) {
	if s.DB == nil {
		return nil, errors.New("sql store repository: DB is nil")
	}

	var row storeRow
	q := s.DB.Rebind(`SELECT` + storeColumns + `FROM stores WHERE store_id = ?;`)
	if err := s.DB.GetContext(ctx, &row, q, storeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get store %q: %w", storeID, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("get store %q: query stores table: %w", storeID, err)
	}

	return row.toDomain(), nil
}

func (s *SQLStoreRepository) ListStores(ctx context.Context) ([]*domain.Store, error) {
	if s.DB == nil {
		return nil, errors.New("sql store repository: DB is nil")
	}

	var rows []storeRow
	if err := s.DB.SelectContext(ctx, &rows, `SELECT`+storeColumns+`FROM stores ORDER BY store_id;`); err != nil {
		return nil, fmt.Errorf("list stores: query stores table: %w", err)
	}

	stores := make([]*domain.Store, 0, len(rows))
	for _, r := range rows {
		stores = append(stores, r.toDomain())
	}
	return stores, nil
}

func (s *SQLStoreRepository) UpdateDivider(ctx context.Context, storeID string, divider domain.DividerLine) error {
	if s.DB == nil {
		return errors.New("sql store repository: DB is nil")
	}

	q := s.DB.Rebind(`
	UPDATE stores
	SET divider_start_lat = ?,
		divider_start_lng = ?,
		divider_end_lat = ?,
		divider_end_lng = ?
	WHERE store_id = ?;
	`)
	res, err := s.DB.ExecContext(ctx, q,
		divider.Start.Lat, divider.Start.Lng,
		divider.End.Lat, divider.End.Lng,
		storeID,
	)
	if err != nil {
		return fmt.Errorf("update divider %q: %w", storeID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update divider %q: rows affected: %w", storeID, err)
	}
	if n == 0 {
		return fmt.Errorf("update divider %q: %w", storeID, ports.ErrNotFound)
	}
	return nil
}

type staffRow struct {
	StaffID string `db:"staff_id"`
	StoreID string `db:"store_id"`
	Name    string `db:"name"`
	Role    string `db:"role"`
	Zone    int    `db:"zone"`
}

func (s *SQLStoreRepository) GetStaff(ctx context.Context, staffID string) (*domain.Staff, error) {
	if s.DB == nil {
		return nil, errors.New("sql store repository: DB is nil")
	}

	var row staffRow
	q := s.DB.Rebind(`
	SELECT
		staff_id,
		store_id,
		name,
		role,
		zone
	FROM staff
	WHERE staff_id = ?;
	`)
	if err := s.DB.GetContext(ctx, &row, q, staffID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get staff %q: %w", staffID, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("get staff %q: query staff table: %w", staffID, err)
	}

	return &domain.Staff{
		StaffID: row.StaffID,
		StoreID: row.StoreID,
		Name:    row.Name,
		Role:    row.Role,
		Zone:    domain.Zone(row.Zone),
	}, nil
}
