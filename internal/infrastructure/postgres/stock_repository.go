package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de existencias. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la existencia actual de un artículo en una bodega. Devuelve una
// fila en cero si el par no existe.
func (r *StockRepo) Get(itemID, locationID string) (*entity.StockBalance, error) {
	query := `
		SELECT item_id, location_id, quantity, updated_at
		FROM stock_balances WHERE item_id = $1 AND location_id = $2`
	var b entity.StockBalance
	err := r.q.QueryRow(context.Background(), query, itemID, locationID).Scan(
		&b.ItemID, &b.LocationID, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate obtiene la existencia y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(itemID, locationID string) (*entity.StockBalance, error) {
	query := `
		SELECT item_id, location_id, quantity, updated_at
		FROM stock_balances WHERE item_id = $1 AND location_id = $2
		FOR UPDATE`
	var b entity.StockBalance
	err := r.q.QueryRow(context.Background(), query, itemID, locationID).Scan(
		&b.ItemID, &b.LocationID, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock balance for update: %w", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza la existencia (por artículo y bodega).
func (r *StockRepo) Upsert(balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (item_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, balance.ItemID, balance.LocationID, balance.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock balance: %w", err)
	}
	return nil
}

// ListBalances lista existencias según el filtro.
func (r *StockRepo) ListBalances(filter repository.BalanceFilter) ([]*entity.StockBalance, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT item_id, location_id, quantity, updated_at FROM stock_balances`)
	var conds []string
	var args []any
	if filter.ItemID != "" {
		args = append(args, filter.ItemID)
		conds = append(conds, "item_id = $"+strconv.Itoa(len(args)))
	}
	if filter.LocationID != "" {
		args = append(args, filter.LocationID)
		conds = append(conds, "location_id = $"+strconv.Itoa(len(args)))
	}
	if filter.LocationIDs != nil {
		args = append(args, filter.LocationIDs)
		conds = append(conds, "location_id = ANY($"+strconv.Itoa(len(args))+")")
	}
	if filter.OnlyPositive {
		conds = append(conds, "quantity > 0")
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY item_id, location_id")

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list stock balances: %w", err)
	}
	defer rows.Close()

	var balances []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.ItemID, &b.LocationID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock balance: %w", err)
		}
		balances = append(balances, &b)
	}
	return balances, rows.Err()
}

// ListLowStock devuelve existencias en o por debajo del umbral del artículo,
// restringidas a las bodegas dadas (nil = todas).
func (r *StockRepo) ListLowStock(locationIDs []string) ([]*repository.LowStockRow, error) {
	query := `
		SELECT b.item_id, i.code, i.name, b.location_id, b.quantity, i.low_stock_threshold
		FROM stock_balances b
		JOIN items i ON i.id = b.item_id
		WHERE i.is_active AND b.quantity <= i.low_stock_threshold`
	var args []any
	if locationIDs != nil {
		query += ` AND b.location_id = ANY($1)`
		args = append(args, locationIDs)
	}
	query += ` ORDER BY i.code, b.location_id`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var out []*repository.LowStockRow
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(&row.ItemID, &row.ItemCode, &row.ItemName, &row.LocationID, &row.Quantity, &row.Threshold); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}
