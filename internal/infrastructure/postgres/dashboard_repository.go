package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas agregadas del tablero sobre PostgreSQL.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador del tablero. Pasar pool o tx (Querier).
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// Counts arma los contadores del tablero. departmentID/requesterID vacíos =
// vista global (rol elevado); si no, acotan los contadores de solicitudes.
func (r *DashboardRepo) Counts(departmentID, requesterID string) (*repository.DashboardCounts, error) {
	ctx := context.Background()
	var c repository.DashboardCounts

	totals := `
		SELECT
			(SELECT count(*) FROM users WHERE is_active),
			(SELECT count(*) FROM departments WHERE is_active),
			(SELECT count(*) FROM items WHERE is_active),
			(SELECT count(*) FROM locations WHERE is_active),
			(SELECT count(*) FROM stock_balances b JOIN items i ON i.id = b.item_id
			 WHERE i.is_active AND b.quantity <= i.low_stock_threshold)`
	if err := r.q.QueryRow(ctx, totals).Scan(
		&c.TotalUsers, &c.TotalDepartments, &c.TotalItems, &c.TotalLocations, &c.LowStockItems,
	); err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}

	reqQuery := `
		SELECT
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status = 'approved')
		FROM stock_issue_requests`
	var args []any
	switch {
	case requesterID != "":
		reqQuery += ` WHERE requester_id = $1`
		args = append(args, requesterID)
	case departmentID != "":
		reqQuery += ` WHERE department_id = $1`
		args = append(args, departmentID)
	}
	if err := r.q.QueryRow(ctx, reqQuery, args...).Scan(&c.PendingRequests, &c.ApprovedRequests); err != nil {
		return nil, fmt.Errorf("dashboard requests: %w", err)
	}
	return &c, nil
}
