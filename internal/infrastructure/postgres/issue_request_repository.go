package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/almacen-ti/internal/domain"
	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

var _ repository.IssueRequestRepository = (*IssueRequestRepo)(nil)

// IssueRequestRepo implementación de IssueRequestRepository sobre PostgreSQL
// (usable con pool o tx).
type IssueRequestRepo struct {
	q Querier
}

// NewIssueRequestRepository construye el adaptador de solicitudes. Pasar pool o tx (Querier).
func NewIssueRequestRepository(q Querier) *IssueRequestRepo {
	return &IssueRequestRepo{q: q}
}

const requestColumns = `id, request_no, requester_id, department_id, location_id, purpose, remarks,
	status, approved_by, approved_at, issued_by, issued_at, created_at, updated_at`

// Create persiste una nueva solicitud (sin líneas; van por CreateLine).
func (r *IssueRequestRepo) Create(req *entity.StockIssueRequest) error {
	query := `
		INSERT INTO stock_issue_requests (id, request_no, requester_id, department_id, location_id,
			purpose, remarks, status, approved_by, approved_at, issued_by, issued_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.RequestNo, req.RequesterID, req.DepartmentID, req.LocationID,
		req.Purpose, req.Remarks, string(req.Status), req.ApprovedBy, req.ApprovedAt,
		req.IssuedBy, req.IssuedAt, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de solicitud %s", domain.ErrDuplicate, req.RequestNo)
		}
		return fmt.Errorf("insert issue request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud con sus líneas.
func (r *IssueRequestRepo) GetByID(id string) (*entity.StockIssueRequest, error) {
	return r.getBy("id = $1", id, false)
}

// GetByNumber obtiene una solicitud por su número.
func (r *IssueRequestRepo) GetByNumber(requestNo string) (*entity.StockIssueRequest, error) {
	return r.getBy("request_no = $1", requestNo, false)
}

// GetByIDForUpdate obtiene la solicitud bloqueando su fila (SELECT FOR UPDATE).
func (r *IssueRequestRepo) GetByIDForUpdate(id string) (*entity.StockIssueRequest, error) {
	return r.getBy("id = $1", id, true)
}

func (r *IssueRequestRepo) getBy(where string, arg any, forUpdate bool) (*entity.StockIssueRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM stock_issue_requests WHERE ` + where
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var req entity.StockIssueRequest
	var status string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&req.ID, &req.RequestNo, &req.RequesterID, &req.DepartmentID, &req.LocationID,
		&req.Purpose, &req.Remarks, &status, &req.ApprovedBy, &req.ApprovedAt,
		&req.IssuedBy, &req.IssuedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get issue request: %w", err)
	}
	req.Status = entity.RequestStatus(status)
	if err := r.loadLines(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Update actualiza la cabecera de una solicitud.
func (r *IssueRequestRepo) Update(req *entity.StockIssueRequest) error {
	query := `
		UPDATE stock_issue_requests SET purpose = $2, remarks = $3, status = $4,
			approved_by = $5, approved_at = $6, issued_by = $7, issued_at = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.Purpose, req.Remarks, string(req.Status),
		req.ApprovedBy, req.ApprovedAt, req.IssuedBy, req.IssuedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update issue request: %w", err)
	}
	return nil
}

// Delete elimina una solicitud; las líneas caen por ON DELETE CASCADE.
func (r *IssueRequestRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_issue_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete issue request: %w", err)
	}
	return nil
}

// List lista solicitudes según el filtro de visibilidad, más recientes primero.
func (r *IssueRequestRepo) List(filter repository.RequestFilter) ([]*entity.StockIssueRequest, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + requestColumns + ` FROM stock_issue_requests`)
	var conds []string
	var args []any
	if filter.RequesterID != "" {
		args = append(args, filter.RequesterID)
		conds = append(conds, "requester_id = $"+strconv.Itoa(len(args)))
	}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		conds = append(conds, "department_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	args = append(args, limitClamp(filter.Limit))
	sb.WriteString(" ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)))
	args = append(args, filter.Offset)
	sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list issue requests: %w", err)
	}
	defer rows.Close()

	var reqs []*entity.StockIssueRequest
	for rows.Next() {
		var req entity.StockIssueRequest
		var status string
		if err := rows.Scan(
			&req.ID, &req.RequestNo, &req.RequesterID, &req.DepartmentID, &req.LocationID,
			&req.Purpose, &req.Remarks, &status, &req.ApprovedBy, &req.ApprovedAt,
			&req.IssuedBy, &req.IssuedAt, &req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan issue request: %w", err)
		}
		req.Status = entity.RequestStatus(status)
		reqs = append(reqs, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issue requests: %w", err)
	}
	for _, req := range reqs {
		if err := r.loadLines(req); err != nil {
			return nil, err
		}
	}
	return reqs, nil
}

// LastRequestNo devuelve el mayor número de solicitud con el prefijo dado
// ("" si no existe ninguno ese día). La secuencia diaria crece de 3 a 4
// dígitos pasadas las 999 solicitudes, de ahí el orden por longitud primero.
func (r *IssueRequestRepo) LastRequestNo(prefix string) (string, error) {
	var no string
	err := r.q.QueryRow(context.Background(),
		`SELECT request_no FROM stock_issue_requests
		 WHERE request_no LIKE $1 || '%'
		 ORDER BY length(request_no) DESC, request_no DESC LIMIT 1`, prefix).Scan(&no)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last request no: %w", err)
	}
	return no, nil
}

// CreateLine persiste una línea de la solicitud.
func (r *IssueRequestRepo) CreateLine(line *entity.StockIssueLine) error {
	query := `
		INSERT INTO stock_issue_lines (id, request_id, item_id, quantity_requested, quantity_issued, remarks)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.RequestID, line.ItemID, line.QuantityRequested, line.QuantityIssued, line.Remarks,
	)
	if err != nil {
		return fmt.Errorf("insert issue line: %w", err)
	}
	return nil
}

// GetLine obtiene una línea por id.
func (r *IssueRequestRepo) GetLine(lineID string) (*entity.StockIssueLine, error) {
	query := `
		SELECT id, request_id, item_id, quantity_requested, quantity_issued, remarks
		FROM stock_issue_lines WHERE id = $1`
	var l entity.StockIssueLine
	err := r.q.QueryRow(context.Background(), query, lineID).Scan(
		&l.ID, &l.RequestID, &l.ItemID, &l.QuantityRequested, &l.QuantityIssued, &l.Remarks,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get issue line: %w", err)
	}
	return &l, nil
}

// UpdateLine actualiza cantidades y observaciones de una línea.
func (r *IssueRequestRepo) UpdateLine(line *entity.StockIssueLine) error {
	query := `
		UPDATE stock_issue_lines SET quantity_requested = $2, quantity_issued = $3, remarks = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.QuantityRequested, line.QuantityIssued, line.Remarks,
	)
	if err != nil {
		return fmt.Errorf("update issue line: %w", err)
	}
	return nil
}

// DeleteLine elimina una línea.
func (r *IssueRequestRepo) DeleteLine(lineID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_issue_lines WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("delete issue line: %w", err)
	}
	return nil
}

func (r *IssueRequestRepo) loadLines(req *entity.StockIssueRequest) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, request_id, item_id, quantity_requested, quantity_issued, remarks
		 FROM stock_issue_lines WHERE request_id = $1 ORDER BY id`, req.ID)
	if err != nil {
		return fmt.Errorf("load issue lines: %w", err)
	}
	defer rows.Close()
	req.Lines = req.Lines[:0]
	for rows.Next() {
		var l entity.StockIssueLine
		if err := rows.Scan(&l.ID, &l.RequestID, &l.ItemID, &l.QuantityRequested, &l.QuantityIssued, &l.Remarks); err != nil {
			return fmt.Errorf("scan issue line: %w", err)
		}
		req.Lines = append(req.Lines, &l)
	}
	return rows.Err()
}
