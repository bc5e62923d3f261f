package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/almacen-ti/internal/domain"
	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

var _ repository.DepartmentRepository = (*DepartmentRepo)(nil)

// DepartmentRepo implementación de DepartmentRepository sobre PostgreSQL (usable con pool o tx).
type DepartmentRepo struct {
	q Querier
}

// NewDepartmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDepartmentRepository(q Querier) *DepartmentRepo {
	return &DepartmentRepo{q: q}
}

const deptColumns = `id, code, name, hod_id, is_active, created_at, updated_at`

// Create persiste un nuevo departamento.
func (r *DepartmentRepo) Create(dept *entity.Department) error {
	query := `
		INSERT INTO departments (id, code, name, hod_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		dept.ID, dept.Code, dept.Name, dept.HODID, dept.IsActive, dept.CreatedAt, dept.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código de departamento ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

// GetByID obtiene un departamento por ID.
func (r *DepartmentRepo) GetByID(id string) (*entity.Department, error) {
	return r.getBy("id = $1", id)
}

// GetByCode obtiene un departamento por código.
func (r *DepartmentRepo) GetByCode(code string) (*entity.Department, error) {
	return r.getBy("code = $1", code)
}

func (r *DepartmentRepo) getBy(where string, arg any) (*entity.Department, error) {
	query := `SELECT ` + deptColumns + ` FROM departments WHERE ` + where
	var d entity.Department
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&d.ID, &d.Code, &d.Name, &d.HODID, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return &d, nil
}

// Update actualiza nombre y estado (el HOD se maneja vía SetHOD).
func (r *DepartmentRepo) Update(dept *entity.Department) error {
	query := `UPDATE departments SET name = $2, is_active = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		dept.ID, dept.Name, dept.IsActive, dept.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

// List lista departamentos con paginación.
func (r *DepartmentRepo) List(limit, offset int) ([]*entity.Department, error) {
	query := `SELECT ` + deptColumns + ` FROM departments ORDER BY code LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limitClamp(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var depts []*entity.Department
	for rows.Next() {
		var d entity.Department
		if err := rows.Scan(&d.ID, &d.Code, &d.Name, &d.HODID, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		depts = append(depts, &d)
	}
	return depts, rows.Err()
}

// SetHOD fija (o limpia, con nil) la referencia al jefe del departamento.
func (r *DepartmentRepo) SetHOD(deptID string, hodID *string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE departments SET hod_id = $2, updated_at = now() WHERE id = $1`,
		deptID, hodID,
	)
	if err != nil {
		return fmt.Errorf("set department hod: %w", err)
	}
	return nil
}
