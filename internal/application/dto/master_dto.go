package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Departments ───────────────────────────────────────────────────────────────

// CreateDepartmentRequest body para POST /api/departments.
type CreateDepartmentRequest struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	HODID *string `json:"hod_id,omitempty"`
}

// UpdateDepartmentRequest body para PUT /api/departments/:id.
type UpdateDepartmentRequest struct {
	Name     *string `json:"name,omitempty"`
	HODID    *string `json:"hod_id,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// DepartmentResponse representación de un departamento.
type DepartmentResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	HODID     *string   `json:"hod_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DepartmentListResponse listado paginado.
type DepartmentListResponse struct {
	Departments []DepartmentResponse `json:"departments"`
	Page        PageResponse         `json:"page"`
}

// ── Locations ─────────────────────────────────────────────────────────────────

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Code   string `json:"code"`
	Office string `json:"office"`
	Room   string `json:"room"`
}

// UpdateLocationRequest body para PUT /api/locations/:id.
type UpdateLocationRequest struct {
	Office   *string `json:"office,omitempty"`
	Room     *string `json:"room,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// LocationResponse representación de una bodega.
type LocationResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Office    string    `json:"office"`
	Room      string    `json:"room"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationListResponse listado paginado.
type LocationListResponse struct {
	Locations []LocationResponse `json:"locations"`
	Page      PageResponse       `json:"page"`
}

// ── Items ────────────────────────────────────────────────────────────────────

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Make              string          `json:"make,omitempty"`
	Variant           string          `json:"variant,omitempty"`
	Description       string          `json:"description,omitempty"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

// UpdateItemRequest body para PUT /api/items/:id.
type UpdateItemRequest struct {
	Name              *string          `json:"name,omitempty"`
	Make              *string          `json:"make,omitempty"`
	Variant           *string          `json:"variant,omitempty"`
	Description       *string          `json:"description,omitempty"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty"`
	IsActive          *bool            `json:"is_active,omitempty"`
}

// ItemResponse representación de un artículo.
type ItemResponse struct {
	ID                string          `json:"id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Make              string          `json:"make,omitempty"`
	Variant           string          `json:"variant,omitempty"`
	Description       string          `json:"description,omitempty"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ItemListResponse listado paginado.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ── Employees ────────────────────────────────────────────────────────────────

// CreateEmployeeRequest body para POST /api/employees.
type CreateEmployeeRequest struct {
	EmpID        string  `json:"emp_id"`
	Name         string  `json:"name"`
	DepartmentID *string `json:"department_id,omitempty"`
	UserID       *string `json:"user_id,omitempty"`
}

// UpdateEmployeeRequest body para PUT /api/employees/:id.
type UpdateEmployeeRequest struct {
	Name         *string `json:"name,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// EmployeeResponse representación de un empleado.
type EmployeeResponse struct {
	ID           string    `json:"id"`
	EmpID        string    `json:"emp_id"`
	Name         string    `json:"name"`
	DepartmentID *string   `json:"department_id,omitempty"`
	UserID       *string   `json:"user_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EmployeeListResponse listado paginado.
type EmployeeListResponse struct {
	Employees []EmployeeResponse `json:"employees"`
	Page      PageResponse       `json:"page"`
}
