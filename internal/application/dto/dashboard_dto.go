package dto

import "time"

// DashboardResponse contadores del tablero según el rol del usuario.
type DashboardResponse struct {
	TotalUsers       int `json:"total_users,omitempty"`
	TotalDepartments int `json:"total_departments,omitempty"`
	TotalItems       int `json:"total_items,omitempty"`
	TotalLocations   int `json:"total_locations,omitempty"`
	PendingRequests  int `json:"pending_requests"`
	ApprovedRequests int `json:"approved_requests"`
	LowStockItems    int `json:"low_stock_items"`
}

// AuditLogResponse entrada de auditoría.
type AuditLogResponse struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	UserID     string    `json:"user_id"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuditLogListResponse listado paginado.
type AuditLogListResponse struct {
	Logs []AuditLogResponse `json:"logs"`
	Page PageResponse       `json:"page"`
}
