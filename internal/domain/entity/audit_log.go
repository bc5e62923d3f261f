package entity

import "time"

// Acciones registradas en auditoría.
const (
	AuditCreate  = "CREATE"
	AuditUpdate  = "UPDATE"
	AuditDelete  = "DELETE"
	AuditSubmit  = "SUBMIT"
	AuditApprove = "APPROVE"
	AuditReject  = "REJECT"
	AuditIssue   = "ISSUE"
)

// AuditLog es una entrada inmutable de auditoría. Se escribe siempre dentro
// de la misma transacción que la mutación que la origina.
type AuditLog struct {
	ID         string
	EntityType string
	EntityID   string
	Action     string
	UserID     string
	Detail     string
	CreatedAt  time.Time
}
