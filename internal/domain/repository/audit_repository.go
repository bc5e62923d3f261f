package repository

import "github.com/tu-usuario/almacen-ti/internal/domain/entity"

// AuditRepository define el puerto append-only de auditoría.
type AuditRepository interface {
	Create(log *entity.AuditLog) error
	List(limit, offset int) ([]*entity.AuditLog, error)
}
