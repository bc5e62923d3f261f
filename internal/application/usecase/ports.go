package usecase

import (
	"context"

	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

// IdentityTxRunner ejecuta una función dentro de una transacción de BD,
// pasando repositorios atados a esa tx. Se usa para las mutaciones que tocan
// usuario y departamento a la vez (reasignación de jefe de departamento), que
// deben confirmarse o revertirse juntas.
type IdentityTxRunner interface {
	RunIdentity(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		deptRepo repository.DepartmentRepository,
		auditRepo repository.AuditRepository,
	) error) error
}

// MasterTxRunner ejecuta una función dentro de una transacción de BD para las
// mutaciones de datos maestros (artículos, bodegas, empleados). La escritura
// de auditoría viaja en la misma transacción que la mutación que la origina.
type MasterTxRunner interface {
	RunMaster(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		locationRepo repository.LocationRepository,
		empRepo repository.EmployeeRepository,
		auditRepo repository.AuditRepository,
	) error) error
}
