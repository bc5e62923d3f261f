package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/almacen-ti/internal/application/dto"
	"github.com/tu-usuario/almacen-ti/internal/domain"
	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

// EmployeeUseCase implementa el registro de empleados. Los roles elevados
// operan sobre cualquier departamento; el HOD solo sobre el propio. Las
// mutaciones corren dentro de una transacción junto con su auditoría.
type EmployeeUseCase struct {
	txRunner MasterTxRunner
	empRepo  repository.EmployeeRepository
	deptRepo repository.DepartmentRepository
	userRepo repository.UserRepository
}

// NewEmployeeUseCase construye el caso de uso de empleados.
func NewEmployeeUseCase(
	txRunner MasterTxRunner,
	empRepo repository.EmployeeRepository,
	deptRepo repository.DepartmentRepository,
	userRepo repository.UserRepository,
) *EmployeeUseCase {
	return &EmployeeUseCase{txRunner: txRunner, empRepo: empRepo, deptRepo: deptRepo, userRepo: userRepo}
}

// canManage: rol elevado sobre cualquier departamento; hod solo sobre el suyo.
func (uc *EmployeeUseCase) canManage(actor *entity.User, departmentID *string) bool {
	if actor.Role.Elevated() {
		return true
	}
	if actor.Role != entity.RoleHOD || actor.DepartmentID == nil {
		return false
	}
	return departmentID != nil && *departmentID == *actor.DepartmentID
}

// Create registra un empleado. EmpID (ficha) es único.
func (uc *EmployeeUseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	if !uc.canManage(actor, in.DepartmentID) {
		return nil, fmt.Errorf("%w: sin permiso sobre el departamento", domain.ErrForbidden)
	}
	in.EmpID = strings.TrimSpace(in.EmpID)
	in.Name = strings.TrimSpace(in.Name)
	if in.EmpID == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: ficha y nombre son requeridos", domain.ErrInvalidInput)
	}
	if in.DepartmentID != nil && *in.DepartmentID != "" {
		dept, err := uc.deptRepo.GetByID(*in.DepartmentID)
		if err != nil {
			return nil, err
		}
		if dept == nil {
			return nil, fmt.Errorf("%w: departamento %s", domain.ErrNotFound, *in.DepartmentID)
		}
	}
	if in.UserID != nil && *in.UserID != "" {
		user, err := uc.userRepo.GetByID(*in.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, *in.UserID)
		}
	}
	now := time.Now()
	emp := &entity.Employee{
		ID:           uuid.New().String(),
		EmpID:        in.EmpID,
		Name:         in.Name,
		DepartmentID: in.DepartmentID,
		UserID:       in.UserID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := uc.txRunner.RunMaster(ctx, func(
		_ repository.ItemRepository,
		_ repository.LocationRepository,
		empRepo repository.EmployeeRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := empRepo.Create(emp); err != nil {
			return err
		}
		return auditRepo.Create(employeeAudit(emp.ID, entity.AuditCreate, actor.ID,
			fmt.Sprintf("Empleado %s registrado", emp.EmpID), now))
	})
	if err != nil {
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

// Update modifica un empleado.
func (uc *EmployeeUseCase) Update(ctx context.Context, actor *entity.User, id string, in dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	emp, err := uc.empRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, fmt.Errorf("%w: empleado %s", domain.ErrNotFound, id)
	}
	if !uc.canManage(actor, emp.DepartmentID) {
		return nil, fmt.Errorf("%w: sin permiso sobre el departamento", domain.ErrForbidden)
	}
	if in.Name != nil {
		emp.Name = strings.TrimSpace(*in.Name)
	}
	if in.DepartmentID != nil {
		if !uc.canManage(actor, in.DepartmentID) {
			return nil, fmt.Errorf("%w: sin permiso sobre el departamento destino", domain.ErrForbidden)
		}
		if *in.DepartmentID != "" {
			dept, err := uc.deptRepo.GetByID(*in.DepartmentID)
			if err != nil {
				return nil, err
			}
			if dept == nil {
				return nil, fmt.Errorf("%w: departamento %s", domain.ErrNotFound, *in.DepartmentID)
			}
			emp.DepartmentID = in.DepartmentID
		} else {
			emp.DepartmentID = nil
		}
	}
	if in.IsActive != nil {
		emp.IsActive = *in.IsActive
	}
	now := time.Now()
	emp.UpdatedAt = now
	err = uc.txRunner.RunMaster(ctx, func(
		_ repository.ItemRepository,
		_ repository.LocationRepository,
		empRepo repository.EmployeeRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := empRepo.Update(emp); err != nil {
			return err
		}
		return auditRepo.Create(employeeAudit(emp.ID, entity.AuditUpdate, actor.ID,
			fmt.Sprintf("Empleado %s actualizado", emp.EmpID), now))
	})
	if err != nil {
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

// Delete elimina el registro de un empleado.
func (uc *EmployeeUseCase) Delete(ctx context.Context, actor *entity.User, id string) error {
	emp, err := uc.empRepo.GetByID(id)
	if err != nil {
		return err
	}
	if emp == nil {
		return fmt.Errorf("%w: empleado %s", domain.ErrNotFound, id)
	}
	if !uc.canManage(actor, emp.DepartmentID) {
		return fmt.Errorf("%w: sin permiso sobre el departamento", domain.ErrForbidden)
	}
	return uc.txRunner.RunMaster(ctx, func(
		_ repository.ItemRepository,
		_ repository.LocationRepository,
		empRepo repository.EmployeeRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := empRepo.Delete(id); err != nil {
			return err
		}
		return auditRepo.Create(employeeAudit(emp.ID, entity.AuditDelete, actor.ID,
			fmt.Sprintf("Empleado %s eliminado", emp.EmpID), time.Now()))
	})
}

// Get devuelve un empleado por id.
func (uc *EmployeeUseCase) Get(actor *entity.User, id string) (*dto.EmployeeResponse, error) {
	emp, err := uc.empRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, fmt.Errorf("%w: empleado %s", domain.ErrNotFound, id)
	}
	if !uc.canManage(actor, emp.DepartmentID) {
		return nil, fmt.Errorf("%w: sin permiso sobre el departamento", domain.ErrForbidden)
	}
	return toEmployeeResponse(emp), nil
}

// List lista empleados. El HOD queda acotado a su propio departamento aunque
// pida otro filtro.
func (uc *EmployeeUseCase) List(actor *entity.User, departmentID string, limit, offset int) (*dto.EmployeeListResponse, error) {
	if !actor.Role.Elevated() {
		if actor.Role != entity.RoleHOD || actor.DepartmentID == nil {
			return nil, fmt.Errorf("%w: requiere rol elevado o hod", domain.ErrForbidden)
		}
		departmentID = *actor.DepartmentID
	}
	emps, err := uc.empRepo.List(departmentID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.EmployeeListResponse{
		Employees: make([]dto.EmployeeResponse, 0, len(emps)),
		Page:      dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, e := range emps {
		out.Employees = append(out.Employees, *toEmployeeResponse(e))
	}
	return out, nil
}

func employeeAudit(empID, action, actorID, detail string, now time.Time) *entity.AuditLog {
	return &entity.AuditLog{
		ID:         uuid.New().String(),
		EntityType: "Employee",
		EntityID:   empID,
		Action:     action,
		UserID:     actorID,
		Detail:     detail,
		CreatedAt:  now,
	}
}

func toEmployeeResponse(e *entity.Employee) *dto.EmployeeResponse {
	return &dto.EmployeeResponse{
		ID:           e.ID,
		EmpID:        e.EmpID,
		Name:         e.Name,
		DepartmentID: e.DepartmentID,
		UserID:       e.UserID,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
