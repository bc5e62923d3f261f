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

// DepartmentUseCase implementa el CRUD de departamentos y la asignación de su
// jefe (HOD).
type DepartmentUseCase struct {
	txRunner IdentityTxRunner
	deptRepo repository.DepartmentRepository
	userRepo repository.UserRepository
}

// NewDepartmentUseCase construye el caso de uso de departamentos.
func NewDepartmentUseCase(txRunner IdentityTxRunner, deptRepo repository.DepartmentRepository, userRepo repository.UserRepository) *DepartmentUseCase {
	return &DepartmentUseCase{txRunner: txRunner, deptRepo: deptRepo, userRepo: userRepo}
}

// Create crea un departamento. El código es único.
func (uc *DepartmentUseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	if !actor.Role.Elevated() {
		return nil, fmt.Errorf("%w: requiere rol elevado", domain.ErrForbidden)
	}
	in.Code = strings.TrimSpace(strings.ToUpper(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: código y nombre son requeridos", domain.ErrInvalidInput)
	}
	now := time.Now()
	dept := &entity.Department{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.txRunner.RunIdentity(ctx, func(
		userRepo repository.UserRepository,
		deptRepo repository.DepartmentRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := deptRepo.Create(dept); err != nil {
			return err
		}
		if in.HODID != nil && *in.HODID != "" {
			if err := assignHOD(userRepo, deptRepo, dept, *in.HODID, now); err != nil {
				return err
			}
		}
		return auditRepo.Create(deptAudit(dept.ID, entity.AuditCreate, actor.ID,
			fmt.Sprintf("Departamento %s creado", dept.Code), now))
	})
	if err != nil {
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

// Update modifica nombre, estado o jefe de un departamento. Asignar un jefe
// exige que el usuario tenga rol hod; *HODID vacío limpia la referencia.
func (uc *DepartmentUseCase) Update(ctx context.Context, actor *entity.User, id string, in dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error) {
	if !actor.Role.Elevated() {
		return nil, fmt.Errorf("%w: requiere rol elevado", domain.ErrForbidden)
	}
	dept, err := uc.deptRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, fmt.Errorf("%w: departamento %s", domain.ErrNotFound, id)
	}
	if in.Name != nil {
		dept.Name = strings.TrimSpace(*in.Name)
	}
	if in.IsActive != nil {
		dept.IsActive = *in.IsActive
	}
	now := time.Now()
	dept.UpdatedAt = now

	err = uc.txRunner.RunIdentity(ctx, func(
		userRepo repository.UserRepository,
		deptRepo repository.DepartmentRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := deptRepo.Update(dept); err != nil {
			return err
		}
		if in.HODID != nil {
			if *in.HODID == "" {
				dept.HODID = nil
				if err := deptRepo.SetHOD(dept.ID, nil); err != nil {
					return err
				}
			} else if err := assignHOD(userRepo, deptRepo, dept, *in.HODID, now); err != nil {
				return err
			}
		}
		return auditRepo.Create(deptAudit(dept.ID, entity.AuditUpdate, actor.ID,
			fmt.Sprintf("Departamento %s actualizado", dept.Code), now))
	})
	if err != nil {
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

// Get devuelve un departamento por id.
func (uc *DepartmentUseCase) Get(id string) (*dto.DepartmentResponse, error) {
	dept, err := uc.deptRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, fmt.Errorf("%w: departamento %s", domain.ErrNotFound, id)
	}
	return toDepartmentResponse(dept), nil
}

// List lista departamentos.
func (uc *DepartmentUseCase) List(limit, offset int) (*dto.DepartmentListResponse, error) {
	depts, err := uc.deptRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.DepartmentListResponse{
		Departments: make([]dto.DepartmentResponse, 0, len(depts)),
		Page:        dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, d := range depts {
		out.Departments = append(out.Departments, *toDepartmentResponse(d))
	}
	return out, nil
}

// assignHOD valida y fija el jefe del departamento. El usuario debe existir,
// estar activo, tener rol hod y no pertenecer a otro departamento; si no
// tiene departamento se le asigna este, en la misma transacción.
func assignHOD(userRepo repository.UserRepository, deptRepo repository.DepartmentRepository, dept *entity.Department, hodID string, now time.Time) error {
	hod, err := userRepo.GetByID(hodID)
	if err != nil {
		return err
	}
	if hod == nil {
		return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, hodID)
	}
	if !hod.IsActive {
		return fmt.Errorf("%w: el usuario %s está deshabilitado", domain.ErrInvalidInput, hod.Username)
	}
	if hod.Role != entity.RoleHOD {
		return fmt.Errorf("%w: el usuario %s no tiene rol hod", domain.ErrInvalidInput, hod.Username)
	}
	if hod.DepartmentID != nil && *hod.DepartmentID != dept.ID {
		return fmt.Errorf("%w: el usuario %s pertenece a otro departamento", domain.ErrInvalidInput, hod.Username)
	}
	if hod.DepartmentID == nil {
		hod.DepartmentID = &dept.ID
		hod.UpdatedAt = now
		if err := userRepo.Update(hod); err != nil {
			return err
		}
	}
	dept.HODID = &hodID
	return deptRepo.SetHOD(dept.ID, &hodID)
}

func deptAudit(deptID, action, actorID, detail string, now time.Time) *entity.AuditLog {
	return &entity.AuditLog{
		ID:         uuid.New().String(),
		EntityType: "Department",
		EntityID:   deptID,
		Action:     action,
		UserID:     actorID,
		Detail:     detail,
		CreatedAt:  now,
	}
}

func toDepartmentResponse(d *entity.Department) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{
		ID:        d.ID,
		Code:      d.Code,
		Name:      d.Name,
		HODID:     d.HODID,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
