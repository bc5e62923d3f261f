package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/almacen-ti/internal/application/auth"
	"github.com/tu-usuario/almacen-ti/internal/application/dto"
	"github.com/tu-usuario/almacen-ti/internal/domain"
	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

// UserUseCase implementa la administración de usuarios (solo superadmin).
type UserUseCase struct {
	txRunner     IdentityTxRunner
	userRepo     repository.UserRepository
	deptRepo     repository.DepartmentRepository
	locationRepo repository.LocationRepository
}

// NewUserUseCase construye el caso de uso de usuarios.
func NewUserUseCase(
	txRunner IdentityTxRunner,
	userRepo repository.UserRepository,
	deptRepo repository.DepartmentRepository,
	locationRepo repository.LocationRepository,
) *UserUseCase {
	return &UserUseCase{
		txRunner:     txRunner,
		userRepo:     userRepo,
		deptRepo:     deptRepo,
		locationRepo: locationRepo,
	}
}

// Create crea un usuario con contraseña bcrypt y asignaciones iniciales.
func (uc *UserUseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if actor.Role != entity.RoleSuperadmin {
		return nil, fmt.Errorf("%w: solo superadmin administra usuarios", domain.ErrForbidden)
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: username, email y nombre son requeridos", domain.ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}
	role := entity.Role(in.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: rol %q desconocido", domain.ErrInvalidInput, in.Role)
	}
	if err := uc.validateDepartment(in.DepartmentID); err != nil {
		return nil, err
	}
	if err := uc.validateLocations(in.LocationIDs); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("generando hash: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         role,
		DepartmentID: in.DepartmentID,
		IsActive:     true,
		LocationIDs:  in.LocationIDs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.RunIdentity(ctx, func(
		userRepo repository.UserRepository,
		_ repository.DepartmentRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := userRepo.Create(user); err != nil {
			return err
		}
		if len(user.LocationIDs) > 0 {
			if err := userRepo.SetLocations(user.ID, user.LocationIDs); err != nil {
				return err
			}
		}
		return auditRepo.Create(userAudit(user.ID, entity.AuditCreate, actor.ID,
			fmt.Sprintf("Usuario %s creado con rol %s", user.Username, user.Role), now))
	})
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// Update modifica un usuario. El cambio de rol de un jefe de departamento
// limpia la referencia hod del departamento en la misma transacción.
func (uc *UserUseCase) Update(ctx context.Context, actor *entity.User, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if actor.Role != entity.RoleSuperadmin {
		return nil, fmt.Errorf("%w: solo superadmin administra usuarios", domain.ErrForbidden)
	}
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
	}
	if in.Email != nil {
		user.Email = strings.TrimSpace(*in.Email)
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	demotedFromHOD := false
	if in.Role != nil {
		role := entity.Role(*in.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: rol %q desconocido", domain.ErrInvalidInput, *in.Role)
		}
		demotedFromHOD = user.Role == entity.RoleHOD && role != entity.RoleHOD
		user.Role = role
	}
	if in.DepartmentID != nil {
		if err := uc.validateDepartment(in.DepartmentID); err != nil {
			return nil, err
		}
		user.DepartmentID = in.DepartmentID
	}
	if in.LocationIDs != nil {
		if err := uc.validateLocations(in.LocationIDs); err != nil {
			return nil, err
		}
		user.LocationIDs = in.LocationIDs
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Password != nil {
		if len(*in.Password) < 8 {
			return nil, fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", domain.ErrInvalidInput)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("generando hash: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	now := time.Now()
	user.UpdatedAt = now

	err = uc.txRunner.RunIdentity(ctx, func(
		userRepo repository.UserRepository,
		deptRepo repository.DepartmentRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := userRepo.Update(user); err != nil {
			return err
		}
		if in.LocationIDs != nil {
			if err := userRepo.SetLocations(user.ID, user.LocationIDs); err != nil {
				return err
			}
		}
		if demotedFromHOD {
			if err := clearHODReferences(deptRepo, user.ID); err != nil {
				return err
			}
		}
		return auditRepo.Create(userAudit(user.ID, entity.AuditUpdate, actor.ID,
			fmt.Sprintf("Usuario %s actualizado", user.Username), now))
	})
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// Deactivate marca el usuario como inactivo (no hay borrado físico de
// usuarios; las solicitudes y auditoría los referencian).
func (uc *UserUseCase) Deactivate(ctx context.Context, actor *entity.User, id string) error {
	if actor.Role != entity.RoleSuperadmin {
		return fmt.Errorf("%w: solo superadmin administra usuarios", domain.ErrForbidden)
	}
	if actor.ID == id {
		return fmt.Errorf("%w: no puede deshabilitar su propia cuenta", domain.ErrInvalidInput)
	}
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
	}
	now := time.Now()
	user.IsActive = false
	user.UpdatedAt = now
	return uc.txRunner.RunIdentity(ctx, func(
		userRepo repository.UserRepository,
		deptRepo repository.DepartmentRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := userRepo.Update(user); err != nil {
			return err
		}
		if user.Role == entity.RoleHOD {
			if err := clearHODReferences(deptRepo, user.ID); err != nil {
				return err
			}
		}
		return auditRepo.Create(userAudit(user.ID, entity.AuditDelete, actor.ID,
			fmt.Sprintf("Usuario %s deshabilitado", user.Username), now))
	})
}

// Get devuelve un usuario por id.
func (uc *UserUseCase) Get(actor *entity.User, id string) (*dto.UserResponse, error) {
	if actor.Role != entity.RoleSuperadmin && actor.ID != id {
		return nil, fmt.Errorf("%w: solo puede consultar su propio perfil", domain.ErrForbidden)
	}
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
	}
	return auth.ToUserResponse(user), nil
}

// List lista usuarios (solo superadmin).
func (uc *UserUseCase) List(actor *entity.User, limit, offset int) (*dto.UserListResponse, error) {
	if actor.Role != entity.RoleSuperadmin {
		return nil, fmt.Errorf("%w: solo superadmin administra usuarios", domain.ErrForbidden)
	}
	users, err := uc.userRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{
		Users: make([]dto.UserResponse, 0, len(users)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, u := range users {
		out.Users = append(out.Users, *auth.ToUserResponse(u))
	}
	return out, nil
}

func (uc *UserUseCase) validateDepartment(departmentID *string) error {
	if departmentID == nil || *departmentID == "" {
		return nil
	}
	dept, err := uc.deptRepo.GetByID(*departmentID)
	if err != nil {
		return err
	}
	if dept == nil {
		return fmt.Errorf("%w: departamento %s", domain.ErrNotFound, *departmentID)
	}
	return nil
}

func (uc *UserUseCase) validateLocations(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	locs, err := uc.locationRepo.ListByIDs(ids)
	if err != nil {
		return err
	}
	if len(locs) != len(ids) {
		return fmt.Errorf("%w: una o más bodegas no existen", domain.ErrNotFound)
	}
	return nil
}

// clearHODReferences limpia la referencia hod de todos los departamentos que
// apuntan al usuario.
func clearHODReferences(deptRepo repository.DepartmentRepository, userID string) error {
	depts, err := deptRepo.List(0, 0)
	if err != nil {
		return err
	}
	for _, d := range depts {
		if d.HODID != nil && *d.HODID == userID {
			if err := deptRepo.SetHOD(d.ID, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func userAudit(userID, action, actorID, detail string, now time.Time) *entity.AuditLog {
	return &entity.AuditLog{
		ID:         uuid.New().String(),
		EntityType: "User",
		EntityID:   userID,
		Action:     action,
		UserID:     actorID,
		Detail:     detail,
		CreatedAt:  now,
	}
}
