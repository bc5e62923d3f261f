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

// LocationUseCase implementa el CRUD de bodegas. Las mutaciones corren dentro
// de una transacción junto con su registro de auditoría.
type LocationUseCase struct {
	txRunner     MasterTxRunner
	locationRepo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso de bodegas.
func NewLocationUseCase(txRunner MasterTxRunner, locationRepo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{txRunner: txRunner, locationRepo: locationRepo}
}

// Create crea una bodega. El código es único.
func (uc *LocationUseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if !actor.Role.Elevated() {
		return nil, fmt.Errorf("%w: requiere rol elevado", domain.ErrForbidden)
	}
	in.Code = strings.TrimSpace(strings.ToUpper(in.Code))
	if in.Code == "" || strings.TrimSpace(in.Office) == "" {
		return nil, fmt.Errorf("%w: código y oficina son requeridos", domain.ErrInvalidInput)
	}
	now := time.Now()
	loc := &entity.Location{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Office:    strings.TrimSpace(in.Office),
		Room:      strings.TrimSpace(in.Room),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.txRunner.RunMaster(ctx, func(
		_ repository.ItemRepository,
		locationRepo repository.LocationRepository,
		_ repository.EmployeeRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := locationRepo.Create(loc); err != nil {
			return err
		}
		return auditRepo.Create(locationAudit(loc.ID, entity.AuditCreate, actor.ID,
			fmt.Sprintf("Bodega %s creada", loc.Code), now))
	})
	if err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// Update modifica oficina, sala o estado de una bodega.
func (uc *LocationUseCase) Update(ctx context.Context, actor *entity.User, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	if !actor.Role.Elevated() {
		return nil, fmt.Errorf("%w: requiere rol elevado", domain.ErrForbidden)
	}
	loc, err := uc.locationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
	}
	if in.Office != nil {
		loc.Office = strings.TrimSpace(*in.Office)
	}
	if in.Room != nil {
		loc.Room = strings.TrimSpace(*in.Room)
	}
	if in.IsActive != nil {
		loc.IsActive = *in.IsActive
	}
	now := time.Now()
	loc.UpdatedAt = now
	err = uc.txRunner.RunMaster(ctx, func(
		_ repository.ItemRepository,
		locationRepo repository.LocationRepository,
		_ repository.EmployeeRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := locationRepo.Update(loc); err != nil {
			return err
		}
		return auditRepo.Create(locationAudit(loc.ID, entity.AuditUpdate, actor.ID,
			fmt.Sprintf("Bodega %s actualizada", loc.Code), now))
	})
	if err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// Get devuelve una bodega por id, aplicando el predicado de acceso.
func (uc *LocationUseCase) Get(actor *entity.User, id string) (*dto.LocationResponse, error) {
	if !actor.CanAccessLocation(id) {
		return nil, fmt.Errorf("%w: sin acceso a la bodega", domain.ErrForbidden)
	}
	loc, err := uc.locationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
	}
	return toLocationResponse(loc), nil
}

// List lista las bodegas visibles para el usuario: todas para roles
// elevados, solo las asignadas para el resto.
func (uc *LocationUseCase) List(actor *entity.User, limit, offset int) (*dto.LocationListResponse, error) {
	var locs []*entity.Location
	var err error
	if actor.Role.Elevated() {
		locs, err = uc.locationRepo.List(limit, offset)
	} else {
		locs, err = uc.locationRepo.ListByIDs(actor.LocationIDs)
	}
	if err != nil {
		return nil, err
	}
	out := &dto.LocationListResponse{
		Locations: make([]dto.LocationResponse, 0, len(locs)),
		Page:      dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, l := range locs {
		out.Locations = append(out.Locations, *toLocationResponse(l))
	}
	return out, nil
}

func locationAudit(locID, action, actorID, detail string, now time.Time) *entity.AuditLog {
	return &entity.AuditLog{
		ID:         uuid.New().String(),
		EntityType: "Location",
		EntityID:   locID,
		Action:     action,
		UserID:     actorID,
		Detail:     detail,
		CreatedAt:  now,
	}
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:        l.ID,
		Code:      l.Code,
		Office:    l.Office,
		Room:      l.Room,
		IsActive:  l.IsActive,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
