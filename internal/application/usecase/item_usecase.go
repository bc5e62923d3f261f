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

// ItemUseCase implementa el CRUD del catálogo de artículos. Las mutaciones
// corren dentro de una transacción junto con su registro de auditoría.
type ItemUseCase struct {
	txRunner MasterTxRunner
	itemRepo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso de artículos.
func NewItemUseCase(txRunner MasterTxRunner, itemRepo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{txRunner: txRunner, itemRepo: itemRepo}
}

// Create crea un artículo. El código es único y el umbral de stock bajo no
// puede ser negativo.
func (uc *ItemUseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if !actor.Role.Elevated() {
		return nil, fmt.Errorf("%w: requiere rol elevado", domain.ErrForbidden)
	}
	in.Code = strings.TrimSpace(strings.ToUpper(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: código y nombre son requeridos", domain.ErrInvalidInput)
	}
	if in.LowStockThreshold.IsNegative() {
		return nil, fmt.Errorf("%w: el umbral de stock bajo no puede ser negativo", domain.ErrInvalidInput)
	}
	now := time.Now()
	item := &entity.Item{
		ID:                uuid.New().String(),
		Code:              in.Code,
		Name:              in.Name,
		Make:              strings.TrimSpace(in.Make),
		Variant:           strings.TrimSpace(in.Variant),
		Description:       in.Description,
		LowStockThreshold: in.LowStockThreshold,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err := uc.txRunner.RunMaster(ctx, func(
		itemRepo repository.ItemRepository,
		_ repository.LocationRepository,
		_ repository.EmployeeRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := itemRepo.Create(item); err != nil {
			return err
		}
		return auditRepo.Create(itemAudit(item.ID, entity.AuditCreate, actor.ID,
			fmt.Sprintf("Artículo %s creado", item.Code), now))
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Update modifica un artículo.
func (uc *ItemUseCase) Update(ctx context.Context, actor *entity.User, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if !actor.Role.Elevated() {
		return nil, fmt.Errorf("%w: requiere rol elevado", domain.ErrForbidden)
	}
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
	}
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Make != nil {
		item.Make = strings.TrimSpace(*in.Make)
	}
	if in.Variant != nil {
		item.Variant = strings.TrimSpace(*in.Variant)
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.LowStockThreshold != nil {
		if in.LowStockThreshold.IsNegative() {
			return nil, fmt.Errorf("%w: el umbral de stock bajo no puede ser negativo", domain.ErrInvalidInput)
		}
		item.LowStockThreshold = *in.LowStockThreshold
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	now := time.Now()
	item.UpdatedAt = now
	err = uc.txRunner.RunMaster(ctx, func(
		itemRepo repository.ItemRepository,
		_ repository.LocationRepository,
		_ repository.EmployeeRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := itemRepo.Update(item); err != nil {
			return err
		}
		return auditRepo.Create(itemAudit(item.ID, entity.AuditUpdate, actor.ID,
			fmt.Sprintf("Artículo %s actualizado", item.Code), now))
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Get devuelve un artículo por id o código.
func (uc *ItemUseCase) Get(idOrCode string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(idOrCode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		item, err = uc.itemRepo.GetByCode(idOrCode)
		if err != nil {
			return nil, err
		}
	}
	if item == nil {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, idOrCode)
	}
	return toItemResponse(item), nil
}

// List lista artículos.
func (uc *ItemUseCase) List(limit, offset int) (*dto.ItemListResponse, error) {
	items, err := uc.itemRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ItemListResponse{
		Items: make([]dto.ItemResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, it := range items {
		out.Items = append(out.Items, *toItemResponse(it))
	}
	return out, nil
}

func itemAudit(itemID, action, actorID, detail string, now time.Time) *entity.AuditLog {
	return &entity.AuditLog{
		ID:         uuid.New().String(),
		EntityType: "Item",
		EntityID:   itemID,
		Action:     action,
		UserID:     actorID,
		Detail:     detail,
		CreatedAt:  now,
	}
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:                it.ID,
		Code:              it.Code,
		Name:              it.Name,
		Make:              it.Make,
		Variant:           it.Variant,
		Description:       it.Description,
		LowStockThreshold: it.LowStockThreshold,
		IsActive:          it.IsActive,
		CreatedAt:         it.CreatedAt,
		UpdatedAt:         it.UpdatedAt,
	}
}
