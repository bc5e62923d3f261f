package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/almacen-ti/internal/application/dto"
	"github.com/tu-usuario/almacen-ti/internal/domain"
	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

// UseCase agrupa las operaciones de stock: entradas de compra, consultas de
// existencias, reporte de stock bajo y exportación.
type UseCase struct {
	txRunner     EntryTxRunner
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	stockRepo    repository.StockRepository
	entryRepo    repository.StockEntryRepository
	exporter     BalanceExporter
}

// NewUseCase construye el caso de uso de stock.
func NewUseCase(
	txRunner EntryTxRunner,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	stockRepo repository.StockRepository,
	entryRepo repository.StockEntryRepository,
	exporter BalanceExporter,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		stockRepo:    stockRepo,
		entryRepo:    entryRepo,
		exporter:     exporter,
	}
}

// CreateEntry registra una compra: entrada inmutable + ajuste positivo de
// existencias + auditoría, todo en una transacción. Solo superadmin/manager.
func (uc *UseCase) CreateEntry(ctx context.Context, actor *entity.User, in dto.CreateStockEntryRequest) (*dto.StockEntryResponse, error) {
	if !actor.Role.Elevated() {
		return nil, domain.ErrForbidden
	}
	if in.ItemID == "" || in.LocationID == "" {
		return nil, fmt.Errorf("%w: item y bodega son requeridos", domain.ErrInvalidInput)
	}
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}

	item, err := uc.itemRepo.GetByID(in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, in.ItemID)
	}
	loc, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, in.LocationID)
	}

	now := time.Now()
	entry := &entity.StockEntry{
		ID:          uuid.New().String(),
		ItemID:      in.ItemID,
		LocationID:  in.LocationID,
		Quantity:    in.Quantity,
		Description: in.Description,
		Remarks:     in.Remarks,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
	}

	err = uc.txRunner.RunEntry(ctx, func(
		entryRepo repository.StockEntryRepository,
		stockRepo repository.StockRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := entryRepo.Create(entry); err != nil {
			return err
		}
		if _, err := Adjust(stockRepo, entry.ItemID, entry.LocationID, entry.Quantity, now); err != nil {
			return err
		}
		return auditRepo.Create(&entity.AuditLog{
			ID:         uuid.New().String(),
			EntityType: "StockEntry",
			EntityID:   entry.ID,
			Action:     entity.AuditCreate,
			UserID:     actor.ID,
			Detail:     fmt.Sprintf("Entrada de %s unidades de %s en %s", entry.Quantity, item.Code, loc.Code),
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return toEntryResponse(entry), nil
}

// ListEntries lista entradas de stock (solo superadmin/manager).
func (uc *UseCase) ListEntries(actor *entity.User, limit, offset int) (*dto.StockEntryListResponse, error) {
	if !actor.Role.Elevated() {
		return nil, domain.ErrForbidden
	}
	entries, err := uc.entryRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.StockEntryListResponse{
		Entries: make([]dto.StockEntryResponse, 0, len(entries)),
		Page:    dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, *toEntryResponse(e))
	}
	return out, nil
}

// GetBalance devuelve la existencia actual; cero para pares desconocidos.
func (uc *UseCase) GetBalance(itemID, locationID string) (*dto.BalanceResponse, error) {
	balance, err := uc.stockRepo.Get(itemID, locationID)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{
		ItemID:     balance.ItemID,
		LocationID: balance.LocationID,
		Quantity:   balance.Quantity,
		UpdatedAt:  balance.UpdatedAt,
	}, nil
}

// ListBalances lista existencias positivas restringidas a las bodegas
// accesibles del usuario.
func (uc *UseCase) ListBalances(actor *entity.User, itemID, locationID string) ([]dto.BalanceResponse, error) {
	filter := repository.BalanceFilter{
		ItemID:       itemID,
		LocationID:   locationID,
		OnlyPositive: true,
	}
	if locationID != "" && !actor.CanAccessLocation(locationID) {
		return nil, domain.ErrForbidden
	}
	if !actor.Role.Elevated() {
		if len(actor.LocationIDs) == 0 {
			return []dto.BalanceResponse{}, nil
		}
		filter.LocationIDs = actor.LocationIDs
	}
	balances, err := uc.stockRepo.ListBalances(filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, dto.BalanceResponse{
			ItemID:     b.ItemID,
			LocationID: b.LocationID,
			Quantity:   b.Quantity,
			UpdatedAt:  b.UpdatedAt,
		})
	}
	return out, nil
}

// LowStock devuelve los balances por debajo del umbral de su artículo,
// restringidos a las bodegas accesibles del usuario.
func (uc *UseCase) LowStock(actor *entity.User) ([]dto.LowStockResponse, error) {
	var locationIDs []string
	if !actor.Role.Elevated() {
		if len(actor.LocationIDs) == 0 {
			return []dto.LowStockResponse{}, nil
		}
		locationIDs = actor.LocationIDs
	}
	rows, err := uc.stockRepo.ListLowStock(locationIDs)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LowStockResponse{
			ItemID:     r.ItemID,
			ItemCode:   r.ItemCode,
			ItemName:   r.ItemName,
			LocationID: r.LocationID,
			Quantity:   r.Quantity,
			Threshold:  r.Threshold,
		})
	}
	return out, nil
}

// ExportBalances genera el XLSX de existencias accesibles para el usuario.
func (uc *UseCase) ExportBalances(actor *entity.User) ([]byte, error) {
	balances, err := uc.ListBalances(actor, "", "")
	if err != nil {
		return nil, err
	}
	rows := make([]BalanceExportRow, 0, len(balances))
	for _, b := range balances {
		row := BalanceExportRow{Quantity: b.Quantity, UpdatedAt: b.UpdatedAt}
		if item, err := uc.itemRepo.GetByID(b.ItemID); err == nil && item != nil {
			row.ItemCode = item.Code
			row.ItemName = item.Name
		}
		if loc, err := uc.locationRepo.GetByID(b.LocationID); err == nil && loc != nil {
			row.LocationCode = loc.Code
		}
		rows = append(rows, row)
	}
	return uc.exporter.BalancesXLSX(rows)
}

func toEntryResponse(e *entity.StockEntry) *dto.StockEntryResponse {
	return &dto.StockEntryResponse{
		ID:          e.ID,
		ItemID:      e.ItemID,
		LocationID:  e.LocationID,
		Quantity:    e.Quantity,
		Description: e.Description,
		Remarks:     e.Remarks,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}
