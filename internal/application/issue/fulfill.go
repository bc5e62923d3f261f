package issue

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-ti/internal/application/dto"
	"github.com/tu-usuario/almacen-ti/internal/application/stock"
	"github.com/tu-usuario/almacen-ti/internal/domain"
	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

// Issue entrega una solicitud aprobada (approved → issued) debitando el stock
// de la bodega. La validación es todo-o-nada: se verifica la disponibilidad de
// cada línea contra el saldo actual antes de aplicar el primer débito; si una
// sola línea no alcanza, no se descuenta nada.
//
// Las overrides permiten entregar menos de lo solicitado por línea; sin
// override se entrega exactamente lo solicitado.
func (uc *UseCase) Issue(ctx context.Context, actor *entity.User, requestID string, in dto.IssueRequestRequest) (*dto.RequestResponse, error) {
	if !actor.Role.Elevated() {
		return nil, fmt.Errorf("%w: solo el personal de almacén puede entregar solicitudes", domain.ErrForbidden)
	}
	overrides := make(map[string]decimal.Decimal, len(in.Lines))
	for _, o := range in.Lines {
		overrides[o.LineID] = o.Quantity
	}

	var out *entity.StockIssueRequest
	err := uc.txRunner.Run(ctx, func(
		reqRepo repository.IssueRequestRepository,
		stockRepo repository.StockRepository,
		auditRepo repository.AuditRepository,
	) error {
		req, err := lockRequest(reqRepo, requestID)
		if err != nil {
			return err
		}
		if req.Status != entity.StatusApproved {
			return fmt.Errorf("%w: estado actual %s, se esperaba %s", domain.ErrInvalidState, req.Status, entity.StatusApproved)
		}
		if len(req.Lines) == 0 {
			return fmt.Errorf("%w: la solicitud no tiene líneas", domain.ErrInvalidInput)
		}

		// Resuelve la cantidad a entregar por línea antes de tocar saldos.
		toIssue := make(map[string]decimal.Decimal, len(req.Lines))
		for _, line := range req.Lines {
			qty := line.QuantityRequested
			if override, ok := overrides[line.ID]; ok {
				if !override.IsPositive() || override.GreaterThan(line.QuantityRequested) {
					return fmt.Errorf("%w: cantidad a entregar %s fuera de rango para la línea %s (solicitado %s)",
						domain.ErrInvalidInput, override, line.ID, line.QuantityRequested)
				}
				qty = override
			}
			toIssue[line.ID] = qty
		}
		for lineID := range overrides {
			if _, ok := toIssue[lineID]; !ok {
				return fmt.Errorf("%w: línea %s no pertenece a la solicitud", domain.ErrInvalidInput, lineID)
			}
		}

		// Primera pasada: bloquea y verifica cada saldo sin modificarlo.
		for _, line := range req.Lines {
			balance, err := stockRepo.GetForUpdate(line.ItemID, req.LocationID)
			if err != nil {
				return err
			}
			if balance.Quantity.LessThan(toIssue[line.ID]) {
				return fmt.Errorf("%w: artículo %s, disponible %s, a entregar %s",
					domain.ErrInsufficientStock, line.ItemID, balance.Quantity, toIssue[line.ID])
			}
		}

		// Segunda pasada: débitos y cantidades entregadas.
		now := time.Now()
		for _, line := range req.Lines {
			qty := toIssue[line.ID]
			if _, err := stock.Adjust(stockRepo, line.ItemID, req.LocationID, qty.Neg(), now); err != nil {
				return err
			}
			line.QuantityIssued = qty
			if err := reqRepo.UpdateLine(line); err != nil {
				return err
			}
		}

		req.Status = entity.StatusIssued
		req.IssuedBy = &actor.ID
		req.IssuedAt = &now
		req.UpdatedAt = now
		if err := reqRepo.Update(req); err != nil {
			return err
		}
		out = req
		return auditRepo.Create(uc.auditEntry(req, entity.AuditIssue, actor.ID,
			fmt.Sprintf("Solicitud %s entregada desde la bodega %s", req.RequestNo, req.LocationID), now))
	})
	if err != nil {
		return nil, err
	}
	return toRequestResponse(out), nil
}
