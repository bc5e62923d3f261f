package issue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/almacen-ti/internal/application/dto"
	"github.com/tu-usuario/almacen-ti/internal/domain"
	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

// createAttempts reintentos de la transacción de creación ante conflicto del
// índice único de request_no (creaciones concurrentes el mismo día).
const createAttempts = 3

// UseCase implementa el ciclo de vida de solicitudes de salida de stock:
// draft → pending → approved/rejected; approved → issued/rejected.
type UseCase struct {
	txRunner     TxRunner
	reqRepo      repository.IssueRequestRepository
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	deptRepo     repository.DepartmentRepository
	pdfGen       NotePDFGenerator
}

// NewUseCase construye el caso de uso del flujo de solicitudes.
func NewUseCase(
	txRunner TxRunner,
	reqRepo repository.IssueRequestRepository,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	deptRepo repository.DepartmentRepository,
	pdfGen NotePDFGenerator,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		reqRepo:      reqRepo,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		deptRepo:     deptRepo,
		pdfGen:       pdfGen,
	}
}

// ── Creación ─────────────────────────────────────────────────────────────────

// Create crea una solicitud en borrador con sus líneas. Los roles elevados y
// el HOD de su propio departamento quedan auto-aprobados (se salta pending).
func (uc *UseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	// El departamento sale siempre de la afiliación del solicitante; solo los
	// roles elevados sin departamento propio pueden nombrarlo en el body.
	var departmentID string
	switch {
	case actor.DepartmentID != nil:
		departmentID = *actor.DepartmentID
	case actor.Role.Elevated():
		departmentID = in.DepartmentID
		if departmentID == "" {
			return nil, fmt.Errorf("%w: department_id es requerido", domain.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: debe estar asignado a un departamento para crear solicitudes", domain.ErrForbidden)
	}
	if in.LocationID == "" || strings.TrimSpace(in.Purpose) == "" {
		return nil, fmt.Errorf("%w: bodega y propósito son requeridos", domain.ErrInvalidInput)
	}
	if !actor.CanAccessLocation(in.LocationID) {
		return nil, fmt.Errorf("%w: sin acceso a la bodega", domain.ErrForbidden)
	}
	loc, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, in.LocationID)
	}
	dept, err := uc.deptRepo.GetByID(departmentID)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, fmt.Errorf("%w: departamento %s", domain.ErrNotFound, departmentID)
	}
	for i, l := range in.Lines {
		if l.ItemID == "" || !l.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: línea %d con artículo o cantidad inválida", domain.ErrInvalidInput, i+1)
		}
		item, err := uc.itemRepo.GetByID(l.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, l.ItemID)
		}
	}

	now := time.Now()
	req := &entity.StockIssueRequest{
		ID:           uuid.New().String(),
		RequesterID:  actor.ID,
		DepartmentID: departmentID,
		LocationID:   in.LocationID,
		Purpose:      strings.TrimSpace(in.Purpose),
		Remarks:      strings.TrimSpace(in.Remarks),
		Status:       entity.StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if uc.autoApproves(actor, dept) {
		req.Status = entity.StatusApproved
		req.ApprovedBy = &actor.ID
		approvedAt := now
		req.ApprovedAt = &approvedAt
	}

	// Reintenta toda la transacción si el número generado choca con una
	// creación concurrente del mismo día.
	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		lastErr = uc.txRunner.Run(ctx, func(
			reqRepo repository.IssueRequestRepository,
			_ repository.StockRepository,
			auditRepo repository.AuditRepository,
		) error {
			no, err := nextRequestNo(reqRepo, now)
			if err != nil {
				return err
			}
			req.RequestNo = no
			if err := reqRepo.Create(req); err != nil {
				return err
			}
			req.Lines = req.Lines[:0]
			for _, l := range in.Lines {
				line := &entity.StockIssueLine{
					ID:                uuid.New().String(),
					RequestID:         req.ID,
					ItemID:            l.ItemID,
					QuantityRequested: l.Quantity,
					Remarks:           l.Remarks,
				}
				if err := reqRepo.CreateLine(line); err != nil {
					return err
				}
				req.Lines = append(req.Lines, line)
			}
			return auditRepo.Create(uc.auditEntry(req, entity.AuditCreate, actor.ID,
				fmt.Sprintf("Solicitud %s creada", req.RequestNo), now))
		})
		if lastErr == nil {
			return toRequestResponse(req), nil
		}
		if !errors.Is(lastErr, domain.ErrDuplicate) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// autoApproves: rol elevado, o HOD del departamento de la propia solicitud.
func (uc *UseCase) autoApproves(actor *entity.User, dept *entity.Department) bool {
	if actor.Role.Elevated() {
		return true
	}
	return actor.Role == entity.RoleHOD && dept.HODID != nil && *dept.HODID == actor.ID
}

// ── Líneas (solo draft, solo el solicitante) ─────────────────────────────────

// AddLine agrega una línea a una solicitud en borrador.
func (uc *UseCase) AddLine(ctx context.Context, actor *entity.User, requestID string, in dto.AddLineRequest) (*dto.RequestResponse, error) {
	if in.ItemID == "" || !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: artículo y cantidad positiva son requeridos", domain.ErrInvalidInput)
	}
	item, err := uc.itemRepo.GetByID(in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, in.ItemID)
	}

	var out *entity.StockIssueRequest
	err = uc.txRunner.Run(ctx, func(
		reqRepo repository.IssueRequestRepository,
		_ repository.StockRepository,
		auditRepo repository.AuditRepository,
	) error {
		req, err := uc.lockDraftOwned(reqRepo, actor, requestID)
		if err != nil {
			return err
		}
		line := &entity.StockIssueLine{
			ID:                uuid.New().String(),
			RequestID:         req.ID,
			ItemID:            in.ItemID,
			QuantityRequested: in.Quantity,
			Remarks:           in.Remarks,
		}
		if err := reqRepo.CreateLine(line); err != nil {
			return err
		}
		req.Lines = append(req.Lines, line)
		now := time.Now()
		req.UpdatedAt = now
		if err := reqRepo.Update(req); err != nil {
			return err
		}
		out = req
		return auditRepo.Create(uc.auditEntry(req, entity.AuditUpdate, actor.ID,
			fmt.Sprintf("Línea agregada a %s", req.RequestNo), now))
	})
	if err != nil {
		return nil, err
	}
	return toRequestResponse(out), nil
}

// UpdateLine modifica cantidad/observaciones de una línea en borrador.
func (uc *UseCase) UpdateLine(ctx context.Context, actor *entity.User, requestID, lineID string, in dto.UpdateLineRequest) (*dto.RequestResponse, error) {
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	var out *entity.StockIssueRequest
	err := uc.txRunner.Run(ctx, func(
		reqRepo repository.IssueRequestRepository,
		_ repository.StockRepository,
		auditRepo repository.AuditRepository,
	) error {
		req, err := uc.lockDraftOwned(reqRepo, actor, requestID)
		if err != nil {
			return err
		}
		line := findLine(req, lineID)
		if line == nil {
			return fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
		}
		line.QuantityRequested = in.Quantity
		if in.Remarks != nil {
			line.Remarks = *in.Remarks
		}
		if err := reqRepo.UpdateLine(line); err != nil {
			return err
		}
		now := time.Now()
		req.UpdatedAt = now
		if err := reqRepo.Update(req); err != nil {
			return err
		}
		out = req
		return auditRepo.Create(uc.auditEntry(req, entity.AuditUpdate, actor.ID,
			fmt.Sprintf("Línea actualizada en %s", req.RequestNo), now))
	})
	if err != nil {
		return nil, err
	}
	return toRequestResponse(out), nil
}

// RemoveLine elimina una línea de una solicitud en borrador.
func (uc *UseCase) RemoveLine(ctx context.Context, actor *entity.User, requestID, lineID string) (*dto.RequestResponse, error) {
	var out *entity.StockIssueRequest
	err := uc.txRunner.Run(ctx, func(
		reqRepo repository.IssueRequestRepository,
		_ repository.StockRepository,
		auditRepo repository.AuditRepository,
	) error {
		req, err := uc.lockDraftOwned(reqRepo, actor, requestID)
		if err != nil {
			return err
		}
		line := findLine(req, lineID)
		if line == nil {
			return fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
		}
		if err := reqRepo.DeleteLine(lineID); err != nil {
			return err
		}
		kept := req.Lines[:0]
		for _, l := range req.Lines {
			if l.ID != lineID {
				kept = append(kept, l)
			}
		}
		req.Lines = kept
		now := time.Now()
		req.UpdatedAt = now
		if err := reqRepo.Update(req); err != nil {
			return err
		}
		out = req
		return auditRepo.Create(uc.auditEntry(req, entity.AuditUpdate, actor.ID,
			fmt.Sprintf("Línea eliminada de %s", req.RequestNo), now))
	})
	if err != nil {
		return nil, err
	}
	return toRequestResponse(out), nil
}

// ── Transiciones ─────────────────────────────────────────────────────────────

// Submit envía un borrador a aprobación (draft → pending). Requiere al menos
// una línea y solo puede hacerlo el solicitante.
func (uc *UseCase) Submit(ctx context.Context, actor *entity.User, requestID string) (*dto.RequestResponse, error) {
	var out *entity.StockIssueRequest
	err := uc.txRunner.Run(ctx, func(
		reqRepo repository.IssueRequestRepository,
		_ repository.StockRepository,
		auditRepo repository.AuditRepository,
	) error {
		req, err := uc.lockDraftOwned(reqRepo, actor, requestID)
		if err != nil {
			return err
		}
		if len(req.Lines) == 0 {
			return fmt.Errorf("%w: la solicitud no tiene líneas", domain.ErrInvalidInput)
		}
		now := time.Now()
		req.Status = entity.StatusPending
		req.UpdatedAt = now
		if err := reqRepo.Update(req); err != nil {
			return err
		}
		out = req
		return auditRepo.Create(uc.auditEntry(req, entity.AuditSubmit, actor.ID,
			fmt.Sprintf("Solicitud %s enviada a aprobación", req.RequestNo), now))
	})
	if err != nil {
		return nil, err
	}
	return toRequestResponse(out), nil
}

// Approve aprueba una solicitud pendiente (pending → approved). Autorizado:
// el HOD del departamento de la solicitud o superadmin.
func (uc *UseCase) Approve(ctx context.Context, actor *entity.User, requestID string) (*dto.RequestResponse, error) {
	var out *entity.StockIssueRequest
	err := uc.txRunner.Run(ctx, func(
		reqRepo repository.IssueRequestRepository,
		_ repository.StockRepository,
		auditRepo repository.AuditRepository,
	) error {
		req, err := lockRequest(reqRepo, requestID)
		if err != nil {
			return err
		}
		ok, err := uc.canApprove(actor, req)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: no puede aprobar solicitudes de este departamento", domain.ErrForbidden)
		}
		if req.Status != entity.StatusPending {
			return fmt.Errorf("%w: estado actual %s, se esperaba %s", domain.ErrInvalidState, req.Status, entity.StatusPending)
		}
		now := time.Now()
		req.Status = entity.StatusApproved
		req.ApprovedBy = &actor.ID
		req.ApprovedAt = &now
		req.UpdatedAt = now
		if err := reqRepo.Update(req); err != nil {
			return err
		}
		out = req
		return auditRepo.Create(uc.auditEntry(req, entity.AuditApprove, actor.ID,
			fmt.Sprintf("Solicitud %s aprobada", req.RequestNo), now))
	})
	if err != nil {
		return nil, err
	}
	return toRequestResponse(out), nil
}

// Reject rechaza una solicitud pendiente o aprobada (anulación
// administrativa). El motivo es obligatorio y se anexa a las observaciones.
func (uc *UseCase) Reject(ctx context.Context, actor *entity.User, requestID, reason string) (*dto.RequestResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: el motivo de rechazo es obligatorio", domain.ErrInvalidInput)
	}
	var out *entity.StockIssueRequest
	err := uc.txRunner.Run(ctx, func(
		reqRepo repository.IssueRequestRepository,
		_ repository.StockRepository,
		auditRepo repository.AuditRepository,
	) error {
		req, err := lockRequest(reqRepo, requestID)
		if err != nil {
			return err
		}
		ok, err := uc.canApprove(actor, req)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: no puede rechazar solicitudes de este departamento", domain.ErrForbidden)
		}
		if req.Status != entity.StatusPending && req.Status != entity.StatusApproved {
			return fmt.Errorf("%w: estado actual %s", domain.ErrInvalidState, req.Status)
		}
		now := time.Now()
		req.Status = entity.StatusRejected
		if req.Remarks != "" {
			req.Remarks += "\n\n"
		}
		req.Remarks += "Motivo de rechazo: " + reason
		req.UpdatedAt = now
		if err := reqRepo.Update(req); err != nil {
			return err
		}
		out = req
		return auditRepo.Create(uc.auditEntry(req, entity.AuditReject, actor.ID,
			fmt.Sprintf("Solicitud %s rechazada: %s", req.RequestNo, reason), now))
	})
	if err != nil {
		return nil, err
	}
	return toRequestResponse(out), nil
}

// Delete elimina un borrador junto con sus líneas. Solo el solicitante.
func (uc *UseCase) Delete(ctx context.Context, actor *entity.User, requestID string) error {
	return uc.txRunner.Run(ctx, func(
		reqRepo repository.IssueRequestRepository,
		_ repository.StockRepository,
		auditRepo repository.AuditRepository,
	) error {
		req, err := uc.lockDraftOwned(reqRepo, actor, requestID)
		if err != nil {
			return err
		}
		if err := reqRepo.Delete(req.ID); err != nil {
			return err
		}
		return auditRepo.Create(uc.auditEntry(req, entity.AuditDelete, actor.ID,
			fmt.Sprintf("Solicitud %s eliminada", req.RequestNo), time.Now()))
	})
}

// ── Consultas ────────────────────────────────────────────────────────────────

// Get devuelve una solicitud por id o por número (REQ...), aplicando la
// visibilidad del rol: employee solo las propias; hod las de su departamento
// y las propias; roles elevados todas.
func (uc *UseCase) Get(actor *entity.User, idOrNumber string) (*dto.RequestResponse, error) {
	var req *entity.StockIssueRequest
	var err error
	if strings.HasPrefix(idOrNumber, requestNoPrefix) {
		req, err = uc.reqRepo.GetByNumber(idOrNumber)
	} else {
		req, err = uc.reqRepo.GetByID(idOrNumber)
	}
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, idOrNumber)
	}
	if !uc.canView(actor, req) {
		return nil, domain.ErrForbidden
	}
	return toRequestResponse(req), nil
}

// List lista solicitudes visibles para el usuario, con filtro opcional por
// estado.
func (uc *UseCase) List(actor *entity.User, status string, limit, offset int) (*dto.RequestListResponse, error) {
	filter := repository.RequestFilter{Limit: limit, Offset: offset}
	if status != "" {
		st := entity.RequestStatus(status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
		}
		filter.Status = st
	}
	switch actor.Role {
	case entity.RoleSuperadmin, entity.RoleManager:
		// sin restricción
	case entity.RoleHOD:
		if actor.DepartmentID == nil {
			filter.RequesterID = actor.ID
		} else {
			filter.DepartmentID = *actor.DepartmentID
		}
	case entity.RoleEmployee:
		filter.RequesterID = actor.ID
	default:
		return nil, domain.ErrForbidden
	}
	reqs, err := uc.reqRepo.List(filter)
	if err != nil {
		return nil, err
	}
	out := &dto.RequestListResponse{
		Requests: make([]dto.RequestResponse, 0, len(reqs)),
		Page:     dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, r := range reqs {
		out.Requests = append(out.Requests, *toRequestResponse(r))
	}
	return out, nil
}

// NotePDF genera el acta de entrega de una solicitud entregada.
func (uc *UseCase) NotePDF(actor *entity.User, requestID string) ([]byte, error) {
	req, err := uc.reqRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, requestID)
	}
	if !uc.canView(actor, req) {
		return nil, domain.ErrForbidden
	}
	if req.Status != entity.StatusIssued {
		return nil, fmt.Errorf("%w: el acta solo existe para solicitudes entregadas (estado actual %s)", domain.ErrInvalidState, req.Status)
	}
	lines := make([]NoteLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		nl := NoteLine{Requested: l.QuantityRequested, Issued: l.QuantityIssued}
		if item, err := uc.itemRepo.GetByID(l.ItemID); err == nil && item != nil {
			nl.ItemCode = item.Code
			nl.ItemName = item.Name
		}
		lines = append(lines, nl)
	}
	return uc.pdfGen.IssueNotePDF(req, lines)
}

// ── Guards compartidos ───────────────────────────────────────────────────────

// lockRequest bloquea la solicitud (con líneas) o devuelve ErrNotFound.
func lockRequest(reqRepo repository.IssueRequestRepository, requestID string) (*entity.StockIssueRequest, error) {
	req, err := reqRepo.GetByIDForUpdate(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, requestID)
	}
	return req, nil
}

// lockDraftOwned bloquea la solicitud y exige que sea un borrador del propio
// solicitante.
func (uc *UseCase) lockDraftOwned(reqRepo repository.IssueRequestRepository, actor *entity.User, requestID string) (*entity.StockIssueRequest, error) {
	req, err := lockRequest(reqRepo, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequesterID != actor.ID {
		return nil, fmt.Errorf("%w: solo el solicitante puede modificar la solicitud", domain.ErrForbidden)
	}
	if req.Status != entity.StatusDraft {
		return nil, fmt.Errorf("%w: estado actual %s, se esperaba %s", domain.ErrInvalidState, req.Status, entity.StatusDraft)
	}
	return req, nil
}

// canApprove: superadmin siempre; hod solo si es el jefe registrado del
// departamento de la solicitud.
func (uc *UseCase) canApprove(actor *entity.User, req *entity.StockIssueRequest) (bool, error) {
	switch actor.Role {
	case entity.RoleSuperadmin:
		return true, nil
	case entity.RoleHOD:
		dept, err := uc.deptRepo.GetByID(req.DepartmentID)
		if err != nil {
			return false, err
		}
		return dept != nil && dept.HODID != nil && *dept.HODID == actor.ID, nil
	case entity.RoleManager, entity.RoleEmployee:
		return false, nil
	}
	return false, nil
}

// canView aplica la visibilidad por rol de las consultas.
func (uc *UseCase) canView(actor *entity.User, req *entity.StockIssueRequest) bool {
	switch actor.Role {
	case entity.RoleSuperadmin, entity.RoleManager:
		return true
	case entity.RoleHOD:
		if req.RequesterID == actor.ID {
			return true
		}
		return actor.DepartmentID != nil && *actor.DepartmentID == req.DepartmentID
	case entity.RoleEmployee:
		return req.RequesterID == actor.ID
	}
	return false
}

func (uc *UseCase) auditEntry(req *entity.StockIssueRequest, action, actorID, detail string, now time.Time) *entity.AuditLog {
	return &entity.AuditLog{
		ID:         uuid.New().String(),
		EntityType: "StockIssueRequest",
		EntityID:   req.ID,
		Action:     action,
		UserID:     actorID,
		Detail:     detail,
		CreatedAt:  now,
	}
}

func findLine(req *entity.StockIssueRequest, lineID string) *entity.StockIssueLine {
	for _, l := range req.Lines {
		if l.ID == lineID {
			return l
		}
	}
	return nil
}

func toRequestResponse(req *entity.StockIssueRequest) *dto.RequestResponse {
	out := &dto.RequestResponse{
		ID:           req.ID,
		RequestNo:    req.RequestNo,
		RequesterID:  req.RequesterID,
		DepartmentID: req.DepartmentID,
		LocationID:   req.LocationID,
		Purpose:      req.Purpose,
		Remarks:      req.Remarks,
		Status:       string(req.Status),
		ApprovedBy:   req.ApprovedBy,
		ApprovedAt:   req.ApprovedAt,
		IssuedBy:     req.IssuedBy,
		IssuedAt:     req.IssuedAt,
		CreatedAt:    req.CreatedAt,
		UpdatedAt:    req.UpdatedAt,
		Lines:        make([]dto.RequestLineResponse, 0, len(req.Lines)),
	}
	for _, l := range req.Lines {
		out.Lines = append(out.Lines, dto.RequestLineResponse{
			ID:                l.ID,
			ItemID:            l.ItemID,
			QuantityRequested: l.QuantityRequested,
			QuantityIssued:    l.QuantityIssued,
			Remarks:           l.Remarks,
		})
	}
	return out
}
