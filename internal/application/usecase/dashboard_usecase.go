package usecase

import (
	"github.com/tu-usuario/almacen-ti/internal/application/dto"
	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

// DashboardUseCase arma los contadores del tablero según el rol.
type DashboardUseCase struct {
	dashRepo  repository.DashboardRepository
	auditRepo repository.AuditRepository
}

// NewDashboardUseCase construye el caso de uso del tablero.
func NewDashboardUseCase(dashRepo repository.DashboardRepository, auditRepo repository.AuditRepository) *DashboardUseCase {
	return &DashboardUseCase{dashRepo: dashRepo, auditRepo: auditRepo}
}

// Summary devuelve los contadores visibles para el usuario: globales para
// roles elevados, por departamento para hod, propios para employee.
func (uc *DashboardUseCase) Summary(actor *entity.User) (*dto.DashboardResponse, error) {
	var departmentID, requesterID string
	switch {
	case actor.Role.Elevated():
		// sin filtro
	case actor.Role == entity.RoleHOD && actor.DepartmentID != nil:
		departmentID = *actor.DepartmentID
	default:
		requesterID = actor.ID
	}
	counts, err := uc.dashRepo.Counts(departmentID, requesterID)
	if err != nil {
		return nil, err
	}
	out := &dto.DashboardResponse{
		PendingRequests:  counts.PendingRequests,
		ApprovedRequests: counts.ApprovedRequests,
		LowStockItems:    counts.LowStockItems,
	}
	if actor.Role.Elevated() {
		out.TotalUsers = counts.TotalUsers
		out.TotalDepartments = counts.TotalDepartments
		out.TotalItems = counts.TotalItems
		out.TotalLocations = counts.TotalLocations
	}
	return out, nil
}

// AuditTrail lista la auditoría (solo roles elevados; el gate de rol vive en
// el router).
func (uc *DashboardUseCase) AuditTrail(limit, offset int) (*dto.AuditLogListResponse, error) {
	logs, err := uc.auditRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.AuditLogListResponse{
		Logs: make([]dto.AuditLogResponse, 0, len(logs)),
		Page: dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, l := range logs {
		out.Logs = append(out.Logs, dto.AuditLogResponse{
			ID:         l.ID,
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			Action:     l.Action,
			UserID:     l.UserID,
			Detail:     l.Detail,
			CreatedAt:  l.CreatedAt,
		})
	}
	return out, nil
}
