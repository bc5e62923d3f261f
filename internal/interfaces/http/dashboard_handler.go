package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-ti/internal/application/usecase"
)

// DashboardHandler maneja el tablero y la auditoría (protegido).
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Contadores del tablero
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AuditTrail godoc
// @Summary      Listar auditoría
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo por página"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.AuditLogListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/audit [get]
func (h *DashboardHandler) AuditTrail(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	out, err := h.uc.AuditTrail(limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
