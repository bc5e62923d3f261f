package issue

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Toda transición del ciclo de vida
// (crear/enviar/aprobar/rechazar/entregar/eliminar) corre dentro de una sola
// transacción para que el guard de estado y la mutación sean atómicos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		reqRepo repository.IssueRequestRepository,
		stockRepo repository.StockRepository,
		auditRepo repository.AuditRepository,
	) error) error
}

// NoteLine línea del acta de entrega en PDF.
type NoteLine struct {
	ItemCode  string
	ItemName  string
	Requested decimal.Decimal
	Issued    decimal.Decimal
}

// NotePDFGenerator genera el acta de entrega de una solicitud entregada
// (implementado con maroto en infraestructura).
type NotePDFGenerator interface {
	IssueNotePDF(req *entity.StockIssueRequest, lines []NoteLine) ([]byte, error)
}
