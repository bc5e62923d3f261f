package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

// EntryTxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la entrada, el ajuste de
// existencias y la auditoría se confirman o revierten juntos.
type EntryTxRunner interface {
	RunEntry(ctx context.Context, fn func(
		entryRepo repository.StockEntryRepository,
		stockRepo repository.StockRepository,
		auditRepo repository.AuditRepository,
	) error) error
}

// BalanceExportRow fila del reporte XLSX de existencias.
type BalanceExportRow struct {
	ItemCode     string
	ItemName     string
	LocationCode string
	Quantity     decimal.Decimal
	UpdatedAt    time.Time
}

// BalanceExporter genera el archivo de existencias (implementado con
// excelize en infraestructura).
type BalanceExporter interface {
	BalancesXLSX(rows []BalanceExportRow) ([]byte, error)
}
