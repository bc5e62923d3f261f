package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
)

// LowStockRow es un balance unido a los datos mínimos del artículo para el
// reporte de stock bajo.
type LowStockRow struct {
	ItemID     string
	ItemCode   string
	ItemName   string
	LocationID string
	Quantity   decimal.Decimal
	Threshold  decimal.Decimal
}

// BalanceFilter acota listados de existencias.
// LocationIDs restringe a las bodegas accesibles del usuario (nil = sin
// restricción, el caso de los roles elevados).
type BalanceFilter struct {
	ItemID       string
	LocationID   string
	LocationIDs  []string
	OnlyPositive bool
}

// StockRepository define el puerto para consultar/actualizar existencias por
// (item, location). Las mutaciones se usan siempre dentro de transacciones.
type StockRepository interface {
	// Get devuelve la fila o una fila en cero si no existe (nunca falla por
	// par desconocido).
	Get(itemID, locationID string) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(itemID, locationID string) (*entity.StockBalance, error)
	Upsert(balance *entity.StockBalance) error
	ListBalances(filter BalanceFilter) ([]*entity.StockBalance, error)
	// ListLowStock devuelve balances con cantidad <= umbral del artículo.
	ListLowStock(locationIDs []string) ([]*LowStockRow, error)
}

// StockEntryRepository define el puerto de persistencia para StockEntry.
type StockEntryRepository interface {
	Create(entry *entity.StockEntry) error
	List(limit, offset int) ([]*entity.StockEntry, error)
}
