package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry representa una compra/alta de stock. Es inmutable: crear una
// entrada es la única forma de aumentar existencias (además del ajuste
// administrativo).
type StockEntry struct {
	ID          string
	ItemID      string
	LocationID  string
	Quantity    decimal.Decimal // siempre positiva
	Description string
	Remarks     string
	CreatedBy   string
	CreatedAt   time.Time
}
