package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance representa la existencia actual de un artículo en una bodega.
// A lo sumo una fila por par (item, location); Quantity nunca es negativa.
type StockBalance struct {
	ItemID     string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
