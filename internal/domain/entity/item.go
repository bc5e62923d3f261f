package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del catálogo de activos TI.
type Item struct {
	ID                string
	Code              string // código único
	Name              string
	Make              string
	Variant           string
	Description       string
	LowStockThreshold decimal.Decimal // umbral de alerta, nunca negativo
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
