package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockEntryRequest body para POST /api/stock/entries.
type CreateStockEntryRequest struct {
	ItemID      string          `json:"item_id"`
	LocationID  string          `json:"location_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Description string          `json:"description,omitempty"`
	Remarks     string          `json:"remarks,omitempty"`
}

// StockEntryResponse representación de una entrada de stock.
type StockEntryResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	LocationID  string          `json:"location_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Description string          `json:"description,omitempty"`
	Remarks     string          `json:"remarks,omitempty"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StockEntryListResponse listado paginado.
type StockEntryListResponse struct {
	Entries []StockEntryResponse `json:"entries"`
	Page    PageResponse         `json:"page"`
}

// BalanceResponse existencia actual de un artículo en una bodega.
type BalanceResponse struct {
	ItemID     string          `json:"item_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// LowStockResponse balance por debajo del umbral del artículo.
type LowStockResponse struct {
	ItemID     string          `json:"item_id"`
	ItemCode   string          `json:"item_code"`
	ItemName   string          `json:"item_name"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Threshold  decimal.Decimal `json:"threshold"`
}
