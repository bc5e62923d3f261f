package entity

import "time"

// Location representa una bodega (oficina + sala/depósito). No guarda
// cantidades: es la segunda llave de StockBalance.
type Location struct {
	ID        string
	Code      string
	Office    string
	Room      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
