package stock

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-ti/internal/domain"
	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

// Adjust es el único mutador de existencias. Bloquea la fila (item, location)
// con SELECT FOR UPDATE, aplica el delta y persiste. Las entradas de stock lo
// llaman con delta positivo; la entrega de solicitudes con delta negativo.
// Si el resultado fuera negativo falla con ErrInsufficientStock y no persiste
// nada. Debe invocarse dentro de una transacción (stockRepo atado a la tx).
func Adjust(stockRepo repository.StockRepository, itemID, locationID string, delta decimal.Decimal, now time.Time) (*entity.StockBalance, error) {
	balance, err := stockRepo.GetForUpdate(itemID, locationID)
	if err != nil {
		return nil, err
	}
	newQty := balance.Quantity.Add(delta)
	if newQty.IsNegative() {
		return nil, fmt.Errorf("%w: disponible %s, solicitado %s",
			domain.ErrInsufficientStock, balance.Quantity, delta.Neg())
	}
	balance.Quantity = newQty
	balance.UpdatedAt = now
	if err := stockRepo.Upsert(balance); err != nil {
		return nil, err
	}
	return balance, nil
}
