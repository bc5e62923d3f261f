package repository

import "github.com/tu-usuario/almacen-ti/internal/domain/entity"

// LocationRepository define el puerto de persistencia para Location.
type LocationRepository interface {
	Create(loc *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	Update(loc *entity.Location) error
	List(limit, offset int) ([]*entity.Location, error)
	ListByIDs(ids []string) ([]*entity.Location, error)
}
