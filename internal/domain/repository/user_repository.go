package repository

import "github.com/tu-usuario/almacen-ti/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
// Las implementaciones cargan LocationIDs junto con el usuario.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	List(limit, offset int) ([]*entity.User, error)
	ListByRole(role entity.Role) ([]*entity.User, error)
	// SetLocations reemplaza las bodegas asignadas al usuario.
	SetLocations(userID string, locationIDs []string) error
}
