package repository

import "github.com/tu-usuario/almacen-ti/internal/domain/entity"

// DepartmentRepository define el puerto de persistencia para Department.
type DepartmentRepository interface {
	Create(dept *entity.Department) error
	GetByID(id string) (*entity.Department, error)
	GetByCode(code string) (*entity.Department, error)
	Update(dept *entity.Department) error
	List(limit, offset int) ([]*entity.Department, error)
	// SetHOD fija (o limpia, con nil) la referencia al jefe del departamento.
	SetHOD(deptID string, hodID *string) error
}
