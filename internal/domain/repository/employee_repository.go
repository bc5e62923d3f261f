package repository

import "github.com/tu-usuario/almacen-ti/internal/domain/entity"

// EmployeeRepository define el puerto de persistencia para Employee.
type EmployeeRepository interface {
	Create(emp *entity.Employee) error
	GetByID(id string) (*entity.Employee, error)
	Update(emp *entity.Employee) error
	// List filtra opcionalmente por departamento (vacío = todos).
	List(departmentID string, limit, offset int) ([]*entity.Employee, error)
	Delete(id string) error
}
