package entity

import "time"

// Employee representa la ficha de un empleado (puede o no tener usuario).
type Employee struct {
	ID           string
	EmpID        string // código único de empleado
	Name         string
	DepartmentID *string
	UserID       *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
