package entity

import "time"

// Department representa un departamento de la organización.
// HODID referencia al jefe de departamento; si está presente, ese usuario
// debe tener rol hod y su afiliación debe apuntar de vuelta a este
// departamento (a lo sumo un HOD activo por departamento).
type Department struct {
	ID        string
	Code      string
	Name      string
	HODID     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
