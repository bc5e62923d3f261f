package entity

import "time"

// Role es la enumeración cerrada de roles del sistema. Se compara siempre
// contra estas constantes, nunca contra literales sueltos.
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleManager    Role = "manager"
	RoleHOD        Role = "hod"
	RoleEmployee   Role = "employee"
)

// Valid indica si el rol pertenece a la enumeración.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperadmin, RoleManager, RoleHOD, RoleEmployee:
		return true
	}
	return false
}

// Elevated indica si el rol pasa implícitamente todo filtro por bodega o
// departamento (superadmin y manager ven todo).
func (r Role) Elevated() bool {
	return r == RoleSuperadmin || r == RoleManager
}

// User representa un usuario del sistema.
// LocationIDs son las bodegas asignadas (tabla user_locations); vacío para
// roles elevados, que acceden a todas.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         Role
	DepartmentID *string
	IsActive     bool
	LocationIDs  []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanAccessLocation evalúa el predicado centralizado de acceso a bodegas:
// roles elevados primero, después la asignación explícita.
func (u *User) CanAccessLocation(locationID string) bool {
	if u.Role.Elevated() {
		return true
	}
	for _, id := range u.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}
