package dto

import "time"

// CreateUserRequest body para POST /api/users (solo superadmin).
type CreateUserRequest struct {
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	DepartmentID *string  `json:"department_id,omitempty"`
	LocationIDs  []string `json:"location_ids,omitempty"`
}

// UpdateUserRequest body para PUT /api/users/:id.
type UpdateUserRequest struct {
	Email        *string  `json:"email,omitempty"`
	Name         *string  `json:"name,omitempty"`
	Role         *string  `json:"role,omitempty"`
	DepartmentID *string  `json:"department_id,omitempty"`
	LocationIDs  []string `json:"location_ids,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
	Password     *string  `json:"password,omitempty"`
}

// UserResponse representación pública de un usuario (sin hash).
type UserResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	DepartmentID *string   `json:"department_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	LocationIDs  []string  `json:"location_ids,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserListResponse listado paginado.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Page  PageResponse   `json:"page"`
}
