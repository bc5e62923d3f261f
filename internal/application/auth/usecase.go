package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/almacen-ti/internal/application/dto"
	"github.com/tu-usuario/almacen-ti/internal/domain"
	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
	"github.com/tu-usuario/almacen-ti/pkg/jwt"
)

// UseCase implementa la autenticación con credenciales locales.
type UseCase struct {
	userRepo   repository.UserRepository
	jwtSecret  string
	jwtIssuer  string
	expMinutes int
}

// NewUseCase construye el caso de uso de autenticación.
func NewUseCase(userRepo repository.UserRepository, jwtSecret, jwtIssuer string, expMinutes int) *UseCase {
	return &UseCase{
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		jwtIssuer:  jwtIssuer,
		expMinutes: expMinutes,
	}
}

// Login valida credenciales (username o email) y emite un JWT con el rol.
// Mismo error para usuario inexistente y contraseña incorrecta.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: usuario y contraseña son requeridos", domain.ErrInvalidInput)
	}
	user, err := uc.userRepo.GetByUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = uc.userRepo.GetByEmail(in.Username)
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: cuenta deshabilitada", domain.ErrUnauthorized)
	}
	token, err := jwt.Generate(uc.jwtSecret, user.ID, string(user.Role), uc.jwtIssuer, uc.expMinutes)
	if err != nil {
		return nil, fmt.Errorf("generando token: %w", err)
	}
	return &dto.LoginResponse{Token: token, User: *ToUserResponse(user)}, nil
}

// ToUserResponse mapea un usuario a su representación pública.
func ToUserResponse(user *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Name:         user.Name,
		Role:         string(user.Role),
		DepartmentID: user.DepartmentID,
		IsActive:     user.IsActive,
		LocationIDs:  user.LocationIDs,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}
