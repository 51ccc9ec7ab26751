package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/application/usecase"
	"github.com/jhoicas/Licencia-api/internal/domain"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/repository"
	"github.com/jhoicas/Licencia-api/pkg/jwt"
	"github.com/jhoicas/Licencia-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// dummyHash se compara cuando el teléfono no existe para que la respuesta tarde lo mismo.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("licencia-api-dummy-password"), bcrypt.DefaultCost)

// AuthUseCase casos de uso de autenticación de administradores.
type AuthUseCase struct {
	admins   repository.AdminRepository
	jwtCfg   JWTConfig
	hashCost int
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(admins repository.AdminRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{admins: admins, jwtCfg: jwtCfg, hashCost: bcrypt.DefaultCost, log: log.Component("auth")}
}

// WithHashCost ajusta el costo de bcrypt para los passwords nuevos.
func (uc *AuthUseCase) WithHashCost(cost int) *AuthUseCase {
	uc.hashCost = cost
	return uc
}

// Login verifica teléfono/password, genera JWT y retorna token + admin.
// Teléfono inexistente y password incorrecto devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	phone := strings.TrimSpace(in.Phone)
	if phone == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: phone y password son requeridos", domain.ErrInvalidInput)
	}
	admin, err := uc.admins.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
		uc.log.Warn().Str("phone", phone).Msg("login con teléfono desconocido")
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Warn().Str("admin_id", admin.ID).Msg("login con password incorrecto")
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, admin.ID, admin.Name, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("admin_id", admin.ID).Msg("login")
	return &dto.LoginResponse{
		Token: token,
		Admin: usecase.ToAdminResponse(admin, 0),
	}, nil
}

// Authenticate valida el token y carga el admin vigente desde la DB, de modo que
// los cambios de permisos o una baja se apliquen en el siguiente request.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.Admin, error) {
	adminID, _, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	admin, err := uc.admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, fmt.Errorf("%w: el administrador ya no existe", domain.ErrUnauthorized)
	}
	return admin, nil
}

// ChangePassword cambia el password del admin autenticado verificando el actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, caller *entity.Admin, in dto.ChangePasswordRequest) error {
	if caller == nil {
		return domain.ErrUnauthorized
	}
	if in.NewPassword != in.ConfirmPassword {
		return fmt.Errorf("%w: la confirmación no coincide", domain.ErrInvalidInput)
	}
	if len(in.NewPassword) < usecase.MinPasswordLength {
		return fmt.Errorf("%w: el password debe tener al menos %d caracteres", domain.ErrInvalidInput, usecase.MinPasswordLength)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(caller.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return fmt.Errorf("%w: el password actual es incorrecto", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), uc.hashCost)
	if err != nil {
		return err
	}
	if err := uc.admins.UpdatePassword(ctx, caller.ID, string(hash)); err != nil {
		return err
	}
	uc.log.Info().Str("admin_id", caller.ID).Msg("password actualizado")
	return nil
}
