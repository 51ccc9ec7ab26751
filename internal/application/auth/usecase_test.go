package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Licencia-api/internal/application/apptest"
	"github.com/jhoicas/Licencia-api/internal/application/auth"
	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/domain"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/pkg/jwt"
	"github.com/jhoicas/Licencia-api/pkg/logger"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "licencia-api-test"
)

func setup(t *testing.T) (*apptest.Store, *auth.AuthUseCase, *entity.Admin) {
	t.Helper()
	store := apptest.NewStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &entity.Admin{ID: "a-1", Name: "AYŞE", Phone: "5551112233", PasswordHash: string(hash),
		Permissions: []string{entity.PermAddCompany}}
	store.PutAdmin(admin)
	uc := auth.NewAuthUseCase(store.Admins(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: testIssuer}, logger.Nop()).
		WithHashCost(bcrypt.MinCost)
	return store, uc, admin
}

func TestLogin_CredencialesValidasDevuelveToken(t *testing.T) {
	_, uc, admin := setup(t)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Phone: " 5551112233 ", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, out.Admin.ID)
	assert.Equal(t, []string{entity.PermAddCompany}, out.Admin.Permissions)

	id, name, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, id)
	assert.Equal(t, "AYŞE", name)
}

func TestLogin_MismoErrorParaTelefonoYPassword(t *testing.T) {
	_, uc, _ := setup(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Phone: "5551112233", Password: "incorrecto"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Phone: "0000000000", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Phone: "", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthenticate_CargaAdminVigente(t *testing.T) {
	store, uc, admin := setup(t)
	ctx := context.Background()
	out, err := uc.Login(ctx, dto.LoginRequest{Phone: admin.Phone, Password: "secreto123"})
	require.NoError(t, err)

	got, err := uc.Authenticate(ctx, out.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	// un cambio de permisos se ve sin reemitir el token
	changed := *admin
	changed.Permissions = nil
	store.PutAdmin(&changed)
	got, err = uc.Authenticate(ctx, out.Token)
	require.NoError(t, err)
	assert.Empty(t, got.Permissions)

	require.NoError(t, store.Admins().Delete(ctx, admin.ID))
	_, err = uc.Authenticate(ctx, out.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Authenticate(ctx, "token.invalido.aqui")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthenticate_TokenDeOtroSecretoSeRechaza(t *testing.T) {
	_, uc, admin := setup(t)
	tok, err := jwt.Generate("otro-secret-completamente-distinto", admin.ID, admin.Name, testIssuer, 60)
	require.NoError(t, err)

	_, err = uc.Authenticate(context.Background(), tok)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	store, uc, admin := setup(t)
	ctx := context.Background()

	err := uc.ChangePassword(ctx, admin, dto.ChangePasswordRequest{CurrentPassword: "secreto123", NewPassword: "nuevo-secreto", ConfirmPassword: "otro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = uc.ChangePassword(ctx, admin, dto.ChangePasswordRequest{CurrentPassword: "mal", NewPassword: "nuevo-secreto", ConfirmPassword: "nuevo-secreto"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = uc.ChangePassword(ctx, admin, dto.ChangePasswordRequest{CurrentPassword: "secreto123", NewPassword: "corto", ConfirmPassword: "corto"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.ChangePassword(ctx, admin, dto.ChangePasswordRequest{
		CurrentPassword: "secreto123", NewPassword: "nuevo-secreto", ConfirmPassword: "nuevo-secreto",
	}))
	stored, err := store.Admins().GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("nuevo-secreto")))

	_, err = uc.Login(ctx, dto.LoginRequest{Phone: admin.Phone, Password: "nuevo-secreto"})
	assert.NoError(t, err)
}
