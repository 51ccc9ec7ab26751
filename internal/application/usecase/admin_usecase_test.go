package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/domain"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
)

func TestAdminCreate_HasheaPasswordYValidaPermisos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	out, err := e.admins.Create(ctx, superAdmin, dto.CreateAdminRequest{
		Name:        "ayşe",
		Phone:       " 5551112233 ",
		Password:    "secreto123",
		Permissions: []string{entity.PermAddCompany, entity.PermAddCompany},
	})
	require.NoError(t, err)
	assert.Equal(t, "AYŞE", out.Name)
	assert.Equal(t, "5551112233", out.Phone)
	assert.Equal(t, []string{entity.PermAddCompany}, out.Permissions)

	stored, err := e.store.Admins().GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secreto123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto123")))

	_, err = e.admins.Create(ctx, superAdmin, dto.CreateAdminRequest{Name: "x", Phone: "5551112233", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = e.admins.Create(ctx, superAdmin, dto.CreateAdminRequest{Name: "x", Phone: "1", Password: "corto"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.admins.Create(ctx, superAdmin, dto.CreateAdminRequest{Name: "x", Phone: "2", Password: "secreto123", Permissions: []string{"root"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdmin_GestionSoloSuperAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.admins.List(ctx, seller)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.admins.Create(ctx, seller, dto.CreateAdminRequest{Name: "x", Phone: "1", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.admins.GetByID(ctx, seller, superAdmin.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.admins.List(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAdminList_IncluyeCantidadDeEmpresas(t *testing.T) {
	e := newEnv(t)
	e.store.PutAdmin(superAdmin)
	e.store.PutAdmin(seller)
	e.store.PutCompany(&entity.Company{ID: "c-1", PublicID: 10001, OwnerAdminID: seller.ID})
	e.store.PutCompany(&entity.Company{ID: "c-2", PublicID: 10002, OwnerAdminID: seller.ID})

	list, err := e.admins.List(context.Background(), superAdmin)
	require.NoError(t, err)
	require.Len(t, list, 2)
	counts := map[string]int{}
	for _, a := range list {
		counts[a.ID] = a.CompanyCount
	}
	assert.Equal(t, 2, counts[seller.ID])
	assert.Equal(t, 0, counts[superAdmin.ID])
}

func TestAdminDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.store.PutAdmin(superAdmin)
	e.store.PutAdmin(seller)
	e.store.PutAdmin(reader)
	e.store.PutCompany(&entity.Company{ID: "c-1", PublicID: 10001, OwnerAdminID: seller.ID})

	assert.ErrorIs(t, e.admins.Delete(ctx, superAdmin, superAdmin.ID), domain.ErrSelfDelete)
	assert.ErrorIs(t, e.admins.Delete(ctx, seller, seller.ID), domain.ErrSelfDelete, "la auto-eliminación se detecta antes que el rol")
	assert.ErrorIs(t, e.admins.Delete(ctx, seller, reader.ID), domain.ErrForbidden)
	assert.ErrorIs(t, e.admins.Delete(ctx, superAdmin, "no-existe"), domain.ErrNotFound)
	assert.ErrorIs(t, e.admins.Delete(ctx, superAdmin, seller.ID), domain.ErrConflict, "todavía posee empresas")

	require.NoError(t, e.admins.Delete(ctx, superAdmin, reader.ID))
	gone, err := e.store.Admins().GetByID(ctx, reader.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestAdminUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.store.PutAdmin(superAdmin)
	e.store.PutAdmin(seller)

	out, err := e.admins.Update(ctx, superAdmin, seller.ID, dto.UpdateAdminRequest{
		Permissions: &[]string{entity.PermAssignPackage},
		Password:    ptr("nuevo-secreto"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{entity.PermAssignPackage}, out.Permissions)
	stored, _ := e.store.Admins().GetByID(ctx, seller.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("nuevo-secreto")))

	_, err = e.admins.Update(ctx, superAdmin, superAdmin.ID, dto.UpdateAdminRequest{IsSuperAdmin: ptr(false)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.admins.Update(ctx, superAdmin, seller.ID, dto.UpdateAdminRequest{Permissions: &[]string{"todo"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdminMe_SuperAdminListaTodosLosPermisos(t *testing.T) {
	e := newEnv(t)
	out, err := e.admins.Me(context.Background(), superAdmin)
	require.NoError(t, err)
	assert.True(t, out.IsSuperAdmin)
	assert.ElementsMatch(t, entity.AllPermissions, out.Permissions)

	_, err = e.admins.Me(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAdminBootstrap_SoloSinAdministradores(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	out, err := e.admins.Bootstrap(ctx, dto.CreateAdminRequest{Name: "root", Phone: "5550000000", Password: "secreto123"})
	require.NoError(t, err)
	assert.True(t, out.IsSuperAdmin)

	_, err = e.admins.Bootstrap(ctx, dto.CreateAdminRequest{Name: "otro", Phone: "5550000001", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
