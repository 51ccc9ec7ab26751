package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Licencia-api/internal/domain"
	"github.com/jhoicas/Licencia-api/internal/domain/access"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
)

var (
	super   = &entity.Admin{ID: "super", IsSuperAdmin: true}
	scoped  = &entity.Admin{ID: "scoped", Permissions: []string{entity.PermDeleteCompany, entity.PermEditCompany}}
	noPerms = &entity.Admin{ID: "bare"}
)

func TestCanMutateCompany_SinPermisoEsForbidden(t *testing.T) {
	own := &entity.Company{ID: "c1", OwnerAdminID: noPerms.ID}
	err := access.CanMutateCompany(noPerms, entity.PermDeleteCompany, own)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCanMutateCompany_ConPermisoPeroAjenaEsForbidden(t *testing.T) {
	other := &entity.Company{ID: "c1", OwnerAdminID: "otro"}
	err := access.CanMutateCompany(scoped, entity.PermDeleteCompany, other)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCanMutateCompany_ConPermisoYPropia(t *testing.T) {
	own := &entity.Company{ID: "c1", OwnerAdminID: scoped.ID}
	assert.NoError(t, access.CanMutateCompany(scoped, entity.PermDeleteCompany, own))
}

func TestCanMutateCompany_SuperAdminIgnoraPropiedad(t *testing.T) {
	other := &entity.Company{ID: "c1", OwnerAdminID: "otro"}
	for _, perm := range entity.AllPermissions {
		assert.NoError(t, access.CanMutateCompany(super, perm, other), perm)
	}
}

func TestCanMutateCompany_SinAdminEsUnauthorized(t *testing.T) {
	err := access.CanMutateCompany(nil, entity.PermEditCompany, &entity.Company{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCanDeleteAdmin_AutoEliminacionDistintaDeForbidden(t *testing.T) {
	err := access.CanDeleteAdmin(super, super.ID)
	assert.ErrorIs(t, err, domain.ErrSelfDelete)
	assert.NotErrorIs(t, err, domain.ErrForbidden)

	err = access.CanDeleteAdmin(scoped, scoped.ID)
	assert.ErrorIs(t, err, domain.ErrSelfDelete, "se rechaza sin importar el nivel de permisos")
}

func TestCanDeleteAdmin_SoloSuperAdmin(t *testing.T) {
	assert.NoError(t, access.CanDeleteAdmin(super, "otro"))
	assert.ErrorIs(t, access.CanDeleteAdmin(scoped, "otro"), domain.ErrForbidden)
}

func TestOwnerScope(t *testing.T) {
	assert.Equal(t, "", access.OwnerScope(super))
	assert.Equal(t, scoped.ID, access.OwnerScope(scoped))
}
