package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/domain"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
)

func TestCompanyCreate_GeneraPublicIDYNormalizaNombre(t *testing.T) {
	e := newEnv(t)
	e.company.WithPublicIDSource(sequence(54321))

	out, err := e.company.Create(context.Background(), seller, dto.CreateCompanyRequest{
		Name:              "  istanbul yazılım  ",
		ContactName:       "ali",
		AllowedPackageIDs: []string{"p-30", "p-30"},
	})
	require.NoError(t, err)

	assert.Equal(t, 54321, out.PublicID)
	assert.Equal(t, "İSTANBUL YAZILIM", out.Name)
	assert.Equal(t, "ALİ", out.ContactName)
	assert.Equal(t, seller.ID, out.OwnerAdminID)
	assert.Equal(t, "no_package", out.LicenceStatus)
	assert.Nil(t, out.ExpiresAt)
	assert.Equal(t, []string{"p-30"}, out.AllowedPackageIDs)
	assert.Equal(t, []string{"p-30"}, e.store.Company(out.ID).AllowedPackageIDs)
	assert.Contains(t, e.cache.Invalidated, 54321)
}

func TestCompanyCreate_ReintentaAnteColision(t *testing.T) {
	e := newEnv(t)
	e.store.PutCompany(&entity.Company{ID: "c-x", PublicID: 11111, Name: "X", OwnerAdminID: "otro"})
	e.company.WithPublicIDSource(sequence(11111, 11111, 22222))

	out, err := e.company.Create(context.Background(), seller, dto.CreateCompanyRequest{Name: "nueva"})
	require.NoError(t, err)
	assert.Equal(t, 22222, out.PublicID)
}

func TestCompanyCreate_SinPublicIDLibreDevuelveConflict(t *testing.T) {
	e := newEnv(t)
	e.store.PutCompany(&entity.Company{ID: "c-x", PublicID: 11111, Name: "X", OwnerAdminID: "otro"})
	calls := 0
	e.company.WithPublicIDSource(func() int { calls++; return 11111 })

	_, err := e.company.Create(context.Background(), seller, dto.CreateCompanyRequest{Name: "nueva"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 20, calls)
}

func TestCompanyCreate_Validaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.company.Create(ctx, reader, dto.CreateCompanyRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.company.Create(ctx, seller, dto.CreateCompanyRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.company.Create(ctx, seller, dto.CreateCompanyRequest{Name: "x", AllowedPackageIDs: []string{"p-old"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.company.Create(ctx, nil, dto.CreateCompanyRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCompany_AdminAcotadoSoloVeLasPropias(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.company.WithPublicIDSource(sequence(10001, 10002))
	own := e.createCompany(t, seller, "propia")
	other := e.createCompany(t, superAdmin, "ajena")

	_, err := e.company.GetByID(ctx, seller, other.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := e.company.GetByID(ctx, seller, own.ID)
	require.NoError(t, err)
	assert.Equal(t, own.PublicID, got.PublicID)

	list, err := e.company.List(ctx, seller, 0, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, own.ID, list.Items[0].ID)
	assert.Equal(t, 20, list.Page.Limit)

	all, err := e.company.List(ctx, superAdmin, 500, -1)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, 100, all.Page.Limit)
	assert.Equal(t, 0, all.Page.Offset)

	_, err = e.company.GetByID(ctx, seller, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompanyUpdate_RequierePermisoYPropiedad(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.company.WithPublicIDSource(sequence(10001, 10002))
	own := e.createCompany(t, seller, "propia")
	other := e.createCompany(t, superAdmin, "ajena")

	out, err := e.company.Update(ctx, seller, own.ID, dto.UpdateCompanyRequest{Name: ptr("renombrada"), Notes: ptr(" nota ")})
	require.NoError(t, err)
	assert.Equal(t, "RENOMBRADA", out.Name)
	assert.Equal(t, "nota", out.Notes)

	_, err = e.company.Update(ctx, seller, other.ID, dto.UpdateCompanyRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.company.Update(ctx, reader, own.ID, dto.UpdateCompanyRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.company.Update(ctx, seller, own.ID, dto.UpdateCompanyRequest{Name: ptr(" ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompanyDelete_PermisoAntesQueBusqueda(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	err := e.company.Delete(ctx, reader, "no-existe")
	assert.ErrorIs(t, err, domain.ErrForbidden, "sin permiso no se revela si existe")

	err = e.company.Delete(ctx, seller, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompanyDelete_EliminaEnCascadaEInvalidaCache(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.company.WithPublicIDSource(sequence(10001))
	own := e.createCompany(t, seller, "propia")

	_, err := e.subs.AssignPackage(ctx, seller, own.ID, dto.AssignPackageRequest{PackageID: "p-30"})
	require.NoError(t, err)
	require.Len(t, e.store.Entries(own.ID), 1)

	require.NoError(t, e.company.Delete(ctx, seller, own.ID))
	assert.Nil(t, e.store.Company(own.ID))
	assert.Empty(t, e.store.Entries(own.ID))
	assert.Contains(t, e.cache.Invalidated, 10001)
}

func TestCompanyStats_CuentaPorEstado(t *testing.T) {
	e := newEnv(t)
	past, future := day(2023, 12, 1), day(2024, 6, 1)
	e.store.PutCompany(&entity.Company{ID: "c-1", PublicID: 10001, OwnerAdminID: seller.ID, ExpiresAt: &future})
	e.store.PutCompany(&entity.Company{ID: "c-2", PublicID: 10002, OwnerAdminID: seller.ID, ExpiresAt: &past})
	e.store.PutCompany(&entity.Company{ID: "c-3", PublicID: 10003, OwnerAdminID: seller.ID})
	e.store.PutCompany(&entity.Company{ID: "c-4", PublicID: 10004, OwnerAdminID: "otro", ExpiresAt: &future})

	st, err := e.company.Stats(context.Background(), seller)
	require.NoError(t, err)
	assert.Equal(t, dto.CompanyStatsResponse{Total: 3, Active: 1, Expired: 1, NoPackage: 1}, *st)

	st, err = e.company.Stats(context.Background(), superAdmin)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 2, st.Active)
}

func TestCompanyAllowedPackages_ReemplazaYVacioEsSinRestriccion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.company.WithPublicIDSource(sequence(10001))
	own := e.createCompany(t, seller, "propia")

	got, err := e.company.AllowedPackages(ctx, seller, own.ID)
	require.NoError(t, err)
	assert.True(t, got.Unrestricted)
	assert.Empty(t, got.Packages)

	got, err = e.company.SetAllowedPackages(ctx, seller, own.ID, dto.AllowedPackagesRequest{PackageIDs: []string{"p-365"}})
	require.NoError(t, err)
	assert.False(t, got.Unrestricted)
	require.Len(t, got.Packages, 1)
	assert.Equal(t, "ANUAL", got.Packages[0].Caption)

	_, err = e.subs.AssignPackage(ctx, seller, own.ID, dto.AssignPackageRequest{PackageID: "p-30"})
	assert.ErrorIs(t, err, domain.ErrPackageNotAllowed)

	_, err = e.company.SetAllowedPackages(ctx, seller, own.ID, dto.AllowedPackagesRequest{PackageIDs: []string{"p-nada"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err = e.company.SetAllowedPackages(ctx, seller, own.ID, dto.AllowedPackagesRequest{})
	require.NoError(t, err)
	assert.True(t, got.Unrestricted)
}

func TestCompanyStatement_IncluyeHistorialYURLDeVerificacion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.company.WithPublicIDSource(sequence(10001))
	own := e.createCompany(t, seller, "propia")
	_, err := e.subs.AssignPackage(ctx, seller, own.ID, dto.AssignPackageRequest{PackageID: "p-30"})
	require.NoError(t, err)

	pdf, err := e.company.Statement(ctx, seller, own.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(pdf))

	st := e.renderer.last
	require.NotNil(t, st)
	assert.Equal(t, "https://licencia.example.com/api/licence/10001", st.CheckURL)
	assert.Equal(t, "active", st.Company.LicenceStatus)
	require.Len(t, st.History, 1)
	assert.Equal(t, "Asignación manual", st.History[0].AssignmentType)

	_, err = e.company.Statement(ctx, reader, own.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
