package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Licencia-api/internal/application/apptest"
	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/application/ports"
	"github.com/jhoicas/Licencia-api/internal/application/usecase"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/repository"
	"github.com/jhoicas/Licencia-api/pkg/logger"
)

func TestLicenceCheck_Estados(t *testing.T) {
	e := newEnv(t)
	past, future := day(2023, 12, 31), day(2024, 3, 1)
	now := e.clock.Now()
	e.store.PutCompany(&entity.Company{ID: "c-1", PublicID: 12345, ExpiresAt: &future})
	e.store.PutCompany(&entity.Company{ID: "c-2", PublicID: 23456, ExpiresAt: &past})
	e.store.PutCompany(&entity.Company{ID: "c-3", PublicID: 34567})
	e.store.PutCompany(&entity.Company{ID: "c-4", PublicID: 45678, ExpiresAt: &now})

	cases := []struct {
		in     string
		status string
	}{
		{"12345", dto.LicenceValid},
		{"23456", dto.LicenceExpired},
		{"34567", dto.LicenceNoPackage},
		{"45678", dto.LicenceValid},
		{"99999", dto.LicenceNotFound},
		{"01234", dto.LicenceMalformed},
		{"1234", dto.LicenceMalformed},
		{"123456", dto.LicenceMalformed},
		{"12a45", dto.LicenceMalformed},
		{" 12345", dto.LicenceMalformed},
		{"", dto.LicenceMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			out, err := e.licence.Check(context.Background(), tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.status, out.Status)
			assert.Equal(t, tc.in, out.PublicID)
		})
	}
	assert.Equal(t, 2, e.metrics.Checks[dto.LicenceValid])
	assert.Equal(t, 6, e.metrics.Checks[dto.LicenceMalformed])
}

func TestLicenceCheck_ExpiraConElPasoDelTiempoAunqueEsteCacheado(t *testing.T) {
	e := newEnv(t)
	exp := day(2024, 1, 10)
	e.store.PutCompany(&entity.Company{ID: "c-1", PublicID: 12345, ExpiresAt: &exp})
	ctx := context.Background()

	out, err := e.licence.Check(ctx, "12345")
	require.NoError(t, err)
	assert.Equal(t, dto.LicenceValid, out.Status)
	require.NotNil(t, out.ExpiresAt)

	e.clock.Advance(10*24*time.Hour + time.Second)
	out, err = e.licence.Check(ctx, "12345")
	require.NoError(t, err)
	assert.Equal(t, dto.LicenceExpired, out.Status)
	assert.Equal(t, 1, e.cache.Hits)
}

func TestLicenceCheck_AsignacionInvalidaLaCache(t *testing.T) {
	e := newEnv(t)
	e.store.PutCompany(&entity.Company{ID: "c-1", PublicID: 12345, OwnerAdminID: seller.ID})
	ctx := context.Background()

	out, err := e.licence.Check(ctx, "12345")
	require.NoError(t, err)
	assert.Equal(t, dto.LicenceNoPackage, out.Status)

	_, err = e.subs.AssignPackage(ctx, seller, "c-1", dto.AssignPackageRequest{PackageID: "p-30"})
	require.NoError(t, err)

	out, err = e.licence.Check(ctx, "12345")
	require.NoError(t, err)
	assert.Equal(t, dto.LicenceValid, out.Status)
	assert.Equal(t, day(2024, 2, 1), *out.ExpiresAt)
}

// brokenCache simula Redis caído.
type brokenCache struct{}

func (brokenCache) Get(context.Context, int) (*ports.LicenceSnapshot, int64, error) {
	return nil, 0, errors.New("dial tcp: connection refused")
}
func (brokenCache) Set(context.Context, int, int64, ports.LicenceSnapshot) error {
	return errors.New("dial tcp: connection refused")
}
func (brokenCache) Invalidate(context.Context, int) error { return nil }

func TestLicenceCheck_CacheCaidaNoTumbaLaVerificacion(t *testing.T) {
	e := newEnv(t)
	exp := day(2024, 6, 1)
	e.store.PutCompany(&entity.Company{ID: "c-1", PublicID: 12345, ExpiresAt: &exp})
	uc := usecase.NewLicenceUseCase(e.store.Companies(), brokenCache{}, apptest.NewMetrics(), e.clock, logger.Nop())

	out, err := uc.Check(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, dto.LicenceValid, out.Status)
}

// racingCompanies simula una compra que se confirma entre la lectura de la DB y la
// escritura en caché: después de leer, extiende el vencimiento e invalida la clave.
type racingCompanies struct {
	repository.CompanyRepository
	cache   ports.LicenceCache
	extend  time.Time
	pending bool
}

func (r *racingCompanies) GetByPublicID(ctx context.Context, publicID int) (*entity.Company, error) {
	c, err := r.CompanyRepository.GetByPublicID(ctx, publicID)
	if err != nil || c == nil || !r.pending {
		return c, err
	}
	r.pending = false
	if err := r.CompanyRepository.UpdateExpiry(ctx, c.ID, r.extend); err != nil {
		return nil, err
	}
	return c, r.cache.Invalidate(ctx, publicID)
}

func TestLicenceCheck_InvalidacionDuranteLecturaNoDejaCacheVieja(t *testing.T) {
	e := newEnv(t)
	e.store.PutCompany(&entity.Company{ID: "c-1", PublicID: 12345})
	companies := &racingCompanies{
		CompanyRepository: e.store.Companies(), cache: e.cache, extend: day(2024, 2, 1), pending: true,
	}
	uc := usecase.NewLicenceUseCase(companies, e.cache, e.metrics, e.clock, logger.Nop())
	ctx := context.Background()

	out, err := uc.Check(ctx, "12345")
	require.NoError(t, err)
	assert.Equal(t, dto.LicenceNoPackage, out.Status)
	assert.Equal(t, 1, e.cache.SkippedSets)

	out, err = uc.Check(ctx, "12345")
	require.NoError(t, err)
	assert.Equal(t, dto.LicenceValid, out.Status)
	require.NotNil(t, out.ExpiresAt)
	assert.Equal(t, day(2024, 2, 1), *out.ExpiresAt)

	// Sin invalidaciones nuevas la tercera consulta ya sale de la caché.
	hits := e.cache.Hits
	_, err = uc.Check(ctx, "12345")
	require.NoError(t, err)
	assert.Equal(t, hits+1, e.cache.Hits)
}
