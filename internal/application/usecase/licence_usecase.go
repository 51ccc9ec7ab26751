package usecase

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/application/ports"
	"github.com/jhoicas/Licencia-api/internal/domain/licence"
	"github.com/jhoicas/Licencia-api/internal/domain/repository"
	"github.com/jhoicas/Licencia-api/pkg/clock"
	"github.com/jhoicas/Licencia-api/pkg/logger"
)

// publicIDPattern cinco dígitos sin cero inicial.
var publicIDPattern = regexp.MustCompile(`^[1-9][0-9]{4}$`)

// LicenceUseCase verificación pública de licencias. Solo lee el vencimiento de la empresa.
type LicenceUseCase struct {
	companies repository.CompanyRepository
	cache     ports.LicenceCache
	metrics   ports.Metrics
	clock     clock.Clock
	log       *logger.Logger
}

// NewLicenceUseCase construye el caso de uso.
func NewLicenceUseCase(companies repository.CompanyRepository, cache ports.LicenceCache, metrics ports.Metrics, clk clock.Clock, log *logger.Logger) *LicenceUseCase {
	return &LicenceUseCase{companies: companies, cache: cache, metrics: metrics, clock: clk, log: log.Component("licence")}
}

// Check clasifica la licencia del public_id recibido. Las entradas mal formadas o
// inexistentes son un estado de la respuesta, no un error; el error queda para fallas de la DB.
func (uc *LicenceUseCase) Check(ctx context.Context, raw string) (*dto.LicenceCheckResponse, error) {
	if !publicIDPattern.MatchString(raw) {
		return uc.result(dto.LicenceMalformed, raw, nil), nil
	}
	publicID, _ := strconv.Atoi(raw)

	snap, gen, err := uc.cache.Get(ctx, publicID)
	cacheOK := err == nil
	if !cacheOK {
		uc.log.Warn().Err(err).Int("public_id", publicID).Msg("caché de licencia no disponible")
		snap = nil
	}
	if snap == nil {
		company, err := uc.companies.GetByPublicID(ctx, publicID)
		if err != nil {
			uc.log.Error().Err(err).Int("public_id", publicID).Msg("fallo al verificar licencia")
			return nil, err
		}
		snap = &ports.LicenceSnapshot{Found: company != nil}
		if company != nil {
			snap.ExpiresAt = company.ExpiresAt
		}
		if cacheOK {
			if err := uc.cache.Set(ctx, publicID, gen, *snap); err != nil {
				uc.log.Warn().Err(err).Int("public_id", publicID).Msg("no se pudo cachear la licencia")
			}
		}
	}

	if !snap.Found {
		return uc.result(dto.LicenceNotFound, raw, nil), nil
	}
	switch licence.Classify(snap.ExpiresAt, uc.clock.Now()) {
	case licence.StatusActive:
		return uc.result(dto.LicenceValid, raw, snap.ExpiresAt), nil
	case licence.StatusExpired:
		return uc.result(dto.LicenceExpired, raw, snap.ExpiresAt), nil
	default:
		return uc.result(dto.LicenceNoPackage, raw, nil), nil
	}
}

func (uc *LicenceUseCase) result(status, publicID string, expiresAt *time.Time) *dto.LicenceCheckResponse {
	uc.metrics.LicenceChecked(status)
	return &dto.LicenceCheckResponse{Status: status, PublicID: publicID, ExpiresAt: expiresAt}
}
