package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/domain"
	"github.com/jhoicas/Licencia-api/internal/domain/access"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/licence"
	"github.com/jhoicas/Licencia-api/internal/domain/repository"
	"github.com/jhoicas/Licencia-api/pkg/clock"
	"github.com/jhoicas/Licencia-api/pkg/logger"
)

// PackageUseCase catálogo de paquetes de suscripción.
type PackageUseCase struct {
	repo  repository.PackageRepository
	clock clock.Clock
	log   *logger.Logger
}

// NewPackageUseCase construye el caso de uso.
func NewPackageUseCase(repo repository.PackageRepository, clk clock.Clock, log *logger.Logger) *PackageUseCase {
	return &PackageUseCase{repo: repo, clock: clk, log: log.Component("package")}
}

// List paquetes vigentes, más recientes primero.
func (uc *PackageUseCase) List(ctx context.Context) ([]dto.PackageResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PackageResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToPackageResponse(p))
	}
	return out, nil
}

// GetByID obtiene un paquete; los borrados se devuelven marcados porque el historial los referencia.
func (uc *PackageUseCase) GetByID(ctx context.Context, id string) (*dto.PackageResponse, error) {
	pkg, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, fmt.Errorf("%w: paquete", domain.ErrNotFound)
	}
	out := ToPackageResponse(pkg)
	return &out, nil
}

// Create crea un paquete.
func (uc *PackageUseCase) Create(ctx context.Context, caller *entity.Admin, in dto.CreatePackageRequest) (*dto.PackageResponse, error) {
	if err := access.RequirePermission(caller, entity.PermAddPackage); err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	pkg := &entity.Package{
		ID:                uuid.New().String(),
		Caption:           normalizeName(in.Caption),
		DurationMonths:    in.DurationMonths,
		DurationExtraDays: in.DurationExtraDays,
		Price:             in.Price,
		Description:       strings.TrimSpace(in.Description),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := validatePackage(pkg); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, pkg); err != nil {
		return nil, err
	}
	uc.log.Info().Str("package_id", pkg.ID).Str("caption", pkg.Caption).Str("admin_id", caller.ID).Msg("paquete creado")
	out := ToPackageResponse(pkg)
	return &out, nil
}

// Update modifica un paquete vigente. ClearExtraDays deja los días extra en NULL.
func (uc *PackageUseCase) Update(ctx context.Context, caller *entity.Admin, id string, in dto.UpdatePackageRequest) (*dto.PackageResponse, error) {
	if err := access.RequirePermission(caller, entity.PermEditPackage); err != nil {
		return nil, err
	}
	pkg, err := uc.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Caption != nil {
		pkg.Caption = normalizeName(*in.Caption)
	}
	if in.DurationMonths != nil {
		pkg.DurationMonths = *in.DurationMonths
	}
	if in.ClearExtraDays {
		pkg.DurationExtraDays = nil
	} else if in.DurationExtraDays != nil {
		days := *in.DurationExtraDays
		pkg.DurationExtraDays = &days
	}
	if in.Price != nil {
		pkg.Price = *in.Price
	}
	if in.Description != nil {
		pkg.Description = strings.TrimSpace(*in.Description)
	}
	if err := validatePackage(pkg); err != nil {
		return nil, err
	}
	pkg.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Update(ctx, pkg); err != nil {
		return nil, err
	}
	out := ToPackageResponse(pkg)
	return &out, nil
}

// Delete borrado lógico: el paquete deja de ofrecerse pero el historial lo conserva.
func (uc *PackageUseCase) Delete(ctx context.Context, caller *entity.Admin, id string) error {
	if err := access.RequirePermission(caller, entity.PermDeletePackage); err != nil {
		return err
	}
	pkg, err := uc.loadActive(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.SoftDelete(ctx, pkg.ID); err != nil {
		return err
	}
	uc.log.Info().Str("package_id", pkg.ID).Str("admin_id", caller.ID).Msg("paquete eliminado")
	return nil
}

// Stats resumen del catálogo y lo recaudado por pagos exitosos.
func (uc *PackageUseCase) Stats(ctx context.Context) (*dto.PackageStatsResponse, error) {
	st, err := uc.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.PackageStatsResponse{
		Count:          st.Count,
		CatalogueValue: st.CatalogueValue,
		Revenue:        st.Revenue,
	}, nil
}

func (uc *PackageUseCase) loadActive(ctx context.Context, id string) (*entity.Package, error) {
	pkg, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pkg == nil || pkg.IsDeleted {
		return nil, fmt.Errorf("%w: paquete", domain.ErrNotFound)
	}
	return pkg, nil
}

func validatePackage(p *entity.Package) error {
	if p.Caption == "" {
		return fmt.Errorf("%w: caption es requerido", domain.ErrInvalidInput)
	}
	if p.DurationMonths < 0 || p.ExtraDays() < 0 {
		return fmt.Errorf("%w: la duración no puede ser negativa", domain.ErrInvalidInput)
	}
	if licence.DurationOf(p).IsZero() {
		return fmt.Errorf("%w: la duración debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if p.Price.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	if !p.Price.Equal(p.Price.Round(2)) {
		return fmt.Errorf("%w: el precio admite hasta 2 decimales", domain.ErrInvalidInput)
	}
	return nil
}
