package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/application/ports"
	"github.com/jhoicas/Licencia-api/internal/domain"
	"github.com/jhoicas/Licencia-api/internal/domain/access"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/repository"
	"github.com/jhoicas/Licencia-api/pkg/clock"
	"github.com/jhoicas/Licencia-api/pkg/logger"
)

// maxPublicIDAttempts candidatos a probar antes de rendirse con ErrConflict.
const maxPublicIDAttempts = 20

// HistoryReader historial de compras de una empresa (lo implementa subscription.Service).
type HistoryReader interface {
	History(ctx context.Context, caller *entity.Admin, companyID string) ([]dto.PurchaseHistoryItem, error)
}

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	tx         ports.TxRunner
	repo       repository.CompanyRepository
	packages   repository.PackageRepository
	history    HistoryReader
	renderer   ports.StatementRenderer
	cache      ports.LicenceCache
	clock      clock.Clock
	publicURL  string
	candidates func() int
	log        *logger.Logger
}

// NewCompanyUseCase construye el caso de uso con sus puertos.
func NewCompanyUseCase(
	tx ports.TxRunner,
	repo repository.CompanyRepository,
	packages repository.PackageRepository,
	history HistoryReader,
	renderer ports.StatementRenderer,
	cache ports.LicenceCache,
	clk clock.Clock,
	publicURL string,
	log *logger.Logger,
) *CompanyUseCase {
	return &CompanyUseCase{
		tx: tx, repo: repo, packages: packages, history: history, renderer: renderer,
		cache: cache, clock: clk, publicURL: strings.TrimRight(publicURL, "/"),
		candidates: randomPublicID, log: log.Component("company"),
	}
}

// WithPublicIDSource reemplaza el generador de candidatos de public_id.
func (uc *CompanyUseCase) WithPublicIDSource(fn func() int) *CompanyUseCase {
	uc.candidates = fn
	return uc
}

func randomPublicID() int {
	return entity.PublicIDMin + rand.IntN(entity.PublicIDMax-entity.PublicIDMin+1)
}

// Create crea una empresa propiedad del admin que llama. El public_id se elige
// al azar y la restricción UNIQUE decide; tras maxPublicIDAttempts colisiones devuelve ErrConflict.
func (uc *CompanyUseCase) Create(ctx context.Context, caller *entity.Admin, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := access.RequirePermission(caller, entity.PermAddCompany); err != nil {
		return nil, err
	}
	name := normalizeName(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	allowed, err := uc.validatePackageIDs(ctx, in.AllowedPackageIDs)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	company := &entity.Company{
		ID:                uuid.New().String(),
		Name:              name,
		ContactName:       normalizeName(in.ContactName),
		Phone:             strings.TrimSpace(in.Phone),
		Notes:             strings.TrimSpace(in.Notes),
		OwnerAdminID:      caller.ID,
		AllowedPackageIDs: allowed,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for attempt := 0; attempt < maxPublicIDAttempts; attempt++ {
		company.PublicID = uc.candidates()
		err = uc.tx.Run(ctx, func(st ports.Stores) error {
			if err := st.Companies.Create(ctx, company); err != nil {
				return err
			}
			if len(allowed) == 0 {
				return nil
			}
			return st.Companies.SetAllowedPackages(ctx, company.ID, allowed)
		})
		if errors.Is(err, domain.ErrDuplicate) {
			uc.log.Debug().Int("public_id", company.PublicID).Msg("public_id ocupado, reintentando")
			continue
		}
		if err != nil {
			return nil, err
		}
		// un "not_found" cacheado para este public_id ya no es cierto
		uc.invalidate(ctx, company.PublicID)
		uc.log.Info().Str("company_id", company.ID).Int("public_id", company.PublicID).Str("admin_id", caller.ID).Msg("empresa creada")
		return ToCompanyResponse(company, now), nil
	}
	uc.log.Error().Int("attempts", maxPublicIDAttempts).Msg("no se encontró public_id libre")
	return nil, fmt.Errorf("%w: no se pudo asignar un public_id libre", domain.ErrConflict)
}

// GetByID obtiene una empresa visible para el admin.
func (uc *CompanyUseCase) GetByID(ctx context.Context, caller *entity.Admin, id string) (*dto.CompanyResponse, error) {
	company, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanViewCompany(caller, company); err != nil {
		return nil, err
	}
	return ToCompanyResponse(company, uc.clock.Now()), nil
}

// List lista empresas con paginación; un admin acotado solo ve las propias.
func (uc *CompanyUseCase) List(ctx context.Context, caller *entity.Admin, limit, offset int) (*dto.CompanyListResponse, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	limit, offset = pageBounds(limit, offset)
	list, err := uc.repo.List(ctx, access.OwnerScope(caller), limit, offset)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *ToCompanyResponse(c, now))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update modifica los datos de contacto. El vencimiento solo cambia vía asignación o pago.
func (uc *CompanyUseCase) Update(ctx context.Context, caller *entity.Admin, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanMutateCompany(caller, entity.PermEditCompany, company); err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := normalizeName(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede quedar vacío", domain.ErrInvalidInput)
		}
		company.Name = name
	}
	if in.ContactName != nil {
		company.ContactName = normalizeName(*in.ContactName)
	}
	if in.Phone != nil {
		company.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Notes != nil {
		company.Notes = strings.TrimSpace(*in.Notes)
	}
	company.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return ToCompanyResponse(company, company.UpdatedAt), nil
}

// Delete elimina la empresa y, en cascada, su historial. El permiso se verifica antes de buscarla.
func (uc *CompanyUseCase) Delete(ctx context.Context, caller *entity.Admin, id string) error {
	if err := access.RequirePermission(caller, entity.PermDeleteCompany); err != nil {
		return err
	}
	company, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if err := access.CanViewCompany(caller, company); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, company.ID); err != nil {
		return err
	}
	uc.invalidate(ctx, company.PublicID)
	uc.log.Info().Str("company_id", company.ID).Int("public_id", company.PublicID).Str("admin_id", caller.ID).Msg("empresa eliminada")
	return nil
}

// Stats conteo de empresas por estado de licencia dentro del alcance del admin.
func (uc *CompanyUseCase) Stats(ctx context.Context, caller *entity.Admin) (*dto.CompanyStatsResponse, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	st, err := uc.repo.Stats(ctx, access.OwnerScope(caller), uc.clock.Now())
	if err != nil {
		return nil, err
	}
	return &dto.CompanyStatsResponse{
		Total:     st.Total,
		Active:    st.Active,
		Expired:   st.Expired,
		NoPackage: st.NoPackage,
	}, nil
}

// AllowedPackages paquetes habilitados de la empresa.
func (uc *CompanyUseCase) AllowedPackages(ctx context.Context, caller *entity.Admin, id string) (*dto.AllowedPackagesResponse, error) {
	company, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanViewCompany(caller, company); err != nil {
		return nil, err
	}
	return uc.allowedResponse(ctx, company)
}

// SetAllowedPackages reemplaza el conjunto de paquetes habilitados; lista vacía = sin restricción.
func (uc *CompanyUseCase) SetAllowedPackages(ctx context.Context, caller *entity.Admin, id string, in dto.AllowedPackagesRequest) (*dto.AllowedPackagesResponse, error) {
	company, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanMutateCompany(caller, entity.PermEditCompany, company); err != nil {
		return nil, err
	}
	allowed, err := uc.validatePackageIDs(ctx, in.PackageIDs)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.SetAllowedPackages(ctx, company.ID, allowed); err != nil {
		return nil, err
	}
	company.AllowedPackageIDs = allowed
	return uc.allowedResponse(ctx, company)
}

// Statement genera el PDF del comprobante de licencia con el historial y la URL de verificación.
func (uc *CompanyUseCase) Statement(ctx context.Context, caller *entity.Admin, id string) ([]byte, error) {
	company, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanViewCompany(caller, company); err != nil {
		return nil, err
	}
	history, err := uc.history.History(ctx, caller, company.ID)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	return uc.renderer.RenderStatement(ctx, &ports.LicenceStatement{
		Company:     *ToCompanyResponse(company, now),
		History:     history,
		CheckURL:    uc.publicURL + "/api/licence/" + strconv.Itoa(company.PublicID),
		GeneratedAt: now,
	})
}

func (uc *CompanyUseCase) load(ctx context.Context, id string) (*entity.Company, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa", domain.ErrNotFound)
	}
	return company, nil
}

// validatePackageIDs deduplica y exige paquetes existentes y no borrados.
func (uc *CompanyUseCase) validatePackageIDs(ctx context.Context, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		pkg, err := uc.packages.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if pkg == nil || pkg.IsDeleted {
			return nil, fmt.Errorf("%w: paquete %s inexistente", domain.ErrInvalidInput, id)
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

func (uc *CompanyUseCase) allowedResponse(ctx context.Context, company *entity.Company) (*dto.AllowedPackagesResponse, error) {
	out := &dto.AllowedPackagesResponse{
		CompanyID:    company.ID,
		Unrestricted: len(company.AllowedPackageIDs) == 0,
		Packages:     []dto.PackageResponse{},
	}
	for _, id := range company.AllowedPackageIDs {
		pkg, err := uc.packages.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if pkg != nil {
			out.Packages = append(out.Packages, ToPackageResponse(pkg))
		}
	}
	return out, nil
}

func (uc *CompanyUseCase) invalidate(ctx context.Context, publicID int) {
	if err := uc.cache.Invalidate(ctx, publicID); err != nil {
		uc.log.Warn().Err(err).Int("public_id", publicID).Msg("no se pudo invalidar la caché de licencia")
	}
}
