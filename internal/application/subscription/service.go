package subscription

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/application/ports"
	"github.com/jhoicas/Licencia-api/internal/domain"
	"github.com/jhoicas/Licencia-api/internal/domain/access"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/licence"
	"github.com/jhoicas/Licencia-api/internal/domain/repository"
	"github.com/jhoicas/Licencia-api/pkg/clock"
	"github.com/jhoicas/Licencia-api/pkg/logger"
)

// RecentActivitiesLimit cantidad de actividades recientes que se devuelven.
const RecentActivitiesLimit = 15

// Service casos de uso del libro de suscripciones.
type Service struct {
	tx        ports.TxRunner
	companies repository.CompanyRepository
	packages  repository.PackageRepository
	ledger    repository.LedgerRepository
	extender  *Extender
	cache     ports.LicenceCache
	metrics   ports.Metrics
	clock     clock.Clock
	log       *logger.Logger
}

// NewService construye el servicio.
func NewService(
	tx ports.TxRunner,
	companies repository.CompanyRepository,
	packages repository.PackageRepository,
	ledger repository.LedgerRepository,
	extender *Extender,
	cache ports.LicenceCache,
	metrics ports.Metrics,
	clk clock.Clock,
	log *logger.Logger,
) *Service {
	return &Service{
		tx: tx, companies: companies, packages: packages, ledger: ledger,
		extender: extender, cache: cache, metrics: metrics, clock: clk,
		log: log.Component("subscription"),
	}
}

// AssignPackage asigna un paquete a una empresa: la entrada nace en éxito y se
// guarda en la misma transacción que el nuevo vencimiento.
func (s *Service) AssignPackage(ctx context.Context, caller *entity.Admin, companyID string, in dto.AssignPackageRequest) (*dto.AssignPackageResponse, error) {
	if err := access.RequirePermission(caller, entity.PermAssignPackage); err != nil {
		return nil, err
	}
	if in.PackageID == "" {
		return nil, fmt.Errorf("%w: package_id es requerido", domain.ErrInvalidInput)
	}
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa", domain.ErrNotFound)
	}
	if err := access.CanMutateCompany(caller, entity.PermAssignPackage, company); err != nil {
		return nil, err
	}
	pkg, err := s.packages.GetByID(ctx, in.PackageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil || pkg.IsDeleted {
		return nil, fmt.Errorf("%w: paquete", domain.ErrNotFound)
	}
	if !company.AllowsPackage(pkg.ID) {
		return nil, domain.ErrPackageNotAllowed
	}

	var (
		entryID string
		ext     *Extension
	)
	err = RunWithRetry(ctx, s.tx, func(st ports.Stores) error {
		x, err := s.extender.Extend(ctx, st, company.ID, pkg)
		if err != nil {
			return err
		}
		ext = x
		now := s.clock.Now()
		entry := &entity.LedgerEntry{
			ID:        uuid.New().String(),
			CompanyID: company.ID,
			PackageID: pkg.ID,
			Source:    entity.LedgerSourceAdmin,
			Outcome:   boolPtr(true),
			Amount:    pkg.Price,
			Description: fmt.Sprintf("Asignación manual de %s (%s) por %s",
				pkg.Caption, licence.DurationOf(pkg), caller.Name),
			CreatedAt:  now,
			ResolvedAt: &now,
		}
		if err := st.Ledger.Create(ctx, entry); err != nil {
			return err
		}
		actor := caller.ID
		if err := st.Ledger.AddEvent(ctx, &entity.LedgerEvent{
			ID: uuid.New().String(), LedgerEntryID: entry.ID, Kind: entity.LedgerEventCreated,
			ActorAdminID: &actor, Detail: "asignación manual", CreatedAt: now,
		}); err != nil {
			return err
		}
		newExp := ext.New
		if err := st.Ledger.AddEvent(ctx, &entity.LedgerEvent{
			ID: uuid.New().String(), LedgerEntryID: entry.ID, Kind: entity.LedgerEventAssigned,
			ActorAdminID: &actor, PreviousExpiresAt: ext.Previous, NewExpiresAt: &newExp,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		entryID = entry.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, company.PublicID)
	s.metrics.PackageApplied(entity.LedgerSourceAdmin, ext.Extended)
	s.log.Info().
		Str("company_id", company.ID).
		Str("package_id", pkg.ID).
		Str("admin_id", caller.ID).
		Time("expires_at", ext.New).
		Bool("extended", ext.Extended).
		Msg("paquete asignado")

	return &dto.AssignPackageResponse{
		LedgerEntryID:     entryID,
		CompanyID:         company.ID,
		PackageID:         pkg.ID,
		PreviousExpiresAt: ext.Previous,
		NewExpiresAt:      ext.New,
		Extended:          ext.Extended,
	}, nil
}

// History historial de compras y asignaciones de una empresa.
func (s *Service) History(ctx context.Context, caller *entity.Admin, companyID string) ([]dto.PurchaseHistoryItem, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa", domain.ErrNotFound)
	}
	if err := access.CanViewCompany(caller, company); err != nil {
		return nil, err
	}
	records, err := s.ledger.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseHistoryItem, 0, len(records))
	for _, r := range records {
		items = append(items, toHistoryItem(r))
	}
	return items, nil
}

// RecentActivities últimas entradas del libro visibles para el admin.
func (s *Service) RecentActivities(ctx context.Context, caller *entity.Admin) ([]dto.ActivityItem, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	list, err := s.ledger.ListRecent(ctx, access.OwnerScope(caller), RecentActivitiesLimit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ActivityItem, 0, len(list))
	for _, a := range list {
		items = append(items, dto.ActivityItem{
			LedgerEntryID:   a.Entry.ID,
			CompanyID:       a.Entry.CompanyID,
			CompanyName:     a.CompanyName,
			CompanyPublicID: a.CompanyPublicID,
			PackageCaption:  a.PackageCaption,
			Source:          a.Entry.Source,
			Status:          a.Entry.Status(),
			Amount:          a.Entry.Amount,
			CreatedAt:       a.Entry.CreatedAt,
		})
	}
	return items, nil
}

// EntryEvents transiciones registradas de una entrada del libro.
func (s *Service) EntryEvents(ctx context.Context, caller *entity.Admin, entryID string) ([]dto.LedgerEventResponse, error) {
	entry, err := s.ledger.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: entrada", domain.ErrNotFound)
	}
	company, err := s.companies.GetByID(ctx, entry.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa", domain.ErrNotFound)
	}
	if err := access.CanViewCompany(caller, company); err != nil {
		return nil, err
	}
	events, err := s.ledger.ListEvents(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LedgerEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, dto.LedgerEventResponse{
			ID:                ev.ID,
			Kind:              ev.Kind,
			ActorAdminID:      ev.ActorAdminID,
			PreviousExpiresAt: ev.PreviousExpiresAt,
			NewExpiresAt:      ev.NewExpiresAt,
			Detail:            ev.Detail,
			CreatedAt:         ev.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) invalidate(ctx context.Context, publicID int) {
	if err := s.cache.Invalidate(ctx, publicID); err != nil {
		s.log.Warn().Err(err).Int("public_id", publicID).Msg("no se pudo invalidar la caché de licencia")
	}
}

// AssignmentType texto del tipo de asignación según el origen.
func AssignmentType(source string) string {
	if source == entity.LedgerSourcePayment {
		return "Compra online"
	}
	return "Asignación manual"
}

func toHistoryItem(r *entity.PurchaseRecord) dto.PurchaseHistoryItem {
	return dto.PurchaseHistoryItem{
		LedgerEntryID:  r.Entry.ID,
		PackageID:      r.Entry.PackageID,
		PackageCaption: r.PackageCaption,
		PackagePrice:   r.PackagePrice,
		Amount:         r.Entry.Amount,
		DurationText: licence.Duration{
			Months:    r.DurationMonths,
			ExtraDays: derefInt(r.DurationExtraDays),
		}.String(),
		Source:         r.Entry.Source,
		AssignmentType: AssignmentType(r.Entry.Source),
		Status:         r.Entry.Status(),
		Description:    r.Entry.Description,
		CreatedAt:      r.Entry.CreatedAt,
		ResolvedAt:     r.Entry.ResolvedAt,
	}
}

func boolPtr(b bool) *bool { return &b }

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
