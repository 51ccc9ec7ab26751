// Package apptest provee implementaciones en memoria de los puertos de
// persistencia, caché y métricas para los tests de la capa de aplicación.
package apptest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Licencia-api/internal/application/ports"
	"github.com/jhoicas/Licencia-api/internal/domain"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/licence"
	"github.com/jhoicas/Licencia-api/internal/domain/repository"
)

// Store base de datos en memoria. Run serializa las transacciones y restaura
// el estado completo si fn devuelve error.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	companies map[string]*entity.Company
	packages  map[string]*entity.Package
	entries   map[string]*entity.LedgerEntry
	entrySeq  map[string]int
	events    []*entity.LedgerEvent
	orders    map[string]*entity.PaymentOrder
	admins    map[string]*entity.Admin
	seq       int

	// ConflictsToInject cantidad de transacciones que fallarán con ErrConflict antes de ejecutar fn.
	ConflictsToInject int
	// TxAttempts transacciones iniciadas (incluye las que fallaron por conflicto).
	TxAttempts int
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		companies: map[string]*entity.Company{},
		packages:  map[string]*entity.Package{},
		entries:   map[string]*entity.LedgerEntry{},
		entrySeq:  map[string]int{},
		orders:    map[string]*entity.PaymentOrder{},
		admins:    map[string]*entity.Admin{},
	}
}

type snapshot struct {
	companies map[string]*entity.Company
	packages  map[string]*entity.Package
	entries   map[string]*entity.LedgerEntry
	entrySeq  map[string]int
	events    []*entity.LedgerEvent
	orders    map[string]*entity.PaymentOrder
	seq       int
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		companies: make(map[string]*entity.Company, len(s.companies)),
		packages:  make(map[string]*entity.Package, len(s.packages)),
		entries:   make(map[string]*entity.LedgerEntry, len(s.entries)),
		entrySeq:  make(map[string]int, len(s.entrySeq)),
		events:    append([]*entity.LedgerEvent(nil), s.events...),
		orders:    make(map[string]*entity.PaymentOrder, len(s.orders)),
		seq:       s.seq,
	}
	for k, v := range s.companies {
		snap.companies[k] = copyCompany(v)
	}
	for k, v := range s.packages {
		p := *v
		snap.packages[k] = &p
	}
	for k, v := range s.entries {
		snap.entries[k] = copyEntry(v)
	}
	for k, v := range s.entrySeq {
		snap.entrySeq[k] = v
	}
	for k, v := range s.orders {
		o := *v
		snap.orders[k] = &o
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies = snap.companies
	s.packages = snap.packages
	s.entries = snap.entries
	s.entrySeq = snap.entrySeq
	s.events = snap.events
	s.orders = snap.orders
	s.seq = snap.seq
}

// Run implementa ports.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(st ports.Stores) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.TxAttempts++
	if s.ConflictsToInject > 0 {
		s.ConflictsToInject--
		s.mu.Unlock()
		return domain.ErrConflict
	}
	s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(s.Stores()); err != nil {
		s.restore(snap)
		return err
	}
	return ctx.Err()
}

// Stores repositorios sobre este store.
func (s *Store) Stores() ports.Stores {
	return ports.Stores{
		Companies: s.Companies(),
		Packages:  s.Packages(),
		Ledger:    s.Ledger(),
		Orders:    s.Orders(),
	}
}

// Companies repositorio de empresas.
func (s *Store) Companies() repository.CompanyRepository { return companyRepo{s} }

// Packages repositorio de paquetes.
func (s *Store) Packages() repository.PackageRepository { return packageRepo{s} }

// Ledger repositorio del libro.
func (s *Store) Ledger() repository.LedgerRepository { return ledgerRepo{s} }

// Orders repositorio de órdenes de pago.
func (s *Store) Orders() repository.PaymentOrderRepository { return orderRepo{s} }

// Admins repositorio de administradores.
func (s *Store) Admins() repository.AdminRepository { return adminRepo{s} }

// ── helpers de siembra y consulta para tests ──────────────────────────────────

// PutCompany inserta o reemplaza una empresa.
func (s *Store) PutCompany(c *entity.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = copyCompany(c)
}

// PutPackage inserta o reemplaza un paquete.
func (s *Store) PutPackage(p *entity.Package) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.packages[p.ID] = &cp
}

// PutAdmin inserta o reemplaza un admin.
func (s *Store) PutAdmin(a *entity.Admin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[a.ID] = copyAdmin(a)
}

// Company lectura directa (nil si no existe).
func (s *Store) Company(id string) *entity.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.companies[id]; ok {
		return copyCompany(c)
	}
	return nil
}

// Entries entradas del libro de una empresa en orden de inserción.
func (s *Store) Entries(companyID string) []*entity.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.LedgerEntry
	for _, e := range s.entries {
		if e.CompanyID == companyID {
			out = append(out, copyEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.entrySeq[out[i].ID] < s.entrySeq[out[j].ID] })
	return out
}

// Events eventos de una entrada en orden de inserción.
func (s *Store) Events(entryID string) []*entity.LedgerEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.LedgerEvent
	for _, ev := range s.events {
		if ev.LedgerEntryID == entryID {
			cp := *ev
			out = append(out, &cp)
		}
	}
	return out
}

// OrderCount cantidad de órdenes de pago guardadas.
func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// ── empresas ──────────────────────────────────────────────────────────────────

type companyRepo struct{ s *Store }

func (r companyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.companies {
		if other.PublicID == c.PublicID {
			return domain.ErrDuplicate
		}
	}
	r.s.companies[c.ID] = copyCompany(c)
	return nil
}

func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return r.s.Company(id), nil
}

func (r companyRepo) GetByPublicID(_ context.Context, publicID int) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.PublicID == publicID {
			return copyCompany(c), nil
		}
	}
	return nil, nil
}

func (r companyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Company, error) {
	return r.GetByID(ctx, id)
}

func (r companyRepo) Update(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.companies[c.ID]
	if !ok {
		return nil
	}
	cur.Name, cur.ContactName, cur.Phone, cur.Notes = c.Name, c.ContactName, c.Phone, c.Notes
	cur.UpdatedAt = c.UpdatedAt
	return nil
}

func (r companyRepo) UpdateExpiry(_ context.Context, id string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cur, ok := r.s.companies[id]; ok {
		exp := expiresAt
		cur.ExpiresAt = &exp
	}
	return nil
}

func (r companyRepo) List(_ context.Context, ownerAdminID string, limit, offset int) ([]*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Company
	for _, c := range r.s.companies {
		if ownerAdminID == "" || c.OwnerAdminID == ownerAdminID {
			all = append(all, copyCompany(c))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].PublicID < all[j].PublicID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return []*entity.Company{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r companyRepo) Stats(_ context.Context, ownerAdminID string, now time.Time) (*entity.CompanyStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := &entity.CompanyStats{}
	for _, c := range r.s.companies {
		if ownerAdminID != "" && c.OwnerAdminID != ownerAdminID {
			continue
		}
		st.Total++
		switch licence.Classify(c.ExpiresAt, now) {
		case licence.StatusActive:
			st.Active++
		case licence.StatusExpired:
			st.Expired++
		default:
			st.NoPackage++
		}
	}
	return st, nil
}

func (r companyRepo) SetAllowedPackages(_ context.Context, companyID string, packageIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cur, ok := r.s.companies[companyID]; ok {
		cur.AllowedPackageIDs = append([]string(nil), packageIDs...)
	}
	return nil
}

func (r companyRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.companies, id)
	for eid, e := range r.s.entries {
		if e.CompanyID == id {
			delete(r.s.entries, eid)
		}
	}
	for tok, o := range r.s.orders {
		if o.CompanyID == id {
			delete(r.s.orders, tok)
		}
	}
	return nil
}

// ── paquetes ──────────────────────────────────────────────────────────────────

type packageRepo struct{ s *Store }

func (r packageRepo) Create(_ context.Context, p *entity.Package) error {
	r.s.PutPackage(p)
	return nil
}

func (r packageRepo) GetByID(_ context.Context, id string) (*entity.Package, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.packages[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r packageRepo) Update(_ context.Context, p *entity.Package) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.packages[p.ID]; ok {
		cp := *p
		r.s.packages[p.ID] = &cp
	}
	return nil
}

func (r packageRepo) SoftDelete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.packages[id]; ok {
		p.IsDeleted = true
	}
	return nil
}

func (r packageRepo) List(_ context.Context) ([]*entity.Package, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Package{}
	for _, p := range r.s.packages {
		if !p.IsDeleted {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r packageRepo) Stats(_ context.Context) (*entity.PackageStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := &entity.PackageStats{CatalogueValue: decimal.Zero, Revenue: decimal.Zero}
	for _, p := range r.s.packages {
		if p.IsDeleted {
			continue
		}
		st.Count++
		st.CatalogueValue = st.CatalogueValue.Add(p.Price)
	}
	for _, e := range r.s.entries {
		if e.Source == entity.LedgerSourcePayment && e.Succeeded() {
			st.Revenue = st.Revenue.Add(e.Amount)
		}
	}
	return st, nil
}

// ── libro ─────────────────────────────────────────────────────────────────────

type ledgerRepo struct{ s *Store }

func (r ledgerRepo) Create(_ context.Context, e *entity.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	r.s.entries[e.ID] = copyEntry(e)
	r.s.entrySeq[e.ID] = r.s.seq
	return nil
}

func (r ledgerRepo) GetByID(_ context.Context, id string) (*entity.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.entries[id]; ok {
		return copyEntry(e), nil
	}
	return nil, nil
}

func (r ledgerRepo) MarkOutcome(_ context.Context, id string, success bool, resolvedAt time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entries[id]
	if !ok || e.Outcome != nil {
		return false, nil
	}
	out, at := success, resolvedAt
	e.Outcome = &out
	e.ResolvedAt = &at
	return true, nil
}

func (r ledgerRepo) AddEvent(_ context.Context, ev *entity.LedgerEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *ev
	r.s.events = append(r.s.events, &cp)
	return nil
}

func (r ledgerRepo) ListEvents(_ context.Context, entryID string) ([]*entity.LedgerEvent, error) {
	return r.s.Events(entryID), nil
}

// newestFirst ordena por fecha de creación descendente y, a igual fecha, por inserción descendente.
func (s *Store) newestFirst(list []*entity.LedgerEntry) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return s.entrySeq[list[i].ID] > s.entrySeq[list[j].ID]
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

func (r ledgerRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.PurchaseRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.LedgerEntry
	for _, e := range r.s.entries {
		if e.CompanyID == companyID {
			list = append(list, e)
		}
	}
	r.s.newestFirst(list)
	out := make([]*entity.PurchaseRecord, 0, len(list))
	for _, e := range list {
		rec := &entity.PurchaseRecord{Entry: *copyEntry(e)}
		if p, ok := r.s.packages[e.PackageID]; ok {
			rec.PackageCaption = p.Caption
			rec.PackagePrice = p.Price
			rec.DurationMonths = p.DurationMonths
			rec.DurationExtraDays = p.DurationExtraDays
			rec.PackageIsDeleted = p.IsDeleted
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r ledgerRepo) ListRecent(_ context.Context, ownerAdminID string, limit int) ([]*entity.Activity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.LedgerEntry
	for _, e := range r.s.entries {
		c, ok := r.s.companies[e.CompanyID]
		if !ok || (ownerAdminID != "" && c.OwnerAdminID != ownerAdminID) {
			continue
		}
		list = append(list, e)
	}
	r.s.newestFirst(list)
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	out := make([]*entity.Activity, 0, len(list))
	for _, e := range list {
		c := r.s.companies[e.CompanyID]
		a := &entity.Activity{Entry: *copyEntry(e), CompanyName: c.Name, CompanyPublicID: c.PublicID}
		if p, ok := r.s.packages[e.PackageID]; ok {
			a.PackageCaption = p.Caption
		}
		out = append(out, a)
	}
	return out, nil
}

// ── órdenes ───────────────────────────────────────────────────────────────────

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, o *entity.PaymentOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[o.Token]; ok {
		return domain.ErrDuplicate
	}
	cp := *o
	r.s.orders[o.Token] = &cp
	return nil
}

func (r orderRepo) GetByToken(_ context.Context, token string) (*entity.PaymentOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.orders[token]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (r orderRepo) GetByTokenForUpdate(ctx context.Context, token string) (*entity.PaymentOrder, error) {
	return r.GetByToken(ctx, token)
}

// ── administradores ───────────────────────────────────────────────────────────

type adminRepo struct{ s *Store }

func (r adminRepo) Create(_ context.Context, a *entity.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.admins {
		if other.Phone == a.Phone {
			return domain.ErrDuplicate
		}
	}
	r.s.admins[a.ID] = copyAdmin(a)
	return nil
}

func (r adminRepo) GetByID(_ context.Context, id string) (*entity.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.admins[id]; ok {
		return copyAdmin(a), nil
	}
	return nil, nil
}

func (r adminRepo) GetByPhone(_ context.Context, phone string) (*entity.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.admins {
		if a.Phone == phone {
			return copyAdmin(a), nil
		}
	}
	return nil, nil
}

func (r adminRepo) Update(_ context.Context, a *entity.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.admins {
		if other.ID != a.ID && other.Phone == a.Phone {
			return domain.ErrDuplicate
		}
	}
	if _, ok := r.s.admins[a.ID]; ok {
		r.s.admins[a.ID] = copyAdmin(a)
	}
	return nil
}

func (r adminRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.admins[id]; ok {
		a.PasswordHash = passwordHash
	}
	return nil
}

func (r adminRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.OwnerAdminID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.admins, id)
	return nil
}

func (r adminRepo) List(_ context.Context) ([]*entity.AdminSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.AdminSummary{}
	for _, a := range r.s.admins {
		sum := &entity.AdminSummary{Admin: *copyAdmin(a)}
		for _, c := range r.s.companies {
			if c.OwnerAdminID == a.ID {
				sum.CompanyCount++
			}
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Admin.Name < out[j].Admin.Name })
	return out, nil
}

func (r adminRepo) Count(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.admins), nil
}

// ── copias ────────────────────────────────────────────────────────────────────

func copyCompany(c *entity.Company) *entity.Company {
	cp := *c
	if c.ExpiresAt != nil {
		exp := *c.ExpiresAt
		cp.ExpiresAt = &exp
	}
	cp.AllowedPackageIDs = append([]string(nil), c.AllowedPackageIDs...)
	return &cp
}

func copyEntry(e *entity.LedgerEntry) *entity.LedgerEntry {
	cp := *e
	if e.Outcome != nil {
		o := *e.Outcome
		cp.Outcome = &o
	}
	if e.ResolvedAt != nil {
		r := *e.ResolvedAt
		cp.ResolvedAt = &r
	}
	return &cp
}

func copyAdmin(a *entity.Admin) *entity.Admin {
	cp := *a
	cp.Permissions = append([]string(nil), a.Permissions...)
	return &cp
}
