package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Licencia-api/internal/application/apptest"
	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/application/ports"
	"github.com/jhoicas/Licencia-api/internal/application/subscription"
	"github.com/jhoicas/Licencia-api/internal/application/usecase"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/licence"
	"github.com/jhoicas/Licencia-api/pkg/clock"
	"github.com/jhoicas/Licencia-api/pkg/logger"
)

var (
	superAdmin = &entity.Admin{ID: "a-super", Name: "ROOT", IsSuperAdmin: true}
	seller     = &entity.Admin{ID: "a-seller", Name: "VENDEDOR", Permissions: []string{
		entity.PermAddCompany, entity.PermEditCompany, entity.PermDeleteCompany, entity.PermAssignPackage,
	}}
	reader = &entity.Admin{ID: "a-reader", Name: "LECTOR"}
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

// fakeRenderer guarda el último comprobante pedido.
type fakeRenderer struct {
	last *ports.LicenceStatement
}

func (r *fakeRenderer) RenderStatement(_ context.Context, st *ports.LicenceStatement) ([]byte, error) {
	r.last = st
	return []byte("%PDF-1.4"), nil
}

type env struct {
	store    *apptest.Store
	cache    *apptest.Cache
	metrics  *apptest.Metrics
	clock    *clock.Fake
	renderer *fakeRenderer
	subs     *subscription.Service
	company  *usecase.CompanyUseCase
	packages *usecase.PackageUseCase
	admins   *usecase.AdminUseCase
	licence  *usecase.LicenceUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		store:    apptest.NewStore(),
		cache:    apptest.NewCache(),
		metrics:  apptest.NewMetrics(),
		clock:    clock.NewFake(day(2024, 1, 1)),
		renderer: &fakeRenderer{},
	}
	log := logger.Nop()
	ext := subscription.NewExtender(licence.NewEvaluator(time.UTC), e.clock)
	e.subs = subscription.NewService(e.store, e.store.Companies(), e.store.Packages(), e.store.Ledger(),
		ext, e.cache, e.metrics, e.clock, log)
	e.company = usecase.NewCompanyUseCase(e.store, e.store.Companies(), e.store.Packages(), e.subs,
		e.renderer, e.cache, e.clock, "https://licencia.example.com/", log)
	e.packages = usecase.NewPackageUseCase(e.store.Packages(), e.clock, log)
	e.admins = usecase.NewAdminUseCase(e.store.Admins(), e.store.Companies(), e.clock, log).WithHashCost(bcrypt.MinCost)
	e.licence = usecase.NewLicenceUseCase(e.store.Companies(), e.cache, e.metrics, e.clock, log)

	e.store.PutPackage(&entity.Package{ID: "p-30", Caption: "MENSUAL", DurationMonths: 1, Price: decimal.NewFromInt(100), CreatedAt: day(2023, 1, 1)})
	e.store.PutPackage(&entity.Package{ID: "p-365", Caption: "ANUAL", DurationMonths: 12, Price: decimal.NewFromInt(900), CreatedAt: day(2023, 6, 1)})
	e.store.PutPackage(&entity.Package{ID: "p-old", Caption: "RETIRADO", DurationMonths: 1, Price: decimal.NewFromInt(10), IsDeleted: true})
	return e
}

// sequence devuelve los candidatos en orden y luego repite el último.
func sequence(ids ...int) func() int {
	i := 0
	return func() int {
		v := ids[i]
		if i < len(ids)-1 {
			i++
		}
		return v
	}
}

func (e *env) createCompany(t *testing.T, caller *entity.Admin, name string) *dto.CompanyResponse {
	t.Helper()
	out, err := e.company.Create(context.Background(), caller, dto.CreateCompanyRequest{Name: name})
	require.NoError(t, err)
	return out
}
