package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Licencia-api/internal/application/apptest"
	"github.com/jhoicas/Licencia-api/internal/application/auth"
	"github.com/jhoicas/Licencia-api/internal/application/payment"
	"github.com/jhoicas/Licencia-api/internal/application/ports"
	"github.com/jhoicas/Licencia-api/internal/application/subscription"
	"github.com/jhoicas/Licencia-api/internal/application/usecase"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/licence"
	"github.com/jhoicas/Licencia-api/internal/infrastructure/paytr"
	apphttp "github.com/jhoicas/Licencia-api/internal/interfaces/http"
	"github.com/jhoicas/Licencia-api/pkg/clock"
	"github.com/jhoicas/Licencia-api/pkg/config"
	pkgjwt "github.com/jhoicas/Licencia-api/pkg/jwt"
	"github.com/jhoicas/Licencia-api/pkg/logger"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "licencia-api-test"
	testPassword  = "clave-segura-1"
	superID       = "00000000-0000-0000-0000-000000000001"
	sellerID      = "00000000-0000-0000-0000-000000000002"
)

type stubRenderer struct{}

func (stubRenderer) RenderStatement(context.Context, *ports.LicenceStatement) ([]byte, error) {
	return []byte("%PDF-1.4 test"), nil
}

// testEnv aplicación Fiber completa sobre el store en memoria y un PayTR simulado con httptest.
type testEnv struct {
	app     *fiber.App
	store   *apptest.Store
	clock   *clock.Fake
	paytr   *paytr.Client
	payFail bool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{store: apptest.NewStore(), clock: clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env.payFail {
			_, _ = w.Write([]byte(`{"status":"failed","reason":"merchant_key hatalı"}`))
			return
		}
		_ = r.ParseForm()
		_, _ = w.Write([]byte(`{"status":"success","token":"ifr-` + r.PostForm.Get("merchant_oid") + `"}`))
	}))
	t.Cleanup(provider.Close)
	env.paytr = paytr.NewClient(config.PayTRConfig{
		MerchantID: "123456", MerchantKey: "clave", MerchantSalt: "sal", APIURL: provider.URL,
		OkURL: "http://lic.test/payment/success", FailURL: "http://lic.test/payment/fail",
		Currency: "TL", Lang: "tr", TestMode: true, TimeoutLimit: 30,
	}).WithHTTPClient(provider.Client())

	log := logger.Nop()
	cache := ports.NopLicenceCache{}
	metrics := ports.NopMetrics{}
	companies, packages, ledger := env.store.Companies(), env.store.Packages(), env.store.Ledger()
	ext := subscription.NewExtender(licence.NewEvaluator(time.UTC), env.clock)
	subSvc := subscription.NewService(env.store, companies, packages, ledger, ext, cache, metrics, env.clock, log)

	authUC := auth.NewAuthUseCase(env.store.Admins(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}, log).
		WithHashCost(bcrypt.MinCost)
	deps := apphttp.RouterDeps{
		AuthUC:       authUC,
		AdminUC:      usecase.NewAdminUseCase(env.store.Admins(), companies, env.clock, log).WithHashCost(bcrypt.MinCost),
		CompanyUC:    usecase.NewCompanyUseCase(env.store, companies, packages, subSvc, stubRenderer{}, cache, env.clock, "http://lic.test", log),
		PackageUC:    usecase.NewPackageUseCase(packages, env.clock, log),
		Subscription: subSvc,
		LicenceUC:    usecase.NewLicenceUseCase(companies, cache, metrics, env.clock, log),
		Payment: payment.NewBridge(env.store, companies, packages, ledger, env.store.Orders(),
			env.paytr, ext, cache, metrics, env.clock, payment.Config{Currency: "TL"}, log),
	}
	env.app = fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(env.app, deps)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	env.store.PutAdmin(&entity.Admin{ID: superID, Name: "ROOT", Phone: "5550000001", PasswordHash: string(hash), IsSuperAdmin: true})
	env.store.PutAdmin(&entity.Admin{ID: sellerID, Name: "VENDEDOR", Phone: "5550000002", PasswordHash: string(hash),
		Permissions: []string{entity.PermAddCompany, entity.PermEditCompany}})
	env.store.PutPackage(&entity.Package{ID: "p-30", Caption: "MENSUAL", DurationMonths: 1, Price: decimal.NewFromInt(100)})
	return env
}

func (e *testEnv) putCompany(publicID int, owner string, expiresAt *time.Time) {
	e.store.PutCompany(&entity.Company{
		ID: fmt.Sprintf("c-%d", publicID), PublicID: publicID,
		Name: "EMPRESA", OwnerAdminID: owner, ExpiresAt: expiresAt,
	})
}

func bearer(t *testing.T, adminID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, adminID, "TEST", testIssuer, 60)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (e *testEnv) do(t *testing.T, method, path, authHeader, contentType string, body io.Reader) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) doJSON(t *testing.T, method, path, authHeader string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = strings.NewReader(string(raw))
	}
	return e.do(t, method, path, authHeader, fiber.MIMEApplicationJSON, body)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
