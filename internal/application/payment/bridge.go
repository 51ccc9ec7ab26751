// Package payment orquesta el checkout alojado de PayTR: inicio del pago,
// callback servidor a servidor y consulta del resultado.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/application/ports"
	"github.com/jhoicas/Licencia-api/internal/application/subscription"
	"github.com/jhoicas/Licencia-api/internal/application/usecase"
	"github.com/jhoicas/Licencia-api/internal/domain"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/licence"
	"github.com/jhoicas/Licencia-api/internal/domain/repository"
	"github.com/jhoicas/Licencia-api/pkg/clock"
	"github.com/jhoicas/Licencia-api/pkg/logger"
)

// Estados que PayTR envía en el callback.
const (
	CallbackStatusSuccess = "success"
	CallbackStatusFailed  = "failed"
)

// Resultados registrados en métricas.
const (
	resultOK       = "ok"
	resultRejected = "rejected"
	resultFailed   = "failed"
	resultReplayed = "replayed"
	resultProvider = "provider_error"
)

// Bridge casos de uso del puente de pagos.
type Bridge struct {
	tx        ports.TxRunner
	companies repository.CompanyRepository
	packages  repository.PackageRepository
	ledger    repository.LedgerRepository
	orders    repository.PaymentOrderRepository
	gateway   Gateway
	extender  *subscription.Extender
	cache     ports.LicenceCache
	metrics   ports.Metrics
	clock     clock.Clock
	currency  string
	log       *logger.Logger
}

// Config parámetros del puente.
type Config struct {
	Currency string
}

// NewBridge construye el puente de pagos.
func NewBridge(
	tx ports.TxRunner,
	companies repository.CompanyRepository,
	packages repository.PackageRepository,
	ledger repository.LedgerRepository,
	orders repository.PaymentOrderRepository,
	gateway Gateway,
	extender *subscription.Extender,
	cache ports.LicenceCache,
	metrics ports.Metrics,
	clk clock.Clock,
	cfg Config,
	log *logger.Logger,
) *Bridge {
	if cfg.Currency == "" {
		cfg.Currency = "TL"
	}
	return &Bridge{
		tx: tx, companies: companies, packages: packages, ledger: ledger, orders: orders,
		gateway: gateway, extender: extender, cache: cache, metrics: metrics, clock: clk,
		currency: cfg.Currency, log: log.Component("payment"),
	}
}

// Checkout datos de la página de pago: empresa y paquetes comprables ordenados por precio.
func (b *Bridge) Checkout(ctx context.Context, publicID int) (*dto.CheckoutResponse, error) {
	company, err := b.companies.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa", domain.ErrNotFound)
	}
	list, err := b.packages.List(ctx)
	if err != nil {
		return nil, err
	}
	purchasable := make([]*entity.Package, 0, len(list))
	for _, p := range list {
		if company.AllowsPackage(p.ID) && p.Price.IsPositive() {
			purchasable = append(purchasable, p)
		}
	}
	sort.SliceStable(purchasable, func(i, j int) bool {
		return purchasable[i].Price.LessThan(purchasable[j].Price)
	})
	items := make([]dto.PackageResponse, 0, len(purchasable))
	for _, p := range purchasable {
		items = append(items, usecase.ToPackageResponse(p))
	}
	return &dto.CheckoutResponse{
		Company: dto.CheckoutCompany{
			PublicID:      company.PublicID,
			Name:          company.Name,
			ExpiresAt:     company.ExpiresAt,
			LicenceStatus: string(licence.Classify(company.ExpiresAt, b.clock.Now())),
		},
		Packages: items,
		Currency: b.currency,
	}, nil
}

// Initiate abre un pago: valida, pide la sesión al proveedor y recién entonces
// persiste la entrada pendiente y el registro de correlación en una transacción.
func (b *Bridge) Initiate(ctx context.Context, in dto.ProcessPaymentRequest, clientIP string) (*dto.ProcessPaymentResponse, error) {
	if err := validateBuyer(in); err != nil {
		return nil, err
	}
	company, err := b.companies.GetByPublicID(ctx, in.PublicID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa", domain.ErrNotFound)
	}
	pkg, err := b.packages.GetByID(ctx, in.PackageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil || pkg.IsDeleted {
		return nil, fmt.Errorf("%w: paquete", domain.ErrNotFound)
	}
	if !company.AllowsPackage(pkg.ID) {
		return nil, domain.ErrPackageNotAllowed
	}
	if !pkg.Price.IsPositive() {
		return nil, fmt.Errorf("%w: el paquete no tiene precio", domain.ErrInvalidInput)
	}

	now := b.clock.Now()
	token := NewOrderToken(now)
	session, err := b.gateway.CreateSession(ctx, SessionRequest{
		OrderToken:   token,
		Email:        in.Email,
		Amount:       pkg.Price,
		Currency:     b.currency,
		ClientIP:     clientIP,
		CustomerName: in.CustomerName,
		Address:      in.Address,
		Phone:        in.Phone,
		Basket:       []BasketItem{{Name: pkg.Caption, Price: pkg.Price, Quantity: 1}},
	})
	if err != nil {
		b.metrics.PaymentInitiated(resultProvider)
		b.log.Error().Err(err).Str("order_token", token).Int("public_id", company.PublicID).Msg("PayTR rechazó la sesión")
		return nil, fmt.Errorf("%w: el proveedor de pagos no pudo iniciar el pago", domain.ErrExternalService)
	}

	err = subscription.RunWithRetry(ctx, b.tx, func(st ports.Stores) error {
		entry := &entity.LedgerEntry{
			ID:        uuid.New().String(),
			CompanyID: company.ID,
			PackageID: pkg.ID,
			Source:    entity.LedgerSourcePayment,
			Amount:    pkg.Price,
			Description: fmt.Sprintf("Pago iniciado. Orden %s, cliente %s",
				token, in.CustomerName),
			CreatedAt: now,
		}
		if err := st.Ledger.Create(ctx, entry); err != nil {
			return err
		}
		if err := st.Ledger.AddEvent(ctx, &entity.LedgerEvent{
			ID: uuid.New().String(), LedgerEntryID: entry.ID, Kind: entity.LedgerEventCreated,
			Detail: "orden " + token, CreatedAt: now,
		}); err != nil {
			return err
		}
		return st.Orders.Create(ctx, &entity.PaymentOrder{
			Token:         token,
			CompanyID:     company.ID,
			PackageID:     pkg.ID,
			LedgerEntryID: entry.ID,
			Amount:        pkg.Price,
			Currency:      b.currency,
			CustomerName:  in.CustomerName,
			Email:         in.Email,
			Phone:         in.Phone,
			Address:       in.Address,
			ClientIP:      clientIP,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}

	b.metrics.PaymentInitiated(resultOK)
	b.log.Info().Str("order_token", token).Int("public_id", company.PublicID).Str("package_id", pkg.ID).Msg("pago iniciado")
	return &dto.ProcessPaymentResponse{
		OrderToken:  token,
		IframeToken: session.IframeToken,
		IframeURL:   session.IframeURL,
		Amount:      pkg.Price,
		Currency:    b.currency,
	}, nil
}

// HandleCallback procesa la notificación de PayTR. La firma se valida antes de
// leer cualquier otro campo. Un callback repetido sobre una entrada ya resuelta
// no cambia nada y se responde como aceptado.
func (b *Bridge) HandleCallback(ctx context.Context, in dto.PaymentCallbackRequest) error {
	if in.MerchantOID == "" || in.Hash == "" {
		b.metrics.CallbackHandled(resultRejected)
		b.log.Warn().Msg("callback sin merchant_oid o hash")
		return fmt.Errorf("%w: callback incompleto", domain.ErrIntegrity)
	}
	if !b.gateway.VerifyCallback(in.MerchantOID, in.Status, in.TotalAmount, in.Hash) {
		b.metrics.CallbackHandled(resultRejected)
		b.log.Warn().Str("order_token", in.MerchantOID).Msg("callback con firma inválida")
		return fmt.Errorf("%w: firma inválida", domain.ErrIntegrity)
	}
	if in.Status != CallbackStatusSuccess && in.Status != CallbackStatusFailed {
		b.metrics.CallbackHandled(resultRejected)
		return fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, in.Status)
	}

	var (
		replayed bool
		ext      *subscription.Extension
	)
	err := subscription.RunWithRetry(ctx, b.tx, func(st ports.Stores) error {
		replayed, ext = false, nil
		order, err := st.Orders.GetByTokenForUpdate(ctx, in.MerchantOID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: orden desconocida", domain.ErrIntegrity)
		}
		entry, err := st.Ledger.GetByID(ctx, order.LedgerEntryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("%w: orden sin entrada", domain.ErrIntegrity)
		}
		now := b.clock.Now()
		if !entry.IsPending() {
			replayed = true
			return st.Ledger.AddEvent(ctx, &entity.LedgerEvent{
				ID: uuid.New().String(), LedgerEntryID: entry.ID, Kind: entity.LedgerEventCallbackReplayed,
				Detail: fmt.Sprintf("status=%s, entrada ya %s", in.Status, entry.Status()), CreatedAt: now,
			})
		}

		if in.Status == CallbackStatusFailed {
			if err := markOutcome(ctx, st, entry.ID, false, now); err != nil {
				return err
			}
			return st.Ledger.AddEvent(ctx, &entity.LedgerEvent{
				ID: uuid.New().String(), LedgerEntryID: entry.ID, Kind: entity.LedgerEventPaymentFailed,
				Detail: fmt.Sprintf("%s (%s)", in.FailedReasonMsg, in.FailedReasonCode), CreatedAt: now,
			})
		}

		pkg, err := st.Packages.GetByID(ctx, order.PackageID)
		if err != nil {
			return err
		}
		if pkg == nil {
			return fmt.Errorf("%w: paquete de la orden", domain.ErrNotFound)
		}
		x, err := b.extender.Extend(ctx, st, order.CompanyID, pkg)
		if err != nil {
			return err
		}
		ext = x
		if err := markOutcome(ctx, st, entry.ID, true, now); err != nil {
			return err
		}
		newExp := x.New
		return st.Ledger.AddEvent(ctx, &entity.LedgerEvent{
			ID: uuid.New().String(), LedgerEntryID: entry.ID, Kind: entity.LedgerEventPaymentSucceeded,
			PreviousExpiresAt: x.Previous, NewExpiresAt: &newExp,
			Detail: fmt.Sprintf("total_amount=%s %s", in.TotalAmount, in.Currency), CreatedAt: now,
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrIntegrity) {
			b.metrics.CallbackHandled(resultRejected)
			b.log.Warn().Err(err).Str("order_token", in.MerchantOID).Msg("callback rechazado")
		}
		return err
	}

	switch {
	case replayed:
		b.metrics.CallbackHandled(resultReplayed)
		b.log.Info().Str("order_token", in.MerchantOID).Msg("callback repetido ignorado")
	case ext != nil:
		b.checkAmount(ctx, in)
		b.invalidate(ctx, ext.CompanyPublicID)
		b.metrics.CallbackHandled(resultOK)
		b.metrics.PackageApplied(entity.LedgerSourcePayment, ext.Extended)
		b.log.Info().Str("order_token", in.MerchantOID).Time("expires_at", ext.New).Msg("pago confirmado")
	default:
		b.metrics.CallbackHandled(resultFailed)
		b.log.Info().Str("order_token", in.MerchantOID).
			Str("reason_code", in.FailedReasonCode).Str("reason", in.FailedReasonMsg).Msg("pago fallido")
	}
	return nil
}

// Result estado de una orden para las páginas de éxito y fallo. Se resuelve
// siempre por el registro de correlación.
func (b *Bridge) Result(ctx context.Context, token string) (*dto.PaymentResultResponse, error) {
	if !LooksLikeOrderToken(token) {
		return nil, fmt.Errorf("%w: orden", domain.ErrNotFound)
	}
	order, err := b.orders.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: orden", domain.ErrNotFound)
	}
	entry, err := b.ledger.GetByID(ctx, order.LedgerEntryID)
	if err != nil {
		return nil, err
	}
	company, err := b.companies.GetByID(ctx, order.CompanyID)
	if err != nil {
		return nil, err
	}
	pkg, err := b.packages.GetByID(ctx, order.PackageID)
	if err != nil {
		return nil, err
	}
	if entry == nil || company == nil {
		return nil, fmt.Errorf("%w: orden", domain.ErrNotFound)
	}
	out := &dto.PaymentResultResponse{
		OrderToken:      order.Token,
		Status:          entry.Status(),
		CompanyPublicID: company.PublicID,
		CompanyName:     company.Name,
		ExpiresAt:       company.ExpiresAt,
	}
	if pkg != nil {
		out.PackageCaption = pkg.Caption
	}
	return out, nil
}

// markOutcome cierra la entrada; si ya no estaba pendiente devuelve ErrConflict y la
// transacción se deshace junto con la extensión del vencimiento.
func markOutcome(ctx context.Context, st ports.Stores, entryID string, success bool, now time.Time) error {
	ok, err := st.Ledger.MarkOutcome(ctx, entryID, success, now)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: la entrada %s ya no está pendiente", domain.ErrConflict, entryID)
	}
	return nil
}

// checkAmount total_amount llega en la menor unidad (kuruş); una diferencia solo se registra.
func (b *Bridge) checkAmount(ctx context.Context, in dto.PaymentCallbackRequest) {
	order, err := b.orders.GetByToken(ctx, in.MerchantOID)
	if err != nil || order == nil {
		return
	}
	paid, err := decimal.NewFromString(in.TotalAmount)
	if err != nil {
		b.log.Warn().Str("order_token", in.MerchantOID).Str("total_amount", in.TotalAmount).Msg("total_amount ilegible")
		return
	}
	expected := order.Amount.Mul(decimal.NewFromInt(100)).Round(0)
	if !paid.Equal(expected) {
		b.log.Warn().
			Str("order_token", in.MerchantOID).
			Str("expected", expected.String()).
			Str("paid", paid.String()).
			Msg("el monto cobrado difiere del precio del paquete")
	}
}

func (b *Bridge) invalidate(ctx context.Context, publicID int) {
	if err := b.cache.Invalidate(ctx, publicID); err != nil {
		b.log.Warn().Err(err).Int("public_id", publicID).Msg("no se pudo invalidar la caché de licencia")
	}
}

func validateBuyer(in dto.ProcessPaymentRequest) error {
	var missing []string
	if in.PackageID == "" {
		missing = append(missing, "package_id")
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(in.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(in.Address) == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: requeridos %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	return nil
}
