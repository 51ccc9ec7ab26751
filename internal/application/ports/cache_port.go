package ports

import (
	"context"
	"time"
)

// LicenceSnapshot estado cacheado de una empresa para el endpoint público.
// Se guarda el vencimiento, no la clasificación, para que el estado siempre se calcule con la hora actual.
type LicenceSnapshot struct {
	Found     bool       `json:"found"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// LicenceCache caché del endpoint de verificación, por public_id.
// Un error de caché nunca debe tumbar la verificación: el llamador lo registra y sigue contra la DB.
//
// Cada clave tiene una generación que Invalidate incrementa. Get la devuelve junto al
// snapshot y Set solo escribe si sigue siendo la misma, de modo que una lectura de la DB
// anterior a una invalidación no vuelva a dejar en caché el vencimiento viejo.
type LicenceCache interface {
	Get(ctx context.Context, publicID int) (snap *LicenceSnapshot, gen int64, err error)
	Set(ctx context.Context, publicID int, gen int64, snap LicenceSnapshot) error
	Invalidate(ctx context.Context, publicID int) error
}

// NopLicenceCache caché deshabilitada (REDIS_URL vacío).
type NopLicenceCache struct{}

func (NopLicenceCache) Get(context.Context, int) (*LicenceSnapshot, int64, error) { return nil, 0, nil }
func (NopLicenceCache) Set(context.Context, int, int64, LicenceSnapshot) error     { return nil }
func (NopLicenceCache) Invalidate(context.Context, int) error                     { return nil }
