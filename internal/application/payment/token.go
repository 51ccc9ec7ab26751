package payment

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// orderTokenPrefix prefijo de los tokens de correlación (merchant_oid debe ser alfanumérico).
const orderTokenPrefix = "LIC"

// NewOrderToken genera un token opaco y único por intento de pago.
func NewOrderToken(now time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(now), rand.Reader)
	return orderTokenPrefix + id.String()
}

// LooksLikeOrderToken validación superficial antes de tocar la base.
func LooksLikeOrderToken(token string) bool {
	if !strings.HasPrefix(token, orderTokenPrefix) {
		return false
	}
	_, err := ulid.ParseStrict(strings.TrimPrefix(token, orderTokenPrefix))
	return err == nil
}
