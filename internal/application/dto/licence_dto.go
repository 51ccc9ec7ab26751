package dto

import "time"

// Estados del endpoint de verificación de licencia (contrato estable con clientes externos).
const (
	LicenceValid     = "valid"
	LicenceNoPackage = "no_package"
	LicenceExpired   = "expired"
	LicenceNotFound  = "not_found"
	LicenceMalformed = "malformed"
)

// LicenceCheckResponse respuesta del endpoint público de licencias.
type LicenceCheckResponse struct {
	Status    string     `json:"status"`
	PublicID  string     `json:"public_id"`
	ExpiresAt *time.Time `json:"expires_at"`
}
