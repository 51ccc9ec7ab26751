package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrExternalService   = errors.New("fallo del proveedor de pagos")
	ErrIntegrity         = errors.New("callback no auténtico o desconocido")
	ErrSelfDelete        = errors.New("un administrador no puede eliminar su propia cuenta")
	ErrPackageNotAllowed = errors.New("el paquete no está habilitado para la empresa")
)
