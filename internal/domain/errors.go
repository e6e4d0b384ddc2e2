package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrForbidden            = errors.New("acceso denegado")
	ErrInsufficientStock    = errors.New("stock válido insuficiente")
	ErrInsufficientQuantity = errors.New("la cantidad del lote no puede quedar negativa")
	ErrTransferNotPending   = errors.New("la transferencia no está pendiente")
	ErrAlreadyDeleted       = errors.New("la entidad ya fue eliminada")
	ErrSameOwner            = errors.New("origen y destino no pueden ser el mismo propietario")
)
