package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrOrderLocked       = errors.New("el pedido ya no está en curso")
	ErrOrderNotCompleted = errors.New("el pedido no está terminado")
	ErrAlreadyInvoiced   = errors.New("el pedido ya tiene factura")
	ErrCompanyNotSet     = errors.New("los datos de la empresa no están configurados")
)
