package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                   = errors.New("recurso no encontrado")
	ErrProductNotFound            = errors.New("producto no encontrado")
	ErrBatchNotFound              = errors.New("lote no encontrado")
	ErrProductionNotFound         = errors.New("producción no encontrada")
	ErrInsufficientBatchRemainder = errors.New("el lote no tiene saldo suficiente")
	ErrInsufficientStock          = errors.New("stock insuficiente")
	ErrInvalidInput               = errors.New("entrada inválida")
	ErrDuplicate                  = errors.New("recurso duplicado")
	ErrUnauthorized               = errors.New("no autorizado")
	ErrForbidden                  = errors.New("acceso denegado")
	ErrConflict                   = errors.New("conflicto con el estado actual")
)
