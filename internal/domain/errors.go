package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los adaptadores y casos de uso los envuelven con fmt.Errorf("...: %w", err);
// la capa HTTP los traduce a códigos con errors.Is.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrDuplicateIdentity  = errors.New("el email ya está registrado")
	ErrInvalidCredentials = errors.New("email o contraseña inválidos")
	ErrInvalidToken       = errors.New("token inválido o expirado")
	ErrInactiveAccount    = errors.New("cuenta inactiva")
	ErrTooManyAttempts    = errors.New("demasiados intentos fallidos, intente más tarde")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidState       = errors.New("operación no permitida en el estado actual")
	ErrDuplicate          = errors.New("recurso duplicado")
)
