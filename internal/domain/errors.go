package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// ParseError fallo al leer un documento UBL importado.
type ParseError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ubl: %s: %s (%v)", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("ubl: %s: %s", e.Field, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is permite errors.Is(err, ErrInvalidInput) sobre errores de lectura.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewParseError crea un error de lectura.
func NewParseError(field, message string, cause error) *ParseError {
	return &ParseError{Field: field, Message: message, Cause: cause}
}
