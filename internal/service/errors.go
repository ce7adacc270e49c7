package service

import (
	"errors"
	"fmt"
)

// Sentinel errors the handlers translate into HTTP status codes.
var (
	ErrClienteConMovimientos = errors.New("el cliente tiene movimientos asociados y no puede eliminarse")
	ErrClienteNoPrestamista  = errors.New("el cliente no es de tipo prestamista")
)

// ErrorDeValidacion marks business-rule violations (HTTP 400) so callers
// can tell them apart from infrastructure failures.
type ErrorDeValidacion struct {
	Msg string
}

func (e *ErrorDeValidacion) Error() string { return e.Msg }

func errValidacion(format string, args ...interface{}) error {
	return &ErrorDeValidacion{Msg: fmt.Sprintf(format, args...)}
}
