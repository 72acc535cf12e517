package middleware

import (
	"errors"

	"github.com/MrSnakeDoc/extwait/internal/errs"
	"github.com/MrSnakeDoc/extwait/internal/logger"
)

// ErrLogged marks errors whose user-facing message was already printed.
var ErrLogged = errors.New("already logged")

// LoggedError prints the coded message and returns ErrLogged wrapping cause.
func LoggedError(cause error, code errs.Code, a ...any) error {
	logger.LogError("%s", errs.Msg(code, a...))
	if cause == nil {
		return ErrLogged
	}
	return errors.Join(ErrLogged, cause)
}
