package service

import (
	"errors"

	"github.com/dtroode/amcbunq-server/internal/logger"
	"github.com/dtroode/amcbunq-server/internal/model"
)

// logFailure records err with the operation context. Caller mistakes are
// warnings, anything else is an error.
func logFailure(l *logger.Logger, msg string, err error, args ...any) {
	args = append(args, "error", err.Error())
	switch {
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrInvalidArgument),
		errors.Is(err, model.ErrAlreadyExists),
		errors.Is(err, model.ErrPermissionDenied):
		l.Warn(msg, args...)
	default:
		l.Error(msg, args...)
	}
}
