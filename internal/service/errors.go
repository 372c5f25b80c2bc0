package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/tnerp/internal/docs"
	"github.com/mmynk/tnerp/internal/models"
	"github.com/mmynk/tnerp/internal/storage"
)

// connectError maps a domain error onto a Connect error code.
func connectError(err error) error {
	var ce *connect.Error
	switch {
	case errors.As(err, &ce):
		return ce
	case errors.Is(err, docs.ErrAlreadySubmitted):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case models.IsRejected(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrDuplicate):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
