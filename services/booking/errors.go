package booking

import (
	"errors"

	"appointly/database/repository"
	"appointly/utils"
)

// translate maps repository errors onto AppErrors. AppErrors pass through.
func translate(err error, action string) error {
	var appErr *utils.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return utils.NewNotFoundError("booking not found", err)
	case errors.Is(err, repository.ErrConflict):
		return utils.NewConflictError("booking was modified concurrently, reload and retry", err)
	case errors.Is(err, repository.ErrSlotTaken), errors.Is(err, repository.ErrDuplicate):
		return utils.NewConflictError("slot already taken", err)
	default:
		return utils.NewInternalError("failed to "+action+" booking", err)
	}
}
