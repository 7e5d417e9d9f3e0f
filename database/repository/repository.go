package repository

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel errors shared by every storage driver. Drivers wrap them with
// context; callers match with errors.Is.
var (
	ErrNotFound  = errors.New("record not found")
	ErrConflict  = errors.New("record was modified concurrently")
	ErrSlotTaken = errors.New("slot already taken")
	ErrDuplicate = errors.New("duplicate record")
)

const (
	writeConflictCode     = 112
	transientTxErrorLabel = "TransientTransactionError"
)

// IsWriteConflict reports whether err is a lost write inside a multi-document
// transaction: another open transaction already wrote the same document.
func IsWriteConflict(err error) bool {
	var se mongo.ServerError
	if !errors.As(err, &se) {
		return false
	}
	return se.HasErrorCode(writeConflictCode) || se.HasErrorLabel(transientTxErrorLabel)
}

// WrapWriteErr wraps a failed mongo write with msg. Transaction write
// conflicts additionally match ErrConflict so services report them as
// retryable.
func WrapWriteErr(msg string, err error) error {
	if IsWriteConflict(err) {
		return fmt.Errorf("%s: %w: %w", msg, ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
