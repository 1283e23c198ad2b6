package models

import "errors"

var (
	// ErrNotFound is returned when a wallet referenced by its exact id does
	// not exist in the snapshot.
	ErrNotFound = errors.New("not found")
	// ErrInvalidPayload is returned when data received from the engine or a
	// client cannot be decoded into the vault model.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrUnsupported is returned by engines that cannot serve an operation,
	// e.g. signing on a watch-only store.
	ErrUnsupported = errors.New("operation not supported")
)
