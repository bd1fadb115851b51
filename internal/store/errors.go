package store

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("already exists")
	// ErrTerminalState is returned when a publish-state update targets an
	// operation that already reached completed or failed.
	ErrTerminalState = errors.New("operation already in a terminal state")
)
