package repository

import (
	"errors"
	"fmt"
)

// ErrUserNotFound is returned for a user id that was never registered
var ErrUserNotFound = errors.New("user not found")

// PersistenceError reports a store operation that could not complete
// against durable storage. Callers decide whether to retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Wrap returns err as a *PersistenceError for op, nil stays nil
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsPersistence reports whether err came from the store
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
