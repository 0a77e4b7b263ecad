package db

import (
	"errors"
	"fmt"
)

// ErrorKind classifies store failures so callers can decide how to surface them.
type ErrorKind string

const (
	// KindUnavailable covers network and backend failures.
	KindUnavailable ErrorKind = "unavailable"
	// KindUnauthorized means the bearer credential was rejected or missing.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindCorrupt means the stored document could not be decoded or encoded.
	KindCorrupt ErrorKind = "corrupt"
)

// StoreError is the error type returned by LibraryStore implementations.
type StoreError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("library %s failed (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, kind ErrorKind, err error) error {
	return &StoreError{Op: op, Kind: kind, Err: err}
}

// KindOf reports the kind of a store error. Errors that are not StoreErrors
// are treated as KindUnavailable; nil yields "".
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnavailable
}
