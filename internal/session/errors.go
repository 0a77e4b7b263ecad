package session

import "errors"

// Errors returned by the session gate.
var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	ErrNoLoginInProgress    = errors.New("no login in progress")
	ErrStateMismatch        = errors.New("login state mismatch")
	ErrEmptyToken           = errors.New("identity provider returned no access token")
	ErrTokenRejected        = errors.New("access token rejected")
)
