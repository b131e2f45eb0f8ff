package triage

import (
	"errors"
	"fmt"
)

// Sentinel errors for the request boundary. Handlers classify failures with
// errors.Is rather than matching strings.
var (
	// ErrNotFound reports an unknown session id on lookup.
	ErrNotFound = errors.New("conversation not found")

	// ErrOracleUnavailable marks any oracle failure: timeout, malformed
	// response, quota or auth. It must never be converted into a
	// low-urgency triage result.
	ErrOracleUnavailable = errors.New("oracle unavailable")
)

// OracleError wraps an oracle failure with the provider that produced it.
type OracleError struct {
	Provider string
	Err      error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle %s: %v", e.Provider, e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrOracleUnavailable) classify any OracleError.
func (e *OracleError) Is(target error) bool { return target == ErrOracleUnavailable }

// PersistenceError wraps a storage failure during transcript upsert or
// lookup. Retry policy, if any, belongs to the storage layer.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
