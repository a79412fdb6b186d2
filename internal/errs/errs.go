package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrValidation covers malformed input local to a call. Never retried.
	ErrValidation = errors.New("validation failed")

	// ErrNoFieldsProvided is returned by update operations when no optional
	// field was supplied.
	ErrNoFieldsProvided = errors.New("no fields to update")

	// ErrNotFound indicates a missing resource, terminal for the call.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is the single authorization failure. It is deliberately
	// generic: callers may not learn whether the token was bad or merely
	// bound to a different owner.
	ErrForbidden = errors.New("missing or invalid token")

	// ErrAlreadyExists means a record with the same key already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrOwnerNotFound means the referenced owning identity does not exist.
	ErrOwnerNotFound = errors.New("owner not found")

	// ErrInvalidCredentials means the presented password did not match the
	// stored digest.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAlreadyExpired means a token past its expiry was asked to extend.
	// Expired tokens cannot be revived, only reissued.
	ErrAlreadyExpired = errors.New("token already expired")

	// ErrQuotaExceeded means the owner already holds the maximum number of
	// checks.
	ErrQuotaExceeded = errors.New("check quota exceeded")

	// ErrStorage wraps faults surfaced by the record store.
	ErrStorage = errors.New("storage failure")

	// ErrHashing wraps password digest computation faults.
	ErrHashing = errors.New("hashing failure")

	// ErrOwnerUpdate signals the owner's check list was already out of sync
	// with the check records before the call (distinct from ErrNotFound so
	// operators can reconcile by hand).
	ErrOwnerUpdate = errors.New("owner check list out of sync")
)

// Validation builds an ErrValidation carrying the offending field.
func Validation(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}

// PartialCascadeError reports a user deletion whose cascade left check
// records behind. The user record itself is gone; FailedIDs lists the
// surviving checks for manual reconciliation.
type PartialCascadeError struct {
	FailedIDs []string
}

func (e *PartialCascadeError) Error() string {
	return fmt.Sprintf("cascade incomplete, surviving checks: %s", strings.Join(e.FailedIDs, ", "))
}

// HTTPStatus maps a failure kind to the status code the transport layer
// should answer with.
func HTTPStatus(err error) int {
	var cascade *PartialCascadeError
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrNoFieldsProvided),
		errors.Is(err, ErrOwnerNotFound),
		errors.Is(err, ErrQuotaExceeded),
		errors.Is(err, ErrAlreadyExpired):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.As(err, &cascade):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
