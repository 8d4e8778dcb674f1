// Package errs defines the shared error taxonomy of the parcel-delivery core.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound means a referenced parcel, rider or tracking id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrProviderUnavailable means a payment-provider call failed.
	ErrProviderUnavailable = errors.New("payment provider unavailable")

	// ErrStorageUnavailable means a store read or write failed.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrDuplicateTransaction means the external transaction id was already
	// reconciled. A defined outcome, not a failure.
	ErrDuplicateTransaction = errors.New("transaction already reconciled")
)

// PartialError reports a multi-step transition that was only partially
// applied. The parcel record stays authoritative; rider and ledger failures
// are carried alongside so callers can surface them without rolling back.
type PartialError struct {
	Op        string
	ParcelErr error
	RiderErr  error
	LedgerErr error
}

// Any reports whether at least one sub-write failed.
func (e *PartialError) Any() bool {
	return e.ParcelErr != nil || e.RiderErr != nil || e.LedgerErr != nil
}

func (e *PartialError) Error() string {
	parts := make([]string, 0, 3)
	if e.ParcelErr != nil {
		parts = append(parts, fmt.Sprintf("parcel: %v", e.ParcelErr))
	}
	if e.RiderErr != nil {
		parts = append(parts, fmt.Sprintf("rider: %v", e.RiderErr))
	}
	if e.LedgerErr != nil {
		parts = append(parts, fmt.Sprintf("ledger: %v", e.LedgerErr))
	}
	return fmt.Sprintf("%s partially applied: %s", e.Op, strings.Join(parts, "; "))
}

// Unwrap exposes the sub-errors to errors.Is and errors.As.
func (e *PartialError) Unwrap() []error {
	errs := make([]error, 0, 3)
	for _, err := range []error{e.ParcelErr, e.RiderErr, e.LedgerErr} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
