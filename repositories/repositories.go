// Package repositories provides the GORM-backed store implementations
// consumed by the core services. All methods translate driver errors into
// the shared errs taxonomy so callers never see gorm internals.
package repositories

import (
	"errors"
	"fmt"

	"parcel-delivery/errs"

	"gorm.io/gorm"
)

// translate maps a gorm error onto the shared taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", errs.ErrDuplicateTransaction, err)
	default:
		return fmt.Errorf("%w: %v", errs.ErrStorageUnavailable, err)
	}
}
