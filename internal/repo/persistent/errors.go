package persistent

import (
	"errors"
	"fmt"

	"yamdb/internal/entity"

	"gorm.io/gorm"
)

// translate maps storage errors onto entity errors. Duplicate keys become a
// conflict on field, missing rows become not found.
func translate(err error, what, field, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return entity.NotFound("%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return entity.Conflict(field, conflictMsg)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

func notFound(err error, what string) error {
	return translate(err, what, "", "")
}
