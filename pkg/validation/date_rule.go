// Package validation holds cross-field rules shared by the entity and request validators.
package validation

import (
	"errors"
	"fmt"
	"time"
)

// ErrDateNotAfter is matched by every DateOrderError.
var ErrDateNotAfter = errors.New("date is not after its reference")

// DateOrderError reports a date that does not come strictly after the date it is compared with.
type DateOrderError struct {
	Field     string
	Reference string
}

func (e *DateOrderError) Error() string {
	return fmt.Sprintf("%s must be greater than %s", e.Field, e.Reference)
}

func (e *DateOrderError) Is(target error) bool {
	return target == ErrDateNotAfter
}

// DateGreaterThan requires value to be strictly later than ref().
// A nil value passes; ref is only called when there is something to compare.
func DateGreaterThan(field string, value *time.Time, refField string, ref func() time.Time) error {
	if value == nil {
		return nil
	}
	if !value.After(ref()) {
		return &DateOrderError{Field: field, Reference: refField}
	}
	return nil
}
