package utils

import (
	"github.com/pkg/errors"
)

// NewConfigValidationError returns an error specifying that there was an error validating the
// config at the given path.
func NewConfigValidationError(path string, err error) error {
	return errors.Wrapf(err, "error validating %q", path)
}

// NewConfigValidationFieldRequiredError returns an error specifying that a field was required
// in a config but missing.
func NewConfigValidationFieldRequiredError(path, field string) error {
	return NewConfigValidationError(path, errors.Errorf("%q is required", field))
}

// NewConfigValidationFieldOutOfRangeError returns an error specifying that a config field holds
// a value outside of its allowed range.
func NewConfigValidationFieldOutOfRangeError(path, field string, value interface{}, allowed string) error {
	return NewConfigValidationError(path, errors.Errorf("%q must be in %s, got %v", field, allowed, value))
}
