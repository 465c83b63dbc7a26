package utils

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestConfigValidationErrors(t *testing.T) {
	err := NewConfigValidationError("panorama", errors.New("bad"))
	test.That(t, err, test.ShouldBeError, errors.New(`error validating "panorama": bad`))

	err = NewConfigValidationFieldRequiredError("panorama", "max_err")
	test.That(t, err, test.ShouldBeError, errors.New(`error validating "panorama": "max_err" is required`))

	err = NewConfigValidationFieldOutOfRangeError("panorama", "inlier_percent", 1.5, "(0, 1]")
	test.That(t, err, test.ShouldBeError, errors.New(`error validating "panorama": "inlier_percent" must be in (0, 1], got 1.5`))
}
