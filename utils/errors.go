package utils

import (
	"github.com/pkg/errors"
)

// NewMissingPortError is used when a required actuator port was not supplied.
func NewMissingPortError(group, name string) error {
	return errors.Errorf("%s port %q is not set", group, name)
}
