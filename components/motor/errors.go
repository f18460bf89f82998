package motor

import "github.com/pkg/errors"

// NewPortReadError wraps a failed feedback read from the named motor.
func NewPortReadError(err error, motorName, quantity string) error {
	return errors.Wrapf(err, "failed to read %s from motor (%s)", quantity, motorName)
}

// NewPortCommandError wraps a failed command to the named motor.
func NewPortCommandError(err error, motorName string) error {
	return errors.Wrapf(err, "failed to command motor (%s)", motorName)
}
