package calerr

import (
	"errors"
	"fmt"
	"time"

	"github.com/sgostarter/i/commerr"
)

var (
	ErrConfiguration = errors.New("configuration")
	ErrDataMismatch  = errors.New("data mismatch")
)

// ConfigError is fatal at init; nothing is laid out once it is returned.
type ConfigError struct {
	Field  string
	Reason string
}

func NewConfigError(field, format string, a ...interface{}) error {
	return &ConfigError{
		Field:  field,
		Reason: fmt.Sprintf(format, a...),
	}
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "configuration: " + e.Reason
	}

	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration || target == commerr.ErrInvalidArgument
}

type DataMismatchError struct {
	Want string
	Got  string
	Key  time.Time
}

func (e *DataMismatchError) Error() string {
	if e.Key.IsZero() {
		return fmt.Sprintf("data mismatch: want %s domains, got %s", e.Want, e.Got)
	}

	return fmt.Sprintf("data mismatch: want %s domain, got %s key %s", e.Want, e.Got, e.Key.Format(time.RFC3339))
}

func (e *DataMismatchError) Is(target error) bool {
	return target == ErrDataMismatch
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
