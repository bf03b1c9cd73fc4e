package common

import (
	"github.com/pkg/errors"
)

// Errors raised while configuring a session or building a request.
// Use errors.Is (or errors.Cause) to test for them; transport and peer reported errors are never
// wrapped in one of these.
var (
	// ErrConfiguration reports invalid or missing device/handler configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrUnsupportedOperation reports an operation name that is not present in the effective registry.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrInvalidArgument reports parameters that violate a request builder's precondition.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingCapability reports a request that needs a capability the peer has not advertised.
	ErrMissingCapability = errors.New("missing capability")
)

// ConfigurationErrorf returns an ErrConfiguration annotated with the formatted message.
func ConfigurationErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConfiguration, format, args...)
}

// UnsupportedOperationf returns an ErrUnsupportedOperation annotated with the formatted message.
func UnsupportedOperationf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrUnsupportedOperation, format, args...)
}

// InvalidArgumentf returns an ErrInvalidArgument annotated with the formatted message.
func InvalidArgumentf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// MissingCapabilityf returns an ErrMissingCapability annotated with the formatted message.
func MissingCapabilityf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMissingCapability, format, args...)
}
