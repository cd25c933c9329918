package helpers

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrSessionClosed is returned by Send once the session's connection has ended.
	ErrSessionClosed = errors.New("session closed")

	// ErrSendBufferFull is returned by Send when the outbound queue cannot take another frame.
	ErrSendBufferFull = errors.New("send buffer full")

	// ErrRemoteShutdown ends a worker connection when the hub sends the shutdown sentinel.
	ErrRemoteShutdown = errors.New("remote requested shutdown")
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type RelayError struct {
	Message string
	Cause   error
}

func (e *RelayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RelayError) Unwrap() error {
	return e.Cause
}

// Distinct error kinds for errors.As
type ConfigurationError struct{ RelayError }
type TransportError struct{ RelayError }
type ProtocolError struct{ RelayError }
type UpstreamError struct{ RelayError }
type DatabaseError struct{ RelayError }

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

func NewTransportError(msg string, cause error) error {
	return &TransportError{RelayError{Message: msg, Cause: cause}}
}

func NewProtocolError(msg string, cause error) error {
	return &ProtocolError{RelayError{Message: msg, Cause: cause}}
}

func NewUpstreamError(msg string, cause error) error {
	return &UpstreamError{RelayError{Message: msg, Cause: cause}}
}

func NewDatabaseError(msg string, cause error) error {
	return &DatabaseError{RelayError{Message: msg, Cause: cause}}
}

func NewConfigurationError(msg string, cause error) error {
	return &ConfigurationError{RelayError{Message: msg, Cause: cause}}
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// IsTransport reports whether err is terminal for the task that observed it.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te) || errors.Is(err, ErrSessionClosed)
}

func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
