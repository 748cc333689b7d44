package radio

import (
	"errors"
	"fmt"
)

// Error codes for the radio package, following the taxonomy of spec §7.
const (
	ErrCodeTransport       = 1
	ErrCodeTransportTimeout = 2
	ErrCodeDecode           = 3
	ErrCodeProtocol         = 4
	ErrCodeTransmission     = 5
	ErrCodeReceive          = 6
)

// RadioError is a structured error type for the radio package, carrying a
// stable code so callers can branch with errors.As without string matching.
type RadioError struct {
	Code    int
	Message string
	Details string
}

func (e *RadioError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("radio: [%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("radio: [%d] %s", e.Code, e.Message)
}

func newError(code int, message string, details ...string) error {
	err := &RadioError{Code: code, Message: message}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// Sentinel-ish constructors; each call produces a fresh *RadioError so
// Details can vary, but errors.As(&target, &RadioError{}) and a Code check
// is the idiomatic way to branch.
func ErrTransport(details string) error        { return newError(ErrCodeTransport, "transport failure", details) }
func ErrTransportTimeout(details string) error  { return newError(ErrCodeTransportTimeout, "transport timeout", details) }
func ErrDecode(details string) error            { return newError(ErrCodeDecode, "decode failed", details) }
func ErrProtocol(details string) error          { return newError(ErrCodeProtocol, "unexpected protocol response", details) }
func ErrTransmissionFailed(details string) error { return newError(ErrCodeTransmission, "transmission failed", details) }
func ErrReceiveFailed(details string) error     { return newError(ErrCodeReceive, "receive failed", details) }

// IsTimeout reports whether err is (or wraps) a transport-timeout RadioError.
func IsTimeout(err error) bool {
	var re *RadioError
	return errors.As(err, &re) && re.Code == ErrCodeTransportTimeout
}
