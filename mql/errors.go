package mql

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode marks a value that could not be turned into the expected record.
	ErrDecode = errors.New("mql: decode failed")
	// ErrUnknownCode marks an integer that is not a member of its code table.
	ErrUnknownCode = errors.New("mql: unknown code")
	// ErrUnknownProperty and ErrPropertyKind are returned by the Info* accessors.
	ErrUnknownProperty = errors.New("mql: unknown property")
	ErrPropertyKind    = errors.New("mql: property has a different kind")
)

// Error is the (code, message) pair read from the terminal's error channel.
type Error struct {
	Code    RuntimeError `json:"code"`
	Message string       `json:"message"`
}

// NewError builds an Error from a raw channel reading.
func NewError(code int64, msg string) *Error {
	return &Error{Code: RuntimeError(code), Message: msg}
}

func (e *Error) Error() string {
	return fmt.Sprintf("mt5 %s (%d): %s", e.Code, int(e.Code), e.Message)
}

// Is matches another *Error by code, so errors.Is(err, ErrNotFound) works
// regardless of the message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is. Their messages are irrelevant to matching.
var (
	ErrFail                = &Error{Code: RuntimeFail, Message: "generic fail"}
	ErrInvalidParams       = &Error{Code: RuntimeInvalidParams, Message: "invalid arguments"}
	ErrNoMemory            = &Error{Code: RuntimeNoMemory, Message: "no memory"}
	ErrNotFound            = &Error{Code: RuntimeNotFound, Message: "no history"}
	ErrInvalidVersion      = &Error{Code: RuntimeInvalidVersion, Message: "invalid version"}
	ErrAuthFailed          = &Error{Code: RuntimeAuthFailed, Message: "authorization failed"}
	ErrUnsupported         = &Error{Code: RuntimeUnsupported, Message: "unsupported method"}
	ErrAutoTradingDisabled = &Error{Code: RuntimeAutoTradingDisabled, Message: "auto-trading disabled"}
	ErrInternalFail        = &Error{Code: RuntimeInternalFail, Message: "internal IPC general error"}
	ErrInternalFailSend    = &Error{Code: RuntimeInternalFailSend, Message: "internal IPC send failed"}
	ErrInternalFailReceive = &Error{Code: RuntimeInternalFailReceive, Message: "internal IPC recv failed"}
	ErrInternalFailInit    = &Error{Code: RuntimeInternalFailInit, Message: "internal IPC initialization fail"}
	ErrInternalFailConnect = &Error{Code: RuntimeInternalFailConnect, Message: "internal IPC no ipc"}
	ErrInternalFailTimeout = &Error{Code: RuntimeInternalFailTimeout, Message: "internal timeout"}
)

// InitializeFailedMessage is reported when initialize or login return false
// without a negative code on the error channel.
const InitializeFailedMessage = "Failed to initialize MetaTrader5"

// CodeOf extracts the channel code from err, if it carries one.
func CodeOf(err error) (RuntimeError, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}
