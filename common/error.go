package common

import (
	"errors"
	"strings"
)

// Error kinds. Every failure of a handshake matches exactly one of them
// through errors.Is.
var (
	ErrCorruptData         = errors.New("data corrupted")
	ErrUnsupportedProtocol = errors.New("record protocol not supported")
	ErrUnsupportedCipher   = errors.New("cipher not supported")
	ErrNetwork             = errors.New("network error")
	ErrAuthentication      = errors.New("authentication failed")
	ErrFormat              = errors.New("malformed hex string")
)

type Error struct {
	info string
	base []error
}

func (e *Error) Error() string {
	if len(e.base) == 0 {
		return e.info
	}
	var b strings.Builder
	b.WriteString(e.info)
	for _, err := range e.base {
		b.WriteString(" | ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Base records err as a cause of e. Nil errors are ignored.
func (e *Error) Base(err error) *Error {
	if err != nil {
		e.base = append(e.base, err)
	}
	return e
}

func (e *Error) Unwrap() []error {
	return e.base
}

func NewError(info string) *Error {
	return &Error{
		info: info,
	}
}

// Must panics if err is not nil.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}
