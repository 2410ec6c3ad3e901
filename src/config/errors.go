package config

import "fmt"

// Error is a configuration problem: an unreadable or malformed config file,
// an unknown section or option, or an invalid option value.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Err }

func errorf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}
