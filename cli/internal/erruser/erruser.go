// Package erruser provides errors whose Error() is a message meant for the
// person running cssmin; the technical cause stays reachable via Unwrap() so
// the CLI can print it on a separate "Details:" line.
package erruser

import "errors"

// Err holds a user-facing message, the stylesheet it concerns (if any), and
// an optional cause.
type Err struct {
	Msg  string
	Path string
	Err  error
}

// Error returns "path: msg" when Path is set, otherwise msg. The cause is never included.
func (e *Err) Error() string {
	if e == nil {
		return ""
	}
	if e.Path != "" {
		return e.Path + ": " + e.Msg
	}
	return e.Msg
}

// Unwrap returns the cause, or nil.
func (e *Err) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New returns an error with a user-facing message. A nil err yields a plain
// error without a cause.
func New(msg string, err error) error {
	if err == nil {
		return errors.New(msg)
	}
	return &Err{Msg: msg, Err: err}
}

// ForFile is like New but names the file the failure is about.
func ForFile(path, msg string, err error) error {
	return &Err{Msg: msg, Path: path, Err: err}
}

// Message returns the user-facing part of err: the Msg of the outermost *Err
// in the chain, or err.Error() when there is none.
func Message(err error) string {
	var e *Err
	if errors.As(err, &e) {
		return e.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
