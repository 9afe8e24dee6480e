package api

import (
	"errors"
	"strings"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrUnknownAction    = errors.New("unknown action")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// Error annotates a failure with the handler operation that produced it and,
// optionally, a sentinel kind. Both the kind and the cause match errors.Is.
type Error struct {
	Op   string
	Kind error
	Err  error
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// Wrap attributes err to op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapKind attributes err to op and classifies it as kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{e.Op, errText(e.Kind), errText(e.Err)} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Message is the client-facing text: the cause if any, else the kind.
func (e *Error) Message() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return errText(e.Kind)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
