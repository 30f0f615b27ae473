// internal/apperr/apperr.go
//
// Error taxonomy shared by the game engine, the word catalogue and the
// identity layer. The HTTP layer maps each Kind to a status code; everything
// below it only needs to pick the right Kind.

package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by how the caller should react to it.
type Kind int

const (
	Internal        Kind = iota // unexpected failure; logged, surfaced generically
	Validation                  // malformed or out-of-range input
	Conflict                    // duplicate word
	NotFound                    // unknown game or word id
	Unprocessable               // well-formed guess that is not an accepted word
	InvalidState                // action on a finished game
	Unavailable                 // empty target pool or unreachable dependency
	Unauthenticated             // caller could not be verified
	Forbidden                   // caller verified but not allowed
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	case Unprocessable:
		return "unprocessable_word"
	case InvalidState:
		return "invalid_state"
	case Unavailable:
		return "unavailable"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error carries a Kind, a caller-facing message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an error of the given kind.
func New(k Kind, msg string) error {
	return &Error{Kind: k, Msg: msg}
}

// Wrap attaches a kind and message to cause. A nil cause yields nil.
func Wrap(k Kind, msg string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: k, Msg: msg, Err: cause}
}

// KindOf reports the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message returns the caller-facing message of err. Internal errors never
// leak their text.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Msg
	}
	return "internal error"
}

// Is reports whether err is of kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
