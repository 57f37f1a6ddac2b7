package errx

import (
	"errors"
	"fmt"
)

// Kind classifies a failure into the agent's error taxonomy.
type Kind string

const (
	// KindParsing marks unparseable or schema-invalid language model output
	// on the intake path.
	KindParsing Kind = "parsing"
	// KindValidation marks schema- or contract-inconsistent selection and
	// estimation output.
	KindValidation Kind = "validation"
	// KindLookup marks an unreachable or failing read-side collaborator.
	KindLookup Kind = "lookup"
	// KindPersistence marks a failed write to a durable store.
	KindPersistence Kind = "persistence"
	// KindInternal marks a programming error, e.g. a routing combination
	// that should be unreachable.
	KindInternal Kind = "internal"
)

// User-facing fallback messages per kind. Internal details never leak into
// the conversation.
const (
	ParsingMessage     = "Sorry, I couldn't understand that. Could you rephrase what you ate?"
	ValidationMessage  = "Sorry, I couldn't resolve that food reliably. Could you try describing it differently?"
	LookupMessage      = "I couldn't reach the food database just now. Please try again in a moment."
	PersistenceMessage = "I couldn't save that entry. Nothing was logged; please try again."
	InternalMessage    = "Something went wrong on my side. Please try again."
)

// Error wraps an underlying cause with a taxonomy kind and a safe
// user-facing message.
type Error struct {
	Err     error
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the target matches the underlying error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// New creates an Error with the provided kind and user-facing message.
func New(err error, kind Kind, message string) *Error {
	return &Error{Err: err, Kind: kind, Message: message}
}

func Parsing(err error) *Error     { return New(err, KindParsing, ParsingMessage) }
func Validation(err error) *Error  { return New(err, KindValidation, ValidationMessage) }
func Lookup(err error) *Error      { return New(err, KindLookup, LookupMessage) }
func Persistence(err error) *Error { return New(err, KindPersistence, PersistenceMessage) }

// Internal creates an internal error from a format string. Used for
// unreachable routing combinations and broken node preconditions.
func Internal(format string, args ...any) *Error {
	return New(fmt.Errorf(format, args...), KindInternal, InternalMessage)
}

// KindOf extracts the taxonomy kind from an error chain, defaulting to
// KindInternal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// UserMessage returns the safe user-facing message for an error chain.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return InternalMessage
}
