package errors

import (
	"errors"
	"fmt"
)

// Error code constants used by the CLI and MCP surfaces.
const (
	CodeIO               = "IO_ERROR"
	CodeZipInvalid       = "ZIP_INVALID"
	CodeZipUnsupported   = "ZIP_UNSUPPORTED"
	CodeFileNotFound     = "FILE_NOT_FOUND"
	CodePasswordRequired = "PASSWORD_REQUIRED"
)

// Kind identifies which variant of the taxonomy an Error holds.
type Kind int

const (
	// KindIo is a failure of the underlying byte stream.
	KindIo Kind = iota
	// KindInvalidArchive means the bytes are not a ZIP container.
	KindInvalidArchive
	// KindUnsupportedArchive means the container is valid but uses a feature
	// this implementation does not handle.
	KindUnsupportedArchive
	// KindFileNotFound means a lookup by name or index had no match.
	KindFileNotFound
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindIo:
		return "Io"
	case KindInvalidArchive:
		return "InvalidArchive"
	case KindUnsupportedArchive:
		return "UnsupportedArchive"
	case KindFileNotFound:
		return "FileNotFound"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the failure type returned by every fallible archive operation.
// Values are immutable once constructed.
type Error struct {
	wrapped    error
	Diagnostic Diagnostic
	Kind       Kind
}

// Error renders a one-line description of the failure.
func (e *Error) Error() string {
	switch e.Kind {
	case KindIo:
		if e.wrapped == nil {
			return "i/o error"
		}
		return e.wrapped.Error()
	case KindInvalidArchive:
		return "invalid Zip archive: " + string(e.Diagnostic)
	case KindUnsupportedArchive:
		return "unsupported Zip archive: " + string(e.Diagnostic)
	case KindFileNotFound:
		return "specified file not found in archive"
	}
	panic(fmt.Sprintf("errors: unhandled kind %v", e.Kind))
}

// Unwrap returns the underlying I/O failure. Every other kind is a leaf.
func (e *Error) Unwrap() error {
	if e.Kind != KindIo {
		return nil
	}
	return e.wrapped
}

// Is reports whether target is a taxonomy error of the same kind and
// diagnostic. Io errors match on kind alone; their causes are compared
// through Unwrap.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return e.Kind == KindIo || e.Diagnostic == t.Diagnostic
}

// Code returns the stable error code for the variant.
func (e *Error) Code() string {
	switch e.Kind {
	case KindIo:
		return CodeIO
	case KindInvalidArchive:
		return CodeZipInvalid
	case KindUnsupportedArchive:
		if e.Diagnostic == PasswordRequired {
			return CodePasswordRequired
		}
		return CodeZipUnsupported
	case KindFileNotFound:
		return CodeFileNotFound
	}
	panic(fmt.Sprintf("errors: unhandled kind %v", e.Kind))
}

// AsIOError converts e into a plain error carrying only the rendered
// message. The variant is not recoverable from the result.
func (e *Error) AsIOError() error {
	return errors.New(e.Error())
}

// FromIO wraps a byte-stream failure as a KindIo error. The original error is
// kept as the cause and supplies the message. Errors that are already part of
// the taxonomy are returned unchanged.
func FromIO(err error) *Error {
	if err == nil {
		return nil
	}
	var archiveErr *Error
	if errors.As(err, &archiveErr) {
		return archiveErr
	}
	return &Error{
		Kind:    KindIo,
		wrapped: err,
	}
}

// InvalidArchive creates a ZIP_INVALID error.
func InvalidArchive(d Diagnostic) *Error {
	return &Error{
		Kind:       KindInvalidArchive,
		Diagnostic: d,
	}
}

// UnsupportedArchive creates a ZIP_UNSUPPORTED error.
func UnsupportedArchive(d Diagnostic) *Error {
	return &Error{
		Kind:       KindUnsupportedArchive,
		Diagnostic: d,
	}
}

// FileNotFound creates a FILE_NOT_FOUND error.
func FileNotFound() *Error {
	return &Error{Kind: KindFileNotFound}
}

// ToIO is the free-function form of AsIOError. A nil input yields nil.
func ToIO(err *Error) error {
	if err == nil {
		return nil
	}
	return err.AsIOError()
}

// Code extracts the error code from an error.
// Returns an empty string if the error is not a taxonomy error.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var archiveErr *Error
	if errors.As(err, &archiveErr) {
		return archiveErr.Code()
	}
	return ""
}

// Is checks if an error has a specific error code.
func Is(err error, code string) bool {
	c := Code(err)
	if c == code {
		return c != ""
	}
	// PASSWORD_REQUIRED is a refinement of ZIP_UNSUPPORTED.
	return code == CodeZipUnsupported && c == CodePasswordRequired
}

// KindOf returns the variant of the first taxonomy error in err's chain.
func KindOf(err error) (Kind, bool) {
	var archiveErr *Error
	if errors.As(err, &archiveErr) {
		return archiveErr.Kind, true
	}
	return 0, false
}

// IsPasswordRequired reports whether err asks the caller for credentials.
func IsPasswordRequired(err error) bool {
	var archiveErr *Error
	if !errors.As(err, &archiveErr) {
		return false
	}
	return archiveErr.Kind == KindUnsupportedArchive && archiveErr.Diagnostic == PasswordRequired
}
