// Package errors provides the failure taxonomy shared by every zipread
// component.
//
// An *Error holds exactly one Kind:
//
//	KindIo                  the byte stream failed; Unwrap returns the cause
//	KindInvalidArchive      the bytes are not a ZIP container
//	KindUnsupportedArchive  the container uses a feature we do not handle
//	KindFileNotFound        an entry lookup by name or index missed
//
// Example usage:
//
//	// Wrapping I/O failures
//	if _, err := r.ReadAt(buf, off); err != nil {
//	    return errors.FromIO(err)
//	}
//
//	// Format and feature failures
//	return errors.InvalidArchive(errors.InvalidSignature)
//	return errors.UnsupportedArchive(errors.PasswordRequired)
//
//	// Branching at a boundary
//	var zipErr *errors.Error
//	if stderrors.As(err, &zipErr) {
//	    switch zipErr.Kind {
//	    case errors.KindUnsupportedArchive:
//	        if zipErr.Diagnostic == errors.PasswordRequired {
//	            // prompt for a password
//	        }
//	    }
//	}
//
// The legacy timestamp codec reports DateTimeOutOfBounds, a separate leaf
// error type.
package errors
