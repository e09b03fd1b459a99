package errors

import baseErrors "errors"

// Is detects whether the error is equal to a given error, unwrapping as
// needed. Unlike the standard library it also unwraps *Error on both sides,
// so a sentinel that was re-stacked with Mark or annotated with Append still
// matches.
func Is(e error, original error) bool {
	if baseErrors.Is(e, original) {
		return true
	}
	if e, ok := e.(*Error); ok {
		return Is(e.Err, original)
	}
	if original, ok := original.(*Error); ok {
		return Is(e, original.Err)
	}
	return false
}

// As finds the first error in err's chain that matches target. Proxies the
// standard library.
func As(err error, target interface{}) bool {
	return baseErrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err. Proxies the
// standard library.
func Unwrap(err error) error {
	return baseErrors.Unwrap(err)
}
