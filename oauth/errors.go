package oauth

import (
	"fmt"

	"github.com/dpup/authkit/errors"
	"google.golang.org/grpc/codes"
)

var (
	// No state value was presented, either by the provider redirect or by
	// the carrier cookie.
	ErrStateMissing = errors.NewC("oauth: state value is missing", codes.InvalidArgument)

	// The state value could not be decoded or its signature did not verify.
	ErrStateInvalid = errors.NewC("oauth: state value is invalid", codes.InvalidArgument)

	// The state value was issued too long ago.
	ErrStateExpired = errors.NewC("oauth: state value has expired", codes.InvalidArgument)

	// The state echoed by the provider does not match the value held by the
	// client carrier.
	ErrStateMismatch = errors.NewC("oauth: state values do not match", codes.InvalidArgument)
)

// ProviderError reports an unusable response from a provider endpoint: a
// transport failure, a non-success HTTP status, or a body that failed to
// decode or carried an embedded error indicator. Status and Body hold the
// raw response for diagnostics; Status is zero for transport failures.
type ProviderError struct {
	Step   string
	Status int
	Body   string
	cause  error
}

func (e *ProviderError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("oauth: %s failed: %v", e.Step, e.cause)
	}
	return fmt.Sprintf("oauth: %s returned unexpected response: status=%d body=%q", e.Step, e.Status, e.Body)
}

func (e *ProviderError) Unwrap() error { return e.cause }

// Code implements the coded-error interface used by the errors package.
func (e *ProviderError) Code() codes.Code {
	if e.cause != nil {
		return codes.Unavailable
	}
	return codes.Internal
}

// ProfileFieldError reports a profile document missing a mandatory identity
// field. Path names the JSON path that could not be extracted.
type ProfileFieldError struct {
	Path string
}

func (e *ProfileFieldError) Error() string {
	return fmt.Sprintf("oauth: profile document is missing mandatory field %q", e.Path)
}

// Code implements the coded-error interface used by the errors package.
func (e *ProfileFieldError) Code() codes.Code { return codes.Internal }
