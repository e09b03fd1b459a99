package errors

import (
	baseErrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestNewCarriesCodeAndStack(t *testing.T) {
	err := NewC("boom", codes.Unauthenticated)
	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, codes.Unauthenticated, err.Code())
	assert.NotEmpty(t, err.StackFrames())
}

func TestWrapPreservesSentinelIdentity(t *testing.T) {
	sentinel := NewC("token is invalid", codes.InvalidArgument)
	wrapped := Mark(sentinel, 0)

	assert.True(t, Is(wrapped, sentinel))
	assert.Equal(t, codes.InvalidArgument, wrapped.Code())
}

func TestAppendKeepsIsChain(t *testing.T) {
	sentinel := NewC("state is invalid", codes.InvalidArgument)
	appended := Mark(sentinel, 0).Append("signature check failed")

	assert.True(t, Is(appended, sentinel))
	assert.Contains(t, appended.Error(), "signature check failed")
}

func TestIsUnwrapsBothSides(t *testing.T) {
	sentinel := NewC("token is invalid", codes.InvalidArgument)

	// Mark replaces the stack but the sentinel must still match.
	assert.True(t, Is(Mark(sentinel, 0), sentinel))

	// A marked-and-annotated copy wraps the sentinel's inner error, so the
	// match requires unwrapping the target side too.
	assert.True(t, Is(Mark(sentinel, 0).Append("detail"), sentinel))

	// Unrelated sentinels with identical text stay distinct.
	other := NewC("token is invalid", codes.InvalidArgument)
	assert.False(t, Is(Mark(other, 0), sentinel))
}

func TestWrapIsIdempotentForError(t *testing.T) {
	err := NewC("inner", codes.NotFound)
	assert.Same(t, err, Wrap(err, 0))
}

func TestWrapPrefix(t *testing.T) {
	err := WrapPrefix(baseErrors.New("kaboom"), "outer", 0)
	assert.Equal(t, "outer: kaboom", err.Error())
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code codes.Code
		want int
	}{
		{codes.Unauthenticated, http.StatusUnauthorized},
		{codes.InvalidArgument, http.StatusBadRequest},
		{codes.Internal, http.StatusInternalServerError},
		{codes.NotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewC("x", tt.code).HTTPStatusCode())
	}

	override := NewC("x", codes.Internal).WithHTTPStatusCode(http.StatusTeapot)
	assert.Equal(t, http.StatusTeapot, override.HTTPStatusCode())
}

func TestPublicMessage(t *testing.T) {
	err := NewC("secret detail", codes.Internal).WithPublicMessage("something went wrong")
	assert.Equal(t, "something went wrong", err.PublicMessage())
	assert.Equal(t, "secret detail", err.Error())
}

func TestCodeHelpers(t *testing.T) {
	require.Equal(t, codes.OK, Code(nil))
	require.Equal(t, http.StatusOK, HTTPStatusCode(nil))

	plain := baseErrors.New("plain")
	assert.Equal(t, codes.Unknown, Code(plain))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusCode(plain))

	coded := NewC("x", codes.PermissionDenied)
	assert.Equal(t, codes.PermissionDenied, Code(coded))
	assert.Equal(t, http.StatusForbidden, HTTPStatusCode(coded))
}
