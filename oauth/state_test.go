package oauth

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/dpup/authkit/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stateSecret = []byte("state-test-secret")

func TestIssueSignsState(t *testing.T) {
	p := NewStateProtector(stateSecret)
	s := p.Issue("/dashboard")

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "/dashboard", s.Payload)
	assert.False(t, s.IssuedAt.IsZero())
	// SHA256 produces 32 bytes, hex encoded = 64 chars.
	assert.Len(t, s.Signature, 64)
}

func TestVerifyRoundTrip(t *testing.T) {
	p := NewStateProtector(stateSecret)
	encoded := p.Issue("/dashboard").Encode()

	s, err := p.Verify(encoded, encoded)
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", s.Payload)
}

func TestVerifyMissingValues(t *testing.T) {
	p := NewStateProtector(stateSecret)
	encoded := p.Issue("x").Encode()

	for _, pair := range [][2]string{{"", encoded}, {encoded, ""}, {"", ""}} {
		_, err := p.Verify(pair[0], pair[1])
		assert.True(t, errors.Is(err, ErrStateMissing))
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	p := NewStateProtector(stateSecret)
	encoded := p.Issue("x").Encode()

	tests := []struct {
		name   string
		echoed string
	}{
		{"not base64", "!!! not base64 !!!"},
		{"not json", base64.StdEncoding.EncodeToString([]byte("not json"))},
		{"signature not hex", func() string {
			s := &State{ID: "i", Payload: "p", IssuedAt: time.Now(), Signature: "not-hex"}
			return s.Encode()
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Verify(encoded, tt.echoed)
			assert.True(t, errors.Is(err, ErrStateInvalid))
		})
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	p := NewStateProtector(stateSecret)
	s := p.Issue("/safe")

	raw, err := base64.StdEncoding.DecodeString(s.Encode())
	require.NoError(t, err)
	var tampered State
	require.NoError(t, json.Unmarshal(raw, &tampered))
	tampered.Payload = "/evil"
	encoded := tampered.Encode()

	_, err = p.Verify(encoded, encoded)
	assert.True(t, errors.Is(err, ErrStateInvalid))
}

func TestVerifyRejectsDifferentSecret(t *testing.T) {
	issued := NewStateProtector([]byte("secret-one")).Issue("x").Encode()
	_, err := NewStateProtector([]byte("secret-two")).Verify(issued, issued)
	assert.True(t, errors.Is(err, ErrStateInvalid))
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuedAt := time.Now().Add(-10 * time.Minute)
	p := NewStateProtector(stateSecret,
		WithTTL(5*time.Minute),
		WithTimeFunc(func() time.Time { return issuedAt }),
	)
	encoded := p.Issue("x").Encode()

	live := NewStateProtector(stateSecret, WithTTL(5*time.Minute))
	_, err := live.Verify(encoded, encoded)
	assert.True(t, errors.Is(err, ErrStateExpired))
}

func TestVerifyAcceptsWithinWindow(t *testing.T) {
	p := NewStateProtector(stateSecret, WithTTL(5*time.Minute))
	encoded := p.Issue("x").Encode()

	_, err := p.Verify(encoded, encoded)
	assert.NoError(t, err)
}

func TestVerifyRejectsMismatchedValues(t *testing.T) {
	// Both states are validly signed, but an attacker substituting their own
	// state for the echoed value must still be rejected.
	p := NewStateProtector(stateSecret)
	carried := p.Issue("legit").Encode()
	echoed := p.Issue("attacker").Encode()

	_, err := p.Verify(carried, echoed)
	assert.True(t, errors.Is(err, ErrStateMismatch))
}
