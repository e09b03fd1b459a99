package oauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/dpup/authkit"
	"github.com/dpup/authkit/errors"
	"github.com/google/uuid"
)

// State is the signed anti-forgery value carried across the authorization
// redirect. It is attached to the outgoing authorization request as a query
// parameter and simultaneously persisted in a client-held cookie; the
// callback must present both, matching, before the flow proceeds.
type State struct {
	ID        string    `json:"i"`
	Payload   string    `json:"p"`
	IssuedAt  time.Time `json:"t"`
	Signature string    `json:"sig"`
}

// Encode renders the state as base64 JSON, the form that travels in the
// query parameter and the cookie.
func (s *State) Encode() string {
	b, _ := json.Marshal(s)
	return base64.StdEncoding.EncodeToString(b)
}

// StateOption configures a StateProtector.
type StateOption func(*StateProtector)

// WithTTL overrides the validity window of issued states.
func WithTTL(ttl time.Duration) StateOption {
	return func(p *StateProtector) { p.ttl = ttl }
}

// WithTimeFunc overrides the time source, for tests.
func WithTimeFunc(f func() time.Time) StateOption {
	return func(p *StateProtector) { p.now = f }
}

// WithIDFunc overrides the state ID source, for tests.
func WithIDFunc(f func() string) StateOption {
	return func(p *StateProtector) { p.newID = f }
}

// StateProtector issues and verifies signed single-use state values. It
// holds no per-attempt storage: everything crosses the redirect gap inside
// the signed value itself, so any number of flows can be in flight at once.
type StateProtector struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
}

// NewStateProtector creates a protector signing with the given secret. The
// validity window defaults to the `oauth.stateTtl` config value.
func NewStateProtector(secret []byte, opts ...StateOption) *StateProtector {
	p := &StateProtector{
		secret: secret,
		ttl:    authkit.ConfigDuration("oauth.stateTtl"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Issue creates a fresh signed state. The payload is bound under the
// signature and is typically the post-login redirect target.
func (p *StateProtector) Issue(payload string) *State {
	s := &State{
		ID:       p.newID(),
		Payload:  payload,
		IssuedAt: p.now(),
	}
	s.Signature = p.sign(s)
	return s
}

// Verify checks a callback's state values: carried is the value held by the
// client-side carrier, echoed the value returned on the provider's redirect.
// Both must decode, verify, be within the validity window, and match byte
// for byte. The verified state is returned so the caller can recover the
// bound payload. Fails closed on any deviation.
func (p *StateProtector) Verify(carried, echoed string) (*State, error) {
	if carried == "" || echoed == "" {
		return nil, errors.Mark(ErrStateMissing, 0)
	}

	s, err := p.parse(echoed)
	if err != nil {
		return nil, err
	}
	if _, err := p.parse(carried); err != nil {
		return nil, err
	}

	// Double submit: the provider must echo exactly what the client holds,
	// otherwise an attacker could substitute their own validly-signed state.
	if !hmac.Equal([]byte(carried), []byte(echoed)) {
		return nil, errors.Mark(ErrStateMismatch, 0)
	}
	return s, nil
}

func (p *StateProtector) parse(encoded string) (*State, error) {
	b, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Mark(ErrStateInvalid, 0).Append("not base64 encoded")
	}
	var s State
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, errors.Mark(ErrStateInvalid, 0).Append("json decode failed")
	}

	actual, err := hex.DecodeString(s.Signature)
	if err != nil {
		return nil, errors.Mark(ErrStateInvalid, 0).Append("signature is not hex")
	}
	unsigned := s
	unsigned.Signature = ""
	if !hmac.Equal(actual, p.mac(&unsigned)) {
		return nil, errors.Mark(ErrStateInvalid, 0).Append("signature mismatch")
	}

	if s.IssuedAt.Add(p.ttl).Before(p.now()) {
		return nil, errors.Mark(ErrStateExpired, 0)
	}
	return &s, nil
}

func (p *StateProtector) sign(s *State) string {
	return hex.EncodeToString(p.mac(s))
}

func (p *StateProtector) mac(s *State) []byte {
	h := hmac.New(sha256.New, p.secret)
	h.Write([]byte(s.Encode()))
	return h.Sum(nil)
}
