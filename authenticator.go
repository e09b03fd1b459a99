// Package authkit provides building blocks for session authentication: an
// immutable session credential (the Authenticator), a codec that maps it to
// and from a signed claims token, transport carriers that move the token in
// and out of requests and responses, a validator chain, and an OAuth2
// delegated-login engine.
//
// The pieces are deliberately independent. A typical server wires them
// together like so: an oauth.Provider authenticates a user and yields a
// login identity; the identity is wrapped into a new Authenticator; a Format
// serializes it; a transport carrier embeds the token in the response. On
// later requests the carrier retrieves the token, the Format reconstructs
// the Authenticator, and a validate.Chain decides whether it is still
// acceptable.
package authkit

import (
	"time"

	"github.com/dpup/authkit/jsonv"
	"github.com/google/uuid"
)

// LoginInfo uniquely identifies an authenticated principal across all
// identity providers as a (provider, provider user key) pair. It is
// immutable once created.
type LoginInfo struct {
	// Provider is the key of the identity provider, e.g. "google".
	Provider string `json:"provider"`

	// UserID is the provider-specific identifier for the user, e.g. the
	// provider's `sub` value.
	UserID string `json:"userId"`
}

// String renders the login info for logs.
func (l LoginInfo) String() string {
	return l.Provider + "/" + l.UserID
}

// Authenticator is the session credential. ID and LoginInfo are set at
// construction and never change; everything else is updated through the
// With* methods, which return a modified copy. Zero time values mean the
// corresponding timestamp is unset, and a zero Expires means the credential
// never expires.
type Authenticator struct {
	// ID is an opaque unique identifier for this credential instance,
	// carried as the JWT-ID claim.
	ID string

	// LoginInfo identifies the authenticated principal.
	LoginInfo LoginInfo

	// Touched is the last-activity timestamp, if tracked.
	Touched time.Time

	// Expires is the absolute expiry time. Zero means never expires.
	Expires time.Time

	// Fingerprint optionally binds the credential to a client
	// characteristic, such as a hash of request attributes. Empty means
	// not bound.
	Fingerprint string

	// Tags are free-form labels. Order is significant and duplicates are
	// permitted.
	Tags []string

	// Payload carries application-defined extra claims.
	Payload jsonv.Value
}

// NewAuthenticator creates a credential for the given principal.
func NewAuthenticator(id string, info LoginInfo) Authenticator {
	return Authenticator{ID: id, LoginInfo: info}
}

// NewSession creates a credential with a generated ID, a Touched timestamp
// of now, and the default expiration window from config (`auth.expiration`).
func NewSession(info LoginInfo) Authenticator {
	now := time.Now()
	return Authenticator{
		ID:        NewID(),
		LoginInfo: info,
		Touched:   now,
		Expires:   now.Add(ConfigDuration("auth.expiration")),
	}
}

// NewID returns a fresh opaque credential identifier.
func NewID() string {
	return uuid.NewString()
}

// WithExpiry returns a copy that expires at the given time.
func (a Authenticator) WithExpiry(t time.Time) Authenticator {
	b := a.clone()
	b.Expires = t
	return b
}

// Touch returns a copy with the last-activity timestamp set to now.
func (a Authenticator) Touch(now time.Time) Authenticator {
	b := a.clone()
	b.Touched = now
	return b
}

// WithFingerprint returns a copy bound to the given client fingerprint.
func (a Authenticator) WithFingerprint(fp string) Authenticator {
	b := a.clone()
	b.Fingerprint = fp
	return b
}

// WithTags returns a copy carrying the given tags.
func (a Authenticator) WithTags(tags ...string) Authenticator {
	b := a.clone()
	b.Tags = append([]string(nil), tags...)
	return b
}

// WithPayload returns a copy carrying the given extra claims.
func (a Authenticator) WithPayload(v jsonv.Value) Authenticator {
	b := a.clone()
	b.Payload = v
	return b
}

func (a Authenticator) clone() Authenticator {
	b := a
	b.Tags = append([]string(nil), a.Tags...)
	return b
}
