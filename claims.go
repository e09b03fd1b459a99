package authkit

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/dpup/authkit/jsonv"
)

// Claims is the canonical signed-token payload shape read and written by the
// Format. Signing and verification happen behind the ClaimsCodec; by the
// time a Claims value exists the raw token has already been
// cryptographically verified.
type Claims struct {
	// Issuer of the token (`iss`).
	Issuer string

	// Subject carries the transport encoding of the LoginInfo (`sub`).
	Subject string

	// Audience the token is intended for (`aud`).
	Audience []string

	// ExpiresAt is the absolute expiry (`exp`). Zero means none.
	ExpiresAt time.Time

	// NotBefore marks the start of validity (`nbf`). Zero means none.
	NotBefore time.Time

	// IssuedAt is the issue timestamp (`iat`). Zero means none.
	IssuedAt time.Time

	// ID is the unique token identifier (`jti`).
	ID string

	// Custom is a structured tree carrying the `tags`, `fingerprint`, and
	// `payload` members. Zero means no custom claims.
	Custom jsonv.Value
}

// ClaimsCodec converts between a raw signed token string and a verified
// Claims value. Implementations own the cryptography; Read must reject
// tokens whose signature or structure is invalid, and may call out to a key
// resolution service, hence the context.
type ClaimsCodec interface {
	Read(ctx context.Context, raw string) (Claims, error)
	Write(ctx context.Context, claims Claims) (string, error)
}

// SubjectCodec converts a LoginInfo to and from the opaque subject claim
// encoding.
type SubjectCodec interface {
	Encode(info LoginInfo) (string, error)
	Decode(subject string) (LoginInfo, error)
}

// DefaultSubjectCodec encodes LoginInfo as unpadded base64url JSON.
var DefaultSubjectCodec SubjectCodec = base64SubjectCodec{}

type base64SubjectCodec struct{}

func (base64SubjectCodec) Encode(info LoginInfo) (string, error) {
	b, err := json.Marshal(info)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (base64SubjectCodec) Decode(subject string) (LoginInfo, error) {
	b, err := base64.RawURLEncoding.DecodeString(subject)
	if err != nil {
		return LoginInfo{}, &ClaimParseError{Raw: subject, cause: err}
	}
	var info LoginInfo
	if err := json.Unmarshal(b, &info); err != nil {
		return LoginInfo{}, &ClaimParseError{Raw: string(b), cause: err}
	}
	return info, nil
}
