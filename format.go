package authkit

import (
	"context"
	"fmt"

	"github.com/dpup/authkit/jsonv"
	"google.golang.org/grpc/codes"
)

// TouchedSource selects which claim timestamp feeds Authenticator.Touched.
// Token sources differ in which timestamp they re-stamp when a session is
// refreshed, so this is configurable rather than fixed.
type TouchedSource int

const (
	// TouchedFromIssuedAt maps `iat` to Touched. This is the default.
	TouchedFromIssuedAt TouchedSource = iota

	// TouchedFromNotBefore maps `nbf` to Touched.
	TouchedFromNotBefore
)

// MissingClaimError reports a decoded token that lacks one of the two
// mandatory claims, `jti` or `sub`.
type MissingClaimError struct {
	Field string
}

func (e *MissingClaimError) Error() string {
	return fmt.Sprintf("authkit: missing mandatory claim %q", e.Field)
}

// Code implements the coded-error interface used by the errors package.
func (e *MissingClaimError) Code() codes.Code { return codes.Unauthenticated }

// ClaimParseError reports a subject claim that, once decoded from its
// transport encoding, could not be parsed into a LoginInfo. Raw holds the
// offending text.
type ClaimParseError struct {
	Raw   string
	cause error
}

func (e *ClaimParseError) Error() string {
	return fmt.Sprintf("authkit: subject claim is not a valid login info document: %q", e.Raw)
}

func (e *ClaimParseError) Unwrap() error { return e.cause }

// Code implements the coded-error interface used by the errors package.
func (e *ClaimParseError) Code() codes.Code { return codes.Unauthenticated }

// UnexpectedValueError reports a custom claim member of the wrong JSON kind.
// Actual holds the concrete rendering of the offending value and Expected
// the kind that was required.
type UnexpectedValueError struct {
	Field    string
	Actual   string
	Expected string
}

func (e *UnexpectedValueError) Error() string {
	return fmt.Sprintf("authkit: unexpected value for claim %q: got %s, want %s", e.Field, e.Actual, e.Expected)
}

// Code implements the coded-error interface used by the errors package.
func (e *UnexpectedValueError) Code() codes.Code { return codes.Unauthenticated }

// Custom claim member names used by the Format.
const (
	customTags        = "tags"
	customFingerprint = "fingerprint"
	customPayload     = "payload"
)

// FormatOption configures a Format.
type FormatOption func(*Format)

// WithSubjectCodec overrides the encoding used for the subject claim.
func WithSubjectCodec(sc SubjectCodec) FormatOption {
	return func(f *Format) { f.subjects = sc }
}

// WithTouchedSource selects which claim timestamp feeds Touched.
func WithTouchedSource(src TouchedSource) FormatOption {
	return func(f *Format) { f.touched = src }
}

// WithIssuer sets the issuer and audience stamped onto written tokens.
func WithIssuer(issuer string, audience ...string) FormatOption {
	return func(f *Format) {
		f.issuer = issuer
		f.audience = audience
	}
}

// Format maps an Authenticator to and from a signed claims token via an
// injected ClaimsCodec. Read is a left inverse of Write for the fields the
// format controls: id, login info, expiry, fingerprint, tags, and payload.
type Format struct {
	codec    ClaimsCodec
	subjects SubjectCodec
	touched  TouchedSource
	issuer   string
	audience []string
}

// NewFormat creates a Format around the given claims codec. The issuer
// defaults to the `auth.issuer` config value and the subject encoding to
// DefaultSubjectCodec.
func NewFormat(codec ClaimsCodec, opts ...FormatOption) *Format {
	f := &Format{
		codec:    codec,
		subjects: DefaultSubjectCodec,
		issuer:   ConfigString("auth.issuer"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Read parses a raw token back into an Authenticator. Failures from the
// claims codec are returned unchanged; structural problems in the decoded
// claims are reported as MissingClaimError, ClaimParseError, or
// UnexpectedValueError.
func (f *Format) Read(ctx context.Context, raw string) (Authenticator, error) {
	claims, err := f.codec.Read(ctx, raw)
	if err != nil {
		return Authenticator{}, err
	}

	if claims.ID == "" {
		return Authenticator{}, &MissingClaimError{Field: "jti"}
	}
	if claims.Subject == "" {
		return Authenticator{}, &MissingClaimError{Field: "sub"}
	}

	info, err := f.subjects.Decode(claims.Subject)
	if err != nil {
		if _, ok := err.(*ClaimParseError); ok {
			return Authenticator{}, err
		}
		return Authenticator{}, &ClaimParseError{Raw: claims.Subject, cause: err}
	}

	a := Authenticator{
		ID:        claims.ID,
		LoginInfo: info,
		Expires:   claims.ExpiresAt,
	}
	switch f.touched {
	case TouchedFromIssuedAt:
		a.Touched = claims.IssuedAt
	case TouchedFromNotBefore:
		a.Touched = claims.NotBefore
	}

	if err := f.readCustom(claims.Custom, &a); err != nil {
		return Authenticator{}, err
	}
	return a, nil
}

func (f *Format) readCustom(custom jsonv.Value, a *Authenticator) error {
	if custom.IsZero() {
		return nil
	}
	if custom.Kind() != jsonv.Object {
		return &UnexpectedValueError{Field: "custom", Actual: custom.Render(), Expected: jsonv.Object.String()}
	}

	if v, ok := custom.Get(customTags); ok {
		elems, ok := v.AsArray()
		if !ok {
			return &UnexpectedValueError{Field: customTags, Actual: v.Render(), Expected: jsonv.Array.String()}
		}
		tags := make([]string, len(elems))
		for i, e := range elems {
			s, ok := e.AsString()
			if !ok {
				return &UnexpectedValueError{Field: customTags, Actual: e.Render(), Expected: jsonv.String.String()}
			}
			tags[i] = s
		}
		a.Tags = tags
	}

	if v, ok := custom.Get(customFingerprint); ok {
		s, ok := v.AsString()
		if !ok {
			return &UnexpectedValueError{Field: customFingerprint, Actual: v.Render(), Expected: jsonv.String.String()}
		}
		a.Fingerprint = s
	}

	if v, ok := custom.Get(customPayload); ok {
		if v.Kind() != jsonv.Object {
			return &UnexpectedValueError{Field: customPayload, Actual: v.Render(), Expected: jsonv.Object.String()}
		}
		a.Payload = v
	}
	return nil
}

// Write serializes an Authenticator into a signed token string.
func (f *Format) Write(ctx context.Context, a Authenticator) (string, error) {
	subject, err := f.subjects.Encode(a.LoginInfo)
	if err != nil {
		return "", err
	}

	claims := Claims{
		Issuer:    f.issuer,
		Subject:   subject,
		Audience:  f.audience,
		ExpiresAt: a.Expires,
		ID:        a.ID,
	}
	switch f.touched {
	case TouchedFromIssuedAt:
		claims.IssuedAt = a.Touched
	case TouchedFromNotBefore:
		claims.NotBefore = a.Touched
	}

	members := map[string]jsonv.Value{}
	if len(a.Tags) > 0 {
		elems := make([]jsonv.Value, len(a.Tags))
		for i, t := range a.Tags {
			elems[i] = jsonv.NewString(t)
		}
		members[customTags] = jsonv.NewArray(elems...)
	}
	if a.Fingerprint != "" {
		members[customFingerprint] = jsonv.NewString(a.Fingerprint)
	}
	if !a.Payload.IsZero() {
		members[customPayload] = a.Payload
	}
	if len(members) > 0 {
		claims.Custom = jsonv.NewObject(members)
	}

	return f.codec.Write(ctx, claims)
}
