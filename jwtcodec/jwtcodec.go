// Package jwtcodec provides the default ClaimsCodec: a JWT signed with a
// shared-secret HMAC. Expiry is deliberately not enforced here — the parse
// verifies the signature and structure only, and time policy is left to the
// validator chain, so that an expired credential can still be inspected and
// reported on.
package jwtcodec

import (
	"context"
	"time"

	"github.com/dpup/authkit"
	"github.com/dpup/authkit/errors"
	"github.com/dpup/authkit/jsonv"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc/codes"
)

// The token could not be verified, structurally or cryptographically.
var ErrInvalidToken = errors.NewC("token is invalid", codes.InvalidArgument)

// Option configures a Codec.
type Option func(*Codec)

// WithSigningMethod overrides the HMAC signing method (HS256 by default).
func WithSigningMethod(m *jwt.SigningMethodHMAC) Option {
	return func(c *Codec) { c.method = m }
}

// Codec signs and verifies claims tokens with an HMAC shared secret.
type Codec struct {
	signingKey []byte
	method     *jwt.SigningMethodHMAC
}

// New creates a Codec using the given signing key.
func New(signingKey []byte, opts ...Option) *Codec {
	c := &Codec{
		signingKey: signingKey,
		method:     jwt.SigningMethodHS256,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Claims shape on the wire. Custom rides along as a single structured claim
// so the registered claim namespace stays clean.
type tokenClaims struct {
	jwt.RegisteredClaims
	Custom *jsonv.Value `json:"custom,omitempty"`
}

// Read verifies the raw token's signature and returns the decoded claims.
// All failures are reported as ErrInvalidToken.
func (c *Codec) Read(ctx context.Context, raw string) (authkit.Claims, error) {
	token, err := jwt.ParseWithClaims(
		raw,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return c.signingKey, nil
		},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		// Expiry and audience policy belong to the caller; the codec only
		// guarantees authenticity.
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return authkit.Claims{}, errors.Mark(ErrInvalidToken, 0).Append(err.Error())
	}

	tc, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return authkit.Claims{}, errors.Mark(ErrInvalidToken, 0).Append("unexpected claims type")
	}

	claims := authkit.Claims{
		Issuer:    tc.Issuer,
		Subject:   tc.Subject,
		Audience:  []string(tc.Audience),
		ExpiresAt: fromNumericDate(tc.ExpiresAt),
		NotBefore: fromNumericDate(tc.NotBefore),
		IssuedAt:  fromNumericDate(tc.IssuedAt),
		ID:        tc.ID,
	}
	if tc.Custom != nil {
		claims.Custom = *tc.Custom
	}
	return claims, nil
}

// Write signs the claims and returns the compact token string.
func (c *Codec) Write(ctx context.Context, claims authkit.Claims) (string, error) {
	tc := &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    claims.Issuer,
			Subject:   claims.Subject,
			Audience:  jwt.ClaimStrings(claims.Audience),
			ExpiresAt: toNumericDate(claims.ExpiresAt),
			NotBefore: toNumericDate(claims.NotBefore),
			IssuedAt:  toNumericDate(claims.IssuedAt),
			ID:        claims.ID,
		},
	}
	if !claims.Custom.IsZero() {
		custom := claims.Custom
		tc.Custom = &custom
	}

	token := jwt.NewWithClaims(c.method, tc)
	ss, err := token.SignedString(c.signingKey)
	if err != nil {
		return "", errors.Wrap(err, 0).WithCode(codes.Internal)
	}
	return ss, nil
}

func toNumericDate(t time.Time) *jwt.NumericDate {
	if t.IsZero() {
		return nil
	}
	return jwt.NewNumericDate(t)
}

func fromNumericDate(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
