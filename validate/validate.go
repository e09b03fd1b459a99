// Package validate decides whether a decoded Authenticator is still
// acceptable. Validators are pure predicates and a Chain runs every one of
// them, accumulating all rejection reasons rather than stopping at the
// first, so a single rejection reports every violated policy at once.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/dpup/authkit"
	"google.golang.org/grpc/codes"
)

// Status is the outcome of a validation: valid when it carries no reasons.
type Status struct {
	Reasons []string
}

// Ok returns a valid status.
func Ok() Status {
	return Status{}
}

// Invalid returns a status carrying the given rejection reasons.
func Invalid(reasons ...string) Status {
	return Status{Reasons: reasons}
}

// IsValid reports whether the status carries no rejection reasons.
func (s Status) IsValid() bool {
	return len(s.Reasons) == 0
}

// Validator is a pure predicate over an authenticator.
type Validator interface {
	Validate(a authkit.Authenticator) Status
}

// RejectedError carries every reason the validator chain rejected an
// authenticator.
type RejectedError struct {
	Reasons []string
}

func (e *RejectedError) Error() string {
	return "authenticator rejected: " + strings.Join(e.Reasons, "; ")
}

// Code implements the coded-error interface used by the errors package.
func (e *RejectedError) Code() codes.Code { return codes.Unauthenticated }

// Chain runs a sequence of validators, accumulating every rejection.
type Chain []Validator

// Validate runs all validators and merges their reasons. It never
// short-circuits.
func (c Chain) Validate(a authkit.Authenticator) Status {
	var reasons []string
	for _, v := range c {
		reasons = append(reasons, v.Validate(a).Reasons...)
	}
	return Status{Reasons: reasons}
}

// Check runs the chain and converts an invalid outcome into a
// RejectedError.
func (c Chain) Check(a authkit.Authenticator) error {
	if status := c.Validate(a); !status.IsValid() {
		return &RejectedError{Reasons: status.Reasons}
	}
	return nil
}

// Expiration rejects authenticators whose expiry has passed. An
// authenticator without an expiry never expires, and one expiring exactly
// now is still valid.
type Expiration struct {
	// Now is the clock; defaults to time.Now when nil.
	Now func() time.Time
}

func (v Expiration) Validate(a authkit.Authenticator) Status {
	if a.Expires.IsZero() {
		return Ok()
	}
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	if overdue := now().Sub(a.Expires); overdue > 0 {
		return Invalid(fmt.Sprintf("authenticator expired %s ago", overdue))
	}
	return Ok()
}

// Fingerprint rejects authenticators bound to a different client
// fingerprint. Unbound authenticators always pass. The comparison is exact
// and case sensitive.
type Fingerprint struct {
	Expected string
}

func (v Fingerprint) Validate(a authkit.Authenticator) Status {
	if a.Fingerprint == "" || a.Fingerprint == v.Expected {
		return Ok()
	}
	return Invalid(fmt.Sprintf("fingerprint mismatch: want %q, got %q", v.Expected, a.Fingerprint))
}
