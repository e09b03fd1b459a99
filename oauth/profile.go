package oauth

import (
	"strings"

	"github.com/dpup/authkit"
	"github.com/dpup/authkit/jsonv"
)

// Profile is the normalized identity produced by a successful delegated
// login: the LoginInfo used to mint a credential, plus optional display
// attributes.
type Profile struct {
	LoginInfo authkit.LoginInfo
	Name      string
	Email     string
	AvatarURL string
}

// ProfileParser maps a provider's raw profile document into a Profile.
// Implementations must fail with a ProfileFieldError when the provider's
// user identifier cannot be extracted.
type ProfileParser func(doc jsonv.Value) (Profile, error)

// ProfilePaths configures NewProfileParser with the JSON paths (dot
// separated) at which a provider publishes each attribute. Only ID is
// mandatory.
type ProfilePaths struct {
	ID     string
	Name   string
	Email  string
	Avatar string
}

// NewProfileParser builds a ProfileParser for providers whose profile
// endpoint returns a flat-ish JSON document. The provider name becomes the
// LoginInfo provider key. Numeric user IDs are rendered as their JSON text.
func NewProfileParser(provider string, paths ProfilePaths) ProfileParser {
	return func(doc jsonv.Value) (Profile, error) {
		id, ok := lookupText(doc, paths.ID)
		if !ok {
			return Profile{}, &ProfileFieldError{Path: paths.ID}
		}
		p := Profile{
			LoginInfo: authkit.LoginInfo{Provider: provider, UserID: id},
		}
		if paths.Name != "" {
			p.Name, _ = lookupText(doc, paths.Name)
		}
		if paths.Email != "" {
			p.Email, _ = lookupText(doc, paths.Email)
		}
		if paths.Avatar != "" {
			p.AvatarURL, _ = lookupText(doc, paths.Avatar)
		}
		return p, nil
	}
}

// lookupText walks a dotted path and renders the value found there as text.
// Strings are returned verbatim; numbers use their JSON rendering, so
// numeric user IDs survive. Anything else reports absent.
func lookupText(doc jsonv.Value, path string) (string, bool) {
	v, ok := doc.Lookup(strings.Split(path, ".")...)
	if !ok {
		return "", false
	}
	if s, ok := v.AsString(); ok {
		return s, true
	}
	if _, ok := v.AsNumber(); ok {
		return v.Render(), true
	}
	return "", false
}
