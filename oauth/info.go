package oauth

import (
	"time"

	"github.com/dpup/authkit/jsonv"
)

// OAuth2Info holds the token material returned by a provider's token
// endpoint. It is consumed immediately to fetch a profile and is not
// retained by the engine; applications that need ongoing API access should
// store it themselves.
type OAuth2Info struct {
	// AccessToken is the token used to authenticate API requests.
	AccessToken string

	// RefreshToken is used to obtain new access tokens after expiry, when
	// the provider grants one.
	RefreshToken string

	// TokenType is the type of token, typically "Bearer".
	TokenType string

	// Expiry is the time at which the access token expires. A zero value
	// means the provider did not report one.
	Expiry time.Time

	// Params carries any additional members of the token response, such as
	// the granted scopes, keyed by their wire names.
	Params map[string]jsonv.Value
}

// HasRefreshToken returns true if the token includes a refresh token.
func (i OAuth2Info) HasRefreshToken() bool {
	return i.RefreshToken != ""
}

// IsExpired returns true if the access token has expired. Returns false if
// the token has no expiry time set.
func (i OAuth2Info) IsExpired(now time.Time) bool {
	if i.Expiry.IsZero() {
		return false
	}
	return now.After(i.Expiry)
}
