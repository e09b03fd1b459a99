// Package oauth drives delegated login against OAuth2 identity providers.
// One generic engine serves every provider: endpoints, scopes, and a profile
// parser are injected per provider rather than subclassed. The redirect gap
// is protected by a signed, single-use state value (see StateProtector); the
// HTTP client used to reach the provider is an injected capability so the
// engine never owns network policy.
package oauth

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dpup/authkit"
	"github.com/dpup/authkit/errors"
	"github.com/dpup/authkit/jsonv"
	"github.com/dpup/authkit/logging"
	"github.com/dpup/authkit/transport"
	"golang.org/x/oauth2"
	"google.golang.org/grpc/codes"
)

func init() {
	authkit.RegisterConfigKeys(
		authkit.ConfigKeyInfo{
			Key:         "oauth.stateTtl",
			Description: "Validity window for the signed anti-forgery state",
			Type:        "duration",
			Default:     "5m",
		},
		authkit.ConfigKeyInfo{
			Key:         "oauth.stateCookieName",
			Description: "Name of the cookie carrying the state across the redirect",
			Type:        "string",
			Default:     "authkit-state",
		},
	)
}

// Doer executes HTTP requests against provider endpoints. It is the only
// network capability the engine uses; timeouts and retries belong to the
// implementation.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProviderSettings configures the engine for one identity provider.
type ProviderSettings struct {
	// Name is the provider key recorded in LoginInfo, e.g. "google".
	Name string

	// ClientID and ClientSecret identify the relying application.
	ClientID     string
	ClientSecret string

	// Endpoint holds the provider's authorization and token URLs.
	Endpoint oauth2.Endpoint

	// RedirectURL is the callback the provider redirects back to.
	RedirectURL string

	// Scopes requested during authorization.
	Scopes []string

	// ProfileURL is the endpoint queried with the access token to obtain
	// the user's profile document.
	ProfileURL string
}

// AuthResult is everything a successful callback yields: the normalized
// identity, the token material, the payload bound into the state at
// BeginAuth (typically the original redirect target), and a response that
// retires the state cookie.
type AuthResult struct {
	Profile  Profile
	Token    OAuth2Info
	Payload  string
	Response transport.Response
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithStateCookie overrides the cookie carrier holding the state across the
// redirect.
func WithStateCookie(c transport.CookieCarrier) ProviderOption {
	return func(p *Provider) { p.stateCookie = c }
}

// WithClock overrides the time source used to compute token expiry, for
// tests.
func WithClock(f func() time.Time) ProviderOption {
	return func(p *Provider) { p.now = f }
}

// Provider is the delegated-login engine for a single identity provider.
type Provider struct {
	settings    ProviderSettings
	client      Doer
	parse       ProfileParser
	protector   *StateProtector
	stateCookie transport.CookieCarrier
	now         func() time.Time
}

// NewProvider wires an engine from its collaborators: provider settings, an
// HTTP capability, a profile parser, and a state protector.
func NewProvider(settings ProviderSettings, client Doer, parse ProfileParser, protector *StateProtector, opts ...ProviderOption) *Provider {
	p := &Provider{
		settings:    settings,
		client:      client,
		parse:       parse,
		protector:   protector,
		stateCookie: transport.NewCookieCarrier(authkit.ConfigString("oauth.stateCookieName")),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BeginAuth starts an authorization attempt. It issues a signed state bound
// to the given payload, persists it in the state cookie on the returned
// response, and returns the provider authorization URL the client should be
// redirected to.
func (p *Provider) BeginAuth(ctx context.Context, res transport.Response, payload string) (string, transport.Response, error) {
	state := p.protector.Issue(payload)
	encoded := state.Encode()

	res = p.stateCookie.Embed(encoded, res)

	q := url.Values{}
	q.Add("client_id", p.settings.ClientID)
	q.Add("response_type", "code")
	q.Add("redirect_uri", p.settings.RedirectURL)
	q.Add("scope", strings.Join(p.settings.Scopes, " "))
	q.Add("state", encoded)

	authURL, err := appendQuery(p.settings.Endpoint.AuthURL, q)
	if err != nil {
		return "", res, errors.Codef(codes.Internal, "oauth: invalid authorization endpoint %q: %s", p.settings.Endpoint.AuthURL, err)
	}

	logging.Infow(ctx, "oauth: redirecting for authorization",
		"provider", p.settings.Name, "state", state.ID)
	return authURL, res, nil
}

// FinishAuth handles the provider's redirect back. It verifies the state,
// exchanges the authorization code for tokens, fetches and parses the
// profile, and returns the result. The returned response retires the state
// cookie, so replaying the same callback fails state verification.
func (p *Provider) FinishAuth(ctx context.Context, req transport.Request) (AuthResult, error) {
	res := transport.NewResponse()

	echoed, _ := transport.NewQueryCarrier("state").Retrieve(req)
	carried, _ := p.stateCookie.Retrieve(req)
	state, err := p.protector.Verify(carried, echoed)
	if err != nil {
		logging.Warnw(ctx, "oauth: state verification failed",
			"provider", p.settings.Name, "error", err)
		return AuthResult{}, err
	}
	res = p.stateCookie.Discard(res)

	code, ok := transport.NewQueryCarrier("code").Retrieve(req)
	if !ok || code == "" {
		return AuthResult{}, errors.NewC("oauth: callback is missing the authorization code", codes.InvalidArgument)
	}

	token, err := p.exchangeCode(ctx, code)
	if err != nil {
		return AuthResult{}, err
	}
	logging.Infow(ctx, "oauth: code exchange completed", "provider", p.settings.Name)

	profile, err := p.fetchProfile(ctx, token)
	if err != nil {
		return AuthResult{}, err
	}
	logging.Infow(ctx, "oauth: user authenticated",
		"provider", p.settings.Name, "subject", profile.LoginInfo.UserID)

	return AuthResult{
		Profile:  profile,
		Token:    token,
		Payload:  state.Payload,
		Response: res,
	}, nil
}

// exchangeCode trades the authorization code for token material at the
// provider's token endpoint.
func (p *Provider) exchangeCode(ctx context.Context, code string) (OAuth2Info, error) {
	form := url.Values{}
	form.Add("grant_type", "authorization_code")
	form.Add("code", code)
	form.Add("redirect_uri", p.settings.RedirectURL)
	form.Add("client_id", p.settings.ClientID)
	form.Add("client_secret", p.settings.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.settings.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return OAuth2Info{}, errors.Wrap(err, 0).WithCode(codes.Internal)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	status, body, err := p.call(req)
	if err != nil {
		return OAuth2Info{}, &ProviderError{Step: "token exchange", cause: err}
	}
	if status < 200 || status > 299 {
		return OAuth2Info{}, &ProviderError{Step: "token exchange", Status: status, Body: string(body)}
	}

	doc, err := jsonv.Parse(body)
	if err != nil {
		return OAuth2Info{}, &ProviderError{Step: "token exchange", Status: status, Body: string(body)}
	}
	members, ok := doc.AsObject()
	if !ok {
		return OAuth2Info{}, &ProviderError{Step: "token exchange", Status: status, Body: string(body)}
	}

	access, ok := lookupText(doc, "access_token")
	if !ok || access == "" {
		return OAuth2Info{}, &ProviderError{Step: "token exchange", Status: status, Body: string(body)}
	}

	info := OAuth2Info{AccessToken: access, Params: map[string]jsonv.Value{}}
	info.RefreshToken, _ = lookupText(doc, "refresh_token")
	info.TokenType, _ = lookupText(doc, "token_type")
	if v, ok := doc.Get("expires_in"); ok {
		if secs, ok := v.AsNumber(); ok {
			info.Expiry = p.now().Add(time.Duration(secs) * time.Second)
		}
	}
	for name, v := range members {
		switch name {
		case "access_token", "refresh_token", "token_type", "expires_in":
		default:
			info.Params[name] = v
		}
	}
	return info, nil
}

// fetchProfile retrieves and parses the user's profile document. Some
// providers report logical failures inside an HTTP 200 body, so the decoded
// document is checked for an embedded error member before it is trusted.
func (p *Provider) fetchProfile(ctx context.Context, token OAuth2Info) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.settings.ProfileURL, nil)
	if err != nil {
		return Profile{}, errors.Wrap(err, 0).WithCode(codes.Internal)
	}
	req.Header.Set("Authorization", transport.BearerScheme{}.Encode(token.AccessToken))
	req.Header.Set("Accept", "application/json")

	status, body, err := p.call(req)
	if err != nil {
		return Profile{}, &ProviderError{Step: "profile fetch", cause: err}
	}
	if status < 200 || status > 299 {
		return Profile{}, &ProviderError{Step: "profile fetch", Status: status, Body: string(body)}
	}

	doc, err := jsonv.Parse(body)
	if err != nil {
		return Profile{}, &ProviderError{Step: "profile fetch", Status: status, Body: string(body)}
	}
	if v, ok := doc.Get("error"); ok && v.Kind() != jsonv.Null {
		return Profile{}, &ProviderError{Step: "profile fetch", Status: status, Body: string(body)}
	}

	return p.parse(doc)
}

// call executes the request and drains the body. Transport errors, including
// the capability's own timeout, surface as errors; everything else is
// returned raw for the caller to judge.
func (p *Provider) call(req *http.Request) (int, []byte, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func appendQuery(endpoint string, q url.Values) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	existing := u.Query()
	for name, vals := range q {
		for _, v := range vals {
			existing.Set(name, v)
		}
	}
	u.RawQuery = existing.Encode()
	return u.String(), nil
}
