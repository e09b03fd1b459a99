package transport

import (
	"net/http"
	"time"

	"github.com/dpup/authkit"
)

func init() {
	authkit.RegisterConfigKeys(
		authkit.ConfigKeyInfo{
			Key:         "transport.cookie.path",
			Description: "Path attribute for credential cookies",
			Type:        "string",
			Default:     "/",
		},
		authkit.ConfigKeyInfo{
			Key:         "transport.cookie.secure",
			Description: "Whether credential cookies require HTTPS",
			Type:        "bool",
			Default:     true,
		},
		authkit.ConfigKeyInfo{
			Key:         "transport.cookie.httpOnly",
			Description: "Whether credential cookies are hidden from scripts",
			Type:        "bool",
			Default:     true,
		},
	)
}

// Carrier retrieves a serialized payload from a named slot on a request, and
// injects one into a request (for forwarding) or a response (for returning a
// credential to a client). Absence of the slot is not an error.
type Carrier interface {
	// Retrieve looks up the slot. ok is false when the slot is absent.
	Retrieve(req Request) (payload string, ok bool)

	// Smuggle returns a copy of the request with the slot set, for use when
	// an intermediary re-injects a credential into a request it forwards.
	Smuggle(payload string, req Request) Request

	// Embed returns a copy of the response with the slot set.
	Embed(payload string, res Response) Response
}

// HeaderCarrier stores the payload in a named header.
type HeaderCarrier struct {
	Name string
}

// NewHeaderCarrier returns a carrier over the named header.
func NewHeaderCarrier(name string) HeaderCarrier {
	return HeaderCarrier{Name: name}
}

func (c HeaderCarrier) Retrieve(req Request) (string, bool) {
	return req.Header(c.Name)
}

func (c HeaderCarrier) Smuggle(payload string, req Request) Request {
	return req.WithHeader(c.Name, payload)
}

func (c HeaderCarrier) Embed(payload string, res Response) Response {
	return res.WithHeader(c.Name, payload)
}

// CookieOptions controls the attributes of cookies written by a
// CookieCarrier.
type CookieOptions struct {
	Path     string
	Domain   string
	MaxAge   time.Duration
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
}

// DefaultCookieOptions returns cookie attributes from config
// (`transport.cookie.*`): path "/", secure, http-only, SameSite Lax.
func DefaultCookieOptions() CookieOptions {
	return CookieOptions{
		Path:     authkit.ConfigString("transport.cookie.path"),
		Secure:   authkit.ConfigBool("transport.cookie.secure"),
		HTTPOnly: authkit.ConfigBool("transport.cookie.httpOnly"),
		SameSite: http.SameSiteLaxMode,
	}
}

// CookieCarrier stores the payload in a named cookie.
type CookieCarrier struct {
	Name    string
	Options CookieOptions
}

// NewCookieCarrier returns a carrier over the named cookie using the default
// cookie attributes.
func NewCookieCarrier(name string) CookieCarrier {
	return CookieCarrier{Name: name, Options: DefaultCookieOptions()}
}

func (c CookieCarrier) Retrieve(req Request) (string, bool) {
	return req.Cookie(c.Name)
}

func (c CookieCarrier) Smuggle(payload string, req Request) Request {
	return req.WithCookie(c.Name, payload)
}

func (c CookieCarrier) Embed(payload string, res Response) Response {
	return res.WithCookie(c.cookie(payload))
}

// Discard returns a copy of the response with the cookie expired, instructing
// the client to drop it.
func (c CookieCarrier) Discard(res Response) Response {
	cookie := c.cookie("")
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	return res.WithCookie(cookie)
}

func (c CookieCarrier) cookie(value string) http.Cookie {
	cookie := http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     c.Options.Path,
		Domain:   c.Options.Domain,
		Secure:   c.Options.Secure,
		HttpOnly: c.Options.HTTPOnly,
		SameSite: c.Options.SameSite,
	}
	if c.Options.MaxAge > 0 {
		cookie.MaxAge = int(c.Options.MaxAge.Seconds())
	}
	return cookie
}

// QueryCarrier stores the payload in a named query parameter. On responses
// the parameter rides on the redirect Location when applied.
type QueryCarrier struct {
	Name string
}

// NewQueryCarrier returns a carrier over the named query parameter.
func NewQueryCarrier(name string) QueryCarrier {
	return QueryCarrier{Name: name}
}

func (c QueryCarrier) Retrieve(req Request) (string, bool) {
	return req.Query(c.Name)
}

func (c QueryCarrier) Smuggle(payload string, req Request) Request {
	return req.WithQuery(c.Name, payload)
}

func (c QueryCarrier) Embed(payload string, res Response) Response {
	return res.WithQuery(c.Name, payload)
}
