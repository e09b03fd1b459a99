// Package transport moves a serialized credential in and out of HTTP-like
// messages. It separates where the bytes live (a named header, cookie, or
// query parameter — the Carrier) from how the bytes are framed (an optional
// authentication Scheme such as Basic or Bearer), so the framing logic is
// shared across carriers.
//
// Request and Response are small immutable value types rather than
// net/http structs: carriers return modified copies, which keeps middleware
// pipelines free of shared mutable state. Interop helpers convert from an
// *http.Request and apply a Response onto an http.ResponseWriter.
package transport

import (
	"net/http"
	"net/url"
)

// Request is an immutable view of an incoming or outbound HTTP-like request:
// headers, cookies, and query parameters. The zero value is an empty
// request. Mutators return copies.
type Request struct {
	headers map[string]string
	cookies map[string]string
	query   map[string]string
}

// NewRequest returns an empty request.
func NewRequest() Request {
	return Request{}
}

// FromHTTPRequest captures the headers, cookies, and query parameters of an
// *http.Request. Multi-valued headers and parameters keep their first value.
func FromHTTPRequest(r *http.Request) Request {
	req := Request{}
	for name := range r.Header {
		req = req.WithHeader(name, r.Header.Get(name))
	}
	for _, c := range r.Cookies() {
		req = req.WithCookie(c.Name, c.Value)
	}
	for name, vals := range r.URL.Query() {
		if len(vals) > 0 {
			req = req.WithQuery(name, vals[0])
		}
	}
	return req
}

// Header returns the named header value. Lookup is canonicalized the same
// way net/http does.
func (r Request) Header(name string) (string, bool) {
	v, ok := r.headers[http.CanonicalHeaderKey(name)]
	return v, ok
}

// Cookie returns the named cookie value.
func (r Request) Cookie(name string) (string, bool) {
	v, ok := r.cookies[name]
	return v, ok
}

// Query returns the named query parameter value.
func (r Request) Query(name string) (string, bool) {
	v, ok := r.query[name]
	return v, ok
}

// WithHeader returns a copy with the header set.
func (r Request) WithHeader(name, value string) Request {
	r.headers = setKey(r.headers, http.CanonicalHeaderKey(name), value)
	return r
}

// WithCookie returns a copy with the cookie set.
func (r Request) WithCookie(name, value string) Request {
	r.cookies = setKey(r.cookies, name, value)
	return r
}

// WithQuery returns a copy with the query parameter set.
func (r Request) WithQuery(name, value string) Request {
	r.query = setKey(r.query, name, value)
	return r
}

// Response is an immutable HTTP-like response under construction: headers,
// cookies to set, and query parameters destined for a redirect target. The
// zero value is an empty response. Mutators return copies.
type Response struct {
	headers map[string]string
	cookies map[string]http.Cookie
	query   map[string]string
}

// NewResponse returns an empty response.
func NewResponse() Response {
	return Response{}
}

// Header returns the named header value.
func (r Response) Header(name string) (string, bool) {
	v, ok := r.headers[http.CanonicalHeaderKey(name)]
	return v, ok
}

// Cookie returns the named outgoing cookie.
func (r Response) Cookie(name string) (http.Cookie, bool) {
	c, ok := r.cookies[name]
	return c, ok
}

// Query returns the named query parameter.
func (r Response) Query(name string) (string, bool) {
	v, ok := r.query[name]
	return v, ok
}

// WithHeader returns a copy with the header set.
func (r Response) WithHeader(name, value string) Response {
	r.headers = setKey(r.headers, http.CanonicalHeaderKey(name), value)
	return r
}

// WithCookie returns a copy with the outgoing cookie set.
func (r Response) WithCookie(c http.Cookie) Response {
	cookies := make(map[string]http.Cookie, len(r.cookies)+1)
	for k, v := range r.cookies {
		cookies[k] = v
	}
	cookies[c.Name] = c
	r.cookies = cookies
	return r
}

// WithQuery returns a copy with the query parameter set. Query parameters on
// a response are folded into the Location header, if any, when the response
// is applied.
func (r Response) WithQuery(name, value string) Response {
	r.query = setKey(r.query, name, value)
	return r
}

// Apply writes the response's headers and cookies onto an
// http.ResponseWriter. Query parameters are merged into the Location header
// when one is present. Apply does not write a status code or body; that
// remains the caller's business.
func (r Response) Apply(w http.ResponseWriter) {
	for name, value := range r.headers {
		if name == "Location" && len(r.query) > 0 {
			value = mergeQuery(value, r.query)
		}
		w.Header().Set(name, value)
	}
	for _, c := range r.cookies {
		cookie := c
		http.SetCookie(w, &cookie)
	}
}

func mergeQuery(location string, params map[string]string) string {
	u, err := url.Parse(location)
	if err != nil {
		return location
	}
	q := u.Query()
	for name, value := range params {
		q.Set(name, value)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func setKey(m map[string]string, key, value string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[key] = value
	return out
}
