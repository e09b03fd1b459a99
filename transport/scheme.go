package transport

import (
	"encoding/base64"
	"strings"
)

// Scheme frames a credential payload inside a header value, e.g. with a
// "Bearer " or "Basic " prefix. Encode is total; Decode reports ok=false
// when the value does not carry the scheme, so a framing mismatch degrades
// to "credential absent" rather than an error.
type Scheme interface {
	Encode(payload string) string
	Decode(value string) (payload string, ok bool)
}

// BearerScheme frames the payload as `Bearer <payload>`.
type BearerScheme struct{}

func (BearerScheme) Encode(payload string) string {
	return "Bearer " + payload
}

func (BearerScheme) Decode(value string) (string, bool) {
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// BasicScheme frames the payload as HTTP basic auth with the payload as the
// username and an empty password. This is the convention preferred for curl
// based CLI clients.
type BasicScheme struct{}

func (BasicScheme) Encode(payload string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(payload+":"))
}

func (BasicScheme) Decode(value string) (string, bool) {
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "basic") {
		return "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", false
	}
	pair := strings.SplitN(string(decoded), ":", 2)
	if len(pair) != 2 || pair[0] == "" || pair[1] != "" {
		return "", false
	}
	return pair[0], true
}

// WithScheme composes a carrier with a framing scheme: writes encode the
// framing before delegating to the carrier, reads decode it after.
func WithScheme(c Carrier, s Scheme) Carrier {
	return schemeCarrier{carrier: c, scheme: s}
}

type schemeCarrier struct {
	carrier Carrier
	scheme  Scheme
}

func (c schemeCarrier) Retrieve(req Request) (string, bool) {
	v, ok := c.carrier.Retrieve(req)
	if !ok {
		return "", false
	}
	return c.scheme.Decode(v)
}

func (c schemeCarrier) Smuggle(payload string, req Request) Request {
	return c.carrier.Smuggle(c.scheme.Encode(payload), req)
}

func (c schemeCarrier) Embed(payload string, res Response) Response {
	return c.carrier.Embed(c.scheme.Encode(payload), res)
}
