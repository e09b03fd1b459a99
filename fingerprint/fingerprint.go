// Package fingerprint derives an opaque client fingerprint from stable
// request attributes. The fingerprint is stored on an Authenticator at login
// and checked by validate.Fingerprint on later requests, binding the
// credential to the client it was issued to.
package fingerprint

import (
	"encoding/hex"

	"github.com/dpup/authkit/transport"
	"golang.org/x/crypto/blake2b"
)

// Headers hashed by default. User-Agent and the accept headers are stable
// for a given browser install but differ across clients.
var defaultHeaders = []string{"User-Agent", "Accept-Language", "Accept"}

// Generator hashes a fixed set of request headers into a fingerprint
// string.
type Generator struct {
	headers []string
}

// New returns a generator over the given header names, or the default set
// when none are given.
func New(headers ...string) *Generator {
	if len(headers) == 0 {
		headers = defaultHeaders
	}
	return &Generator{headers: append([]string(nil), headers...)}
}

// Generate returns the hex encoded fingerprint for the request. Missing
// headers hash as empty strings, so the result is always well defined.
func (g *Generator) Generate(req transport.Request) string {
	h, _ := blake2b.New256(nil)
	for _, name := range g.headers {
		v, _ := req.Header(name)
		h.Write([]byte(v))
		h.Write([]byte{0}) // keep adjacent values from colliding
	}
	return hex.EncodeToString(h.Sum(nil))
}
