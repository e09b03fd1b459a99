package oauth

import (
	"testing"

	"github.com/dpup/authkit/jsonv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, raw string) jsonv.Value {
	doc, err := jsonv.Parse([]byte(raw))
	require.NoError(t, err)
	return doc
}

func TestProfileParserFullDocument(t *testing.T) {
	parse := NewProfileParser("acme", ProfilePaths{
		ID:     "id",
		Name:   "name",
		Email:  "email",
		Avatar: "picture",
	})
	p, err := parse(parseDoc(t, `{
		"id": "user-1",
		"name": "Ada",
		"email": "ada@example.com",
		"picture": "https://img.test/a.png"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "acme", p.LoginInfo.Provider)
	assert.Equal(t, "user-1", p.LoginInfo.UserID)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.Equal(t, "https://img.test/a.png", p.AvatarURL)
}

func TestProfileParserNumericID(t *testing.T) {
	// GitHub-style numeric IDs keep their JSON rendering.
	parse := NewProfileParser("hub", ProfilePaths{ID: "id"})
	p, err := parse(parseDoc(t, `{"id": 48291}`))
	require.NoError(t, err)
	assert.Equal(t, "48291", p.LoginInfo.UserID)
}

func TestProfileParserNestedPaths(t *testing.T) {
	parse := NewProfileParser("acme", ProfilePaths{
		ID:    "user.sub",
		Email: "user.contact.email",
	})
	p, err := parse(parseDoc(t, `{
		"user": {"sub": "u-7", "contact": {"email": "u7@example.com"}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "u-7", p.LoginInfo.UserID)
	assert.Equal(t, "u7@example.com", p.Email)
}

func TestProfileParserMissingID(t *testing.T) {
	parse := NewProfileParser("acme", ProfilePaths{ID: "sub"})
	_, err := parse(parseDoc(t, `{"name": "Ada"}`))
	var fe *ProfileFieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "sub", fe.Path)
}

func TestProfileParserOptionalFieldsAbsent(t *testing.T) {
	parse := NewProfileParser("acme", ProfilePaths{
		ID:     "id",
		Name:   "name",
		Email:  "email",
		Avatar: "picture",
	})
	p, err := parse(parseDoc(t, `{"id": "user-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.LoginInfo.UserID)
	assert.Empty(t, p.Name)
	assert.Empty(t, p.Email)
	assert.Empty(t, p.AvatarURL)
}

func TestProfileParserNonTextID(t *testing.T) {
	// An object or array at the ID path is as good as missing.
	parse := NewProfileParser("acme", ProfilePaths{ID: "id"})
	_, err := parse(parseDoc(t, `{"id": {"oops": true}}`))
	var fe *ProfileFieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "id", fe.Path)
}
