package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformEnv(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AUTHKIT__AUTH__COOKIE_NAME", "auth.cookieName"},
		{"AUTHKIT__AUTH__EXPIRATION", "auth.expiration"},
		{"AUTHKIT__OAUTH__STATE_TTL", "oauth.stateTtl"},
		{"AUTHKIT__FOO_BAR__BAZ_QUX", "fooBar.bazQux"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TransformEnv(tt.in))
	}
}

func TestRegistryDefaults(t *testing.T) {
	RegisterConfigKeys(
		ConfigKeyInfo{Key: "test.withDefault", Type: "string", Default: "x"},
		ConfigKeyInfo{Key: "test.noDefault", Type: "string"},
	)

	defaults := DefaultConfigs()
	assert.Equal(t, "x", defaults["test.withDefault"])
	_, ok := defaults["test.noDefault"]
	assert.False(t, ok)

	info, ok := LookupConfigKey("test.withDefault")
	assert.True(t, ok)
	assert.Equal(t, "string", info.Type)
}
