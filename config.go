package authkit

import (
	"time"

	"github.com/dpup/authkit/internal/config"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Filename of the standard configuration file.
const ConfigFile = "authkit.yaml"

// ConfigKeyInfo contains metadata about a known configuration key.
// This is re-exported from internal/config for public API use.
type ConfigKeyInfo = config.ConfigKeyInfo

// Config is a global koanf instance used to access library level
// configuration options.
//
// Config is loaded in the following order (later sources override earlier):
// 1. Registered defaults (loaded lazily, first read wins)
// 2. Auto-discovered authkit.yaml (in init())
// 3. Environment variables with AUTHKIT__ prefix (in init())
// 4. Additional sources loaded via LoadConfigDefaults()
//
// Environment variable transformation:
//   - AUTHKIT__AUTH__EXPIRATION → auth.expiration
//   - AUTHKIT__OAUTH__STATE_TTL → oauth.stateTtl (underscores become camelCase)
var Config = koanf.New(".")

func init() {
	RegisterConfigKeys(
		ConfigKeyInfo{
			Key:         "auth.issuer",
			Description: "Issuer claim stamped onto written authenticator tokens",
			Type:        "string",
			Default:     "authkit",
		},
		ConfigKeyInfo{
			Key:         "auth.expiration",
			Description: "Default validity window for new authenticators",
			Type:        "duration",
			Default:     "24h",
		},
	)

	// Look for an authkit.yaml file in the current directory or any parent.
	if cfg := config.SearchForConfig(ConfigFile, "."); cfg != "" {
		if err := Config.Load(file.Provider(cfg), yaml.Parser()); err != nil {
			panic("authkit: error loading config: " + err.Error())
		}
	}

	// Load environment variables with the prefix AUTHKIT__.
	if err := Config.Load(env.Provider("AUTHKIT__", ".", config.TransformEnv), nil); err != nil {
		panic("authkit: error loading config from env: " + err.Error())
	}
}

// RegisterConfigKeys registers known configuration keys with metadata.
// Subpackages call this from their init() to document their keys and
// defaults; the defaults are merged on first read.
func RegisterConfigKeys(infos ...ConfigKeyInfo) {
	config.RegisterConfigKeys(infos...)
}

// LoadConfigDefaults merges the given values into the config, overriding
// anything already set. Useful for tests and embedded setups.
func LoadConfigDefaults(defaults map[string]interface{}) error {
	return Config.Load(confmap.Provider(defaults, "."), nil)
}

// ConfigString returns a string config value, ensuring registered defaults
// have been applied. Defaults are applied lazily so that keys registered by
// subpackage init() functions are visible.
func ConfigString(key string) string {
	config.EnsureDefaultsLoaded(Config)
	return Config.String(key)
}

// ConfigBool returns a bool config value, ensuring registered defaults have
// been applied.
func ConfigBool(key string) bool {
	config.EnsureDefaultsLoaded(Config)
	return Config.Bool(key)
}

// ConfigDuration returns a duration config value, ensuring registered
// defaults have been applied.
func ConfigDuration(key string) time.Duration {
	config.EnsureDefaultsLoaded(Config)
	return Config.Duration(key)
}
