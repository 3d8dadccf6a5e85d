// Package config handles loading, saving, and validation of the client
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sitekit/sitekit/pkg/auth/storage"
)

const appName = "sitekit"

// URLs are the base addresses requests resolve against.
type URLs struct {
	// InternalAPI is the same-origin API layer, reachable only from the
	// server-side context.
	InternalAPI string `yaml:"internal_api" mapstructure:"internal_api"`
	// InternalBackend is the backend address used from the server-side
	// context (private network).
	InternalBackend string `yaml:"internal_backend" mapstructure:"internal_backend"`
	// PublicBackend is the backend address used from the browser context.
	PublicBackend string `yaml:"public_backend" mapstructure:"public_backend"`
}

// RouterConfig tunes request classification and transport.
type RouterConfig struct {
	PassthroughPrefix string        `yaml:"passthrough_prefix" mapstructure:"passthrough_prefix"`
	AuthPrefixes      []string      `yaml:"auth_prefixes" mapstructure:"auth_prefixes"`
	HTTPTimeout       time.Duration `yaml:"http_timeout" mapstructure:"http_timeout"`
}

// TokenConfig tunes the token cache.
type TokenConfig struct {
	// SoonWindow is how far before expiry a token is refreshed proactively.
	SoonWindow time.Duration `yaml:"soon_window" mapstructure:"soon_window"`
}

// OAuthConfig holds the browser OAuth flow settings.
type OAuthConfig struct {
	ClientID     string   `yaml:"client_id" mapstructure:"client_id"`
	AuthURL      string   `yaml:"auth_url" mapstructure:"auth_url"`
	TokenURL     string   `yaml:"token_url" mapstructure:"token_url"`
	Scopes       []string `yaml:"scopes" mapstructure:"scopes"`
	RedirectPort int      `yaml:"redirect_port" mapstructure:"redirect_port"`
}

// Config is the full client configuration.
type Config struct {
	URLs    URLs           `yaml:"urls" mapstructure:"urls"`
	Router  RouterConfig   `yaml:"router" mapstructure:"router"`
	Token   TokenConfig    `yaml:"token" mapstructure:"token"`
	OAuth   OAuthConfig    `yaml:"oauth" mapstructure:"oauth"`
	Storage storage.Config `yaml:"storage" mapstructure:"storage"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Router: RouterConfig{
			PassthroughPrefix: "/api/",
			AuthPrefixes:      []string{"/api/auth/", "/api/session"},
			HTTPTimeout:       30 * time.Second,
		},
		Token: TokenConfig{
			SoonWindow: 5 * time.Minute,
		},
		OAuth: OAuthConfig{
			RedirectPort: 9998,
		},
		Storage: storage.Config{
			Type: storage.TypeFile,
		},
	}
}

// Path returns the config file location: SITEKIT_CONFIG when set, the
// XDG config directory otherwise.
func Path() string {
	if custom := os.Getenv("SITEKIT_CONFIG"); custom != "" {
		return custom
	}
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// StateDir returns the XDG-compliant state directory.
func StateDir() string {
	return filepath.Join(xdg.StateHome, appName)
}

// Load reads the configuration from path, layering environment variables
// (SITEKIT_* with underscores for dots) over file values over defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("urls.internal_api", defaults.URLs.InternalAPI)
	v.SetDefault("urls.internal_backend", defaults.URLs.InternalBackend)
	v.SetDefault("urls.public_backend", defaults.URLs.PublicBackend)
	v.SetDefault("router.passthrough_prefix", defaults.Router.PassthroughPrefix)
	v.SetDefault("router.auth_prefixes", defaults.Router.AuthPrefixes)
	v.SetDefault("router.http_timeout", defaults.Router.HTTPTimeout)
	v.SetDefault("token.soon_window", defaults.Token.SoonWindow)
	v.SetDefault("oauth.redirect_port", defaults.OAuth.RedirectPort)
	v.SetDefault("storage.type", string(defaults.Storage.Type))

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to path as YAML, creating the directory
// if needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks invariants the rest of the client relies on.
func (c *Config) Validate() error {
	if c.Router.PassthroughPrefix == "" {
		return fmt.Errorf("router.passthrough_prefix must not be empty")
	}
	if !strings.HasPrefix(c.Router.PassthroughPrefix, "/") {
		return fmt.Errorf("router.passthrough_prefix must start with /: %q", c.Router.PassthroughPrefix)
	}
	for _, p := range c.Router.AuthPrefixes {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("router.auth_prefixes entries must start with /: %q", p)
		}
	}
	if c.Token.SoonWindow < 0 {
		return fmt.Errorf("token.soon_window must not be negative")
	}
	if c.Router.HTTPTimeout < 0 {
		return fmt.Errorf("router.http_timeout must not be negative")
	}
	if c.OAuth.RedirectPort < 0 || c.OAuth.RedirectPort > 65535 {
		return fmt.Errorf("oauth.redirect_port out of range: %d", c.OAuth.RedirectPort)
	}
	return nil
}
