// Package config provides configuration management for the waitlist CLI.
package config

import (
	"time"

	"golang.org/x/text/language"

	"github.com/leapstack-labs/waitlist/internal/locale"
	"github.com/leapstack-labs/waitlist/internal/waitlist"
)

// Config holds all CLI configuration options.
type Config struct {
	Endpoint       string         `koanf:"endpoint"`
	CheckDelay     time.Duration  `koanf:"check_delay"`
	RequestTimeout time.Duration  `koanf:"request_timeout"`
	Locale         string         `koanf:"locale"`
	Verbose        bool           `koanf:"verbose"`
	OutputFormat   string         `koanf:"output"`
	Identity       IdentityConfig `koanf:"identity"`
	UI             UIConfig       `koanf:"ui"`
	Stub           StubConfig     `koanf:"stub"`
}

// IdentityConfig is the handle and name put into submitted records.
type IdentityConfig struct {
	Handle      string `koanf:"handle"`
	DisplayName string `koanf:"display_name"`
}

// UIConfig holds configuration for the web UI server.
type UIConfig struct {
	Port          int           `koanf:"port"`
	AutoOpen      bool          `koanf:"auto_open"`
	Watch         bool          `koanf:"watch"`
	SessionSecret string        `koanf:"session_secret"`
	SessionIdle   time.Duration `koanf:"session_idle"`
}

// StubConfig holds configuration for the stub service.
type StubConfig struct {
	Port int `koanf:"port"`
}

// Default configuration values.
const (
	DefaultEndpoint       = "https://functions.poehali.dev/53cef3f5-fcbc-46aa-99fd-e4e7ab31587b"
	DefaultCheckDelay     = "1500ms"
	DefaultRequestTimeout = "0s"
	DefaultLocale         = "ru"
	DefaultOutput         = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultUIPort         = 8765
	DefaultSessionIdle    = "30m"
	DefaultStubPort       = 8766

	// DevSessionSecret signs cookies when no secret is configured.
	DevSessionSecret = "waitlist-dev-session-secret"
)

// Output formats.
const (
	OutputAuto     = "auto"
	OutputText     = "text"
	OutputMarkdown = "markdown"
	OutputJSON     = "json"
)

// OutputFormats lists the accepted output values.
var OutputFormats = []string{OutputAuto, OutputText, OutputMarkdown, OutputJSON}

// DefaultValues returns the defaults as a flat koanf map. Durations are kept
// as strings so the map round-trips through YAML unchanged.
func DefaultValues() map[string]any {
	return map[string]any{
		"endpoint":              DefaultEndpoint,
		"check_delay":           DefaultCheckDelay,
		"request_timeout":       DefaultRequestTimeout,
		"locale":                DefaultLocale,
		"verbose":               false,
		"output":                DefaultOutput,
		"identity.handle":       waitlist.DefaultIdentity.Handle,
		"identity.display_name": waitlist.DefaultIdentity.DisplayName,
		"ui.port":               DefaultUIPort,
		"ui.auto_open":          true,
		"ui.watch":              false,
		"ui.session_secret":     DevSessionSecret,
		"ui.session_idle":       DefaultSessionIdle,
		"stub.port":             DefaultStubPort,
	}
}

// LocaleTag returns the configured language matched against the catalog.
// It falls back to the default locale when the value does not parse.
func (c *Config) LocaleTag() language.Tag {
	tag, err := locale.Parse(c.Locale)
	if err != nil {
		return locale.Default
	}
	return tag
}

// WaitlistIdentity returns the identity put into submitted records.
func (c *Config) WaitlistIdentity() waitlist.Identity {
	return waitlist.Identity{Handle: c.Identity.Handle, DisplayName: c.Identity.DisplayName}
}
