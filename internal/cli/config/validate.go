package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/leapstack-labs/waitlist/internal/locale"
	"github.com/leapstack-labs/waitlist/internal/waitlist/client"
)

// Validate checks if the configuration is valid. All problems are reported
// together.
func (c *Config) Validate() error {
	var errs []error

	if err := client.ValidateEndpoint(c.Endpoint); err != nil {
		errs = append(errs, fmt.Errorf("endpoint: %w", err))
	}
	if c.CheckDelay < 0 {
		errs = append(errs, fmt.Errorf("check_delay must not be negative, got %s", c.CheckDelay))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("request_timeout must not be negative, got %s", c.RequestTimeout))
	}
	if c.UI.SessionIdle < 0 {
		errs = append(errs, fmt.Errorf("ui.session_idle must not be negative, got %s", c.UI.SessionIdle))
	}
	if _, err := locale.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale: %w", err))
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output must be one of %v, got %q", OutputFormats, c.OutputFormat))
	}
	if err := validatePort("ui.port", c.UI.Port); err != nil {
		errs = append(errs, err)
	}
	if err := validatePort("stub.port", c.Stub.Port); err != nil {
		errs = append(errs, err)
	}
	if c.Identity.Handle == "" {
		errs = append(errs, errors.New("identity.handle is required"))
	}

	return errors.Join(errs...)
}

func validatePort(key string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be in 1..65535, got %d", key, port)
	}
	return nil
}
