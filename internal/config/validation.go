package config

import (
	"time"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
)

// Validate checks the configuration after defaults and CLI overrides were applied.
func (c *Config) Validate() error {
	if ParseMode(string(c.Mode)) == "" {
		return errors.ConfigError("invalid output mode").
			WithContext("out", string(c.Mode)).
			WithContext("valid", "file|repo").
			Build()
	}
	if c.Mode == ModeRepo && c.Token == "" {
		return errors.ConfigError("a token is required when out=repo").
			WithContext("out", string(c.Mode)).
			Build()
	}
	if c.Account == "" || c.Project == "" || c.Branch == "" {
		return errors.ConfigError("account, project and branch must not be empty").Build()
	}
	for field, raw := range map[string]string{
		"push_timeout":    c.PushTimeout,
		"daemon.interval": c.Daemon.Interval,
		"daemon.debounce": c.Daemon.Debounce,
	} {
		if raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return errors.ValidationError("invalid duration").
				WithCause(err).
				WithContext("field", field).
				WithContext("value", raw).
				Build()
		}
	}
	return nil
}
