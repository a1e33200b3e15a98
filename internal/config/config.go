package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`      // debug|info|warn|error
	ReminderWindow time.Duration `envconfig:"REMINDER_WINDOW" default:"24h"` // how far ahead reminders look
	PollInterval   time.Duration `envconfig:"POLL_INTERVAL" default:"1m"`    // how often due reminders are checked
	RequireTime    bool          `envconfig:"REQUIRE_TIME" default:"false"`  // bookings must include a time of day
	TZName         string        `envconfig:"TZ_NAME" default:"Local"`       // IANA zone used to interpret typed dates
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Location resolves TZName, falling back to the system zone on any error.
func (c Config) Location() *time.Location {
	if c.TZName == "" || c.TZName == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.TZName)
	if err != nil {
		return time.Local
	}
	return loc
}
