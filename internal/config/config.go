// Package config loads runtime configuration from KAROLAKVIDO_* environment
// variables, with defaults suitable for polite scraping of karolakvido.cz.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all tunables of a collection run. Flag values set by the
// CLI layer override the corresponding fields after loading.
type Config struct {
	CalendarURL string `env:"KAROLAKVIDO_CALENDAR_URL" env-default:"https://karolakvido.cz/kalendar-koncertu/"`
	OutputFile  string `env:"KAROLAKVIDO_OUTPUT" env-default:"karolakvido.ics"`
	Timezone    string `env:"KAROLAKVIDO_TIMEZONE" env-default:"Europe/Prague"`

	HTTP HTTPConfig
}

// HTTPConfig tunes the fetch client: timeouts, the adaptive throttle and
// its bounds, and the identification headers sent with every request.
type HTTPConfig struct {
	ConnectTimeout  time.Duration `env:"KAROLAKVIDO_CONNECT_TIMEOUT" env-default:"10s"`
	ReadTimeout     time.Duration `env:"KAROLAKVIDO_READ_TIMEOUT" env-default:"30s"`
	RequestDelay    time.Duration `env:"KAROLAKVIDO_REQUEST_DELAY" env-default:"1s"`
	MaxRequestDelay time.Duration `env:"KAROLAKVIDO_MAX_REQUEST_DELAY" env-default:"90s"`
	BackoffFactor   float64       `env:"KAROLAKVIDO_BACKOFF_FACTOR" env-default:"2.0"`
	UserAgent       string        `env:"KAROLAKVIDO_USER_AGENT" env-default:"karolakvido-ics-export/1.0 (+https://github.com/honzajavorek/karolakvido)"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return &cfg, nil
}
