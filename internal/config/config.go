package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when no path is given.
const DefaultPath = "config.yaml"

// ErrNoCalendars is returned when the configuration lists no calendars.
var ErrNoCalendars = errors.New("no calendar ids configured")

// Config is the top-level application configuration.
type Config struct {
	// CalendarIDs are queried in order; their events are merged into one agenda.
	CalendarIDs []string `yaml:"calendarIds"`
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration data, normalizes it and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize trims calendar ids, drops blanks and removes duplicates while
// keeping the first occurrence.
func (c *Config) Normalize() {
	seen := make(map[string]bool, len(c.CalendarIDs))
	ids := make([]string, 0, len(c.CalendarIDs))
	for _, id := range c.CalendarIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	c.CalendarIDs = ids
}

// Validate checks that at least one calendar is configured.
func (c *Config) Validate() error {
	if len(c.CalendarIDs) == 0 {
		return ErrNoCalendars
	}
	return nil
}
