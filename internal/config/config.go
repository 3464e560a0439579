package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the global ~/.wexport/config.toml. All fields have
// working defaults; the file is optional.
type Config struct {
	DatasetRoot  string   `toml:"dataset_root"`
	Inbox        string   `toml:"inbox"`
	Highlight    string   `toml:"highlight"`     // none, subtle or prominent
	PollInterval duration `toml:"poll_interval"` // daemon inbox poll interval
}

// duration lets TOML carry values like "30s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".wexport")
	return &Config{
		DatasetRoot:  filepath.Join(base, "datasets"),
		Inbox:        filepath.Join(base, "inbox"),
		Highlight:    "subtle",
		PollInterval: duration{30 * time.Second},
	}
}

// Load reads config from path, applying defaults for anything unset. A
// missing file yields the defaults without error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes config to path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Poll returns the daemon poll interval.
func (c *Config) Poll() time.Duration {
	if c.PollInterval.Duration <= 0 {
		return 30 * time.Second
	}
	return c.PollInterval.Duration
}
