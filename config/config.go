// Package config works out where things are.
//
// Precedence, highest first: command-line flags (applied by the caller),
// OAREDIT_* environment variables, oaredit.ini, built-in defaults.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/ini.v1"
)

const DEFAULT_FILE = "oaredit.ini"

// The directory shipped next to the tool holding one template per category.
const DEFAULT_TEMPLATES = "Script Files"

type Config struct {
	// SaveDir is the account's live save directory.
	SaveDir string `env:"OAREDIT_DIR"`
	// TemplateDir holds Cash.sav, Level.sav and friends.
	TemplateDir string `env:"OAREDIT_TEMPLATES"`
	// Identifier is the default account identifier.
	Identifier string `env:"OAREDIT_ID"`
	LogLevel   string `env:"OAREDIT_LOG_LEVEL"`

	// Source is the ini file that was actually read, if any.
	Source string
}

func defaults() Config {
	wd, _ := os.Getwd()
	return Config{
		SaveDir:     wd,
		TemplateDir: DEFAULT_TEMPLATES,
		LogLevel:    "info",
	}
}

// Load reads path (a missing file is fine, a broken one is not) and then the environment.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			f, err := ini.Load(path)
			if err != nil {
				return cfg, fmt.Errorf("read %v: %w", path, err)
			}
			// Classic read of values, default section can be represented as empty string
			sec := f.Section("")
			set_from(sec, "dir", &cfg.SaveDir)
			set_from(sec, "templates", &cfg.TemplateDir)
			set_from(sec, "id", &cfg.Identifier)
			set_from(sec, "log_level", &cfg.LogLevel)
			cfg.Source = path
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func set_from(sec *ini.Section, key string, into *string) {
	if v := sec.Key(key).String(); v != "" {
		*into = v
	}
}
