// Package config loads netzplan settings from a TOML file.
//
// A file looks like:
//
//	[report]
//	locale = "de"
//	color = true
//
//	[log]
//	level = "debug"
//
//	[viz]
//	rankdir = "TB"
//	detailed = false
//
// Every key is optional; missing keys keep their defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/reporter"
	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/viz"
)

// DefaultPath is read when no --config flag is given. It may be absent.
const DefaultPath = "netzplan.toml"

// Config is the full set of settings.
type Config struct {
	Report Report `toml:"report"`
	Log    Log    `toml:"log"`
	Viz    Viz    `toml:"viz"`
}

// Report controls the text report and terminal summary.
type Report struct {
	Locale string `toml:"locale"`
	Color  bool   `toml:"color"`
}

// Log controls the CLI logger.
type Log struct {
	Level string `toml:"level"`
}

// Viz controls DOT generation.
type Viz struct {
	RankDir  string `toml:"rankdir"`
	Detailed bool   `toml:"detailed"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Report: Report{Locale: reporter.LocaleEN, Color: true},
		Log:    Log{Level: "info"},
		Viz:    Viz{RankDir: "LR", Detailed: true},
	}
}

// Load reads the file at path over the defaults. A missing file is only an
// error when path is not DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultPath {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the CLI cannot act on.
func (c Config) Validate() error {
	if !reporter.IsLocale(c.Report.Locale) {
		return fmt.Errorf("report.locale: unsupported locale %q (want %q or %q)",
			c.Report.Locale, reporter.LocaleEN, reporter.LocaleDE)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if !slices.Contains(viz.RankDirs, c.Viz.RankDir) {
		return fmt.Errorf("viz.rankdir: unsupported direction %q (want one of %s)",
			c.Viz.RankDir, strings.Join(viz.RankDirs, ", "))
	}
	return nil
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() (log.Level, error) {
	return log.ParseLevel(c.Log.Level)
}
