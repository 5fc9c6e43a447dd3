// Package config resolves application settings from flags, environment and an optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/h0rv/imgboard/internal/domain"
	"github.com/spf13/viper"
)

// Setting keys
const (
	KeySeedFile       = "seed_file"
	KeyPreviewGroupID = "preview_group_id"
	KeyLogLevel       = "log_level"
	KeyLogFile        = "log_file"
	KeySink           = "sink"
	KeySinkFile       = "sink_file"
	KeyWatch          = "watch"
	KeyHelpStyle      = "help_style"
)

// Sink kinds
const (
	SinkLog  = "log"
	SinkJSON = "json"
)

// Help overlay markdown styles
const (
	HelpStyleDark  = "dark"
	HelpStyleLight = "light"
	HelpStyleNoTTY = "notty"
)

// EnvPrefix is prepended to every environment override (e.g. IMGBOARD_LOG_LEVEL).
const EnvPrefix = "IMGBOARD"

// Config is the resolved application configuration.
type Config struct {
	SeedFile       string // Seed file path, empty for the embedded catalogue
	PreviewGroupID int    // Reserved identifier of the preview group
	LogLevel       string // debug, info, warn, error
	LogFile        string // Log destination; empty means stderr for batch commands and nothing for the TUI
	Sink           string // Where "save" sends the preview: SinkLog or SinkJSON
	SinkFile       string // Output file for SinkJSON, empty for stdout
	Watch          bool   // Reload the board when SeedFile changes
	HelpStyle      string // glamour style of the help overlay
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySeedFile, "")
	v.SetDefault(KeyPreviewGroupID, domain.DefaultPreviewGroupID)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeySink, SinkLog)
	v.SetDefault(KeySinkFile, "")
	v.SetDefault(KeyWatch, false)
	v.SetDefault(KeyHelpStyle, HelpStyleDark)
}

// ReadIn points v at the config file and environment.
// An explicit file must exist; otherwise imgboard.yaml is looked up in the
// working directory and ~/.config/imgboard, and its absence is not an error.
func ReadIn(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("imgboard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "imgboard"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load builds a validated Config from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		SeedFile:       v.GetString(KeySeedFile),
		PreviewGroupID: v.GetInt(KeyPreviewGroupID),
		LogLevel:       strings.ToLower(v.GetString(KeyLogLevel)),
		LogFile:        v.GetString(KeyLogFile),
		Sink:           strings.ToLower(v.GetString(KeySink)),
		SinkFile:       v.GetString(KeySinkFile),
		Watch:          v.GetBool(KeyWatch),
		HelpStyle:      strings.ToLower(v.GetString(KeyHelpStyle)),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting holds a usable value.
func (c *Config) Validate() error {
	if c.PreviewGroupID < 0 {
		return fmt.Errorf("invalid %s: %d", KeyPreviewGroupID, c.PreviewGroupID)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid %s: %q", KeyLogLevel, c.LogLevel)
	}
	switch c.Sink {
	case SinkLog, SinkJSON:
	default:
		return fmt.Errorf("invalid %s: %q (want %s or %s)", KeySink, c.Sink, SinkLog, SinkJSON)
	}
	switch c.HelpStyle {
	case HelpStyleDark, HelpStyleLight, HelpStyleNoTTY:
	default:
		return fmt.Errorf("invalid %s: %q", KeyHelpStyle, c.HelpStyle)
	}
	if c.Watch && c.SeedFile == "" {
		return fmt.Errorf("%s needs %s: the built-in catalogue never changes", KeyWatch, KeySeedFile)
	}
	return nil
}
