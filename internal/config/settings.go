package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings are the machine-level defaults read from config.yaml in the
// config directory and from JPEG2EPUB_* environment variables.
type Settings struct {
	Magick    string `mapstructure:"magick" yaml:"magick"`
	Zip       string `mapstructure:"zip" yaml:"zip"`
	Unzip     string `mapstructure:"unzip" yaml:"unzip"`
	Jobs      int    `mapstructure:"jobs" yaml:"jobs"`
	Language  string `mapstructure:"language" yaml:"language"`
	Threshold int    `mapstructure:"threshold" yaml:"threshold"`
	Quality   int    `mapstructure:"quality" yaml:"quality"`
	LogFile   string `mapstructure:"log_file" yaml:"log_file,omitempty"`
}

// DefaultSettings returns the settings used when nothing overrides them.
func DefaultSettings() Settings {
	return Settings{
		Magick:    "magick",
		Zip:       "zip",
		Unzip:     "unzip",
		Jobs:      0,
		Language:  "pl",
		Threshold: 30,
		Quality:   0,
	}
}

// Dir returns the jpeg2epub config directory (~/.config/jpeg2epub unless
// XDG_CONFIG_HOME says otherwise).
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// settingsName is the base name viper searches for in the config directory,
// with or without an extension.
const settingsName = "config"

// LoadSettings reads config.yaml from dir, if present, and applies
// environment overrides on top of DefaultSettings.
func LoadSettings(dir string) (Settings, error) {
	def := DefaultSettings()

	v := viper.New()
	v.SetConfigName(settingsName)
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix("JPEG2EPUB")
	v.AutomaticEnv()

	v.SetDefault("magick", def.Magick)
	v.SetDefault("zip", def.Zip)
	v.SetDefault("unzip", def.Unzip)
	v.SetDefault("jobs", def.Jobs)
	v.SetDefault("language", def.Language)
	v.SetDefault("threshold", def.Threshold)
	v.SetDefault("quality", def.Quality)
	v.SetDefault("log_file", def.LogFile)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, s.Validate()
}

// Validate rejects values no command can work with.
func (s Settings) Validate() error {
	switch {
	case s.Magick == "" || s.Zip == "" || s.Unzip == "":
		return errors.New("settings: tool paths must not be empty")
	case s.Jobs < 0:
		return fmt.Errorf("settings: jobs must be >= 0, got %d", s.Jobs)
	case s.Threshold < 0 || s.Threshold > 100:
		return fmt.Errorf("settings: threshold must be within 0..100, got %d", s.Threshold)
	case s.Quality < 0 || s.Quality > 100:
		return fmt.Errorf("settings: quality must be within 0..100, got %d", s.Quality)
	}
	return nil
}
