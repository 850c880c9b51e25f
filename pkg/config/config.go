// Package config resolves fsh settings from defaults, a .fsh config file, FSH_*
// environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Keys understood in the config file, environment and flags.
const (
	KeyJournal  = "journal"
	KeyTrash    = "trash"
	KeyLogFile  = "log_file"
	KeyLogLevel = "log_level"
	KeyColor    = "color"
)

// Config is the resolved configuration.
type Config struct {
	Journal  string `json:"journal"`
	Trash    string `json:"trash"`
	LogFile  string `json:"log_file,omitempty"`
	LogLevel string `json:"log_level"`
	Color    bool   `json:"color"`
}

// SetDefaults registers defaults and search paths on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyJournal, "~/.fsh/journal.json")
	v.SetDefault(KeyTrash, "~/.fsh/trash")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyColor, true)

	v.SetConfigName(".fsh") // .yaml is implicit
	v.SetEnvPrefix("FSH")
	v.AutomaticEnv()

	if override := os.Getenv("FSH_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
}

// Load reads the config file, if any, and returns the settings with paths
// expanded. A nil v uses the global viper instance.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	cfg := Config{
		LogLevel: v.GetString(KeyLogLevel),
		Color:    v.GetBool(KeyColor),
	}
	var err error
	if cfg.Journal, err = expand(v.GetString(KeyJournal)); err != nil {
		return Config{}, err
	}
	if cfg.Trash, err = expand(v.GetString(KeyTrash)); err != nil {
		return Config{}, err
	}
	if cfg.LogFile, err = expand(v.GetString(KeyLogFile)); err != nil {
		return Config{}, err
	}
	if cfg.Journal == "" || cfg.Trash == "" {
		return Config{}, errors.New("config: journal and trash paths are required")
	}
	return cfg, nil
}

func expand(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	out, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("config: expanding %q: %w", p, err)
	}
	return filepath.Clean(out), nil
}
