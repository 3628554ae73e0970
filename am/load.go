package am

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/teranos/elmgen/errors"
	"github.com/teranos/elmgen/logger"
)

var globalConfig *Config
var viperInstance *viper.Viper

// explicit config file set with --config; skips the directory search
var configFileOverride string

// SetConfigFile pins the project config to path instead of searching for
// elmgen.toml. Call before the first Load.
func SetConfigFile(path string) {
	configFileOverride = path
	Reset()
}

// Load reads the elmgen configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v, err := initViper()
	if err != nil {
		return nil, err
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance, initialising it on first use. The CLI
// binds its flags onto this instance.
func GetViper() (*viper.Viper, error) {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to unmarshal config"), errors.ErrInvalidConfig)
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, over defaults
// only: no user file, no environment.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to read config file %s", configPath), errors.ErrInvalidConfig)
	}

	return LoadWithViper(v)
}

// Reset clears the cached configuration (useful for testing and reloads)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults
func initViper() (*viper.Viper, error) {
	if viperInstance != nil {
		return viperInstance, nil
	}

	v := viper.New()
	BindEnvVars(v)
	SetDefaults(v)

	if err := mergeConfigFiles(v); err != nil {
		return nil, err
	}

	viperInstance = v
	return v, nil
}

// FindProjectConfig searches for elmgen.toml by walking up the directory
// tree from dir. Returns the empty string when none is found.
func FindProjectConfig(dir string) string {
	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// UserConfigPath returns ~/.elmgen/elmgen.toml, or "" without a home directory
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, ConfigFileName)
}

// ProjectConfigPath returns the project file Load reads: the --config
// override if set, else the nearest elmgen.toml above the working directory.
func ProjectConfigPath() string {
	if configFileOverride != "" {
		return configFileOverride
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return FindProjectConfig(wd)
}

// mergeConfigFiles merges configuration files in precedence order and
// records the source of every key it sets.
// Precedence (lowest to highest): user < project < env vars
func mergeConfigFiles(v *viper.Viper) error {
	log := logger.ComponentLogger("am")

	sources := []struct {
		path     string
		source   ConfigSource
		required bool
	}{
		{UserConfigPath(), SourceUser, false},
		{ProjectConfigPath(), SourceProject, configFileOverride != ""},
	}

	for _, src := range sources {
		if src.path == "" {
			continue
		}
		if _, err := os.Stat(src.path); err != nil {
			if src.required {
				return errors.Mark(errors.Wrapf(err, "config file %s", src.path), errors.ErrInvalidConfig)
			}
			continue
		}

		tempViper := viper.New()
		tempViper.SetConfigFile(src.path)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			return errors.WithHint(
				errors.Mark(errors.Wrapf(err, "failed to read config file %s", src.path), errors.ErrInvalidConfig),
				"fix the TOML syntax or remove the file",
			)
		}

		// config layer, so environment and flags still win
		if err := v.MergeConfigMap(tempViper.AllSettings()); err != nil {
			return errors.Mark(errors.Wrapf(err, "failed to merge config file %s", src.path), errors.ErrInvalidConfig)
		}
		for _, key := range tempViper.AllKeys() {
			ConfigSources[key] = SourceInfo{Source: src.source, Path: src.path}
		}
		log.Debugw("Merged config file", logger.FieldFile, src.path, "source", src.source)
	}
	return nil
}
