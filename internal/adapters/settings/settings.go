// Package settings reads user-level preferences with viper.
package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.trai.ch/manifold/internal/core/domain"
	"go.trai.ch/zerr"
)

// EnvPrefix is the prefix of environment variables that override settings.
const EnvPrefix = "MANIFOLD"

// Loader implements ports.SettingsLoader on top of a YAML file and environment variables.
type Loader struct {
	path string
}

// NewLoader creates a Loader reading the settings file at path.
// An empty path selects ~/.manifold/config.yaml.
func NewLoader(path string) *Loader {
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, domain.DefaultSettingsPath())
		}
	}
	return &Loader{path: path}
}

// Path returns the settings file the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Load reads the settings. A missing file is not an error.
// MANIFOLD_CHANNEL_ALIAS, MANIFOLD_COLOR and MANIFOLD_LOG_FORMAT take precedence over the file.
func (l *Loader) Load() (domain.Settings, error) {
	defaults := domain.DefaultSettings()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("channel-alias", defaults.ChannelAlias)
	v.SetDefault("color", string(defaults.Color))
	v.SetDefault("log-format", defaults.LogFormat)

	if l.path != "" {
		v.SetConfigFile(l.path)
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			err = zerr.Wrap(err, domain.ErrSettingsReadFailed.Error())
			return domain.Settings{}, zerr.With(err, "path", l.path)
		}
	}

	var s domain.Settings
	if err := v.Unmarshal(&s); err != nil {
		err = zerr.Wrap(err, domain.ErrSettingsReadFailed.Error())
		return domain.Settings{}, zerr.With(err, "path", l.path)
	}

	color, err := domain.ParseColorMode(string(s.Color))
	if err != nil {
		return domain.Settings{}, zerr.With(err, "path", l.path)
	}
	s.Color = color

	if s.ChannelAlias == "" {
		s.ChannelAlias = defaults.ChannelAlias
	}
	return s, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}
