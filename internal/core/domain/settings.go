package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// ColorMode controls whether output is colored.
type ColorMode string

const (
	// ColorAuto colors output when writing to a terminal outside CI.
	ColorAuto ColorMode = "auto"
	// ColorAlways forces colored output.
	ColorAlways ColorMode = "always"
	// ColorNever disables colored output.
	ColorNever ColorMode = "never"
)

// ParseColorMode validates s. An empty string selects ColorAuto.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", zerr.With(ErrInvalidColorMode, "color", s)
	}
}

// Settings are the user-level preferences that apply to every project.
type Settings struct {
	// ChannelAlias is the base URL bare channel names are resolved against.
	ChannelAlias string `mapstructure:"channel-alias"`
	// Color is the default color mode.
	Color ColorMode `mapstructure:"color"`
	// LogFormat is "pretty" or "json".
	LogFormat string `mapstructure:"log-format"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		ChannelAlias: DefaultChannelAlias,
		Color:        ColorAuto,
		LogFormat:    "pretty",
	}
}

// LogJSON reports whether logs should be written as JSON.
func (s Settings) LogJSON() bool {
	return strings.EqualFold(s.LogFormat, "json")
}
