package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// DefaultChannelAlias is the base URL bare channel names are resolved against.
const DefaultChannelAlias = "https://conda.anaconda.org/"

// Channel is a package source. Two channels are the same channel when their canonical URLs match.
type Channel struct {
	name string
	url  string
}

// ParseChannel parses a channel reference.
// Bare names such as "conda-forge" are joined to alias, URLs and absolute paths are kept as is.
// Canonical URLs always end with a slash.
func ParseChannel(s, alias string) (Channel, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Channel{}, zerr.With(ErrInvalidChannel, "channel", s)
	}

	switch {
	case strings.Contains(s, "://"):
		return Channel{name: strings.TrimSuffix(s, "/"), url: withTrailingSlash(s)}, nil
	case filepath.IsAbs(s):
		return Channel{name: s, url: "file://" + withTrailingSlash(filepath.ToSlash(s))}, nil
	case strings.ContainsAny(s, " \t\\"):
		return Channel{}, zerr.With(ErrInvalidChannel, "channel", s)
	}

	if alias == "" {
		alias = DefaultChannelAlias
	}
	name := strings.Trim(s, "/")
	return Channel{name: name, url: withTrailingSlash(alias) + name + "/"}, nil
}

func withTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

// Name returns the channel as the user wrote it, without a trailing slash.
func (c Channel) Name() string {
	return c.name
}

// URL returns the canonical URL that identifies the channel.
func (c Channel) URL() string {
	return c.url
}

// String returns the channel name.
func (c Channel) String() string {
	return c.name
}

// PrioritizedChannel is a channel with an optional merge priority.
type PrioritizedChannel struct {
	Channel  Channel
	Priority *int
}

// EffectivePriority returns the declared priority, or 0 when none was declared.
func (c PrioritizedChannel) EffectivePriority() int {
	if c.Priority == nil {
		return 0
	}
	return *c.Priority
}
