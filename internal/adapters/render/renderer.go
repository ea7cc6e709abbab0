// Package render writes environment and task reports as pretty text, JSON or YAML.
package render

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/manifold/internal/core/domain"
	"go.trai.ch/manifold/internal/core/ports"
	"go.trai.ch/manifold/internal/ui/output"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Renderer implements ports.Renderer.
type Renderer struct {
	mu      sync.RWMutex
	profile func() termenv.Profile
}

var _ ports.Renderer = (*Renderer)(nil)

// NewRenderer creates a Renderer using profile for pretty output.
// A nil profile selects the environment's color profile.
func NewRenderer(profile func() termenv.Profile) *Renderer {
	if profile == nil {
		profile = output.ColorProfile
	}
	return &Renderer{profile: profile}
}

// SetColor forces colored pretty output on or off.
func (r *Renderer) SetColor(enable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profile = output.Colored(enable)
}

// RenderInfo writes the reports of one or more environments.
func (r *Renderer) RenderInfo(w io.Writer, format domain.OutputFormat, reports []domain.EnvironmentReport) error {
	switch format {
	case domain.FormatJSON:
		return writeJSON(w, reports)
	case domain.FormatYAML:
		return writeYAML(w, reports)
	default:
		return r.newPretty(w).info(reports)
	}
}

// RenderTasks writes a task listing in the given order.
func (r *Renderer) RenderTasks(w io.Writer, format domain.OutputFormat, tasks []domain.TaskReport) error {
	if tasks == nil {
		tasks = []domain.TaskReport{}
	}

	switch format {
	case domain.FormatJSON:
		return writeJSON(w, tasks)
	case domain.FormatYAML:
		return writeYAML(w, tasks)
	default:
		return r.newPretty(w).tasks(tasks)
	}
}

func (r *Renderer) newPretty(w io.Writer) *pretty {
	r.mu.RLock()
	profile := r.profile()
	r.mu.RUnlock()
	return newPretty(w, profile)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return zerr.Wrap(err, "failed to encode json")
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return zerr.Wrap(err, "failed to encode yaml")
	}
	if err := enc.Close(); err != nil {
		return zerr.Wrap(err, "failed to encode yaml")
	}
	return nil
}
