package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/manifold/internal/core/domain"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    domain.OutputFormat
		wantErr bool
	}{
		{input: "", want: domain.FormatPretty},
		{input: "pretty", want: domain.FormatPretty},
		{input: "JSON", want: domain.FormatJSON},
		{input: " yaml ", want: domain.FormatYAML},
		{input: "toml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := domain.ParseOutputFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorContains(t, err, "invalid output format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input   string
		want    domain.ColorMode
		wantErr bool
	}{
		{input: "", want: domain.ColorAuto},
		{input: "always", want: domain.ColorAlways},
		{input: "Never", want: domain.ColorNever},
		{input: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := domain.ParseColorMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorContains(t, err, "invalid color mode")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTaskReport(t *testing.T) {
	task := domain.Task{
		Name:         domain.NewInternedString("test"),
		Command:      "pytest",
		Dependencies: []domain.InternedString{domain.NewInternedString("build")},
		WorkingDir:   "tests",
		Environment:  map[string]string{"CI": "1"},
	}

	got := domain.NewTaskReport(task)
	assert.Equal(t, domain.TaskReport{
		Name:       "test",
		Command:    "pytest",
		DependsOn:  []string{"build"},
		WorkingDir: "tests",
		Env:        map[string]string{"CI": "1"},
	}, got)

	assert.True(t, domain.Task{Name: domain.NewInternedString("all")}.IsAlias())
	assert.False(t, task.IsAlias())
}

func TestSettings(t *testing.T) {
	s := domain.DefaultSettings()
	assert.Equal(t, domain.DefaultChannelAlias, s.ChannelAlias)
	assert.Equal(t, domain.ColorAuto, s.Color)
	assert.False(t, s.LogJSON())

	s.LogFormat = "JSON"
	assert.True(t, s.LogJSON())
}
