package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/manifold/internal/core/domain"
)

func TestNormalizePyPiName(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "requests", want: "requests"},
		{input: "Flask_SQLAlchemy", want: "flask-sqlalchemy"},
		{input: "zope.interface", want: "zope-interface"},
		{input: "a__-..b", want: "a-b"},
		{input: "-leading", wantErr: true},
		{input: "with space", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := domain.NormalizePyPiName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPyPiRequirement(t *testing.T) {
	r, err := domain.NewPyPiRequirement("", nil)
	require.NoError(t, err)
	assert.Equal(t, "*", r.String())
	assert.Nil(t, r.Extras)

	r, err = domain.NewPyPiRequirement(">=2.31", []string{"Security", "socks", "security"})
	require.NoError(t, err)
	assert.Equal(t, []string{"security", "socks"}, r.Extras)
	assert.Equal(t, "[security,socks]>=2.31", r.String())

	_, err = domain.NewPyPiRequirement("[x]", nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid pypi requirement")

	_, err = domain.NewPyPiRequirement("*", []string{"bad extra"})
	require.Error(t, err)
}
