package detector_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/strata/internal/adapters/detector"
	"go.trai.ch/strata/internal/core/domain"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  detector.Mode
	}{
		{"", detector.ModeAuto},
		{"auto", detector.ModeAuto},
		{"tui", detector.ModeTUI},
		{"linear", detector.ModeLinear},
	}
	for _, tt := range tests {
		t.Run("mode "+tt.input, func(t *testing.T) {
			got, err := detector.ParseMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := detector.ParseMode("fancy")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDetect_NonTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, detector.ModeLinear, detector.Detect(f))
	assert.Equal(t, detector.ModeLinear, detector.Detect(nil))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		detected  detector.Mode
		requested detector.Mode
		want      detector.Mode
	}{
		{"auto keeps detection", detector.ModeTUI, detector.ModeAuto, detector.ModeTUI},
		{"empty keeps detection", detector.ModeLinear, "", detector.ModeLinear},
		{"linear overrides tui", detector.ModeTUI, detector.ModeLinear, detector.ModeLinear},
		{"tui overrides linear", detector.ModeLinear, detector.ModeTUI, detector.ModeTUI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.Resolve(tt.detected, tt.requested))
		})
	}
}
