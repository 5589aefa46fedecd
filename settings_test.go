package ballast

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/akmonengine/ballast/actor"
	"github.com/akmonengine/ballast/constraint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettingsFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	assert.Equal(t, mgl64.Vec3{0, -9.81, 0}, settings.Gravity)
	assert.Equal(t, actor.DefaultSleepEpsilon, settings.SleepEpsilon)
	assert.Equal(t, DEFAULT_WORKERS, settings.Workers)
	assert.Equal(t, constraint.DefaultParams(), settings.Params())
	assert.NoError(t, settings.Validate())
}

func TestLoadSettings_YAML(t *testing.T) {
	path := writeSettingsFile(t, "world.yaml", `
gravity: [0, -1.62, 0]
baumgarte: 0.1
workers: 4
`)

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, mgl64.Vec3{0, -1.62, 0}, settings.Gravity)
	assert.Equal(t, 0.1, settings.Baumgarte)
	assert.Equal(t, 4, settings.Workers)
	// Missing fields keep their default
	assert.Equal(t, DefaultSettings().CorrectionPercent, settings.CorrectionPercent)
	assert.Equal(t, DefaultSettings().SleepEpsilon, settings.SleepEpsilon)
}

func TestLoadSettings_TOML(t *testing.T) {
	path := writeSettingsFile(t, "world.toml", `
gravity = [0.0, 0.0, -9.81]
correction_slop = 0.005
sleep_epsilon = 0.1
`)

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, mgl64.Vec3{0, 0, -9.81}, settings.Gravity)
	assert.Equal(t, 0.005, settings.CorrectionSlop)
	assert.Equal(t, 0.1, settings.SleepEpsilon)
	assert.Equal(t, DefaultSettings().Baumgarte, settings.Baumgarte)
}

func TestLoadSettings_Errors(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		wantInvalid bool
	}{
		{"unsupported extension", "world.json", `{"workers": 2}`, true},
		{"out of range value", "world.yaml", "baumgarte: 1.5\n", true},
		{"malformed yaml", "world.yml", "gravity: [0, -9.81\n", false},
		{"malformed toml", "world.toml", "workers = \n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSettingsFile(t, tt.file, tt.content)

			_, err := LoadSettings(path)
			require.Error(t, err)
			assert.Equal(t, tt.wantInvalid, errors.Is(err, ErrInvalidSettings))
		})
	}
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Settings)
	}{
		{"NaN gravity", func(s *Settings) { s.Gravity[1] = math.NaN() }},
		{"infinite gravity", func(s *Settings) { s.Gravity[0] = math.Inf(1) }},
		{"negative baumgarte", func(s *Settings) { s.Baumgarte = -0.1 }},
		{"baumgarte above one", func(s *Settings) { s.Baumgarte = 1.1 }},
		{"negative allowed penetration", func(s *Settings) { s.AllowedPenetration = -0.01 }},
		{"correction percent above one", func(s *Settings) { s.CorrectionPercent = 2 }},
		{"negative slop", func(s *Settings) { s.CorrectionSlop = -1 }},
		{"NaN sleep epsilon", func(s *Settings) { s.SleepEpsilon = math.NaN() }},
		{"negative workers", func(s *Settings) { s.Workers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			tt.modify(&settings)

			assert.ErrorIs(t, settings.Validate(), ErrInvalidSettings)
		})
	}

	t.Run("bounds are inclusive", func(t *testing.T) {
		settings := DefaultSettings()
		settings.Baumgarte = 1
		settings.CorrectionPercent = 0
		settings.SleepEpsilon = 0
		settings.Workers = 0

		assert.NoError(t, settings.Validate())
	})
}
