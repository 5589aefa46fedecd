package ballast

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/akmonengine/ballast/actor"
	"github.com/akmonengine/ballast/constraint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const DEFAULT_WORKERS = 1

// Settings tunes a World. Zero values are not meaningful, start from DefaultSettings.
type Settings struct {
	// Gravity acceleration (m/s², or N/kg)
	Gravity mgl64.Vec3 `yaml:"gravity" toml:"gravity"`

	// Baumgarte is the share of the penetration turned into separating velocity each step
	Baumgarte float64 `yaml:"baumgarte" toml:"baumgarte"`
	// AllowedPenetration is the depth the velocity bias ignores
	AllowedPenetration float64 `yaml:"allowed_penetration" toml:"allowed_penetration"`
	// CorrectionPercent is the share of the penetration removed by moving the bodies
	CorrectionPercent float64 `yaml:"correction_percent" toml:"correction_percent"`
	// CorrectionSlop is the depth the positional correction ignores
	CorrectionSlop float64 `yaml:"correction_slop" toml:"correction_slop"`

	// SleepEpsilon is the motion under which a body falls asleep
	SleepEpsilon float64 `yaml:"sleep_epsilon" toml:"sleep_epsilon"`

	// Workers is the number of goroutines integrating the bodies
	Workers int `yaml:"workers" toml:"workers"`
}

func DefaultSettings() Settings {
	return Settings{
		Gravity:            mgl64.Vec3{0, -9.81, 0},
		Baumgarte:          constraint.DefaultBaumgarte,
		AllowedPenetration: constraint.DefaultAllowedPenetration,
		CorrectionPercent:  constraint.DefaultCorrectionPercent,
		CorrectionSlop:     constraint.DefaultCorrectionSlop,
		SleepEpsilon:       actor.DefaultSleepEpsilon,
		Workers:            DEFAULT_WORKERS,
	}
}

// LoadSettings reads settings from a YAML (.yaml, .yml) or TOML (.toml) file.
// Fields missing from the file keep their default value. The result is validated.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("read settings: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &settings)
	case ".toml":
		err = toml.Unmarshal(data, &settings)
	default:
		return settings, fmt.Errorf("%w: unsupported settings format %q", ErrInvalidSettings, ext)
	}
	if err != nil {
		return settings, fmt.Errorf("decode settings %s: %w", path, err)
	}

	if err = settings.Validate(); err != nil {
		return settings, err
	}

	return settings, nil
}

// Validate reports the first out of range value, wrapped in ErrInvalidSettings
func (s Settings) Validate() error {
	for i, g := range s.Gravity {
		if !finite(g) {
			return fmt.Errorf("%w: gravity[%d] is %v", ErrInvalidSettings, i, g)
		}
	}

	checks := []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"baumgarte", s.Baumgarte, 0, 1},
		{"allowed_penetration", s.AllowedPenetration, 0, math.MaxFloat64},
		{"correction_percent", s.CorrectionPercent, 0, 1},
		{"correction_slop", s.CorrectionSlop, 0, math.MaxFloat64},
		{"sleep_epsilon", s.SleepEpsilon, 0, math.MaxFloat64},
	}
	for _, check := range checks {
		if !finite(check.value) || check.value < check.min || check.value > check.max {
			return fmt.Errorf("%w: %s is %v", ErrInvalidSettings, check.name, check.value)
		}
	}

	if s.Workers < 0 {
		return fmt.Errorf("%w: workers is %d", ErrInvalidSettings, s.Workers)
	}

	return nil
}

// Params returns the resolution parameters of the settings
func (s Settings) Params() constraint.Params {
	return constraint.Params{
		Baumgarte:          s.Baumgarte,
		AllowedPenetration: s.AllowedPenetration,
		CorrectionPercent:  s.CorrectionPercent,
		CorrectionSlop:     s.CorrectionSlop,
	}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
