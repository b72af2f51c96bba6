package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// The OpenAI diarizing endpoint rejects requests longer than 1400 seconds;
// 1200 leaves headroom for container timing imprecision.
const (
	DefaultServiceLimitSeconds = 1400
	DefaultMaxChunkSeconds     = 1200
)

// Settings holds the tunable pipeline parameters. A YAML file supplies the
// base values; environment variables override individual fields.
type Settings struct {
	Model               string  `yaml:"model"`
	ServiceLimitSeconds float64 `yaml:"service_limit_seconds" validate:"gt=0"`
	MaxChunkSeconds     float64 `yaml:"max_chunk_seconds" validate:"gt=0,ltfield=ServiceLimitSeconds"`
	MaxSpeakerRefs      int     `yaml:"max_speaker_refs" validate:"gte=0,lte=4"`
	RefMinSeconds       float64 `yaml:"ref_min_seconds" validate:"gt=0"`
	RefMaxSeconds       float64 `yaml:"ref_max_seconds" validate:"gtfield=RefMinSeconds"`
	Parallel            int     `yaml:"parallel" validate:"gte=1"`
	MaxRetries          uint64  `yaml:"max_retries"`
	DBType              string  `yaml:"db_type" validate:"oneof=sqlite postgres"`
}

// DefaultSettings returns the settings used when no file or overrides exist.
func DefaultSettings() Settings {
	return Settings{
		Model:               "gpt-4o-transcribe-diarize",
		ServiceLimitSeconds: DefaultServiceLimitSeconds,
		MaxChunkSeconds:     DefaultMaxChunkSeconds,
		MaxSpeakerRefs:      4,
		RefMinSeconds:       2,
		RefMaxSeconds:       10,
		Parallel:            2,
		MaxRetries:          3,
		DBType:              "sqlite",
	}
}

// LoadSettings reads the optional YAML settings file, applies environment
// overrides, and validates the result. An empty path skips the file.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return settings, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return settings, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	}

	applyEnvOverrides(&settings)

	if err := validator.New().Struct(settings); err != nil {
		return settings, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

func applyEnvOverrides(s *Settings) {
	if v := os.Getenv("M2T_MODEL"); v != "" {
		s.Model = v
	}
	if v, ok := envFloat("M2T_MAX_CHUNK_SECONDS"); ok {
		s.MaxChunkSeconds = v
	}
	if v, ok := envFloat("M2T_SERVICE_LIMIT_SECONDS"); ok {
		s.ServiceLimitSeconds = v
	}
	if v, ok := envInt("M2T_PARALLEL"); ok {
		s.Parallel = v
	}
	if v, ok := envInt("M2T_MAX_RETRIES"); ok && v >= 0 {
		s.MaxRetries = uint64(v)
	}
	if v := os.Getenv("DB_TYPE"); v != "" {
		s.DBType = v
	}
}

func envFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}
