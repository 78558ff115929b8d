package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/tuning.yaml
var defaultTuningYAML []byte

// LoadTuning loads gameplay tuning.
// Search order: customPath -> $FIGS_TUNING -> ~/.figs/tuning.yaml -> ./configs/tuning.yaml -> embedded default.
// Files may be partial; unset fields keep their default. It returns the source used.
func LoadTuning(customPath string) (Tuning, string, error) {
	if customPath == "" {
		customPath = os.Getenv(EnvTuning)
	}

	// An explicit path must exist and parse.
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Tuning{}, "", fmt.Errorf("config: read tuning %s: %w", customPath, err)
		}
		t, err := ParseTuning(data)
		if err != nil {
			return Tuning{}, "", fmt.Errorf("config: %s: %w", customPath, err)
		}
		return t, customPath, nil
	}

	for _, p := range []string{userConfigPath("tuning.yaml"), filepath.Join("configs", "tuning.yaml")} {
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		t, err := ParseTuning(data)
		if err != nil {
			return Tuning{}, "", fmt.Errorf("config: %s: %w", p, err)
		}
		return t, p, nil
	}

	t, err := ParseTuning(defaultTuningYAML)
	if err != nil {
		return Tuning{}, "", fmt.Errorf("config: embedded tuning: %w", err)
	}
	return t, "embedded", nil
}

// ParseTuning decodes YAML over the built-in defaults and validates the result.
func ParseTuning(data []byte) (Tuning, error) {
	t := Default()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("parse tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".figs", filename)
}
