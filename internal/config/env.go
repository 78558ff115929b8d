// Package config provides environment, flag and gameplay tuning configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names read by the commands.
const (
	EnvHost     = "FIGS_HOST"
	EnvPort     = "FIGS_PORT"
	EnvHostKey  = "FIGS_HOST_KEY"
	EnvDB       = "FIGS_DB"
	EnvTuning   = "FIGS_TUNING"
	EnvLogLevel = "FIGS_LOG_LEVEL"
	EnvWebPort  = "FIGS_WEB_PORT"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvInt is GetEnv for integers. Unparsable values are an error.
func GetEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

// LoadDotEnv loads variables from the given .env files (default ".env") without
// overriding ones already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}
