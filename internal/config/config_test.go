package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedTuningMatchesDefault(t *testing.T) {
	got, err := ParseTuning(defaultTuningYAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejectsBadTuning(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tuning)
		want   string
	}{
		{"zero width", func(t *Tuning) { t.World.Width = 0 }, "world.width"},
		{"negative height", func(t *Tuning) { t.World.Height = -1 }, "world.height"},
		{"no lives", func(t *Tuning) { t.Player.InitialLives = 0 }, "initial_lives"},
		{"bad policy", func(t *Tuning) { t.Enemies.Offscreen = "bounce" }, "offscreen"},
		{"inverted radius", func(t *Tuning) { t.Hazards.MaxRadius = 10 }, "max_radius"},
		{"zero fps", func(t *Tuning) { t.Host.FPS = 0 }, "host.fps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tun := Default()
			tt.mutate(&tun)
			err := tun.Validate()
			require.ErrorIs(t, err, ErrInvalidTuning)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadTuningPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	doc := "player:\n  initial_lives: 3\n  respawn_delay: 1s\nenemies:\n  offscreen: despawn\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	tun, src, err := LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, path, src)
	assert.Equal(t, 3, tun.Player.InitialLives)
	assert.Equal(t, time.Second, tun.Player.RespawnDelay)
	assert.Equal(t, EnemyDespawn, tun.Enemies.Offscreen)
	assert.Equal(t, 960.0, tun.World.Width, "unset fields keep defaults")
}

func TestLoadTuningErrors(t *testing.T) {
	_, _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world:\n  width: 0\n"), 0o644))
	_, _, err = LoadTuning(path)
	assert.ErrorIs(t, err, ErrInvalidTuning)
}

func TestLoadTuningFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("levels:\n  base_hazards: 7\n"), 0o644))
	t.Setenv(EnvTuning, path)

	tun, src, err := LoadTuning("")
	require.NoError(t, err)
	assert.Equal(t, path, src)
	assert.Equal(t, 7, tun.Levels.BaseHazards)
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		raw  string
		want Flags
	}{
		{"", Flags{}},
		{"?autoTest=1", Flags{AutoTest: true}},
		{"debug=true&inputLog=yes", Flags{Debug: true, InputLog: true}},
		{"AUTOTEST=on&debug=0", Flags{AutoTest: true}},
		{"debug", Flags{Debug: true}},
		{"debug=false&other=1", Flags{}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseQuery(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseQuery("%zz")
	assert.Error(t, err)
}

func TestFlagsDerived(t *testing.T) {
	f := Flags{AutoTest: true}
	assert.True(t, f.Recording())
	assert.True(t, f.LogInput())
	assert.Equal(t, []string{"--autotest"}, f.Args())
	assert.Equal(t, "autoTest=1", f.Query())

	assert.True(t, Flags{InputLog: true}.Recording())
	assert.False(t, Flags{Debug: true}.LogInput())
	assert.False(t, Flags{}.Recording())
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("FIGS_TEST_VALUE", "42")
	assert.Equal(t, "42", GetEnv("FIGS_TEST_VALUE", "x"))
	assert.Equal(t, "x", GetEnv("FIGS_TEST_MISSING", "x"))

	n, err := GetEnvInt("FIGS_TEST_VALUE", 1)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	t.Setenv("FIGS_TEST_VALUE", "abc")
	_, err = GetEnvInt("FIGS_TEST_VALUE", 1)
	assert.Error(t, err)

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FIGS_TEST_DOTENV=hello\n"), 0o644))
	require.NoError(t, LoadDotEnv(envFile, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "hello", os.Getenv("FIGS_TEST_DOTENV"))
	os.Unsetenv("FIGS_TEST_DOTENV")
}
