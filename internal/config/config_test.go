package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"RANKMOD_GAME_PATH", "APP_ENV", "RANKMOD_POLL_INTERVAL", "RANKMOD_CLEANUP_INTERVAL",
		"RANKMOD_STATUS_ADDR", "RANKMOD_ADMIN_SECRET", "REDIS_HOST", "REDIS_PORT",
		"REDIS_PASSWORD", "RANKMOD_FEED_STREAM",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_JSONWithDefaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "promotion_config.json", `{
		"game_path": "/games/il2",
		"max_ranks": {"101": 10},
		"thresholds": [[100, 50, 0.2], [200, 90, 0.1]],
		"PROMOTION_COOLDOWN_DAYS": 0
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/games/il2", cfg.GamePath)
	assert.Equal(t, DefaultLanguage, cfg.Language)
	assert.Equal(t, 0, cfg.CooldownDays)
	assert.Equal(t, DefaultFailThreshold, cfg.FailThreshold)
	assert.Equal(t, 10, cfg.CeilingFor(101))
	assert.Equal(t, 13, cfg.CeilingFor(201))
	assert.Equal(t, 13, cfg.CeilingFor(999))

	require.Len(t, cfg.Thresholds, 2)
	assert.Equal(t, Threshold{RequiredPCP: 200, RequiredSorties: 90, MaxFailureRate: 0.1}, cfg.Thresholds[1])

	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.False(t, cfg.Feed.Enabled())
	assert.Equal(t, filepath.Join("/games/il2", "data", "Career", "cp.db"), cfg.DBPath())
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "promotion_config.yaml", `
game_path: /games/il2
thresholds:
  - [150, 60, 0.15]
PROMOTION_FAIL_THRESHOLD: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.FailThreshold)
	assert.Equal(t, DefaultCooldownDays, cfg.CooldownDays)
	require.Len(t, cfg.Thresholds, 1)
	assert.Equal(t, 60, cfg.Thresholds[0].RequiredSorties)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RANKMOD_GAME_PATH", "/other/il2")
	t.Setenv("RANKMOD_POLL_INTERVAL", "2")
	t.Setenv("RANKMOD_CLEANUP_INTERVAL", "15m")
	t.Setenv("REDIS_HOST", "localhost")

	path := writeFile(t, "promotion_config.json", `{"game_path": "/games/il2"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/other/il2", cfg.GamePath)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 15*time.Minute, cfg.CleanupInterval)
	assert.True(t, cfg.Feed.Enabled())
	assert.Equal(t, DefaultFeedStream, cfg.Feed.Stream)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "c.json", `{"thresholds": []}`))
	assert.ErrorIs(t, err, ErrMissingGamePath)

	_, err = Load(writeFile(t, "c.json", `{"game_path": "/g", "thresholds": [[1, 2]]}`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "c.json", `{"game_path": "/g", "thresholds": [[1, 2, 1.5]]}`))
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "Career", "promotion_config.json")

	cfg := Default("/games/il2")
	cfg.FailThreshold = 4
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Thresholds, loaded.Thresholds)
	assert.Equal(t, cfg.MaxRanks, loaded.MaxRanks)
	assert.Equal(t, 4, loaded.FailThreshold)
}

func TestThresholdsAt(t *testing.T) {
	ts := DefaultThresholds()

	first, ok := ts.At(0)
	require.True(t, ok)
	assert.Equal(t, 210.0, first.RequiredPCP)

	_, ok = ts.At(len(ts))
	assert.False(t, ok)
	_, ok = ts.At(-1)
	assert.False(t, ok)
}

func TestResolvePath(t *testing.T) {
	clearEnv(t)

	_, err := ResolvePath("")
	assert.Error(t, err)

	p, err := ResolvePath("/tmp/x.json")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.json", p)

	t.Setenv("RANKMOD_GAME_PATH", "/games/il2")
	p, err = ResolvePath("")
	require.NoError(t, err)
	assert.Equal(t, PathFor("/games/il2"), p)
}
