package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"il2-rankmod/light/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInit(t *testing.T) {
	t.Setenv("RANKMOD_GAME_PATH", "")
	gamePath := t.TempDir()
	require.NoError(t, os.MkdirAll(config.CareerDirFor(gamePath), 0o755))

	out, err := runRoot(t, "config", "init", "--game-path", gamePath)
	require.NoError(t, err)
	assert.Contains(t, out, config.PathFor(gamePath))

	cfg, err := config.Load(config.PathFor(gamePath))
	require.NoError(t, err)
	assert.Equal(t, gamePath, cfg.GamePath)
	assert.Equal(t, config.DefaultThresholds(), cfg.Thresholds)

	_, err = runRoot(t, "config", "init", "--game-path", gamePath)
	assert.Error(t, err)

	_, err = runRoot(t, "config", "init", "--game-path", gamePath, "--force", "--language", "GER")
	require.NoError(t, err)
	cfg, err = config.Load(config.PathFor(gamePath))
	require.NoError(t, err)
	assert.Equal(t, "GER", cfg.Language)
}

func TestConfigInit_ExplicitPathAndYAML(t *testing.T) {
	t.Setenv("RANKMOD_GAME_PATH", "")
	gamePath := t.TempDir()
	require.NoError(t, os.MkdirAll(config.CareerDirFor(gamePath), 0o755))
	path := filepath.Join(t.TempDir(), "rankmod.yaml")

	_, err := runRoot(t, "config", "init", "--game-path", gamePath, "--config", path)
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultCooldownDays, cfg.CooldownDays)
}

func TestConfigInit_RejectsMissingInstall(t *testing.T) {
	_, err := runRoot(t, "config", "init", "--game-path", filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestPassRequiresFlags(t *testing.T) {
	_, err := runRoot(t, "pass", "--squadron", "10")
	assert.Error(t, err)
}
