package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cubetwist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvConfig, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 500*time.Millisecond, cfg.TurnDuration())
	assert.Equal(t, logrus.WarnLevel, cfg.LogLevel())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
puzzle:
  size: 4
  theme: forest
animation:
  turn_ms: 200
  easing: back.out
  easing_param: 1.7
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Puzzle.Size)
	assert.Equal(t, "forest", cfg.Puzzle.Theme)
	assert.Equal(t, 0, cfg.Puzzle.Flip, "unset keys keep their default")
	assert.Equal(t, 200*time.Millisecond, cfg.TurnDuration())
	assert.Equal(t, 500*time.Millisecond, cfg.SettleDelay())
	assert.Equal(t, "back.out", cfg.Animation.Easing)
	assert.InDelta(t, 1.7, cfg.Animation.EasingParam, 1e-12)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel())
}

func TestLoadFromEnvironment(t *testing.T) {
	path := writeFile(t, "puzzle:\n  size: 2\n")
	t.Setenv(EnvConfig, path)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Puzzle.Size)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"size":  "puzzle:\n  size: 9\n",
		"flip":  "puzzle:\n  flip: 7\n",
		"neg":   "puzzle:\n  flip: -1\n",
		"turn":  "animation:\n  turn_ms: -1\n",
		"level": "log:\n  level: loud\n",
		"yaml":  "puzzle: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAcceptsEveryFlipPreset(t *testing.T) {
	for flip := 0; flip <= 3; flip++ {
		cfg, err := Load(writeFile(t, fmt.Sprintf("puzzle:\n  flip: %d\n", flip)))
		require.NoError(t, err)
		assert.Equal(t, flip, cfg.Puzzle.Flip)
	}
}

func TestDBPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	path, err := cfg.DBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DataDir, DBFile), path)

	cfg.Storage.DBPath = "~/journals/a.db"
	path, err = cfg.DBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "journals", "a.db"), path)

	cfg.Storage.DBPath = "/var/tmp/b.db"
	path, err = cfg.DBPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/b.db", path)
}
