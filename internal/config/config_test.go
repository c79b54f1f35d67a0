package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "quizzes.jsonl", cfg.QuizzesFile)
	assert.True(t, cfg.Practice.LenientProgress)
	assert.False(t, cfg.Practice.IncludeWrong)
	assert.Zero(t, cfg.Practice.CorrectPercent)
	assert.Contains(t, cfg.DataDir, "quizdrill")
}

func TestLoad_DataDirOverrideWins(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "quizzes.jsonl"), cfg.QuizzesPath())
	assert.Equal(t, filepath.Join(dir, "progress.json"), cfg.ProgressPath())
	assert.Equal(t, filepath.Join(dir, "session.db"), cfg.SessionDBPath())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("QUIZDRILL_PRACTICE_CORRECT_PERCENT", "30")
	t.Setenv("QUIZDRILL_QUIZZES_FILE", "/tmp/bank.jsonl")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Practice.CorrectPercent)
	// Absolute paths bypass DataDir.
	assert.Equal(t, "/tmp/bank.jsonl", cfg.QuizzesPath())
}

func TestLoad_RejectsBadPercent(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("QUIZDRILL_PRACTICE_CORRECT_PERCENT", "150")

	_, err := Load("")
	require.Error(t, err)
}
