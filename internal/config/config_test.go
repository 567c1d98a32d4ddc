package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultThresholds(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 3, cfg.Analysis.MinMentions)
	assert.Equal(t, 0.5, cfg.Analysis.MainThreshold)
	assert.Equal(t, 0.7, cfg.Analysis.MainPlotThreshold)
	assert.Equal(t, 0.6, cfg.Analysis.MainChapterShare)
	assert.Equal(t, 3, cfg.Analysis.SentenceWindow)
	assert.Equal(t, 0.1, cfg.Analysis.TransitionFloor)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[analysis]
min_mentions = 5

[neo4j]
uri = "bolt://db:7687"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Analysis.MinMentions)
	assert.Equal(t, "bolt://db:7687", cfg.Neo4j.URI)
	// Untouched fields keep their defaults.
	assert.Equal(t, 0.7, cfg.Analysis.MainPlotThreshold)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("NEO4J_URI", "bolt://env:7687")
	t.Setenv("MIN_CHARACTER_MENTIONS", "2")
	t.Setenv("ENABLE_AI_ANALYSIS", "true")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "bolt://env:7687", cfg.Neo4j.URI)
	assert.Equal(t, 2, cfg.Analysis.MinMentions)
	assert.True(t, cfg.LLM.Enabled)
}
