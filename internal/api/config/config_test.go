package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mongo", cfg.Store.Driver)
	assert.Equal(t, "devflow", cfg.Mongo.Database)
	assert.Equal(t, "exact", cfg.Tag.MatchMode)
	assert.False(t, cfg.Vote.ReverseOnFlip)
	assert.Equal(t, "0 */10 * * * *", cfg.Cron.PopularTags)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9090
store:
  driver: memory
tag:
  match_mode: prefix
kafka:
  brokers: ["localhost:9092"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("DEVFLOW_VOTE_REVERSE_ON_FLIP", "true")
	t.Setenv("DEVFLOW_SERVER_PORT", "7070")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "prefix", cfg.Tag.MatchMode)
	assert.True(t, cfg.Vote.ReverseOnFlip)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o600))

	_, err := Load(dir)
	assert.Error(t, err)
}
