package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	app := Default()
	require.NoError(t, app.Validate())

	assert.Equal(t, 10, app.Model.TopK)
	assert.Equal(t, "2015-01-01", app.Data.Start)
	assert.False(t, app.Data.Cache.Enabled)
	assert.Equal(t, "localhost:6379", app.Data.Cache.Addr)
	assert.Equal(t, 6*time.Hour, app.Data.Cache.TTL)

	start, err := app.StartDate()
	require.NoError(t, err)
	assert.Equal(t, 2015, start.Year())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model:
  top_k: 5
  require_etf_above_ma: false
  weight_equity: 0.40
  weight_fx: 0.15
data:
  start: "2018-06-01"
  universe_path: data/custom.xlsx
  cache:
    enabled: true
    addr: redis:6379
`), 0644))

	app, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, app.Model.TopK)
	assert.False(t, app.Model.RequireETFAboveMA)
	assert.InDelta(t, 0.40, app.Model.WeightEquity, 1e-12)
	assert.InDelta(t, 0.20, app.Model.WeightRealRate, 1e-12, "untouched fields keep defaults")
	assert.Equal(t, "data/custom.xlsx", app.Data.UniversePath)
	assert.True(t, app.Data.Cache.Enabled)
	assert.Equal(t, "redis:6379", app.Data.Cache.Addr)
	assert.Equal(t, 6*time.Hour, app.Data.Cache.TTL, "unset ttl keeps the default")
}

func TestLoad_CacheTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data:
  cache:
    ttl: 90m
`), 0644))

	app, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, app.Data.Cache.TTL)

	require.NoError(t, os.WriteFile(path, []byte(`
data:
  cache:
    ttl: soon
`), 0644))

	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ttl")
}

func TestLoad_RejectsBadWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model:
  weight_equity: 0.90
`), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1.0")
}

func TestLoad_RejectsBadStartDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data:
  start: "June 2018"
`), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start date")
}

func TestLoad_MissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	app, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), app)
}
