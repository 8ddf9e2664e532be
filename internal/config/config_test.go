package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexconquest/internal/mapgen"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60, cfg.Server.RateLimit)
	assert.True(t, cfg.CompressOutput())
	assert.Equal(t, mapgen.DefaultSizes(), cfg.Generation.Sizes)
	assert.Equal(t, "info", cfg.Log.Level)

	mc := cfg.MapConfig(mapgen.Dimensions{Rows: 10, Columns: 10}, 3)
	assert.Equal(t, mapgen.DefaultConfig(10, 10, 3), mc)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  websocket: true
generation:
  hole_chance: 0
  link_chance: 80
  amplify_table: [0, 0, 20, 20, 20, 20]
  repair_retries: 2
  compress: false
  sizes:
    xl: {rows: 16, columns: 20}
database:
  path: /tmp/stats.db
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.Server.WebSocket)
	assert.False(t, cfg.CompressOutput())
	assert.Equal(t, "/tmp/stats.db", cfg.Database.Path)

	dims, ok := cfg.Generation.Sizes.Lookup("xl")
	require.True(t, ok)
	_, ok = cfg.Generation.Sizes.Lookup("s")
	assert.False(t, ok, "a configured size table replaces the defaults")

	mc := cfg.MapConfig(dims, 2)
	assert.Equal(t, 16, mc.Rows)
	assert.Equal(t, 20, mc.Columns)
	assert.Equal(t, 0, mc.HoleChance)
	assert.Equal(t, 80, mc.LinkChance)
	assert.Equal(t, [6]int{0, 0, 20, 20, 20, 20}, mc.AmplifyTable)
	assert.Equal(t, 2, mc.RepairRetries)
	assert.Equal(t, 8, mc.DefaultCapacity)

	level, err := ParseLevel(cfg.Log.Level)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_ExplicitZeroStartPower(t *testing.T) {
	cfg, err := Load(writeConfig(t, "generation:\n  start_power: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MapConfig(mapgen.Dimensions{Rows: 6, Columns: 6}, 2).StartPower)

	cfg, err = Load(writeConfig(t, "generation:\n  start_power: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MapConfig(mapgen.Dimensions{Rows: 6, Columns: 6}, 2).StartPower)

	_, err = Load(writeConfig(t, "generation:\n  start_power: -1\n"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"BadYAML":      "server: [",
		"BadTable":     "generation:\n  amplify_table: [1, 2]\n",
		"BadChance":    "generation:\n  hole_chance: 150\n",
		"BadSize":      "generation:\n  sizes:\n    z: {rows: 0, columns: 4}\n",
		"BadLevel":     "log:\n  level: loud\n",
		"PortTooLarge": "server:\n  port: 70000\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MAPGEN_PORT":      "7000",
		"MAPGEN_DB_PATH":   "data/stats.db",
		"RANDOM_ORG_KEY":   "secret",
		"MAPGEN_LOG_LEVEL": "warn",
		"CORS_ORIGINS":     "https://a.example, ,https://b.example",
	}
	var cfg Config
	cfg.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "data/stats.db", cfg.Database.Path)
	assert.Equal(t, "secret", cfg.Entropy.RandomOrgKey)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoad_ShippedConfigMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "mapserver.yaml"))
	require.NoError(t, err)

	assert.True(t, cfg.Server.WebSocket)
	assert.Equal(t, mapgen.DefaultSizes(), cfg.Generation.Sizes)
	for _, players := range []int{2, 3, 4} {
		dims := mapgen.Dimensions{Rows: 12, Columns: 12}
		assert.Equal(t, mapgen.DefaultConfig(12, 12, players), cfg.MapConfig(dims, players))
	}
}
