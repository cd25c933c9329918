package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("name: relay\n"))
	require.NoError(t, err)

	assert.Equal(t, "relay", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, cfg.Pool.Symbols)
	assert.Equal(t, int64(DefaultMaxMessageSize), cfg.Hub.MaxMessageSize)
	assert.Equal(t, "memory", cfg.Storage.DBType)
	assert.Equal(t, DefaultHubURL, cfg.Poller.HubURL)
	assert.Equal(t, 1000, cfg.Poller.IntervalMs)
	assert.False(t, cfg.Pool.ReleaseOnDisconnect)
}

func TestParse_ReadsNestedSections(t *testing.T) {
	raw := `
name: relay
port: 9090
log_level: DEBUG
pool:
  symbols: [SOLUSDT]
  release_on_disconnect: true
hub:
  idle_timeout_seconds: 30
storage:
  db_type: sqlite
  db_path: /tmp/relay.db
poller:
  hub_url: wss://relay.example/ws
  interval_ms: 250
`
	cfg, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"SOLUSDT"}, cfg.Pool.Symbols)
	assert.True(t, cfg.Pool.ReleaseOnDisconnect)
	assert.Equal(t, 30, cfg.Hub.IdleTimeoutSeconds)
	assert.Equal(t, "/tmp/relay.db", cfg.Storage.DBPath)
	assert.Equal(t, 250, cfg.Poller.IntervalMs)
}

func TestParse_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bad yaml", "name: [\n"},
		{"bad log level", "log_level: LOUD\n"},
		{"port out of range", "port: 70000\n"},
		{"duplicate symbol", "pool:\n  symbols: [A, A]\n"},
		{"sqlite without path", "storage:\n  db_type: sqlite\n"},
		{"postgres without dsn", "storage:\n  db_type: postgres\n"},
		{"unknown db", "storage:\n  db_type: mongo\n"},
		{"http hub url", "poller:\n  hub_url: http://127.0.0.1/ws\n"},
		{"negative retries", "network:\n  retries: -1\n"},
		{"relative fallback url", "poller:\n  fallback_urls: [\"api1.binance.com\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")

	cfg := Default()
	cfg.Pool.Symbols = []string{"XRPUSDT", "ADAUSDT"}
	require.NoError(t, cfg.Save(path))

	reloaded, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Pool.Symbols, reloaded.Pool.Symbols)
	assert.Equal(t, cfg.Port, reloaded.Port)
}

func TestNewConfig_MissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(os.TempDir(), "does-not-exist", "relay.yaml"))
	assert.Error(t, err)
}
