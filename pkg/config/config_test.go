// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	require := require.New(t)

	cfg, err := Load("")
	require.NoError(err)
	require.NoError(cfg.Validate())

	require.Equal(":8080", cfg.Server.Addr)
	require.Equal([]string{"*"}, cfg.Server.CORSOrigins)
	require.Equal(10*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal("mock", cfg.Data.Mode)
	require.Equal("memory", cfg.Storage.Backend)
	require.Equal("info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	require := require.New(t)

	content := `
server:
  addr: ":9090"
  cors_origins:
    - "https://dashboard.example.com"
  shutdown_timeout: 5s

data:
  mode: mock

storage:
  backend: sqlite
  path: "./data/test.db"

logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "pulsed.yaml")
	require.NoError(os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(err)
	require.NoError(cfg.Validate())

	require.Equal(":9090", cfg.Server.Addr)
	require.Equal([]string{"https://dashboard.example.com"}, cfg.Server.CORSOrigins)
	require.Equal(5*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal("sqlite", cfg.Storage.Backend)
	require.Equal("debug", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	require := require.New(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	require := require.New(t)

	base := func() *Config {
		cfg, err := Load("")
		require.NoError(err)
		return cfg
	}

	cfg := base()
	cfg.Data.Mode = "hybrid"
	require.Error(cfg.Validate())

	cfg = base()
	cfg.Storage.Backend = "postgres"
	require.Error(cfg.Validate())

	cfg = base()
	cfg.Storage.Backend = "sqlite"
	cfg.Storage.Path = ""
	require.Error(cfg.Validate())

	cfg = base()
	cfg.Logging.Level = "verbose"
	require.Error(cfg.Validate())

	cfg = base()
	cfg.Server.ShutdownTimeout = 0
	require.Error(cfg.Validate())
}
