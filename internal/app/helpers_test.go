package app

import (
	"path/filepath"
	"testing"

	"github.com/guttosm/famroot-client/config"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Client.BaseURL = "https://api.famroot.test"
	cfg.Log.Level = "error"
	return cfg
}

func sqliteConfig(t *testing.T) config.DatabaseConfig {
	cfg := config.Default().Database
	cfg.Driver = "sqlite"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "remote.db")
	return cfg
}
