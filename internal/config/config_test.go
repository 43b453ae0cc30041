package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-mem-point/pkg/sqldb"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("does-not-exist.yaml")
	require.NoError(t, err)
	assert.Equal(t, StoreTypeMemory, cfg.Store.Type)
	assert.Equal(t, ":50051", cfg.Server.GRPCAddr)
	assert.Equal(t, ":9090", cfg.Server.AdminAddr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_YAML(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, `
server:
  grpc_addr: ":6000"
  shutdown_timeout: 3s
store:
  type: mysql
  sql:
    host: db
    user: point
    db_name: points
log:
  level: debug
  encoding: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":6000", cfg.Server.GRPCAddr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, StoreTypeMySQL, cfg.Store.Type)
	assert.Equal(t, sqldb.DriverMySQL, cfg.Store.SQL.Driver)
	assert.Equal(t, 3306, cfg.Store.SQL.Port)
	assert.Equal(t, "db", cfg.Store.SQL.Host)
	assert.Equal(t, "json", cfg.Log.Encoding)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, "store:\n  type: memory\n")

	t.Setenv(EnvStoreType, "sqlite")
	t.Setenv(EnvDBPassword, "secret")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StoreTypeSQLite, cfg.Store.Type)
	assert.Equal(t, sqldb.DriverSQLite, cfg.Store.SQL.Driver)
	assert.Equal(t, "point.db", cfg.Store.SQL.DBName)
	assert.Equal(t, "secret", cfg.Store.SQL.Password)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvGRPCAddr+"=:7000\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv(EnvGRPCAddr) })

	cfg, err := Load("missing.yaml")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.GRPCAddr)
}

func TestLoad_InvalidStoreType(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load(writeConfig(t, "store:\n  type: cassandra\n"))
	assert.ErrorContains(t, err, "unknown store type")
}

func TestLoad_BadYAML(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.ErrorContains(t, err, "parse config")
}
