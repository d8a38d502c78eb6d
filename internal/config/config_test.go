package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Capture.FrameTimeoutSeconds)
	assert.True(t, cfg.Permissions.Camera)
	assert.True(t, cfg.Permissions.Microphone)
	assert.Equal(t, 60, cfg.RateLimit.Capacity)
	assert.Equal(t, 10, cfg.RateLimit.RefillRate)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Empty(t, cfg.Archive.Driver)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  port: 9090
capture:
  frameTimeoutSeconds: 2
permissions:
  camera: false
archive:
  driver: postgres
database:
  host: db.local
  port: 5432
  user: inspector
  password: secret
  name: inspections
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2, cfg.Capture.FrameTimeoutSeconds)
	assert.False(t, cfg.Permissions.Camera)
	assert.True(t, cfg.Permissions.Microphone)
	assert.Equal(t, "postgres", cfg.Archive.Driver)
	assert.Equal(t,
		"host=db.local port=5432 user=inspector password=secret dbname=inspections sslmode=disable",
		cfg.PostgresDSN())
}

func TestMySQLDSN(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
database:
  host: 127.0.0.1
  port: 3306
  user: root
  password: pw
  name: inspections
`))
	require.NoError(t, err)

	assert.Equal(t,
		"root:pw@tcp(127.0.0.1:3306)/inspections?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.MySQLDSN())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [broken"))
	assert.Error(t, err)
}
