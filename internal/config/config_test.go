package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "ALLOWED_ORIGINS", "CORS_ORIGINS", "TABLE_PREFIX", "MAX_IMAGE_WIDTH", "JPEG_QUALITY", "DEBUG"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.Equal(t, []string{DefaultAllowedOrigin}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, DefaultMaxImageWidth, cfg.MaxImageWidth)
	assert.Equal(t, DefaultJPEGQuality, cfg.JPEGQuality)
	assert.True(t, cfg.Debug)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.org, ,https://b.example.org ")
	t.Setenv("TABLE_PREFIX", "custom_")
	t.Setenv("MAX_IMAGE_WIDTH", "800")
	t.Setenv("JPEG_QUALITY", "1.5")
	t.Setenv("S3_FORCE_PATH_STYLE", "true")
	t.Setenv("DEBUG", "")

	cfg := Load()

	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.AllowedOrigins)
	assert.Equal(t, "custom_", cfg.TablePrefix)
	assert.Equal(t, 800, cfg.MaxImageWidth)
	assert.Equal(t, DefaultJPEGQuality, cfg.JPEGQuality) // out of range
	assert.True(t, cfg.S3ForcePathStyle)
	assert.False(t, cfg.Debug)
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	NewLogger("prod", &buf).Debug("hidden")
	assert.Empty(t, buf.String())

	NewLogger("dev", &buf).Debug("shown", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestSetupLogFile_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"dmeditor-2020-01-01T00-00-00.log", "dmeditor-2020-01-02T00-00-00.log", "dmeditor-2020-01-03T00-00-00.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	f, err := SetupLogFile(dir, 2)
	require.NoError(t, err)
	defer f.Close()

	files, err := filepath.Glob(filepath.Join(dir, "dmeditor-*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.NotContains(t, files, filepath.Join(dir, "dmeditor-2020-01-01T00-00-00.log"))
	assert.Contains(t, files, f.Name())
}
