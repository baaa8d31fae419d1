package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8189), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, DefaultMaxDepth, cfg.Scan.MaxDepth)
	assert.Empty(t, cfg.Scan.Colors)
	assert.Equal(t, DefaultStorePath, cfg.Store.Path)
	assert.False(t, cfg.Rescan.Enabled)
	assert.Equal(t, "0 * * * *", cfg.Rescan.Schedule)
	assert.Equal(t, 2, cfg.Global.ShutdownTimeoutInSeconds)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SCAN_ROOT_DIR", "/mnt/books")
	t.Setenv("SCAN_MAX_DEPTH", "3")
	t.Setenv("SCAN_COLORS", "red, yellow")
	t.Setenv("STORE_PATH", "/data/quotes.lua")
	t.Setenv("RESCAN_ENABLED", "true")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "/mnt/books", cfg.Scan.RootDir)
	assert.Equal(t, 3, cfg.Scan.MaxDepth)
	assert.Equal(t, []string{"red", "yellow"}, cfg.Scan.Colors)
	assert.Equal(t, "/data/quotes.lua", cfg.Store.Path)
	assert.True(t, cfg.Rescan.Enabled)
}

func TestParseColors(t *testing.T) {
	assert.Nil(t, parseColors(""))
	assert.Equal(t, []string{"red"}, parseColors("red"))
	assert.Equal(t, []string{"red", "yellow"}, parseColors("red,yellow"))
	assert.Equal(t, []string{"red", "yellow"}, parseColors(" red , , yellow "))
}
