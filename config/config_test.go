package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	c := FromLookup(lookupFrom(nil))
	assert.Equal(t, Default(), c)
	assert.Equal(t, "data/stocks.json", c.StocksFile)
	assert.Equal(t, "class", c.Policy)
	assert.Equal(t, "PNC", c.Marker)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.Dev())
}

func TestFromLookupOverrides(t *testing.T) {
	c := FromLookup(lookupFrom(map[string]string{
		EnvStocksFile: "s.yaml",
		EnvFlowsFile:  "f.yaml",
		EnvPolicy:     "strict",
		EnvMarker:     " Chase ",
		EnvLogFile:    "mankey.log",
		EnvAddr:       ":9090",
		EnvLogLevel:   "",
	}))
	assert.Equal(t, "s.yaml", c.StocksFile)
	assert.Equal(t, "f.yaml", c.FlowsFile)
	assert.Equal(t, "strict", c.Policy)
	assert.Equal(t, "Chase", c.Marker)
	assert.Equal(t, "mankey.log", c.LogFile)
	assert.Equal(t, ":9090", c.Addr)
	assert.Equal(t, "info", c.LogLevel, "blank values keep the default")
}

func TestDevSelectsDebug(t *testing.T) {
	c := FromLookup(lookupFrom(map[string]string{EnvEnv: "dev"}))
	assert.True(t, c.Dev())
	assert.Equal(t, "debug", c.LogLevel)

	c = FromLookup(lookupFrom(map[string]string{EnvEnv: "dev", EnvLogLevel: "warn"}))
	assert.Equal(t, "warn", c.LogLevel, "explicit level wins over dev")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("MANKEY_POLICY=marker\nMANKEY_ADDR=:7070\n"), 0o644))
	t.Setenv(EnvPolicy, "strict")
	t.Setenv(EnvAddr, "")
	os.Unsetenv(EnvAddr)

	require.NoError(t, LoadEnvFile(path))
	c := FromEnv()
	assert.Equal(t, "strict", c.Policy, "existing variables are not overridden")
	assert.Equal(t, ":7070", c.Addr)
}

func TestLoadEnvFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.NoError(t, LoadEnvFile(""), "missing default file is ignored")

	err := LoadEnvFile(filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.env")
}
