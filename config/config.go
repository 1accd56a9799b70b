// Package config resolves mankey settings from the environment, an optional
// dotenv file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultEnvFile    = ".env"
	DefaultStocksFile = "data/stocks.json"
	DefaultFlowsFile  = "data/flows.json"
	DefaultPolicy     = "class"
	DefaultMarker     = "PNC"
	DefaultAddr       = ":8080"
	DefaultLogLevel   = "info"
)

// Environment variable names.
const (
	EnvStocksFile = "MANKEY_STOCKS_FILE"
	EnvFlowsFile  = "MANKEY_FLOWS_FILE"
	EnvPolicy     = "MANKEY_POLICY"
	EnvMarker     = "MANKEY_CAPACITY_MARKER"
	EnvLogLevel   = "MANKEY_LOG_LEVEL"
	EnvLogFile    = "MANKEY_LOG_FILE"
	EnvAddr       = "MANKEY_ADDR"
	EnvEnv        = "MANKEY_ENV"
)

// Config holds every setting the CLI needs before it touches data.
type Config struct {
	StocksFile string
	FlowsFile  string
	Policy     string
	Marker     string
	LogLevel   string
	LogFile    string
	Addr       string
	Env        string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		StocksFile: DefaultStocksFile,
		FlowsFile:  DefaultFlowsFile,
		Policy:     DefaultPolicy,
		Marker:     DefaultMarker,
		LogLevel:   DefaultLogLevel,
		Addr:       DefaultAddr,
	}
}

// LoadEnvFile reads a dotenv file into the process environment without
// overriding variables that are already set. A missing default file is not
// an error; a missing file the user asked for is.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading env file %s: %w", path, err)
	}
	return nil
}

// FromEnv overlays environment values on the defaults.
func FromEnv() Config {
	return FromLookup(os.LookupEnv)
}

// FromLookup is FromEnv with an injectable lookup.
func FromLookup(lookup func(string) (string, bool)) Config {
	c := Default()
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&c.StocksFile, EnvStocksFile)
	set(&c.FlowsFile, EnvFlowsFile)
	set(&c.Policy, EnvPolicy)
	set(&c.Marker, EnvMarker)
	set(&c.LogFile, EnvLogFile)
	set(&c.Addr, EnvAddr)
	set(&c.Env, EnvEnv)
	if c.Env == "dev" {
		c.LogLevel = "debug"
	}
	set(&c.LogLevel, EnvLogLevel)
	return c
}

// Dev reports whether the dev environment is selected.
func (c Config) Dev() bool { return c.Env == "dev" }
