// Package config loads process configuration from the environment and
// optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvName        = "TAXRADIO_ENV"
	EnvAddr        = "TAXRADIO_ADDR"
	EnvFixture     = "TAXRADIO_FIXTURE"
	EnvPostgresDSN = "TAXRADIO_PG_DSN"
	EnvNonceSecret = "TAXRADIO_NONCE_SECRET"
	EnvCacheSize   = "TAXRADIO_CACHE_SIZE"
	EnvLogLevel    = "TAXRADIO_LOG_LEVEL"
)

const defaultEnvFile = ".env"

type Config struct {
	Env         string
	Addr        string
	Fixture     string
	PostgresDSN string
	NonceSecret string
	CacheSize   int
	LogLevel    string
}

// Production reports whether the process runs in a production environment.
func (c Config) Production() bool {
	return strings.EqualFold(c.Env, "production") || strings.EqualFold(c.Env, "prod")
}

// Load reads files (default ".env", optional) and the process environment.
// Process variables win over file values.
func Load(files ...string) (Config, error) {
	fileEnv := map[string]string{}
	optional := len(files) == 0
	if optional {
		files = []string{defaultEnvFile}
	}
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if optional && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
		for key, value := range values {
			fileEnv[key] = value
		}
	}
	return FromLookup(func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fileEnv[key]
	})
}

// FromLookup builds a Config from a key lookup, applying defaults.
func FromLookup(getenv func(string) string) (Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := Config{
		Env:         firstNonEmpty(get(EnvName), "local"),
		Addr:        firstNonEmpty(get(EnvAddr), ":8080"),
		Fixture:     get(EnvFixture),
		PostgresDSN: get(EnvPostgresDSN),
		NonceSecret: firstNonEmpty(get(EnvNonceSecret), "taxradio-local"),
		CacheSize:   128,
		LogLevel:    firstNonEmpty(get(EnvLogLevel), "info"),
	}
	if raw := get(EnvCacheSize); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 0 {
			return Config{}, fmt.Errorf("config: %s must be a non-negative integer, got %q", EnvCacheSize, raw)
		}
		cfg.CacheSize = size
	}
	if !strings.HasPrefix(cfg.Addr, ":") && !strings.Contains(cfg.Addr, ":") {
		cfg.Addr = ":" + cfg.Addr
	}
	if cfg.Production() && get(EnvNonceSecret) == "" {
		return Config{}, fmt.Errorf("config: %s is required in production", EnvNonceSecret)
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
