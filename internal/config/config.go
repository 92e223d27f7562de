// Package config reads settings from .env files and the environment.
// Command-line flags override these values in cmd/larder.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/larder/internal/logger"
)

const (
	defaultDriver         = "sqlite"
	defaultSQLiteDSN      = "larder.db"
	defaultMySQLDSN       = "root:root@tcp(127.0.0.1:3306)/larder?charset=utf8mb4"
	defaultLogFile        = ".larder/larder.log"
	defaultAutoSave       = 500 * time.Millisecond
	defaultStoreTimeout   = 3 * time.Second
	defaultPantryRefresh  = time.Minute
	defaultNotifyCooldown = 5 * time.Second
)

// Config holds every setting of the application.
type Config struct {
	DBDriver       string
	DBDSN          string
	LogLevel       logger.Level
	LogFile        string // "stderr" logs to the console
	AutoSave       time.Duration
	StoreTimeout   time.Duration
	PantryRefresh  time.Duration
	NotifyCooldown time.Duration
}

// Load reads the given .env files (missing files are skipped) into the
// environment and then builds a Config from it. Variables already set in
// the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		DBDriver: strings.ToLower(get("LARDER_DB_DRIVER", defaultDriver)),
		LogFile:  get("LARDER_LOG_FILE", defaultLogFile),
	}

	switch cfg.DBDriver {
	case "sqlite", "sqlite3":
		cfg.DBDSN = get("LARDER_DB_DSN", defaultSQLiteDSN)
	case "mysql":
		cfg.DBDSN = get("LARDER_DB_DSN", defaultMySQLDSN)
	default:
		return Config{}, fmt.Errorf("LARDER_DB_DRIVER: unsupported driver %q (want sqlite or mysql)", cfg.DBDriver)
	}

	level, err := logger.ParseLevel(get("LARDER_LOG_LEVEL", "normal"))
	if err != nil {
		return Config{}, fmt.Errorf("LARDER_LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"LARDER_AUTOSAVE_INTERVAL", defaultAutoSave, &cfg.AutoSave},
		{"LARDER_STORE_TIMEOUT", defaultStoreTimeout, &cfg.StoreTimeout},
		{"LARDER_PANTRY_REFRESH", defaultPantryRefresh, &cfg.PantryRefresh},
		{"LARDER_NOTIFY_COOLDOWN", defaultNotifyCooldown, &cfg.NotifyCooldown},
	}
	for _, d := range durations {
		raw := get(d.key, "")
		if raw == "" {
			*d.dst = d.def
			continue
		}
		v, err := time.ParseDuration(raw)
		if err != nil || v <= 0 {
			return Config{}, fmt.Errorf("%s: %q is not a positive duration", d.key, raw)
		}
		*d.dst = v
	}

	return cfg, nil
}
