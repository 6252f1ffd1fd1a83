package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Settings sources. Redis wins over the YAML file when both are set.
	SettingsFile string
	RedisURL     string
	SettingsKey  string

	// Per-field overrides applied on top of the settings store.
	EndpointOverride string
	ModeOverride     string
	LobbyKeyOverride *uint64

	PingInterval time.Duration
	DialTimeout  time.Duration
	WriteTimeout time.Duration

	MetricsAddr string
	MessagesDir string
}

// Load reads an optional .env file, then the process environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the config from the environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		SettingsFile: "shax-settings.yaml",
		PingInterval: 30 * time.Second,
		DialTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	if v := strings.TrimSpace(os.Getenv("SHAX_SETTINGS_FILE")); v != "" {
		cfg.SettingsFile = v
	}
	cfg.RedisURL = strings.TrimSpace(os.Getenv("SHAX_REDIS_URL"))
	cfg.SettingsKey = strings.TrimSpace(os.Getenv("SHAX_SETTINGS_KEY"))

	cfg.EndpointOverride = strings.TrimSpace(os.Getenv("SHAX_URL"))
	cfg.ModeOverride = strings.TrimSpace(os.Getenv("SHAX_MODE"))
	if v := strings.TrimSpace(os.Getenv("SHAX_LOBBY_KEY")); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("SHAX_LOBBY_KEY must be a non-negative integer: %w", err)
		}
		cfg.LobbyKeyOverride = &n
	}

	var err error
	if cfg.PingInterval, err = durationEnv("SHAX_PING_INTERVAL", cfg.PingInterval, true); err != nil {
		return nil, err
	}
	if cfg.DialTimeout, err = durationEnv("SHAX_DIAL_TIMEOUT", cfg.DialTimeout, false); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = durationEnv("SHAX_WRITE_TIMEOUT", cfg.WriteTimeout, false); err != nil {
		return nil, err
	}

	cfg.MetricsAddr = strings.TrimSpace(os.Getenv("METRICS_ADDR"))
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("SHAX_MESSAGES_DIR"))

	if cfg.EndpointOverride != "" && !strings.HasPrefix(cfg.EndpointOverride, "ws://") && !strings.HasPrefix(cfg.EndpointOverride, "wss://") {
		return nil, errors.New("SHAX_URL must start with ws:// or wss://")
	}
	return cfg, nil
}

// durationEnv accepts Go durations ("1500ms") or plain seconds ("30").
// allowZero lets 0 disable the feature.
func durationEnv(key string, def time.Duration, allowZero bool) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		n, nerr := strconv.Atoi(v)
		if nerr != nil {
			return 0, fmt.Errorf("%s: invalid duration %q", key, v)
		}
		d = time.Duration(n) * time.Second
	}
	if d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return d, nil
}
