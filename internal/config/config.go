package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress       string
	DatabaseURI      string
	AMQPURL          string
	MenuCSVPath      string
	PromotionsPath   string
	TokenSecret      string
	TokenTTL         time.Duration
	WaiterPINHash    string
	KitchenPINHash   string
	AdminPINHash     string
	RetentionHorizon time.Duration
	SweepInterval    time.Duration
	ReadyBoardWindow time.Duration
	SubscriberBuffer int
	ShutdownTimeout  time.Duration
}

const (
	defaultRunAddress       = ":8080"
	defaultTokenSecret      = "change-me-in-production"
	defaultTokenTTL         = 12 * time.Hour
	defaultRetentionHorizon = 24 * time.Hour
	defaultSweepInterval    = time.Hour
	defaultReadyBoardWindow = 10 * time.Minute
	defaultSubscriberBuffer = 16
	defaultShutdownTimeout  = 10 * time.Second
)

// Load parses configuration from flags and environment variables. A .env
// file next to the binary is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:       getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:      getString(lookup, "DATABASE_URI", ""),
		AMQPURL:          getString(lookup, "AMQP_URL", ""),
		MenuCSVPath:      getString(lookup, "MENU_CSV_PATH", "data/menu.csv"),
		PromotionsPath:   getString(lookup, "PROMOTIONS_PATH", "data/promotions.json"),
		TokenSecret:      getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		TokenTTL:         getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		WaiterPINHash:    getString(lookup, "WAITER_PIN_HASH", ""),
		KitchenPINHash:   getString(lookup, "KITCHEN_PIN_HASH", ""),
		AdminPINHash:     getString(lookup, "ADMIN_PIN_HASH", ""),
		RetentionHorizon: getDuration(lookup, "RETENTION_HORIZON", defaultRetentionHorizon),
		SweepInterval:    getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		ReadyBoardWindow: getDuration(lookup, "READY_BOARD_WINDOW", defaultReadyBoardWindow),
		SubscriberBuffer: getInt(lookup, "SUBSCRIBER_BUFFER", defaultSubscriberBuffer),
		ShutdownTimeout:  getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("comanda", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		retentionStr = cfg.RetentionHorizon.String()
		sweepStr     = cfg.SweepInterval.String()
		shutdownStr  = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.AMQPURL, "amqp", cfg.AMQPURL, "AMQP broker URL for the event bridge (optional)")
	fs.StringVar(&cfg.MenuCSVPath, "menu", cfg.MenuCSVPath, "Path to menu CSV file")
	fs.StringVar(&cfg.PromotionsPath, "promotions", cfg.PromotionsPath, "Path to promotions JSON file")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing role tokens")
	fs.StringVar(&retentionStr, "retention", retentionStr, "Age after which orders are purged")
	fs.StringVar(&sweepStr, "sweep-interval", sweepStr, "Interval between retention sweeps")
	fs.StringVar(&shutdownStr, "shutdown-timeout", shutdownStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.SubscriberBuffer, "subscriber-buffer", cfg.SubscriberBuffer, "Buffered events per push subscriber")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.RetentionHorizon, err = time.ParseDuration(retentionStr); err != nil {
		return nil, fmt.Errorf("invalid retention horizon: %w", err)
	}

	if cfg.SweepInterval, err = time.ParseDuration(sweepStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("TOKEN_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read token secret file: %w", err)
		}
		cfg.TokenSecret = string(content)
	}

	if cfg.RetentionHorizon <= 0 {
		cfg.RetentionHorizon = defaultRetentionHorizon
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.ReadyBoardWindow <= 0 {
		cfg.ReadyBoardWindow = defaultReadyBoardWindow
	}

	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = defaultSubscriberBuffer
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

// PINHash returns the stored bcrypt hash for a staff role, empty when the
// role has no PIN configured (login disabled for it).
func (c *Config) PINHash(role string) string {
	switch role {
	case "waiter":
		return c.WaiterPINHash
	case "kitchen":
		return c.KitchenPINHash
	case "admin":
		return c.AdminPINHash
	}
	return ""
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
