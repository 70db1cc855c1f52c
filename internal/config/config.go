package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissing = errors.New("missing required setting")

type Config struct {
	HTTPAddr             string
	DatabaseDriver       string // postgres | sqlite
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret    string
	SessionTTL   time.Duration
	LoginCodeTTL time.Duration

	Timezone           *time.Location
	AutosaveDelay      time.Duration
	WorkerPollInterval time.Duration
	LogLevel           string

	Journal Journal
}

// Load reads .env (when present) and the process environment. DATABASE_URL
// is always required; JWT_SECRET is checked by RequireSecret because only
// the server needs it.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseDriver:       strings.ToLower(getenv("DATABASE_DRIVER", "postgres")),
		DatabaseURL:          getenv("DATABASE_URL", ""),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		JWTSecret:            getenv("JWT_SECRET", ""),
		LogLevel:             getenv("LOG_LEVEL", "info"),
		Journal:              DefaultJournal(),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("%w: DATABASE_URL", ErrMissing)
	}
	switch cfg.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	for _, o := range strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	var err error
	if cfg.SessionTTL, err = getduration("SESSION_TTL", 7*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.LoginCodeTTL, err = getduration("LOGIN_CODE_TTL", 15*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.AutosaveDelay, err = getduration("AUTOSAVE_DELAY", 1500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.WorkerPollInterval, err = getduration("WORKER_POLL_INTERVAL", 800*time.Millisecond); err != nil {
		return Config{}, err
	}

	tz := getenv("TIMEZONE", "Local")
	cfg.Timezone, err = time.LoadLocation(tz)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	if path := getenv("JOURNAL_CONFIG", ""); path != "" {
		j, err := ReadJournalFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg.Journal = j
	}

	return cfg, nil
}

// RequireSecret reports whether the settings only the HTTP server needs are present.
func (c Config) RequireSecret() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET", ErrMissing)
	}
	return nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getduration(key string, def time.Duration) (time.Duration, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return d, nil
}
