package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "file:test.db")
		t.Setenv("DATABASE_DRIVER", "sqlite")
		t.Setenv("TIMEZONE", "UTC")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.HTTPAddr != ":8080" {
			t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
		}
		if cfg.AutosaveDelay != 1500*time.Millisecond {
			t.Errorf("AutosaveDelay = %v, want 1.5s", cfg.AutosaveDelay)
		}
		if cfg.SessionTTL != 7*24*time.Hour {
			t.Errorf("SessionTTL = %v", cfg.SessionTTL)
		}
		if cfg.Timezone != time.UTC {
			t.Errorf("Timezone = %v, want UTC", cfg.Timezone)
		}
		if err := cfg.RequireSecret(); !errors.Is(err, ErrMissing) {
			t.Errorf("RequireSecret() = %v, want ErrMissing", err)
		}
	})

	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		if _, err := Load(); !errors.Is(err, ErrMissing) {
			t.Fatalf("Load() error = %v, want ErrMissing", err)
		}
	})

	t.Run("bad driver", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "x")
		t.Setenv("DATABASE_DRIVER", "mysql")
		if _, err := Load(); err == nil {
			t.Fatal("Load() expected error for unsupported driver")
		}
	})

	t.Run("cors origins and durations", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "x")
		t.Setenv("DATABASE_DRIVER", "postgres")
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
		t.Setenv("AUTOSAVE_DELAY", "2s")
		t.Setenv("JWT_SECRET", "s3cret")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
			t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
		}
		if cfg.AutosaveDelay != 2*time.Second {
			t.Errorf("AutosaveDelay = %v", cfg.AutosaveDelay)
		}
		if err := cfg.RequireSecret(); err != nil {
			t.Errorf("RequireSecret() = %v", err)
		}
	})

	t.Run("negative duration", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "x")
		t.Setenv("LOGIN_CODE_TTL", "-1m")
		if _, err := Load(); err == nil {
			t.Fatal("Load() expected error for negative duration")
		}
	})

	t.Run("journal overlay file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "journal.toml")
		body := `
palette = ["#112233", "#445566"]

[[milestones]]
days = 10
label = "Ten"

[[milestones]]
days = 2
label = "Two"
`
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("DATABASE_URL", "x")
		t.Setenv("JOURNAL_CONFIG", path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(cfg.Journal.Milestones) != 2 || cfg.Journal.Milestones[0].Days != 2 {
			t.Errorf("Milestones = %+v, want sorted by days", cfg.Journal.Milestones)
		}
		if len(cfg.Journal.Palette) != 2 {
			t.Errorf("Palette = %v", cfg.Journal.Palette)
		}
	})
}

func TestReadJournal_Invalid(t *testing.T) {
	cases := map[string]string{
		"zero days":  "[[milestones]]\ndays = 0\nlabel = \"x\"\n",
		"no label":   "[[milestones]]\ndays = 3\n",
		"duplicate":  "[[milestones]]\ndays = 3\nlabel = \"a\"\n[[milestones]]\ndays = 3\nlabel = \"b\"\n",
		"bad color":  "palette = [\"red\"]\n",
		"bad syntax": "palette = [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadJournal(strings.NewReader(body)); err == nil {
				t.Errorf("ReadJournal() expected error")
			}
		})
	}
}
