package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"inkwell/internal/config"
	"inkwell/internal/db"
	"inkwell/internal/journal"
	"inkwell/internal/logging"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

var timeNow = time.Now

var rootCmd = &cobra.Command{
	Use:           "inkwell",
	Short:         "Journal service with day streaks and milestones",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of inkwell",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd, serveCmd, migrateCmd, streakCmd, writeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// runtime is what every command needs: settings, a logger and the database.
type runtime struct {
	cfg    config.Config
	logger *slog.Logger
	db     *gorm.DB
}

func setup(migrate bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)

	gdb, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DatabaseDriver, err)
	}
	if migrate {
		if err := db.AutoMigrateAndIndexes(gdb); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &runtime{cfg: cfg, logger: logger, db: gdb}, nil
}

func (rt *runtime) store(hub *journal.Hub) *journal.Store {
	return &journal.Store{
		Repo:       &journal.GormRepository{DB: rt.db},
		Logger:     rt.logger,
		Hub:        hub,
		Milestones: rt.cfg.Journal.JournalMilestones(),
		Palette:    rt.cfg.Journal.Palette,
	}
}

func (rt *runtime) close() {
	if sqlDB, err := rt.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
