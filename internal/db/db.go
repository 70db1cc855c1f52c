package db

import (
	"fmt"

	"inkwell/internal/auth"
	"inkwell/internal/jobs"
	"inkwell/internal/journal"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a database with the named driver: "postgres" for
// deployments, "sqlite" for local use and tests.
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows one writer; a single connection also keeps :memory: databases shared
		sqlDB.SetMaxOpenConns(1)
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&journal.Entry{},
		&journal.Update{},
		&journal.Event{},
		&journal.TagColor{},
		&journal.Award{},
		&jobs.Job{},
		&auth.User{},
		&auth.LoginCode{},
	); err != nil {
		return err
	}

	// Event idempotency: unique per owner + idempotency_key where not null
	stmts := []string{
		`create unique index if not exists uq_events_owner_idem
on entry_events(owner_id, idempotency_key)
where idempotency_key is not null;`,
		`create index if not exists idx_entries_owner_day on entries(owner_id, day);`,
		`create index if not exists idx_entries_owner_created on entries(owner_id, created_at desc);`,
		`create index if not exists idx_updates_entry_created on entry_updates(entry_id, created_at);`,
		`create index if not exists idx_events_entry on entry_events(entry_id, id);`,
		`create index if not exists idx_login_codes_email on login_codes(email, created_at desc);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
	}
	if gdb.Dialector.Name() == "postgres" {
		stmts = append(stmts,
			// tag filter (GIN for text[])
			`create index if not exists idx_entries_tags on entries using gin (tags);`,
		)
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
