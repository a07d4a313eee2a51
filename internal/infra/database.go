package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/amare53/school-sub001/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (sequences, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus schema patches. Also used directly by
// the integration tests against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.School{},
		&model.User{},
		&model.Student{},
		&model.FeeType{},
		&model.CashSession{},
		&model.Payment{},
		&model.CashMovement{},
		&model.Receipt{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle.
// Each statement uses IF NOT EXISTS / guarded DO blocks so re-running on an
// already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Sequence backing the human-readable session numbers (CS-YYYYMMDD-NNNN).
		`CREATE SEQUENCE IF NOT EXISTS cash_session_number_seq`,

		// At most one in_progress session per cashier, enforced at the DB level
		// in addition to the service-level guard.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cash_sessions_one_open') THEN
		    CREATE UNIQUE INDEX idx_cash_sessions_one_open
		        ON cash_sessions (cashier_id)
		        WHERE status = 'in_progress';
		  END IF;
		END $$`,

		// Partial index for the receipt retry cron query.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_receipts_pending_retry') THEN
		    CREATE INDEX idx_receipts_pending_retry
		        ON receipts (next_retry_at)
		        WHERE status = 'error' AND next_retry_at IS NOT NULL;
		  END IF;
		END $$`,

		// Report aggregation scans sessions by school and date.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cash_sessions_school_date') THEN
		    CREATE INDEX idx_cash_sessions_school_date
		        ON cash_sessions (school_id, session_date);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
