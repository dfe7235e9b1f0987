package database

import (
	"fmt"

	"yamdb/pkg/config"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewDB opens the database selected by cfg.DBDriver.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case DriverPostgres, "":
		return NewPostgresDB(cfg)
	case DriverSQLite:
		return NewSQLiteDB(fmt.Sprintf("file:%s?_foreign_keys=1", cfg.SQLitePath), cfg.DBLogSQL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// NewSQLiteDB opens a single-connection sqlite database. Used for local runs
// and tests.
func NewSQLiteDB(dsn string, logSQL bool) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), GormConfig(logSQL))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// MemoryDSN names an in-memory sqlite database with foreign keys on.
func MemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)
}

// NewSQLX wraps the gorm connection pool for hand-built queries. The driver
// name tells sqlx which bind style the database expects.
func NewSQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	driverName := "sqlite3"
	if db.Dialector.Name() == DriverPostgres {
		driverName = DriverPostgres
	}
	return sqlx.NewDb(sqlDB, driverName), nil
}
