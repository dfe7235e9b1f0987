package database

import (
	"testing"

	"yamdb/pkg/config"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_SQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: DriverSQLite, SQLitePath: t.TempDir() + "/yamdb.db"}

	db, err := NewDB(cfg)
	require.NoError(t, err)
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestNewDB_UnknownDriver(t *testing.T) {
	_, err := NewDB(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}

func TestNewSQLX_BindType(t *testing.T) {
	db, err := NewSQLiteDB(MemoryDSN(uuid.NewString()), false)
	require.NoError(t, err)

	sqlxDB, err := NewSQLX(db)
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", sqlxDB.DriverName())
	assert.Equal(t, sqlx.QUESTION, sqlx.BindType(sqlxDB.DriverName()))
}
