package db

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRaw(t *testing.T) *sql.DB {
	dsn := fmt.Sprintf("file:%s/test.db?cache=shared&mode=rwc&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", t.TempDir())
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })
	return db
}

func TestOpen(t *testing.T) {
	db, err := Open(t.TempDir() + "/masar.db")
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	err = db.Ping()
	assert.NoError(t, err)
}

func TestMigrationsApply(t *testing.T) {
	db := openRaw(t)

	err := runMigrations(db)
	require.NoError(t, err)

	var tableName string
	for _, table := range []string{"farms", "fields", "field_images", "plant_inspections"} {
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&tableName)
		assert.NoError(t, err)
		assert.Equal(t, table, tableName)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db := openRaw(t)

	require.NoError(t, runMigrations(db))
	assert.NoError(t, runMigrations(db))
}
