package store

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	dsn := fmt.Sprintf("file:%s/test.db?cache=shared&mode=rwc&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", t.TempDir())
	d, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	// Create tables manually for test
	_, err = d.Exec(`
		CREATE TABLE farms (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id      TEXT NOT NULL,
			name         TEXT NOT NULL,
			location     TEXT NOT NULL DEFAULT '',
			area         TEXT NOT NULL DEFAULT '',
			main_crops   TEXT NOT NULL DEFAULT '',
			farming_type TEXT NOT NULL DEFAULT '',
			water_source TEXT NOT NULL DEFAULT '',
			created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE fields (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			farm_id           INTEGER NOT NULL REFERENCES farms(id) ON DELETE CASCADE,
			user_id           TEXT NOT NULL,
			name              TEXT NOT NULL,
			crop_type         TEXT NOT NULL DEFAULT '',
			area              TEXT NOT NULL DEFAULT '',
			irrigation_method TEXT NOT NULL DEFAULT '',
			notes             TEXT NOT NULL DEFAULT '',
			last_watering_at  DATETIME,
			created_at        DATETIME NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE field_images (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			field_id    INTEGER NOT NULL REFERENCES fields(id) ON DELETE CASCADE,
			user_id     TEXT NOT NULL,
			storage_key TEXT NOT NULL,
			url         TEXT NOT NULL,
			mime_type   TEXT NOT NULL DEFAULT 'image/jpeg',
			created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE plant_inspections (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			field_id   INTEGER NOT NULL REFERENCES fields(id) ON DELETE CASCADE,
			user_id    TEXT NOT NULL,
			report     TEXT NOT NULL,
			rating     INTEGER,
			created_at DATETIME DEFAULT (datetime('now'))
		);
	`)
	require.NoError(t, err)

	return d
}
