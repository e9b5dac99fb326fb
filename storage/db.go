package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound l'elemento richiesto non esiste nel database
var ErrNotFound = errors.New("elemento non trovato")

const schema = `
CREATE TABLE IF NOT EXISTS stories (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	archive_xml TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS workspaces (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	story_id         INTEGER NOT NULL REFERENCES stories(id) ON DELETE CASCADE,
	name             TEXT NOT NULL,
	current_day      INTEGER NOT NULL DEFAULT 0,
	day_progress     INTEGER,
	player_character TEXT NOT NULL,
	last_modified    TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_workspaces_last_modified ON workspaces(last_modified);
`

// Open apre (o crea) il database SQLite e applica lo schema
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("errore apertura database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("errore inizializzazione schema: %w", err)
	}
	return db, nil
}
