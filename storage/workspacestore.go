package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Workspace segnalibro di lettura di una cronaca: punto di vista scelto
// e avanzamento della lettura.
// DayProgress nil significa lettura conclusa: ogni giornata è sbloccata.
type Workspace struct {
	ID              int64     `json:"id"`
	StoryID         int64     `json:"storyId"`
	Name            string    `json:"name"`
	CurrentDay      int       `json:"currentDay"`
	DayProgress     *int      `json:"dayProgress"`
	PlayerCharacter string    `json:"playerCharacter"`
	LastModified    time.Time `json:"lastModified"`
}

// WorkspaceStore archivia i workspace su SQLite
type WorkspaceStore struct {
	db *sql.DB
}

// NewWorkspaceStore crea un WorkspaceStore sul database dato
func NewWorkspaceStore(db *sql.DB) *WorkspaceStore {
	return &WorkspaceStore{db: db}
}

// Add registra un nuovo workspace e ne valorizza ID e LastModified
func (s *WorkspaceStore) Add(workspace *Workspace) error {
	workspace.LastModified = time.Now()
	result, err := s.db.Exec(
		`INSERT INTO workspaces (story_id, name, current_day, day_progress, player_character, last_modified)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		workspace.StoryID, workspace.Name, workspace.CurrentDay,
		dayProgressValue(workspace.DayProgress), workspace.PlayerCharacter, workspace.LastModified,
	)
	if err != nil {
		return fmt.Errorf("errore inserimento workspace: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("errore inserimento workspace: %w", err)
	}
	workspace.ID = id
	return nil
}

// Workspace restituisce il workspace con l'id dato
func (s *WorkspaceStore) Workspace(id int64) (*Workspace, error) {
	row := s.db.QueryRow(
		`SELECT id, story_id, name, current_day, day_progress, player_character, last_modified
		 FROM workspaces WHERE id = ?`, id)
	return scanWorkspace(row)
}

// Workspaces elenca i workspace, dal più recentemente usato
func (s *WorkspaceStore) Workspaces() ([]*Workspace, error) {
	rows, err := s.db.Query(
		`SELECT id, story_id, name, current_day, day_progress, player_character, last_modified
		 FROM workspaces ORDER BY last_modified DESC`)
	if err != nil {
		return nil, fmt.Errorf("errore lettura workspace: %w", err)
	}
	defer rows.Close()

	var workspaces []*Workspace
	for rows.Next() {
		workspace, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, workspace)
	}
	return workspaces, rows.Err()
}

// Update riscrive un workspace esistente aggiornandone LastModified
func (s *WorkspaceStore) Update(workspace *Workspace) error {
	workspace.LastModified = time.Now()
	result, err := s.db.Exec(
		`UPDATE workspaces
		 SET name = ?, current_day = ?, day_progress = ?, player_character = ?, last_modified = ?
		 WHERE id = ?`,
		workspace.Name, workspace.CurrentDay, dayProgressValue(workspace.DayProgress),
		workspace.PlayerCharacter, workspace.LastModified, workspace.ID,
	)
	if err != nil {
		return fmt.Errorf("errore aggiornamento workspace: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("errore aggiornamento workspace: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Remove elimina il workspace con l'id dato
func (s *WorkspaceStore) Remove(id int64) error {
	result, err := s.db.Exec("DELETE FROM workspaces WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("errore eliminazione workspace: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("errore eliminazione workspace: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkspace(row rowScanner) (*Workspace, error) {
	workspace := &Workspace{}
	var dayProgress sql.NullInt64
	err := row.Scan(
		&workspace.ID, &workspace.StoryID, &workspace.Name, &workspace.CurrentDay,
		&dayProgress, &workspace.PlayerCharacter, &workspace.LastModified,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("errore lettura workspace: %w", err)
	}
	if dayProgress.Valid {
		value := int(dayProgress.Int64)
		workspace.DayProgress = &value
	}
	return workspace, nil
}

func dayProgressValue(dayProgress *int) any {
	if dayProgress == nil {
		return nil
	}
	return *dayProgress
}
