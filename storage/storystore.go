package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"moltonf-server/story"
)

// StoryEntry voce di catalogo di una cronaca salvata
type StoryEntry struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// StoryStore archivia le cronache come XML grezzo e le riparsa alla
// lettura, tenendo in memoria una cache delle Story già parsate.
// Salvare il testo originale evita di dover serializzare l'unione
// discriminata degli elementi.
type StoryStore struct {
	db    *sql.DB
	mutex sync.RWMutex
	cache map[int64]*story.Story
}

// NewStoryStore crea uno StoryStore sul database dato
func NewStoryStore(db *sql.DB) *StoryStore {
	return &StoryStore{
		db:    db,
		cache: make(map[int64]*story.Story),
	}
}

// Add registra una nuova cronaca. L'XML viene parsato subito: un
// archivio non valido non entra mai nel catalogo.
func (s *StoryStore) Add(name, archiveXML string) (*StoryEntry, error) {
	parsed, err := story.ParseArchive(archiveXML)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = parsed.VillageFullName
	}

	createdAt := time.Now()
	result, err := s.db.Exec(
		"INSERT INTO stories (name, archive_xml, created_at) VALUES (?, ?, ?)",
		name, archiveXML, createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("errore inserimento cronaca: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("errore inserimento cronaca: %w", err)
	}

	s.mutex.Lock()
	s.cache[id] = parsed
	s.mutex.Unlock()

	return &StoryEntry{ID: id, Name: name, CreatedAt: createdAt}, nil
}

// Entries restituisce il catalogo delle cronache, dalla più recente
func (s *StoryStore) Entries() ([]*StoryEntry, error) {
	rows, err := s.db.Query("SELECT id, name, created_at FROM stories ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("errore lettura catalogo: %w", err)
	}
	defer rows.Close()

	var entries []*StoryEntry
	for rows.Next() {
		entry := &StoryEntry{}
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("errore lettura catalogo: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Entry restituisce la voce di catalogo con l'id dato
func (s *StoryStore) Entry(id int64) (*StoryEntry, error) {
	entry := &StoryEntry{}
	err := s.db.QueryRow("SELECT id, name, created_at FROM stories WHERE id = ?", id).
		Scan(&entry.ID, &entry.Name, &entry.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("errore lettura cronaca: %w", err)
	}
	return entry, nil
}

// Story restituisce la cronaca parsata con l'id dato
func (s *StoryStore) Story(id int64) (*story.Story, error) {
	s.mutex.RLock()
	cached, ok := s.cache[id]
	s.mutex.RUnlock()
	if ok {
		return cached, nil
	}

	var archiveXML string
	err := s.db.QueryRow("SELECT archive_xml FROM stories WHERE id = ?", id).Scan(&archiveXML)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("errore lettura cronaca: %w", err)
	}

	parsed, err := story.ParseArchive(archiveXML)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	s.cache[id] = parsed
	s.mutex.Unlock()

	return parsed, nil
}

// Remove elimina una cronaca dal catalogo e dalla cache
func (s *StoryStore) Remove(id int64) error {
	result, err := s.db.Exec("DELETE FROM stories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("errore eliminazione cronaca: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("errore eliminazione cronaca: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.mutex.Lock()
	delete(s.cache, id)
	s.mutex.Unlock()
	return nil
}
