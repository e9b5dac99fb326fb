package storage

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Saver coalizza i salvataggi ravvicinati dei workspace: chi legge una
// cronaca cambia giornata di continuo e scrivere a ogni click sarebbe
// inutile. Ogni Schedule riparte il timer del workspace interessato.
type Saver struct {
	store   *WorkspaceStore
	delay   time.Duration
	mutex   sync.Mutex
	pending map[int64]*Workspace
	timers  map[int64]*time.Timer
}

// NewSaver crea un Saver con il ritardo di coalescenza dato
func NewSaver(store *WorkspaceStore, delay time.Duration) *Saver {
	return &Saver{
		store:   store,
		delay:   delay,
		pending: make(map[int64]*Workspace),
		timers:  make(map[int64]*time.Timer),
	}
}

// Schedule annota un workspace da salvare e fa ripartire il suo timer
func (s *Saver) Schedule(workspace *Workspace) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.pending[workspace.ID] = workspace
	if timer, exists := s.timers[workspace.ID]; exists {
		timer.Stop()
	}
	id := workspace.ID
	s.timers[id] = time.AfterFunc(s.delay, func() {
		s.flush(id)
	})
}

func (s *Saver) flush(id int64) {
	s.mutex.Lock()
	workspace, ok := s.pending[id]
	delete(s.pending, id)
	delete(s.timers, id)
	s.mutex.Unlock()

	if !ok {
		return
	}
	if err := s.store.Update(workspace); err != nil {
		log.Error().Err(err).Int64("workspace", id).Msg("❌ Errore salvataggio workspace")
	} else {
		log.Debug().Int64("workspace", id).Msg("💾 Workspace salvato")
	}
}

// Flush salva subito tutti i workspace in attesa, fermando i timer
func (s *Saver) Flush() {
	s.mutex.Lock()
	var ids []int64
	for id, timer := range s.timers {
		timer.Stop()
		ids = append(ids, id)
	}
	s.mutex.Unlock()

	for _, id := range ids {
		s.flush(id)
	}
}
