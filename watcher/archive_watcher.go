package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"moltonf-server/storage"
)

// ArchiveWatcher monitora directory di archivi XML e registra
// automaticamente nel catalogo gli archivi nuovi o modificati
type ArchiveWatcher struct {
	watcher      *fsnotify.Watcher
	watchedPaths []string
	storyStore   *storage.StoryStore
	debounceTime time.Duration
	eventChan    chan WatchEvent
	stopChan     chan bool
	debounce     map[string]*time.Timer
	mutex        sync.Mutex
	isRunning    bool
}

// WatchEvent rappresenta un evento del watcher
type WatchEvent struct {
	Type      string    `json:"type"` // "created", "modified", "deleted", "renamed", "story_registered", "parse_error"
	Path      string    `json:"path"`
	StoryID   int64     `json:"storyId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// WatcherConfig configurazione per il watcher
type WatcherConfig struct {
	Paths        []string            // Directory da monitorare
	StoryStore   *storage.StoryStore // Catalogo in cui registrare gli archivi
	DebounceTime time.Duration       // Tempo di debounce (default: 500ms)
	AutoRegister bool                // Registra automaticamente gli archivi validi
}

// NewArchiveWatcher crea un nuovo watcher di archivi
func NewArchiveWatcher(config WatcherConfig) (*ArchiveWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("errore creazione watcher: %w", err)
	}

	// Default debounce time
	if config.DebounceTime == 0 {
		config.DebounceTime = 500 * time.Millisecond
	}

	var storyStore *storage.StoryStore
	if config.AutoRegister {
		storyStore = config.StoryStore
	}

	aw := &ArchiveWatcher{
		watcher:      watcher,
		watchedPaths: config.Paths,
		storyStore:   storyStore,
		debounceTime: config.DebounceTime,
		eventChan:    make(chan WatchEvent, 100),
		stopChan:     make(chan bool),
		debounce:     make(map[string]*time.Timer),
		isRunning:    false,
	}

	// Aggiungi i path da monitorare
	for _, path := range config.Paths {
		if err := watcher.Add(path); err != nil {
			return nil, fmt.Errorf("errore aggiunta path %s: %w", path, err)
		}
		log.Info().Str("path", path).Msg("👀 Watching")
	}

	return aw, nil
}

// Start avvia il watcher
func (aw *ArchiveWatcher) Start() error {
	aw.mutex.Lock()
	defer aw.mutex.Unlock()
	if aw.isRunning {
		return fmt.Errorf("watcher già in esecuzione")
	}

	aw.isRunning = true
	log.Info().Msg("🚀 Archive watcher avviato!")

	go func() {
		for {
			select {
			case event, ok := <-aw.watcher.Events:
				if !ok {
					return
				}

				// Ignora file non .xml
				if !strings.HasSuffix(strings.ToLower(event.Name), ".xml") {
					continue
				}

				// Determina tipo evento
				var eventType string
				switch {
				case event.Op&fsnotify.Create == fsnotify.Create:
					eventType = "created"
				case event.Op&fsnotify.Write == fsnotify.Write:
					eventType = "modified"
				case event.Op&fsnotify.Remove == fsnotify.Remove:
					eventType = "deleted"
				case event.Op&fsnotify.Rename == fsnotify.Rename:
					eventType = "renamed"
				default:
					continue
				}

				watchEvent := WatchEvent{
					Type:      eventType,
					Path:      event.Name,
					Timestamp: time.Now(),
				}

				log.Info().Str("file", filepath.Base(event.Name)).Msg("📝 Archivio " + eventType)

				// Invia evento al canale
				aw.emit(watchEvent)

				// Debounce per la registrazione
				name := event.Name
				kind := eventType
				aw.mutex.Lock()
				if timer, exists := aw.debounce[name]; exists {
					timer.Stop()
				}
				aw.debounce[name] = time.AfterFunc(aw.debounceTime, func() {
					aw.mutex.Lock()
					delete(aw.debounce, name)
					running := aw.isRunning
					aw.mutex.Unlock()
					if !running {
						return
					}
					// Registra solo archivi nuovi o modificati
					if (kind == "modified" || kind == "created") && aw.storyStore != nil {
						aw.register(name)
					}
				})
				aw.mutex.Unlock()

			case err, ok := <-aw.watcher.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Msg("❌ Errore watcher")

			case <-aw.stopChan:
				log.Info().Msg("🛑 Archive watcher fermato")
				return
			}
		}
	}()

	return nil
}

// Stop ferma il watcher. Il canale degli eventi resta aperto:
// i timer di debounce ancora armati vengono fermati e gli eventi
// tardivi scartati, mai inviati dopo lo stop
func (aw *ArchiveWatcher) Stop() error {
	aw.mutex.Lock()
	if !aw.isRunning {
		aw.mutex.Unlock()
		return fmt.Errorf("watcher non in esecuzione")
	}

	aw.isRunning = false
	for name, timer := range aw.debounce {
		timer.Stop()
		delete(aw.debounce, name)
	}
	aw.mutex.Unlock()

	aw.stopChan <- true

	if err := aw.watcher.Close(); err != nil {
		return fmt.Errorf("errore chiusura watcher: %w", err)
	}
	return nil
}

// emit consegna un evento solo se il watcher è ancora attivo
func (aw *ArchiveWatcher) emit(event WatchEvent) {
	aw.mutex.Lock()
	defer aw.mutex.Unlock()
	if !aw.isRunning {
		return
	}
	select {
	case aw.eventChan <- event:
	default:
		log.Warn().Str("path", event.Path).Msg("⚠️ Canale eventi pieno, evento scartato")
	}
}

// Events restituisce il canale degli eventi
func (aw *ArchiveWatcher) Events() <-chan WatchEvent {
	return aw.eventChan
}

// IsRunning verifica se il watcher è attivo
func (aw *ArchiveWatcher) IsRunning() bool {
	aw.mutex.Lock()
	defer aw.mutex.Unlock()
	return aw.isRunning
}

// WatchedPaths restituisce i path attualmente monitorati
func (aw *ArchiveWatcher) WatchedPaths() []string {
	aw.mutex.Lock()
	defer aw.mutex.Unlock()
	return append([]string(nil), aw.watchedPaths...)
}

// AddPath aggiunge un path da monitorare
func (aw *ArchiveWatcher) AddPath(path string) error {
	if err := aw.watcher.Add(path); err != nil {
		return fmt.Errorf("errore aggiunta path: %w", err)
	}
	aw.mutex.Lock()
	aw.watchedPaths = append(aw.watchedPaths, path)
	aw.mutex.Unlock()
	log.Info().Str("path", path).Msg("👀 Watching")
	return nil
}

// RemovePath rimuove un path dal monitoraggio
func (aw *ArchiveWatcher) RemovePath(path string) error {
	if err := aw.watcher.Remove(path); err != nil {
		return fmt.Errorf("errore rimozione path: %w", err)
	}

	// Rimuovi dalla lista
	aw.mutex.Lock()
	for i, p := range aw.watchedPaths {
		if p == path {
			aw.watchedPaths = append(aw.watchedPaths[:i], aw.watchedPaths[i+1:]...)
			break
		}
	}
	aw.mutex.Unlock()

	log.Info().Str("path", path).Msg("👁️  Stopped watching")
	return nil
}

// register parsa l'archivio e lo inserisce nel catalogo
func (aw *ArchiveWatcher) register(filePath string) {
	log.Info().Str("file", filepath.Base(filePath)).Msg("🔄 Registrazione archivio")

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Error().Err(err).Str("file", filepath.Base(filePath)).Msg("❌ Lettura fallita")
		return
	}

	start := time.Now()
	entry, err := aw.storyStore.Add("", string(data))
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("file", filepath.Base(filePath)).Dur("elapsed", elapsed).Msg("❌ Registrazione fallita")

		// Invia evento di errore ma non bloccare il watcher
		aw.emit(WatchEvent{
			Type:      "parse_error",
			Path:      filePath,
			Timestamp: time.Now(),
		})
		return
	}

	log.Info().Int64("storyId", entry.ID).Str("village", entry.Name).Dur("elapsed", elapsed).Msg("✅ Archivio registrato")

	// Invia evento di successo
	aw.emit(WatchEvent{
		Type:      "story_registered",
		Path:      filePath,
		StoryID:   entry.ID,
		Timestamp: time.Now(),
	})
}
