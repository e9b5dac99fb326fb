package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"moltonf-server/api"
	"moltonf-server/batch"
	"moltonf-server/config"
	"moltonf-server/storage"
	"moltonf-server/watcher"
)

func main() {
	configPath := flag.String("config", "", "file di configurazione YAML")
	port := flag.Int("port", 0, "porta del server (prevale sulla configurazione)")
	checkDir := flag.String("check", "", "processa in batch una cartella di archivi e termina")
	debug := flag.Bool("debug", false, "abilita log di debug")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	fmt.Println("Moltonf Server v0.1.0")
	fmt.Println("================================")

	// Modalità batch: parsa una cartella di archivi e termina
	if *checkDir != "" {
		runner := batch.NewRunner(*checkDir)
		if _, err := runner.Run(); err != nil {
			log.Fatal().Err(err).Msg("❌ Batch fallito")
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Errore configurazione")
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *debug {
		cfg.Debug = true
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	db, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Errore apertura database")
	}
	defer db.Close()
	log.Info().Str("path", cfg.DatabasePath).Msg("💾 Database pronto")

	storyStore := storage.NewStoryStore(db)
	workspaceStore := storage.NewWorkspaceStore(db)
	debounce := time.Duration(cfg.DebounceMs) * time.Millisecond
	saver := storage.NewSaver(workspaceStore, debounce)
	defer saver.Flush()

	// Watcher sulle cartelle configurate, se presenti
	if len(cfg.ArchiveDirs) > 0 {
		aw, err := watcher.NewArchiveWatcher(watcher.WatcherConfig{
			Paths:        cfg.ArchiveDirs,
			StoryStore:   storyStore,
			DebounceTime: debounce,
			AutoRegister: true,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Errore creazione watcher")
		}
		if err := aw.Start(); err != nil {
			log.Fatal().Err(err).Msg("❌ Errore avvio watcher")
		}
		defer aw.Stop()
	}

	server := api.NewServer(api.ServerConfig{
		Port:           cfg.Port,
		StoryStore:     storyStore,
		WorkspaceStore: workspaceStore,
		Saver:          saver,
		DebounceTime:   debounce,
		EnableCORS:     cfg.EnableCORS,
		Debug:          cfg.Debug,
	})

	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("❌ Errore avvio server")
	}
}
