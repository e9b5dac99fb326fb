package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config configurazione del server
type Config struct {
	Port         int      `yaml:"port"`
	Debug        bool     `yaml:"debug"`
	EnableCORS   bool     `yaml:"enableCors"`
	DatabasePath string   `yaml:"databasePath"`
	ArchiveDirs  []string `yaml:"archiveDirs"`
	DebounceMs   int      `yaml:"debounceMs"`
}

// Default restituisce la configurazione di base
func Default() *Config {
	return &Config{
		Port:         8080,
		Debug:        false,
		EnableCORS:   true,
		DatabasePath: "moltonf.db",
		DebounceMs:   500,
	}
}

// Load legge la configurazione da un file YAML, partendo dai default.
// Un path vuoto restituisce i soli default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("errore lettura configurazione: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("errore parsing configurazione: %w", err)
	}
	return cfg, nil
}
