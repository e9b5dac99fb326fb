package land

import "sync"

var (
	registryMutex sync.RWMutex
	registry      = make(map[string]Rules)
)

// RegisterRules registra il regolamento di un land.
// Chiamata dagli init() delle varianti.
func RegisterRules(rules Rules) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	registry[rules.LandID()] = rules
}

// RulesFor restituisce il regolamento del land indicato.
// Un landId sconosciuto o vuoto ricade sul regolamento di base.
func RulesFor(landID string) Rules {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	if rules, ok := registry[landID]; ok {
		return rules
	}
	return defaultRules{}
}
