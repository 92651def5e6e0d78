package storage

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// TicketConfig is one guild's ticket setup. Exactly one per guild, last
// write wins. The category is optional.
type TicketConfig struct {
	StaffRoleID string `json:"staff_role"`
	CategoryID  string `json:"category_id,omitempty"`
}

// TicketConfigStore keeps per-guild ticket configs in memory with
// write-through to a single JSON file. Load must be called once at process
// start so a restart agrees with what is on disk.
type TicketConfigStore struct {
	mu      sync.RWMutex
	path    string
	configs map[string]TicketConfig
}

var TicketCfg *TicketConfigStore

func NewTicketConfigStore(dir string) *TicketConfigStore {
	_ = os.MkdirAll(dir, 0755)
	return &TicketConfigStore{
		path:    filepath.Join(dir, "staff_roles.json"),
		configs: make(map[string]TicketConfig),
	}
}

// Load reads the config file into memory. A missing or corrupt file loads
// as empty.
func (t *TicketConfigStore) Load() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.configs = make(map[string]TicketConfig)
	data, err := os.ReadFile(t.path)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, &t.configs); err != nil {
		log.Printf("[Store] %s is corrupt (%v) — treating as empty", t.path, err)
		t.configs = make(map[string]TicketConfig)
	}
}

// Get returns the guild's config and whether one exists.
func (t *TicketConfigStore) Get(guildID string) (TicketConfig, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cfg, ok := t.configs[guildID]
	return cfg, ok
}

// Set overwrites the guild's config and persists the whole file.
func (t *TicketConfigStore) Set(guildID string, cfg TicketConfig) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.configs[guildID] = cfg
	data, err := json.MarshalIndent(t.configs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(t.path, data, 0644)
}
