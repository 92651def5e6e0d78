// Package lang holds the user-facing message catalog. Messages live in a
// yaml file keyed by language, with {placeholder} substitution.
package lang

import (
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	mu       sync.RWMutex
	messages map[string]string
)

type catalog struct {
	ActiveLanguage string                       `yaml:"active_language"`
	Languages      map[string]map[string]string `yaml:",inline"`
}

// Load reads the catalog file. A missing file leaves the catalog empty so
// T falls back to rendering the key itself.
func Load(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[lang] Could not read %s: %v — using empty translations", path, err)
		set(make(map[string]string))
		return
	}

	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		log.Fatalf("[lang] Failed to parse %s: %v", path, err)
	}

	active := c.ActiveLanguage
	if active == "" {
		active = "en"
	}
	block, ok := c.Languages[active]
	if !ok {
		log.Printf("[lang] Language %q not found in %s — falling back to \"en\"", active, path)
		block = c.Languages["en"]
	}
	set(block)
	log.Printf("[lang] Loaded language %q (%d keys)", active, len(block))
}

func set(m map[string]string) {
	if m == nil {
		m = make(map[string]string)
	}
	mu.Lock()
	messages = m
	mu.Unlock()
}

// T looks up a message and substitutes {name} placeholders from the given
// name/value pairs.
func T(key string, pairs ...string) string {
	mu.RLock()
	s, ok := messages[key]
	mu.RUnlock()

	if !ok {
		return "{" + key + "}"
	}
	for j := 0; j+1 < len(pairs); j += 2 {
		s = strings.ReplaceAll(s, "{"+pairs[j]+"}", pairs[j+1])
	}
	return s
}
