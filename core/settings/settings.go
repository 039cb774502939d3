// Package settings implements the flat key-value settings document shared
// by every view: visible models, token ceiling, and feature flags. The
// backing file is a single JSON object overwritten wholesale on every
// save; the last writer wins.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Keys stored in the settings document.
const (
	KeyVisibleModels         = "visible_models"
	KeyShowPricing           = "show_pricing"
	KeyMaxTokens             = "max_tokens"
	KeyComparisonMode        = "comparison_mode"
	KeyGeneratePromptEnabled = "generate_prompt_enabled"
)

// Defaults returned when a key is missing from the document.
const (
	DefaultMaxTokens             = 1000
	DefaultShowPricing           = false
	DefaultComparisonMode        = false
	DefaultGeneratePromptEnabled = false
)

// DefaultVisibleModels is the model list used when none is configured.
var DefaultVisibleModels = []string{"GPT-4o"}

// Store reads and writes the settings document with in-memory caching.
// An absent backing file yields defaults silently; a corrupt one yields
// defaults with a logged warning, so operator error is visible without
// taking the application down.
type Store struct {
	path string

	mu     sync.Mutex
	cache  map[string]any
	loaded bool
}

// New creates a Store backed by the JSON document at path. The file is
// not touched until the first read or write.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// load returns the cached document, reading it from disk on first use.
// Callers must hold s.mu.
func (s *Store) load() map[string]any {
	if s.loaded {
		return s.cache
	}

	s.cache = map[string]any{}
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("settings file unreadable, using defaults", "path", s.path, "error", err)
		}
		return s.cache
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("settings file corrupt, using defaults", "path", s.path, "error", err)
		return s.cache
	}

	s.cache = doc
	return s.cache
}

// save writes the whole document back to disk and refreshes the cache.
// Callers must hold s.mu.
func (s *Store) save(doc map[string]any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating settings directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}

	s.cache = doc
	s.loaded = true
	return nil
}

// Get returns the value stored under key, or def when the key is absent
// or the backing file is missing or unreadable.
func (s *Store) Get(key string, def any) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.load()[key]; ok {
		return v
	}
	return def
}

// Set stores a single value and rewrites the document.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	doc[key] = value
	return s.save(doc)
}

// Update merges multiple values into the document in one write.
func (s *Store) Update(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	for k, v := range values {
		doc[k] = v
	}
	return s.save(doc)
}

// Invalidate drops the in-memory cache so the next read hits the disk.
// The file watcher calls this when another process edits the file.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.cache = nil
}

// VisibleModels returns the model display names exposed to users.
func (s *Store) VisibleModels() []string {
	v := s.Get(KeyVisibleModels, nil)
	if v == nil {
		return append([]string(nil), DefaultVisibleModels...)
	}

	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return append([]string(nil), DefaultVisibleModels...)
}

// SetVisibleModels replaces the visible model list.
func (s *Store) SetVisibleModels(models []string) error {
	return s.Set(KeyVisibleModels, models)
}

// ShowPricing reports whether cost details are shown to users.
func (s *Store) ShowPricing() bool {
	return s.getBool(KeyShowPricing, DefaultShowPricing)
}

// SetShowPricing toggles pricing visibility.
func (s *Store) SetShowPricing(visible bool) error {
	return s.Set(KeyShowPricing, visible)
}

// MaxTokens returns the configured completion-token ceiling.
func (s *Store) MaxTokens() int {
	v := s.Get(KeyMaxTokens, nil)
	switch n := v.(type) {
	case int:
		if n > 0 {
			return n
		}
	case float64:
		// encoding/json decodes numbers as float64.
		if n > 0 {
			return int(n)
		}
	}
	return DefaultMaxTokens
}

// SetMaxTokens updates the completion-token ceiling.
func (s *Store) SetMaxTokens(maxTokens int) error {
	return s.Set(KeyMaxTokens, maxTokens)
}

// ComparisonMode reports whether side-by-side comparison is enabled.
func (s *Store) ComparisonMode() bool {
	return s.getBool(KeyComparisonMode, DefaultComparisonMode)
}

// SetComparisonMode toggles comparison mode.
func (s *Store) SetComparisonMode(enabled bool) error {
	return s.Set(KeyComparisonMode, enabled)
}

// GeneratePromptEnabled reports whether the system-prompt generator is
// exposed to users.
func (s *Store) GeneratePromptEnabled() bool {
	return s.getBool(KeyGeneratePromptEnabled, DefaultGeneratePromptEnabled)
}

// SetGeneratePromptEnabled toggles the system-prompt generator.
func (s *Store) SetGeneratePromptEnabled(enabled bool) error {
	return s.Set(KeyGeneratePromptEnabled, enabled)
}

func (s *Store) getBool(key string, def bool) bool {
	if b, ok := s.Get(key, def).(bool); ok {
		return b
	}
	return def
}
