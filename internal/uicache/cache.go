// Package uicache persists where labels were last found on screen, so later
// runs can replay the recorded swipes and tap without any OCR.
package uicache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Entry records how a label was reached: the number of swipes from the top
// of the list, then the tap coordinates.
type Entry struct {
	Swipes int    `json:"swipes"`
	Coords [2]int `json:"coords"`
}

// Cache is a label → location store backed by one JSON file per device.
// Entries never expire; stale entries are removed only by Delete or Clear.
type Cache struct {
	locations map[string]Entry
	path      string
}

// New creates an empty cache backed by the given file path.
func New(path string) *Cache {
	return &Cache{
		locations: make(map[string]Entry),
		path:      path,
	}
}

// Load reads the cache file. A missing file leaves the cache empty; an
// unreadable or corrupt file is logged and also leaves the cache empty, so
// a damaged cache degrades to OCR rather than failing the run.
func (c *Cache) Load() {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Could not read UI cache file, starting empty",
				"path", c.path, "error", err)
		}
		return
	}

	locations := make(map[string]Entry)
	if err := json.Unmarshal(data, &locations); err != nil {
		slog.Warn("UI cache file is corrupt, starting empty",
			"path", c.path, "error", err)
		return
	}

	c.locations = locations
	slog.Info("Loaded UI cache", "path", c.path, "entries", len(locations))
}

// Save writes the whole cache back to disk.
func (c *Cache) Save() error {
	data, err := json.MarshalIndent(c.locations, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode UI cache: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write UI cache: %w", err)
	}

	slog.Debug("Saved UI cache", "path", c.path, "entries", len(c.locations))
	return nil
}

// Get returns the stored entry for a label.
func (c *Cache) Get(label string) (Entry, bool) {
	e, ok := c.locations[label]
	return e, ok
}

// Set stores the location for a label, overwriting any previous entry.
func (c *Cache) Set(label string, swipes, x, y int) {
	c.locations[label] = Entry{Swipes: swipes, Coords: [2]int{x, y}}
}

// Delete removes a single label.
func (c *Cache) Delete(label string) {
	delete(c.locations, label)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.locations = make(map[string]Entry)
}

// Len returns the number of cached labels.
func (c *Cache) Len() int {
	return len(c.locations)
}

// Labels returns every cached label with its entry.
func (c *Cache) Labels() map[string]Entry {
	out := make(map[string]Entry, len(c.locations))
	for k, v := range c.locations {
		out[k] = v
	}
	return out
}
