// Package prefs persists the CLI's local viewing preferences. The web server
// keeps the same preferences in cookies instead.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Prefs holds everything the CLI remembers between runs.
type Prefs struct {
	SeenMovieIDs []string `json:"seenMovieIds"`
}

// Load reads preferences from path. A missing file is not an error; it just
// means empty preferences.
func Load(path string) (*Prefs, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Prefs{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return &p, nil
}

// Save writes preferences to path, creating parent directories as needed.
func (p *Prefs) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create preferences directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// SeenSet returns the seen movie IDs as a set.
func (p *Prefs) SeenSet() map[string]bool {
	seen := make(map[string]bool, len(p.SeenMovieIDs))
	for _, id := range p.SeenMovieIDs {
		seen[id] = true
	}
	return seen
}

// SetSeen replaces the seen movie ID list from a set.
func (p *Prefs) SetSeen(seen map[string]bool) {
	ids := make([]string, 0, len(seen))
	for id, isSeen := range seen {
		if isSeen {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	p.SeenMovieIDs = ids
}
