// Package ledger tracks which content IDs have already been posted to the
// channel. The backing file is plain indented JSON so it stays human-diffable.
package ledger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"streamvault-bot/catalog"
)

// Ledger holds the posted content IDs per kind. The auto-post pipeline is
// the only writer; an ID present here is never auto-posted again.
type Ledger struct {
	Shows  []string `json:"shows"`
	Movies []string `json:"movies"`
}

// Has reports whether id is already recorded for the given kind.
func (l *Ledger) Has(kind catalog.Kind, id string) bool {
	for _, posted := range l.ids(kind) {
		if posted == id {
			return true
		}
	}
	return false
}

// Add records id for the given kind. Adding a duplicate is a no-op.
func (l *Ledger) Add(kind catalog.Kind, id string) {
	if l.Has(kind, id) {
		return
	}
	switch kind {
	case catalog.KindShow:
		l.Shows = append(l.Shows, id)
	case catalog.KindMovie:
		l.Movies = append(l.Movies, id)
	}
}

func (l *Ledger) ids(kind catalog.Kind) []string {
	if kind == catalog.KindShow {
		return l.Shows
	}
	return l.Movies
}

// Store loads and saves the ledger document at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store for the ledger file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the ledger from disk. A missing or corrupt file yields an
// empty ledger; corruption is logged, not fatal.
func (s *Store) Load() *Ledger {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error loading posted content from %s: %v", s.path, err)
		}
		return &Ledger{}
	}

	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		log.Printf("Error loading posted content from %s: %v", s.path, err)
		return &Ledger{}
	}
	return &l
}

// Save rewrites the whole ledger file. The pipeline calls this after every
// single successful send, so a crash loses at most the in-flight item.
func (s *Store) Save(l *Ledger) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal posted content: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write posted content: %w", err)
	}
	return nil
}
