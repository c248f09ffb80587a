// Package catalog holds the mapping table parallel to the vector index:
// position i in the index corresponds to entry i in the catalog.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"supportbot/internal/domain"
)

// Catalog is the read-only intent catalog loaded at startup.
type Catalog struct {
	entries []domain.QuestionEntry
}

// New wraps the given entries.
func New(entries []domain.QuestionEntry) *Catalog {
	return &Catalog{entries: entries}
}

// Load reads a catalog from a JSON mapping file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []domain.QuestionEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse mapping file %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: empty mapping file", path)
	}
	return &Catalog{entries: entries}, nil
}

// Save writes the catalog to a JSON mapping file, one record per index
// position in order.
func (c *Catalog) Save(path string) error {
	data, err := json.MarshalIndent(c.entries, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// At returns the entry at the given vector-index position.
func (c *Catalog) At(pos int) (domain.QuestionEntry, bool) {
	if pos < 0 || pos >= len(c.entries) {
		return domain.QuestionEntry{}, false
	}
	return c.entries[pos], true
}

// FindScript returns the response script for an (intent, sub_intent) pair.
// Duplicate question entries share identical scripts, so the first hit wins.
func (c *Catalog) FindScript(intent, subIntent string) ([]domain.ResponseStep, bool) {
	for _, e := range c.entries {
		if e.Intent == intent && e.SubIntent == subIntent {
			return e.Responses, true
		}
	}
	return nil, false
}
