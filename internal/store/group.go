package store

import (
	"encoding/json"
	"fmt"

	"github.com/foxxcyber/turismo/internal/models"
)

// GroupKey selects which side of a record names its community in the grouped index.
type GroupKey string

const (
	GroupByDestination GroupKey = "to"
	GroupByOrigin      GroupKey = "from"
)

// ParseGroupKey accepts "to" or "from"
func ParseGroupKey(s string) (GroupKey, error) {
	switch GroupKey(s) {
	case GroupByDestination, GroupByOrigin:
		return GroupKey(s), nil
	}
	return "", fmt.Errorf("unknown group key %q, want \"to\" or \"from\"", s)
}

// BuildGroupedIndex groups records by community, keeping input order within
// each group. Records with no location on the chosen side are skipped.
func BuildGroupedIndex(records []models.Turismo, by GroupKey) models.GroupedIndex {
	idx := models.GroupedIndex{}
	for _, rec := range records {
		loc := rec.To
		if by == GroupByOrigin {
			loc = rec.From
		}
		if loc == nil {
			continue
		}
		idx[loc.Comunidad] = append(idx[loc.Comunidad], rec)
	}
	return idx
}

// SaveGroupedIndex replaces the grouped index file
func (s *Store) SaveGroupedIndex(idx models.GroupedIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx == nil {
		idx = models.GroupedIndex{}
	}
	b, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode grouped records: %w", err)
	}
	if err := writeFileAtomic(s.groupedFile, b); err != nil {
		return fmt.Errorf("failed to save grouped records: %w", err)
	}
	return nil
}
