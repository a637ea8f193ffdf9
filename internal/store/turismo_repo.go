package store

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/foxxcyber/turismo/internal/models"
)

var (
	ErrTurismoNotFound   = errors.New("record not found")
	ErrCommunityNotFound = errors.New("no records found for community")
	ErrInvalidPage       = errors.New("invalid page parameters")
)

// ListTurismo returns the whole collection, or the [page*size, page*size+size)
// window clamped to the collection length when both page and size are set.
func (s *Store) ListTurismo(params *models.TurismoListParams) ([]models.Turismo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.loadAll()
	if !params.Paginated() {
		return records, nil
	}

	page, size := *params.Page, *params.Size
	if page < 0 || size < 0 {
		return nil, ErrInvalidPage
	}
	// page*size+size must fit in an int
	if size > 0 && page > (math.MaxInt-size)/size {
		return nil, ErrInvalidPage
	}

	start := min(page*size, len(records))
	end := min(start+size, len(records))

	return records[start:end], nil
}

// GetTurismoByID returns the first record with the given id
func (s *Store) GetTurismoByID(id string) (*models.Turismo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.loadAll()
	i := indexOf(records, id)
	if i < 0 {
		return nil, ErrTurismoNotFound
	}
	return &records[i], nil
}

// CreateTurismo assigns a fresh id to t, appends it and persists the collection.
// Required fields are checked by the caller.
func (s *Store) CreateTurismo(t *models.Turismo) (*models.Turismo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.loadAll()

	rec := *t
	rec.ID = uuid.NewString()
	records = append(records, rec)

	if err := s.saveAll(records); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateTurismo overwrites from, to, timeRange and total of the first record
// with the given id. The id itself never changes.
func (s *Store) UpdateTurismo(id string, req *models.UpdateTurismoRequest) (*models.Turismo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.loadAll()
	i := indexOf(records, id)
	if i < 0 {
		return nil, ErrTurismoNotFound
	}

	records[i].From = req.From
	records[i].To = req.To
	records[i].TimeRange = req.TimeRange
	records[i].Total = req.Total

	if err := s.saveAll(records); err != nil {
		return nil, err
	}
	return &records[i], nil
}

// DeleteTurismo removes the first record with the given id
func (s *Store) DeleteTurismo(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.loadAll()
	i := indexOf(records, id)
	if i < 0 {
		return ErrTurismoNotFound
	}

	records = append(records[:i], records[i+1:]...)
	return s.saveAll(records)
}

// GetTurismoByCommunity returns the grouped index entry for community, in
// stored order. A missing or empty entry is ErrCommunityNotFound.
func (s *Store) GetTurismoByCommunity(community string) ([]models.Turismo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.loadGroupedIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load grouped records: %w", err)
	}

	records := idx[community]
	if len(records) == 0 {
		return nil, ErrCommunityNotFound
	}
	return records, nil
}

// ListCommunities returns the sorted names of non-empty grouped index entries
func (s *Store) ListCommunities() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.loadGroupedIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load grouped records: %w", err)
	}

	names := make([]string, 0, len(idx))
	for name, records := range idx {
		if len(records) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func indexOf(records []models.Turismo, id string) int {
	for i := range records {
		if records[i].ID != "" && records[i].ID == id {
			return i
		}
	}
	return -1
}
