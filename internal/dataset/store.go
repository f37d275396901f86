package dataset

import "fmt"

// Store provides read-only access to country records by name.
type Store interface {
	// Get returns the record for the named country.
	// Returns (CountryRecord{}, false) if the country is unknown.
	Get(name string) (CountryRecord, bool)

	// Names returns all country names in load order.
	Names() []string

	// Len returns the number of records.
	Len() int
}

// MemoryStore is an immutable, ordered, in-memory Store.
// It is safe for concurrent reads once constructed.
type MemoryStore struct {
	records []CountryRecord
	index   map[string]int
}

// NewMemoryStore creates a MemoryStore from records, preserving their order.
// Returns ErrDuplicateCountry if two records share a name.
func NewMemoryStore(records ...CountryRecord) (*MemoryStore, error) {
	s := &MemoryStore{
		records: make([]CountryRecord, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for _, rec := range records {
		if _, exists := s.index[rec.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCountry, rec.Name)
		}
		s.index[rec.Name] = len(s.records)
		s.records = append(s.records, rec)
	}
	return s, nil
}

// Get returns the record for the named country.
func (s *MemoryStore) Get(name string) (CountryRecord, bool) {
	i, ok := s.index[name]
	if !ok {
		return CountryRecord{}, false
	}
	return s.records[i], true
}

// Names returns all country names in load order.
func (s *MemoryStore) Names() []string {
	names := make([]string, len(s.records))
	for i, rec := range s.records {
		names[i] = rec.Name
	}
	return names
}

// Len returns the number of records.
func (s *MemoryStore) Len() int {
	return len(s.records)
}
