package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadJSONFile merges companies from a JSON array file into the store and
// returns how many records it read. Files produced by the twse subcommand
// use this format.
func (s *Store) LoadJSONFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var companies []Company
	if err := json.Unmarshal(data, &companies); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, c := range companies {
		s.Add(c)
	}
	return len(companies), nil
}

// SaveJSONFile writes the full store contents as an indented JSON array.
func (s *Store) SaveJSONFile(path string) error {
	s.mu.RLock()
	companies := make([]Company, len(s.companies))
	copy(companies, s.companies)
	s.mu.RUnlock()

	data, err := json.MarshalIndent(companies, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
