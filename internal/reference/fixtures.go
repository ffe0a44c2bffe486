package reference

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// ParseFixtures decodes a JSON object mapping user identifiers to logged
// entries. Records are returned sorted by user identifier.
func ParseFixtures(data []byte) ([]Record, error) {
	var raw map[string][]Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrNoRecords
	}
	records := make([]Record, 0, len(raw))
	for user, entries := range raw {
		records = append(records, Record{UserID: user, Entries: entries})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].UserID < records[j].UserID })
	return records, nil
}

// LoadFixtures reads a fixture file.
func LoadFixtures(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	records, err := ParseFixtures(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return records, nil
}

// Find returns the record for userID.
func Find(records []Record, userID string) (Record, bool) {
	for _, r := range records {
		if r.UserID == userID {
			return r, true
		}
	}
	return Record{}, false
}
