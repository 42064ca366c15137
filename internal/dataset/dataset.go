// Package dataset loads per-category JSON calendars and resolves the entry
// active for the current day. Calendars map string day-of-year keys
// ("1".."366") to entries; sparse calendars are valid.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Dataset is one category's calendar: day-of-year key to entry.
type Dataset map[string]Entry

// Load reads and parses a calendar file.
func Load(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	var d Dataset
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return d, nil
}

// ForDay looks up the entry for a 1-based ordinal day. A missing key is a
// valid absence, not an error.
func (d Dataset) ForDay(day int) (Entry, bool) {
	e, ok := d[strconv.Itoa(day)]
	return e, ok
}
