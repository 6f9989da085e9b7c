package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// EditChange records a single field mutation inside one edit.
type EditChange struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

// EditEntry is one append-only history record: who edited, when, and what changed.
type EditEntry struct {
	Editor    string       `json:"editor"`
	Timestamp time.Time    `json:"timestamp"`
	Changes   []EditChange `json:"changes"`
}

// HistoryLog is the jsonb edit-history column, newest entry first.
type HistoryLog []EditEntry

func (h *HistoryLog) Scan(src any) error {
	if src == nil {
		*h = HistoryLog{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("HistoryLog: unsupported Scan type %T", src)
	}
	if len(raw) == 0 {
		*h = HistoryLog{}
		return nil
	}
	return json.Unmarshal(raw, h)
}

func (h HistoryLog) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("HistoryLog: marshal: %w", err)
	}
	return string(raw), nil
}

// Prepend returns a new log with entry ahead of the existing records.
func (h HistoryLog) Prepend(entry EditEntry) HistoryLog {
	out := make(HistoryLog, 0, len(h)+1)
	out = append(out, entry)
	out = append(out, h...)
	return out
}
