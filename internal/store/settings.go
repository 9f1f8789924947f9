package store

import (
	"fmt"
	"strconv"
	"time"
)

// Setting is one persisted preference.
type Setting struct {
	Key   string
	Value string
}

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// DebounceInterval returns the filter-input quiet period. Falls back to the
// 1.5s default when the stored value is missing or unreadable.
func (s *Store) DebounceInterval() time.Duration {
	v, err := s.GetSetting("debounce_ms")
	if err != nil {
		return 1500 * time.Millisecond
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return 1500 * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

// ClearSelectionAfterExport reports whether a completed export resets the
// collection's selection. Default is false: selections persist.
func (s *Store) ClearSelectionAfterExport() bool {
	v, err := s.GetSetting("clear_selection_after_export")
	if err != nil {
		return false
	}
	return v == "true"
}

// DownloadDir returns the directory export artifacts are written to. Empty
// means the user's home directory.
func (s *Store) DownloadDir() string {
	v, err := s.GetSetting("download_dir")
	if err != nil {
		return ""
	}
	return v
}
