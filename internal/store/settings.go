package store

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/MIkhsanPasaribu/studyhub/internal/analytics"
)

// Setting keys seeded by the first migration.
const (
	SettingPomodoroWork      = "pomodoro_work"
	SettingPomodoroBreak     = "pomodoro_break"
	SettingPomodoroLongBreak = "pomodoro_long_break"
	SettingPomodoroCount     = "pomodoro_count"
	SettingIdleTimeout       = "idle_timeout"
	SettingDefaultRange      = "default_range"
	SettingDefaultCategory   = "default_category"
)

var ErrInvalidSetting = errors.New("invalid setting value")

// validateSetting checks values for the known keys. Unknown keys pass.
func validateSetting(key, value string) error {
	switch key {
	case SettingPomodoroWork, SettingPomodoroBreak, SettingPomodoroLongBreak,
		SettingPomodoroCount, SettingIdleTimeout:
		if n, err := strconv.Atoi(value); err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive whole number, got %q", ErrInvalidSetting, key, value)
		}
	case SettingDefaultRange:
		if _, err := analytics.ParseRange(value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSetting, key, err)
		}
	}
	return nil
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
	return s.SetSettings([]Setting{{Key: key, Value: value}})
}

// SetSettings validates every value, then writes the batch in one transaction.
func (s *Store) SetSettings(values []Setting) error {
	for _, v := range values {
		if err := validateSetting(v.Key, v.Value); err != nil {
			return err
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin settings update: %w", err)
	}
	defer tx.Rollback()

	for _, v := range values {
		_, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			v.Key, v.Value,
		)
		if err != nil {
			return fmt.Errorf("set setting %q: %w", v.Key, err)
		}
	}
	return tx.Commit()
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var st Setting
		if err := rows.Scan(&st.Key, &st.Value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings = append(settings, st)
	}
	return settings, rows.Err()
}

// GetSettingInt reads an integer setting, returning fallback when the key
// is missing or not a number.
func (s *Store) GetSettingInt(key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
