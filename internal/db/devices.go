package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/vakit-app/vakit/internal/model"
)

func (s *pgStore) CreateDevice() (*model.Device, error) {
	var device model.Device
	err := s.db.Get(&device, `
		INSERT INTO devices DEFAULT VALUES
		RETURNING id, created_at`)
	if err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}
	return &device, nil
}

func (s *pgStore) GetDeviceByID(id int) (*model.Device, error) {
	var device model.Device
	err := s.db.Get(&device, `SELECT id, created_at FROM devices WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("device %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get device: %w", err)
	}
	return &device, nil
}

// preferencesRow exists because text[] scans through pq.StringArray, not
// a plain []string.
type preferencesRow struct {
	City                 string         `db:"city"`
	Locale               string         `db:"locale"`
	NotificationsEnabled bool           `db:"notifications_enabled"`
	IftarMinutes         int            `db:"iftar_minutes"`
	SahurMinutes         int            `db:"sahur_minutes"`
	FavoriteCities       pq.StringArray `db:"favorite_cities"`
}

// GetDevicePreferences returns defaults when the device has never saved
// preferences; absence is not an error.
func (s *pgStore) GetDevicePreferences(deviceID int) (*model.Preferences, error) {
	var row preferencesRow
	err := s.db.Get(&row, `
		SELECT city, locale, notifications_enabled, iftar_minutes, sahur_minutes, favorite_cities
		FROM device_preferences WHERE device_id = $1`, deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.Preferences{
			City:           "İstanbul",
			Locale:         "tr",
			IftarMinutes:   30,
			SahurMinutes:   30,
			FavoriteCities: []string{},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return &model.Preferences{
		City:                 row.City,
		Locale:               row.Locale,
		NotificationsEnabled: row.NotificationsEnabled,
		IftarMinutes:         row.IftarMinutes,
		SahurMinutes:         row.SahurMinutes,
		FavoriteCities:       []string(row.FavoriteCities),
	}, nil
}

func (s *pgStore) UpdateDevicePreferences(deviceID int, prefs model.Preferences) error {
	_, err := s.db.Exec(`
		INSERT INTO device_preferences
			(device_id, city, locale, notifications_enabled, iftar_minutes, sahur_minutes, favorite_cities)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (device_id) DO UPDATE SET
			city = EXCLUDED.city,
			locale = EXCLUDED.locale,
			notifications_enabled = EXCLUDED.notifications_enabled,
			iftar_minutes = EXCLUDED.iftar_minutes,
			sahur_minutes = EXCLUDED.sahur_minutes,
			favorite_cities = EXCLUDED.favorite_cities`,
		deviceID, prefs.City, prefs.Locale, prefs.NotificationsEnabled,
		prefs.IftarMinutes, prefs.SahurMinutes, pq.Array(prefs.FavoriteCities))
	if err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	return nil
}
