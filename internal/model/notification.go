package model

import "time"

// Notification is one scheduled local notification. TriggerAt is an
// absolute epoch millisecond; a schedule always replaces the previous
// set held for a device, it never merges.
type Notification struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	TriggerAt int64  `json:"trigger_at"`
}

// Device is a registered client (PWA install, widget, display) that
// can receive pushed notifications.
type Device struct {
	ID        int       `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

// Preferences are the per-device settings mirrored from the client UI.
// FavoriteCities is the quick-access list shown next to the selected city.
type Preferences struct {
	City                 string   `json:"city" db:"city"`
	Locale               string   `json:"locale" db:"locale"`
	NotificationsEnabled bool     `json:"notifications_enabled" db:"notifications_enabled"`
	IftarMinutes         int      `json:"iftar_minutes" db:"iftar_minutes"`
	SahurMinutes         int      `json:"sahur_minutes" db:"sahur_minutes"`
	FavoriteCities       []string `json:"favorite_cities"`
}
