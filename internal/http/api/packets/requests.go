package packets

// PreferencesRequest mirrors the client's settings panel. FavoriteCities
// fully replaces the stored quick-access list.
type PreferencesRequest struct {
	City                 string   `json:"city" binding:"required"`
	Locale               string   `json:"locale"`
	NotificationsEnabled bool     `json:"notifications_enabled"`
	IftarMinutes         int      `json:"iftar_minutes"`
	SahurMinutes         int      `json:"sahur_minutes"`
	FavoriteCities       []string `json:"favorite_cities"`
}

// NotificationEntry is one entry of a schedule replacement.
type NotificationEntry struct {
	Title     string `json:"title" binding:"required"`
	Body      string `json:"body"`
	TriggerAt int64  `json:"trigger_at" binding:"required"`
}

// ScheduleRequest fully replaces a device's pending notification set.
// An empty or missing list means "build the schedule server-side from
// the device's preferences and today's times".
type ScheduleRequest struct {
	Notifications []NotificationEntry `json:"notifications"`
}
