package endpoints_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vakit-app/vakit/internal/aladhan"
	"github.com/vakit-app/vakit/internal/cache"
	"github.com/vakit-app/vakit/internal/http/api"
	"github.com/vakit-app/vakit/internal/http/api/endpoints"
	"github.com/vakit-app/vakit/internal/http/api/packets"
	"github.com/vakit-app/vakit/internal/model"
	"github.com/vakit-app/vakit/internal/notify"
	"github.com/vakit-app/vakit/internal/overpass"
	"github.com/vakit-app/vakit/internal/prayerdata"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStore is an in-memory db.Store for handler tests.
type fakeStore struct {
	cities  []model.City
	devices map[int]*model.Device
	prefs   map[int]model.Preferences
	nextID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cities: []model.City{
			{ID: 1, Name: "İstanbul", Lat: 41.0082, Lng: 28.9784},
			{ID: 2, Name: "Ankara", Lat: 39.9334, Lng: 32.8597},
		},
		devices: make(map[int]*model.Device),
		prefs:   make(map[int]model.Preferences),
	}
}

func (s *fakeStore) ListCities() ([]model.City, error) { return s.cities, nil }

func (s *fakeStore) GetCityByName(name string) (*model.City, error) {
	for i := range s.cities {
		if s.cities[i].Name == name {
			return &s.cities[i], nil
		}
	}
	return nil, errors.New("no such city")
}

func (s *fakeStore) NearestCity(lat, lng float64) (*model.City, error) {
	best := &s.cities[0]
	bestDist := (best.Lat-lat)*(best.Lat-lat) + (best.Lng-lng)*(best.Lng-lng)
	for i := range s.cities[1:] {
		c := &s.cities[i+1]
		d := (c.Lat-lat)*(c.Lat-lat) + (c.Lng-lng)*(c.Lng-lng)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, nil
}

func (s *fakeStore) CreateDevice() (*model.Device, error) {
	s.nextID++
	d := &model.Device{ID: s.nextID, CreatedAt: time.Now()}
	s.devices[d.ID] = d
	return d, nil
}

func (s *fakeStore) GetDeviceByID(id int) (*model.Device, error) {
	d, ok := s.devices[id]
	if !ok {
		return nil, errors.New("no such device")
	}
	return d, nil
}

func (s *fakeStore) GetDevicePreferences(deviceID int) (*model.Preferences, error) {
	if p, ok := s.prefs[deviceID]; ok {
		return &p, nil
	}
	return &model.Preferences{City: "İstanbul", Locale: "tr", IftarMinutes: 30, SahurMinutes: 30, FavoriteCities: []string{}}, nil
}

func (s *fakeStore) UpdateDevicePreferences(deviceID int, prefs model.Preferences) error {
	s.prefs[deviceID] = prefs
	return nil
}

// newTestData backs a prayerdata.Service with a stub Aladhan server that
// answers every request with the same plausible day.
func newTestData(t *testing.T) *prayerdata.Service {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
  "code": 200, "status": "OK",
  "data": {
    "timings": {"Fajr": "05:15", "Sunrise": "06:45", "Dhuhr": "12:20", "Asr": "15:10", "Maghrib": "18:30", "Isha": "19:55"},
    "date": {"gregorian": {"day": "20", "month": {"number": 2, "en": ""}, "year": "2026"}}
  }
}`)
	}))
	t.Cleanup(ts.Close)

	client := aladhan.NewClient()
	client.BaseURL = ts.URL
	return prayerdata.New(client, cache.NewMemory(), prayerdata.Config{Backoff: time.Millisecond})
}

func newTestRouter(t *testing.T, store *fakeStore, registry *notify.Registry, mosques *overpass.Client) *gin.Engine {
	t.Helper()
	data := newTestData(t)

	if mosques == nil {
		mosques = overpass.NewClient()
	}
	if registry == nil {
		registry = notify.NewRegistry(notify.NopPublisher{})
		t.Cleanup(registry.Close)
	}

	r := gin.New()

	api.MountGroup(r, api.GroupConfig{Prefix: "/api"},
		endpoints.TimesModule(store, data, time.UTC),
		endpoints.CountdownModule(store, data, time.UTC),
		endpoints.CitiesModule(store),
		endpoints.MosquesModule(mosques),
		endpoints.ContentModule(time.UTC),
		endpoints.DevicesPublicModule(testSecret, store),
	)
	api.MountGroup(r, api.GroupConfig{Prefix: "/api", Auth: true, SecretKey: testSecret, Store: store},
		endpoints.DevicesSessionModule(testSecret, store),
		endpoints.NotificationsModule(store, data, registry, time.UTC),
	)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, []byte) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, w.Body.Bytes()
}

func TestListCities(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), nil, nil)

	w, body := doJSON(t, r, http.MethodGet, "/api/cities", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, body)
	}

	var cities []model.City
	if err := json.Unmarshal(body, &cities); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cities) != 2 {
		t.Fatalf("expected 2 cities, got %d", len(cities))
	}
}

func TestNearestCity(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), nil, nil)

	w, body := doJSON(t, r, http.MethodGet, "/api/cities/nearest?lat=39.9&lng=32.8", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, body)
	}

	var city model.City
	if err := json.Unmarshal(body, &city); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if city.Name != "Ankara" {
		t.Fatalf("nearest to Ankara coordinates was %q", city.Name)
	}
}

func TestNearestCityRejectsBadCoords(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), nil, nil)

	for _, path := range []string{
		"/api/cities/nearest",
		"/api/cities/nearest?lat=91&lng=0",
		"/api/cities/nearest?lat=abc&lng=32.8",
	} {
		w, _ := doJSON(t, r, http.MethodGet, path, "", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", path, w.Code)
		}
	}
}

func TestQibla(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), nil, nil)

	w, body := doJSON(t, r, http.MethodGet, "/api/qibla?lat=41.0082&lng=28.9784", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, body)
	}

	var resp packets.QiblaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Bearing < 150 || resp.Bearing > 153 {
		t.Fatalf("İstanbul bearing = %v, want ~151.6", resp.Bearing)
	}
}

func TestDailyTimes(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), nil, nil)

	w, body := doJSON(t, r, http.MethodGet, "/api/times/daily?city=Ankara&date=2026-02-20", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, body)
	}

	var resp packets.DailyTimesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.City != "Ankara" || resp.Date != "2026-02-20" {
		t.Fatalf("unexpected envelope %+v", resp)
	}
	if resp.Times.Maghrib != "18:30" {
		t.Fatalf("unexpected maghrib %q", resp.Times.Maghrib)
	}
}

func TestDailyTimesOmitsCurrentPrayerForOtherDays(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), nil, nil)

	// A date that is never "today": the marker must stay empty instead of
	// matching the live clock against that day's timetable.
	w, body := doJSON(t, r, http.MethodGet, "/api/times/daily?city=Ankara&date=2001-01-01", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, body)
	}

	var resp packets.DailyTimesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CurrentPrayer != "" {
		t.Fatalf("current_prayer = %q for a non-today date, want empty", resp.CurrentPrayer)
	}
}

func TestDailyTimesUnknownCity(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), nil, nil)

	w, _ := doJSON(t, r, http.MethodGet, "/api/times/daily?city=Atlantis", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", w.Code)
	}
}

func TestDailyTimesBadDate(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), nil, nil)

	w, _ := doJSON(t, r, http.MethodGet, "/api/times/daily?city=Ankara&date=20.02.2026", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func TestCountdown(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), nil, nil)

	w, body := doJSON(t, r, http.MethodGet, "/api/countdown?city=Ankara", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, body)
	}

	var resp packets.CountdownResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.City != "Ankara" || resp.Label == "" {
		t.Fatalf("unexpected countdown %+v", resp)
	}
	if resp.State.Mode != "iftar" && resp.State.Mode != "imsak" {
		t.Fatalf("unexpected mode %q", resp.State.Mode)
	}
}

func TestWidget(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), nil, nil)

	w, body := doJSON(t, r, http.MethodGet, "/api/widget?city=Ankara", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, body)
	}

	var resp packets.WidgetResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.City != "Ankara" || resp.Label == "" {
		t.Fatalf("unexpected widget %+v", resp)
	}
}

func TestContentDaily(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), nil, nil)

	w, body := doJSON(t, r, http.MethodGet, "/api/content/daily", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, body)
	}

	var resp packets.DailyContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Dua.Text == "" || resp.Reminder.Text == "" {
		t.Fatalf("empty content %+v", resp)
	}
}

func TestMosques(t *testing.T) {
	overpassSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"elements": [
  {"lat": 41.01, "lon": 28.97, "tags": {"name": "Sultanahmet Camii"}},
  {"lat": 41.02, "lon": 28.98, "tags": {}}
]}`)
	}))
	defer overpassSrv.Close()

	client := overpass.NewClient()
	client.BaseURL = overpassSrv.URL

	r := newTestRouter(t, newFakeStore(), nil, client)

	w, body := doJSON(t, r, http.MethodGet, "/api/mosques?lat=41.0082&lng=28.9784", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, body)
	}

	var resp packets.MosquesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Mosques) != 2 {
		t.Fatalf("expected 2 mosques, got %+v", resp.Mosques)
	}
	if resp.Mosques[0].Name != "Sultanahmet Camii" || resp.Mosques[1].Name != "Cami" {
		t.Fatalf("unexpected names %+v", resp.Mosques)
	}
}

func TestMosquesDegradesToEmptyList(t *testing.T) {
	overpassSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer overpassSrv.Close()

	client := overpass.NewClient()
	client.BaseURL = overpassSrv.URL

	r := newTestRouter(t, newFakeStore(), nil, client)

	w, body := doJSON(t, r, http.MethodGet, "/api/mosques?lat=41.0082&lng=28.9784", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, body)
	}

	var resp packets.MosquesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Mosques) != 0 {
		t.Fatalf("expected empty list, got %+v", resp.Mosques)
	}
}

func register(t *testing.T, r *gin.Engine) (int, string) {
	t.Helper()
	w, body := doJSON(t, r, http.MethodPost, "/api/devices/register", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("register status %d: %s", w.Code, body)
	}
	var resp packets.RegisterDeviceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode register: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("empty token")
	}
	return resp.DeviceID, resp.Token
}

func TestDeviceRegistrationAndPreferences(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(t, store, nil, nil)

	_, token := register(t, r)

	// Defaults come back before anything is saved.
	w, body := doJSON(t, r, http.MethodGet, "/api/devices/preferences", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get preferences status %d: %s", w.Code, body)
	}
	var prefs model.Preferences
	if err := json.Unmarshal(body, &prefs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if prefs.City != "İstanbul" || prefs.IftarMinutes != 30 {
		t.Fatalf("unexpected defaults %+v", prefs)
	}

	w, body = doJSON(t, r, http.MethodPut, "/api/devices/preferences", token, packets.PreferencesRequest{
		City:                 "Ankara",
		NotificationsEnabled: true,
		IftarMinutes:         15,
		SahurMinutes:         45,
		FavoriteCities:       []string{"İstanbul", "Ankara"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("put preferences status %d: %s", w.Code, body)
	}
	if err := json.Unmarshal(body, &prefs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if prefs.City != "Ankara" || prefs.Locale != "tr" || prefs.IftarMinutes != 15 {
		t.Fatalf("unexpected saved preferences %+v", prefs)
	}
	if len(prefs.FavoriteCities) != 2 || prefs.FavoriteCities[0] != "İstanbul" {
		t.Fatalf("unexpected favorites %+v", prefs.FavoriteCities)
	}

	// The saved list comes back on the next read.
	w, body = doJSON(t, r, http.MethodGet, "/api/devices/preferences", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reread status %d: %s", w.Code, body)
	}
	if err := json.Unmarshal(body, &prefs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(prefs.FavoriteCities) != 2 {
		t.Fatalf("favorites not persisted: %+v", prefs.FavoriteCities)
	}
}

func TestPreferencesReplaceFavorites(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), nil, nil)
	_, token := register(t, r)

	put := func(favorites []string) model.Preferences {
		w, body := doJSON(t, r, http.MethodPut, "/api/devices/preferences", token, packets.PreferencesRequest{
			City:           "Ankara",
			FavoriteCities: favorites,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("put favorites %v: status %d: %s", favorites, w.Code, body)
		}
		var prefs model.Preferences
		if err := json.Unmarshal(body, &prefs); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return prefs
	}

	put([]string{"İstanbul", "Ankara"})

	// A later save replaces the list, it never merges.
	prefs := put([]string{"Ankara"})
	if len(prefs.FavoriteCities) != 1 || prefs.FavoriteCities[0] != "Ankara" {
		t.Fatalf("favorites not replaced: %+v", prefs.FavoriteCities)
	}

	// Omitting the field clears it.
	prefs = put(nil)
	if len(prefs.FavoriteCities) != 0 {
		t.Fatalf("favorites not cleared: %+v", prefs.FavoriteCities)
	}
}

func TestPreferencesRejectUnknownFavorite(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), nil, nil)
	_, token := register(t, r)

	w, _ := doJSON(t, r, http.MethodPut, "/api/devices/preferences", token, packets.PreferencesRequest{
		City:           "Ankara",
		FavoriteCities: []string{"Atlantis"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func TestPreferencesRejectUnknownCity(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), nil, nil)
	_, token := register(t, r)

	w, _ := doJSON(t, r, http.MethodPut, "/api/devices/preferences", token, packets.PreferencesRequest{City: "Atlantis"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func TestPreferencesRequireAuth(t *testing.T) {
	r := newTestRouter(t, newFakeStore(), nil, nil)

	w, _ := doJSON(t, r, http.MethodGet, "/api/devices/preferences", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status %d, want 401", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/api/devices/preferences", "not-a-jwt", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status %d, want 401", w.Code)
	}
}

func TestScheduleExplicitList(t *testing.T) {
	store := newFakeStore()
	registry := notify.NewRegistry(notify.NopPublisher{})
	defer registry.Close()

	r := newTestRouter(t, store, registry, nil)
	deviceID, token := register(t, r)

	w, body := doJSON(t, r, http.MethodPost, "/api/notifications/schedule", token, packets.ScheduleRequest{
		Notifications: []packets.NotificationEntry{
			{Title: "İftar", Body: "yaklaşıyor", TriggerAt: time.Now().Add(time.Hour).UnixMilli()},
			{Title: "geçmiş", TriggerAt: time.Now().Add(-time.Hour).UnixMilli()},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, body)
	}

	var resp packets.ScheduleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Scheduled != 1 {
		t.Fatalf("scheduled %d, want 1 (past entry discarded)", resp.Scheduled)
	}
	if registry.Pending(deviceID) != 1 {
		t.Fatalf("registry pending %d, want 1", registry.Pending(deviceID))
	}
}

func TestScheduleCancel(t *testing.T) {
	store := newFakeStore()
	registry := notify.NewRegistry(notify.NopPublisher{})
	defer registry.Close()

	r := newTestRouter(t, store, registry, nil)
	deviceID, token := register(t, r)

	doJSON(t, r, http.MethodPost, "/api/notifications/schedule", token, packets.ScheduleRequest{
		Notifications: []packets.NotificationEntry{
			{Title: "x", TriggerAt: time.Now().Add(time.Hour).UnixMilli()},
		},
	})

	w, _ := doJSON(t, r, http.MethodDelete, "/api/notifications", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel status %d", w.Code)
	}
	if registry.Pending(deviceID) != 0 {
		t.Fatalf("pending %d after cancel, want 0", registry.Pending(deviceID))
	}
}

func TestScheduleFromPreferencesDisabled(t *testing.T) {
	store := newFakeStore()
	registry := notify.NewRegistry(notify.NopPublisher{})
	defer registry.Close()

	r := newTestRouter(t, store, registry, nil)
	deviceID, token := register(t, r)

	// Notifications disabled in preferences: an empty request schedules nothing.
	store.prefs[deviceID] = model.Preferences{City: "Ankara", Locale: "tr", NotificationsEnabled: false, IftarMinutes: 30, SahurMinutes: 30}

	w, body := doJSON(t, r, http.MethodPost, "/api/notifications/schedule", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, body)
	}

	var resp packets.ScheduleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Scheduled != 0 {
		t.Fatalf("scheduled %d with notifications disabled, want 0", resp.Scheduled)
	}
}
