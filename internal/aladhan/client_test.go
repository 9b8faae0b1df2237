package aladhan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const timingsBody = `{
  "code": 200,
  "status": "OK",
  "data": {
    "timings": {
      "Fajr": "05:15 (TRT)", "Sunrise": "06:45", "Dhuhr": "12:20",
      "Asr": "15:10", "Maghrib": "18:30", "Isha": "19:55"
    },
    "date": {
      "gregorian": {"date": "20-02-2026", "day": "20", "month": {"number": 2, "en": "February"}, "year": "2026"}
    }
  }
}`

func TestFetchTimings(t *testing.T) {
	var gotPath, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(timingsBody))
	}))
	defer ts.Close()

	c := NewClient()
	c.BaseURL = ts.URL

	date := time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC)
	resp, err := c.FetchTimings(context.Background(), date, 41.0082, 28.9784, 13)
	if err != nil {
		t.Fatalf("FetchTimings: %v", err)
	}

	if gotPath != "/timings/20-02-2026" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "method=13") {
		t.Fatalf("method missing from query %q", gotQuery)
	}
	if resp.Data.Timings.Maghrib != "18:30" {
		t.Fatalf("unexpected maghrib %q", resp.Data.Timings.Maghrib)
	}
}

func TestFetchTimingsNon200Status(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone fishing", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient()
	c.BaseURL = ts.URL

	_, err := c.FetchTimings(context.Background(), time.Now(), 41, 29, 13)
	if err == nil {
		t.Fatal("expected error on HTTP 502")
	}
}

func TestFetchTimingsAPIErrorCode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 400, "status": "Bad Request"}`))
	}))
	defer ts.Close()

	c := NewClient()
	c.BaseURL = ts.URL

	_, err := c.FetchTimings(context.Background(), time.Now(), 41, 29, 13)
	if err == nil {
		t.Fatal("expected error on API code 400")
	}
}

func TestFetchTimingsMalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 200, "data": `))
	}))
	defer ts.Close()

	c := NewClient()
	c.BaseURL = ts.URL

	_, err := c.FetchTimings(context.Background(), time.Now(), 41, 29, 13)
	if err == nil {
		t.Fatal("expected error on malformed JSON")
	}
}

func TestFetchCalendar(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calendar/2026/2" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{
  "code": 200, "status": "OK",
  "data": [
    {"timings": {"Fajr": "05:15", "Sunrise": "06:45", "Dhuhr": "12:20", "Asr": "15:10", "Maghrib": "18:30", "Isha": "19:55"},
     "date": {"gregorian": {"day": "18", "month": {"number": 2, "en": "February"}, "year": "2026"}}}
  ]
}`))
	}))
	defer ts.Close()

	c := NewClient()
	c.BaseURL = ts.URL

	resp, err := c.FetchCalendar(context.Background(), 2026, 2, 41.0082, 28.9784, 13)
	if err != nil {
		t.Fatalf("FetchCalendar: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Date.Gregorian.Day != "18" {
		t.Fatalf("unexpected calendar data %+v", resp.Data)
	}
}
