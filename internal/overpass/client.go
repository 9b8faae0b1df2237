// Package overpass finds nearby mosques through the Overpass API.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://overpass-api.de/api/interpreter"

// Mosque is one place-of-worship result.
type Mosque struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Client queries the Overpass interpreter.
type Client struct {
	httpClient *http.Client
	// BaseURL is exported for httptest.
	BaseURL string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		BaseURL:    defaultBaseURL,
	}
}

type response struct {
	Elements []element `json:"elements"`
}

type element struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
	Tags map[string]string `json:"tags"`
}

// FetchNearby returns up to limit mosques within radius meters of the
// given point. Ways come back with a computed center instead of a node
// coordinate.
func (c *Client) FetchNearby(ctx context.Context, lat, lng float64, radius, limit int) ([]Mosque, error) {
	query := fmt.Sprintf(`[out:json][timeout:10];
(
  node["amenity"="place_of_worship"]["religion"="muslim"](around:%d,%f,%f);
  way["amenity"="place_of_worship"]["religion"="muslim"](around:%d,%f,%f);
);
out center %d;`, radius, lat, lng, radius, lat, lng, limit)

	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	mosques := make([]Mosque, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		m := Mosque{Name: el.Tags["name"], Lat: el.Lat, Lng: el.Lon}
		if el.Center != nil {
			m.Lat, m.Lng = el.Center.Lat, el.Center.Lon
		}
		if m.Name == "" {
			m.Name = "Cami"
		}
		if m.Lat == 0 && m.Lng == 0 {
			continue
		}
		mosques = append(mosques, m)
		if len(mosques) == limit {
			break
		}
	}
	return mosques, nil
}
