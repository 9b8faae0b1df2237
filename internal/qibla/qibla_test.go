package qibla

import (
	"math"
	"testing"
)

func TestBearingIstanbul(t *testing.T) {
	// İstanbul looks roughly south-southeast toward the Kaaba.
	got := Bearing(41.0082, 28.9784)
	if math.Abs(got-151.6) > 0.5 {
		t.Fatalf("Bearing(İstanbul) = %.2f, want ~151.6", got)
	}
}

func TestBearingRange(t *testing.T) {
	cases := []struct{ lat, lng float64 }{
		{41.0082, 28.9784},
		{-33.8688, 151.2093},
		{51.5074, -0.1278},
		{35.6762, 139.6503},
		{0, 0},
	}
	for _, c := range cases {
		got := Bearing(c.lat, c.lng)
		if got < 0 || got >= 360 {
			t.Errorf("Bearing(%v, %v) = %v, out of [0, 360)", c.lat, c.lng, got)
		}
	}
}

func TestBearingFromKaabaNeighborhood(t *testing.T) {
	// Directly north of the Kaaba the bearing must point back south.
	got := Bearing(KaabaLat+1, KaabaLng)
	if math.Abs(got-180) > 0.1 {
		t.Fatalf("Bearing from due north = %.2f, want ~180", got)
	}
}
