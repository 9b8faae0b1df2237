// Package qibla computes the great-circle bearing toward the Kaaba.
package qibla

import "math"

// Kaaba coordinates.
const (
	KaabaLat = 21.4225
	KaabaLng = 39.8262
)

// Bearing returns the initial great-circle bearing from (lat, lng) to
// the Kaaba, in degrees normalized to [0, 360). The device-heading side
// of the compass stays on the client; the server only supplies this angle.
func Bearing(lat, lng float64) float64 {
	latR := lat * math.Pi / 180
	lngR := lng * math.Pi / 180
	kaabaLatR := KaabaLat * math.Pi / 180
	kaabaLngR := KaabaLng * math.Pi / 180

	dLng := kaabaLngR - lngR
	x := math.Sin(dLng)
	y := math.Cos(latR)*math.Tan(kaabaLatR) - math.Sin(latR)*math.Cos(dLng)

	bearing := math.Atan2(x, y) * 180 / math.Pi
	return math.Mod(bearing+360, 360)
}
