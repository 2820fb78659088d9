// Package adsb provides types and functions for working with ADS-B state
// vectors from the OpenSky Network.
package adsb

import "github.com/litescript/ls-scope/internal/geo"

// Unit conversions for display. OpenSky reports meters and meters/second;
// the scope shows feet and knots.
const (
	FeetPerMeter = 3.28084
	KnotsPerMPS  = 1.94384
)

// Aircraft is one state vector, consumed read-only by the display.
type Aircraft struct {
	Callsign   string  // at most 15 characters, trailing blanks trimmed
	Latitude   float64 // decimal degrees
	Longitude  float64 // decimal degrees
	AltitudeM  float64 // barometric altitude in meters
	VelocityMS float64 // ground speed in meters/second
	DistanceNM float64 // great-circle distance from the reference point (derived)
}

// AltitudeFt returns the altitude in feet.
func (a Aircraft) AltitudeFt() int {
	return int(a.AltitudeM * FeetPerMeter)
}

// SpeedKt returns the ground speed in knots.
func (a Aircraft) SpeedKt() int {
	return int(a.VelocityMS * KnotsPerMPS)
}

// Displayable reports whether the aircraft clears the display floor. Both
// thresholds are strict: an aircraft at exactly the floor stays hidden,
// which keeps ground traffic and taxiing aircraft off the scope.
func (a Aircraft) Displayable(minAltitudeFt, minSpeedKt int) bool {
	return a.AltitudeFt() > minAltitudeFt && a.SpeedKt() > minSpeedKt
}

// Position returns the aircraft's geographic point.
func (a Aircraft) Position() geo.Point {
	return geo.Point{Lat: a.Latitude, Lon: a.Longitude}
}

// WithinRange computes each aircraft's distance from ref and keeps those
// inside rangeNM.
func WithinRange(list []Aircraft, ref geo.Point, rangeNM float64) []Aircraft {
	out := make([]Aircraft, 0, len(list))
	for _, a := range list {
		a.DistanceNM = geo.Distance(ref, a.Position())
		if a.DistanceNM <= rangeNM {
			out = append(out, a)
		}
	}
	return out
}
