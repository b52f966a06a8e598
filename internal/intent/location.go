package intent

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrMissingExtra    = errors.New("intent: missing extra")
	ErrUnsupportedKind = errors.New("intent: unsupported extra kind")
)

// Altitude is an optional altitude in meters. The zero value is absent.
type Altitude struct {
	meters float64
	ok     bool
}

// AltitudeOf returns a present altitude, except for NaN which callers use to
// say "no altitude" and which maps to absent.
func AltitudeOf(meters float64) Altitude {
	if math.IsNaN(meters) {
		return Altitude{}
	}
	return Altitude{meters: meters, ok: true}
}

func NoAltitude() Altitude { return Altitude{} }

func (a Altitude) Meters() (float64, bool) { return a.meters, a.ok }
func (a Altitude) Valid() bool             { return a.ok }

func (a Altitude) String() string {
	if !a.ok {
		return "none"
	}
	return fmt.Sprintf("%gm", a.meters)
}

// Location is the position decoded from a show-radar broadcast.
// Values are passed through unchanged; no range checks are applied.
type Location struct {
	Latitude  float64
	Longitude float64
	Altitude  Altitude
}

func (l Location) HasAltitude() bool { return l.Altitude.Valid() }

// DecodeLocation extracts the location carried by m.
//
// The caller must have confirmed IsShowRadar(m) first; the action is not
// checked again here. latitude and longitude are required and produce an
// error wrapping ErrMissingExtra when absent. altitude is optional; a NaN
// altitude is treated the same as a missing one. Any extra that is neither
// a float nor a double produces an error wrapping ErrUnsupportedKind.
func DecodeLocation(m Message) (Location, error) {
	lat, err := requiredFloat(m, KeyLatitude)
	if err != nil {
		return Location{}, err
	}
	lon, err := requiredFloat(m, KeyLongitude)
	if err != nil {
		return Location{}, err
	}

	loc := Location{Latitude: lat, Longitude: lon}
	e, ok := m.Extra(KeyAltitude)
	if !ok {
		return loc, nil
	}
	alt, err := floatValue(KeyAltitude, e)
	if err != nil {
		return Location{}, err
	}
	loc.Altitude = AltitudeOf(alt)
	return loc, nil
}

func requiredFloat(m Message, key string) (float64, error) {
	e, ok := m.Extra(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingExtra, key)
	}
	return floatValue(key, e)
}

func floatValue(key string, e Extra) (float64, error) {
	v, ok := e.Float64()
	if !ok {
		return 0, fmt.Errorf("%w: %s is %s", ErrUnsupportedKind, key, e.Kind())
	}
	return v, nil
}
