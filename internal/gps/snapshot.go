package gps

import (
	"math"
	"time"

	"radarfix/internal/intent"
)

const feetPerMeter = 3.280839895013123

// Snapshot is the JSON view of an injected location.
//
// Altitude fields are omitted when the broadcast carried no altitude, or an
// infinite one which JSON cannot represent.
type Snapshot struct {
	Valid  bool   `json:"valid"`
	Source string `json:"source"`

	LatDeg  float64  `json:"lat_deg"`
	LonDeg  float64  `json:"lon_deg"`
	AltM    *float64 `json:"alt_m,omitempty"`
	AltFeet *int     `json:"alt_feet,omitempty"`

	FixUTC string `json:"fix_utc,omitempty"`
}

// SourceShowRadar marks snapshots built from a show-radar broadcast.
const SourceShowRadar = "show_radar"

func SnapshotOf(loc intent.Location, now time.Time) Snapshot {
	out := Snapshot{Source: SourceShowRadar}
	// Non-finite coordinates cannot be encoded; report them as an invalid fix.
	if finite(loc.Latitude) && finite(loc.Longitude) {
		out.Valid = true
		out.LatDeg = loc.Latitude
		out.LonDeg = loc.Longitude
	}
	if m, ok := loc.Altitude.Meters(); ok && !math.IsInf(m, 0) {
		v := m
		out.AltM = &v
		// Feet are omitted where they would overflow an int32.
		if ft := math.Round(m * feetPerMeter); math.Abs(ft) <= math.MaxInt32 {
			f := int(ft)
			out.AltFeet = &f
		}
	}
	if !now.IsZero() {
		out.FixUTC = now.UTC().Format(time.RFC3339Nano)
	}
	return out
}
