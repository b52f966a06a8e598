package gps

import (
	"fmt"
	"math"
	"strings"
	"time"

	"radarfix/internal/intent"
)

const DefaultTalker = "GP"

// GGA fix quality 6 is "estimated"; the position was handed to us, not measured.
const ggaFixEstimated = "6"

// ValidTalker reports whether t is a two-letter upper-case talker ID.
func ValidTalker(t string) bool {
	if len(t) != 2 {
		return false
	}
	for i := 0; i < len(t); i++ {
		if t[i] < 'A' || t[i] > 'Z' {
			return false
		}
	}
	return true
}

// EncodeGGA builds a GGA sentence for loc.
// Fields:
//
//	0: talker+type
//	1: time (hhmmss.ss)
//	2: latitude (ddmm.mmmm)
//	3: N/S
//	4: longitude (dddmm.mmmm)
//	5: E/W
//	6: fix quality (6=estimated)
//	7: number of satellites
//	8: HDOP
//	9: altitude (meters), empty when unknown
//
// 10: units (M)
func EncodeGGA(loc intent.Location, now time.Time, talker string) (string, error) {
	lat, lon, err := encodeLatLon(loc, talker)
	if err != nil {
		return "", err
	}
	alt, unit := "", ""
	if m, ok := loc.Altitude.Meters(); ok && !math.IsInf(m, 0) {
		alt, unit = fmt.Sprintf("%.1f", m), "M"
	}
	fields := []string{
		talker + "GGA",
		nmeaTime(now),
		lat[0], lat[1],
		lon[0], lon[1],
		ggaFixEstimated,
		"00",
		"",
		alt, unit,
		"", "",
		"", "",
	}
	return frame(fields), nil
}

// EncodeRMC builds an RMC sentence for loc. Speed is reported as zero and
// course is left empty since an injected location has no motion.
func EncodeRMC(loc intent.Location, now time.Time, talker string) (string, error) {
	lat, lon, err := encodeLatLon(loc, talker)
	if err != nil {
		return "", err
	}
	fields := []string{
		talker + "RMC",
		nmeaTime(now),
		"A",
		lat[0], lat[1],
		lon[0], lon[1],
		"0.0",
		"",
		now.UTC().Format("020106"),
		"", "",
	}
	return frame(fields), nil
}

func encodeLatLon(loc intent.Location, talker string) ([2]string, [2]string, error) {
	if !ValidTalker(talker) {
		return [2]string{}, [2]string{}, fmt.Errorf("nmea: invalid talker %q", talker)
	}
	if !finite(loc.Latitude) || math.Abs(loc.Latitude) > 90 {
		return [2]string{}, [2]string{}, fmt.Errorf("nmea: latitude %v out of range", loc.Latitude)
	}
	if !finite(loc.Longitude) || math.Abs(loc.Longitude) > 180 {
		return [2]string{}, [2]string{}, fmt.Errorf("nmea: longitude %v out of range", loc.Longitude)
	}
	lat := [2]string{formatNMEALatLon(loc.Latitude, 2), hemisphere(loc.Latitude, "N", "S")}
	lon := [2]string{formatNMEALatLon(loc.Longitude, 3), hemisphere(loc.Longitude, "E", "W")}
	return lat, lon, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func hemisphere(v float64, pos, neg string) string {
	if v < 0 {
		return neg
	}
	return pos
}

// formatNMEALatLon renders |v| as ddmm.mmmm (degDigits=2) or dddmm.mmmm
// (degDigits=3). Rounding happens on whole 1e-4 minutes so 59.99995' carries
// into the degrees.
func formatNMEALatLon(v float64, degDigits int) string {
	const scale = 10000
	total := int64(math.Round(math.Abs(v) * 60 * scale))
	deg := total / (60 * scale)
	rem := total % (60 * scale)
	return fmt.Sprintf("%0*d%02d.%04d", degDigits, deg, rem/scale, rem%scale)
}

func nmeaTime(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%02d%02d%02d.%02d", t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1e7)
}

func checksum(payload string) byte {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return ck
}

func frame(fields []string) string {
	payload := strings.Join(fields, ",")
	return fmt.Sprintf("$%s*%02X\r\n", payload, checksum(payload))
}
