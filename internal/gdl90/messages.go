package gdl90

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"
)

// Message IDs.
const (
	MsgHeartbeat   = 0x00
	MsgOwnship     = 0x0A
	MsgGeoAltitude = 0x0B
	MsgForeFlight  = 0x65
)

const (
	latLonResolution = 180.0 / 8388608.0 // degrees per LSB, signed 24-bit

	DefaultICAO     = "F00000"
	DefaultCallsign = "RADARFIX"
)

// Heartbeat builds the 0x00 heartbeat for now. fixValid sets the
// position-valid and UTC-OK bits.
func Heartbeat(now time.Time, fixValid bool) []byte {
	msg := make([]byte, 7)
	msg[0] = MsgHeartbeat

	// initialized + address talkback
	status := byte(0x01 | 0x10)
	if fixValid {
		status |= 0x80
	}
	msg[1] = status

	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	secs := uint32(now.Sub(midnight) / time.Second)

	// Bit 16 of the timestamp lives in the top bit of status byte 2.
	msg[2] = byte((secs>>16)<<7) | 0x01
	msg[3] = byte(secs)
	msg[4] = byte(secs >> 8)
	return Frame(msg)
}

// DeviceID builds the ForeFlight ID message (0x65, sub-ID 0) that names the
// device in EFB apps.
func DeviceID(shortName, longName string) []byte {
	msg := make([]byte, 39)
	msg[0] = MsgForeFlight
	msg[1] = 0x00
	msg[2] = 0x01 // version

	// serial number unknown
	for i := 3; i <= 10; i++ {
		msg[i] = 0xFF
	}
	copy(msg[11:19], clip(shortName, "radarfix", 8))
	copy(msg[19:35], clip(longName, "radarfix", 16))

	// Geometric altitude is MSL.
	msg[38] = 0x01
	return Frame(msg)
}

func clip(s, def string, n int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		s = def
	}
	if len(s) > n {
		s = s[:n]
	}
	return s
}

// Ownship is the position placed in an ownship report. A broadcast carries
// no motion, so speed and track are reported as zero and invalid.
type Ownship struct {
	ICAO     [3]byte
	Callsign string
	LatDeg   float64
	LonDeg   float64
	AltFeet  int
	AltValid bool
}

// OwnshipReport builds the 0x0A ownship report. Coordinates outside the
// encodable range are an error.
func OwnshipReport(o Ownship) ([]byte, error) {
	if math.IsNaN(o.LatDeg) || o.LatDeg < -90 || o.LatDeg > 90 {
		return nil, fmt.Errorf("gdl90: latitude %v out of range", o.LatDeg)
	}
	if math.IsNaN(o.LonDeg) || o.LonDeg < -180 || o.LonDeg > 180 {
		return nil, fmt.Errorf("gdl90: longitude %v out of range", o.LonDeg)
	}

	msg := make([]byte, 28)
	msg[0] = MsgOwnship
	msg[1] = 0x00 // no alert, ADS-B with ICAO address
	copy(msg[2:5], o.ICAO[:])

	lat := encodeLatLon24(o.LatDeg)
	copy(msg[5:8], lat[:])
	lon := encodeLatLon24(o.LonDeg)
	copy(msg[8:11], lon[:])

	alt := uint16(0x0FFF)
	if o.AltValid {
		alt = encodeAltitude12(o.AltFeet)
	}
	msg[11] = byte(alt >> 4)
	// misc: airborne, track not valid
	msg[12] = byte(alt&0x0F)<<4 | 0x08

	msg[13] = 0x88 // NIC 8, NACp 8

	// ground speed 0, vertical velocity unknown (0x800)
	msg[14] = 0x00
	msg[15] = 0x08
	msg[16] = 0x00

	msg[17] = 0x00 // track
	msg[18] = 0x01 // emitter: light
	copy(msg[19:27], callsign(o.Callsign))
	return Frame(msg), nil
}

// GeoAltitude builds the 0x0B ownship geometric altitude message. Vertical
// figure of merit is reported as unavailable.
func GeoAltitude(altFeet int) []byte {
	v := math.Round(float64(altFeet) / 5)
	if v > math.MaxInt16 {
		v = math.MaxInt16
	}
	if v < math.MinInt16 {
		v = math.MinInt16
	}
	u := uint16(int16(v))

	msg := make([]byte, 5)
	msg[0] = MsgGeoAltitude
	msg[1] = byte(u >> 8)
	msg[2] = byte(u)
	msg[3] = 0x7F
	msg[4] = 0xFF
	return Frame(msg)
}

// ParseICAOHex parses a 24-bit address written as 6 hex digits, with or
// without a 0x prefix.
func ParseICAOHex(s string) ([3]byte, error) {
	var out [3]byte
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if len(s) != 6 {
		return out, fmt.Errorf("icao must be 6 hex chars")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// Truncates toward zero.
func encodeLatLon24(deg float64) [3]byte {
	u := uint32(int32(deg/latLonResolution)) & 0x00FFFFFF
	return [3]byte{byte(u >> 16), byte(u >> 8), byte(u)}
}

// 25 ft steps offset by +1000 ft; out of range is 0xFFF (unavailable).
func encodeAltitude12(altFeet int) uint16 {
	if altFeet < -1000 || altFeet > 101350 {
		return 0x0FFF
	}
	return uint16((altFeet+1000)/25) & 0x0FFF
}

func callsign(s string) []byte {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		s = DefaultCallsign
	}
	if len(s) > 8 {
		s = s[:8]
	}
	b := []byte(s)
	for i, c := range b {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c == ' ') {
			b[i] = ' '
		}
	}
	for len(b) < 8 {
		b = append(b, ' ')
	}
	return b
}
