package gps

import (
	"math"
	"strings"
	"testing"
	"time"

	nmea "github.com/adrianmo/go-nmea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radarfix/internal/intent"
)

var fixTime = time.Date(2019, 7, 31, 12, 35, 19, 250_000_000, time.UTC)

func tampa(alt intent.Altitude) intent.Location {
	return intent.Location{Latitude: 28.0527222, Longitude: -82.4331001, Altitude: alt}
}

func TestChecksum(t *testing.T) {
	// Known sentences from the NMEA reference.
	assert.Equal(t, byte(0x47), checksum("GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,"))
	assert.Equal(t, byte(0x6A), checksum("GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W"))
	assert.Equal(t, byte(0x41), checksum("A"))
}

func TestFormatNMEALatLon(t *testing.T) {
	cases := []struct {
		v      float64
		digits int
		want   string
	}{
		{48.1173, 2, "4807.0380"},
		{11.516666666, 3, "01131.0000"},
		{-82.4331001, 3, "08225.9860"},
		{0, 2, "0000.0000"},
		{-90, 2, "9000.0000"},
		{180, 3, "18000.0000"},
		// 59.99997' rounds up into the next degree.
		{10.9999995, 2, "1100.0000"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatNMEALatLon(tc.v, tc.digits), "v=%v", tc.v)
	}
}

func TestEncodeGGA_ParsesWithAltitude(t *testing.T) {
	line, err := EncodeGGA(tampa(intent.AltitudeOf(20.3)), fixTime, DefaultTalker)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(line, "\r\n"))
	assert.Equal(t, "$GPGGA,123519.25,2803.1633,N,08225.9860,W,6,00,,20.3,M,,,,*", line[:len(line)-4])

	s, err := nmea.Parse(strings.TrimSpace(line))
	require.NoError(t, err)
	gga, ok := s.(nmea.GGA)
	require.True(t, ok, "type %T", s)

	assert.Equal(t, nmea.EST, gga.FixQuality)
	assert.InDelta(t, 28.0527222, gga.Latitude, 0.00001)
	assert.InDelta(t, -82.4331001, gga.Longitude, 0.00001)
	assert.InDelta(t, 20.3, gga.Altitude, 0.00001)
	assert.Equal(t, 12, gga.Time.Hour)
	assert.Equal(t, 35, gga.Time.Minute)
	assert.Equal(t, 19, gga.Time.Second)
}

func TestEncodeGGA_NoAltitudeLeavesFieldEmpty(t *testing.T) {
	for _, alt := range []intent.Altitude{intent.NoAltitude(), intent.AltitudeOf(math.NaN()), intent.AltitudeOf(math.Inf(1))} {
		line, err := EncodeGGA(tampa(alt), fixTime, "GN")
		require.NoError(t, err)
		assert.Contains(t, line, ",6,00,,,,,,,*")

		s, err := nmea.Parse(strings.TrimSpace(line))
		require.NoError(t, err)
		assert.Equal(t, "GN", s.TalkerID())
		gga, ok := s.(nmea.GGA)
		require.True(t, ok, "type %T", s)
		assert.Equal(t, nmea.EST, gga.FixQuality)
	}
}

func TestEncodeRMC_Parses(t *testing.T) {
	loc := intent.Location{Latitude: -33.8688, Longitude: 151.2093}
	line, err := EncodeRMC(loc, fixTime, DefaultTalker)
	require.NoError(t, err)

	s, err := nmea.Parse(strings.TrimSpace(line))
	require.NoError(t, err)
	rmc, ok := s.(nmea.RMC)
	require.True(t, ok, "type %T", s)

	assert.Equal(t, nmea.ValidRMC, rmc.Validity)
	assert.InDelta(t, -33.8688, rmc.Latitude, 0.00001)
	assert.InDelta(t, 151.2093, rmc.Longitude, 0.00001)
	assert.Equal(t, 31, rmc.Date.DD)
	assert.Equal(t, 7, rmc.Date.MM)
	assert.Equal(t, 19, rmc.Date.YY)
	assert.Zero(t, rmc.Speed)
}

func TestEncode_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		loc    intent.Location
		talker string
		want   string
	}{
		{"Talker", tampa(intent.NoAltitude()), "gp", `nmea: invalid talker "gp"`},
		{"LongTalker", tampa(intent.NoAltitude()), "GPS", `nmea: invalid talker "GPS"`},
		{"LatNaN", intent.Location{Latitude: math.NaN()}, "GP", "nmea: latitude NaN out of range"},
		{"LatRange", intent.Location{Latitude: 91}, "GP", "nmea: latitude 91 out of range"},
		{"LonInf", intent.Location{Longitude: math.Inf(-1)}, "GP", "nmea: longitude -Inf out of range"},
		{"LonRange", intent.Location{Longitude: 180.5}, "GP", "nmea: longitude 180.5 out of range"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EncodeGGA(tc.loc, fixTime, tc.talker)
			assert.EqualError(t, err, tc.want)
			_, err = EncodeRMC(tc.loc, fixTime, tc.talker)
			assert.EqualError(t, err, tc.want)
		})
	}
}

func TestValidTalker(t *testing.T) {
	assert.True(t, ValidTalker("GP"))
	assert.True(t, ValidTalker("GN"))
	assert.False(t, ValidTalker(""))
	assert.False(t, ValidTalker("G1"))
}
