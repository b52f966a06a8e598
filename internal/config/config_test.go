package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	assert.Equal(t, "auto", cfg.Input.Format)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "GP", cfg.Output.Talker)
	assert.Equal(t, []string{"GGA", "RMC"}, cfg.Output.Sentences)
	assert.Equal(t, "F00000", cfg.Output.GDL90.ICAO)
	assert.Equal(t, "RADARFIX", cfg.Output.GDL90.Callsign)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 1.0, cfg.Replay.Speed)
	assert.False(t, cfg.Replay.Loop)
	assert.Empty(t, cfg.Record.Path)
	assert.Empty(t, cfg.Metrics.Textfile)
}

func TestLoad_FullFile(t *testing.T) {
	path := writeTempConfig(t, `
input:
  format: JSON
output:
  format: nmea
  talker: GN
  sentences: [gga]
  gdl90:
    icao: "0xA1B2C3"
    callsign: n123ab
log:
  level: debug
  format: json
replay:
  speed: 4
  loop: true
record:
  path: ./session.script
metrics:
  textfile: /var/lib/node_exporter/radarfix.prom
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Input.Format)
	assert.Equal(t, "nmea", cfg.Output.Format)
	assert.Equal(t, "GN", cfg.Output.Talker)
	assert.Equal(t, []string{"GGA"}, cfg.Output.Sentences)
	assert.Equal(t, "0xA1B2C3", cfg.Output.GDL90.ICAO)
	assert.Equal(t, "N123AB", cfg.Output.GDL90.Callsign)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 4.0, cfg.Replay.Speed)
	assert.True(t, cfg.Replay.Loop)
	assert.Equal(t, "./session.script", cfg.Record.Path)
	assert.Equal(t, "/var/lib/node_exporter/radarfix.prom", cfg.Metrics.Textfile)
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"InputFormat", "input:\n  format: xml\n", "input.format must be one of auto, args, json"},
		{"OutputFormat", "output:\n  format: kml\n", "output.format must be one of text, json, nmea, gdl90"},
		{"Talker", "output:\n  talker: gps\n", "output.talker must be two upper-case letters"},
		{"Sentence", "output:\n  sentences: [GGA, GSV]\n", `output.sentences: unsupported sentence "GSV"`},
		{"ICAO", "output:\n  gdl90:\n    icao: xyz\n", "output.gdl90.icao must be 6 hex digits"},
		{"Callsign", "output:\n  gdl90:\n    callsign: TOOLONGCALL\n", "output.gdl90.callsign must be at most 8 characters"},
		{"LogLevel", "log:\n  level: trace\n", "log.level must be one of debug, info, warn, warning, error"},
		{"LogFormat", "log:\n  format: logfmt\n", "log.format must be one of text, json"},
		{"NegativeSpeed", "replay:\n  speed: -1\n", "replay.speed must be > 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, tc.body))
			assert.EqualError(t, err, tc.want)
		})
	}
}

func TestLoad_RejectsUnknownField(t *testing.T) {
	_, err := Load(writeTempConfig(t, "output:\n  dest: '127.0.0.1:4000'\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field dest not found in type config.OutputConfig")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
