package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"radarfix/internal/gdl90"
	"radarfix/internal/gps"
)

type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
	Replay  ReplayConfig  `yaml:"replay"`
	Record  RecordConfig  `yaml:"record"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type InputConfig struct {
	// Format is "auto", "args" (am broadcast lines) or "json".
	Format string `yaml:"format"`
}

type OutputConfig struct {
	// Format is "text", "json", "nmea" or "gdl90".
	Format string `yaml:"format"`
	// Talker is the NMEA talker ID, e.g. GP or GN.
	Talker string `yaml:"talker"`
	// Sentences lists the NMEA sentences to emit per location.
	Sentences []string    `yaml:"sentences"`
	GDL90     GDL90Config `yaml:"gdl90"`
}

type GDL90Config struct {
	// ICAO is the ownship address as 6 hex digits.
	ICAO     string `yaml:"icao"`
	Callsign string `yaml:"callsign"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ReplayConfig struct {
	Speed float64 `yaml:"speed"`
	Loop  bool    `yaml:"loop"`
}

type RecordConfig struct {
	Path string `yaml:"path"`
}

type MetricsConfig struct {
	// Textfile is written in the Prometheus text format on exit.
	Textfile string `yaml:"textfile"`
}

var (
	inputFormats  = []string{"auto", "args", "json"}
	outputFormats = []string{"text", "json", "nmea", "gdl90"}
	logLevels     = []string{"debug", "info", "warn", "warning", "error"}
	logFormats    = []string{"text", "json"}
	nmeaSentences = []string{"GGA", "RMC"}
)

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse decodes YAML config bytes, applies defaults and validates the result.
// Unknown keys are rejected.
func Parse(b []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	cfg.Input.Format = strings.ToLower(strings.TrimSpace(cfg.Input.Format))
	if cfg.Input.Format == "" {
		cfg.Input.Format = "auto"
	}
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
	cfg.Output.Talker = strings.TrimSpace(cfg.Output.Talker)
	if cfg.Output.Talker == "" {
		cfg.Output.Talker = gps.DefaultTalker
	}
	if len(cfg.Output.Sentences) == 0 {
		cfg.Output.Sentences = []string{"GGA", "RMC"}
	}
	for i, s := range cfg.Output.Sentences {
		cfg.Output.Sentences[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	cfg.Output.GDL90.ICAO = strings.TrimSpace(cfg.Output.GDL90.ICAO)
	if cfg.Output.GDL90.ICAO == "" {
		cfg.Output.GDL90.ICAO = gdl90.DefaultICAO
	}
	cfg.Output.GDL90.Callsign = strings.ToUpper(strings.TrimSpace(cfg.Output.GDL90.Callsign))
	if cfg.Output.GDL90.Callsign == "" {
		cfg.Output.GDL90.Callsign = gdl90.DefaultCallsign
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Replay.Speed == 0 {
		cfg.Replay.Speed = 1
	}
}

// Validate checks a config that already has defaults applied.
func (c Config) Validate() error {
	if !oneOf(c.Input.Format, inputFormats) {
		return fmt.Errorf("input.format must be one of %s", strings.Join(inputFormats, ", "))
	}
	if !oneOf(c.Output.Format, outputFormats) {
		return fmt.Errorf("output.format must be one of %s", strings.Join(outputFormats, ", "))
	}
	if !gps.ValidTalker(c.Output.Talker) {
		return fmt.Errorf("output.talker must be two upper-case letters")
	}
	for _, s := range c.Output.Sentences {
		if !oneOf(s, nmeaSentences) {
			return fmt.Errorf("output.sentences: unsupported sentence %q", s)
		}
	}
	if _, err := gdl90.ParseICAOHex(c.Output.GDL90.ICAO); err != nil {
		return fmt.Errorf("output.gdl90.icao must be 6 hex digits")
	}
	if len(c.Output.GDL90.Callsign) > 8 {
		return fmt.Errorf("output.gdl90.callsign must be at most 8 characters")
	}
	if !oneOf(c.Log.Level, logLevels) {
		return fmt.Errorf("log.level must be one of %s", strings.Join(logLevels, ", "))
	}
	if !oneOf(c.Log.Format, logFormats) {
		return fmt.Errorf("log.format must be one of %s", strings.Join(logFormats, ", "))
	}
	if c.Replay.Speed < 0 {
		return fmt.Errorf("replay.speed must be > 0")
	}
	return nil
}

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
