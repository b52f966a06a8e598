package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"radarfix/internal/config"
	"radarfix/internal/gdl90"
	"radarfix/internal/gps"
	"radarfix/internal/intent"
	"radarfix/internal/metrics"
	"radarfix/internal/replay"
)

// outcome is what a single broadcast turned into.
type outcome struct {
	msg    intent.Message
	loc    intent.Location
	result string
	reason string
	err    error
}

func parseIntent(line, format string) (intent.Message, error) {
	switch format {
	case "json":
		return parseJSONIntent(line)
	case "args":
		return intent.ParseBroadcastLine(line)
	default:
		if strings.HasPrefix(line, "{") {
			return parseJSONIntent(line)
		}
		return intent.ParseBroadcastLine(line)
	}
}

func parseJSONIntent(line string) (intent.Message, error) {
	var m intent.Message
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		return intent.Message{}, fmt.Errorf("json intent: %w", err)
	}
	return m, nil
}

func evaluate(m intent.Message, parseErr error) outcome {
	if parseErr != nil {
		return outcome{result: metrics.ResultInvalid, reason: metrics.ReasonParse, err: parseErr}
	}
	if !intent.IsShowRadar(&m) {
		return outcome{msg: m, result: metrics.ResultIgnored}
	}
	loc, err := intent.DecodeLocation(m)
	if err != nil {
		reason := metrics.ReasonMissingExtra
		if errors.Is(err, intent.ErrUnsupportedKind) {
			reason = metrics.ReasonUnsupportedKind
		}
		return outcome{msg: m, result: metrics.ResultInvalid, reason: reason, err: err}
	}
	return outcome{msg: m, loc: loc, result: metrics.ResultRadar}
}

func evaluateLine(line, format string) outcome {
	return evaluate(parseIntent(line, format))
}

type processor struct {
	cfg     config.Config
	out     io.Writer
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	now     func() time.Time
	rec     *replay.Writer
}

// handleLine processes one input line. Only write failures are returned;
// bad broadcasts are logged, counted and skipped.
func (p *processor) handleLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	if err := p.record(line); err != nil {
		return err
	}
	return p.handle(evaluateLine(line, p.cfg.Input.Format))
}

// handleArgs processes a broadcast given as separate command-line words.
func (p *processor) handleArgs(args []string) error {
	m, err := intent.ParseBroadcastArgs(args)
	if err == nil {
		if err := p.record(intent.FormatBroadcastLine(m)); err != nil {
			return err
		}
	}
	return p.handle(evaluate(m, err))
}

func (p *processor) record(line string) error {
	if p.rec == nil {
		return nil
	}
	if err := p.rec.WriteIntent(p.now(), line); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return nil
}

func (p *processor) handle(o outcome) error {
	switch o.result {
	case metrics.ResultIgnored:
		p.metrics.ObserveMessage(metrics.ResultIgnored)
		p.log.WithField("action", o.msg.Action).Debug("ignoring broadcast")
		return nil
	case metrics.ResultInvalid:
		p.metrics.ObserveMessage(metrics.ResultInvalid)
		p.metrics.ObserveDecodeError(o.reason)
		p.log.WithError(o.err).WithField("reason", o.reason).Warn("broadcast rejected")
		return nil
	}

	now := p.now()
	b, err := p.encode(o.loc, now)
	if err != nil {
		p.metrics.ObserveMessage(metrics.ResultInvalid)
		p.metrics.ObserveDecodeError(metrics.ReasonEncode)
		p.log.WithError(err).WithField("format", p.cfg.Output.Format).Warn("location not encodable")
		return nil
	}
	if _, err := p.out.Write(b); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	p.metrics.ObserveMessage(metrics.ResultRadar)
	p.metrics.ObserveLocation(o.loc.HasAltitude())
	p.log.WithFields(logrus.Fields{
		"lat": o.loc.Latitude,
		"lon": o.loc.Longitude,
		"alt": o.loc.Altitude.String(),
	}).Info("location injected")
	return nil
}

func (p *processor) encode(loc intent.Location, now time.Time) ([]byte, error) {
	switch p.cfg.Output.Format {
	case "json":
		b, err := json.Marshal(gps.SnapshotOf(loc, now))
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case "nmea":
		var sb strings.Builder
		for _, s := range p.cfg.Output.Sentences {
			var line string
			var err error
			switch s {
			case "GGA":
				line, err = gps.EncodeGGA(loc, now, p.cfg.Output.Talker)
			case "RMC":
				line, err = gps.EncodeRMC(loc, now, p.cfg.Output.Talker)
			default:
				err = fmt.Errorf("unsupported sentence %q", s)
			}
			if err != nil {
				return nil, err
			}
			sb.WriteString(line)
		}
		return []byte(sb.String()), nil
	case "gdl90":
		return gdl90Frames(loc, now, p.cfg.Output.GDL90)
	default:
		return []byte(formatText(loc)), nil
	}
}

// gdl90Frames renders one location as heartbeat, device ID, ownship report
// and, when altitude is known, ownship geometric altitude.
func gdl90Frames(loc intent.Location, now time.Time, c config.GDL90Config) ([]byte, error) {
	icao, err := gdl90.ParseICAOHex(c.ICAO)
	if err != nil {
		return nil, err
	}
	snap := gps.SnapshotOf(loc, now)
	if !snap.Valid {
		return nil, fmt.Errorf("gdl90: non-finite position %v,%v", loc.Latitude, loc.Longitude)
	}
	own := gdl90.Ownship{ICAO: icao, Callsign: c.Callsign, LatDeg: snap.LatDeg, LonDeg: snap.LonDeg}
	if snap.AltFeet != nil {
		own.AltFeet = *snap.AltFeet
		own.AltValid = true
	}
	report, err := gdl90.OwnshipReport(own)
	if err != nil {
		return nil, err
	}

	out := gdl90.Heartbeat(now, true)
	out = append(out, gdl90.DeviceID("", "")...)
	out = append(out, report...)
	if own.AltValid {
		out = append(out, gdl90.GeoAltitude(own.AltFeet)...)
	}
	return out, nil
}

func formatText(loc intent.Location) string {
	return fmt.Sprintf("lat=%s lon=%s alt=%s\n",
		strconv.FormatFloat(loc.Latitude, 'f', -1, 64),
		strconv.FormatFloat(loc.Longitude, 'f', -1, 64),
		loc.Altitude)
}
