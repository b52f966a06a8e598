package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"radarfix/internal/metrics"
	"radarfix/internal/replay"
)

type scriptSummary struct {
	Segments     int
	Intents      int
	Radar        int
	Ignored      int
	Invalid      int
	WithAltitude int
	MaxDuration  time.Duration
	Actions      map[string]int
}

func summarizeScript(records []replay.Record, inputFormat string) scriptSummary {
	s := scriptSummary{Actions: map[string]int{}}
	if len(records) == 0 {
		return s
	}

	origin := time.Duration(0)
	hasIntents := false
	segments := 0

	for _, r := range records {
		if r.Start {
			segments++
			origin = r.At
			continue
		}
		hasIntents = true

		s.Intents++
		at := r.At - origin
		if at < 0 {
			at = 0
		}
		if at > s.MaxDuration {
			s.MaxDuration = at
		}

		o := evaluateLine(r.Intent, inputFormat)
		if o.reason != metrics.ReasonParse {
			s.Actions[o.msg.Action]++
		}
		switch o.result {
		case metrics.ResultRadar:
			s.Radar++
			if o.loc.HasAltitude() {
				s.WithAltitude++
			}
		case metrics.ResultIgnored:
			s.Ignored++
		default:
			s.Invalid++
		}
	}
	if segments == 0 && hasIntents {
		segments = 1
	}
	s.Segments = segments

	return s
}

func printScriptSummary(w io.Writer, path, inputFormat string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("path is empty")
	}

	recs, err := replay.ReadFile(path)
	if err != nil {
		return err
	}

	s := summarizeScript(recs, inputFormat)

	fmt.Fprintf(w, "path: %s\n", path)
	fmt.Fprintf(w, "segments: %d\n", s.Segments)
	fmt.Fprintf(w, "intents: %d\n", s.Intents)
	fmt.Fprintf(w, "show_radar: %d\n", s.Radar)
	fmt.Fprintf(w, "with_altitude: %d\n", s.WithAltitude)
	fmt.Fprintf(w, "ignored: %d\n", s.Ignored)
	fmt.Fprintf(w, "invalid: %d\n", s.Invalid)
	fmt.Fprintf(w, "max_duration: %s\n", s.MaxDuration)

	actions := make([]string, 0, len(s.Actions))
	for a := range s.Actions {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	fmt.Fprintf(w, "action_counts:\n")
	for _, a := range actions {
		name := a
		if name == "" {
			name = "(none)"
		}
		fmt.Fprintf(w, "  %s: %d\n", name, s.Actions[a])
	}
	return nil
}
