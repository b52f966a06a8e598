package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"radarfix/internal/config"
	"radarfix/internal/logging"
	"radarfix/internal/metrics"
	"radarfix/internal/replay"
)

// env carries the process boundary so run can be exercised from tests.
type env struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	stdinIsTTY bool
	now        func() time.Time
	sleeper    replay.Sleeper
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx, os.Args[1:], env{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		stdinIsTTY: isTerminal(os.Stdin),
		now:        time.Now,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "radarfix: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, e env) error {
	fs := flag.NewFlagSet("radarfix", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	var (
		configPath  string
		inputFormat string
		format      string
		replayPath  string
		recordPath  string
		summaryPath string
	)
	fs.StringVar(&configPath, "config", "", "Path to YAML config (defaults apply when empty)")
	fs.StringVar(&inputFormat, "input", "", "Input format: auto, args or json (overrides config)")
	fs.StringVar(&format, "format", "", "Output format: text, json, nmea or gdl90 (overrides config)")
	fs.StringVar(&replayPath, "replay", "", "Play back an intent script")
	fs.StringVar(&recordPath, "record", "", "Record intents read from stdin or arguments to a script")
	fs.StringVar(&summaryPath, "summary", "", "Print a summary of an intent script and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: radarfix [flags] [am broadcast args...]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}
	}
	if inputFormat != "" {
		cfg.Input.Format = strings.ToLower(inputFormat)
	}
	if format != "" {
		cfg.Output.Format = strings.ToLower(format)
	}
	if recordPath != "" {
		cfg.Record.Path = recordPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if summaryPath != "" {
		return printScriptSummary(e.stdout, summaryPath, cfg.Input.Format)
	}
	broadcast := fs.Args()
	if replayPath != "" && len(broadcast) > 0 {
		return errors.New("-replay cannot be combined with broadcast arguments")
	}
	if replayPath != "" && cfg.Record.Path != "" {
		return errors.New("-replay cannot be combined with recording")
	}

	if e.now == nil {
		e.now = time.Now
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format, e.stderr)
	m := metrics.New()
	defer func() {
		if cfg.Metrics.Textfile == "" {
			return
		}
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.WithError(err).WithField("path", cfg.Metrics.Textfile).Error("metrics textfile write failed")
		}
	}()

	p := &processor{cfg: cfg, out: e.stdout, log: log, metrics: m, now: e.now}
	if cfg.Record.Path != "" {
		w, err := replay.CreateWriter(cfg.Record.Path)
		if err != nil {
			return fmt.Errorf("record: %w", err)
		}
		defer func() {
			if err := w.Close(); err != nil {
				log.WithError(err).Error("record close failed")
			}
		}()
		p.rec = w
		log.WithField("path", cfg.Record.Path).Info("recording intents")
	}

	switch {
	case replayPath != "":
		return playScript(ctx, p, replayPath, e.sleeper)
	case len(broadcast) > 0:
		return p.handleArgs(broadcast)
	default:
		if e.stdinIsTTY {
			log.Info("reading broadcasts from terminal, one per line; end with Ctrl-D")
		}
		return readLines(ctx, p, e.stdin)
	}
}

func playScript(ctx context.Context, p *processor, path string, sleeper replay.Sleeper) error {
	recs, err := replay.ReadFile(path)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	if sleeper == nil {
		sleeper = ctxSleeper{ctx: ctx}
	}
	p.log.WithFields(logrus.Fields{
		"path":  path,
		"speed": p.cfg.Replay.Speed,
		"loop":  p.cfg.Replay.Loop,
	}).Info("replay starting")

	err = replay.Play(recs, p.cfg.Replay.Speed, p.cfg.Replay.Loop, sleeper, func(line string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return p.handleLine(line)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func readLines(ctx context.Context, p *processor, r io.Reader) error {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), 1024*1024)
	for s.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if err := p.handleLine(s.Text()); err != nil {
			return err
		}
	}
	return s.Err()
}

// ctxSleeper sleeps unless ctx is cancelled first.
type ctxSleeper struct {
	ctx context.Context
}

func (s ctxSleeper) Sleep(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-s.ctx.Done():
	case <-t.C:
	}
}
