// ok-profile fetches researcher records from the ORCID registry and writes one
// normalized profile, or one error, per line.
//
// $ ok-profile 0000-0002-1825-0097
// $ cat ids.txt | ok-profile -w 8 -since 2024-01-01 -o profiles.jsonl.zst
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/miku/orcidkit"
	"github.com/miku/orcidkit/config"
	"github.com/miku/orcidkit/dateutil"
	"github.com/miku/orcidkit/orcid"
	"github.com/miku/orcidkit/pproc/record"
	"github.com/miku/orcidkit/profile"
	"github.com/miku/orcidkit/schema/researcher"
	"github.com/segmentio/encoding/json"
	"github.com/sirupsen/logrus"
)

var (
	baseURL     = flag.String("u", "", "registry API base URL (default from env or https://pub.orcid.org/v3.0)")
	token       = flag.String("token", "", "bearer token; with a token, raw records are included")
	numWorkers  = flag.Int("w", 0, "number of parallel fetches (default from env or number of CPUs)")
	timeout     = flag.Duration("t", 0, "timeout for a single request (default from env or 10s)")
	budget      = flag.Duration("T", time.Minute, "time budget per identifier, including retries")
	maxRetries  = flag.Int("r", -1, "max retries per request (default from env or 3)")
	since       = flag.String("since", "", "drop profiles last modified before this date")
	output      = flag.String("o", "", "output file, compressed if ending in .zst or .gz (default stdout)")
	skipErrors  = flag.Bool("q", false, "do not write error results")
	logLevel    = flag.String("loglevel", "", "log level (default from env or info)")
	showVersion = flag.Bool("version", false, "show version")
)

var help = `ok-profile fetches and normalizes ORCID researcher profiles

Identifiers are read from the arguments or, if there are none, from stdin,
one per line. Identifiers may be given as URLs, e.g. https://orcid.org/...

Examples:

    $ ok-profile 0000-0002-1825-0097 | jq .profile.personal.name
    $ ok-profile -since 2024-01-01 -o fresh.jsonl.zst < ids.txt

Usage:

`

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, help)
		flag.PrintDefaults()
	}
	flag.Parse()
	if *showVersion {
		fmt.Println(orcidkit.Version)
		os.Exit(0)
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err)
	}
	applyFlags(cfg)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal(err)
	}
	logger.SetLevel(level)
	log := logger.WithField("run", uuid.New().String())
	var sinceDate time.Time
	if *since != "" {
		if sinceDate, err = dateutil.Since(*since); err != nil {
			log.Fatalf("invalid -since: %v", err)
		}
	}
	var r io.Reader = os.Stdin
	if flag.NArg() > 0 {
		r = strings.NewReader(strings.Join(flag.Args(), "\n"))
	}
	var w io.WriteCloser = nopCloser{os.Stdout}
	if *output != "" {
		if w, err = createOutputWriter(*output); err != nil {
			log.Fatal(err)
		}
	}
	assembler := profile.New(cfg.Client())
	assembler.Timeout = cfg.Timeout
	assembler.Logger = log
	var stats struct {
		ok, failed, skipped atomic.Int64
	}
	proc := record.NewProcessor(func(ctx context.Context, p []byte) ([]byte, error) {
		id := orcid.Clean(string(p))
		result := assembler.Assemble(ctx, id)
		switch {
		case result.Error != nil:
			stats.failed.Add(1)
			if *skipErrors {
				return nil, nil
			}
		case !keep(result.Profile, sinceDate):
			stats.skipped.Add(1)
			log.WithField("orcid", id).Debug("not modified since cutoff")
			return nil, nil
		default:
			stats.ok.Add(1)
		}
		b, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}, record.WithWorkers(cfg.Workers), record.WithTimeout(*budget))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	started := time.Now()
	if err := proc.Process(ctx, r, w); err != nil {
		w.Close()
		log.Fatal(err)
	}
	if err := w.Close(); err != nil {
		log.Fatal(err)
	}
	log.WithFields(logrus.Fields{
		"ok":      stats.ok.Load(),
		"failed":  stats.failed.Load(),
		"skipped": stats.skipped.Load(),
		"elapsed": time.Since(started).Round(time.Millisecond).String(),
	}).Info("done")
}

// applyFlags lets explicitly set flags override loaded settings.
func applyFlags(cfg *config.Config) {
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *token != "" {
		cfg.Token = *token
	}
	if *numWorkers > 0 {
		cfg.Workers = *numWorkers
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *maxRetries >= 0 {
		cfg.MaxRetries = *maxRetries
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
}

// keep reports whether a profile passes the since filter. Profiles without a
// usable modification date are kept.
func keep(p *researcher.Profile, since time.Time) bool {
	if since.IsZero() || p.LastModified == nil {
		return true
	}
	t, err := time.Parse(time.RFC3339, *p.LastModified)
	if err != nil {
		return true
	}
	return !t.Before(since)
}
