// ok-search looks up ORCID identifiers by name or any other registry query.
//
// $ ok-search carberry
// 0000-0002-1825-0097
//
// $ ok-search -x 'family-name:carberry'
// 0000-0002-1825-0097	Josiah	Carberry	Brown University
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/miku/orcidkit"
	"github.com/miku/orcidkit/config"
	"github.com/miku/orcidkit/normal"
	"github.com/miku/orcidkit/orcid"
	"github.com/segmentio/encoding/json"
	"github.com/sirupsen/logrus"
)

var (
	expanded    = flag.Bool("x", false, "use expanded search, output TSV with names and institutions")
	asJSON      = flag.Bool("j", false, "with -x, output JSON lines instead of TSV")
	rows        = flag.Int("rows", 0, "number of results (registry default is 100)")
	start       = flag.Int("start", 0, "offset into the results")
	logLevel    = flag.String("loglevel", "", "log level (default from env or info)")
	showVersion = flag.Bool("version", false, "show version")
)

func main() {
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
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal(err)
	}
	logger.SetLevel(level)
	log := logger.WithField("run", uuid.New().String())
	q := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if q == "" {
		log.Fatal("query required")
	}
	var (
		client = cfg.Client()
		opts   = orcid.SearchOptions{Start: *start, Rows: *rows}
		bw     = bufio.NewWriter(os.Stdout)
	)
	defer bw.Flush()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log.WithFields(logrus.Fields{"q": q, "expanded": *expanded}).Debug("searching")
	if !*expanded {
		ids, err := client.Search(ctx, q, opts)
		if err != nil {
			log.Fatal(err)
		}
		for _, id := range ids {
			fmt.Fprintln(bw, id)
		}
		return
	}
	result, err := client.ExpandedSearch(ctx, q, opts)
	if err != nil {
		log.Fatal(err)
	}
	log.WithField("found", result.NumFound).Debug("expanded search done")
	enc := json.NewEncoder(bw)
	for _, item := range result.Items {
		if *asJSON {
			if err := enc.Encode(item); err != nil {
				log.Fatal(err)
			}
			continue
		}
		fmt.Fprintln(bw, tabular(item))
	}
}

// tabular renders an expanded search hit as a single TSV line.
func tabular(item orcid.ExpandedSearchItem) string {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	fields := []string{
		item.ORCID,
		deref(item.GivenNames),
		deref(item.FamilyNames),
		strings.Join(item.InstitutionName, "; "),
	}
	for i, f := range fields {
		fields[i] = normal.ReplaceNewlineAndTab(f)
	}
	return strings.Join(fields, "\t")
}
