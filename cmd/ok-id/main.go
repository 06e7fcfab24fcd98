// ok-id cleans and checks ORCID identifiers, given as arguments or one per
// line on stdin.
//
// $ ok-id https://orcid.org/0000-0002-1825-0097 0000-0002-1825-0098
// 0000-0002-1825-0097	ok
// 0000-0002-1825-0098	checksum
//
// $ cat ids.txt | ok-id -f -url
// https://orcid.org/0000-0002-1825-0097
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/miku/orcidkit"
	"github.com/miku/orcidkit/orcid"
)

var (
	filterMode  = flag.Bool("f", false, "filter mode, only print valid identifiers")
	asURL       = flag.Bool("url", false, "print identifiers as https://orcid.org/ URLs")
	showVersion = flag.Bool("version", false, "show version")
)

// Status of an identifier.
type Status string

const (
	StatusOK       Status = "ok"
	StatusInvalid  Status = "invalid"  // wrong shape
	StatusChecksum Status = "checksum" // right shape, wrong check character
)

func check(s string) (string, Status) {
	id := orcid.Clean(s)
	switch {
	case !orcid.Valid(id):
		return id, StatusInvalid
	case !orcid.ValidChecksum(id):
		return id, StatusChecksum
	default:
		return id, StatusOK
	}
}

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(orcidkit.Version)
		os.Exit(0)
	}
	var r io.Reader = os.Stdin
	if flag.NArg() > 0 {
		r = strings.NewReader(strings.Join(flag.Args(), "\n"))
	}
	bw := bufio.NewWriter(os.Stdout)
	defer bw.Flush()
	if err := run(r, bw); err != nil {
		log.Fatal(err)
	}
}

func run(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, status := check(line)
		if *asURL && status == StatusOK {
			id = "https://orcid.org/" + id
		}
		switch {
		case *filterMode && status != StatusOK:
			continue
		case *filterMode:
			if _, err := fmt.Fprintln(w, id); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintf(w, "%s\t%s\n", id, status); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}
