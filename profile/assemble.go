// Package profile fetches a registry record and assembles a normalized
// researcher profile, or a structured error, for a single identifier.
//
// An assembly moves through validating, fetching, parsing and done; any of
// the first three may end in failed. Failures never escape as panics or bare
// errors, they are reported as a researcher.ErrorResult.
package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/miku/orcidkit/convert"
	"github.com/miku/orcidkit/orcid"
	"github.com/miku/orcidkit/schema/researcher"
	"github.com/segmentio/encoding/json"
	"github.com/sirupsen/logrus"
)

// State of an assembly.
type State string

const (
	StateValidating State = "validating"
	StateFetching   State = "fetching"
	StateParsing    State = "parsing"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Fetcher retrieves the raw record for an identifier. Authenticated reports
// whether requests carry credentials; only then is the raw record attached to
// a profile.
type Fetcher interface {
	Record(ctx context.Context, id string) ([]byte, error)
	Authenticated() bool
}

// Assembler turns identifiers into profiles. It holds no per-call state and
// is safe for concurrent use.
type Assembler struct {
	Fetcher Fetcher
	// Timeout bounds a single fetch, zero means no extra timeout.
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// New returns an assembler with the default fetch timeout and a logger that
// discards everything.
func New(fetcher Fetcher) *Assembler {
	return &Assembler{
		Fetcher: fetcher,
		Timeout: orcid.DefaultTimeout,
		Logger:  discardLogger(),
	}
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func (a *Assembler) logger() logrus.FieldLogger {
	if a.Logger == nil {
		return discardLogger()
	}
	return a.Logger
}

// Assemble runs the whole pipeline for one identifier. The result carries
// either a profile or an error, never both.
func (a *Assembler) Assemble(ctx context.Context, id string) (result researcher.Result) {
	log := a.logger().WithField("orcid", id)
	state := StateValidating
	defer func() {
		if r := recover(); r != nil {
			result = researcher.Result{Error: &researcher.ErrorResult{
				ORCID:   id,
				Kind:    researcher.KindUnexpected,
				Message: fmt.Sprintf("%v", r),
			}}
			log.WithFields(logrus.Fields{"state": state, "kind": researcher.KindUnexpected}).Warnf("recovered: %v", r)
		}
	}()
	fail := func(kind researcher.ErrorKind, err error) researcher.Result {
		log.WithFields(logrus.Fields{"state": state, "kind": kind}).Warn(err)
		state = StateFailed
		return researcher.Result{Error: newErrorResult(id, kind, err)}
	}
	log.WithField("state", state).Debug("assembling profile")
	if !orcid.Valid(id) {
		return fail(researcher.KindInvalidIdentifier, orcid.ErrInvalidIdentifier)
	}
	state = StateFetching
	log.WithField("state", state).Debug("fetching record")
	body, err := a.fetch(ctx, id)
	if err != nil {
		return fail(researcher.KindTransportFailure, err)
	}
	state = StateParsing
	log.WithFields(logrus.Fields{"state": state, "bytes": len(body)}).Debug("decoding record")
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fail(researcher.KindMalformedResponse, fmt.Errorf("invalid JSON: %w", err))
	}
	profile, err := convert.RecordToProfile(doc, id)
	if err != nil {
		return fail(researcher.KindMalformedResponse, fmt.Errorf("record is not a JSON object: %w", err))
	}
	if a.Fetcher.Authenticated() {
		profile.RawData = body
	}
	state = StateDone
	log.WithFields(logrus.Fields{
		"state": state,
		"works": len(profile.Works),
	}).Debug("profile assembled")
	return researcher.Result{Profile: profile}
}

// fetch runs the fetcher with the configured timeout. A nil fetcher is an
// unexpected failure, not a transport one, hence the panic.
func (a *Assembler) fetch(ctx context.Context, id string) ([]byte, error) {
	if a.Fetcher == nil {
		panic("profile: assembler without fetcher")
	}
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}
	return a.Fetcher.Record(ctx, id)
}

// newErrorResult builds the error record, keeping the status and truncated
// body of HTTP failures for diagnostics.
func newErrorResult(id string, kind researcher.ErrorKind, err error) *researcher.ErrorResult {
	e := &researcher.ErrorResult{
		ORCID:   id,
		Kind:    kind,
		Message: err.Error(),
	}
	var se *orcid.StatusError
	if errors.As(err, &se) {
		e.StatusCode = se.StatusCode
		e.Message = fmt.Sprintf("registry returned HTTP %d", se.StatusCode)
		details := orcid.Truncate(se.Body, orcid.MaxDetailsLength)
		e.Details = &details
	}
	return e
}
