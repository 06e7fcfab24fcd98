// Package record runs a function over the records of a stream in parallel,
// one identifier per line by default.
package record

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultMaxBufferSize = 1 << 16
	defaultMaxTokenSize  = 1 << 20 // needs to be larger than the buffer size
)

// ProcessFunc transforms a single record. A nil result writes nothing, an
// error stops the whole run.
type ProcessFunc func(ctx context.Context, record []byte) ([]byte, error)

// ProcessorOption allows configuration of the Processor
type ProcessorOption func(*Processor)

// WithWorkers sets the number of worker goroutines
func WithWorkers(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.numWorkers = n
		}
	}
}

// WithMaxTokenSize sets the maximum token size for the splitter
func WithMaxTokenSize(size int) ProcessorOption {
	return func(p *Processor) {
		if size > 0 {
			p.maxTokenSize = size
		}
	}
}

// WithTimeout bounds the time spent on each record.
func WithTimeout(d time.Duration) ProcessorOption {
	return func(p *Processor) {
		p.timeout = d
	}
}

func WithSplitFunc(f bufio.SplitFunc) ProcessorOption {
	return func(p *Processor) {
		p.splitFunc = f
	}
}

// Processor handles parallel processing of records, delineated by a provided
// bufio.SplitFunc. Blank records are skipped, surrounding whitespace is
// trimmed. Output order is not input order.
type Processor struct {
	splitFunc     bufio.SplitFunc
	processFunc   ProcessFunc
	numWorkers    int
	maxBufferSize int
	maxTokenSize  int
	timeout       time.Duration
}

// NewProcessor creates a new Processor that by default splits on lines.
func NewProcessor(processFunc ProcessFunc, opts ...ProcessorOption) *Processor {
	p := &Processor{
		splitFunc:     bufio.ScanLines,
		processFunc:   processFunc,
		numWorkers:    runtime.NumCPU(),
		maxBufferSize: defaultMaxBufferSize,
		maxTokenSize:  defaultMaxTokenSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxTokenSize < p.maxBufferSize {
		p.maxBufferSize = p.maxTokenSize
	}
	return p
}

func (p *Processor) process(ctx context.Context, data []byte) ([]byte, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.processFunc(ctx, data)
}

// Process reads from the input, processes records in parallel, and writes
// results to output.
func (p *Processor) Process(ctx context.Context, r io.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)
	scanner := bufio.NewScanner(r)
	scanner.Split(p.splitFunc)
	scanner.Buffer(make([]byte, 0, p.maxBufferSize), p.maxTokenSize)
	workChan := make(chan []byte, p.numWorkers*2)
	var writeMu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(workChan)
		for scanner.Scan() {
			token := bytes.TrimSpace(scanner.Bytes())
			if len(token) == 0 {
				continue
			}
			data := make([]byte, len(token))
			copy(data, token)
			select {
			case workChan <- data:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return scanner.Err()
	})
	for i := 0; i < p.numWorkers; i++ {
		g.Go(func() error {
			for data := range workChan {
				if err := ctx.Err(); err != nil {
					return err
				}
				result, err := p.process(ctx, data)
				if err != nil {
					return err
				}
				if result != nil {
					writeMu.Lock()
					_, err := bw.Write(result)
					writeMu.Unlock()
					if err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return bw.Flush()
}
