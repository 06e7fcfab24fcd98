package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	gzip "github.com/klauspost/pgzip"
)

// createOutputWriter creates a writer for the output file, with compression
// chosen by file suffix.
func createOutputWriter(filename string) (io.WriteCloser, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("error creating output file: %w", err)
	}
	switch {
	case strings.HasSuffix(filename, ".gz"):
		return &compositeWriteCloser{writer: gzip.NewWriter(f), file: f}, nil
	case strings.HasSuffix(filename, ".zst"):
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("error creating zstd writer: %w", err)
		}
		return &compositeWriteCloser{writer: zw, file: f}, nil
	default:
		return f, nil
	}
}

// compositeWriteCloser closes both the compression writer and the file.
type compositeWriteCloser struct {
	writer io.WriteCloser
	file   *os.File
}

func (c *compositeWriteCloser) Write(p []byte) (int, error) {
	return c.writer.Write(p)
}

func (c *compositeWriteCloser) Close() error {
	if err := c.writer.Close(); err != nil {
		c.file.Close()
		return err
	}
	return c.file.Close()
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
