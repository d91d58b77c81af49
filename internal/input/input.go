// Package input opens log sources for line-by-line reading. Gzip and zstd
// compressed files are decompressed transparently.
package input

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// MaxLineSize is the longest line a Scanner accepts
const MaxLineSize = 1024 * 1024

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Source is an opened input with a display name
type Source struct {
	Name string
	io.Reader
	closers []io.Closer
}

// Close releases the decompressor and the underlying file, in that order
func (s *Source) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens path for reading. "-" and "" read stdin, which is never closed.
func Open(path string) (*Source, error) {
	if path == "" || path == "-" {
		return NewSource("stdin", os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	src, err := NewSource(path, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.closers = append(src.closers, f)
	return src, nil
}

// NewSource wraps r, sniffing its first bytes for a compression header
func NewSource(name string, r io.Reader) (*Source, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", name, err)
		}
		return &Source{Name: name, Reader: zr, closers: []io.Closer{zr}}, nil
	case bytes.HasPrefix(head, zstdMagic):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream %s: %w", name, err)
		}
		return &Source{Name: name, Reader: dec, closers: []io.Closer{dec.IOReadCloser()}}, nil
	default:
		return &Source{Name: name, Reader: br}, nil
	}
}

// NewScanner returns a line scanner accepting lines up to MaxLineSize
func NewScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return scanner
}
