package source

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// HexLineSource replays recorded captures, one hex-encoded capture per line.
// Blank lines and lines starting with '#' are skipped. Spaces, colons and dashes
// between byte pairs are ignored.
type HexLineSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
}

// NewHexLineSource reads captures from r
func NewHexLineSource(r io.Reader) *HexLineSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	s := &HexLineSource{scanner: scanner}
	if c, ok := r.(io.Closer); ok && r != os.Stdin {
		s.closer = c
	}
	return s
}

// OpenHexFile opens a capture file for replay
func OpenHexFile(path string) (*HexLineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file %s: %w", path, err)
	}
	return NewHexLineSource(f), nil
}

// Next returns the next capture in the file
func (s *HexLineSource) Next(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, fmt.Errorf("failed to read capture line %d: %w", s.line+1, err)
			}
			return nil, io.EOF
		}
		s.line++

		text := strings.TrimSpace(s.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		capture, err := DecodeHex(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", s.line, err)
		}
		return capture, nil
	}
}

// Close closes the underlying file, if any
func (s *HexLineSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// DecodeHex parses a hex string, ignoring separators between byte pairs
func DecodeHex(text string) ([]byte, error) {
	cleaned := strings.NewReplacer(" ", "", ":", "", "-", "", "\t", "").Replace(text)
	cleaned = strings.TrimPrefix(strings.TrimPrefix(cleaned, "0x"), "0X")

	data, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", text, err)
	}
	return data, nil
}
