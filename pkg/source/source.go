// Package source supplies raw radio captures to the scanner and sends assembled frames back out.
package source

import (
	"context"
	"fmt"
	"os"

	"shockburst-bridge/pkg/config"
)

// Source yields one raw capture per call. A capture is an arbitrary byte window that may
// contain zero or more frames at any byte offset. Next returns io.EOF when the source is
// exhausted.
type Source interface {
	Next(ctx context.Context) ([]byte, error)
	Close() error
}

// Stream is implemented by sources whose captures are consecutive pieces of one byte
// stream rather than independent windows. Scanners carry the end of one capture over into
// the next so frames crossing a capture boundary are not lost.
type Stream interface {
	Contiguous() bool
}

// IsContiguous reports whether src is a Stream with consecutive captures
func IsContiguous(src Source) bool {
	s, ok := src.(Stream)
	return ok && s.Contiguous()
}

// Open builds the source selected by the configuration
func Open(cfg *config.Config) (Source, error) {
	switch cfg.Source.Type {
	case config.SourceStdin:
		return NewHexLineSource(os.Stdin), nil
	case config.SourceFile:
		return OpenHexFile(cfg.Source.Path)
	case config.SourceSerial:
		settings := config.NewSerialSettings(cfg)
		port, err := OpenSerial(settings)
		if err != nil {
			return nil, err
		}
		return NewSerialSource(port, cfg.Source.ChunkSize, settings.ReadTimeout), nil
	default:
		return nil, fmt.Errorf("unknown source type %q", cfg.Source.Type)
	}
}
