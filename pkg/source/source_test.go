package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shockburst-bridge/pkg/config"
	"shockburst-bridge/pkg/shockburst"
)

func TestHexLineSource(t *testing.T) {
	input := strings.Join([]string{
		"# recorded on channel 76",
		"",
		"aae7e7e70102aec1",
		"  55 45 81 6E 9F  ",
		"AA:E7:E7:E7:01:02:AE",
		"# trailing comment",
	}, "\n")

	src := NewHexLineSource(strings.NewReader(input))
	want := [][]byte{
		{0xAA, 0xE7, 0xE7, 0xE7, 0x01, 0x02, 0xAE, 0xC1},
		{0x55, 0x45, 0x81, 0x6E, 0x9F},
		{0xAA, 0xE7, 0xE7, 0xE7, 0x01, 0x02, 0xAE},
	}

	for i, w := range want {
		got, err := src.Next(context.Background())
		if err != nil {
			t.Fatalf("capture %d: Next() error = %v", i, err)
		}
		if !bytes.Equal(got, w) {
			t.Errorf("capture %d = % X, want % X", i, got, w)
		}
	}

	if _, err := src.Next(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after last capture, got %v", err)
	}
}

func TestHexLineSourceInvalidLine(t *testing.T) {
	src := NewHexLineSource(strings.NewReader("aa\nzz\n"))

	if _, err := src.Next(context.Background()); err != nil {
		t.Fatalf("first line: %v", err)
	}
	_, err := src.Next(context.Background())
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected error naming line 2, got %v", err)
	}
}

func TestHexLineSourceCancelled(t *testing.T) {
	src := NewHexLineSource(strings.NewReader("aa\n"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDecodeHex(t *testing.T) {
	tests := []struct {
		in      string
		want    []byte
		wantErr bool
	}{
		{"0xAA55", []byte{0xAA, 0x55}, false},
		{"de-ad-be-ef", []byte{0xDE, 0xAD, 0xBE, 0xEF}, false},
		{"abc", nil, true},
		{"gg", nil, true},
	}

	for _, tt := range tests {
		got, err := DecodeHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("DecodeHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !bytes.Equal(got, tt.want) {
			t.Errorf("DecodeHex(%q) = % X, want % X", tt.in, got, tt.want)
		}
	}
}

func TestOpenFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.hex")
	if err := os.WriteFile(path, []byte("55 45 81 6e 9f\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Source.Type = config.SourceFile
	cfg.Source.Path = path

	src, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	got, err := src.Next(context.Background())
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if !bytes.Equal(got, []byte{0x55, 0x45, 0x81, 0x6E, 0x9F}) {
		t.Errorf("capture = % X", got)
	}
}

func TestOpenUnknownSource(t *testing.T) {
	cfg := config.Default()
	cfg.Source.Type = "udp"
	if _, err := Open(cfg); err == nil {
		t.Error("expected error for unknown source type")
	}
}

// fakePort replays scripted reads; an empty chunk simulates a read timeout
type fakePort struct {
	reads   [][]byte
	written bytes.Buffer
	flushes int
	closed  bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	if len(p.reads) == 0 {
		return 0, io.EOF
	}
	chunk := p.reads[0]
	n := copy(b, chunk)
	if n < len(chunk) {
		p.reads[0] = chunk[n:]
	} else {
		p.reads = p.reads[1:]
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) { return p.written.Write(b) }

func (p *fakePort) Flush() error {
	p.flushes++
	return nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestSerialSourceSplitsOnQuietRead(t *testing.T) {
	port := &fakePort{reads: [][]byte{
		{},
		{0xAA, 0xE7},
		{0xE7, 0xE7, 0x01},
		{},
		{0x55, 0x45},
		{},
	}}
	src := NewSerialSource(port, 64, 100*time.Millisecond)

	first, err := src.Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, []byte{0xAA, 0xE7, 0xE7, 0xE7, 0x01}) {
		t.Errorf("first capture = % X", first)
	}

	second, err := src.Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(second, []byte{0x55, 0x45}) {
		t.Errorf("second capture = % X", second)
	}

	if err := src.Close(); err != nil || !port.closed {
		t.Error("expected port to be closed")
	}
}

func TestSerialSourceChunkLimit(t *testing.T) {
	port := &fakePort{reads: [][]byte{{1, 2, 3, 4, 5, 6}}}
	src := NewSerialSource(port, 4, 100*time.Millisecond)

	got, err := src.Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("capture = % X, want first 4 bytes", got)
	}
}

func TestSerialSourceCancelledWhileQuiet(t *testing.T) {
	src := NewSerialSource(&fakePort{}, 8, 100*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSerialSourceEndOfStream(t *testing.T) {
	port := &fakePort{reads: [][]byte{{0x55, 0x45, 0x81}, {0x6E, 0x9F}}}
	src := NewSerialSource(port, 64, 0)

	got, err := src.Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0x55, 0x45, 0x81, 0x6E, 0x9F}) {
		t.Errorf("capture = % X", got)
	}

	for i := 0; i < 2; i++ {
		if _, err := src.Next(context.Background()); !errors.Is(err, io.EOF) {
			t.Fatalf("call %d after reader ran dry: expected io.EOF, got %v", i, err)
		}
	}
}

func TestSerialSourceContiguous(t *testing.T) {
	if !IsContiguous(NewSerialSource(&fakePort{}, 8, 0)) {
		t.Error("serial captures should be contiguous")
	}
	if IsContiguous(NewHexLineSource(strings.NewReader(""))) {
		t.Error("hex line captures should be independent")
	}
}

func testPacket(t *testing.T) *shockburst.Packet {
	t.Helper()
	p, err := shockburst.New(shockburst.Fields{
		AddressLength: 1,
		PayloadLength: 1,
		CRCLength:     2,
		Address:       []byte{0x45},
		Payload:       []byte{0x81},
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestWriterTransmitterRoundTrip(t *testing.T) {
	var out bytes.Buffer
	tx := NewWriterTransmitter(&out)

	if err := tx.Transmit(context.Background(), testPacket(t)); err != nil {
		t.Fatal(err)
	}
	if out.String() != "5545816e9f\n" {
		t.Errorf("output = %q", out.String())
	}

	// Written lines replay through HexLineSource
	got, err := NewHexLineSource(&out).Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, testPacket(t).Bytes()) {
		t.Errorf("replayed capture = % X", got)
	}
}

func TestSerialTransmitter(t *testing.T) {
	port := &fakePort{}
	tx := NewSerialTransmitter(port)

	if err := tx.Transmit(context.Background(), testPacket(t)); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(port.written.Bytes(), []byte{0x55, 0x45, 0x81, 0x6E, 0x9F}) {
		t.Errorf("written = % X", port.written.Bytes())
	}
	if port.flushes != 1 {
		t.Errorf("flushes = %d, want 1", port.flushes)
	}
	if err := tx.Close(); err != nil || !port.closed {
		t.Error("expected port to be closed")
	}
}
