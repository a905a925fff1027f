// Package scanner searches raw captures for Enhanced ShockBurst frames.
//
// A capture carries no framing information, so every byte that looks like a preamble
// is tried against each configured framing hypothesis. The CRC is the only arbiter:
// most hypotheses fail, and that is the normal case.
package scanner

import (
	"context"
	goerrors "errors"
	"io"
	"time"

	"shockburst-bridge/pkg/errors"
	"shockburst-bridge/pkg/logger"
	"shockburst-bridge/pkg/metrics"
	"shockburst-bridge/pkg/shockburst"
	"shockburst-bridge/pkg/source"
	"shockburst-bridge/pkg/topics"
)

// Result is one decoded packet and where its preamble sat in the capture
type Result struct {
	Offset int
	Packet *shockburst.Packet
}

// MismatchEvent is a frame on a candidate address that failed every hypothesis
type MismatchEvent struct {
	Offset   int
	Mismatch shockburst.Mismatch
}

// Err wraps the event as a FrameError for the error handler
func (e MismatchEvent) Err() *errors.FrameError {
	fe := errors.NewFrameError("crc check", shockburst.ErrCRCMismatch,
		topics.AddressKey(e.Mismatch.Address), e.Mismatch.PayloadLength)
	fe.Offset = e.Offset
	return fe
}

// Settings configures a Scanner
type Settings struct {
	Hypotheses         []shockburst.Hypothesis // Tried in order at each preamble
	AlignmentOffset    uint8
	CandidateAddresses [][]byte

	// OnMismatch is called at most once per preamble position. May be nil.
	OnMismatch func(MismatchEvent)
}

// Scanner decodes every frame it can find in a capture
type Scanner struct {
	settings Settings
	log      logger.ILogger
	metrics  metrics.MetricsCollector
}

// New creates a scanner. log and m may be nil.
func New(settings Settings, log logger.ILogger, m metrics.MetricsCollector) *Scanner {
	if log == nil {
		log = logger.NewStandardLogger()
	}
	if m == nil {
		m = metrics.NewNullMetrics()
	}
	return &Scanner{settings: settings, log: log, metrics: m}
}

// Scan returns the packets decoded from raw in capture order. After a successful decode
// the search resumes past the end of that frame.
func (s *Scanner) Scan(raw []byte) []Result {
	results, _ := s.scan(raw, len(raw), 0)
	return results
}

// scan tries preamble positions below limit and reports offsets relative to base. next is
// the first position it did not evaluate.
func (s *Scanner) scan(raw []byte, limit, base int) (results []Result, next int) {
	i := 0
	for ; i < limit && i+1 < len(raw); i++ {
		if !isPreamble(raw[i:]) {
			continue
		}

		var pending *shockburst.Mismatch
		opts := []shockburst.Option{shockburst.WithAlignmentOffset(s.settings.AlignmentOffset)}
		if len(s.settings.CandidateAddresses) > 0 {
			opts = append(opts, shockburst.WithCandidateAddresses(s.settings.CandidateAddresses,
				func(m shockburst.Mismatch) {
					if pending == nil {
						pending = &m
					}
				}))
		}

		offset := base + i
		packet := s.tryHypotheses(raw[i:], offset, opts)
		if packet != nil {
			results = append(results, Result{Offset: offset, Packet: packet})
			s.metrics.IncrementPacketsDecoded()
			s.log.LogDebug("📦 Decoded address %s (%d bytes payload) at offset %d",
				topics.AddressKey(packet.Address()), packet.PayloadLength(), offset)
			i += packet.LengthBytes() - 1
			continue
		}

		if pending != nil {
			s.metrics.IncrementCRCMismatches()
			s.log.LogDebug("🔍 Possible packet with CRC error at offset %d: address %s",
				offset, topics.AddressKey(pending.Address))
			if s.settings.OnMismatch != nil {
				s.settings.OnMismatch(MismatchEvent{Offset: offset, Mismatch: *pending})
			}
		}
	}

	if i > len(raw) {
		i = len(raw)
	}
	return results, i
}

// maxFrameLength is the longest frame any hypothesis can describe
func (s *Scanner) maxFrameLength() int {
	longest := 0
	for _, h := range s.settings.Hypotheses {
		if n := h.FrameLength(); n > longest {
			longest = n
		}
	}
	return longest
}

func (s *Scanner) tryHypotheses(raw []byte, offset int, opts []shockburst.Option) *shockburst.Packet {
	for _, h := range s.settings.Hypotheses {
		packet, err := shockburst.TryParse(raw, h, opts...)
		switch {
		case err == nil:
			return packet
		case goerrors.Is(err, shockburst.ErrCRCMismatch), goerrors.Is(err, shockburst.ErrTruncated):
			// Expected for almost every position
		default:
			s.log.LogWarn("⚠️ Hypothesis %s rejected at offset %d: %v", h, offset, err)
		}
	}
	return nil
}

// isPreamble reports whether raw starts with the preamble matching the following address byte
func isPreamble(raw []byte) bool {
	return (raw[0] == shockburst.PreambleHigh || raw[0] == shockburst.PreambleLow) &&
		raw[0] == shockburst.PreambleFor(raw[1:2])
}

// Run scans captures from src until it is exhausted or ctx is cancelled, passing every
// decoded packet to sink. It returns nil on io.EOF and stops at the first sink error.
//
// When src is a contiguous stream, offsets count from the start of the stream and the
// bytes that could still begin a frame are carried into the next capture. A position in
// the carried tail is only tried once a whole frame of the longest hypothesis is
// available, or at end of stream.
func (s *Scanner) Run(ctx context.Context, src source.Source, sink func(Result) error) error {
	stream := source.IsContiguous(src)
	window := s.maxFrameLength()

	var pending []byte
	base := 0

	emit := func(results []Result) error {
		for _, r := range results {
			if err := sink(r); err != nil {
				return err
			}
		}
		return nil
	}

	for {
		capture, err := src.Next(ctx)
		if err != nil {
			if goerrors.Is(err, io.EOF) {
				s.log.LogInfo("📭 Capture source exhausted")
				results, _ := s.scan(pending, len(pending), base)
				return emit(results)
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.metrics.SetSourceStatus(false)
			return errors.NewSourceError("read capture", err, "")
		}
		s.metrics.SetSourceStatus(true)
		s.metrics.IncrementFramesScanned()

		start := time.Now()
		var results []Result
		if stream {
			buf := make([]byte, 0, len(pending)+len(capture))
			buf = append(append(buf, pending...), capture...)
			limit := len(buf)
			if window > 0 {
				limit = max(len(buf)-window+1, 0)
			}
			var next int
			results, next = s.scan(buf, limit, base)
			pending = buf[next:]
			base += next
		} else {
			results = s.Scan(capture)
		}
		s.metrics.ObserveScanDuration(time.Since(start))
		logger.LogTrace("🔍 Scanned %d bytes, %d packets", len(capture), len(results))

		if err := emit(results); err != nil {
			return err
		}
	}
}
