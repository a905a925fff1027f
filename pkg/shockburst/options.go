package shockburst

// Option tunes assembly and parsing
type Option func(*options)

type options struct {
	alignmentOffset uint8
	candidates      [][]byte
	report          func(Mismatch)
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithAlignmentOffset shifts payload and CRC right by bits (0..7, higher values wrap).
// Only the zero offset has been verified against real captures.
func WithAlignmentOffset(bits uint8) Option {
	return func(o *options) {
		o.alignmentOffset = bits & 7
	}
}

// WithCandidateAddresses makes TryParse call report when a frame fails its CRC check but
// its address starts with one of addrs. Parsing results are unaffected.
func WithCandidateAddresses(addrs [][]byte, report func(Mismatch)) Option {
	return func(o *options) {
		o.candidates = addrs
		o.report = report
	}
}
