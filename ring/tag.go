package ring

// Tag identifies which back-end a prepared or DFT-domain container was
// built for. Attempting to feed a container tagged for one back-end into
// another back-end's VMP is a precondition violation (spec §4.11): a
// prepared key is bound to a back-end tag and cannot be consumed by a
// different back-end.
type Tag uint8

const (
	// TagFFT64 marks containers prepared by the reference float64
	// split-radix FFT back-end.
	TagFFT64 Tag = iota + 1
	// TagNTT120 marks containers prepared by the two-prime (60-bit each)
	// CRT NTT back-end.
	TagNTT120
)

func (t Tag) String() string {
	switch t {
	case TagFFT64:
		return "fft64"
	case TagNTT120:
		return "ntt120"
	default:
		return "unknown"
	}
}
