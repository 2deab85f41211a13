package agiprotocol

// Span is a half-open byte range [From, Edge) into the buffer a parser scanned.
type Span struct {
	From int
	Edge int
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int { return s.Edge - s.From }

// IsEmpty reports whether s covers no bytes.
func (s Span) IsEmpty() bool { return s.From == s.Edge }

// Bytes returns the bytes of buf covered by s.
func (s Span) Bytes(buf []byte) []byte { return buf[s.From:s.Edge] }

// Text returns the substring of block covered by s.
func (s Span) Text(block string) string { return block[s.From:s.Edge] }

// HeaderBuffer is a fixed-capacity buffer that holds one header block.
//
// Every byte of the capacity is usable. Filling past the capacity before the
// block terminator is seen fails with ErrBufferOverflow.
type HeaderBuffer struct {
	buf []byte
	n   int
}

// NewHeaderBuffer creates a header buffer with the given capacity.
// A capacity below 1 uses DefaultHeaderBufferSize.
func NewHeaderBuffer(capacity int) *HeaderBuffer {
	if capacity < 1 {
		capacity = DefaultHeaderBufferSize
	}
	return &HeaderBuffer{buf: make([]byte, capacity)}
}

// Bytes returns the buffered bytes. The slice aliases the buffer.
func (b *HeaderBuffer) Bytes() []byte { return b.buf[:b.n] }

// Len returns the number of buffered bytes.
func (b *HeaderBuffer) Len() int { return b.n }

// Cap returns the buffer capacity.
func (b *HeaderBuffer) Cap() int { return len(b.buf) }

// Available returns the remaining capacity.
func (b *HeaderBuffer) Available() int { return len(b.buf) - b.n }

// Reset discards the buffered bytes.
func (b *HeaderBuffer) Reset() { b.n = 0 }

// Complete reports whether the buffer holds a full header block: either a
// lone terminator (no headers) or data ending in two terminators.
func (b *HeaderBuffer) Complete() bool {
	switch {
	case b.n == 1:
		return b.buf[0] == LineTerminator
	case b.n >= 2:
		return b.buf[b.n-1] == LineTerminator && b.buf[b.n-2] == LineTerminator
	default:
		return false
	}
}

// free returns the unused tail of the buffer for the next read.
func (b *HeaderBuffer) free() []byte { return b.buf[b.n:] }

func (b *HeaderBuffer) advance(n int) { b.n += n }
