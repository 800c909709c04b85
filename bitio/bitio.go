// Package bitio provides bit-granular reading and writing on top of
// byte-oriented streams. Bits are packed most-significant-bit first.
package bitio

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// A Writer packs single bits into bytes and writes them to an underlying
// io.Writer. It keeps a running count of the bits written, which excludes
// any zero padding added by Flush.
type Writer struct {
	w     *bufio.Writer
	cur   byte
	nbits uint8
	total uint64
}

// NewWriter creates a bit writer backed by the given io.Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteBit writes a single bit. b must be 0 or 1.
func (bw *Writer) WriteBit(b byte) error {
	bw.cur |= b << (7 - bw.nbits)
	bw.nbits++
	bw.total++
	if bw.nbits == 8 {
		if err := bw.w.WriteByte(bw.cur); err != nil {
			return errors.Wrap(err, "")
		}
		bw.cur = 0
		bw.nbits = 0
	}
	return nil
}

// BitsWritten reports the number of bits written so far, not counting the
// padding Flush may add.
func (bw *Writer) BitsWritten() uint64 {
	return bw.total
}

// Flush pads any partial byte with zero bits, writes it out and flushes the
// underlying buffer. The padding is not reflected in BitsWritten.
func (bw *Writer) Flush() error {
	if bw.nbits > 0 {
		if err := bw.w.WriteByte(bw.cur); err != nil {
			return errors.Wrap(err, "")
		}
		bw.cur = 0
		bw.nbits = 0
	}
	return errors.Wrap(bw.w.Flush(), "")
}

// A Reader extracts single bits from an underlying io.Reader, most
// significant bit of each byte first.
type Reader struct {
	r     *bufio.Reader
	cur   byte
	nbits uint8 // bits left in cur
}

// NewReader creates a bit reader that wraps the given io.Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadBit reads a single bit. It returns io.EOF once the underlying stream
// is exhausted on a byte boundary, so callers can tell end-of-data apart
// from a valid zero bit.
func (br *Reader) ReadBit() (byte, error) {
	if br.nbits == 0 {
		b, err := br.r.ReadByte()
		if err == io.EOF {
			return 0, io.EOF
		}
		if err != nil {
			return 0, errors.Wrap(err, "")
		}
		br.cur = b
		br.nbits = 8
	}
	br.nbits--
	return (br.cur >> br.nbits) & 1, nil
}
