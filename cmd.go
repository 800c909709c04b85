package arc

import (
	"bufio"
	"bytes"
	"io"
	"log"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/smolin/arc/bitio"
)

// ErrTooLarge is returned when the input does not fit the container's
// 32-bit size field.
var ErrTooLarge = errors.New("input exceeds the container's 4 GiB limit")

// Compress reads the whole file name into memory, builds a static frequency
// model over it, and writes the arithmetic-coded container to w.
func Compress(w io.Writer, name string) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "")
	}
	return encode(w, data)
}

func encode(w io.Writer, data []byte) error {
	if uint64(len(data)) > math.MaxUint32 {
		return errors.Wrap(ErrTooLarge, "")
	}
	m, err := NewModel(data)
	if err != nil {
		return err
	}

	// The payload is coded into memory first so that the header, which
	// records the exact bit count, can be written in one piece.
	var payload bytes.Buffer
	bw := bitio.NewWriter(&payload)
	enc := NewEncoder(bw)
	for _, b := range data {
		if err := enc.Encode(m, b); err != nil {
			return err
		}
	}
	if err := enc.Finish(); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	h := &header{
		origSize: uint32(len(data)),
		freq:     m.freq,
		bitCount: bw.BitsWritten(),
	}
	if err := h.writeTo(w); err != nil {
		return err
	}
	_, err = w.Write(payload.Bytes())
	return errors.Wrap(err, "")
}

// Decompress reads an arc container from r and writes the reconstructed
// bytes to w. Exactly the origSize bytes recorded in the header are
// produced; a bitstream that ends early is read as if padded with zero
// bits.
func Decompress(w io.Writer, r io.Reader) error {
	h, err := readHeader(r)
	if err != nil {
		return err
	}
	m, err := newModelFromFreq(h.freq)
	if err != nil {
		return err
	}

	dec, err := NewDecoder(bitio.NewReader(r), h.bitCount)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for i := uint32(0); i < h.origSize; i++ {
		s, err := dec.Decode(m)
		if err != nil {
			return err
		}
		if err := bw.WriteByte(s); err != nil {
			return errors.Wrap(err, "")
		}
	}
	if dec.Truncated() {
		log.Printf("bitstream shorter than the declared %d bits, remainder read as zeros", h.bitCount)
	}
	return errors.Wrap(bw.Flush(), "")
}
