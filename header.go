package arc

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Container layout, all fields little-endian:
//
//	magic           uint32
//	origSize        uint32
//	freq[256]       uint32 each
//	encodedBitCount uint64
//
// followed by the bit-packed payload, zero-padded to a byte boundary.
// encodedBitCount excludes that padding. origSize is deliberately 32 bits
// wide for compatibility with the existing format, which caps inputs below
// 4 GiB.
const (
	magic      = 0x41524331 // "ARC1"
	headerSize = 4 + 4 + 4*numSymbols + 8
)

// ErrFormat is returned when a stream does not start with the arc magic.
var ErrFormat = errors.New("bad magic")

type header struct {
	origSize uint32
	freq     [numSymbols]uint32
	bitCount uint64
}

func (h *header) writeTo(w io.Writer) error {
	var buf [headerSize]byte
	binary.LittleEndian.PutUint32(buf[0:], magic)
	binary.LittleEndian.PutUint32(buf[4:], h.origSize)
	for i, f := range h.freq {
		binary.LittleEndian.PutUint32(buf[8+4*i:], f)
	}
	binary.LittleEndian.PutUint64(buf[8+4*numSymbols:], h.bitCount)
	_, err := w.Write(buf[:])
	return errors.Wrap(err, "")
}

func readHeader(r io.Reader) (*header, error) {
	var buf [headerSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, errors.Wrap(err, "")
	}
	if binary.LittleEndian.Uint32(buf[0:]) != magic {
		return nil, errors.Wrap(ErrFormat, "")
	}
	h := &header{}
	h.origSize = binary.LittleEndian.Uint32(buf[4:])
	for i := range h.freq {
		h.freq[i] = binary.LittleEndian.Uint32(buf[8+4*i:])
	}
	h.bitCount = binary.LittleEndian.Uint64(buf[8+4*numSymbols:])
	return h, nil
}
