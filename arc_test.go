package arc

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/smolin/arc/bitio"
)

func roundTrip(t *testing.T, data []byte) []byte {
	t.Helper()
	var comp bytes.Buffer
	if err := encode(&comp, data); err != nil {
		t.Fatalf("%v", err)
	}
	var out bytes.Buffer
	if err := Decompress(&out, bytes.NewReader(comp.Bytes())); err != nil {
		t.Fatalf("%v", err)
	}
	if !bytes.Equal(out.Bytes(), data) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", out.Len(), len(data))
	}
	return comp.Bytes()
}

func fullAlphabet() []byte {
	data := make([]byte, numSymbols)
	for i := range data {
		data[i] = byte(i)
	}
	return data
}

// skewedData is mostly one symbol with occasional others, the distribution
// arithmetic coding profits from the most.
func skewedData(n int, rng *rand.Rand) []byte {
	data := make([]byte, n)
	for i := range data {
		if rng.Intn(10) == 0 {
			data[i] = byte(rng.Intn(numSymbols))
		} else {
			data[i] = 'e'
		}
	}
	return data
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	uniform := make([]byte, 100000)
	rng.Read(uniform)

	cases := []struct {
		name string
		data []byte
	}{
		{"one byte", []byte{0x00}},
		{"two bytes", []byte{0xff, 0x00}},
		{"repeated symbol", bytes.Repeat([]byte{0x41}, 1000)},
		{"full alphabet", fullAlphabet()},
		{"skewed 4096", skewedData(4096, rng)},
		{"uniform random 100k", uniform},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			roundTrip(t, tc.data)
		})
	}
}

func TestRepeatedSymbolCompresses(t *testing.T) {
	comp := roundTrip(t, bytes.Repeat([]byte{0x41}, 1000))
	payload := len(comp) - headerSize
	if payload > 8 {
		t.Errorf("payload is %d bytes for 1000 repeated bytes", payload)
	}
}

func TestEmptyInput(t *testing.T) {
	var buf bytes.Buffer
	err := encode(&buf, nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("%v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes", buf.Len())
	}
}

func TestBadMagic(t *testing.T) {
	comp := roundTrip(t, []byte("abracadabra"))
	comp[0] ^= 0xff
	err := Decompress(&bytes.Buffer{}, bytes.NewReader(comp))
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("%v", err)
	}
}

func TestZeroTotal(t *testing.T) {
	// a well-formed header whose frequency table is all zeros
	var buf bytes.Buffer
	h := &header{origSize: 5}
	if err := h.writeTo(&buf); err != nil {
		t.Fatalf("%v", err)
	}
	err := Decompress(&bytes.Buffer{}, bytes.NewReader(buf.Bytes()))
	if !errors.Is(err, ErrZeroTotal) {
		t.Fatalf("%v", err)
	}
}

func TestHeaderBitCount(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	comp := roundTrip(t, data)
	h, err := readHeader(bytes.NewReader(comp))
	if err != nil {
		t.Fatalf("%v", err)
	}
	if h.origSize != uint32(len(data)) {
		t.Errorf("origSize = %d, want %d", h.origSize, len(data))
	}
	// the payload is exactly the declared bits, zero-padded to a byte
	payload := uint64(len(comp) - headerSize)
	if (h.bitCount+7)/8 != payload {
		t.Errorf("bit count %d does not fill the %d payload bytes", h.bitCount, payload)
	}
}

func TestTruncatedStream(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	data := skewedData(4096, rng)
	var comp bytes.Buffer
	if err := encode(&comp, data); err != nil {
		t.Fatalf("%v", err)
	}

	// Cut the payload in half. The decoder reads the missing tail as zero
	// bits and still produces origSize bytes without error.
	cut := headerSize + (comp.Len()-headerSize)/2
	var out bytes.Buffer
	if err := Decompress(&out, bytes.NewReader(comp.Bytes()[:cut])); err != nil {
		t.Fatalf("%v", err)
	}
	if out.Len() != len(data) {
		t.Errorf("decoded %d bytes, want %d", out.Len(), len(data))
	}
}

func TestIntervalInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	data := skewedData(2000, rng)
	m, err := NewModel(data)
	if err != nil {
		t.Fatalf("%v", err)
	}

	var payload bytes.Buffer
	bw := bitio.NewWriter(&payload)
	enc := NewEncoder(bw)
	for i, b := range data {
		if err := enc.Encode(m, b); err != nil {
			t.Fatalf("%v", err)
		}
		if enc.low > enc.high {
			t.Fatalf("encoder low %d > high %d after symbol %d", enc.low, enc.high, i)
		}
	}
	if err := enc.Finish(); err != nil {
		t.Fatalf("%v", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("%v", err)
	}
	if enc.pending != 0 {
		t.Errorf("%d pending bits left after Finish", enc.pending)
	}

	dec, err := NewDecoder(bitio.NewReader(bytes.NewReader(payload.Bytes())), bw.BitsWritten())
	if err != nil {
		t.Fatalf("%v", err)
	}
	for i := range data {
		s, err := dec.Decode(m)
		if err != nil {
			t.Fatalf("%v", err)
		}
		if s != data[i] {
			t.Fatalf("symbol %d: got %#x, want %#x", i, s, data[i])
		}
		if dec.low > dec.high {
			t.Fatalf("decoder low %d > high %d after symbol %d", dec.low, dec.high, i)
		}
		if dec.value < dec.low || dec.value > dec.high {
			t.Fatalf("decoder value %d outside [%d, %d] after symbol %d", dec.value, dec.low, dec.high, i)
		}
	}
}
