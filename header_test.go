package arc

import (
	"bytes"
	"errors"
	"testing"

	"github.com/kr/pretty"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := &header{origSize: 123456, bitCount: 789012}
	h.freq[0] = 7
	h.freq['a'] = 1000
	h.freq[255] = 42

	var buf bytes.Buffer
	if err := h.writeTo(&buf); err != nil {
		t.Fatalf("%v", err)
	}
	if buf.Len() != headerSize {
		t.Fatalf("header is %d bytes, want %d", buf.Len(), headerSize)
	}
	got, err := readHeader(&buf)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if got.origSize != h.origSize || got.bitCount != h.bitCount {
		t.Errorf("origSize %d bitCount %d, want %d %d",
			got.origSize, got.bitCount, h.origSize, h.bitCount)
	}
	if diff := pretty.Diff(h.freq, got.freq); len(diff) > 0 {
		t.Errorf("freq mismatch: %v", diff)
	}
}

func TestHeaderBadMagic(t *testing.T) {
	var buf bytes.Buffer
	h := &header{origSize: 1}
	if err := h.writeTo(&buf); err != nil {
		t.Fatalf("%v", err)
	}
	b := buf.Bytes()
	b[3] ^= 0x01
	if _, err := readHeader(bytes.NewReader(b)); !errors.Is(err, ErrFormat) {
		t.Fatalf("%v", err)
	}
}
