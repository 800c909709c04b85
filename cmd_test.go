package arc

import (
	"bytes"
	"os"
	"testing"
)

func TestCompressFile(t *testing.T) {
	const name = "testdata/gettysburg.txt"

	// Compress
	f, err := os.CreateTemp("", "arc.TestCompressFile.Compress")
	if err != nil {
		t.Fatalf("%v", err)
	}
	defer f.Close()
	defer os.Remove(f.Name())
	if err := Compress(f, name); err != nil {
		t.Fatalf("%v", err)
	}

	// Decompress
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatalf("%v", err)
	}
	df, err := os.CreateTemp("", "arc.TestCompressFile.Decompress")
	if err != nil {
		t.Fatalf("%v", err)
	}
	defer df.Close()
	defer os.Remove(df.Name())
	if err := Decompress(df, f); err != nil {
		t.Fatalf("%v", err)
	}

	// Check that the decompressed result matches the original file
	decom, err := os.ReadFile(df.Name())
	if err != nil {
		t.Fatalf("%v", err)
	}
	orig, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if !bytes.Equal(orig, decom) {
		t.Errorf("decompressed %d bytes differ from original %d bytes", len(decom), len(orig))
	}
}

func TestCompressMissingInput(t *testing.T) {
	var buf bytes.Buffer
	if err := Compress(&buf, "testdata/no-such-file"); err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes", buf.Len())
	}
}
