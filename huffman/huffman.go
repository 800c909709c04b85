// Package huffman implements an order-0 Huffman codec over byte streams. It
// is independent of the arithmetic coder in the parent package and uses its
// own container format:
//
//	magic       uint32  little-endian
//	origSize    uint64
//	uniqueCount uint16
//	uniqueCount entries of (symbol uint8, freq uint64)
//
// followed by the bit-packed code stream, zero-padded to a byte boundary.
package huffman

import (
	"bufio"
	"container/heap"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/smolin/arc/bitio"
)

const (
	magic      = 0x48464631 // "HFF1"
	numSymbols = 256
	headerSize = 4 + 8 + 2
	entrySize  = 1 + 8
)

var (
	// ErrEmptyInput is returned when there is no data to build a tree from.
	ErrEmptyInput = errors.New("empty input")

	// ErrFormat is returned when a stream does not start with the huffman
	// magic.
	ErrFormat = errors.New("bad magic")

	// ErrZeroTotal is returned when a stored frequency table has no
	// nonzero entries.
	ErrZeroTotal = errors.New("frequency table has zero total")

	// ErrTruncated is returned when the bitstream ends before origSize
	// symbols have been decoded.
	ErrTruncated = errors.New("bitstream ends before all symbols are decoded")

	// ErrCodeTooLong is returned when a tree is so skewed that a code
	// does not fit the 64-bit representation. A total frequency beyond
	// the 66th Fibonacci number is needed to get there.
	ErrCodeTooLong = errors.New("huffman code exceeds 64 bits")
)

// A node is a Huffman tree node; leaves carry a symbol.
type node struct {
	sym   byte
	freq  uint64
	left  *node
	right *node
	leaf  bool
	order int // creation order, breaks frequency ties deterministically
}

// nodeHeap is a min-heap over node frequency.
type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].order < h[j].order
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*node)) }

func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// buildTree merges the two lowest-frequency nodes until a single root
// remains. It returns nil when no symbol has a nonzero frequency.
func buildTree(freq *[numSymbols]uint64) *node {
	h := nodeHeap{}
	order := 0
	for i, f := range freq {
		if f > 0 {
			h = append(h, &node{sym: byte(i), freq: f, leaf: true, order: order})
			order++
		}
	}
	if len(h) == 0 {
		return nil
	}
	heap.Init(&h)
	for h.Len() > 1 {
		a := heap.Pop(&h).(*node)
		b := heap.Pop(&h).(*node)
		heap.Push(&h, &node{freq: a.freq + b.freq, left: a, right: b, order: order})
		order++
	}
	return h[0]
}

// A code is a symbol's bit pattern: the low nbits of bits, emitted most
// significant first. Fibonacci-like frequency distributions produce code
// lengths far beyond 32 bits, so bits must be 64 wide.
type code struct {
	bits  uint64
	nbits uint8
}

// buildCodes derives the code table by tree traversal, 0 for left and 1 for
// right. A single-leaf tree gets the one-bit code 0.
func buildCodes(n *node, bits uint64, nbits uint8, codes *[numSymbols]code) error {
	if n.leaf {
		if nbits == 0 {
			nbits = 1
		}
		codes[n.sym] = code{bits: bits, nbits: nbits}
		return nil
	}
	if nbits == 64 {
		return errors.Wrap(ErrCodeTooLong, "")
	}
	if err := buildCodes(n.left, bits<<1, nbits+1, codes); err != nil {
		return err
	}
	return buildCodes(n.right, bits<<1|1, nbits+1, codes)
}

// Compress reads the whole file name into memory and writes the
// Huffman-coded container to w.
func Compress(w io.Writer, name string) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "")
	}
	return encode(w, data)
}

func encode(w io.Writer, data []byte) error {
	if len(data) == 0 {
		return errors.Wrap(ErrEmptyInput, "")
	}
	var freq [numSymbols]uint64
	for _, b := range data {
		freq[b]++
	}
	root := buildTree(&freq)
	var codes [numSymbols]code
	if err := buildCodes(root, 0, 0, &codes); err != nil {
		return err
	}

	var unique uint16
	for _, f := range freq {
		if f > 0 {
			unique++
		}
	}
	var hdr [headerSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], magic)
	binary.LittleEndian.PutUint64(hdr[4:], uint64(len(data)))
	binary.LittleEndian.PutUint16(hdr[12:], unique)
	if _, err := w.Write(hdr[:]); err != nil {
		return errors.Wrap(err, "")
	}
	for i, f := range freq {
		if f == 0 {
			continue
		}
		var ent [entrySize]byte
		ent[0] = byte(i)
		binary.LittleEndian.PutUint64(ent[1:], f)
		if _, err := w.Write(ent[:]); err != nil {
			return errors.Wrap(err, "")
		}
	}

	bw := bitio.NewWriter(w)
	for _, b := range data {
		c := codes[b]
		for i := int(c.nbits) - 1; i >= 0; i-- {
			if err := bw.WriteBit(byte(c.bits>>uint(i)) & 1); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// Decompress reads a huffman container from r and writes the reconstructed
// bytes to w. Unlike the arithmetic codec, a bitstream that ends before
// origSize symbols have been decoded is an error.
func Decompress(w io.Writer, r io.Reader) error {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return errors.Wrap(err, "")
	}
	if binary.LittleEndian.Uint32(hdr[0:]) != magic {
		return errors.Wrap(ErrFormat, "")
	}
	origSize := binary.LittleEndian.Uint64(hdr[4:])
	unique := binary.LittleEndian.Uint16(hdr[12:])

	var freq [numSymbols]uint64
	for i := uint16(0); i < unique; i++ {
		var ent [entrySize]byte
		if _, err := io.ReadFull(r, ent[:]); err != nil {
			return errors.Wrap(err, "")
		}
		freq[ent[0]] = binary.LittleEndian.Uint64(ent[1:])
	}
	root := buildTree(&freq)
	if root == nil {
		return errors.Wrap(ErrZeroTotal, "")
	}

	bw := bufio.NewWriter(w)
	if root.leaf {
		// single distinct symbol, no bitstream needed
		for i := uint64(0); i < origSize; i++ {
			if err := bw.WriteByte(root.sym); err != nil {
				return errors.Wrap(err, "")
			}
		}
		return errors.Wrap(bw.Flush(), "")
	}

	br := bitio.NewReader(r)
	cur := root
	for written := uint64(0); written < origSize; {
		b, err := br.ReadBit()
		if err == io.EOF {
			return errors.Wrap(ErrTruncated, "")
		}
		if err != nil {
			return err
		}
		if b == 0 {
			cur = cur.left
		} else {
			cur = cur.right
		}
		if cur.leaf {
			if err := bw.WriteByte(cur.sym); err != nil {
				return errors.Wrap(err, "")
			}
			written++
			cur = root
		}
	}
	return errors.Wrap(bw.Flush(), "")
}
