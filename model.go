package arc

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// numSymbols is the alphabet size: every possible byte value.
const numSymbols = 256

var (
	// ErrEmptyInput is returned when there is no data to build a model from.
	ErrEmptyInput = errors.New("empty input")

	// ErrZeroTotal is returned when a frequency table sums to zero.
	ErrZeroTotal = errors.New("frequency table has zero total")
)

// A Model is the static order-0 frequency model shared by the encoder and
// the decoder. cum holds the prefix sums cum[0]=0, cum[i+1]=cum[i]+freq[i],
// so symbol s owns the slice [cum[s], cum[s+1]) of [0, total).
type Model struct {
	freq  [numSymbols]uint32
	cum   [numSymbols + 1]uint32
	total uint32
}

// NewModel counts byte occurrences over data and builds the cumulative
// table. The model is immutable afterwards.
func NewModel(data []byte) (*Model, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrEmptyInput, "")
	}
	var freq [numSymbols]uint32
	for _, b := range data {
		freq[b]++
	}
	return newModelFromFreq(freq)
}

// newModelFromFreq rebuilds a model from a stored frequency table, as read
// back from a container header.
func newModelFromFreq(freq [numSymbols]uint32) (*Model, error) {
	m := &Model{freq: freq}
	var sum uint64
	for i, f := range freq {
		sum += uint64(f)
		if sum > math.MaxUint32 {
			return nil, errors.Errorf("frequency total %d overflows 32 bits", sum)
		}
		m.cum[i+1] = uint32(sum)
	}
	m.total = m.cum[numSymbols]
	if m.total == 0 {
		return nil, errors.Wrap(ErrZeroTotal, "")
	}
	return m, nil
}

// Total returns the sum of all frequencies.
func (m *Model) Total() uint64 {
	return uint64(m.total)
}

// Bounds returns the cumulative interval [lo, hi) owned by symbol s.
func (m *Model) Bounds(s byte) (lo, hi uint64) {
	return uint64(m.cum[s]), uint64(m.cum[int(s)+1])
}

// SymbolFor returns the symbol s with cum[s] <= scaled < cum[s+1]. Values at
// or beyond the total clamp to the last symbol; a well-formed stream never
// produces them.
func (m *Model) SymbolFor(scaled uint64) byte {
	s := sort.Search(numSymbols, func(i int) bool {
		return scaled < uint64(m.cum[i+1])
	})
	if s == numSymbols {
		return numSymbols - 1
	}
	return byte(s)
}
