// Package arc implements a static-model arithmetic coder over byte streams,
// after the integer algorithm in
// Witten, Ian H.; Neal, Radford M.; Cleary, John G. (June 1987). "Arithmetic Coding for Data Compression". Communications of the ACM 30 (6): 520–540.
// Byte frequencies are counted once over the whole input; the resulting
// cumulative table drives both the encoder and the decoder.
package arc

import (
	"io"

	"github.com/smolin/arc/bitio"
)

// The coder works on a 32-bit interval kept in uint64 registers, so the
// range*cum products below cannot truncate.
const (
	codeValueBits = 32
	maxCode       = (uint64(1) << codeValueBits) - 1
	half          = maxCode/2 + 1
	quarter       = half / 2
	threeQuarters = 3 * quarter
)

// An Encoder narrows the interval [low, high] one symbol at a time and
// emits bits as the interval's leading bits stabilize. pending counts
// underflow bits deferred while the interval straddles the midpoint.
type Encoder struct {
	w       *bitio.Writer
	low     uint64
	high    uint64
	pending uint64
}

// NewEncoder creates an arithmetic encoder that emits to the given bit
// writer.
func NewEncoder(w *bitio.Writer) *Encoder {
	return &Encoder{w: w, high: maxCode}
}

// bitPlusPending emits a settled bit followed by the deferred underflow
// bits, which take the opposite value.
func (e *Encoder) bitPlusPending(bit byte) error {
	if err := e.w.WriteBit(bit); err != nil {
		return err
	}
	for e.pending > 0 {
		if err := e.w.WriteBit(bit ^ 1); err != nil {
			return err
		}
		e.pending--
	}
	return nil
}

// Encode narrows the interval to symbol s's slice of the model and
// renormalizes, emitting every bit that is now determined.
func (e *Encoder) Encode(m *Model, s byte) error {
	lo, hi := m.Bounds(s)
	total := m.Total()
	width := e.high - e.low + 1
	e.high = e.low + width*hi/total - 1
	e.low = e.low + width*lo/total

	for {
		if e.high < half {
			if err := e.bitPlusPending(0); err != nil {
				return err
			}
		} else if e.low >= half {
			if err := e.bitPlusPending(1); err != nil {
				return err
			}
			e.low -= half
			e.high -= half
		} else if e.low >= quarter && e.high < threeQuarters {
			e.pending++
			e.low -= quarter
			e.high -= quarter
		} else {
			return nil
		}
		e.low <<= 1
		e.high = e.high<<1 | 1
	}
}

// Finish emits the final disambiguating bit, which also resolves any bits
// still pending. The caller remains responsible for flushing the bit
// writer.
func (e *Encoder) Finish() error {
	e.pending++
	if e.low < quarter {
		return e.bitPlusPending(0)
	}
	return e.bitPlusPending(1)
}

// A Decoder mirrors the encoder's interval and additionally tracks value,
// the position of the encoded stream within it. Reads past the declared bit
// budget, or past a premature end of the underlying stream, yield zero
// bits.
type Decoder struct {
	r         *bitio.Reader
	low       uint64
	high      uint64
	value     uint64
	budget    uint64
	truncated bool
}

// NewDecoder creates a decoder and primes value with the first
// codeValueBits bits of the stream. budget is the number of meaningful bits
// declared by the container header; beyond it the stream reads as an
// infinite zero tail.
func NewDecoder(r *bitio.Reader, budget uint64) (*Decoder, error) {
	d := &Decoder{r: r, high: maxCode, budget: budget}
	for i := 0; i < codeValueBits; i++ {
		b, err := d.nextBit()
		if err != nil {
			return nil, err
		}
		d.value = d.value<<1 | uint64(b)
	}
	return d, nil
}

func (d *Decoder) nextBit() (byte, error) {
	if d.budget == 0 {
		return 0, nil
	}
	d.budget--
	b, err := d.r.ReadBit()
	if err == io.EOF {
		d.truncated = true
		d.budget = 0
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return b, nil
}

// Truncated reports whether the stream ran out of real bits before the
// declared budget, in which case the remainder was read as zeros.
func (d *Decoder) Truncated() bool {
	return d.truncated
}

// Decode maps value's position inside the interval back to a symbol, then
// narrows and renormalizes exactly as the encoder did, pulling one fresh
// bit into value per shift.
func (d *Decoder) Decode(m *Model) (byte, error) {
	total := m.Total()
	width := d.high - d.low + 1
	scaled := ((d.value-d.low+1)*total - 1) / width
	s := m.SymbolFor(scaled)

	lo, hi := m.Bounds(s)
	d.high = d.low + width*hi/total - 1
	d.low = d.low + width*lo/total

	for {
		if d.high < half {
			// interval shift only; the settled bit was already consumed
		} else if d.low >= half {
			d.low -= half
			d.high -= half
			d.value -= half
		} else if d.low >= quarter && d.high < threeQuarters {
			d.low -= quarter
			d.high -= quarter
			d.value -= quarter
		} else {
			return s, nil
		}
		d.low <<= 1
		d.high = d.high<<1 | 1
		b, err := d.nextBit()
		if err != nil {
			return 0, err
		}
		d.value = d.value<<1 | uint64(b)
	}
}
