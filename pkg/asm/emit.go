package asm

import "subleq/internal/width"

// Emit serializes resolved cell values into a little-endian byte stream at
// the configured cell width. It fails closed with RangeError on the first
// value that would need truncation rather than silently wrapping — wrapping
// is the emulator's job at run time, not the assembler's at build time.
func Emit(values []int64, w width.Width) ([]byte, error) {
	out := make([]byte, 0, len(values)*int(w))
	for _, v := range values {
		if !w.InRange(v) {
			return nil, &RangeError{Value: v, Min: w.Min(), Max: w.Max()}
		}
		u := uint64(v)
		for i := 0; i < int(w); i++ {
			out = append(out, byte(u))
			u >>= 8
		}
	}
	return out, nil
}
