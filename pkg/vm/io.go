package vm

import (
	"fmt"
	"io"
)

// OutputSink receives the full signed value of mem[A] on every "out" trap,
// before any byte truncation, so that decimal mode can show the true
// signed cell value ("-5") while ASCII mode still emits the single
// truncated byte a real terminal would receive (0xFB).
type OutputSink interface {
	Output(v int64) error
}

// AsciiSink writes the low 8 bits of v as a single raw byte, matching what
// a real SUBLEQ terminal peripheral would see.
type AsciiSink struct {
	W io.Writer
}

func (s AsciiSink) Output(v int64) error {
	_, err := s.W.Write([]byte{byte(v)})
	return err
}

// DecimalSink writes v's full signed value as a decimal line, for
// human-readable inspection of programs that never intended their output
// to be interpreted as text.
type DecimalSink struct {
	W io.Writer
}

func (s DecimalSink) Output(v int64) error {
	_, err := fmt.Fprintf(s.W, "%d\n", v)
	return err
}

// ReaderSource adapts a plain io.Reader into an InputSource, reading one
// byte per "in" trap regardless of output mode.
type ReaderSource struct {
	R io.Reader
}

func (s ReaderSource) ReadByte() (byte, bool, error) {
	var buf [1]byte
	n, err := s.R.Read(buf[:])
	if n == 1 {
		return buf[0], true, nil
	}
	if err == io.EOF || err == nil {
		return 0, false, nil
	}
	return 0, false, err
}
