package vm

import "fmt"

// SegFault reports an access to an address outside the loaded image, for
// either instruction fetch or operand load/store.
type SegFault struct {
	PC   int64
	Addr int64
}

func (e *SegFault) Error() string {
	return fmt.Sprintf("segmentation fault at pc=%d: address %d out of range", e.PC, e.Addr)
}

// InputExhausted reports a second "in" trap after the input stream has
// already signalled end-of-stream, or any "in" trap hitting EOF when the
// machine was not configured to null-terminate input.
type InputExhausted struct {
	PC int64
}

func (e *InputExhausted) Error() string {
	return fmt.Sprintf("input exhausted at pc=%d", e.PC)
}

// BadImage reports a binary file whose length is not a whole multiple of
// the configured cell width.
type BadImage struct {
	Len   int
	Width int
}

func (e *BadImage) Error() string {
	return fmt.Sprintf("image length %d is not a multiple of cell width %d", e.Len, e.Width)
}
