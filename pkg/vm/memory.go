package vm

import "subleq/internal/width"

// Memory is the flat, fixed-size signed-integer image a Machine executes
// over. Its size is set once at load time from the binary's length; there
// is no growth and no zero-extension past the loaded bytes.
type Memory struct {
	cells []int64
	w     width.Width
}

// DecodeImage unpacks a little-endian binary image into signed cells at
// width w, sign-extending each group of w bytes per two's complement.
func DecodeImage(data []byte, w width.Width) ([]int64, error) {
	if len(data)%int(w) != 0 {
		return nil, &BadImage{Len: len(data), Width: int(w)}
	}
	n := len(data) / int(w)
	cells := make([]int64, n)
	for i := 0; i < n; i++ {
		var u uint64
		for j := 0; j < int(w); j++ {
			u |= uint64(data[i*int(w)+j]) << (8 * uint(j))
		}
		cells[i] = w.Wrap(int64(u))
	}
	return cells, nil
}

// NewMemory copies image into a fresh Memory of the same length.
func NewMemory(image []int64, w width.Width) *Memory {
	cells := make([]int64, len(image))
	copy(cells, image)
	return &Memory{cells: cells, w: w}
}

// Len reports the number of addressable cells.
func (m *Memory) Len() int64 { return int64(len(m.cells)) }

func (m *Memory) inRange(addr int64) bool {
	return addr >= 0 && addr < int64(len(m.cells))
}

// Load reads the cell at addr.
func (m *Memory) Load(addr int64) (int64, error) {
	if !m.inRange(addr) {
		return 0, &SegFault{Addr: addr}
	}
	return m.cells[addr], nil
}

// Store writes v (wrapped to the configured width) to the cell at addr.
func (m *Memory) Store(addr, v int64) error {
	if !m.inRange(addr) {
		return &SegFault{Addr: addr}
	}
	m.cells[addr] = m.w.Wrap(v)
	return nil
}

// Snapshot returns a defensive copy of the current cell contents, for
// tests.
func (m *Memory) Snapshot() []int64 {
	out := make([]int64, len(m.cells))
	copy(out, m.cells)
	return out
}
