package vm

import "subleq/internal/width"

// Machine is a SUBLEQ execution context: a memory image, a program
// counter, and the I/O traps wired to it. NewMachine starts empty; Load
// installs a binary image before the first Step.
type Machine struct {
	mem *Memory
	pc  int64
	w   width.Width

	Output             OutputSink
	Input              InputSource
	NullTerminateInput bool

	halted     bool
	exitStatus int64
	eofSeen    bool
}

// InputSource supplies the bytes consumed by "in" traps.
type InputSource interface {
	// ReadByte returns the next input byte, or ok=false at end of stream.
	ReadByte() (b byte, ok bool, err error)
}

// NewMachine creates an empty Machine at the given cell width. Call Load
// before Run or Step.
func NewMachine(w width.Width) *Machine {
	return &Machine{w: w}
}

// Load installs image as the machine's memory and resets the program
// counter and halt state, so a Machine can be reused across runs.
func (m *Machine) Load(image []int64) {
	m.mem = NewMemory(image, m.w)
	m.pc = 0
	m.halted = false
	m.exitStatus = 0
	m.eofSeen = false
}

// Halted reports whether the machine has executed a halt trap.
func (m *Machine) Halted() bool { return m.halted }

// PC returns the current program counter, for diagnostics.
func (m *Machine) PC() int64 { return m.pc }

// Snapshot exposes the current memory contents, for tests.
func (m *Machine) Snapshot() []int64 { return m.mem.Snapshot() }

// Step executes a single SUBLEQ cycle: one arithmetic-and-branch step, or
// one of the three "-1"-sentinel traps (input, output, halt).
func (m *Machine) Step() error {
	if m.halted {
		return nil
	}

	a, err := m.mem.Load(m.pc)
	if err != nil {
		return m.fault(err)
	}
	b, err := m.mem.Load(m.pc + 1)
	if err != nil {
		return m.fault(err)
	}
	c, err := m.mem.Load(m.pc + 2)
	if err != nil {
		return m.fault(err)
	}

	switch {
	case a == -1 && b == -1:
		m.halted = true
		m.exitStatus = c
		return nil

	case a == -1:
		v, err := m.readInput()
		if err != nil {
			return err
		}
		if err := m.mem.Store(b, v); err != nil {
			return m.fault(err)
		}
		m.pc += 3

	case b == -1:
		v, err := m.mem.Load(a)
		if err != nil {
			return m.fault(err)
		}
		if m.Output != nil {
			if err := m.Output.Output(v); err != nil {
				return err
			}
		}
		m.pc += 3

	default:
		va, err := m.mem.Load(a)
		if err != nil {
			return m.fault(err)
		}
		vb, err := m.mem.Load(b)
		if err != nil {
			return m.fault(err)
		}
		result := m.w.Wrap(vb - va)
		if err := m.mem.Store(b, result); err != nil {
			return m.fault(err)
		}
		if result <= 0 {
			m.pc = c
		} else {
			m.pc += 3
		}
	}
	return nil
}

// fault annotates a SegFault from Memory with the PC it occurred at.
func (m *Machine) fault(err error) error {
	if sf, ok := err.(*SegFault); ok {
		sf.PC = m.pc
	}
	return err
}

func (m *Machine) readInput() (int64, error) {
	if m.eofSeen {
		return 0, &InputExhausted{PC: m.pc}
	}
	if m.Input == nil {
		return 0, &InputExhausted{PC: m.pc}
	}
	b, ok, err := m.Input.ReadByte()
	if err != nil {
		return 0, err
	}
	if ok {
		return int64(b), nil
	}
	if m.NullTerminateInput {
		m.eofSeen = true
		return 0, nil
	}
	return 0, &InputExhausted{PC: m.pc}
}

// Run steps the machine until it halts or faults, returning the halt
// status (valid only when halted is true and err is nil).
func (m *Machine) Run() (status int64, halted bool, err error) {
	for !m.halted {
		if err := m.Step(); err != nil {
			return 0, false, err
		}
	}
	return m.exitStatus, true, nil
}
