package asm

import "fmt"

// Lowerer expands parsed statements into a flat cell stream with symbolic
// operands, allocating a fresh zero-initialised temporary for every
// expansion that needs scratch space. Label addresses are recorded as they
// are encountered, since a cell's eventual address is simply its index in
// the final stream — no separate address-assignment walk is needed once
// lowering is done in source order.
type Lowerer struct {
	cells     []Cell
	tempCells []Cell
	nextTemp  int
	poolCells []Cell
	poolKey   map[string]int
	labels    map[string]int64
}

// NewLowerer creates an empty Lowerer.
func NewLowerer() *Lowerer {
	return &Lowerer{labels: make(map[string]int64), poolKey: make(map[string]int)}
}

// Lower expands stmts in order and returns the combined cell stream (user
// cells, then temporaries, then pooled bracket-operand cells), the address
// bound to each label, the address holding each temporary's value, and the
// address holding each pooled bracket operand's value.
func (lw *Lowerer) Lower(stmts []Statement) (cells []Cell, labelAddr map[string]int64, tempAddr map[int]int64, poolAddr map[int]int64, err error) {
	for _, st := range stmts {
		switch st.Kind {
		case StmtLabel:
			if _, dup := lw.labels[st.Label]; dup {
				return nil, nil, nil, nil, &DuplicateLabelError{Line: st.Line, Label: st.Label}
			}
			lw.labels[st.Label] = int64(len(lw.cells))

		case StmtDirective:
			// #set ENTRY is consumed by the orchestrator before lowering;
			// any other directive is inert at this stage.

		case StmtRawInt:
			lw.cells = append(lw.cells, Cell{Kind: CellInt, Int: st.IntValue})

		case StmtRawBytes:
			for _, b := range st.Bytes {
				lw.cells = append(lw.cells, Cell{Kind: CellByte, Byte: b})
			}

		case StmtInstr:
			if err := lw.lowerInstr(st); err != nil {
				return nil, nil, nil, nil, err
			}
		}
	}

	tempBase := int64(len(lw.cells))
	tempAddr = make(map[int]int64, lw.nextTemp)
	for id := 0; id < lw.nextTemp; id++ {
		tempAddr[id] = tempBase + int64(id)
	}

	poolBase := tempBase + int64(len(lw.tempCells))
	poolAddr = make(map[int]int64, len(lw.poolCells))
	for id := range lw.poolCells {
		poolAddr[id] = poolBase + int64(id)
	}

	final := make([]Cell, 0, len(lw.cells)+len(lw.tempCells)+len(lw.poolCells))
	final = append(final, lw.cells...)
	final = append(final, lw.tempCells...)
	final = append(final, lw.poolCells...)
	return final, lw.labels, tempAddr, poolAddr, nil
}

func (lw *Lowerer) newTemp() OperandExpr {
	id := lw.nextTemp
	lw.nextTemp++
	lw.tempCells = append(lw.tempCells, Cell{Kind: CellInt, Int: 0})
	return TempExpr{ID: id}
}

// pool returns the PoolExpr for key, allocating a fresh cell holding value
// the first time key is seen and reusing it for every later operand with
// the same key — mirroring the original assembler's dict of constants,
// keyed by the bracketed operand's literal text.
func (lw *Lowerer) pool(key string, value OperandExpr) OperandExpr {
	if id, ok := lw.poolKey[key]; ok {
		return PoolExpr{ID: id}
	}
	id := len(lw.poolCells)
	lw.poolKey[key] = id
	lw.poolCells = append(lw.poolCells, Cell{Kind: CellExpr, Expr: value})
	return PoolExpr{ID: id}
}

func (lw *Lowerer) ip() int64 { return int64(len(lw.cells)) }

func (lw *Lowerer) emitTriple(a, b, c OperandExpr) {
	lw.cells = append(lw.cells,
		Cell{Kind: CellExpr, Expr: a},
		Cell{Kind: CellExpr, Expr: b},
		Cell{Kind: CellExpr, Expr: c},
	)
}

func lit(v int64) OperandExpr { return LiteralExpr{Value: v} }

// evalOperand turns a parsed RawOperand into the OperandExpr an instruction
// cell will hold. A bracketed operand ("[label]" or "[literal]") does not
// resolve to the label's value or the literal itself — it allocates (or
// reuses) a pooled cell holding that value and resolves to the pooled
// cell's address, one level of indirection beyond the bare form.
func (lw *Lowerer) evalOperand(op RawOperand) OperandExpr {
	if op.Bracketed {
		if op.IsIdent {
			key := fmt.Sprintf("label:%s", op.Ident)
			return lw.pool(key, LabelAddrExpr{Label: op.Ident})
		}
		key := fmt.Sprintf("lit:%d", op.IntVal)
		return lw.pool(key, LiteralExpr{Value: op.IntVal})
	}
	if op.IsIdent {
		var offset int64
		if op.HasOffset {
			offset = op.Offset
		}
		return LabelRefExpr{Label: op.Ident, Offset: offset}
	}
	v := op.IntVal
	if op.HasOffset {
		v += op.Offset
	}
	return LiteralExpr{Value: v}
}

func (lw *Lowerer) lowerInstr(st Statement) error {
	ops := make([]OperandExpr, len(st.Operands))
	for i, ro := range st.Operands {
		ops[i] = lw.evalOperand(ro)
	}

	switch st.Mnemonic {
	case "noop":
		// zero cells emitted
	case "subleq":
		lw.emitTriple(ops[0], ops[1], ops[2])
	case "add":
		lw.lowerAdd(ops[0], ops[1])
	case "sub":
		lw.lowerSub(ops[0], ops[1])
	case "zer":
		lw.lowerZer(ops[0])
	case "mov":
		lw.lowerMov(ops[0], ops[1])
	case "jmp":
		lw.lowerJmp(ops[0])
	case "beq":
		lw.lowerBeq(ops[0], ops[1])
	case "cmp":
		lw.lowerCmp(ops[0], ops[1], ops[2])
	case "in":
		lw.lowerIn(ops[0])
	case "out":
		lw.lowerOut(ops[0])
	case "halt":
		lw.lowerHalt()
	default:
		// Unreachable: parse.go validates every mnemonic against instrArity
		// before a Statement is ever constructed.
		panic(fmt.Sprintf("lower: unvalidated mnemonic %q reached lowering", st.Mnemonic))
	}
	return nil
}

// lowerAdd: o1 $X ip+3 · $X o2 ip+6 · $X $X ip+9
func (lw *Lowerer) lowerAdd(o1, o2 OperandExpr) {
	ip := lw.ip()
	x := lw.newTemp()
	lw.emitTriple(o1, x, lit(ip+3))
	lw.emitTriple(x, o2, lit(ip+6))
	lw.emitTriple(x, x, lit(ip+9))
}

// lowerSub: o1 o2 ip+3
func (lw *Lowerer) lowerSub(o1, o2 OperandExpr) {
	ip := lw.ip()
	lw.emitTriple(o1, o2, lit(ip+3))
}

// lowerZer: a a ip+3
func (lw *Lowerer) lowerZer(a OperandExpr) {
	ip := lw.ip()
	lw.emitTriple(a, a, lit(ip+3))
}

// lowerMov: d d ip+3 · s $X ip+6 · $X d ip+9 · $X $X ip+12
func (lw *Lowerer) lowerMov(s, d OperandExpr) {
	ip := lw.ip()
	x := lw.newTemp()
	lw.emitTriple(d, d, lit(ip+3))
	lw.emitTriple(s, x, lit(ip+6))
	lw.emitTriple(x, d, lit(ip+9))
	lw.emitTriple(x, x, lit(ip+12))
}

// lowerJmp: $X $X a
func (lw *Lowerer) lowerJmp(a OperandExpr) {
	x := lw.newTemp()
	lw.emitTriple(x, x, a)
}

// lowerBeq: o $X ip+6 · $X $X ip+9 · $X $X ip+3 · $X o a
func (lw *Lowerer) lowerBeq(o, a OperandExpr) {
	ip := lw.ip()
	x := lw.newTemp()
	lw.emitTriple(o, x, lit(ip+6))
	lw.emitTriple(x, x, lit(ip+9))
	lw.emitTriple(x, x, lit(ip+3))
	lw.emitTriple(x, o, a)
}

// lowerCmp: mov o1 $Y; sub o2 $Y; beq $Y d
func (lw *Lowerer) lowerCmp(o1, o2, d OperandExpr) {
	y := lw.newTemp()
	lw.lowerMov(o1, y)
	lw.lowerSub(o2, y)
	lw.lowerBeq(y, d)
}

// lowerIn: -1 a ip+3
func (lw *Lowerer) lowerIn(a OperandExpr) {
	ip := lw.ip()
	lw.emitTriple(lit(-1), a, lit(ip+3))
}

// lowerOut: a -1 ip+3
func (lw *Lowerer) lowerOut(a OperandExpr) {
	ip := lw.ip()
	lw.emitTriple(a, lit(-1), lit(ip+3))
}

// lowerHalt: -1 -1 0
func (lw *Lowerer) lowerHalt() {
	lw.emitTriple(lit(-1), lit(-1), lit(0))
}
