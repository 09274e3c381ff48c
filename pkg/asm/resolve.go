package asm

// Resolver evaluates a lowered cell stream's symbolic operands against the
// label and temporary address tables produced by the Lowerer, yielding a
// flat stream of concrete integers ready for width range-checking and
// emission. This is pass 2 of the two-pass design: pass 1 (address
// assignment and label binding) already happened during lowering, since a
// cell's address is simply its index in the final stream.
type Resolver struct {
	labelAddr map[string]int64
	tempAddr  map[int]int64
	poolAddr  map[int]int64
}

// NewResolver creates a Resolver over the tables produced by Lowerer.Lower.
func NewResolver(labelAddr map[string]int64, tempAddr map[int]int64, poolAddr map[int]int64) *Resolver {
	return &Resolver{labelAddr: labelAddr, tempAddr: tempAddr, poolAddr: poolAddr}
}

// Resolve evaluates every cell's expression (or passes through a literal
// int/byte cell unchanged) into a concrete signed integer.
func (r *Resolver) Resolve(cells []Cell) ([]int64, error) {
	out := make([]int64, len(cells))
	for i, c := range cells {
		switch c.Kind {
		case CellInt:
			out[i] = c.Int
		case CellByte:
			out[i] = int64(c.Byte)
		case CellExpr:
			v, err := r.eval(c.Expr)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
	}
	return out, nil
}

func (r *Resolver) eval(expr OperandExpr) (int64, error) {
	switch e := expr.(type) {
	case LiteralExpr:
		return e.Value, nil
	case LabelRefExpr:
		addr, ok := r.labelAddr[e.Label]
		if !ok {
			return 0, &UnknownLabelError{Label: e.Label}
		}
		return addr + e.Offset, nil
	case LabelAddrExpr:
		addr, ok := r.labelAddr[e.Label]
		if !ok {
			return 0, &UnknownLabelError{Label: e.Label}
		}
		return addr, nil
	case TempExpr:
		addr, ok := r.tempAddr[e.ID]
		if !ok {
			return 0, &UnknownLabelError{Label: "$temp"}
		}
		return addr, nil
	case PoolExpr:
		addr, ok := r.poolAddr[e.ID]
		if !ok {
			return 0, &UnknownLabelError{Label: "$pool"}
		}
		return addr, nil
	default:
		return 0, &UnknownLabelError{Label: "?"}
	}
}
