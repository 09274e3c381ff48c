package asm

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"subleq/internal/width"
)

// Assembler drives the full pipeline — lex, parse, lower, resolve, emit —
// for a single compilation unit.
type Assembler struct {
	Width width.Width
}

// NewAssembler creates an Assembler targeting the given cell width.
func NewAssembler(w width.Width) *Assembler {
	return &Assembler{Width: w}
}

// Assemble compiles src into a binary memory image. includeFn resolves
// "#include" directives; pass nil if src is known not to use them.
func (a *Assembler) Assemble(src string, includeFn IncludeFunc) ([]byte, error) {
	toks, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}

	stmts, err := NewParser(toks, includeFn).Parse()
	if err != nil {
		return nil, err
	}

	entry := entryLabel(stmts)

	cells, labelAddr, tempAddr, poolAddr, err := NewLowerer().Lower(stmts)
	if err != nil {
		return nil, err
	}

	if entry != "" {
		addr, ok := labelAddr[entry]
		if !ok {
			return nil, &UnknownLabelError{Label: entry}
		}
		if addr != 0 {
			prologue := Statement{
				Kind:     StmtInstr,
				Mnemonic: "jmp",
				Operands: []RawOperand{{IsIdent: true, Ident: entry}},
			}
			cells, labelAddr, tempAddr, poolAddr, err = NewLowerer().Lower(append([]Statement{prologue}, stmts...))
			if err != nil {
				return nil, err
			}
		}
	}

	values, err := NewResolver(labelAddr, tempAddr, poolAddr).Resolve(cells)
	if err != nil {
		return nil, err
	}

	return Emit(values, a.Width)
}

// AssembleFile reads path and assembles it, resolving "#include" paths
// relative to path's directory via the OS filesystem. This is the only
// place in the asm package that touches disk — Assemble itself stays pure
// and injectable for tests.
func (a *Assembler) AssembleFile(path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	includeFn := resolveIncludePath(filepath.Dir(path), func(p string) (string, error) {
		b, err := os.ReadFile(p)
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
	return a.Assemble(string(src), includeFn)
}

// entryLabel returns the label named by "#set ENTRY=<label>", or "" if the
// source never sets it.
func entryLabel(stmts []Statement) string {
	for _, st := range stmts {
		if st.Kind == StmtDirective && st.DirKey == "ENTRY" {
			return st.DirValue
		}
	}
	return ""
}
