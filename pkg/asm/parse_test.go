package asm

import "testing"

func parseSource(t *testing.T, src string, includeFn IncludeFunc) []Statement {
	t.Helper()
	toks, err := NewLexer(src).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q) returned error: %v", src, err)
	}
	stmts, err := NewParser(toks, includeFn).Parse()
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", src, err)
	}
	return stmts
}

func TestParseLabelAndInstr(t *testing.T) {
	stmts := parseSource(t, "start: add a b\n", nil)
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2: %+v", len(stmts), stmts)
	}
	if stmts[0].Kind != StmtLabel || stmts[0].Label != "start" {
		t.Errorf("statement 0 = %+v, want label \"start\"", stmts[0])
	}
	if stmts[1].Kind != StmtInstr || stmts[1].Mnemonic != "add" || len(stmts[1].Operands) != 2 {
		t.Errorf("statement 1 = %+v, want add with 2 operands", stmts[1])
	}
}

func TestParseMultipleLabelsOneLine(t *testing.T) {
	stmts := parseSource(t, "a: b: halt\n", nil)
	if len(stmts) != 3 {
		t.Fatalf("got %d statements, want 3: %+v", len(stmts), stmts)
	}
	if stmts[0].Label != "a" || stmts[1].Label != "b" {
		t.Errorf("labels = %q, %q, want \"a\", \"b\"", stmts[0].Label, stmts[1].Label)
	}
}

func TestParseOperandForms(t *testing.T) {
	stmts := parseSource(t, "subleq [x] y+3 z\n", nil)
	ops := stmts[0].Operands
	if !ops[0].Bracketed || !ops[0].IsIdent || ops[0].Ident != "x" {
		t.Errorf("operand 0 = %+v, want bracketed label x", ops[0])
	}
	if !ops[1].IsIdent || ops[1].Ident != "y" || !ops[1].HasOffset || ops[1].Offset != 3 {
		t.Errorf("operand 1 = %+v, want y+3", ops[1])
	}
	if !ops[2].IsIdent || ops[2].Ident != "z" || ops[2].HasOffset {
		t.Errorf("operand 2 = %+v, want bare z", ops[2])
	}
}

func TestParseRawIntAndBytes(t *testing.T) {
	stmts := parseSource(t, "int 42\nbytes \"Hi\"\n", nil)
	if stmts[0].Kind != StmtRawInt || stmts[0].IntValue != 42 {
		t.Errorf("statement 0 = %+v, want int 42", stmts[0])
	}
	if stmts[1].Kind != StmtRawBytes || string(stmts[1].Bytes) != "Hi" {
		t.Errorf("statement 1 = %+v, want bytes \"Hi\"", stmts[1])
	}
}

func TestParseDirective(t *testing.T) {
	stmts := parseSource(t, "#set ENTRY=start\n", nil)
	if stmts[0].Kind != StmtDirective || stmts[0].DirKey != "ENTRY" || stmts[0].DirValue != "start" {
		t.Errorf("statement 0 = %+v, want ENTRY=start", stmts[0])
	}
}

func TestParseWrongOperandCount(t *testing.T) {
	toks, err := NewLexer("add a\n").Tokenize()
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if _, err := NewParser(toks, nil).Parse(); err == nil {
		t.Fatalf("expected BadOperandCountError for wrong operand count")
	}
}

func TestParseUnknownMnemonic(t *testing.T) {
	toks, err := NewLexer("frobnicate a b\n").Tokenize()
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if _, err := NewParser(toks, nil).Parse(); err == nil {
		t.Fatalf("expected ParseError for unknown mnemonic")
	}
}

func TestParseInclude(t *testing.T) {
	files := map[string]string{
		"lib.asm": "out a\n",
	}
	includeFn := IncludeFunc(func(path string) (string, error) {
		src, ok := files[path]
		if !ok {
			t.Fatalf("unexpected include path %q", path)
		}
		return src, nil
	})
	stmts := parseSource(t, "#include \"lib.asm\"\nhalt\n", includeFn)
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2 (spliced out + halt): %+v", len(stmts), stmts)
	}
	if stmts[0].Mnemonic != "out" || stmts[1].Mnemonic != "halt" {
		t.Errorf("statements = %+v, want out then halt", stmts)
	}
}

func TestParseIncludeWithoutFunc(t *testing.T) {
	toks, err := NewLexer("#include \"lib.asm\"\n").Tokenize()
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if _, err := NewParser(toks, nil).Parse(); err == nil {
		t.Fatalf("expected error when #include is used without an IncludeFunc")
	}
}
