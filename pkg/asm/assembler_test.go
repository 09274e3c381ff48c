package asm

import (
	"testing"

	"subleq/internal/width"
)

func TestAssembleSimpleHalt(t *testing.T) {
	a := NewAssembler(width.W4)
	image, err := a.Assemble("halt\n", nil)
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if len(image) != 3*4 {
		t.Fatalf("image length = %d, want %d", len(image), 3*4)
	}
}

func TestAssembleEntryPrologueSkippedAtZero(t *testing.T) {
	a := NewAssembler(width.W4)
	// start is already at address 0, so no jmp prologue should be added.
	image, err := a.Assemble("#set ENTRY=start\nstart: halt\n", nil)
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if len(image) != 3*4 {
		t.Fatalf("image length = %d, want %d (no prologue expected)", len(image), 3*4)
	}
}

func TestAssembleEntryPrologueInserted(t *testing.T) {
	a := NewAssembler(width.W4)
	image, err := a.Assemble("#set ENTRY=start\nint 0\nstart: halt\n", nil)
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	// prologue jmp (3 cells) + int 0 (1 cell) + halt (3 cells) + 1 temp for jmp.
	wantCells := 3 + 1 + 3 + 1
	if len(image) != wantCells*4 {
		t.Fatalf("image length = %d cells, want %d", len(image)/4, wantCells)
	}
}

func TestAssembleUnknownEntryLabel(t *testing.T) {
	a := NewAssembler(width.W4)
	_, err := a.Assemble("#set ENTRY=nowhere\nhalt\n", nil)
	if err == nil {
		t.Fatalf("expected UnknownLabelError for missing ENTRY target")
	}
}

func TestAssembleRangeErrorAtNarrowWidth(t *testing.T) {
	a := NewAssembler(width.W1)
	_, err := a.Assemble("int 1000\n", nil)
	if err == nil {
		t.Fatalf("expected RangeError at width 1 for a value that doesn't fit a byte")
	}
}
