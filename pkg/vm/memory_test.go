package vm

import (
	"testing"

	"subleq/internal/width"
)

func TestDecodeImageLittleEndian(t *testing.T) {
	data := []byte{1, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF}
	cells, err := DecodeImage(data, width.W4)
	if err != nil {
		t.Fatalf("DecodeImage returned error: %v", err)
	}
	want := []int64{1, -1}
	if len(cells) != len(want) {
		t.Fatalf("got %d cells, want %d", len(cells), len(want))
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cell %d = %d, want %d", i, cells[i], want[i])
		}
	}
}

func TestDecodeImageBadLength(t *testing.T) {
	_, err := DecodeImage([]byte{1, 2, 3}, width.W4)
	if err == nil {
		t.Fatalf("expected BadImage error")
	}
	if _, ok := err.(*BadImage); !ok {
		t.Errorf("error type = %T, want *BadImage", err)
	}
}

func TestMemoryBounds(t *testing.T) {
	m := NewMemory([]int64{1, 2, 3}, width.W4)
	if _, err := m.Load(3); err == nil {
		t.Fatalf("expected SegFault reading past end of image")
	}
	if err := m.Store(-1, 0); err == nil {
		t.Fatalf("expected SegFault writing a negative address")
	}
	if err := m.Store(1, 9); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	v, err := m.Load(1)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if v != 9 {
		t.Errorf("Load(1) = %d, want 9", v)
	}
}

func TestMemoryStoreWraps(t *testing.T) {
	m := NewMemory([]int64{0}, width.W1)
	if err := m.Store(0, 200); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	v, _ := m.Load(0)
	if v != -56 {
		t.Errorf("Store(200) at width 1 = %d, want -56", v)
	}
}
