package value

import "testing"

func TestStackReserveAndReplace(t *testing.T) {
	s := NewStack()
	base := s.Reserve(2)
	if s.Get(base).Kind() != Undefined || s.Get(base+1).Kind() != Undefined {
		t.Fatalf("expected reserved slots to start Undefined")
	}
	s.Replace(base+1, Num(7))
	if s.Get(base+1).AsNumber() != 7 {
		t.Fatalf("expected replaced slot to read back 7")
	}
}

func TestStackDupAndTop(t *testing.T) {
	s := NewStack()
	idx := s.Push(Str("a"))
	dup := s.Dup(idx)
	if dup == idx {
		t.Fatalf("expected Dup to allocate a new slot")
	}
	if s.Get(dup).AsString() != "a" {
		t.Fatalf("expected duplicated slot to carry the same value")
	}
	if s.Top() != dup {
		t.Fatalf("expected Top to be the most recently pushed index")
	}
}

func TestStackTruncateReleasesSlots(t *testing.T) {
	s := NewStack()
	s.Push(Num(1))
	mark := s.Len()
	s.Push(Num(2))
	s.Push(Num(3))
	s.Truncate(mark)
	if s.Len() != mark {
		t.Fatalf("expected truncate to restore length to %d, got %d", mark, s.Len())
	}
}

func TestStackTruncatePanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Truncate to panic on an out-of-range index")
		}
	}()
	s := NewStack()
	s.Truncate(5)
}
