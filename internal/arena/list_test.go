package arena

import "testing"

func drain[T any](l *List[T]) []T {
	var out []T
	for p := l.Head(); !p.IsNil(); p = l.Next(p) {
		out = append(out, l.Value(p))
	}
	return out
}

func TestInsertAfterOrdering(t *testing.T) {
	l := New[int](8)
	h, ok := l.PushFront(1)
	if !ok {
		t.Fatal("push_front failed")
	}
	if _, ok := l.InsertAfter(2, h); !ok {
		t.Fatal("insert after head failed")
	}
	if _, ok := l.PushFront(0); !ok {
		t.Fatal("second push_front failed")
	}
	got := drain(l)
	want := []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestSizeAndFreeCapacityInvariant(t *testing.T) {
	const max = 5
	l := New[int](max)
	inserts, unlinks := 0, 0
	for i := 0; i < max; i++ {
		if _, ok := l.PushFront(i); ok {
			inserts++
		}
	}
	if l.Size() != inserts-unlinks {
		t.Fatalf("size %d want %d", l.Size(), inserts-unlinks)
	}
	if l.FreeCapacity()+l.Size() != max {
		t.Fatalf("freeCapacity+size = %d want %d", l.FreeCapacity()+l.Size(), max)
	}
	l.UnlinkHead()
	unlinks++
	if l.Size() != inserts-unlinks {
		t.Fatalf("size %d want %d", l.Size(), inserts-unlinks)
	}
	if l.FreeCapacity()+l.Size() != max {
		t.Fatalf("freeCapacity+size = %d want %d", l.FreeCapacity()+l.Size(), max)
	}
}

func TestInsertAtCapacityFails(t *testing.T) {
	l := New[int](2)
	if _, ok := l.PushFront(1); !ok {
		t.Fatal("expected success")
	}
	if _, ok := l.PushFront(2); !ok {
		t.Fatal("expected success")
	}
	if _, ok := l.PushFront(3); ok {
		t.Fatal("expected failure at capacity")
	}
}

func TestUnlinkFromEmptyReturnsNil(t *testing.T) {
	l := New[int](3)
	if p := l.UnlinkHead(); !p.IsNil() {
		t.Fatalf("expected nil position, got %+v", p)
	}
}

func TestUnlinkAfterReturnsSuccessorAsNextSaw(t *testing.T) {
	l := New[int](4)
	a, _ := l.PushFront(1)
	l.InsertAfter(2, a)
	b, _ := l.InsertAfter(3, a) // list: 1 -> 3 -> 2
	before := l.Next(b)
	succ := l.UnlinkAfter(b)
	if succ != before {
		t.Fatalf("unlink successor mismatch: got %+v want %+v", succ, before)
	}
}

func TestHoleReuseAllowsRefill(t *testing.T) {
	const max = 3
	l := New[int](max)
	a, _ := l.PushFront(1)
	l.InsertAfter(2, a)
	l.InsertAfter(3, a)
	l.UnlinkAfter(a) // frees the slot holding 3, list now 1 -> 2
	if _, ok := l.PushFront(9); !ok {
		t.Fatal("expected hole to be reusable")
	}
	if l.Size() != max {
		t.Fatalf("size %d want %d", l.Size(), max)
	}
}

func TestResetThenPushFrontIsSingleElementList(t *testing.T) {
	l := New[int](4)
	l.PushFront(1)
	l.PushFront(2)
	l.Reset()
	if !l.IsEmpty() {
		t.Fatal("expected empty after reset")
	}
	l.PushFront(42)
	if l.Size() != 1 {
		t.Fatalf("size %d want 1", l.Size())
	}
	got := drain(l)
	if len(got) != 1 || got[0] != 42 {
		t.Fatalf("got %v", got)
	}
}

func TestTraversalVisitsExactlySizeElements(t *testing.T) {
	l := New[int](16)
	for i := 0; i < 10; i++ {
		l.PushFront(i)
	}
	l.UnlinkHead()
	h := l.Head()
	l.UnlinkAfter(h)
	got := drain(l)
	if len(got) != l.Size() {
		t.Fatalf("visited %d elements, size() is %d", len(got), l.Size())
	}
}
