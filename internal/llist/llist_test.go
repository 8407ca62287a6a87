package llist_test

import (
	"testing"

	"github.com/gavioto/sysdb/internal/llist"
)

type namedInt struct {
	name string
	n    int
}

func (x namedInt) ListName() string { return x.name }

func TestAppendAndLen(t *testing.T) {
	l := llist.New[int]()
	l.Append(1)
	l.Append(2)
	l.Append(3)
	if l.Len() != 3 {
		t.Fatalf("len = %d, want 3", l.Len())
	}
	if got := l.ToSlice(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("ToSlice = %v", got)
	}
}

func TestShiftFIFO(t *testing.T) {
	l := llist.New[int]()
	l.Append(1)
	l.Append(2)
	v, ok := l.Shift()
	if !ok || v != 1 {
		t.Fatalf("shift = %v, %v; want 1, true", v, ok)
	}
	v, ok = l.Shift()
	if !ok || v != 2 {
		t.Fatalf("shift = %v, %v; want 2, true", v, ok)
	}
	if _, ok := l.Shift(); ok {
		t.Fatal("shift on empty list should report ok=false")
	}
}

func TestInsertSortedStable(t *testing.T) {
	l := llist.New[int]()
	for _, v := range []int{5, 1, 3, 1, 2} {
		l.InsertSorted(v, func(a, b int) int { return a - b })
	}
	got := l.ToSlice()
	want := []int{1, 1, 2, 3, 5}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("sorted = %v, want %v", got, want)
		}
	}
}

func TestInsertAtOutOfRange(t *testing.T) {
	l := llist.New[int]()
	if err := l.InsertAt(5, 1); err != llist.ErrIndexOutOfRange {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestSearchAndRemoveByName(t *testing.T) {
	l := llist.New[namedInt]()
	l.Append(namedInt{"Alpha", 1})
	l.Append(namedInt{"beta", 2})

	v, ok := l.SearchByName("ALPHA")
	if !ok || v.n != 1 {
		t.Fatalf("search = %v, %v", v, ok)
	}

	removed, ok := l.RemoveByName("Beta")
	if !ok || removed.n != 2 {
		t.Fatalf("remove = %v, %v", removed, ok)
	}
	if l.Len() != 1 {
		t.Fatalf("len after remove = %d, want 1", l.Len())
	}
}

func TestIteratorToleratesRemoveCurrent(t *testing.T) {
	l := llist.New[int]()
	for _, v := range []int{1, 2, 3, 4} {
		l.Append(v)
	}

	it := l.Iter()
	var kept []int
	for it.HasNext() {
		v, _ := it.Next()
		if v%2 == 0 {
			it.RemoveCurrent()
			continue
		}
		kept = append(kept, v)
	}

	if got := l.ToSlice(); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("list after removal = %v, want [1 3]", got)
	}
	if len(kept) != 2 || kept[0] != 1 || kept[1] != 3 {
		t.Fatalf("kept = %v, want [1 3]", kept)
	}
}

func TestIteratorToleratesRemoveCurrentAtHead(t *testing.T) {
	l := llist.New[int]()
	for _, v := range []int{1, 2, 3, 4} {
		l.Append(v)
	}

	it := l.Iter()
	var visited []int
	for it.HasNext() {
		v, _ := it.Next()
		visited = append(visited, v)
		if v == 1 {
			it.RemoveCurrent()
		}
	}

	if got := l.ToSlice(); len(got) != 3 || got[0] != 2 || got[1] != 3 || got[2] != 4 {
		t.Fatalf("list after removing head = %v, want [2 3 4]", got)
	}
	if len(visited) != 4 || visited[0] != 1 || visited[3] != 4 {
		t.Fatalf("visited = %v, want all four elements including those after the removed head", visited)
	}
}

func TestClone(t *testing.T) {
	l := llist.New[int]()
	l.Append(1)
	l.Append(2)

	acquired := 0
	clone := l.Clone(func(int) { acquired++ })
	if clone.Len() != 2 || acquired != 2 {
		t.Fatalf("clone len=%d acquired=%d, want 2, 2", clone.Len(), acquired)
	}

	clone.Shift()
	if l.Len() != 2 {
		t.Fatal("mutating the clone must not affect the original")
	}
}
