package alist

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAppendKeepsSentinel(t *testing.T) {
	l := New[*string]("", nil, nil)
	for i := 0; i < 3*DefaultCapacity+5; i++ {
		s := "v"
		l.Append(&s)
		if got := l.At(l.Len()); got != nil {
			t.Fatalf("after %d appends: slot past the end = %v, want nil", i+1, got)
		}
		if l.Last() != &s {
			t.Fatalf("after %d appends: Last() is not the appended element", i+1)
		}
	}
	if l.Len() != 3*DefaultCapacity+5 {
		t.Fatalf("Len() = %d", l.Len())
	}
}

func TestAppendGrowsInFixedChunks(t *testing.T) {
	l := New[int]("ints", nil, nil)
	if l.Cap() != DefaultCapacity {
		t.Fatalf("initial Cap() = %d, want %d", l.Cap(), DefaultCapacity)
	}
	for i := 0; i < DefaultCapacity; i++ {
		l.Append(i + 1)
	}
	if l.Cap() != 2*DefaultCapacity {
		t.Fatalf("Cap() = %d, want %d", l.Cap(), 2*DefaultCapacity)
	}
	want := make([]int, DefaultCapacity)
	for i := range want {
		want[i] = i + 1
	}
	if diff := cmp.Diff(want, l.Values()); diff != "" {
		t.Fatalf("Values() mismatch (-want +got):\n%s", diff)
	}
}

func TestLastOnEmpty(t *testing.T) {
	var nilList *List[*List[int]]
	if nilList.Last() != nil {
		t.Fatal("Last() on nil list is not nil")
	}
	if New[*List[int]]("", nil, nil).Last() != nil {
		t.Fatal("Last() on empty list is not nil")
	}
}

func TestDestroyOrderAndIdempotence(t *testing.T) {
	var destroyed []int
	l := New[int]("x", func(v int) { destroyed = append(destroyed, v) }, nil)
	l.Append(1)
	l.Append(2)
	l.Append(3)

	Destroy(&l)
	if l != nil {
		t.Fatal("Destroy did not clear the handle")
	}
	if diff := cmp.Diff([]int{3, 2, 1}, destroyed); diff != "" {
		t.Fatalf("destroy order mismatch (-want +got):\n%s", diff)
	}

	Destroy(&l)
	if len(destroyed) != 3 {
		t.Fatalf("second Destroy destroyed %d more elements", len(destroyed)-3)
	}
}

func TestDestroyNested(t *testing.T) {
	var children int
	root := New[*List[int]]("", func(c *List[int]) { c.Destroy() }, nil)
	for i := 0; i < 2; i++ {
		c := New[int]("child", func(int) { children++ }, nil)
		c.Append(i)
		c.Append(i)
		root.Append(c)
	}
	root.Destroy()
	root.Destroy()
	if children != 4 {
		t.Fatalf("destroyed %d child elements, want 4", children)
	}
	if root.Len() != 0 {
		t.Fatalf("Len() after Destroy = %d", root.Len())
	}
}

func TestFindByName(t *testing.T) {
	root := New[*List[int]]("", nil, nil)
	first := New[int]("ups", nil, nil)
	second := New[int]("ups", nil, nil)
	root.Append(New[int]("", nil, nil))
	root.Append(first)
	root.Append(second)

	if got := FindByName(root, "ups"); got != first {
		t.Fatal("FindByName did not return the first match")
	}
	if got := FindByName(root, "UPS"); got != nil {
		t.Fatal("FindByName matched case-insensitively")
	}
	if got := FindByName[*List[int]](nil, "ups"); got != nil {
		t.Fatal("FindByName on nil list returned an element")
	}
}

func TestConstructorIsStored(t *testing.T) {
	build := func(v int) int { return v * 2 }
	l := New[int]("", nil, build)
	f, ok := l.Constructor().(func(int) int)
	if !ok {
		t.Fatalf("Constructor() = %T", l.Constructor())
	}
	if f(21) != 42 {
		t.Fatal("stored constructor is not the one passed to New")
	}
}
