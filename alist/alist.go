// Package alist implements the auxiliary list used to hold every level of
// a parsed DMF hierarchy: the per-document registry of sections and the
// entries accumulated under each section.
package alist

// DefaultCapacity is the initial capacity of a list and the step it grows by.
const DefaultCapacity = 16

// Named is implemented by elements that can be looked up with FindByName.
type Named interface {
	Name() string
}

// List is an ordered, named sequence that owns its elements. The backing
// storage always keeps one zero-valued slot after the last element.
type List[T any] struct {
	values    []T
	size      int
	name      string
	destroy   func(T)
	construct any
}

// New returns an empty list. destroy is called for every element when the
// list is destroyed and may be nil. construct is kept for callers that want
// a uniform way to build elements of the list's type; the list never calls it.
func New[T any](name string, destroy func(T), construct any) *List[T] {
	return &List[T]{
		values:    make([]T, 1, DefaultCapacity),
		name:      name,
		destroy:   destroy,
		construct: construct,
	}
}

func (l *List[T]) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return l.size
}

// Cap reports the capacity of the backing storage, sentinel slot included.
func (l *List[T]) Cap() int {
	if l == nil {
		return 0
	}
	return cap(l.values)
}

// Constructor returns the construct value given to New.
func (l *List[T]) Constructor() any {
	if l == nil {
		return nil
	}
	return l.construct
}

// Append adds v at the end of the list, growing the storage by
// DefaultCapacity slots when only the sentinel slot is left.
func (l *List[T]) Append(v T) {
	if l.values == nil {
		l.values = make([]T, 1, DefaultCapacity)
	}
	if l.size+1 == cap(l.values) {
		grown := make([]T, len(l.values), cap(l.values)+DefaultCapacity)
		copy(grown, l.values)
		l.values = grown
	}
	var zero T
	l.values[l.size] = v
	l.size++
	l.values = append(l.values[:l.size], zero)
}

// Last returns the most recently appended element, or the zero value.
func (l *List[T]) Last() T {
	var zero T
	if l == nil || l.size == 0 {
		return zero
	}
	return l.values[l.size-1]
}

// At returns the element at index i. Any index at or past Len yields the
// zero value, so At(Len()) reads the sentinel slot.
func (l *List[T]) At(i int) T {
	var zero T
	if l == nil || i < 0 || i > l.size || i >= len(l.values) {
		return zero
	}
	return l.values[i]
}

// Values returns the elements without the sentinel slot. The slice shares
// storage with the list.
func (l *List[T]) Values() []T {
	if l == nil {
		return nil
	}
	return l.values[:l.size]
}

// Destroy hands every element to the destroy function, most recent first,
// and releases the storage. It is a no-op on a nil or already destroyed list.
func (l *List[T]) Destroy() {
	if l == nil {
		return
	}
	var zero T
	for ; l.size > 0; l.size-- {
		v := l.values[l.size-1]
		l.values[l.size-1] = zero
		if l.destroy != nil {
			l.destroy(v)
		}
	}
	l.values = nil
	l.name = ""
	l.destroy = nil
	l.construct = nil
}

// Destroy destroys *lp and clears the caller's reference.
func Destroy[T any](lp **List[T]) {
	if lp == nil || *lp == nil {
		return
	}
	(*lp).Destroy()
	*lp = nil
}

// FindByName returns the first element whose name equals name, comparing
// case-sensitively, or the zero value when there is none.
func FindByName[T Named](l *List[T], name string) T {
	var zero T
	if l == nil {
		return zero
	}
	for _, v := range l.Values() {
		if v.Name() == name {
			return v
		}
	}
	return zero
}
