// Package llist provides the ordered list container used by the plugin
// runtime's all-plugins context list and its collector schedule.
//
// It mirrors utils/llist.c's operation set (append, sorted insert, shift,
// search/remove by name, predicate removal, an iterator that tolerates
// removal of the element it just returned) but drops the hand-rolled
// refcounted node type in favor of Go generics — the ownership-transfer
// rules from the original (append acquires, shift/remove hand ownership
// back to the caller) still apply conceptually to whatever the caller
// stores in T, just without an explicit acquire/release call here.
package llist

import "strings"

// Named is implemented by elements that participate in case-insensitive
// name lookups (SearchByName, RemoveByName).
type Named interface {
	ListName() string
}

type node[T any] struct {
	val        T
	prev, next *node[T]
}

// List is a doubly linked list of T, preserving insertion order except
// where InsertSorted or InsertAt say otherwise.
type List[T any] struct {
	head, tail *node[T]
	length     int
}

// New creates an empty list.
func New[T any]() *List[T] {
	return &List[T]{}
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return l.length
}

// Append adds v at the tail.
func (l *List[T]) Append(v T) {
	n := &node[T]{val: v}
	if l.tail == nil {
		l.head, l.tail = n, n
	} else {
		n.prev = l.tail
		l.tail.next = n
		l.tail = n
	}
	l.length++
}

// InsertAt inserts v at the given index, shifting subsequent elements.
// Fails if index > Len().
func (l *List[T]) InsertAt(index int, v T) error {
	if index < 0 || index > l.length {
		return ErrIndexOutOfRange
	}
	if index == l.length {
		l.Append(v)
		return nil
	}

	target := l.nodeAt(index)
	n := &node[T]{val: v, prev: target.prev, next: target}
	if target.prev == nil {
		l.head = n
	} else {
		target.prev.next = n
	}
	target.prev = n
	l.length++
	return nil
}

// InsertSorted inserts v at the position that keeps the list sorted
// non-decreasing per cmp (cmp(a, b) < 0 means a sorts before b). Stable:
// v is inserted after any existing elements that compare equal.
func (l *List[T]) InsertSorted(v T, cmp func(a, b T) int) {
	if l.head == nil {
		l.Append(v)
		return
	}
	for cur := l.head; cur != nil; cur = cur.next {
		if cmp(v, cur.val) < 0 {
			n := &node[T]{val: v, prev: cur.prev, next: cur}
			if cur.prev == nil {
				l.head = n
			} else {
				cur.prev.next = n
			}
			cur.prev = n
			l.length++
			return
		}
	}
	l.Append(v)
}

// Shift removes and returns the head element.
func (l *List[T]) Shift() (v T, ok bool) {
	if l.head == nil {
		return v, false
	}
	n := l.head
	l.unlink(n)
	return n.val, true
}

// RemoveFunc removes and returns the first element for which pred
// returns true.
func (l *List[T]) RemoveFunc(pred func(T) bool) (v T, ok bool) {
	for cur := l.head; cur != nil; cur = cur.next {
		if pred(cur.val) {
			l.unlink(cur)
			return cur.val, true
		}
	}
	return v, false
}

// RemoveByName removes and returns the first element whose ListName()
// matches name case-insensitively.
func (l *List[T]) RemoveByName(name string) (v T, ok bool) {
	return l.RemoveFunc(func(v T) bool {
		named, isNamed := any(v).(Named)
		return isNamed && strings.EqualFold(named.ListName(), name)
	})
}

// SearchByName returns the first element whose ListName() matches name
// case-insensitively, without removing it.
func (l *List[T]) SearchByName(name string) (v T, ok bool) {
	for cur := l.head; cur != nil; cur = cur.next {
		if named, isNamed := any(cur.val).(Named); isNamed && strings.EqualFold(named.ListName(), name) {
			return cur.val, true
		}
	}
	return v, false
}

// Clear removes every element, invoking release for each if provided.
func (l *List[T]) Clear(release func(T)) {
	for cur := l.head; cur != nil; {
		next := cur.next
		if release != nil {
			release(cur.val)
		}
		cur = next
	}
	l.head, l.tail, l.length = nil, nil, 0
}

// Clone returns a new list with the same elements in the same order. If
// acquire is non-nil it is called once per element (mirroring the
// original's "clone acquires references" rule).
func (l *List[T]) Clone(acquire func(T)) *List[T] {
	out := New[T]()
	for cur := l.head; cur != nil; cur = cur.next {
		if acquire != nil {
			acquire(cur.val)
		}
		out.Append(cur.val)
	}
	return out
}

// ToSlice returns a snapshot slice of the list's elements in order.
func (l *List[T]) ToSlice() []T {
	out := make([]T, 0, l.length)
	for cur := l.head; cur != nil; cur = cur.next {
		out = append(out, cur.val)
	}
	return out
}

func (l *List[T]) nodeAt(index int) *node[T] {
	cur := l.head
	for i := 0; i < index; i++ {
		cur = cur.next
	}
	return cur
}

func (l *List[T]) unlink(n *node[T]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
	l.length--
}

// Iterator walks a List front to back. It tolerates RemoveCurrent being
// called on the element most recently returned by Next; it does not
// tolerate concurrent modification from any other path.
type Iterator[T any] struct {
	l       *List[T]
	cur     *node[T]
	started bool
}

// Iter returns a fresh Iterator positioned before the head.
func (l *List[T]) Iter() *Iterator[T] {
	return &Iterator[T]{l: l}
}

// HasNext reports whether Next would return another element.
func (it *Iterator[T]) HasNext() bool {
	if !it.started {
		return it.l.head != nil
	}
	return it.cur != nil && it.cur.next != nil
}

// Next advances the iterator and returns the next element.
func (it *Iterator[T]) Next() (v T, ok bool) {
	if !it.started {
		it.started = true
		it.cur = it.l.head
	} else if it.cur != nil {
		it.cur = it.cur.next
	}
	if it.cur == nil {
		return v, false
	}
	return it.cur.val, true
}

// RemoveCurrent removes the element most recently returned by Next and
// hands its value back to the caller. Safe to call once per Next call.
func (it *Iterator[T]) RemoveCurrent() (v T, ok bool) {
	if it.cur == nil {
		return v, false
	}
	removed := it.cur
	prev := removed.prev
	it.l.unlink(removed)
	it.cur = prev
	if prev == nil {
		// The removed element was the head: there is no predecessor for
		// Next to resume from, so rewind to the not-started state and let
		// it pick up the new head on the following call.
		it.started = false
	}
	return removed.val, true
}
