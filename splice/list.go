// Package splice implements a doubly linked list that can absorb other
// lists at either end in constant time.
//
// Besides pushing and popping single elements at both ends, List
// supports AppendFront and AppendBack which move all elements of another
// list into the receiver without copying. The source list is left empty.
package splice

import "iter"

type node[T any] struct {
	prev, next *node[T]
	data       T
}

// List is a doubly linked list. The zero value is an empty list ready to
// use. A List must not be copied after first use.
type List[T any] struct {
	front, back *node[T]
	len         int
}

// FromSlice creates a list with the elements of s in order.
func FromSlice[T any](s []T) *List[T] {
	ls := new(List[T])
	for _, e := range s {
		ls.PushBack(e)
	}
	return ls
}

func (ls *List[T]) Len() int { return ls.len }

func (ls *List[T]) Empty() bool { return ls.len == 0 }

// PushFront places e before all elements of the list.
func (ls *List[T]) PushFront(e T) {
	n := &node[T]{next: ls.front, data: e}
	if ls.front == nil {
		ls.back = n
	} else {
		ls.front.prev = n
	}
	ls.front = n
	ls.len++
}

// PushBack places e after all elements of the list.
func (ls *List[T]) PushBack(e T) {
	n := &node[T]{prev: ls.back, data: e}
	if ls.back == nil {
		ls.front = n
	} else {
		ls.back.next = n
	}
	ls.back = n
	ls.len++
}

// PopFront removes and returns the first element. If the list is empty
// ok is false.
func (ls *List[T]) PopFront() (e T, ok bool) {
	n := ls.front
	if n == nil {
		return e, false
	}
	ls.front = n.next
	if ls.front == nil {
		ls.back = nil
	} else {
		ls.front.prev = nil
	}
	ls.len--
	return n.data, true
}

// PopBack removes and returns the last element. If the list is empty ok
// is false.
func (ls *List[T]) PopBack() (e T, ok bool) {
	n := ls.back
	if n == nil {
		return e, false
	}
	ls.back = n.prev
	if ls.back == nil {
		ls.front = nil
	} else {
		ls.back.next = nil
	}
	ls.len--
	return n.data, true
}

func (ls *List[T]) Front() (e T, ok bool) {
	if ls.front == nil {
		return e, false
	}
	return ls.front.data, true
}

func (ls *List[T]) Back() (e T, ok bool) {
	if ls.back == nil {
		return e, false
	}
	return ls.back.data, true
}

// AppendFront moves all elements of other before the elements of ls.
// Afterwards other is empty. Appending a list to itself is a no-op.
func (ls *List[T]) AppendFront(other *List[T]) {
	switch {
	case other == ls || other.front == nil:
		return
	case ls.front == nil:
		*ls, *other = *other, List[T]{}
		return
	}
	other.back.next = ls.front
	ls.front.prev = other.back
	ls.front = other.front
	ls.len += other.len
	*other = List[T]{}
}

// AppendBack moves all elements of other after the elements of ls.
// Afterwards other is empty. Appending a list to itself is a no-op.
func (ls *List[T]) AppendBack(other *List[T]) {
	switch {
	case other == ls || other.front == nil:
		return
	case ls.back == nil:
		*ls, *other = *other, List[T]{}
		return
	}
	ls.back.next = other.front
	other.front.prev = ls.back
	ls.back = other.back
	ls.len += other.len
	*other = List[T]{}
}

// All iterates the elements from front to back.
func (ls *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := ls.front; n != nil; n = n.next {
			if !yield(n.data) {
				return
			}
		}
	}
}

// Backward iterates the elements from back to front.
func (ls *List[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := ls.back; n != nil; n = n.prev {
			if !yield(n.data) {
				return
			}
		}
	}
}

// Drain iterates the elements from front to back and removes each one
// before it is yielded. Stopping early leaves the rest in the list.
func (ls *List[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			e, ok := ls.PopFront()
			if !ok || !yield(e) {
				return
			}
		}
	}
}
