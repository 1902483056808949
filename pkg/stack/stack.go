// Package stack provides the integer container the Monty interpreter
// operates on. It is a doubly linked list: every read and removal happens
// at the front, while insertion can happen at either end so the same
// structure serves both stack (LIFO) and queue (FIFO) modes.
package stack

type node struct {
	value int
	prev  *node
	next  *node
}

// Stack is a doubly linked sequence of integers with O(1) operations at
// both ends. The zero value is an empty, ready to use container.
type Stack struct {
	head *node
	tail *node
	size int
}

// New returns an empty container.
func New() *Stack {
	return &Stack{}
}

// Len returns the number of elements.
func (s *Stack) Len() int {
	return s.size
}

// PushFront inserts v before the current front element.
func (s *Stack) PushFront(v int) {
	n := &node{value: v, next: s.head}
	if s.head != nil {
		s.head.prev = n
	} else {
		s.tail = n
	}
	s.head = n
	s.size++
}

// PushBack inserts v after the current back element.
func (s *Stack) PushBack(v int) {
	n := &node{value: v, prev: s.tail}
	if s.tail != nil {
		s.tail.next = n
	} else {
		s.head = n
	}
	s.tail = n
	s.size++
}

// PopFront removes and returns the front element.
// Returns false if the container is empty.
func (s *Stack) PopFront() (int, bool) {
	n := s.head
	if n == nil {
		return 0, false
	}
	s.head = n.next
	if s.head != nil {
		s.head.prev = nil
	} else {
		s.tail = nil
	}
	n.next = nil
	s.size--
	return n.value, true
}

// Front returns the front element without removing it.
func (s *Stack) Front() (int, bool) {
	if s.head == nil {
		return 0, false
	}
	return s.head.value, true
}

// SetFront overwrites the value of the front element in place.
func (s *Stack) SetFront(v int) bool {
	if s.head == nil {
		return false
	}
	s.head.value = v
	return true
}

// SwapFront exchanges the first two elements by relinking their nodes.
// Returns false, leaving the container untouched, if it holds fewer than two.
func (s *Stack) SwapFront() bool {
	if s.size < 2 {
		return false
	}
	first := s.head
	second := first.next

	first.next = second.next
	if first.next != nil {
		first.next.prev = first
	} else {
		s.tail = first
	}
	first.prev = second
	second.next = first
	second.prev = nil
	s.head = second
	return true
}

// RotateLeft moves the front element to the back: [a b c] -> [b c a].
func (s *Stack) RotateLeft() {
	if s.size < 2 {
		return
	}
	n := s.head
	s.head = n.next
	s.head.prev = nil

	n.next = nil
	n.prev = s.tail
	s.tail.next = n
	s.tail = n
}

// RotateRight moves the back element to the front: [a b c] -> [c a b].
func (s *Stack) RotateRight() {
	if s.size < 2 {
		return
	}
	n := s.tail
	s.tail = n.prev
	s.tail.next = nil

	n.prev = nil
	n.next = s.head
	s.head.prev = n
	s.head = n
}

// Each calls fn for every element from front to back until fn returns false.
func (s *Stack) Each(fn func(v int) bool) {
	for n := s.head; n != nil; n = n.next {
		if !fn(n.value) {
			return
		}
	}
}

// Values returns a front-to-back copy of the contents.
func (s *Stack) Values() []int {
	out := make([]int, 0, s.size)
	for n := s.head; n != nil; n = n.next {
		out = append(out, n.value)
	}
	return out
}

// Clear unlinks every node, leaving an empty container.
func (s *Stack) Clear() {
	n := s.head
	for n != nil {
		next := n.next
		n.prev = nil
		n.next = nil
		n = next
	}
	s.head = nil
	s.tail = nil
	s.size = 0
}
