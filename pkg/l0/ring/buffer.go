// Package ring provides the single-producer single-consumer word queue
// between the line timing paths and the link tasks.
package ring

import "sync/atomic"

// Capacity is the number of words a Buffer holds.
const Capacity = 128

// Buffer is a fixed capacity FIFO of 32-bit words.
// It is safe for one producer and one consumer running concurrently.
// The producer only advances tail, the consumer only advances head.
// Both counters run freely and wrap, the size is tail - head.
type Buffer struct {
	head  atomic.Uint32
	tail  atomic.Uint32
	words [Capacity]uint32
}

// Push appends a word. It returns false without modifying the buffer when full.
func (b *Buffer) Push(word uint32) bool {
	tail := b.tail.Load()
	if tail-b.head.Load() >= Capacity {
		return false
	}
	b.words[tail%Capacity] = word
	b.tail.Store(tail + 1)
	return true
}

// Pop removes the oldest word.
func (b *Buffer) Pop() (uint32, bool) {
	head := b.head.Load()
	if b.tail.Load() == head {
		return 0, false
	}
	word := b.words[head%Capacity]
	b.head.Store(head + 1)
	return word, true
}

// Size returns the number of buffered words.
func (b *Buffer) Size() int {
	return int(b.tail.Load() - b.head.Load())
}

// IsEmpty indicates no word is buffered.
func (b *Buffer) IsEmpty() bool {
	return b.Size() == 0
}

// IsFull indicates a Push would fail.
func (b *Buffer) IsFull() bool {
	return b.Size() >= Capacity
}
