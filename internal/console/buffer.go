// Package console implements the bounded message buffer behind the
// console panel and the ticker that feeds it.
package console

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of messages the console keeps
const DefaultCapacity = 8

// Entry is one console line
type Entry struct {
	Time    time.Time
	Message string
}

// Buffer keeps the newest messages up to its capacity, dropping the
// oldest on overflow. It is safe for concurrent use.
type Buffer struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	closed   bool
}

// NewBuffer creates a buffer; capacity <= 0 means DefaultCapacity
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		entries:  make([]Entry, 0, capacity+1),
		capacity: capacity,
	}
}

// Add appends a message stamped with the current time
func (b *Buffer) Add(msg string) bool {
	return b.AddEntry(Entry{Time: time.Now(), Message: msg})
}

// AddEntry appends e, evicting the oldest entry when full.
// It returns false once the buffer is closed.
func (b *Buffer) AddEntry(e Entry) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}
	b.entries = append(b.entries, e)
	if len(b.entries) > b.capacity {
		b.entries = append(b.entries[:0], b.entries[len(b.entries)-b.capacity:]...)
	}
	return true
}

// Entries returns a snapshot, oldest first
func (b *Buffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Messages returns the message texts, oldest first
func (b *Buffer) Messages() []string {
	entries := b.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

// Len returns the number of buffered entries
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Capacity returns the maximum number of entries
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Clear empties the buffer. A closed buffer is left as is.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.entries = b.entries[:0]
}

// Close stops the buffer from accepting new entries
func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// Closed reports whether Close was called
func (b *Buffer) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
