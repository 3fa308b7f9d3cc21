package reloc

import "github.com/aotforge/imagelink/annotation"

// Buffer is an unsynchronized Sink for a single patch worker. Workers
// accumulate privately and the driver merges every buffer into the shared
// Table once all functions are patched, so appends never contend.
type Buffer struct {
	entries []Entry
}

// NewBuffer returns an empty per-worker accumulator.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// AddDirectWithAddend implements Sink.
func (b *Buffer) AddDirectWithAddend(site int64, size int, addend int64, target annotation.Reference) error {
	b.entries = append(b.entries, Entry{Site: site, Size: size, Addend: addend, HasAddend: true, Shape: Direct, Target: target})
	return nil
}

// AddDirectWithoutAddend implements Sink.
func (b *Buffer) AddDirectWithoutAddend(site int64, size int, target annotation.Reference) error {
	b.entries = append(b.entries, Entry{Site: site, Size: size, Shape: Direct, Target: target})
	return nil
}

// AddPCRelativeWithAddend implements Sink.
func (b *Buffer) AddPCRelativeWithAddend(site int64, size int, addend int64, target annotation.Reference) error {
	b.entries = append(b.entries, Entry{Site: site, Size: size, Addend: addend, HasAddend: true, Shape: PCRelative, Target: target})
	return nil
}

// Len returns the number of buffered entries.
func (b *Buffer) Len() int {
	return len(b.entries)
}
