package reloc

import (
	"sort"
	"sync"

	"github.com/aotforge/imagelink/annotation"
	"github.com/aotforge/imagelink/errors"
)

// Table is the process-wide relocation table. Appends are serialized and
// duplicate sites rejected: the patch pass emits exactly one entry per
// annotation, so a second entry for the same site means an annotation was
// resolved twice.
type Table struct {
	mu      sync.Mutex
	entries []Entry
	sites   map[int64]struct{}
}

// NewTable returns an empty relocation table.
func NewTable() *Table {
	return &Table{sites: make(map[int64]struct{})}
}

func (t *Table) add(e Entry) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, dup := t.sites[e.Site]; dup {
		return errors.DuplicateSite(e.Site)
	}
	t.sites[e.Site] = struct{}{}
	t.entries = append(t.entries, e)
	return nil
}

// AddDirectWithAddend implements Sink.
func (t *Table) AddDirectWithAddend(site int64, size int, addend int64, target annotation.Reference) error {
	return t.add(Entry{Site: site, Size: size, Addend: addend, HasAddend: true, Shape: Direct, Target: target})
}

// AddDirectWithoutAddend implements Sink.
func (t *Table) AddDirectWithoutAddend(site int64, size int, target annotation.Reference) error {
	return t.add(Entry{Site: site, Size: size, Shape: Direct, Target: target})
}

// AddPCRelativeWithAddend implements Sink.
func (t *Table) AddPCRelativeWithAddend(site int64, size int, addend int64, target annotation.Reference) error {
	return t.add(Entry{Site: site, Size: size, Addend: addend, HasAddend: true, Shape: PCRelative, Target: target})
}

// Merge appends every entry of a per-worker buffer, preserving the
// duplicate-site guarantee across workers. Called at the barrier after
// parallel patch passes, before the image writer reads the table.
func (t *Table) Merge(b *Buffer) error {
	for _, e := range b.entries {
		if err := t.add(e); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of accumulated entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Entries returns a copy of the accumulated entries sorted by site.
// Entry order carries no semantic meaning; sorting keeps image encoding
// deterministic.
func (t *Table) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Site < out[j].Site })
	return out
}
