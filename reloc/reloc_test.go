package reloc_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/aotforge/imagelink/annotation"
	imgerrors "github.com/aotforge/imagelink/errors"
	"github.com/aotforge/imagelink/reloc"
)

func TestTableAppend(t *testing.T) {
	tbl := reloc.NewTable()
	ref := annotation.DataSectionReference{Offset: 8}

	if err := tbl.AddPCRelativeWithAddend(0x10, 4, 4, ref); err != nil {
		t.Fatalf("AddPCRelativeWithAddend: %v", err)
	}
	if err := tbl.AddDirectWithoutAddend(0x20, 4, annotation.ConstantReference{ID: 1}); err != nil {
		t.Fatalf("AddDirectWithoutAddend: %v", err)
	}
	if err := tbl.AddDirectWithAddend(0x30, 2, -6, ref); err != nil {
		t.Fatalf("AddDirectWithAddend: %v", err)
	}

	entries := tbl.Entries()
	if len(entries) != 3 {
		t.Fatalf("Entries: got %d, want 3", len(entries))
	}

	first := entries[0]
	if first.Site != 0x10 || first.Shape != reloc.PCRelative || !first.HasAddend || first.Addend != 4 {
		t.Errorf("first entry: got %+v", first)
	}
	second := entries[1]
	if second.Shape != reloc.Direct || second.HasAddend {
		t.Errorf("direct-without-addend entry: got %+v", second)
	}
	third := entries[2]
	if third.Shape != reloc.Direct || !third.HasAddend || third.Addend != -6 {
		t.Errorf("direct-with-addend entry: got %+v", third)
	}
}

func TestTableRejectsDuplicateSite(t *testing.T) {
	tbl := reloc.NewTable()
	ref := annotation.GlobalDataReference{Symbol: "g"}

	if err := tbl.AddDirectWithoutAddend(64, 4, ref); err != nil {
		t.Fatalf("first append: %v", err)
	}
	err := tbl.AddPCRelativeWithAddend(64, 4, 0, ref)
	if err == nil {
		t.Fatal("second append at same site should fail")
	}
	var ie *imgerrors.Error
	if !errors.As(err, &ie) || ie.Kind != imgerrors.KindDuplicateSite {
		t.Errorf("got %v, want duplicate_site", err)
	}
	if tbl.Len() != 1 {
		t.Errorf("Len after rejected append: got %d, want 1", tbl.Len())
	}
}

func TestTableEntriesSortedBySite(t *testing.T) {
	tbl := reloc.NewTable()
	ref := annotation.DataSectionReference{}
	for _, site := range []int64{0x300, 0x100, 0x200} {
		if err := tbl.AddDirectWithoutAddend(site, 4, ref); err != nil {
			t.Fatalf("append %#x: %v", site, err)
		}
	}

	entries := tbl.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Site >= entries[i].Site {
			t.Fatalf("entries not sorted: %#x before %#x", entries[i-1].Site, entries[i].Site)
		}
	}
}

func TestBufferMerge(t *testing.T) {
	tbl := reloc.NewTable()
	ref := annotation.DataSectionReference{Offset: 4}

	a := reloc.NewBuffer()
	b := reloc.NewBuffer()
	if err := a.AddPCRelativeWithAddend(0x10, 4, 4, ref); err != nil {
		t.Fatal(err)
	}
	if err := a.AddDirectWithoutAddend(0x18, 4, annotation.ConstantReference{ID: 2}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddPCRelativeWithAddend(0x40, 2, 2, ref); err != nil {
		t.Fatal(err)
	}

	if err := tbl.Merge(a); err != nil {
		t.Fatalf("Merge(a): %v", err)
	}
	if err := tbl.Merge(b); err != nil {
		t.Fatalf("Merge(b): %v", err)
	}
	if tbl.Len() != 3 {
		t.Errorf("Len: got %d, want 3", tbl.Len())
	}
}

func TestBufferMergeDuplicateAcrossWorkers(t *testing.T) {
	tbl := reloc.NewTable()
	ref := annotation.DataSectionReference{}

	a := reloc.NewBuffer()
	b := reloc.NewBuffer()
	_ = a.AddDirectWithoutAddend(8, 4, ref)
	_ = b.AddDirectWithoutAddend(8, 4, ref)

	if err := tbl.Merge(a); err != nil {
		t.Fatalf("Merge(a): %v", err)
	}
	if err := tbl.Merge(b); err == nil {
		t.Fatal("merging a second entry for the same site should fail")
	}
}

func TestTableConcurrentAppends(t *testing.T) {
	tbl := reloc.NewTable()
	ref := annotation.DataSectionReference{}

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			base := int64(w * 1000)
			for i := 0; i < perWorker; i++ {
				if err := tbl.AddPCRelativeWithAddend(base+int64(i), 4, 4, ref); err != nil {
					t.Errorf("worker %d append %d: %v", w, i, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	if tbl.Len() != workers*perWorker {
		t.Errorf("Len: got %d, want %d", tbl.Len(), workers*perWorker)
	}
}
