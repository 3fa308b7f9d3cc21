package image

import (
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/aotforge/imagelink/annotation"
	"github.com/aotforge/imagelink/errors"
	"github.com/aotforge/imagelink/layout"
	"github.com/aotforge/imagelink/patch"
	"github.com/aotforge/imagelink/reloc"
)

// Options configures builder behavior.
type Options struct {
	// Workers bounds the number of concurrent patch workers.
	// Zero means GOMAXPROCS.
	Workers int

	// Progress, when set, is called after each function finishes
	// patching with the number done and the total.
	Progress func(done, total int)
}

// DefaultOptions returns default builder configuration.
func DefaultOptions() Options {
	return Options{}
}

// Builder runs the patch pass over all functions of an image build.
type Builder struct {
	lay  *layout.Layout
	opts Options
}

// NewBuilder creates a Builder for a frozen layout.
func NewBuilder(lay *layout.Layout, opts Options) *Builder {
	return &Builder{lay: lay, opts: opts}
}

// NewBuilderWithDefaults creates a Builder with default options.
func NewBuilderWithDefaults(lay *layout.Layout) *Builder {
	return NewBuilder(lay, DefaultOptions())
}

// Build places every function, patches all placeholder sites in
// parallel and returns the finished image. The first failure aborts the
// build; no partial image is returned.
func (b *Builder) Build(fns []*patch.Function, data []byte) (*Image, error) {
	placements, textLen, err := b.place(fns)
	if err != nil {
		return nil, err
	}

	table := reloc.NewTable()
	if err := b.patchAll(fns, placements, table); err != nil {
		return nil, err
	}

	text := make([]byte, textLen)
	for i, fn := range fns {
		off := placements[i].Base - b.lay.TextBase
		copy(text[off:], fn.Code)
	}

	img := &Image{
		Text:        text,
		Data:        data,
		Functions:   placements,
		Relocs:      table.Entries(),
		TextBase:    b.lay.TextBase,
		DataBase:    b.lay.DataBase,
		Relocatable: b.lay.Relocatable,
	}

	Logger().Info("image build complete",
		zap.Int("functions", len(fns)),
		zap.Int("text_bytes", len(text)),
		zap.Int("relocations", len(img.Relocs)))
	return img, nil
}

// place assigns each function an aligned base address in the text
// region and validates annotation geometry against the code length.
func (b *Builder) place(fns []*patch.Function) ([]Placement, int, error) {
	align := int64(b.lay.Alignment)
	if align == 0 {
		align = layout.DefaultAlignment
	}

	placements := make([]Placement, len(fns))
	next := b.lay.TextBase
	for i, fn := range fns {
		if fn.Name == "" {
			return nil, 0, errors.InvalidInput(errors.PhaseLayout, "function %d has no name", i)
		}
		if len(fn.Code) == 0 {
			return nil, 0, errors.InvalidInput(errors.PhaseLayout, "function %q has no code", fn.Name)
		}
		for _, ann := range fn.Annotations {
			if !annotation.ValidSize(ann.OperandSize) {
				return nil, 0, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
					Function(fn.Name).
					Offset(int64(ann.OperandPos)).
					Detail("operand size %d is not 1, 2 or 4", ann.OperandSize).
					Build()
			}
			if !annBoundsOK(ann.OperandPos, ann.OperandSize, len(fn.Code)) {
				return nil, 0, errors.OutOfBounds(fn.Name, int64(ann.OperandPos), ann.OperandSize, len(fn.Code))
			}
		}

		next = (next + align - 1) &^ (align - 1)
		placements[i] = Placement{Name: fn.Name, Base: next, Length: len(fn.Code)}
		next += int64(len(fn.Code))
	}

	return placements, int(next - b.lay.TextBase), nil
}

func annBoundsOK(pos, size, length int) bool {
	return pos >= 0 && size > 0 && pos+size <= length
}

// patchAll fans the functions out to a bounded worker pool. Each worker
// owns a private relocation buffer; buffers merge into the shared table
// only after every worker has finished, so appends never interleave.
func (b *Builder) patchAll(fns []*patch.Function, placements []Placement, table *reloc.Table) error {
	workers := b.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(fns) {
		workers = len(fns)
	}
	if workers == 0 {
		return nil
	}

	var (
		mu       sync.Mutex
		firstErr error
		done     int
	)
	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	jobs := make(chan int)
	go func() {
		defer close(jobs)
		for i := range fns {
			if failed() {
				return
			}
			jobs <- i
		}
	}()

	buffers := make([]*reloc.Buffer, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		buffers[w] = reloc.NewBuffer()
		wg.Add(1)
		go func(buf *reloc.Buffer) {
			defer wg.Done()
			// Keep draining after a failure so the producer never
			// blocks on a full channel.
			for i := range jobs {
				if failed() {
					continue
				}
				if err := patch.Apply(fns[i], placements[i].Base, b.lay, buf); err != nil {
					setErr(err)
					continue
				}
				if b.opts.Progress != nil {
					mu.Lock()
					done++
					b.opts.Progress(done, len(fns))
					mu.Unlock()
				}
			}
		}(buffers[w])
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}

	for _, buf := range buffers {
		if err := table.Merge(buf); err != nil {
			return err
		}
	}
	return nil
}
