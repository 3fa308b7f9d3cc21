package reloc

import (
	"github.com/aotforge/imagelink/annotation"
)

// Shape distinguishes how the loader interprets a relocation site.
type Shape uint8

const (
	// Direct marks a site that holds the resolved absolute or
	// base-relative value with no further arithmetic at load time.
	Direct Shape = iota + 1

	// PCRelative marks a site that holds a signed displacement from the
	// end of the owning instruction to the target.
	PCRelative
)

func (s Shape) String() string {
	switch s {
	case Direct:
		return "direct"
	case PCRelative:
		return "pc-relative"
	default:
		return "unknown"
	}
}

// Entry is one relocation-table record. Site is the absolute byte offset
// of the patched operand within the final image's text region; Size and
// Addend match what the patch pass baked into the site's bytes exactly.
type Entry struct {
	Target    annotation.Reference
	Site      int64
	Addend    int64
	Size      int
	Shape     Shape
	HasAddend bool
}

// Sink is the accumulator the reference resolver appends into. The image
// writer consumes the accumulated entries after the patch pass; exactly
// one entry is appended per annotation the resolver accepts.
//
// Implementations decide their own synchronization: Table serializes
// appends internally, Buffer relies on single-owner use.
type Sink interface {
	// AddDirectWithAddend records a direct-shape entry carrying an
	// explicit addend.
	AddDirectWithAddend(site int64, size int, addend int64, target annotation.Reference) error

	// AddDirectWithoutAddend records a direct-shape entry whose target
	// value needs no addend.
	AddDirectWithoutAddend(site int64, size int, target annotation.Reference) error

	// AddPCRelativeWithAddend records a PC-relative entry whose addend
	// compensates for the distance between the operand and the end of
	// the owning instruction.
	AddPCRelativeWithAddend(site int64, size int, addend int64, target annotation.Reference) error
}
