package layout

import (
	"github.com/aotforge/imagelink/annotation"
	"github.com/aotforge/imagelink/errors"
)

// DefaultAlignment is the function alignment used when a manifest does
// not specify one.
const DefaultAlignment = 16

// Layout holds the final address assignments for one image build. All
// fields are frozen before the patch pass starts.
type Layout struct {
	// Globals maps global symbol names to absolute addresses.
	Globals map[string]int64

	// TextBase is the absolute address of the text region.
	TextBase int64

	// DataBase is the absolute address of the constant-data blob.
	DataBase int64

	// Alignment is the function placement alignment, a power of two.
	Alignment int

	// Relocatable marks a base-independent image whose loader applies
	// fixups at load time. Required for ConstantReference patch sites.
	Relocatable bool
}

// Resolvable reports whether ref has an address known at build time.
// ConstantReference targets are load-time only.
func Resolvable(ref annotation.Reference) bool {
	switch ref.(type) {
	case annotation.DataSectionReference, annotation.GlobalDataReference:
		return true
	default:
		return false
	}
}

// Target returns the absolute address of a build-time-resolvable
// reference. Asking for a load-time-only reference is a caller bug.
func (l *Layout) Target(ref annotation.Reference) (int64, error) {
	switch r := ref.(type) {
	case annotation.DataSectionReference:
		if r.Offset < 0 {
			return 0, errors.InvalidInput(errors.PhaseLayout, "negative data-section offset %d", r.Offset)
		}
		return l.DataBase + r.Offset, nil
	case annotation.GlobalDataReference:
		addr, ok := l.Globals[r.Symbol]
		if !ok {
			return 0, errors.UnknownSymbol(errors.PhaseLayout, r.Symbol)
		}
		return addr, nil
	default:
		return 0, errors.InvalidInput(errors.PhaseLayout, "reference %s has no build-time address", ref)
	}
}
