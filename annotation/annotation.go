package annotation

import "fmt"

// Operand widths the encoder can emit for a patchable site.
const (
	Size8  = 1
	Size16 = 2
	Size32 = 4
)

// ValidSize reports whether n is a supported operand width.
func ValidSize(n int) bool {
	return n == Size8 || n == Size16 || n == Size32
}

// CodeAnnotation describes one placeholder location in a function's
// encoded machine code. It is created once by the encoder and consumed
// exactly once by the patch pass; it is never mutated.
type CodeAnnotation struct {
	// InstructionStart is the offset of the owning instruction within the
	// function's code buffer.
	InstructionStart int

	// OperandPos is the offset of the first placeholder byte.
	OperandPos int

	// OperandSize is the placeholder width in bytes: 1, 2 or 4.
	OperandSize int

	// NextInstruction is the offset of the instruction following the
	// owner. PC-relative addressing on the target ISA is relative to the
	// next instruction, so displacement math needs this position.
	NextInstruction int

	// Ref is the symbolic target of the placeholder.
	Ref Reference
}

// Reference is the symbolic target of a patch site. The set of
// implementations is closed: DataSectionReference, GlobalDataReference
// and ConstantReference. Anything else reaching the resolver signals an
// encoder bug.
type Reference interface {
	fmt.Stringer

	// isReference keeps the variant set closed to this package.
	isReference()
}

// DataSectionReference points into the image's embedded constant-data
// blob. The offset is fixed at build time.
type DataSectionReference struct {
	Offset int64
}

func (DataSectionReference) isReference() {}

func (r DataSectionReference) String() string {
	return fmt.Sprintf("data+0x%x", r.Offset)
}

// GlobalDataReference points to a named process-wide global embedded in
// the image. The symbol's address is fixed at build time.
type GlobalDataReference struct {
	Symbol string
}

func (GlobalDataReference) isReference() {}

func (r GlobalDataReference) String() string {
	return "global:" + r.Symbol
}

// ConstantReference points to a heap object whose address is known only
// when the image is built or loaded. Only valid in relocatable images.
type ConstantReference struct {
	ID uint64
}

func (ConstantReference) isReference() {}

func (r ConstantReference) String() string {
	return fmt.Sprintf("const#%d", r.ID)
}
