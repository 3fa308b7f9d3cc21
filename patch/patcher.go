package patch

import (
	"github.com/aotforge/imagelink/annotation"
	"github.com/aotforge/imagelink/errors"
)

// Patch writes a PC-relative displacement into a placeholder site.
//
// relative is the distance from the start of the owning instruction to
// the target. The encoder's placeholder already accounts for the operand
// sitting partway through the instruction, so the stored value is
//
//	offset = relative - (NextInstruction - InstructionStart)
//
// which is the displacement from the end of the instruction, written as
// OperandSize bytes of little-endian two's complement.
//
// The write is all-or-nothing: bounds, operand width, placeholder
// zeroing and signed range are checked before any byte changes.
func Patch(code []byte, ann annotation.CodeAnnotation, relative int64) error {
	if !annotation.ValidSize(ann.OperandSize) {
		return errors.InvalidInput(errors.PhasePatch, "operand size %d is not 1, 2 or 4", ann.OperandSize)
	}
	if ann.OperandPos < 0 || ann.OperandPos+ann.OperandSize > len(code) {
		return errors.OutOfBounds("", int64(ann.OperandPos), ann.OperandSize, len(code))
	}

	offset := relative - int64(ann.NextInstruction-ann.InstructionStart)

	// The value must fit the declared width exactly; truncating an
	// address corrupts the binary.
	bits := uint(8 * ann.OperandSize)
	min := -(int64(1) << (bits - 1))
	max := int64(1)<<(bits-1) - 1
	if offset < min || offset > max {
		return errors.RangeOverflow("", int64(ann.OperandPos), offset, ann.OperandSize)
	}

	for i := 0; i < ann.OperandSize; i++ {
		if code[ann.OperandPos+i] != 0 {
			return errors.PlaceholderDirty("", int64(ann.OperandPos))
		}
	}

	v := uint64(offset)
	for i := 0; i < ann.OperandSize; i++ {
		code[ann.OperandPos+i] = byte(v)
		v >>= 8
	}
	return nil
}
