package patch

import (
	"github.com/aotforge/imagelink/annotation"
	"github.com/aotforge/imagelink/errors"
	"github.com/aotforge/imagelink/reloc"
)

// DispositionKind names how a resolved annotation gets its final value.
type DispositionKind uint8

const (
	// DirectWithAddend sites are patched at build time with a
	// PC-relative displacement; the relocation entry carries the addend
	// so a relocatable loader can recompute the displacement.
	DirectWithAddend DispositionKind = iota + 1

	// DirectWithoutAddend sites stay zero at build time and are written
	// by the loader from a direct relocation entry.
	DirectWithoutAddend
)

func (k DispositionKind) String() string {
	switch k {
	case DirectWithAddend:
		return "direct+addend"
	case DirectWithoutAddend:
		return "direct"
	default:
		return "unknown"
	}
}

// Disposition is the outcome of classifying one annotation.
type Disposition struct {
	Target annotation.Reference
	Addend int64
	Kind   DispositionKind
}

// Resolve classifies an annotation's reference and appends exactly one
// relocation entry to the sink. site is the absolute offset of the
// operand within the final image.
//
// Data-section and global references resolve to DirectWithAddend. Their
// addend is NextInstruction - OperandPos: the target ISA computes
// PC-relative addresses from the start of the *next* instruction, so the
// distance between the operand and the next instruction must be folded
// into the relocation.
//
// Constant references resolve to DirectWithoutAddend and are only legal
// in relocatable images; a fixed-base image has no way to fix up a heap
// address after the fact. On any error no entry is appended.
func Resolve(ann annotation.CodeAnnotation, site int64, relocatable bool, sink reloc.Sink) (Disposition, error) {
	if !annotation.ValidSize(ann.OperandSize) {
		return Disposition{}, errors.New(errors.PhaseResolve, errors.KindInvalidInput).
			Offset(site).
			Detail("operand size %d is not 1, 2 or 4", ann.OperandSize).
			Build()
	}

	switch ref := ann.Ref.(type) {
	case annotation.DataSectionReference, annotation.GlobalDataReference:
		addend := int64(ann.NextInstruction - ann.OperandPos)
		if err := sink.AddPCRelativeWithAddend(site, ann.OperandSize, addend, ann.Ref); err != nil {
			return Disposition{}, err
		}
		return Disposition{Kind: DirectWithAddend, Addend: addend, Target: ann.Ref}, nil

	case annotation.ConstantReference:
		if !relocatable {
			return Disposition{}, errors.NotRelocatable("", site)
		}
		if err := sink.AddDirectWithoutAddend(site, ann.OperandSize, ref); err != nil {
			return Disposition{}, err
		}
		return Disposition{Kind: DirectWithoutAddend, Target: ref}, nil

	default:
		// The reference set is closed; this is unreachable for
		// well-formed encoder output.
		return Disposition{}, errors.InvalidReference("", site, ann.Ref)
	}
}
