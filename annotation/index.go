package annotation

import "go.uber.org/zap"

// Index is an immutable offset-keyed view of one function's annotations.
// The key is the annotation's InstructionStart, which is expected to be
// unique within a function.
type Index struct {
	byStart map[int]CodeAnnotation
}

// BuildIndex builds an Index from the encoder's annotation list.
// Duplicate instruction offsets are not expected in well-formed input;
// when they occur the last annotation inserted wins and the collision is
// logged, since dropping either silently would hide an encoder bug.
func BuildIndex(anns []CodeAnnotation) *Index {
	byStart := make(map[int]CodeAnnotation, len(anns))
	for _, ann := range anns {
		if _, exists := byStart[ann.InstructionStart]; exists {
			Logger().Warn("duplicate annotation offset; keeping last",
				zap.Int("instruction_start", ann.InstructionStart))
		}
		byStart[ann.InstructionStart] = ann
	}
	return &Index{byStart: byStart}
}

// Lookup returns the annotation whose instruction starts at offset.
func (ix *Index) Lookup(offset int) (CodeAnnotation, bool) {
	ann, ok := ix.byStart[offset]
	return ann, ok
}

// Len returns the number of indexed annotations.
func (ix *Index) Len() int {
	return len(ix.byStart)
}
