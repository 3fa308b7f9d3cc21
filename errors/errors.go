package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the image build the error occurred
type Phase string

const (
	PhaseLayout  Phase = "layout"  // address assignment and manifests
	PhaseResolve Phase = "resolve" // reference classification
	PhasePatch   Phase = "patch"   // placeholder byte writes
	PhaseEmit    Phase = "emit"    // image container encoding
	PhaseDecode  Phase = "decode"  // image container decoding
)

// Kind categorizes the error
type Kind string

const (
	KindRangeOverflow    Kind = "range_overflow"    // value does not fit the operand width
	KindInvalidReference Kind = "invalid_reference" // reference kind outside the closed set
	KindNotRelocatable   Kind = "not_relocatable"   // constant reference in a fixed-base image
	KindPlaceholderDirty Kind = "placeholder_dirty" // patch target bytes were not zero
	KindOutOfBounds      Kind = "out_of_bounds"     // patch site exceeds the code buffer
	KindDuplicateSite    Kind = "duplicate_site"    // two relocation entries for one site
	KindUnknownSymbol    Kind = "unknown_symbol"    // no address for a referenced symbol
	KindInvalidInput     Kind = "invalid_input"     // malformed manifest or build input
	KindInvalidData      Kind = "invalid_data"      // malformed image container
)

// Error is the structured error type used throughout the library
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Function string
	Detail   string
	Offset   int64
	HasSite  bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Function != "" || e.HasSite {
		b.WriteString(" at ")
		if e.Function != "" {
			b.WriteString(e.Function)
		}
		if e.HasSite {
			if e.Function != "" {
				b.WriteByte('+')
			}
			fmt.Fprintf(&b, "0x%x", e.Offset)
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// WithFunction fills in the owning function name when not already set
// and returns the error for chaining. Callers that know the function a
// lower layer was working on use it to complete the diagnostic.
func (e *Error) WithFunction(name string) *Error {
	if e.Function == "" {
		e.Function = name
	}
	return e
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Function sets the owning function name
func (b *Builder) Function(name string) *Builder {
	b.err.Function = name
	return b
}

// Offset sets the byte offset of the failing site
func (b *Builder) Offset(off int64) *Builder {
	b.err.Offset = off
	b.err.HasSite = true
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// RangeOverflow creates an encoding-range violation error
func RangeOverflow(fn string, offset int64, value int64, size int) *Error {
	return &Error{
		Phase:    PhasePatch,
		Kind:     KindRangeOverflow,
		Function: fn,
		Offset:   offset,
		HasSite:  true,
		Detail:   fmt.Sprintf("displacement %d does not fit in %d byte(s)", value, size),
		Value:    value,
	}
}

// PlaceholderDirty creates a placeholder violation error
func PlaceholderDirty(fn string, offset int64) *Error {
	return &Error{
		Phase:    PhasePatch,
		Kind:     KindPlaceholderDirty,
		Function: fn,
		Offset:   offset,
		HasSite:  true,
		Detail:   "placeholder bytes are not zero; site already patched or encoder failed to zero-fill",
	}
}

// OutOfBounds creates an out-of-bounds patch site error
func OutOfBounds(fn string, offset int64, size, length int) *Error {
	return &Error{
		Phase:    PhasePatch,
		Kind:     KindOutOfBounds,
		Function: fn,
		Offset:   offset,
		HasSite:  true,
		Detail:   fmt.Sprintf("operand of %d byte(s) exceeds code buffer of length %d", size, length),
	}
}

// InvalidReference creates an invalid-reference-kind error
func InvalidReference(fn string, offset int64, ref any) *Error {
	return &Error{
		Phase:    PhaseResolve,
		Kind:     KindInvalidReference,
		Function: fn,
		Offset:   offset,
		HasSite:  true,
		Detail:   fmt.Sprintf("unknown reference kind %T; encoder produced a reference outside the closed set", ref),
		Value:    ref,
	}
}

// NotRelocatable creates a relocatable-mode violation error
func NotRelocatable(fn string, offset int64) *Error {
	return &Error{
		Phase:    PhaseResolve,
		Kind:     KindNotRelocatable,
		Function: fn,
		Offset:   offset,
		HasSite:  true,
		Detail:   "constant reference requires a relocatable image; fixed-base images cannot fix up heap addresses at load time",
	}
}

// DuplicateSite creates a duplicate relocation entry error
func DuplicateSite(offset int64) *Error {
	return &Error{
		Phase:   PhaseEmit,
		Kind:    KindDuplicateSite,
		Offset:  offset,
		HasSite: true,
		Detail:  "relocation table already holds an entry for this site",
	}
}

// UnknownSymbol creates an unresolved symbol error
func UnknownSymbol(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownSymbol,
		Detail: fmt.Sprintf("no address recorded for symbol %q", name),
	}
}

// InvalidInput creates a malformed input error
func InvalidInput(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf(detail, args...),
	}
}
