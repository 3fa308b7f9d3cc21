// Package errors provides structured error types for the imagelink library.
//
// Errors are categorized by Phase (where in the build the error occurred)
// and Kind (error category). Every error that refers to a patch site carries
// the owning function name and the byte offset, so a failed build always
// identifies the exact location that broke it.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhasePatch, errors.KindRangeOverflow).
//		Function("fib").
//		Offset(0x12).
//		Detail("displacement %d does not fit in %d bytes", v, size).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.RangeOverflow(fn, offset, value, size)
//	err := errors.PlaceholderDirty(fn, offset)
//
// All errors implement the standard error interface and support
// errors.Is/As. Two *Error values match under errors.Is when their Phase
// and Kind agree.
package errors
