// Package patch implements the post-compilation relocation pass.
//
// The encoder leaves zeroed placeholder bytes at operand positions and
// records a CodeAnnotation per site. Once the image layout is frozen,
// Apply walks a function's annotations and, per annotation:
//
//  1. Resolve classifies the symbolic reference and appends exactly one
//     entry to the relocation sink.
//  2. For build-time-resolvable targets (data section, globals), Patch
//     overwrites the placeholder with the PC-relative displacement.
//  3. Load-time-only targets (heap constants) keep their zero bytes; the
//     loader writes them using the direct relocation entry.
//
// # Error Model
//
// Every failure is fatal for the whole image build. A mis-patched binary
// is unconditionally broken, so nothing here is retried or degraded:
// range overflows, dirty placeholders, out-of-bounds sites, unknown
// reference kinds and relocatable-mode violations all abort with a
// diagnostic naming the function and byte offset.
//
// # Thread Safety
//
// A function's code buffer and annotations are private to one call of
// Apply. Distinct functions share no state and may be patched in
// parallel; only the relocation sink is shared, and reloc.Table
// serializes its appends.
package patch
