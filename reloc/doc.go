// Package reloc holds the relocation table the patch pass writes into.
//
// # Main Types
//
//   - Sink: the accumulator contract the resolver appends entries to
//   - Table: the shared, duplicate-free table behind a mutex
//   - Buffer: an unsynchronized per-worker accumulator merged into a
//     Table at a barrier after parallel per-function patch passes
//
// # Entry Shapes
//
// Direct entries mark sites whose bytes already hold (or will hold at
// load time) the resolved value; PC-relative entries mark sites holding
// a signed displacement from the end of the owning instruction to the
// target, with the displacement recorded as the entry's addend.
//
// # Thread Safety
//
// Table is safe for concurrent use. Buffer is NOT and belongs to a
// single worker.
package reloc
