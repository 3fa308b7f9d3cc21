// Package image drives the whole-image patch pass and owns the binary
// container the image writer emits.
//
// # Main Types
//
//   - Builder: places compiled functions in the text region, runs the
//     per-function patch passes in parallel and merges the per-worker
//     relocation buffers at a barrier
//   - Image: the finished product (patched text, data blob, relocation
//     table and function placements) with Encode/Decode for the binary
//     container format
//
// # Build Model
//
// A build either completes the full patch pass or fails; there is no
// partial output. Functions are independent units of work and are
// patched concurrently, each worker appending into a private
// reloc.Buffer. The buffers merge into one duplicate-free table before
// encoding.
//
// # Container Format
//
// Little-endian throughout: a magic/version header followed by sized
// sections (META, TEXT, DATA, FUNC, RELOC). Decode validates strictly
// and rejects unknown sections, truncated payloads and malformed
// relocation entries.
package image
