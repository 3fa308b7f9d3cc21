// Package annotation defines the patch-site metadata produced by the
// instruction encoder.
//
// While encoding, the compiler cannot know the final layout of functions,
// data blobs, or globals, so it emits zeroed placeholder bytes at operand
// positions and records one CodeAnnotation per placeholder. The annotation
// carries the geometry of the site (instruction start, operand position and
// width, start of the following instruction) and a symbolic Reference to
// the eventual target.
//
// References form a closed set: DataSectionReference and
// GlobalDataReference point at build-time-fixed locations inside the
// image, ConstantReference points at a heap object whose address is only
// known at load time. The resolver in package patch matches exhaustively
// over these three kinds.
//
// Index provides offset-keyed lookup over a function's annotations for
// verification passes that need to find the annotation owning a given
// instruction.
package annotation
