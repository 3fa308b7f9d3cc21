// Package layout carries the frozen address assignments the patch pass
// consumes: the base of the text region, the base of the embedded
// constant-data blob, the absolute address of every named global, and
// whether the image is built in relocatable (base-independent) mode.
//
// A Layout is an input contract, not a computation: by the time patching
// runs, every address in it is final. Layouts can be constructed directly
// or loaded from a YAML manifest produced by the image-layout stage.
package layout
