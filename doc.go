// Package imagelink implements the post-compilation relocation and
// patching stage of an ahead-of-time image build.
//
// During instruction encoding a compiler cannot know the final layout of
// functions, data blobs or globals, so it leaves zeroed placeholder bytes
// at operand positions and records an annotation per placeholder. Once
// every address is frozen, this library walks the annotations and either
// overwrites the placeholders with computed PC-relative displacements,
// emits relocation-table entries for the image loader, or both.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	imagelink/
//	├── annotation/      Patch-site metadata and the closed reference variants
//	├── patch/           Reference resolver, byte patcher and per-function pass
//	├── reloc/           Relocation table, sink contract and per-worker buffers
//	├── layout/          Frozen address assignments and YAML manifests
//	├── image/           Parallel build driver and the binary container format
//	├── buildfile/       YAML interchange format for encoder output
//	├── errors/          Structured error types for build diagnostics
//	└── cmd/relink/      CLI: build, list and browse images
//
// # Quick Start
//
// Patch a set of compiled functions against a frozen layout:
//
//	lay := &layout.Layout{
//	    TextBase:    0x1000,
//	    DataBase:    0x4000,
//	    Relocatable: true,
//	    Globals:     map[string]int64{"heap_base": 0x8000},
//	}
//	img, err := image.NewBuilderWithDefaults(lay).Build(fns, data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("app.img", img.Encode(), 0o644)
//
// # Error Model
//
// Every patching failure is fatal for the whole build: a mis-patched
// binary is unconditionally broken, so nothing is retried and no partial
// image is produced. Diagnostics always name the offending function and
// byte offset; see the errors package.
//
// # Thread Safety
//
// Functions are independent units of work and are patched in parallel.
// The relocation table is the only shared resource; reloc.Table
// serializes appends, and the builder gives each worker a private
// reloc.Buffer merged at a barrier.
package imagelink
