package patch

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/aotforge/imagelink/annotation"
	"github.com/aotforge/imagelink/errors"
	"github.com/aotforge/imagelink/layout"
	"github.com/aotforge/imagelink/reloc"
)

// Function is one compiled function handed over by the encoder: its raw
// instruction bytes and the annotations recorded while encoding them.
type Function struct {
	Name        string
	Code        []byte
	Annotations []annotation.CodeAnnotation
}

// Apply runs the patch pass over one function whose code starts at base
// within the final image's text region. Every annotation moves through
// classification and, for build-time-resolvable targets, a single
// in-place write: one relocation entry per annotation lands in the sink,
// and a site is never written twice (Patch rejects non-zero bytes). The
// first error aborts the pass; the caller abandons the build.
func Apply(fn *Function, base int64, lay *layout.Layout, sink reloc.Sink) error {
	for _, ann := range fn.Annotations {
		site := base + int64(ann.OperandPos)

		disp, err := Resolve(ann, site, lay.Relocatable, sink)
		if err != nil {
			return withFunction(err, fn.Name)
		}

		if disp.Kind != DirectWithAddend {
			// Load-time-only target: the loader writes the site from
			// its direct relocation entry, the placeholder stays zero.
			continue
		}

		target, err := lay.Target(ann.Ref)
		if err != nil {
			return withFunction(err, fn.Name)
		}
		relative := target - (base + int64(ann.InstructionStart))
		if err := Patch(fn.Code, ann, relative); err != nil {
			return withFunction(err, fn.Name)
		}

		Logger().Debug("patched site",
			zap.String("function", fn.Name),
			zap.Int64("site", site),
			zap.Int("size", ann.OperandSize),
			zap.Int64("addend", disp.Addend),
			zap.Stringer("target", ann.Ref))
	}

	return nil
}

func withFunction(err error, name string) error {
	var ie *errors.Error
	if stderrors.As(err, &ie) {
		ie.WithFunction(name)
	}
	return err
}
