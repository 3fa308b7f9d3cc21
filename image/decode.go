package image

import (
	"github.com/aotforge/imagelink/annotation"
	"github.com/aotforge/imagelink/errors"
	"github.com/aotforge/imagelink/image/internal/binary"
	"github.com/aotforge/imagelink/reloc"
)

func decodeErr(detail string, args ...any) *errors.Error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Detail(detail, args...).
		Build()
}

// Decode parses a binary image container. Validation is strict: wrong
// magic or version, out-of-order or repeated sections, truncated
// payloads and malformed relocation entries are all rejected.
func Decode(data []byte) (*Image, error) {
	r := binary.NewReader(data)

	magic, err := r.ReadU32()
	if err != nil {
		return nil, decodeErr("missing magic number")
	}
	if magic != Magic {
		return nil, decodeErr("bad magic %#x, want %#x", magic, Magic)
	}
	version, err := r.ReadU32()
	if err != nil {
		return nil, decodeErr("missing version")
	}
	if version != Version {
		return nil, decodeErr("unsupported version %d, want %d", version, Version)
	}

	img := &Image{}
	sawMeta := false
	lastID := byte(0)

	for r.Remaining() > 0 {
		id, err := r.ReadByte()
		if err != nil {
			return nil, decodeErr("truncated section header")
		}
		if id <= lastID {
			return nil, decodeErr("section %d out of order or repeated", id)
		}
		lastID = id

		size, err := r.ReadU32()
		if err != nil {
			return nil, decodeErr("truncated size for section %d", id)
		}
		payload, err := r.ReadBytes(int(size))
		if err != nil {
			return nil, decodeErr("section %d payload truncated (%d bytes declared)", id, size)
		}

		switch id {
		case SectionMeta:
			if err := decodeMeta(img, payload); err != nil {
				return nil, err
			}
			sawMeta = true
		case SectionText:
			img.Text = payload
		case SectionData:
			img.Data = payload
		case SectionFunc:
			if err := decodeFuncs(img, payload); err != nil {
				return nil, err
			}
		case SectionReloc:
			if err := decodeRelocs(img, payload); err != nil {
				return nil, err
			}
		default:
			return nil, decodeErr("unknown section id %d", id)
		}
	}

	if !sawMeta {
		return nil, decodeErr("missing META section")
	}
	return img, nil
}

func decodeMeta(img *Image, payload []byte) error {
	r := binary.NewReader(payload)
	textBase, err := r.ReadI64()
	if err != nil {
		return decodeErr("META truncated")
	}
	dataBase, err := r.ReadI64()
	if err != nil {
		return decodeErr("META truncated")
	}
	flags, err := r.ReadByte()
	if err != nil {
		return decodeErr("META truncated")
	}
	if r.Remaining() != 0 {
		return decodeErr("META has %d trailing bytes", r.Remaining())
	}
	img.TextBase = textBase
	img.DataBase = dataBase
	img.Relocatable = flags&flagRelocatable != 0
	return nil
}

func decodeFuncs(img *Image, payload []byte) error {
	r := binary.NewReader(payload)
	count, err := r.ReadU32()
	if err != nil {
		return decodeErr("FUNC truncated")
	}
	funcs := make([]Placement, 0, count)
	for i := uint32(0); i < count; i++ {
		name, err := r.ReadName()
		if err != nil {
			return decodeErr("FUNC entry %d: bad name", i)
		}
		base, err := r.ReadI64()
		if err != nil {
			return decodeErr("FUNC entry %d truncated", i)
		}
		length, err := r.ReadU32()
		if err != nil {
			return decodeErr("FUNC entry %d truncated", i)
		}
		funcs = append(funcs, Placement{Name: name, Base: base, Length: int(length)})
	}
	if r.Remaining() != 0 {
		return decodeErr("FUNC has %d trailing bytes", r.Remaining())
	}
	img.Functions = funcs
	return nil
}

func decodeRelocs(img *Image, payload []byte) error {
	r := binary.NewReader(payload)
	count, err := r.ReadU32()
	if err != nil {
		return decodeErr("RELOC truncated")
	}
	seen := make(map[int64]struct{}, count)
	entries := make([]reloc.Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		e, err := decodeEntry(r, i)
		if err != nil {
			return err
		}
		if _, dup := seen[e.Site]; dup {
			return decodeErr("RELOC entry %d duplicates site %#x", i, e.Site)
		}
		seen[e.Site] = struct{}{}
		entries = append(entries, e)
	}
	if r.Remaining() != 0 {
		return decodeErr("RELOC has %d trailing bytes", r.Remaining())
	}
	img.Relocs = entries
	return nil
}

func decodeEntry(r *binary.Reader, i uint32) (reloc.Entry, error) {
	var e reloc.Entry

	site, err := r.ReadI64()
	if err != nil {
		return e, decodeErr("RELOC entry %d truncated", i)
	}
	size, err := r.ReadByte()
	if err != nil {
		return e, decodeErr("RELOC entry %d truncated", i)
	}
	if !annotation.ValidSize(int(size)) {
		return e, decodeErr("RELOC entry %d has size %d, want 1, 2 or 4", i, size)
	}
	shape, err := r.ReadByte()
	if err != nil {
		return e, decodeErr("RELOC entry %d truncated", i)
	}
	if reloc.Shape(shape) != reloc.Direct && reloc.Shape(shape) != reloc.PCRelative {
		return e, decodeErr("RELOC entry %d has unknown shape %d", i, shape)
	}
	hasAddend, err := r.ReadByte()
	if err != nil {
		return e, decodeErr("RELOC entry %d truncated", i)
	}
	if hasAddend > 1 {
		return e, decodeErr("RELOC entry %d has addend flag %d", i, hasAddend)
	}

	e.Site = site
	e.Size = int(size)
	e.Shape = reloc.Shape(shape)
	if hasAddend == 1 {
		addend, err := r.ReadI64()
		if err != nil {
			return e, decodeErr("RELOC entry %d addend truncated", i)
		}
		e.Addend = addend
		e.HasAddend = true
	}

	kind, err := r.ReadByte()
	if err != nil {
		return e, decodeErr("RELOC entry %d target truncated", i)
	}
	switch kind {
	case targetData:
		off, err := r.ReadI64()
		if err != nil {
			return e, decodeErr("RELOC entry %d target truncated", i)
		}
		e.Target = annotation.DataSectionReference{Offset: off}
	case targetGlobal:
		sym, err := r.ReadName()
		if err != nil {
			return e, decodeErr("RELOC entry %d target symbol malformed", i)
		}
		e.Target = annotation.GlobalDataReference{Symbol: sym}
	case targetConst:
		id, err := r.ReadU64()
		if err != nil {
			return e, decodeErr("RELOC entry %d target truncated", i)
		}
		e.Target = annotation.ConstantReference{ID: id}
	default:
		return e, decodeErr("RELOC entry %d has unknown target kind %d", i, kind)
	}

	return e, nil
}
