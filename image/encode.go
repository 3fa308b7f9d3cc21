package image

import (
	"github.com/aotforge/imagelink/annotation"
	"github.com/aotforge/imagelink/image/internal/binary"
	"github.com/aotforge/imagelink/reloc"
)

// Container format constants.
const (
	Magic   uint32 = 0x4b4e4c49 // "ILNK" in little-endian byte order
	Version uint32 = 1
)

// Section IDs, in the order sections appear in the container.
const (
	SectionMeta  byte = 1
	SectionText  byte = 2
	SectionData  byte = 3
	SectionFunc  byte = 4
	SectionReloc byte = 5
)

const flagRelocatable byte = 1 << 0

// Reference kind tags used in serialized relocation entries.
const (
	targetData   byte = 1
	targetGlobal byte = 2
	targetConst  byte = 3
)

// Encode serializes the image to the binary container format.
func (img *Image) Encode() []byte {
	w := binary.NewWriter()

	w.WriteU32(Magic)
	w.WriteU32(Version)

	meta := binary.NewWriter()
	meta.WriteI64(img.TextBase)
	meta.WriteI64(img.DataBase)
	var flags byte
	if img.Relocatable {
		flags |= flagRelocatable
	}
	meta.Byte(flags)
	writeSection(w, SectionMeta, meta.Bytes())

	writeSection(w, SectionText, img.Text)

	if len(img.Data) > 0 {
		writeSection(w, SectionData, img.Data)
	}

	if len(img.Functions) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(img.Functions)))
		for _, fn := range img.Functions {
			sec.WriteName(fn.Name)
			sec.WriteI64(fn.Base)
			sec.WriteU32(uint32(fn.Length))
		}
		writeSection(w, SectionFunc, sec.Bytes())
	}

	if len(img.Relocs) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(img.Relocs)))
		for _, e := range img.Relocs {
			writeEntry(sec, e)
		}
		writeSection(w, SectionReloc, sec.Bytes())
	}

	return w.Bytes()
}

func writeSection(w *binary.Writer, id byte, payload []byte) {
	w.Byte(id)
	w.WriteU32(uint32(len(payload)))
	w.WriteBytes(payload)
}

func writeEntry(w *binary.Writer, e reloc.Entry) {
	w.WriteI64(e.Site)
	w.Byte(byte(e.Size))
	w.Byte(byte(e.Shape))
	if e.HasAddend {
		w.Byte(1)
		w.WriteI64(e.Addend)
	} else {
		w.Byte(0)
	}

	switch ref := e.Target.(type) {
	case annotation.DataSectionReference:
		w.Byte(targetData)
		w.WriteI64(ref.Offset)
	case annotation.GlobalDataReference:
		w.Byte(targetGlobal)
		w.WriteName(ref.Symbol)
	case annotation.ConstantReference:
		w.Byte(targetConst)
		w.WriteU64(ref.ID)
	default:
		// The resolver guarantees the closed set; an unknown target
		// here is a programming error.
		panic("image: relocation entry with unknown target kind")
	}
}
