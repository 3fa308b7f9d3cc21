package image

import (
	"github.com/aotforge/imagelink/reloc"
)

// Placement records where one function landed in the final text region.
// Base is the absolute address of its first byte.
type Placement struct {
	Name   string
	Base   int64
	Length int
}

// Image is a finished, fully patched executable image.
type Image struct {
	// Text is the patched machine code for all functions, laid out at
	// TextBase with alignment padding between functions.
	Text []byte

	// Data is the embedded constant-data blob, laid out at DataBase.
	Data []byte

	// Functions lists every function placement, in placement order.
	Functions []Placement

	// Relocs is the relocation table, sorted by site.
	Relocs []reloc.Entry

	// TextBase and DataBase are the absolute addresses the regions were
	// laid out at.
	TextBase int64
	DataBase int64

	// Relocatable marks a base-independent image.
	Relocatable bool
}
