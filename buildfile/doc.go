// Package buildfile parses the YAML interchange document the encoder
// emits for a standalone image build: per-function code bytes with their
// patch annotations, plus the constant-data blob.
//
// The document is a transport for already-encoded machine code; nothing
// here interprets instructions. Code bytes are hex strings, references
// are tagged by kind:
//
//	functions:
//	  - name: alpha
//	    code: "48 8b 05 00 00 00 00"
//	    annotations:
//	      - instruction_start: 0
//	        operand_pos: 3
//	        operand_size: 4
//	        next_instruction: 7
//	        ref: {kind: data, offset: 16}
//	data: "00 11 22 33"
package buildfile
