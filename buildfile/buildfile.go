package buildfile

import (
	"encoding/hex"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aotforge/imagelink/annotation"
	"github.com/aotforge/imagelink/errors"
	"github.com/aotforge/imagelink/patch"
)

// Build is the parsed encoder output: the functions to patch and the
// constant-data blob they reference.
type Build struct {
	Functions []*patch.Function
	Data      []byte
}

type document struct {
	Functions []functionDoc `yaml:"functions"`
	Data      string        `yaml:"data"`
}

type functionDoc struct {
	Name        string          `yaml:"name"`
	Code        string          `yaml:"code"`
	Annotations []annotationDoc `yaml:"annotations"`
}

type annotationDoc struct {
	InstructionStart int    `yaml:"instruction_start"`
	OperandPos       int    `yaml:"operand_pos"`
	OperandSize      int    `yaml:"operand_size"`
	NextInstruction  int    `yaml:"next_instruction"`
	Ref              refDoc `yaml:"ref"`
}

type refDoc struct {
	Kind   string `yaml:"kind"`
	Offset int64  `yaml:"offset"`
	Symbol string `yaml:"symbol"`
	ID     uint64 `yaml:"id"`
}

// Parse builds the function list from a YAML document.
func Parse(data []byte) (*Build, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			Detail("malformed build file").
			Cause(err).
			Build()
	}

	b := &Build{}
	for i, fd := range doc.Functions {
		if fd.Name == "" {
			return nil, errors.InvalidInput(errors.PhaseLayout, "function %d has no name", i)
		}
		code, err := parseHex(fd.Code)
		if err != nil {
			return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
				Function(fd.Name).
				Detail("bad code bytes").
				Cause(err).
				Build()
		}
		if len(code) == 0 {
			return nil, errors.InvalidInput(errors.PhaseLayout, "function %q has no code", fd.Name)
		}

		fn := &patch.Function{Name: fd.Name, Code: code}
		for j, ad := range fd.Annotations {
			if !annotation.ValidSize(ad.OperandSize) {
				return nil, errors.InvalidInput(errors.PhaseLayout,
					"function %q annotation %d: operand size %d is not 1, 2 or 4", fd.Name, j, ad.OperandSize)
			}
			ref, err := parseRef(ad.Ref)
			if err != nil {
				return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
					Function(fd.Name).
					Detail("annotation %d", j).
					Cause(err).
					Build()
			}
			fn.Annotations = append(fn.Annotations, annotation.CodeAnnotation{
				InstructionStart: ad.InstructionStart,
				OperandPos:       ad.OperandPos,
				OperandSize:      ad.OperandSize,
				NextInstruction:  ad.NextInstruction,
				Ref:              ref,
			})
		}
		b.Functions = append(b.Functions, fn)
	}

	blob, err := parseHex(doc.Data)
	if err != nil {
		return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			Detail("bad data bytes").
			Cause(err).
			Build()
	}
	b.Data = blob
	return b, nil
}

// Load reads and parses a build file.
func Load(path string) (*Build, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			Detail("reading build file %s", path).
			Cause(err).
			Build()
	}
	return Parse(data)
}

func parseHex(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}

func parseRef(rd refDoc) (annotation.Reference, error) {
	switch rd.Kind {
	case "data":
		return annotation.DataSectionReference{Offset: rd.Offset}, nil
	case "global":
		if rd.Symbol == "" {
			return nil, errors.InvalidInput(errors.PhaseLayout, "global reference has no symbol")
		}
		return annotation.GlobalDataReference{Symbol: rd.Symbol}, nil
	case "const":
		return annotation.ConstantReference{ID: rd.ID}, nil
	default:
		return nil, errors.InvalidInput(errors.PhaseLayout, "unknown reference kind %q", rd.Kind)
	}
}
