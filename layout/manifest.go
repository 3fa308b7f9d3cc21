package layout

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aotforge/imagelink/errors"
)

// manifest mirrors the YAML document emitted by the image-layout stage.
type manifest struct {
	Globals     map[string]int64 `yaml:"globals"`
	TextBase    int64            `yaml:"text_base"`
	DataBase    int64            `yaml:"data_base"`
	Alignment   int              `yaml:"alignment"`
	Relocatable bool             `yaml:"relocatable"`
}

// Parse builds a Layout from a YAML manifest.
func Parse(data []byte) (*Layout, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			Detail("malformed layout manifest").
			Cause(err).
			Build()
	}

	if m.TextBase < 0 {
		return nil, errors.InvalidInput(errors.PhaseLayout, "text_base %d is negative", m.TextBase)
	}
	if m.DataBase < 0 {
		return nil, errors.InvalidInput(errors.PhaseLayout, "data_base %d is negative", m.DataBase)
	}
	for name, addr := range m.Globals {
		if addr < 0 {
			return nil, errors.InvalidInput(errors.PhaseLayout, "global %q has negative address %d", name, addr)
		}
	}

	align := m.Alignment
	if align == 0 {
		align = DefaultAlignment
	}
	if align < 1 || align&(align-1) != 0 {
		return nil, errors.InvalidInput(errors.PhaseLayout, "alignment %d is not a power of two", m.Alignment)
	}

	return &Layout{
		Globals:     m.Globals,
		TextBase:    m.TextBase,
		DataBase:    m.DataBase,
		Alignment:   align,
		Relocatable: m.Relocatable,
	}, nil
}

// Load reads and parses a YAML manifest file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			Detail("reading layout manifest %s", path).
			Cause(err).
			Build()
	}
	return Parse(data)
}
