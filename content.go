package layerblend

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// contentFile is the YAML layout of registry content data.
type contentFile struct {
	Layers     []string           `yaml:"layers"`
	Animations []contentAnimation `yaml:"animations"`
}

type contentAnimation struct {
	Path        string              `yaml:"path"`
	Nodes       []uint32            `yaml:"nodes"`
	Layers      []string            `yaml:"layers"`
	Mask        *uint64             `yaml:"mask"`
	Directional *contentDirectional `yaml:"directional"`
}

type contentDirectional struct {
	Forward  uint32 `yaml:"forward"`
	Backward uint32 `yaml:"backward"`
	Left     uint32 `yaml:"left"`
	Right    uint32 `yaml:"right"`
}

// Content is a registry loaded from content data along with the layer names
// its mask bits were assigned from.
type Content struct {
	Registry *StaticRegistry
	Layout   *MaskLayout
}

// LoadContent parses registry content from YAML. Layers listed under
// "layers" own bits in order, starting at bit 0. Each animation takes its
// mask from named "layers", a raw "mask" kept for older content, or both
// OR'd together.
//
//	layers: [legs, torso]
//	animations:
//	  - path: walk
//	    nodes: [1, 2, 3]
//	    layers: [legs]
//	  - path: strafe
//	    layers: [legs]
//	    directional: {forward: 10, backward: 11, left: 12, right: 13}
func LoadContent(r io.Reader) (*Content, error) {
	var f contentFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse content: empty document")
		}
		return nil, fmt.Errorf("parse content: %w", err)
	}

	layout, err := NewMaskLayout(f.Layers...)
	if err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}

	b := NewRegistryBuilder()
	for i, a := range f.Animations {
		if a.Path == "" {
			return nil, fmt.Errorf("parse content: animation %d: missing path", i)
		}
		mask, err := layout.Mask(a.Layers...)
		if err != nil {
			return nil, fmt.Errorf("parse content: animation %q: %w", a.Path, err)
		}
		if a.Mask != nil {
			mask |= Mask(*a.Mask)
		}
		nodes := make([]NodeIndex, len(a.Nodes))
		for j, n := range a.Nodes {
			nodes[j] = NodeIndex(n)
		}
		if d := a.Directional; d != nil {
			b.AddDirectional(Path(a.Path), mask, DirectionalNodes{
				Forward:  NodeIndex(d.Forward),
				Backward: NodeIndex(d.Backward),
				Left:     NodeIndex(d.Left),
				Right:    NodeIndex(d.Right),
			}, nodes...)
			continue
		}
		b.Add(Path(a.Path), mask, nodes...)
	}

	reg, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	return &Content{Registry: reg, Layout: layout}, nil
}

// ParseContent is LoadContent over a byte slice.
func ParseContent(data []byte) (*Content, error) {
	return LoadContent(bytes.NewReader(data))
}
