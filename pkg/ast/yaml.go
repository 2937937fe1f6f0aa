package ast

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type yamlNode struct {
	Kind     string  `yaml:"kind"`
	Pos      string  `yaml:"pos,omitempty"`
	Children []*Node `yaml:"children,omitempty"`
}

// MarshalYAML renders terminals as scalars and non-terminals as
// {kind, pos, children} mappings.
func (n *Node) MarshalYAML() (interface{}, error) {
	if n.kind == Terminal {
		return n.text, nil
	}
	return yamlNode{Kind: n.kind.String(), Pos: n.Pos().String(), Children: n.children}, nil
}

// DumpYAML encodes the tree rooted at n.
func DumpYAML(n *Node) ([]byte, error) {
	out, err := yaml.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("ast: encode %s: %w", n.kind, err)
	}
	return out, nil
}
