// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structured

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/pkg/types"
)

const (
	maxAliasDepth = 64

	// Alias expansion may grow a document to aliasBudgetFactor times its
	// parsed size, and never below minAliasBudget nodes.
	aliasBudgetFactor = 10
	minAliasBudget    = 100_000
)

type yamlCodec struct {
	tag types.FormatTag
}

func (c yamlCodec) Tag() types.FormatTag { return c.tag }

func (c yamlCodec) Decode(data []byte) (*Node, error) {
	return DecodeYAML(data)
}

func (c yamlCodec) Encode(w io.Writer, n *Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toYAMLNode(n)); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// DecodeYAML parses the first YAML document. An empty document is null.
// Integers are rewritten in decimal and floats always carry a fraction or
// exponent, so the tree reads the same from any YAML spelling.
func DecodeYAML(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if err == io.EOF {
			return NullNode(), nil
		}
		return nil, &convert.Error{Kind: convert.KindFormat, Message: "parsing YAML", Err: err}
	}
	n, err := newYAMLReader(&doc).node(&doc, 0)
	if err != nil {
		return nil, &convert.Error{Kind: convert.KindFormat, Message: "reading YAML", Err: err}
	}
	return n, nil
}

// yamlReader walks a parsed document. Aliases are expanded in place, so
// budget caps the number of nodes the walk may produce.
type yamlReader struct {
	budget int
}

func newYAMLReader(doc *yaml.Node) *yamlReader {
	return &yamlReader{budget: max(minAliasBudget, aliasBudgetFactor*countYAMLNodes(doc))}
}

func countYAMLNodes(y *yaml.Node) int {
	n := 1
	for _, c := range y.Content {
		n += countYAMLNodes(c)
	}
	return n
}

func (r *yamlReader) node(y *yaml.Node, depth int) (*Node, error) {
	r.budget--
	if r.budget < 0 {
		return nil, fmt.Errorf("alias expansion exceeds node limit at line %d", y.Line)
	}
	switch y.Kind {
	case 0:
		return NullNode(), nil
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return NullNode(), nil
		}
		return r.node(y.Content[0], depth)
	case yaml.AliasNode:
		if depth >= maxAliasDepth {
			return nil, fmt.Errorf("alias nesting deeper than %d at line %d", maxAliasDepth, y.Line)
		}
		return r.node(y.Alias, depth+1)
	case yaml.ScalarNode:
		return fromYAMLScalar(y)
	case yaml.SequenceNode:
		s := SeqNode()
		for _, c := range y.Content {
			item, err := r.node(c, depth)
			if err != nil {
				return nil, err
			}
			s.Items = append(s.Items, item)
		}
		return s, nil
	case yaml.MappingNode:
		m := MapNode()
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, v := y.Content[i], y.Content[i+1]
			if k.Kind == yaml.AliasNode && k.Alias != nil {
				k = k.Alias
			}
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("non-scalar mapping key at line %d", k.Line)
			}
			val, err := r.node(v, depth)
			if err != nil {
				return nil, err
			}
			m.Set(k.Value, val)
		}
		return m, nil
	}
	return nil, fmt.Errorf("unknown YAML node kind %d at line %d", y.Kind, y.Line)
}

func fromYAMLScalar(y *yaml.Node) (*Node, error) {
	switch y.ShortTag() {
	case "!!null":
		return NullNode(), nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, err
		}
		return BoolNode(b), nil
	case "!!int":
		var i big.Int
		if _, ok := i.SetString(y.Value, 0); ok {
			return NumberNode(i.String()), nil
		}
		var v int64
		if err := y.Decode(&v); err != nil {
			return nil, err
		}
		return NumberNode(strconv.FormatInt(v, 10)), nil
	case "!!float":
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, err
		}
		return NumberNode(FormatFloat(f)), nil
	default:
		return StringNode(y.Value), nil
	}
}

func toYAMLNode(n *Node) *yaml.Node {
	switch n.Kind {
	case Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: n.ScalarText()}
	case Number:
		tag := "!!float"
		if _, ok := new(big.Int).SetString(n.Text, 10); ok {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: n.Text}
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Text}
	case Sequence:
		y := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.Items {
			y.Content = append(y.Content, toYAMLNode(item))
		}
		return y
	default:
		y := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range n.Fields {
			y.Content = append(y.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key},
				toYAMLNode(f.Value),
			)
		}
		return y
	}
}
