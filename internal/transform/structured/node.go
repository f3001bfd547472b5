// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package structured converts between tree-shaped data formats (JSON,
// minified JSON, YAML, XML, CSV, TOML). Every codec decodes into the same
// ordered value tree and encodes from it, so a conversion is always
// decode(source) followed by encode(destination).
package structured

import (
	"bytes"
	"strconv"
)

// Kind is the type of a Node.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Sequence
	Mapping
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Node is one value of the tree. Numbers keep their source lexeme so that
// JSON-family round trips reproduce them exactly. Mapping fields keep
// insertion order.
type Node struct {
	Kind   Kind
	Bool   bool
	Text   string
	Items  []*Node
	Fields []Field
}

// Field is one key/value entry of a mapping.
type Field struct {
	Key   string
	Value *Node
}

func NullNode() *Node { return &Node{Kind: Null} }

func BoolNode(b bool) *Node { return &Node{Kind: Bool, Bool: b} }

func NumberNode(lexeme string) *Node { return &Node{Kind: Number, Text: lexeme} }

func StringNode(s string) *Node { return &Node{Kind: String, Text: s} }

func SeqNode(items ...*Node) *Node {
	if items == nil {
		items = []*Node{}
	}
	return &Node{Kind: Sequence, Items: items}
}

func MapNode(fields ...Field) *Node {
	if fields == nil {
		fields = []Field{}
	}
	return &Node{Kind: Mapping, Fields: fields}
}

// Set adds key to a mapping, replacing the value in place if the key is
// already present.
func (n *Node) Set(key string, v *Node) {
	for i := range n.Fields {
		if n.Fields[i].Key == key {
			n.Fields[i].Value = v
			return
		}
	}
	n.Fields = append(n.Fields, Field{Key: key, Value: v})
}

// Get returns the value stored under key in a mapping.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != Mapping {
		return nil, false
	}
	for _, f := range n.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns mapping keys in order.
func (n *Node) Keys() []string {
	keys := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		keys[i] = f.Key
	}
	return keys
}

// IsScalar reports whether n is neither a sequence nor a mapping.
func (n *Node) IsScalar() bool {
	return n.Kind != Sequence && n.Kind != Mapping
}

// Equal reports deep equality. Numbers compare by lexeme and mappings
// compare in order.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind {
		return false
	}
	switch n.Kind {
	case Null:
		return true
	case Bool:
		return n.Bool == o.Bool
	case Number, String:
		return n.Text == o.Text
	case Sequence:
		if len(n.Items) != len(o.Items) {
			return false
		}
		for i := range n.Items {
			if !n.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	case Mapping:
		if len(n.Fields) != len(o.Fields) {
			return false
		}
		for i := range n.Fields {
			if n.Fields[i].Key != o.Fields[i].Key || !n.Fields[i].Value.Equal(o.Fields[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// ScalarText renders a scalar as plain text: "" for null, true/false for
// booleans, the lexeme for numbers. Containers render as compact JSON.
func (n *Node) ScalarText() string {
	switch n.Kind {
	case Null:
		return ""
	case Bool:
		return strconv.FormatBool(n.Bool)
	case Number, String:
		return n.Text
	default:
		var buf bytes.Buffer
		if err := writeJSON(&buf, n, false, 0); err != nil {
			return ""
		}
		return buf.String()
	}
}

// Float returns the numeric value of a Number node, or of a String node
// holding a number.
func (n *Node) Float() (float64, bool) {
	if n.Kind != Number && n.Kind != String {
		return 0, false
	}
	f, err := strconv.ParseFloat(n.Text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatFloat renders f so it reads back as a float: integral values keep
// a trailing ".0".
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'E' || c == 'n' || c == 'N' {
			return s
		}
	}
	return s + ".0"
}
