// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structured

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/pkg/types"
)

// jsonCodec reads any JSON and writes either indented or single-line JSON.
// The compact variant backs the ".toon" tag.
type jsonCodec struct {
	tag     types.FormatTag
	compact bool
}

func (c jsonCodec) Tag() types.FormatTag { return c.tag }

func (c jsonCodec) Decode(data []byte) (*Node, error) {
	return DecodeJSON(data)
}

func (c jsonCodec) Encode(w io.Writer, n *Node) error {
	if err := writeJSON(w, n, !c.compact, 0); err != nil {
		return err
	}
	if c.compact {
		return nil
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// DecodeJSON parses a single JSON document into a tree, keeping object key
// order and number lexemes. Duplicate keys keep the last value.
func DecodeJSON(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	n, err := readJSONValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, convert.Errorf(convert.KindFormat, "empty JSON document")
		}
		return nil, &convert.Error{Kind: convert.KindFormat, Message: "parsing JSON", Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, convert.Errorf(convert.KindFormat, "unexpected data after JSON value at offset %d", dec.InputOffset())
	}
	return n, nil
}

func readJSONValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			m := MapNode()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not string", kt)
				}
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			s := SeqNode()
			for dec.More() {
				item, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				s.Items = append(s.Items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return s, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", v)
		}
	case bool:
		return BoolNode(v), nil
	case json.Number:
		return NumberNode(v.String()), nil
	case string:
		return StringNode(v), nil
	case nil:
		return NullNode(), nil
	default:
		return nil, fmt.Errorf("unexpected token %T", tok)
	}
}

// writeJSON encodes n. With indent set, containers are laid out two spaces
// per level; otherwise the output has no insignificant whitespace.
func writeJSON(w io.Writer, n *Node, indent bool, depth int) error {
	switch n.Kind {
	case Null:
		_, err := io.WriteString(w, "null")
		return err
	case Bool:
		_, err := io.WriteString(w, n.ScalarText())
		return err
	case Number:
		if !isJSONNumber(n.Text) {
			return convert.Errorf(convert.KindShape, "number %q has no JSON representation", n.Text)
		}
		_, err := io.WriteString(w, n.Text)
		return err
	case String:
		return writeJSONString(w, n.Text)
	case Sequence:
		if len(n.Items) == 0 {
			_, err := io.WriteString(w, "[]")
			return err
		}
		if _, err := io.WriteString(w, "["); err != nil {
			return err
		}
		for i, item := range n.Items {
			if err := jsonSeparator(w, i, indent, depth+1); err != nil {
				return err
			}
			if err := writeJSON(w, item, indent, depth+1); err != nil {
				return err
			}
		}
		if err := jsonClose(w, indent, depth); err != nil {
			return err
		}
		_, err := io.WriteString(w, "]")
		return err
	case Mapping:
		if len(n.Fields) == 0 {
			_, err := io.WriteString(w, "{}")
			return err
		}
		if _, err := io.WriteString(w, "{"); err != nil {
			return err
		}
		colon := ":"
		if indent {
			colon = ": "
		}
		for i, f := range n.Fields {
			if err := jsonSeparator(w, i, indent, depth+1); err != nil {
				return err
			}
			if err := writeJSONString(w, f.Key); err != nil {
				return err
			}
			if _, err := io.WriteString(w, colon); err != nil {
				return err
			}
			if err := writeJSON(w, f.Value, indent, depth+1); err != nil {
				return err
			}
		}
		if err := jsonClose(w, indent, depth); err != nil {
			return err
		}
		_, err := io.WriteString(w, "}")
		return err
	}
	return fmt.Errorf("unknown node kind %s", n.Kind)
}

func jsonSeparator(w io.Writer, i int, indent bool, depth int) error {
	sep := ""
	if i > 0 {
		sep = ","
	}
	if indent {
		sep += "\n" + strings.Repeat("  ", depth)
	}
	_, err := io.WriteString(w, sep)
	return err
}

func jsonClose(w io.Writer, indent bool, depth int) error {
	if !indent {
		return nil
	}
	_, err := io.WriteString(w, "\n"+strings.Repeat("  ", depth))
	return err
}

func writeJSONString(w io.Writer, s string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

func isJSONNumber(s string) bool {
	if s == "" {
		return false
	}
	if c := s[0]; c != '-' && (c < '0' || c > '9') {
		return false
	}
	return json.Valid([]byte(s))
}
