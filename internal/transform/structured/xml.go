// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structured

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/pkg/types"
)

const (
	xmlAttrPrefix = "@"
	xmlTextKey    = "#text"
	xmlRoot       = "root"
	xmlItem       = "item"
	xmlValue      = "value"
	xmlDecl       = `<?xml version="1.0" encoding="utf-8"?>` + "\n"
)

var xmlName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9._:-]*$`)

// xmlCodec maps elements to mappings: attributes become "@name" keys, text
// beside attributes or children becomes "#text", repeated children become
// a sequence, and an empty element is null.
type xmlCodec struct{}

func (xmlCodec) Tag() types.FormatTag { return ".xml" }

func (xmlCodec) Decode(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var root *Node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &convert.Error{Kind: convert.KindFormat, Message: "parsing XML", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil {
				return nil, convert.Errorf(convert.KindFormat, "XML has more than one root element")
			}
			v, err := readXMLElement(dec, t)
			if err != nil {
				return nil, &convert.Error{Kind: convert.KindFormat, Message: "parsing XML", Err: err}
			}
			root = MapNode(Field{Key: t.Name.Local, Value: v})
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, convert.Errorf(convert.KindFormat, "text outside the XML root element")
			}
		}
	}
	if root == nil {
		return nil, convert.Errorf(convert.KindFormat, "XML has no root element")
	}
	return root, nil
}

func readXMLElement(dec *xml.Decoder, start xml.StartElement) (*Node, error) {
	m := MapNode()
	for _, a := range start.Attr {
		m.Set(xmlAttrPrefix+xmlAttrName(a.Name), StringNode(a.Value))
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := readXMLElement(dec, t)
			if err != nil {
				return nil, err
			}
			addXMLChild(m, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			body := strings.TrimSpace(text.String())
			if len(m.Fields) == 0 {
				if body == "" {
					return NullNode(), nil
				}
				return StringNode(body), nil
			}
			if body != "" {
				m.Set(xmlTextKey, StringNode(body))
			}
			return m, nil
		}
	}
}

func xmlAttrName(n xml.Name) string {
	switch {
	case n.Space == "xmlns":
		return "xmlns:" + n.Local
	default:
		return n.Local
	}
}

// addXMLChild stores child under name, turning the entry into a sequence
// once the name repeats. Element values are never sequences themselves,
// so an existing sequence can only come from repetition.
func addXMLChild(m *Node, name string, child *Node) {
	existing, ok := m.Get(name)
	switch {
	case !ok:
		m.Set(name, child)
	case existing.Kind == Sequence:
		existing.Items = append(existing.Items, child)
	default:
		m.Set(name, SeqNode(existing, child))
	}
}

func (xmlCodec) Encode(w io.Writer, n *Node) error {
	name, body := xmlDocumentRoot(n)

	if _, err := io.WriteString(w, xmlDecl); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := writeXMLElement(enc, name, body); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// xmlDocumentRoot picks the root element. A mapping with exactly one
// element key whose value is not a sequence uses that key; other mappings
// go under <root>; a sequence becomes <root><item/>...</root>; a scalar
// becomes <root><value/></root>.
func xmlDocumentRoot(n *Node) (string, *Node) {
	switch n.Kind {
	case Mapping:
		if len(n.Fields) == 1 {
			f := n.Fields[0]
			if f.Value.Kind != Sequence && isXMLElementKey(f.Key) {
				return f.Key, f.Value
			}
		}
		return xmlRoot, n
	case Sequence:
		return xmlRoot, MapNode(Field{Key: xmlItem, Value: n})
	default:
		return xmlRoot, MapNode(Field{Key: xmlValue, Value: n})
	}
}

func isXMLElementKey(k string) bool {
	return k != xmlTextKey && !strings.HasPrefix(k, xmlAttrPrefix) && xmlName.MatchString(k)
}

func writeXMLElement(enc *xml.Encoder, name string, v *Node) error {
	if !xmlName.MatchString(name) {
		return convert.Errorf(convert.KindShape, "key %q is not a valid XML element name", name)
	}

	switch v.Kind {
	case Sequence:
		for _, item := range v.Items {
			if err := writeXMLElement(enc, name, item); err != nil {
				return err
			}
		}
		return nil
	case Mapping:
		start := xml.StartElement{Name: xml.Name{Local: name}}
		var text *Node
		var children []Field
		for _, f := range v.Fields {
			switch {
			case f.Key == xmlTextKey:
				text = f.Value
			case strings.HasPrefix(f.Key, xmlAttrPrefix):
				attr := strings.TrimPrefix(f.Key, xmlAttrPrefix)
				if !xmlName.MatchString(attr) {
					return convert.Errorf(convert.KindShape, "key %q is not a valid XML attribute name", f.Key)
				}
				if !f.Value.IsScalar() {
					return convert.Errorf(convert.KindShape, "attribute %q must hold a scalar, got %s", f.Key, f.Value.Kind)
				}
				start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: attr}, Value: f.Value.ScalarText()})
			default:
				children = append(children, f)
			}
		}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		if text != nil {
			if err := enc.EncodeToken(xml.CharData(text.ScalarText())); err != nil {
				return err
			}
		}
		for _, c := range children {
			if err := writeXMLElement(enc, c.Key, c.Value); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())
	default:
		start := xml.StartElement{Name: xml.Name{Local: name}}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		if v.Kind != Null {
			if err := enc.EncodeToken(xml.CharData(v.ScalarText())); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(start.End()); err != nil {
			return fmt.Errorf("closing <%s>: %w", name, err)
		}
		return nil
	}
}
