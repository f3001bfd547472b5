// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structured

import (
	"fmt"
	"io"
	"math/big"
	"slices"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/pkg/types"
)

// tomlCodec handles TOML documents. TOML has no null and its top level is
// always a table; keys come out sorted because TOML tables are unordered.
type tomlCodec struct{}

func (tomlCodec) Tag() types.FormatTag { return ".toml" }

func (tomlCodec) Decode(data []byte) (*Node, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &convert.Error{Kind: convert.KindFormat, Message: "parsing TOML", Err: err}
	}
	return fromTOMLValue(doc)
}

func fromTOMLValue(v any) (*Node, error) {
	switch t := v.(type) {
	case nil:
		return MapNode(), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		m := MapNode()
		for _, k := range keys {
			child, err := fromTOMLValue(t[k])
			if err != nil {
				return nil, err
			}
			m.Set(k, child)
		}
		return m, nil
	case []any:
		s := SeqNode()
		for _, item := range t {
			child, err := fromTOMLValue(item)
			if err != nil {
				return nil, err
			}
			s.Items = append(s.Items, child)
		}
		return s, nil
	case string:
		return StringNode(t), nil
	case bool:
		return BoolNode(t), nil
	case int64:
		return NumberNode(strconv.FormatInt(t, 10)), nil
	case float64:
		return NumberNode(FormatFloat(t)), nil
	case time.Time:
		return StringNode(t.Format(time.RFC3339Nano)), nil
	case fmt.Stringer:
		// LocalDate, LocalTime and LocalDateTime.
		return StringNode(t.String()), nil
	default:
		return nil, convert.Errorf(convert.KindFormat, "unsupported TOML value %T", v)
	}
}

func (tomlCodec) Encode(w io.Writer, n *Node) error {
	if n.Kind != Mapping {
		return convert.Errorf(convert.KindShape, "TOML needs a top-level mapping, got %s", n.Kind)
	}
	doc, err := toTOMLValue(n, "")
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("encoding TOML: %w", err)
	}
	return nil
}

func toTOMLValue(n *Node, path string) (any, error) {
	switch n.Kind {
	case Null:
		return nil, convert.Errorf(convert.KindShape, "TOML cannot represent null at %q", path)
	case Bool:
		return n.Bool, nil
	case Number:
		if i, ok := new(big.Int).SetString(n.Text, 10); ok && i.IsInt64() {
			return i.Int64(), nil
		}
		f, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			return nil, convert.Errorf(convert.KindShape, "number %q at %q does not fit TOML", n.Text, path)
		}
		return f, nil
	case String:
		return n.Text, nil
	case Sequence:
		out := make([]any, len(n.Items))
		for i, item := range n.Items {
			v, err := toTOMLValue(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	default:
		out := make(map[string]any, len(n.Fields))
		for _, f := range n.Fields {
			child := f.Key
			if path != "" {
				child = path + "." + f.Key
			}
			v, err := toTOMLValue(f.Value, child)
			if err != nil {
				return nil, err
			}
			out[f.Key] = v
		}
		return out, nil
	}
}
