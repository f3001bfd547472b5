// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structured

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/pkg/types"
)

const csvScalarColumn = "value"

var utf8BOM = []byte("\xef\xbb\xbf")

type csvCodec struct{}

func (csvCodec) Tag() types.FormatTag { return ".csv" }

// Decode turns every record, the header included, into a sequence of
// string cells. Records keep their own length, so ragged rows and repeated
// column names survive.
func (csvCodec) Decode(data []byte) (*Node, error) {
	records, err := ReadCSV(data)
	if err != nil {
		return nil, err
	}
	out := SeqNode()
	for _, rec := range records {
		row := SeqNode()
		for _, cell := range rec {
			row.Items = append(row.Items, StringNode(cell))
		}
		out.Items = append(out.Items, row)
	}
	return out, nil
}

// ReadCSV parses raw CSV records, tolerating a UTF-8 byte order mark and
// records of differing lengths.
func ReadCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, &convert.Error{Kind: convert.KindFormat, Message: "parsing CSV", Err: err}
	}
	return records, nil
}

// Encode writes a top-level sequence as CSV:
//   - sequence of mappings: header from the first element's keys, later
//     elements projected onto it (missing keys give empty cells)
//   - sequence of scalars: a single "value" column
//   - sequence of sequences: rows as given
func (csvCodec) Encode(w io.Writer, n *Node) error {
	if n.Kind != Sequence {
		return convert.Errorf(convert.KindShape, "CSV needs a top-level sequence, got %s", n.Kind)
	}
	cw := csv.NewWriter(w)
	if len(n.Items) == 0 {
		cw.Flush()
		return cw.Error()
	}

	first := n.Items[0]
	switch {
	case first.Kind == Mapping:
		header := first.Keys()
		if err := cw.Write(header); err != nil {
			return err
		}
		for i, item := range n.Items {
			if item.Kind != Mapping {
				return convert.Errorf(convert.KindShape, "element %d is a %s in a sequence of mappings", i, item.Kind)
			}
			row := make([]string, len(header))
			for j, col := range header {
				if v, ok := item.Get(col); ok {
					row[j] = v.ScalarText()
				}
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	case first.IsScalar():
		if err := cw.Write([]string{csvScalarColumn}); err != nil {
			return err
		}
		for _, item := range n.Items {
			if err := cw.Write([]string{item.ScalarText()}); err != nil {
				return err
			}
		}
	default:
		for _, item := range n.Items {
			var row []string
			if item.Kind == Sequence {
				row = make([]string, len(item.Items))
				for j, cell := range item.Items {
					row[j] = cell.ScalarText()
				}
			} else {
				row = []string{item.ScalarText()}
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}
