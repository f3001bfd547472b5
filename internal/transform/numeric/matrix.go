// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package numeric converts between tabular or tree data and NumPy .npy
// arrays of float64.
package numeric

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/internal/transform/structured"
)

const float64Descr = "<f8"

// Array is a float64 array of at most two dimensions stored row-major.
type Array struct {
	Shape []int
	Data  []float64
}

// Rows returns the array as a list of rows: a 0-D array is one row with
// one cell and a 1-D array is a single row.
func (a Array) Rows() [][]float64 {
	switch len(a.Shape) {
	case 0:
		return [][]float64{a.Data}
	case 1:
		return [][]float64{a.Data}
	default:
		r, c := a.Shape[0], a.Shape[1]
		rows := make([][]float64, r)
		for i := 0; i < r; i++ {
			rows[i] = a.Data[i*c : (i+1)*c]
		}
		return rows
	}
}

// fromRows builds an M×N array. Rows must share a length. No rows gives an
// empty 1-D array.
func fromRows(rows [][]float64) (Array, error) {
	if len(rows) == 0 {
		return Array{Shape: []int{0}, Data: []float64{}}, nil
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return Array{}, convert.Errorf(convert.KindShape, "row %d has %d values, row 1 has %d", i+1, len(r), cols)
		}
		data = append(data, r...)
	}
	return Array{Shape: []int{len(rows), cols}, Data: data}, nil
}

// writeNPY stores a as a little-endian float64 .npy array.
func writeNPY(w io.Writer, a Array) error {
	if len(a.Shape) == 2 {
		if a.Shape[0] > 0 && a.Shape[1] > 0 {
			return npyio.Write(w, mat.NewDense(a.Shape[0], a.Shape[1], a.Data))
		}
		// mat.Dense has no zero-sized form; an r×c array value carries the shape.
		empty := reflect.ArrayOf(a.Shape[0], reflect.ArrayOf(a.Shape[1], reflect.TypeFor[float64]()))
		return npyio.Write(w, reflect.New(empty).Elem().Interface())
	}
	return npyio.Write(w, a.Data)
}

// readNPY loads a float64 array of up to two dimensions.
func readNPY(r io.Reader) (Array, error) {
	nr, err := npyio.NewReader(r)
	if err != nil {
		return Array{}, &convert.Error{Kind: convert.KindFormat, Message: "reading npy header", Err: err}
	}
	descr := nr.Header.Descr
	if descr.Type != float64Descr {
		return Array{}, convert.Errorf(convert.KindFormat, "npy dtype %q is not %s", descr.Type, float64Descr)
	}
	if len(descr.Shape) > 2 {
		return Array{}, convert.Errorf(convert.KindShape, "npy array has %d dimensions, at most 2 are supported", len(descr.Shape))
	}

	var data []float64
	if err := nr.Read(&data); err != nil {
		return Array{}, &convert.Error{Kind: convert.KindFormat, Message: "reading npy data", Err: err}
	}
	shape := append([]int(nil), descr.Shape...)
	if descr.Fortran && len(shape) == 2 {
		data = fortranToRowMajor(data, shape[0], shape[1])
	}
	return Array{Shape: shape, Data: data}, nil
}

// fortranToRowMajor reorders the column-major data of an r×c matrix.
func fortranToRowMajor(data []float64, r, c int) []float64 {
	out := make([]float64, len(data))
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out[i*c+j] = data[j*r+i]
		}
	}
	return out
}

// parseCell parses a CSV cell as a float. It accepts surrounding spaces.
func parseCell(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// fromTree coerces a value tree: a scalar becomes 1×1, a flat sequence
// 1×N, and a sequence of equal-length flat sequences M×N.
func fromTree(n *structured.Node) (Array, error) {
	switch n.Kind {
	case structured.Sequence:
		if len(n.Items) == 0 {
			return Array{Shape: []int{0}, Data: []float64{}}, nil
		}
		if n.Items[0].Kind != structured.Sequence {
			row, err := coerceRow(n.Items, "")
			if err != nil {
				return Array{}, err
			}
			return Array{Shape: []int{1, len(row)}, Data: row}, nil
		}
		rows := make([][]float64, len(n.Items))
		for i, item := range n.Items {
			if item.Kind != structured.Sequence {
				return Array{}, convert.Errorf(convert.KindShape, "element %d is a %s in a sequence of rows", i, item.Kind)
			}
			row, err := coerceRow(item.Items, fmt.Sprintf("[%d]", i))
			if err != nil {
				return Array{}, err
			}
			rows[i] = row
		}
		return fromRows(rows)
	default:
		f, err := coerce(n, "")
		if err != nil {
			return Array{}, err
		}
		return Array{Shape: []int{1, 1}, Data: []float64{f}}, nil
	}
}

func coerceRow(items []*structured.Node, prefix string) ([]float64, error) {
	row := make([]float64, len(items))
	for i, item := range items {
		if item.Kind == structured.Sequence {
			return nil, convert.Errorf(convert.KindShape, "value at %s[%d] nests deeper than two dimensions", prefix, i)
		}
		f, err := coerce(item, fmt.Sprintf("%s[%d]", prefix, i))
		if err != nil {
			return nil, err
		}
		row[i] = f
	}
	return row, nil
}

func coerce(n *structured.Node, at string) (float64, error) {
	if f, ok := n.Float(); ok {
		return f, nil
	}
	if at == "" {
		at = "top level"
	}
	return 0, convert.Errorf(convert.KindCoercion, "%s value at %s is not numeric", n.Kind, at)
}

// toTree renders the array as a tree: 2-D as a list of lists, 1-D as a
// list and 0-D as a scalar.
func toTree(a Array) *structured.Node {
	num := func(f float64) *structured.Node { return structured.NumberNode(structured.FormatFloat(f)) }
	switch len(a.Shape) {
	case 0:
		if len(a.Data) == 0 {
			return structured.NullNode()
		}
		return num(a.Data[0])
	case 1:
		s := structured.SeqNode()
		for _, f := range a.Data {
			s.Items = append(s.Items, num(f))
		}
		return s
	default:
		out := structured.SeqNode()
		for _, row := range a.Rows() {
			s := structured.SeqNode()
			for _, f := range row {
				s.Items = append(s.Items, num(f))
			}
			out.Items = append(out.Items, s)
		}
		return out
	}
}
