// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package numeric

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/internal/transform/structured"
	"github.com/pdiddy/convertkit/pkg/types"
)

// Tag is the numeric-array format tag.
const Tag types.FormatTag = ".npy"

var treeSources = []types.FormatTag{".yaml", ".yml", ".json"}

// Transforms returns every numeric-array transform.
func Transforms() []convert.Transform {
	out := []convert.Transform{
		convert.NewFunc(".csv", Tag, types.FamilyNumeric, CSVToNPY),
		convert.NewFunc(Tag, ".csv", types.FamilyNumeric, NPYToCSV),
	}
	for _, tag := range treeSources {
		codec, ok := structured.CodecFor(tag)
		if !ok {
			panic(fmt.Sprintf("numeric: no structured codec for %s", tag))
		}
		out = append(out,
			convert.NewFunc(tag, Tag, types.FamilyNumeric, treeToNPY(codec)),
			convert.NewFunc(Tag, tag, types.FamilyNumeric, npyToTree(codec)),
		)
	}
	return out
}

// CSVToNPY keeps the numeric cells of every row, skipping the rest, and
// drops rows that yield no number. The kept rows must be equally long.
func CSVToNPY(_ context.Context, src, dst string) error {
	data, err := convert.ReadSource(src)
	if err != nil {
		return err
	}
	records, err := structured.ReadCSV(data)
	if err != nil {
		return convert.Wrap(convert.KindFormat, src, err)
	}

	var rows [][]float64
	for _, rec := range records {
		var row []float64
		for _, cell := range rec {
			if f, ok := parseCell(cell); ok {
				row = append(row, f)
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	arr, err := fromRows(rows)
	if err != nil {
		return convert.Wrap(convert.KindShape, src, err)
	}
	return publish(dst, arr)
}

// NPYToCSV writes one CSV row per matrix row.
func NPYToCSV(_ context.Context, src, dst string) error {
	arr, err := load(src)
	if err != nil {
		return err
	}
	return convert.WriteAtomic(dst, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		for _, row := range arr.Rows() {
			rec := make([]string, len(row))
			for i, f := range row {
				rec[i] = structured.FormatFloat(f)
			}
			if err := cw.Write(rec); err != nil {
				return convert.Wrap(convert.KindIO, dst, err)
			}
		}
		cw.Flush()
		return convert.Wrap(convert.KindIO, dst, cw.Error())
	})
}

func treeToNPY(codec structured.Codec) func(context.Context, string, string) error {
	return func(_ context.Context, src, dst string) error {
		data, err := convert.ReadSource(src)
		if err != nil {
			return err
		}
		root, err := codec.Decode(data)
		if err != nil {
			return convert.Wrap(convert.KindFormat, src, err)
		}
		arr, err := fromTree(root)
		if err != nil {
			return convert.Wrap(convert.KindCoercion, src, err)
		}
		return publish(dst, arr)
	}
}

func npyToTree(codec structured.Codec) func(context.Context, string, string) error {
	return func(_ context.Context, src, dst string) error {
		arr, err := load(src)
		if err != nil {
			return err
		}
		return convert.WriteAtomic(dst, func(w io.Writer) error {
			return convert.Wrap(convert.KindIO, dst, codec.Encode(w, toTree(arr)))
		})
	}
}

func load(src string) (Array, error) {
	f, err := os.Open(src)
	if err != nil {
		return Array{}, convert.Wrap(convert.KindIO, src, fmt.Errorf("opening source: %w", err))
	}
	defer f.Close()

	arr, err := readNPY(f)
	if err != nil {
		return Array{}, convert.Wrap(convert.KindFormat, src, err)
	}
	return arr, nil
}

func publish(dst string, arr Array) error {
	var buf bytes.Buffer
	if err := writeNPY(&buf, arr); err != nil {
		return convert.Wrap(convert.KindIO, dst, fmt.Errorf("encoding npy: %w", err))
	}
	return convert.WriteAtomic(dst, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return convert.Wrap(convert.KindIO, dst, err)
	})
}
