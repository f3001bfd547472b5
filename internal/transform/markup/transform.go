// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markup

import (
	"context"
	"io"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/pkg/types"
)

// Transforms returns the markup transforms: md->html, html->md and md->txt.
func Transforms() []convert.Transform {
	return []convert.Transform{
		convert.NewFunc(".md", ".html", types.FamilyMarkup, MarkdownToHTML),
		convert.NewFunc(".html", ".md", types.FamilyMarkup, HTMLToMarkdown),
		convert.NewFunc(".md", ".txt", types.FamilyMarkup, MarkdownToText),
	}
}

func MarkdownToHTML(_ context.Context, src, dst string) error {
	return rewrite(src, dst, RenderHTML)
}

func HTMLToMarkdown(_ context.Context, src, dst string) error {
	return rewrite(src, dst, func(b []byte) ([]byte, error) {
		out, err := ToMarkdown(b)
		if err != nil {
			return nil, err
		}
		return withNewline(out), nil
	})
}

// MarkdownToText renders to HTML first so emphasis markers, link targets
// and table pipes never reach the output.
func MarkdownToText(_ context.Context, src, dst string) error {
	return rewrite(src, dst, func(b []byte) ([]byte, error) {
		rendered, err := RenderHTML(b)
		if err != nil {
			return nil, err
		}
		return withNewline([]byte(VisibleText(rendered))), nil
	})
}

func rewrite(src, dst string, fn func([]byte) ([]byte, error)) error {
	data, err := convert.ReadSource(src)
	if err != nil {
		return err
	}
	out, err := fn(data)
	if err != nil {
		return convert.Wrap(convert.KindFormat, src, err)
	}
	return convert.WriteAtomic(dst, func(w io.Writer) error {
		_, err := w.Write(out)
		return err
	})
}

func withNewline(b []byte) []byte {
	if len(b) == 0 || b[len(b)-1] == '\n' {
		return b
	}
	return append(b, '\n')
}
