// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document extracts text from PDF, DOCX and HTML files and lays
// plain text out as PDF. Only text survives: images, styling and layout
// are dropped, and no OCR is attempted.
package document

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/internal/transform/markup"
	"github.com/pdiddy/convertkit/pkg/types"
)

type extractor func(data []byte) (string, error)

// Transforms returns every document transform.
func Transforms() []convert.Transform {
	return []convert.Transform{
		convert.NewFunc(".pdf", ".txt", types.FamilyDocument, textTransform(PDFText)),
		convert.NewFunc(".pdf", ".html", types.FamilyDocument, PDFToHTML),
		convert.NewFunc(".docx", ".txt", types.FamilyDocument, textTransform(DocxText)),
		convert.NewFunc(".html", ".txt", types.FamilyDocument, textTransform(htmlText)),
		convert.NewFunc(".html", ".pdf", types.FamilyDocument, pdfTransform(htmlText)),
		convert.NewFunc(".txt", ".pdf", types.FamilyDocument, pdfTransform(plainText)),
		convert.NewFunc(".md", ".pdf", types.FamilyDocument, pdfTransform(markdownText)),
	}
}

func htmlText(data []byte) (string, error) {
	return markup.VisibleText(data), nil
}

func plainText(data []byte) (string, error) {
	return strings.TrimRight(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n"), nil
}

func markdownText(data []byte) (string, error) {
	rendered, err := markup.RenderHTML(data)
	if err != nil {
		return "", err
	}
	return markup.VisibleText(rendered), nil
}

func extract(src string, fn extractor) (string, error) {
	data, err := convert.ReadSource(src)
	if err != nil {
		return "", err
	}
	text, err := fn(data)
	if err != nil {
		return "", convert.Wrap(convert.KindFormat, src, err)
	}
	return text, nil
}

// textTransform writes the extracted text followed by a newline. A source
// with no extractable text produces an empty file.
func textTransform(fn extractor) func(context.Context, string, string) error {
	return func(_ context.Context, src, dst string) error {
		text, err := extract(src, fn)
		if err != nil {
			return err
		}
		return convert.WriteAtomic(dst, func(w io.Writer) error {
			if text == "" {
				return nil
			}
			_, err := io.WriteString(w, text+"\n")
			return err
		})
	}
}

func pdfTransform(fn extractor) func(context.Context, string, string) error {
	return func(_ context.Context, src, dst string) error {
		text, err := extract(src, fn)
		if err != nil {
			return err
		}
		return convert.WriteAtomic(dst, func(w io.Writer) error {
			if err := WritePDF(w, text); err != nil {
				return convert.Wrap(convert.KindIO, dst, err)
			}
			return nil
		})
	}
}

// PDFToHTML writes the text of a PDF as a preformatted HTML page titled
// after the source file.
func PDFToHTML(_ context.Context, src, dst string) error {
	text, err := extract(src, PDFText)
	if err != nil {
		return err
	}
	title := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return convert.WriteAtomic(dst, func(w io.Writer) error {
		_, err := io.WriteString(w, PreformattedHTML(title, text))
		return err
	})
}
