// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"
)

// Page layout for generated PDFs, in points.
const (
	pageMargin = 72
	fontSize   = 11
	lineHeight = 14
)

// PDFText extracts the plain text of every page. Pages are separated by a
// blank line and the result is trimmed.
func PDFText(data []byte) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		s, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("reading page %d: %w", i, err)
		}
		if s = strings.TrimSpace(s); s != "" {
			pages = append(pages, s)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// WritePDF lays text out on Letter pages with one inch margins in 11pt
// Helvetica, wrapping long lines. Characters outside Windows-1252 cannot
// be drawn by the core fonts and are substituted.
func WritePDF(w io.Writer, text string) error {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.SetCreator("convertkit", true)
	doc.AddPage()
	doc.SetFont("Helvetica", "", fontSize)

	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.MultiCell(0, lineHeight, tr(text), "", "L", false)
	if err := doc.Error(); err != nil {
		return fmt.Errorf("laying out pdf: %w", err)
	}
	return doc.Output(w)
}

// PreformattedHTML wraps text in a minimal HTML document.
func PreformattedHTML(title, text string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n</head>\n<body>\n<pre>")
	b.WriteString(html.EscapeString(text))
	b.WriteString("</pre>\n</body>\n</html>\n")
	return b.String()
}
