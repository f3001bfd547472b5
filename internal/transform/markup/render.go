// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markup converts between Markdown and HTML and extracts the
// visible text of either. Conversions are not round-trip exact: HTML
// constructs Markdown cannot express are flattened or dropped.
package markup

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var renderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML renders Markdown source to an HTML fragment using the GFM
// dialect (tables, strikethrough, autolinks and task lists).
func RenderHTML(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderer.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// ToMarkdown converts an HTML document or fragment to Markdown.
func ToMarkdown(source []byte) ([]byte, error) {
	conv := md.NewConverter("", true, nil)
	out, err := conv.ConvertBytes(source)
	if err != nil {
		return nil, fmt.Errorf("converting html: %w", err)
	}
	return out, nil
}

var (
	invisibleTags  = regexp.MustCompile(`(?is)<(script|style|noscript|head|svg|template)\b[^>]*>.*?</(script|style|noscript|head|svg|template)>`)
	htmlComments   = regexp.MustCompile(`(?s)<!--.*?-->`)
	openBlockTags  = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article|ul|ol)\b[^>]*>`)
	closeBlockTags = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article|ul|ol)>`)
	breakTags      = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	cellTags       = regexp.MustCompile(`(?i)</t[dh]>`)
	anyTag         = regexp.MustCompile(`<[^>]+>`)
	spaceRuns      = regexp.MustCompile(`[ \t\r\f\v]+`)
)

// VisibleText strips markup from an HTML document and returns the text a
// reader would see, one block per line. Script, style and head content
// is dropped and entities are decoded.
func VisibleText(source []byte) string {
	s := string(source)
	s = invisibleTags.ReplaceAllString(s, "")
	s = htmlComments.ReplaceAllString(s, "")
	s = openBlockTags.ReplaceAllString(s, "\n")
	s = closeBlockTags.ReplaceAllString(s, "\n")
	s = breakTags.ReplaceAllString(s, "\n")
	s = cellTags.ReplaceAllString(s, " ")
	s = anyTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = spaceRuns.ReplaceAllString(s, " ")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
