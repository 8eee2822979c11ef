// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown turns ambassador bios written in Markdown into safe
// HTML and plain-text summaries. Raw HTML in a bio is never passed through.
package markdown

import (
	"bytes"
	stdhtml "html"
	"html/template"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// bios is shared by all calls; goldmark instances are safe for concurrent
// use. A newline in a bio is a line break.
var bios = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough, extension.Typographer),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// ToHTML converts a bio to HTML, omitting raw HTML and unsafe links.
func ToHTML(source string) (string, error) {
	var out bytes.Buffer
	if err := bios.Convert([]byte(source), &out); err != nil {
		return "", err
	}
	return out.String(), nil
}

// Bio is the template form of ToHTML. A bio that fails to convert is
// shown as escaped text.
func Bio(source string) template.HTML {
	out, err := ToHTML(source)
	if err != nil {
		slog.Warn("bio markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(out)
}

// Summary returns the text of a bio without markup, collapsed to single
// spaces and cut to at most limit runes with a trailing ellipsis.
func Summary(source string, limit int) string {
	src := []byte(source)
	doc := bios.Parser().Parse(text.NewReader(src))

	var words strings.Builder
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				words.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Text:
			words.Write(n.Segment.Value(src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				words.WriteByte(' ')
			}
		case *ast.String:
			// Typographer output is entity-encoded.
			words.WriteString(stdhtml.UnescapeString(string(n.Value)))
		case *ast.AutoLink:
			words.Write(n.Label(src))
		}
		return ast.WalkContinue, nil
	})

	plain := strings.Join(strings.Fields(words.String()), " ")
	if limit <= 0 || utf8.RuneCountInString(plain) <= limit {
		return plain
	}
	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
