// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package meta extracts header metadata from HTML documents and renders the
// canonical YAML front matter block. Implements: prd002-conversion (R2);
//
//	docs/ARCHITECTURE § Metadata.
package meta

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/markdown-engine/pkg/types"
)

// Extract reads the document title and every <meta> annotation carrying both
// a name and a content attribute into an ordered metadata map. Keys and
// values are trimmed; a repeated name keeps its position and takes the later
// value. A document without annotations yields an empty map.
func Extract(htmlContent string) *types.Metadata {
	md := types.NewMetadata()

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return md
	}

	if title := findElement(doc, "title"); title != nil {
		if text := strings.TrimSpace(nodeText(title)); text != "" {
			md.Set("title", text)
		}
	}

	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "meta" {
			return
		}
		name, hasName := attr(n, "name")
		content, hasContent := attr(n, "content")
		if !hasName || !hasContent {
			return
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		md.Set(name, strings.TrimSpace(content))
	})

	return md
}

// RenderHeader serializes md as the canonical front matter block: a ---
// line, one key: "value" line per entry in insertion order, a closing ---
// line, and a trailing blank line. An empty map renders as "".
func RenderHeader(md *types.Metadata) string {
	if md.Len() == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("---\n")
	for _, k := range md.Keys() {
		v, _ := md.Get(k)
		fmt.Fprintf(&b, "%s: %q\n", k, v)
	}
	b.WriteString("---\n\n")
	return b.String()
}

// StripHead returns the serialized <body> subtree so header fields are not
// re-discovered during chunk conversion. When the document has no body
// content to distinguish, the input is returned unchanged.
func StripHead(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}
	body := findElement(doc, "body")
	if body == nil || body.FirstChild == nil {
		return htmlContent
	}
	var b strings.Builder
	if err := html.Render(&b, body); err != nil {
		return htmlContent
	}
	return b.String()
}

// HasContent reports whether the document body contains non-whitespace
// text. Drives the empty-document short circuit.
func HasContent(htmlContent string) bool {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return false
	}
	body := findElement(doc, "body")
	if body == nil {
		return false
	}
	return strings.TrimSpace(nodeText(body)) != ""
}

// IsHTML reports whether the content contains at least one markup element.
func IsHTML(content string) bool {
	tokenizer := html.NewTokenizer(strings.NewReader(content))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			return true
		}
	}
}

// findElement returns the first element named tag in document order.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// walk visits every node in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// nodeText concatenates the text nodes under n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}

// attr returns the value of the named attribute on n.
func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}
