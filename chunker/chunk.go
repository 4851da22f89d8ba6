// CLAUDE:SUMMARY Chunk decomposer and schema-aware pruner — turns the filtered DOM into typed text-bearing chunks.
// Package chunker converts the filtered DOM tree into a flat list of typed,
// text-bearing chunks, and decides per chunk whether it survives into the
// compressed artifact.
//
// Chunks are created once per decomposition pass and immutable thereafter.
// Atomic containers (tables, lists, figures, forms) become exactly one
// chunk each regardless of internal nesting; block containers with block
// children recurse without emitting a chunk of their own.
package chunker

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Type classifies a chunk.
type Type string

const (
	TextBlock    Type = "text_block"
	Heading      Type = "heading"
	List         Type = "list"
	Table        Type = "table"
	Media        Type = "media"
	Form         Type = "form"
	Meta         Type = "meta"
	StreamedData Type = "streamed_data"
)

// Chunk is one classified, text-bearing unit extracted from the DOM.
type Chunk struct {
	XPath       string
	ParentXPath string
	HTML        string
	Text        string
	Tag         string
	Type        Type
	Attrs       map[string]string
	Depth       int
	// InMain is true iff the chunk descends from the page's
	// primary-content landmark.
	InMain bool
}

// xpathFor appends one position-indexed step to a parent path, counting
// same-tag preceding siblings the way the browser-side profiler does.
func xpathFor(parent string, n *html.Node) string {
	idx := 0
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.ElementNode && sib.Data == n.Data {
			idx++
		}
	}
	if idx > 0 {
		return fmt.Sprintf("%s/%s[%d]", parent, n.Data, idx+1)
	}
	return parent + "/" + n.Data
}

func attrMap(n *html.Node) map[string]string {
	if len(n.Attr) == 0 {
		return nil
	}
	m := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		m[a.Key] = a.Val
	}
	return m
}

func renderNode(n *html.Node) string {
	var buf bytes.Buffer
	html.Render(&buf, n)
	return buf.String()
}

// nodeText extracts all visible text from a subtree, skipping script,
// style, and noscript.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			f(ch)
		}
	}
	f(n)
	return sb.String()
}

func isHeading(a atom.Atom) bool {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

// atomicType returns the chunk type for atomic containers, which swallow
// their whole subtree into one chunk.
func atomicType(a atom.Atom) (Type, bool) {
	switch a {
	case atom.Table:
		return Table, true
	case atom.Ul, atom.Ol, atom.Dl:
		return List, true
	case atom.Figure:
		return Media, true
	case atom.Form:
		return Form, true
	}
	return "", false
}

// isBlock reports whether the element establishes a block context.
func isBlock(a atom.Atom) bool {
	switch a {
	case atom.Div, atom.Section, atom.Article, atom.Main, atom.Aside,
		atom.Header, atom.Footer, atom.Nav, atom.P, atom.Blockquote,
		atom.Pre, atom.Ul, atom.Ol, atom.Dl, atom.Table, atom.Form,
		atom.Figure, atom.Fieldset, atom.Details,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func hasBlockChildren(n *html.Node) bool {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode && isBlock(ch.DataAtom) {
			return true
		}
	}
	return false
}
