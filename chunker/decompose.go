package chunker

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Decompose walks the post-filter tree and emits the flat chunk list.
// The main argument is the primary-content landmark (may be nil); chunks
// descending from it get InMain set.
func Decompose(doc *html.Node, main *html.Node) []Chunk {
	body := findBody(doc)
	if body == nil {
		body = doc
	}

	d := &decomposer{main: main}
	d.walk(body, "/html/body", 0, false)
	return d.chunks
}

type decomposer struct {
	main   *html.Node
	chunks []Chunk
}

func (d *decomposer) emit(n *html.Node, xpath, parentXPath string, typ Type, depth int, inMain bool) {
	text := nodeText(n)
	if text == "" && typ != Media {
		return
	}
	d.chunks = append(d.chunks, Chunk{
		XPath:       xpath,
		ParentXPath: parentXPath,
		HTML:        renderNode(n),
		Text:        text,
		Tag:         n.Data,
		Type:        typ,
		Attrs:       attrMap(n),
		Depth:       depth,
		InMain:      inMain,
	})
}

func (d *decomposer) walk(n *html.Node, xpath string, depth int, inMain bool) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type != html.ElementNode {
			continue
		}
		switch ch.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			continue
		}

		childPath := xpathFor(xpath, ch)
		childInMain := inMain || ch == d.main

		if typ, ok := atomicType(ch.DataAtom); ok {
			d.emit(ch, childPath, xpath, typ, depth+1, childInMain)
			continue
		}
		if isHeading(ch.DataAtom) {
			d.emit(ch, childPath, xpath, Heading, depth+1, childInMain)
			continue
		}
		if ch.DataAtom == atom.Img {
			if alt := attr(ch, "alt"); strings.TrimSpace(alt) != "" {
				c := Chunk{
					XPath:       childPath,
					ParentXPath: xpath,
					HTML:        renderNode(ch),
					Text:        strings.TrimSpace(alt),
					Tag:         "img",
					Type:        Media,
					Attrs:       attrMap(ch),
					Depth:       depth + 1,
					InMain:      childInMain,
				}
				d.chunks = append(d.chunks, c)
			}
			continue
		}

		if isBlock(ch.DataAtom) {
			if hasBlockChildren(ch) {
				d.walk(ch, childPath, depth+1, childInMain)
				continue
			}
			d.emit(ch, childPath, xpath, TextBlock, depth+1, childInMain)
			continue
		}

		// Inline wrapper: recurse looking for block content further down.
		d.walk(ch, childPath, depth+1, childInMain)
	}
}

func findBody(doc *html.Node) *html.Node {
	var body *html.Node
	var f func(*html.Node)
	f = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			body = n
			return
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			f(ch)
		}
	}
	f(doc)
	return body
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
