// CLAUDE:SUMMARY Semantic weight filter — scores DOM nodes 0.0-1.0 and detaches low-weight subtrees.
// Package aom implements the semantic weight filter, the first stage of the
// domap pipeline. It assigns every element a keep-weight between 0.0 and
// 1.0 through an ordered rule cascade (ARIA roles, tag defaults, hidden
// content, noise patterns, grid whitelist, link density) and detaches
// subtrees that score below the removal threshold.
//
// The filter mutates the tree it is given. Three nodes are never removed
// regardless of their attributes: the document root, <body>, and the
// primary-content landmark. Direct children of the landmark are likewise
// protected, though their descendants remain subject to normal scoring.
package aom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Options controls one filter pass.
type Options struct {
	// Schema is the page schema hint (Product, NewsArticle, GovernmentPage...).
	Schema string
	// GridTokens identifies repeating-grid containers by class/id token.
	// Ancestors of a matching container inherit weight 0.8 so listing
	// grids survive their own link density.
	GridTokens []string
	// Threshold is the removal cutoff. Default: 0.5.
	Threshold float64
}

func (o *Options) defaults() {
	if o.Threshold <= 0 {
		o.Threshold = 0.5
	}
}

// Weight is the transient score attached to an element during filtering.
type Weight struct {
	Value  float64
	Reason string
}

// Stats reports what one filter pass did. The invariant
// sum(Reasons) == RemovedNodes holds at all times, including after
// post-hoc rescue corrections.
type Stats struct {
	TotalNodes        int
	RemovedNodes      int
	Reasons           map[string]int
	GridWhitelistHits int
	ContentRescues    int
	PrunedRegions     []string
}

func (s *Stats) recordRemoval(reason, region string) {
	s.RemovedNodes++
	s.Reasons[reason]++
	if region != "" {
		for _, r := range s.PrunedRegions {
			if r == region {
				return
			}
		}
		s.PrunedRegions = append(s.PrunedRegions, region)
	}
}

// rescueCandidate remembers a subtree removed for link density, so the
// post-hoc rescue pass can restore it if it carries price-like content.
type rescueCandidate struct {
	node   *html.Node
	parent *html.Node
}

type filterCtx struct {
	opts      Options
	body      *html.Node
	main      *html.Node
	gridAnc   map[*html.Node]bool
	stats     *Stats
	rescues   []rescueCandidate
	isGovPage bool
}

// Filter runs the weight cascade over the document and detaches every
// element scoring below the threshold. It returns the pass statistics.
func Filter(doc *html.Node, opts Options) *Stats {
	opts.defaults()

	ctx := &filterCtx{
		opts:      opts,
		body:      findElement(doc, atom.Body),
		stats:     &Stats{Reasons: make(map[string]int)},
		isGovPage: strings.Contains(strings.ToLower(opts.Schema), "gov"),
	}
	ctx.main = FindMain(doc)
	ctx.gridAnc = markGridAncestors(doc, opts.GridTokens)
	ctx.stats.TotalNodes = countElements(doc)

	root := ctx.body
	if root == nil {
		root = doc
	}
	ctx.walk(root)
	ctx.rescue(doc)

	return ctx.stats
}

// walk filters the children of n. Children are snapshotted first because
// detaching mutates the sibling links.
func (c *filterCtx) walk(n *html.Node) {
	var children []*html.Node
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode {
			children = append(children, ch)
		}
	}

	for _, ch := range children {
		if c.protected(ch) || n == c.main {
			c.walk(ch)
			continue
		}

		w := c.weigh(ch)
		if w.Value >= c.opts.Threshold {
			c.walk(ch)
			continue
		}

		n.RemoveChild(ch)
		c.stats.recordRemoval(w.Reason, regionName(ch))
		if w.Reason == reasonLinkDensity {
			c.rescues = append(c.rescues, rescueCandidate{node: ch, parent: n})
		}
	}
}

// rescue restores link-dense subtrees that carry price-like text, but only
// while their recorded parent is still attached to the document. It never
// resurrects a subtree whose ancestor chain was already detached.
func (c *filterCtx) rescue(doc *html.Node) {
	for _, cand := range c.rescues {
		if !priceRe.MatchString(collectText(cand.node)) {
			continue
		}
		if !attached(cand.parent, doc) {
			continue
		}
		cand.parent.AppendChild(cand.node)
		c.stats.RemovedNodes--
		c.stats.Reasons[reasonLinkDensity]--
		if c.stats.Reasons[reasonLinkDensity] == 0 {
			delete(c.stats.Reasons, reasonLinkDensity)
		}
		c.stats.ContentRescues++
	}
	c.rescues = nil
}

// protected reports whether n may never be removed: document root, body,
// or the primary-content landmark.
func (c *filterCtx) protected(n *html.Node) bool {
	if n.Type == html.DocumentNode {
		return true
	}
	if n.DataAtom == atom.Html || n.DataAtom == atom.Body || n.DataAtom == atom.Head {
		return true
	}
	return n == c.main
}

// FindMain locates the primary-content landmark: <main>, role="main", or
// the first <article> as fallback. Returns nil when the page has none.
func FindMain(doc *html.Node) *html.Node {
	var mainEl, article *html.Node
	var f func(*html.Node)
	f = func(n *html.Node) {
		if mainEl != nil {
			return
		}
		if n.Type == html.ElementNode {
			if n.DataAtom == atom.Main || attrVal(n, "role") == "main" {
				mainEl = n
				return
			}
			if n.DataAtom == atom.Article && article == nil {
				article = n
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			f(ch)
		}
	}
	f(doc)
	if mainEl != nil {
		return mainEl
	}
	return article
}

// markGridAncestors finds containers whose class/id carries one of the
// grid tokens and marks them plus every ancestor up to body.
func markGridAncestors(doc *html.Node, tokens []string) map[*html.Node]bool {
	if len(tokens) == 0 {
		return nil
	}
	marked := make(map[*html.Node]bool)
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode {
			ident := strings.ToLower(attrVal(n, "class") + " " + attrVal(n, "id"))
			for _, tok := range tokens {
				if tok != "" && strings.Contains(ident, strings.ToLower(tok)) {
					for p := n; p != nil && p.DataAtom != atom.Body; p = p.Parent {
						marked[p] = true
					}
					break
				}
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			f(ch)
		}
	}
	f(doc)
	return marked
}

// attached reports whether n still hangs off the document root.
func attached(n, doc *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == doc {
			return true
		}
	}
	return false
}

func countElements(doc *html.Node) int {
	count := 0
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode {
			count++
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			f(ch)
		}
	}
	f(doc)
	return count
}

func findElement(doc *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	var f func(*html.Node)
	f = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			f(ch)
		}
	}
	f(doc)
	return found
}

// regionName maps a removed element to the semantic region it represents,
// or "" when it is not a landmark-like region.
func regionName(n *html.Node) string {
	switch attrVal(n, "role") {
	case "navigation":
		return "navigation"
	case "banner":
		return "header"
	case "contentinfo":
		return "footer"
	case "complementary":
		return "aside"
	}
	switch n.DataAtom {
	case atom.Nav:
		return "navigation"
	case atom.Header:
		return "header"
	case atom.Footer:
		return "footer"
	case atom.Aside:
		return "aside"
	}
	return ""
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// collectText extracts all text from a node subtree, skipping script,
// style, and noscript.
func collectText(n *html.Node) string {
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

// collectLinkText extracts text found inside <a> elements only.
func collectLinkText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node, bool)
	f = func(n *html.Node, inLink bool) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			inLink = true
		}
		if n.Type == html.TextNode && inLink {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				sb.WriteString(text)
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			f(ch, inLink)
		}
	}
	f(n, false)
	return sb.String()
}
