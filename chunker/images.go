package chunker

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ImageRef is one content image found during decomposition.
type ImageRef struct {
	Src string
	Alt string
}

// trackingSrcHints mark pixel/beacon images that carry no content.
var trackingSrcHints = []string{"pixel", "beacon", "track", "analytics", "1x1"}

// CollectImages gathers up to limit content images from the tree, skipping
// data URIs, tracking pixels, and 1x1 placeholders.
func CollectImages(doc *html.Node, limit int) []ImageRef {
	if limit <= 0 {
		limit = 10
	}
	var images []ImageRef
	var f func(*html.Node)
	f = func(n *html.Node) {
		if len(images) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			src := strings.TrimSpace(attr(n, "src"))
			if contentImage(src, n) {
				images = append(images, ImageRef{Src: src, Alt: strings.TrimSpace(attr(n, "alt"))})
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			f(ch)
		}
	}
	f(doc)
	return images
}

func contentImage(src string, n *html.Node) bool {
	if src == "" || strings.HasPrefix(src, "data:") {
		return false
	}
	lower := strings.ToLower(src)
	for _, hint := range trackingSrcHints {
		if strings.Contains(lower, hint) {
			return false
		}
	}
	if attr(n, "width") == "1" || attr(n, "height") == "1" {
		return false
	}
	return true
}
