package chunker

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Head harvesting runs before the filter, on the unfiltered document:
// structured-data scripts, description meta tags, and streaming-framework
// payloads live in regions the filter would otherwise discard.

const streamedDataLimit = 500

// descriptionMetaKeys are the meta tag names/properties merged into the
// single page-description Meta chunk.
var descriptionMetaKeys = map[string]bool{
	"description":            true,
	"og:title":               true,
	"og:description":         true,
	"og:type":                true,
	"og:site_name":           true,
	"og:url":                 true,
	"og:image":               true,
	"og:price:amount":        true,
	"og:price:currency":      true,
	"product:price:amount":   true,
	"product:price:currency": true,
	"twitter:title":          true,
	"twitter:description":    true,
}

// streamedMarkers identify inline streaming-framework payloads.
var streamedMarkers = []string{
	"self.__next_f.push",
	"__NUXT__",
	"__remixContext",
	"__INITIAL_STATE__",
	"__APOLLO_STATE__",
}

var dateLikeRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4}`)

// HarvestHead extracts Meta and StreamedData chunks from the unfiltered
// document: one Meta chunk per structured-data script, one merged Meta
// chunk for description meta tags, and StreamedData chunks for framework
// payloads carrying a date-like substring (truncated to 500 characters).
func HarvestHead(doc *html.Node) []Chunk {
	var chunks []Chunk
	metaProps := map[string]string{}

	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script:
				if c := harvestScript(n); c != nil {
					chunks = append(chunks, *c)
				}
			case atom.Meta:
				key := attr(n, "property")
				if key == "" {
					key = attr(n, "name")
				}
				content := strings.TrimSpace(attr(n, "content"))
				if descriptionMetaKeys[key] && content != "" {
					if _, dup := metaProps[key]; !dup {
						metaProps[key] = content
					}
				}
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			f(ch)
		}
	}
	f(doc)

	if len(metaProps) > 0 {
		keys := make([]string, 0, len(metaProps))
		for k := range metaProps {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var sb strings.Builder
		for _, k := range keys {
			sb.WriteString(k)
			sb.WriteString(": ")
			sb.WriteString(metaProps[k])
			sb.WriteByte('\n')
		}
		chunks = append(chunks, Chunk{
			XPath: "/html/head/meta",
			Text:  strings.TrimSpace(sb.String()),
			Tag:   "meta",
			Type:  Meta,
		})
	}
	return chunks
}

func harvestScript(n *html.Node) *Chunk {
	var payload strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.TextNode {
			payload.WriteString(ch.Data)
		}
	}
	text := strings.TrimSpace(payload.String())
	if text == "" {
		return nil
	}

	if strings.EqualFold(attr(n, "type"), "application/ld+json") {
		return &Chunk{
			XPath: "/html/head/script",
			Text:  text,
			Tag:   "script",
			Type:  Meta,
			Attrs: attrMap(n),
		}
	}

	for _, marker := range streamedMarkers {
		if strings.Contains(text, marker) && dateLikeRe.MatchString(text) {
			if r := []rune(text); len(r) > streamedDataLimit {
				text = string(r[:streamedDataLimit])
			}
			return &Chunk{
				XPath: "/html/head/script",
				Text:  text,
				Tag:   "script",
				Type:  StreamedData,
			}
		}
	}
	return nil
}
