// CLAUDE:SUMMARY Metadata cascade — structured data > meta tags > microdata > heading heuristic.
// Package metadata extracts structured facts (name, price, rating, brand,
// listing items) from a page through a priority-ordered cascade of
// sources. Higher-priority stages fill fields first; lower stages only
// fill what is still empty. Extraction failures are non-fatal: the
// cascade always returns a Metadata value, possibly empty.
package metadata

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hazyhaar/domap/page"
)

// Source labels, in cascade priority order.
const (
	SourceStructuredData = "structured_data"
	SourceMetaTags       = "meta_tags"
	SourceMicrodata      = "microdata"
	SourceHeading        = "heading"
	SourceNone           = "none"
)

// Extract runs the full cascade over the unfiltered document.
func Extract(doc *goquery.Document, pt page.PageType) page.Metadata {
	return ExtractWithHint(doc, pt, "")
}

// ExtractWithHint runs the cascade, optionally short-circuiting at the
// stage a learned template says supplied this (domain, page type) pair
// last time. An empty result at the hinted stage falls through to the
// full cascade, so a stale hint degrades to a slower pass, never to lost
// metadata.
func ExtractWithHint(doc *goquery.Document, pt page.PageType, sourceHint string) page.Metadata {
	structured := fromStructuredData(doc, pt)

	if sourceHint == SourceStructuredData && !structured.IsEmpty() {
		structured.Source = SourceStructuredData
		return structured
	}

	m := structured
	metaStage := fromMetaTags(doc)
	fill(&m, metaStage)
	microStage := fromMicrodata(doc)
	fill(&m, microStage)
	fill(&m, fromHeading(doc))

	m.Source = InferSource(m, structured, metaStage, microStage)
	return m
}

// InferSource labels which cascade stage actually supplied the build's
// metadata, by comparing the extracted keys against what each stage prefix
// of the cascade would have produced on its own. The label feeds the
// template learning cache.
func InferSource(final, structured, metaStage, microStage page.Metadata) string {
	finalFields := final.FieldsFound()
	if len(finalFields) == 0 {
		return SourceNone
	}

	have := fieldSet(structured)
	if covers(have, finalFields) {
		return SourceStructuredData
	}
	addFields(have, metaStage)
	if covers(have, finalFields) {
		return SourceMetaTags
	}
	addFields(have, microStage)
	if covers(have, finalFields) {
		return SourceMicrodata
	}
	return SourceHeading
}

func fieldSet(m page.Metadata) map[string]bool {
	set := make(map[string]bool)
	addFields(set, m)
	return set
}

func addFields(set map[string]bool, m page.Metadata) {
	for _, f := range m.FieldsFound() {
		set[f] = true
	}
}

func covers(have map[string]bool, want []string) bool {
	for _, f := range want {
		if !have[f] {
			return false
		}
	}
	return true
}

func fill(dst *page.Metadata, src page.Metadata) {
	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.Price == "" {
		dst.Price = src.Price
	}
	if dst.Currency == "" {
		dst.Currency = src.Currency
	}
	if dst.Rating == 0 {
		dst.Rating = src.Rating
	}
	if dst.ReviewCount == 0 {
		dst.ReviewCount = src.ReviewCount
	}
	if dst.Brand == "" {
		dst.Brand = src.Brand
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if len(dst.Items) == 0 {
		dst.Items = src.Items
	}
}

// fromMetaTags reads OpenGraph/product meta tags.
func fromMetaTags(doc *goquery.Document) page.Metadata {
	var m page.Metadata
	get := func(keys ...string) string {
		for _, key := range keys {
			sel := `meta[property="` + key + `"], meta[name="` + key + `"]`
			if v, ok := doc.Find(sel).First().Attr("content"); ok {
				if v = strings.TrimSpace(v); v != "" {
					return v
				}
			}
		}
		return ""
	}
	m.Name = get("og:title", "twitter:title")
	m.Price = get("product:price:amount", "og:price:amount")
	m.Currency = get("product:price:currency", "og:price:currency")
	m.Brand = get("product:brand", "og:site_name")
	m.Description = get("og:description", "description", "twitter:description")
	return m
}

// fromMicrodata reads inline itemprop attributes.
func fromMicrodata(doc *goquery.Document) page.Metadata {
	var m page.Metadata
	prop := func(name string) string {
		sel := doc.Find(`[itemprop="` + name + `"]`).First()
		if sel.Length() == 0 {
			return ""
		}
		if v, ok := sel.Attr("content"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(sel.Text())
	}
	m.Name = prop("name")
	m.Price = prop("price")
	m.Currency = prop("priceCurrency")
	m.Brand = prop("brand")
	m.Rating = parseFloat(prop("ratingValue"))
	m.ReviewCount = parseInt(prop("reviewCount"))
	return m
}

// fromHeading is the last-resort heuristic: the first h1 is the name.
func fromHeading(doc *goquery.Document) page.Metadata {
	var m page.Metadata
	m.Name = strings.TrimSpace(doc.Find("h1").First().Text())
	return m
}
