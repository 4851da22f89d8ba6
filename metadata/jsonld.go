package metadata

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hazyhaar/domap/page"
)

// fromStructuredData parses application/ld+json blocks. Malformed JSON is
// skipped silently: a broken script block must not abort the cascade.
func fromStructuredData(doc *goquery.Document, pt page.PageType) page.Metadata {
	var m page.Metadata

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return true
		}
		for _, obj := range flattenLD(raw) {
			applyLDObject(&m, obj)
		}
		// Keep scanning until the primary fields are filled.
		return m.Name == "" || (pt.IsListingLike() && len(m.Items) == 0)
	})
	return m
}

// flattenLD normalises a ld+json payload into a list of objects: top-level
// arrays and @graph containers are expanded one level.
func flattenLD(raw any) []map[string]any {
	var objs []map[string]any
	switch v := raw.(type) {
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			for _, g := range graph {
				if obj, ok := g.(map[string]any); ok {
					objs = append(objs, obj)
				}
			}
			return objs
		}
		objs = append(objs, v)
	case []any:
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				objs = append(objs, obj)
			}
		}
	}
	return objs
}

func applyLDObject(m *page.Metadata, obj map[string]any) {
	switch ldType(obj) {
	case "Product":
		if m.Name == "" {
			m.Name = ldString(obj, "name")
		}
		if m.Brand == "" {
			m.Brand = ldName(obj["brand"])
		}
		applyOffers(m, obj["offers"])
		applyRating(m, obj["aggregateRating"])

	case "Article", "NewsArticle", "BlogPosting":
		if m.Name == "" {
			m.Name = ldString(obj, "headline")
		}
		if m.Description == "" {
			m.Description = ldString(obj, "description")
		}

	case "ItemList":
		if len(m.Items) > 0 {
			return
		}
		elements, _ := obj["itemListElement"].([]any)
		for _, el := range elements {
			entry, ok := el.(map[string]any)
			if !ok {
				continue
			}
			item := entry
			if nested, ok := entry["item"].(map[string]any); ok {
				item = nested
			}
			mi := page.MetaItem{
				Name: ldString(item, "name"),
				URL:  ldString(item, "url"),
			}
			if offers, ok := item["offers"].(map[string]any); ok {
				mi.Price = ldNumber(offers, "price")
			}
			if mi.Name != "" {
				m.Items = append(m.Items, mi)
			}
		}

	case "Offer", "AggregateOffer":
		applyOffers(m, obj)
	}
}

func applyOffers(m *page.Metadata, offers any) {
	var offer map[string]any
	switch v := offers.(type) {
	case map[string]any:
		offer = v
	case []any:
		if len(v) > 0 {
			offer, _ = v[0].(map[string]any)
		}
	}
	if offer == nil {
		return
	}
	if m.Price == "" {
		m.Price = ldNumber(offer, "price")
		if m.Price == "" {
			m.Price = ldNumber(offer, "lowPrice")
		}
	}
	if m.Currency == "" {
		m.Currency = ldString(offer, "priceCurrency")
	}
}

func applyRating(m *page.Metadata, rating any) {
	obj, ok := rating.(map[string]any)
	if !ok {
		return
	}
	if m.Rating == 0 {
		m.Rating = parseFloat(ldNumber(obj, "ratingValue"))
	}
	if m.ReviewCount == 0 {
		m.ReviewCount = parseInt(ldNumber(obj, "reviewCount"))
		if m.ReviewCount == 0 {
			m.ReviewCount = parseInt(ldNumber(obj, "ratingCount"))
		}
	}
}

// ldType reads @type, which may be a string or an array of strings.
func ldType(obj map[string]any) string {
	switch v := obj["@type"].(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

func ldString(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// ldNumber reads a value that sites serialise as either string or number.
// Numbers are formatted without exponent so "259000" stays "259000".
func ldNumber(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// ldName reads a field that may be a plain string or an object with name.
func ldName(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		return ldString(t, "name")
	}
	return ""
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		if f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64); ferr == nil {
			return int(f)
		}
		return 0
	}
	return n
}
