// CLAUDE:SUMMARY Pagination and breadcrumb extraction from the unfiltered raw document.
package compress

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hazyhaar/domap/page"
)

// Pagination lives in nav landmarks that the weight filter removes, so it
// is always read from the raw document, never from pruned HTML.

var pageParamCandidates = []string{"page", "p", "pg", "start", "offset"}

var (
	pageOfRe     = regexp.MustCompile(`(?i)page\s+(\d+)\s+(?:of|/)\s+(\d+)`)
	resultsOfRe  = regexp.MustCompile(`(?i)(?:\d[\d,]*\s*[-–]\s*\d[\d,]*|\d[\d,]*)\s+of\s+(\d[\d,]*)\s+(?:results|items|products|entries)`)
	numericRe    = regexp.MustCompile(`^\d{1,6}$`)
	breadcrumbRe = regexp.MustCompile(`(?i)breadcrumb`)
)

// ExtractPagination scans the raw document for pagination signals.
// paramHint, when supplied from a learned template, names the query
// parameter carrying the page number and skips the multi-pattern scan.
// Returns nil when the page shows no pagination at all.
func ExtractPagination(doc *goquery.Document, pageURL, paramHint string) *page.Pagination {
	p := &page.Pagination{CurrentPage: 1}
	found := false

	if param, n, ok := pageFromURL(pageURL, paramHint); ok {
		p.CurrentPage = n
		p.PageParam = param
		found = true
	}

	if doc.Find(`a[rel="next"], link[rel="next"], a[aria-label="Next"], a[aria-label="Next page"]`).Length() > 0 {
		p.HasNext = true
		found = true
	}
	if doc.Find(`a[rel="prev"], link[rel="prev"], a[aria-label="Previous"], a[aria-label="Previous page"]`).Length() > 0 {
		p.HasPrev = true
		found = true
	}

	nav := doc.Find(`nav[aria-label*="agination"], .pagination, .pager, ul.pages`)
	if nav.Length() > 0 {
		found = true
		if max := maxPageLink(nav); max > p.TotalPages {
			p.TotalPages = max
		}
		if cur := currentPageMarker(nav); cur > 0 {
			p.CurrentPage = cur
		}
	}

	body := doc.Find("body").Text()
	if m := pageOfRe.FindStringSubmatch(body); m != nil {
		p.CurrentPage = atoiClean(m[1])
		p.TotalPages = atoiClean(m[2])
		found = true
	}
	if m := resultsOfRe.FindStringSubmatch(body); m != nil {
		p.TotalItems = atoiClean(m[1])
		found = true
	}

	if !found {
		return nil
	}
	if p.TotalPages > 0 {
		p.HasNext = p.HasNext || p.CurrentPage < p.TotalPages
		p.HasPrev = p.HasPrev || p.CurrentPage > 1
	}
	return p
}

// pageFromURL reads the page number from the query string. With a hint
// only that parameter is consulted; otherwise known candidates are tried
// in order.
func pageFromURL(pageURL, paramHint string) (param string, n int, ok bool) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", 0, false
	}
	q := u.Query()
	candidates := pageParamCandidates
	if paramHint != "" {
		candidates = []string{paramHint}
	}
	for _, cand := range candidates {
		v := q.Get(cand)
		if v == "" || !numericRe.MatchString(v) {
			continue
		}
		n := atoiClean(v)
		// offset-style params count items, not pages; only trust small values.
		if (cand == "start" || cand == "offset") && n > 500 {
			continue
		}
		if n >= 1 {
			return cand, n, true
		}
	}
	return "", 0, false
}

// maxPageLink returns the largest page number shown as a link inside the
// pagination landmark.
func maxPageLink(nav *goquery.Selection) int {
	max := 0
	nav.Find("a, button, span").Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if !numericRe.MatchString(t) {
			return
		}
		if n := atoiClean(t); n > max {
			max = n
		}
	})
	return max
}

// currentPageMarker finds the number marked as the current page.
func currentPageMarker(nav *goquery.Selection) int {
	cur := 0
	nav.Find(`[aria-current], .current, .active, .selected`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := strings.TrimSpace(s.Text())
		if numericRe.MatchString(t) {
			cur = atoiClean(t)
			return false
		}
		return true
	})
	return cur
}

// ExtractBreadcrumbs reads the breadcrumb trail from the raw document.
func ExtractBreadcrumbs(doc *goquery.Document) []string {
	var trail []string
	sel := doc.Find(`nav[aria-label*="readcrumb"], ol.breadcrumb, ul.breadcrumb, .breadcrumbs`).First()
	if sel.Length() == 0 {
		sel = doc.Find("nav").FilterFunction(func(_ int, s *goquery.Selection) bool {
			cls, _ := s.Attr("class")
			return breadcrumbRe.MatchString(cls)
		}).First()
	}
	if sel.Length() == 0 {
		return nil
	}
	sel.Find("a, li > span, [itemprop=\"name\"]").Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if t == "" || (len(trail) > 0 && trail[len(trail)-1] == t) {
			return
		}
		trail = append(trail, t)
	})
	if len(trail) < 2 {
		return nil
	}
	return trail
}

func atoiClean(s string) int {
	n, _ := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	return n
}
