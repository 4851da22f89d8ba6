package compress

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func pdoc(t *testing.T, src string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestPaginationFromURLAndNav(t *testing.T) {
	src := `<html><body>
		<nav aria-label="Pagination">
			<a href="?page=2">2</a> <a href="?page=3">3</a>
			<span class="current">3</span>
			<a href="?page=16">16</a>
			<a rel="next" href="?page=4">Next</a>
		</nav>
		<p>49-72 of 384 results</p>
	</body></html>`

	p := ExtractPagination(pdoc(t, src), "https://shop.example/search?q=jacket&page=3", "")
	if p == nil {
		t.Fatal("pagination not detected")
	}
	if p.CurrentPage != 3 {
		t.Errorf("current = %d", p.CurrentPage)
	}
	if p.TotalPages != 16 {
		t.Errorf("total pages = %d", p.TotalPages)
	}
	if p.TotalItems != 384 {
		t.Errorf("total items = %d", p.TotalItems)
	}
	if !p.HasNext || !p.HasPrev {
		t.Errorf("has_next=%v has_prev=%v", p.HasNext, p.HasPrev)
	}
	if p.PageParam != "page" {
		t.Errorf("page param = %q", p.PageParam)
	}
}

func TestPaginationParamHintSkipsScan(t *testing.T) {
	doc := pdoc(t, `<html><body><nav class="pagination"><a>1</a></nav></body></html>`)
	p := ExtractPagination(doc, "https://example.com/list?p=7&page=99", "p")
	if p == nil || p.CurrentPage != 7 || p.PageParam != "p" {
		t.Fatalf("hinted param not honoured: %+v", p)
	}
}

func TestPaginationAbsent(t *testing.T) {
	doc := pdoc(t, `<html><body><p>just an article body</p></body></html>`)
	if p := ExtractPagination(doc, "https://example.com/about", ""); p != nil {
		t.Errorf("expected nil, got %+v", p)
	}
}

func TestBreadcrumbs(t *testing.T) {
	src := `<html><body>
		<nav aria-label="Breadcrumb"><ol>
			<li><a href="/">Home</a></li>
			<li><a href="/men">Men</a></li>
			<li><span>Jackets</span></li>
		</ol></nav>
	</body></html>`
	got := ExtractBreadcrumbs(pdoc(t, src))
	want := []string{"Home", "Men", "Jackets"}
	if len(got) != len(want) {
		t.Fatalf("trail = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("trail[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBreadcrumbsRequireTwoSegments(t *testing.T) {
	doc := pdoc(t, `<html><body><ol class="breadcrumb"><li><a>Home</a></li></ol></body></html>`)
	if got := ExtractBreadcrumbs(doc); got != nil {
		t.Errorf("single-segment trail should be nil, got %v", got)
	}
}
