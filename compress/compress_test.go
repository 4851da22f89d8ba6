package compress

import (
	"strings"
	"testing"

	"github.com/hazyhaar/domap/chunker"
	"github.com/hazyhaar/domap/page"
)

func TestBudgetIsEnforcedForEveryPageType(t *testing.T) {
	c := New(nil)
	long := strings.Repeat("<p>Quite a lot of filler prose that keeps going and going. </p>", 400)
	in := Input{
		PrunedHTML: "<div>" + long + "</div>",
		MaxTokens:  120,
		Chunks: []chunker.Chunk{
			{Type: chunker.Heading, Text: "Section one"},
			{Type: chunker.TextBlock, Text: strings.Repeat("chunk text ", 200)},
			{Type: chunker.Form, Text: "Email Password Submit"},
		},
		Meta: page.Metadata{Name: "Thing", Price: "10", Currency: "USD", Description: strings.Repeat("desc ", 300)},
	}

	for _, pt := range page.Types {
		got := c.Compress(pt, in)
		if n := c.Counter().Count(got.Text); n > 120 {
			t.Errorf("%s: output counts %d tokens, budget 120", pt, n)
		}
		if got.Tokens != c.Counter().Count(got.Text) {
			t.Errorf("%s: reported %d tokens, recount %d", pt, got.Tokens, c.Counter().Count(got.Text))
		}
	}
}

func TestProductLeadsWithFacts(t *testing.T) {
	c := New(nil)
	got := c.Compress(page.TypeProductDetail, Input{
		PrunedHTML: "<p>A jacket description paragraph.</p>",
		MaxTokens:  500,
		Meta: page.Metadata{
			Name: "Overfit Leather Jacket", Brand: "Overfit",
			Price: "259000", Currency: "KRW", Rating: 4.7, ReviewCount: 128,
		},
	})
	for _, want := range []string{"# Overfit Leather Jacket", "Price: 259000 KRW", "Brand: Overfit", "4.7", "128 reviews"} {
		if !strings.Contains(got.Text, want) {
			t.Errorf("output missing %q:\n%s", want, got.Text)
		}
	}
	if idx := strings.Index(got.Text, "Price:"); idx > strings.Index(got.Text, "jacket description") {
		t.Error("facts should precede the body so truncation cannot drop them")
	}
}

func TestListingUsesStructuredItemsFirst(t *testing.T) {
	c := New(nil)
	got := c.Compress(page.TypeListing, Input{
		PrunedHTML: "<ul><li>ignored</li></ul>",
		MaxTokens:  500,
		Meta: page.Metadata{Items: []page.MetaItem{
			{Name: "Jacket A", Price: "100"},
			{Name: "Jacket B", Price: "200"},
		}},
	})
	if got.CardStrategy != CardsFromStructuredData {
		t.Errorf("strategy = %q", got.CardStrategy)
	}
	if !strings.Contains(got.Text, "- Jacket A — 100") || !strings.Contains(got.Text, "- Jacket B — 200") {
		t.Errorf("card lines missing:\n%s", got.Text)
	}
}

func TestCardCascadeChunkPairing(t *testing.T) {
	chunks := []chunker.Chunk{
		{Type: chunker.TextBlock, ParentXPath: "/html/body/div/div", Text: "Winter Parka"},
		{Type: chunker.TextBlock, ParentXPath: "/html/body/div/div", Text: "₩189,000"},
		{Type: chunker.TextBlock, ParentXPath: "/html/body/div/div[2]", Text: "Wool Coat"},
		{Type: chunker.TextBlock, ParentXPath: "/html/body/div/div[2]", Text: "₩259,000"},
	}
	cards, strategy := ExtractCards(page.Metadata{}, chunks)
	if strategy != CardsFromChunks {
		t.Fatalf("strategy = %q", strategy)
	}
	if len(cards) != 2 || cards[0].Name != "Winter Parka" || cards[0].Price != "₩189,000" {
		t.Errorf("cards = %+v", cards)
	}
}

func TestCardDedupe(t *testing.T) {
	meta := page.Metadata{Items: []page.MetaItem{
		{Name: "Jacket", Price: "100"},
		{Name: "JACKET", Price: "100"},
		{Name: "Jacket", Price: "200"},
	}}
	cards, _ := ExtractCards(meta, nil)
	if len(cards) != 2 {
		t.Errorf("cards = %d, want 2 (dedupe by lowercased name + price)", len(cards))
	}
}

func TestTruncateNeverOvershoots(t *testing.T) {
	c := NewCounter()
	texts := []string{
		strings.Repeat("word ", 2000),
		strings.Repeat("가나다라 마바사 ", 500),
		strings.Repeat("混合 mixed テキスト text ", 300),
	}
	for _, text := range texts {
		for _, max := range []int{1, 7, 50, 333} {
			out := c.Truncate(text, max)
			if n := c.Count(out); n > max {
				t.Errorf("Truncate(max=%d) produced %d tokens", max, n)
			}
		}
	}
	if got := c.Truncate("short", 1000); got != "short" {
		t.Errorf("under-budget text must pass through, got %q", got)
	}
}

func TestBudgetLocaleAndMeasurement(t *testing.T) {
	latin := strings.Repeat("plain english text here ", 10)
	hangul := strings.Repeat("한국어로 된 본문 텍스트입니다 ", 10)

	if b := ComputeBudget("", latin); b.Multiplier != 1.0 {
		t.Errorf("latin multiplier = %v", b.Multiplier)
	}
	if b := ComputeBudget("ko", hangul); b.Multiplier != 1.8 {
		t.Errorf("ko+hangul multiplier = %v", b.Multiplier)
	}

	// Locale says Latin but the text is dense CJK: ramp up.
	b := ComputeBudget("en", hangul)
	if b.Multiplier <= 1.0 {
		t.Errorf("measured CJK should raise a latin hint, got %v", b.Multiplier)
	}

	// Locale says Korean but the text is Latin: walk back to 1.0.
	b = ComputeBudget("ko", latin)
	if b.Multiplier != 1.0 {
		t.Errorf("latin measurement should cancel a CJK hint, got %v", b.Multiplier)
	}

	// Short samples never override the locale hint.
	b = ComputeBudget("ko", "hi")
	if b.Multiplier != 1.8 {
		t.Errorf("untrusted sample must keep the hint, got %v", b.Multiplier)
	}

	if b := ComputeBudget("ja", hangul); b.PrunedContext != int(1500*b.Multiplier) || b.Total != int(5000*b.Multiplier) {
		t.Errorf("budget fields inconsistent: %+v", b)
	}
}

func TestBudgetClamp(t *testing.T) {
	for _, locale := range []string{"", "en", "ko", "ja", "zh", "ko-KR"} {
		for _, sample := range []string{"", strings.Repeat("한", 100), strings.Repeat("a", 100)} {
			b := ComputeBudget(locale, sample)
			if b.Multiplier < 1.0 || b.Multiplier > 2.5 {
				t.Errorf("multiplier %v out of [1.0, 2.5] for locale=%q", b.Multiplier, locale)
			}
		}
	}
}

func TestErrorPageKeepsEverything(t *testing.T) {
	c := New(nil)
	got := c.Compress(page.TypeError, Input{
		PrunedHTML: `<div class="err"><h1>404</h1><p>The page you requested does not exist.</p></div>`,
		MaxTokens:  200,
	})
	if !strings.Contains(got.Text, "404") || !strings.Contains(got.Text, "does not exist") {
		t.Errorf("error text lost content:\n%s", got.Text)
	}
	if strings.Contains(got.Text, "<") {
		t.Errorf("error text must be markup-free:\n%s", got.Text)
	}
}

func TestSanitizeStripsScripts(t *testing.T) {
	c := New(nil)
	got := c.Sanitize(`<p>visible</p><script>alert("x")</script>`)
	if strings.Contains(got, "alert") || strings.Contains(got, "<") {
		t.Errorf("sanitize leaked markup or script body: %q", got)
	}
	if !strings.Contains(got, "visible") {
		t.Errorf("sanitize dropped text: %q", got)
	}
}
