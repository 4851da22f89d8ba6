package chunker

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func findMain(doc *html.Node) *html.Node {
	var m *html.Node
	var f func(*html.Node)
	f = func(n *html.Node) {
		if m != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Main {
			m = n
			return
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			f(ch)
		}
	}
	f(doc)
	return m
}

func byType(chunks []Chunk, typ Type) []Chunk {
	var out []Chunk
	for _, c := range chunks {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

func TestAtomicContainersOneChunk(t *testing.T) {
	src := `<html><body><main>
		<table><tr><td>a</td><td><table><tr><td>nested</td></tr></table></td></tr></table>
		<ul><li>one</li><li><ul><li>sub</li></ul></li></ul>
		<form><fieldset><input name="q"></fieldset><button>Go</button></form>
	</main></body></html>`
	doc := parse(t, src)
	chunks := Decompose(doc, findMain(doc))

	if got := len(byType(chunks, Table)); got != 1 {
		t.Errorf("table chunks = %d, want 1 (nesting must not split)", got)
	}
	if got := len(byType(chunks, List)); got != 1 {
		t.Errorf("list chunks = %d, want 1", got)
	}
	if got := len(byType(chunks, Form)); got != 1 {
		t.Errorf("form chunks = %d, want 1", got)
	}
}

func TestHeadingsKeepTag(t *testing.T) {
	src := `<html><body><main><h1>Title</h1><h3>Sub</h3><p>text</p></main></body></html>`
	doc := parse(t, src)
	chunks := Decompose(doc, findMain(doc))

	headings := byType(chunks, Heading)
	if len(headings) != 2 {
		t.Fatalf("headings = %d, want 2", len(headings))
	}
	if headings[0].Tag != "h1" || headings[1].Tag != "h3" {
		t.Errorf("tags = %s,%s, want h1,h3", headings[0].Tag, headings[1].Tag)
	}
}

func TestBlockRecursionAndTextBlocks(t *testing.T) {
	src := `<html><body><main>
		<div><div><p>leaf paragraph text</p><p>another one</p></div></div>
		<div>bare text block</div>
		<div></div>
	</main></body></html>`
	doc := parse(t, src)
	chunks := Decompose(doc, findMain(doc))

	texts := byType(chunks, TextBlock)
	if len(texts) != 3 {
		t.Fatalf("text blocks = %d, want 3: %+v", len(texts), texts)
	}
	// Container divs with block children must not emit chunks of their own.
	for _, c := range chunks {
		if c.Tag == "div" && c.Text != "bare text block" {
			t.Errorf("container div emitted a chunk: %q", c.Text)
		}
	}
}

func TestInMainFlag(t *testing.T) {
	src := `<html><body>
		<div>outside text that is long enough to matter here</div>
		<main><p>inside main</p></main>
	</body></html>`
	doc := parse(t, src)
	chunks := Decompose(doc, findMain(doc))

	var inside, outside *Chunk
	for i := range chunks {
		switch chunks[i].Text {
		case "inside main":
			inside = &chunks[i]
		case "outside text that is long enough to matter here":
			outside = &chunks[i]
		}
	}
	if inside == nil || !inside.InMain {
		t.Error("chunk under main should have InMain=true")
	}
	if outside == nil || outside.InMain {
		t.Error("chunk outside main should have InMain=false")
	}
}

func TestXPathIndexesSiblings(t *testing.T) {
	src := `<html><body><main><p>first</p><p>second</p></main></body></html>`
	doc := parse(t, src)
	chunks := Decompose(doc, findMain(doc))

	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].XPath, "/p") {
		t.Errorf("first xpath = %q", chunks[0].XPath)
	}
	if !strings.HasSuffix(chunks[1].XPath, "/p[2]") {
		t.Errorf("second xpath = %q", chunks[1].XPath)
	}
}

func TestHarvestHeadStructuredData(t *testing.T) {
	src := `<html><head>
		<script type="application/ld+json">{"@type":"Product","name":"Overfit Leather Jacket"}</script>
		<meta property="og:title" content="Overfit Leather Jacket">
		<meta name="description" content="A jacket.">
		<meta name="description" content="duplicate ignored">
		<meta name="viewport" content="width=device-width">
	</head><body></body></html>`
	doc := parse(t, src)
	chunks := HarvestHead(doc)

	metas := byType(chunks, Meta)
	if len(metas) != 2 {
		t.Fatalf("meta chunks = %d, want 2 (one ld+json, one merged)", len(metas))
	}
	if !strings.Contains(metas[0].Text, "Overfit Leather Jacket") {
		t.Errorf("ld+json chunk text = %q", metas[0].Text)
	}
	merged := metas[1].Text
	if !strings.Contains(merged, "og:title: Overfit Leather Jacket") {
		t.Errorf("merged meta missing og:title: %q", merged)
	}
	if !strings.Contains(merged, "description: A jacket.") {
		t.Errorf("merged meta missing description: %q", merged)
	}
	if strings.Contains(merged, "duplicate ignored") {
		t.Error("duplicate meta key should keep first value")
	}
	if strings.Contains(merged, "viewport") {
		t.Error("non-description meta leaked into merged chunk")
	}
}

func TestHarvestHeadStreamedData(t *testing.T) {
	long := strings.Repeat("x", 600)
	src := `<html><head>
		<script>self.__next_f.push([1,"{\"publishedAt\":\"2026-03-14\",\"body\":\"` + long + `\"}"])</script>
		<script>self.__next_f.push([1,"no date payload here"])</script>
		<script>var analytics = true;</script>
	</head><body></body></html>`
	doc := parse(t, src)
	chunks := HarvestHead(doc)

	streamed := byType(chunks, StreamedData)
	if len(streamed) != 1 {
		t.Fatalf("streamed chunks = %d, want 1", len(streamed))
	}
	if got := len([]rune(streamed[0].Text)); got > 500 {
		t.Errorf("streamed chunk length = %d runes, want <= 500", got)
	}
	if !strings.Contains(streamed[0].Text, "2026-03-14") {
		t.Errorf("streamed chunk lost the date: %q", streamed[0].Text[:80])
	}
}

func TestCollectImages(t *testing.T) {
	src := `<html><body><main>
		<img src="/hero.jpg" alt="Jacket front">
		<img src="data:image/gif;base64,R0lGOD">
		<img src="https://cdn.example.com/pixel.gif">
		<img src="/small.png" width="1" height="1">
	</main></body></html>`
	doc := parse(t, src)
	images := CollectImages(doc, 10)

	if len(images) != 1 {
		t.Fatalf("images = %d, want 1: %+v", len(images), images)
	}
	if images[0].Src != "/hero.jpg" || images[0].Alt != "Jacket front" {
		t.Errorf("image = %+v", images[0])
	}
}
