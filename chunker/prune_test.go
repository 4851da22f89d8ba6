package chunker

import (
	"strings"
	"testing"
)

func TestPruneSchemaSensitivity(t *testing.T) {
	table := Chunk{Type: Table, Text: "Size S M L XL · Chest 90 95 100 105", InMain: false}

	product := Prune([]Chunk{table}, "Product", true)
	if !product[0].Kept {
		t.Errorf("product schema should keep a data table (reason %s)", product[0].Reason)
	}

	article := Prune([]Chunk{table}, "NewsArticle", true)
	if article[0].Kept {
		t.Errorf("article schema should drop an off-main table (reason %s)", article[0].Reason)
	}
}

func TestPruneOneDecisionPerChunk(t *testing.T) {
	chunks := []Chunk{
		{Type: Heading, Text: "Title"},
		{Type: TextBlock, Text: strings.Repeat("body ", 20), InMain: true},
		{Type: TextBlock, Text: "hi"},
		{Type: Meta, Text: `{"@type":"Product"}`},
	}
	decisions := Prune(chunks, "Product", true)
	if len(decisions) != len(chunks) {
		t.Fatalf("decisions = %d, want %d", len(decisions), len(chunks))
	}
	for i, d := range decisions {
		if d.Chunk != &chunks[i] {
			t.Errorf("decision %d does not reference its chunk", i)
		}
		if d.Reason == "" {
			t.Errorf("decision %d has no reason", i)
		}
	}
}

func TestPruneDeduplicates(t *testing.T) {
	text := "Free shipping on orders over fifty dollars, always and everywhere"
	chunks := []Chunk{
		{Type: TextBlock, Text: text, InMain: true},
		{Type: TextBlock, Text: "  " + strings.ToUpper(text[:1]) + text[1:] + " ", InMain: true},
	}
	decisions := Prune(chunks, "", true)
	if !decisions[0].Kept {
		t.Error("first occurrence should be kept")
	}
	if decisions[1].Kept || decisions[1].Reason != RemovedDuplicate {
		t.Errorf("second occurrence: kept=%v reason=%s, want removed-duplicate", decisions[1].Kept, decisions[1].Reason)
	}
}

func TestPruneOffMainShortText(t *testing.T) {
	chunks := []Chunk{
		{Type: TextBlock, Text: "© 2026 Example Corp", InMain: false},
		{Type: TextBlock, Text: strings.Repeat("real sidebar content with substance ", 4), InMain: false},
	}
	decisions := Prune(chunks, "", true)
	if decisions[0].Kept || decisions[0].Reason != RemovedOffMain {
		t.Errorf("short off-main chunk: kept=%v reason=%s", decisions[0].Kept, decisions[0].Reason)
	}
	if !decisions[1].Kept {
		t.Errorf("long off-main chunk should be kept, reason=%s", decisions[1].Reason)
	}
}

func TestPruneForms(t *testing.T) {
	form := Chunk{Type: Form, Text: "Email Password Sign in"}
	if d := Prune([]Chunk{form}, "LoginPage", false); !d[0].Kept {
		t.Error("login schema should keep forms")
	}
	if d := Prune([]Chunk{form}, "NewsArticle", false); d[0].Kept {
		t.Error("article schema should drop forms")
	}
}

func TestPruneZeroSelection(t *testing.T) {
	chunks := []Chunk{
		{Type: TextBlock, Text: "nav", InMain: false},
		{Type: TextBlock, Text: "©", InMain: false},
	}
	decisions := Prune(chunks, "", true)
	if kept := Selected(decisions); len(kept) != 0 {
		t.Fatalf("kept = %d, want 0", len(kept))
	}
	if ratio := SelectionRatio(decisions); ratio != 0 {
		t.Errorf("selection ratio = %v, want 0", ratio)
	}
}

func TestMetaAlwaysKept(t *testing.T) {
	chunks := []Chunk{
		{Type: Meta, Text: "og:title: X"},
		{Type: StreamedData, Text: `{"publishedAt":"2026-01-01"}`},
	}
	for _, d := range Prune(chunks, "NewsArticle", false) {
		if !d.Kept || d.Reason != KeptMeta {
			t.Errorf("%s chunk: kept=%v reason=%s", d.Chunk.Type, d.Kept, d.Reason)
		}
	}
}
