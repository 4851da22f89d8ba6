package chunker

import "strings"

// Prune decision reason codes.
const (
	KeptMain           = "kept-main"
	KeptSchema         = "kept-schema"
	KeptHeading        = "kept-heading"
	KeptContent        = "kept-content"
	KeptMeta           = "kept-meta"
	RemovedShort       = "removed-short"
	RemovedDuplicate   = "removed-duplicate"
	RemovedBoilerplate = "removed-boilerplate"
	RemovedOffMain     = "removed-off-main"
)

// Decision is the pruner's verdict for one chunk.
type Decision struct {
	Chunk  *Chunk
	Kept   bool
	Reason string
}

// minimum text lengths (in bytes) per context.
const (
	minTextLen     = 40
	minOffMainLen  = 80
	minDataLen     = 20
	minArticleData = 120
)

// Prune makes a deterministic, schema-aware keep/remove decision per
// chunk. Data tables and lists are valuable on product-family schemas and
// noise on article-family ones; short off-main text is chrome. If every
// chunk is removed the caller must fall back to the original HTML rather
// than return an empty artifact.
func Prune(chunks []Chunk, schema string, hasMain bool) []Decision {
	decisions := make([]Decision, 0, len(chunks))
	seen := make(map[string]bool)
	productLike := isProductSchema(schema)
	articleLike := isArticleSchema(schema)

	for i := range chunks {
		c := &chunks[i]
		d := Decision{Chunk: c}

		norm := normalizeForDedup(c.Text)
		switch {
		case c.Type == Meta || c.Type == StreamedData:
			d.Kept, d.Reason = true, KeptMeta

		case norm != "" && seen[norm]:
			d.Kept, d.Reason = false, RemovedDuplicate

		case c.Type == Heading:
			d.Kept, d.Reason = true, KeptHeading

		case c.Type == Table || c.Type == List:
			d.Kept, d.Reason = pruneData(c, productLike, articleLike, hasMain)

		case c.Type == Form:
			if isFormSchema(schema) {
				d.Kept, d.Reason = true, KeptSchema
			} else {
				d.Kept, d.Reason = false, RemovedBoilerplate
			}

		case c.Type == Media:
			d.Kept, d.Reason = true, KeptContent

		default: // TextBlock
			d.Kept, d.Reason = pruneText(c, hasMain)
		}

		if d.Kept && norm != "" {
			seen[norm] = true
		}
		decisions = append(decisions, d)
	}
	return decisions
}

func pruneData(c *Chunk, productLike, articleLike, hasMain bool) (bool, string) {
	n := len(c.Text)
	if productLike {
		if n >= minDataLen {
			return true, KeptSchema
		}
		return false, RemovedShort
	}
	if articleLike {
		// Prose articles rarely need layout tables or nav lists; keep
		// only substantial data inside main.
		if c.InMain && n >= minArticleData {
			return true, KeptContent
		}
		return false, RemovedBoilerplate
	}
	if n >= minTextLen {
		return true, KeptContent
	}
	return false, RemovedShort
}

func pruneText(c *Chunk, hasMain bool) (bool, string) {
	n := len(c.Text)
	if c.InMain {
		if n > 0 {
			return true, KeptMain
		}
		return false, RemovedShort
	}
	if hasMain && n < minOffMainLen {
		return false, RemovedOffMain
	}
	if n >= minTextLen {
		return true, KeptContent
	}
	return false, RemovedShort
}

// Selected returns the kept chunks in order.
func Selected(decisions []Decision) []Chunk {
	var kept []Chunk
	for _, d := range decisions {
		if d.Kept {
			kept = append(kept, *d.Chunk)
		}
	}
	return kept
}

// SelectionRatio is kept/total; 0 for an empty decision list.
func SelectionRatio(decisions []Decision) float64 {
	if len(decisions) == 0 {
		return 0
	}
	kept := 0
	for _, d := range decisions {
		if d.Kept {
			kept++
		}
	}
	return float64(kept) / float64(len(decisions))
}

func normalizeForDedup(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func isProductSchema(schema string) bool {
	s := strings.ToLower(schema)
	for _, kw := range []string{"product", "offer", "listing", "search", "itemlist"} {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func isArticleSchema(schema string) bool {
	s := strings.ToLower(schema)
	for _, kw := range []string{"article", "news", "blog", "post"} {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func isFormSchema(schema string) bool {
	s := strings.ToLower(schema)
	for _, kw := range []string{"login", "checkout", "form", "contact", "register"} {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
