// CLAUDE:SUMMARY Token-budget compressor: per-PageType text construction under a hard token ceiling.
// Package compress turns pruned HTML and selected chunks into the compact
// text an agent reads. Each page type gets its own construction strategy;
// every strategy ends with the same guarantee, the output token count
// never exceeds the budget.
package compress

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/microcosm-cc/bluemonday"

	"github.com/hazyhaar/domap/chunker"
	"github.com/hazyhaar/domap/page"
)

// Input carries everything one compression call may consult. Chunks and
// Meta are optional; strategies degrade to pruned-HTML markdown when they
// are absent.
type Input struct {
	PrunedHTML   string
	URL          string
	MaxTokens    int
	Chunks       []chunker.Chunk
	Meta         page.Metadata
	Locale       string
	StrategyHint string
}

// Result is the compressed text plus what the strategy observed, which
// feeds the template learner.
type Result struct {
	Text         string
	Tokens       int
	CardStrategy string
}

// Compressor holds the shared, reusable machinery: token counter,
// markdown converter, tag-stripping policy. Safe to reuse across builds
// within one session.
type Compressor struct {
	counter *Counter
	conv    *converter.Converter
	strip   *bluemonday.Policy
}

func New(counter *Counter) *Compressor {
	if counter == nil {
		counter = NewCounter()
	}
	return &Compressor{
		counter: counter,
		conv:    newMarkdownConverter(),
		strip:   newStripPolicy(),
	}
}

func (c *Compressor) Counter() *Counter { return c.counter }

// Compress builds the page-type specific text. The switch covers the full
// PageType set; ParsePageType folds unknown labels into TypeDefault before
// dispatch. Post-condition, enforced unconditionally: the returned text
// counts at most in.MaxTokens tokens.
func (c *Compressor) Compress(pt page.PageType, in Input) Result {
	if in.MaxTokens <= 0 {
		in.MaxTokens = defaultPrunedBudget
	}

	var text, cardStrategy string
	switch pt {
	case page.TypeProductDetail:
		text = c.productText(in)
	case page.TypeSearchResults, page.TypeListing:
		text, cardStrategy = c.listingText(in)
	case page.TypeArticle:
		text = c.articleText(in)
	case page.TypeLogin, page.TypeCheckout, page.TypeForm:
		text = c.formText(in)
	case page.TypeDashboard, page.TypeSettings:
		text = c.outlineText(in)
	case page.TypeHelpFAQ, page.TypeDocumentation:
		text = c.docText(in)
	case page.TypeError:
		text = c.errorText(in)
	case page.TypeLanding:
		text = c.landingText(in)
	case page.TypeDefault:
		text = c.toMarkdown(in.PrunedHTML, in.URL)
	default:
		text = c.toMarkdown(in.PrunedHTML, in.URL)
	}

	text = c.counter.Truncate(text, in.MaxTokens)
	return Result{
		Text:         text,
		Tokens:       c.counter.Count(text),
		CardStrategy: cardStrategy,
	}
}

// productText leads with the extracted facts so they survive truncation,
// then appends the page body as markdown.
func (c *Compressor) productText(in Input) string {
	var b strings.Builder
	m := in.Meta
	if m.Name != "" {
		fmt.Fprintf(&b, "# %s\n", m.Name)
	}
	if m.Brand != "" {
		fmt.Fprintf(&b, "Brand: %s\n", m.Brand)
	}
	if m.Price != "" {
		if m.Currency != "" {
			fmt.Fprintf(&b, "Price: %s %s\n", m.Price, m.Currency)
		} else {
			fmt.Fprintf(&b, "Price: %s\n", m.Price)
		}
	}
	if m.Rating > 0 {
		fmt.Fprintf(&b, "Rating: %.1f", m.Rating)
		if m.ReviewCount > 0 {
			fmt.Fprintf(&b, " (%d reviews)", m.ReviewCount)
		}
		b.WriteString("\n")
	}
	if m.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", m.Description)
	}
	if body := c.toMarkdown(in.PrunedHTML, in.URL); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	return b.String()
}

// listingText renders one line per card. When no cards are found the page
// body is used as-is, so sparse listings still produce output.
func (c *Compressor) listingText(in Input) (string, string) {
	cards, strategy := ExtractCards(in.Meta, in.Chunks)
	if len(cards) == 0 {
		return c.toMarkdown(in.PrunedHTML, in.URL), strategy
	}
	var b strings.Builder
	if in.Meta.Name != "" {
		fmt.Fprintf(&b, "# %s\n\n", in.Meta.Name)
	}
	for _, card := range cards {
		b.WriteString("- ")
		b.WriteString(card.Name)
		if card.Price != "" {
			b.WriteString(" — ")
			b.WriteString(card.Price)
		}
		b.WriteString("\n")
	}
	return b.String(), strategy
}

func (c *Compressor) articleText(in Input) string {
	var b strings.Builder
	if in.Meta.Name != "" {
		fmt.Fprintf(&b, "# %s\n\n", in.Meta.Name)
	}
	b.WriteString(c.toMarkdown(in.PrunedHTML, in.URL))
	return b.String()
}

// formText lists the fields an agent must fill before anything else.
func (c *Compressor) formText(in Input) string {
	var b strings.Builder
	for _, ch := range in.Chunks {
		if ch.Type != chunker.Form {
			continue
		}
		if t := strings.TrimSpace(ch.Text); t != "" {
			fmt.Fprintf(&b, "Form: %s\n", collapseWS(t))
		}
	}
	if body := c.toMarkdown(in.PrunedHTML, in.URL); body != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(body)
	}
	return b.String()
}

// outlineText favours structure over prose: headings first, then text
// blocks in document order.
func (c *Compressor) outlineText(in Input) string {
	var b strings.Builder
	for _, ch := range in.Chunks {
		switch ch.Type {
		case chunker.Heading:
			fmt.Fprintf(&b, "## %s\n", collapseWS(ch.Text))
		case chunker.TextBlock, chunker.Table, chunker.List:
			fmt.Fprintf(&b, "%s\n", collapseWS(ch.Text))
		}
	}
	if b.Len() == 0 {
		return c.toMarkdown(in.PrunedHTML, in.URL)
	}
	return b.String()
}

func (c *Compressor) docText(in Input) string {
	var b strings.Builder
	for _, ch := range in.Chunks {
		if ch.Type == chunker.Heading {
			fmt.Fprintf(&b, "- %s\n", collapseWS(ch.Text))
		}
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(c.toMarkdown(in.PrunedHTML, in.URL))
	return b.String()
}

// errorText keeps everything: error pages are short and every word on
// them matters to the agent's next decision.
func (c *Compressor) errorText(in Input) string {
	return c.Sanitize(in.PrunedHTML)
}

func (c *Compressor) landingText(in Input) string {
	var b strings.Builder
	if in.Meta.Name != "" {
		fmt.Fprintf(&b, "# %s\n", in.Meta.Name)
	}
	if in.Meta.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", in.Meta.Description)
	}
	for _, ch := range in.Chunks {
		if ch.Type == chunker.Heading {
			fmt.Fprintf(&b, "## %s\n", collapseWS(ch.Text))
		}
	}
	if body := c.toMarkdown(in.PrunedHTML, in.URL); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	return b.String()
}

func collapseWS(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
