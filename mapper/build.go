// CLAUDE:SUMMARY Build orchestration: tier decision, pipeline run, template learning, minimum content guarantee.
package mapper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/hazyhaar/domap/aom"
	"github.com/hazyhaar/domap/chunker"
	"github.com/hazyhaar/domap/compress"
	"github.com/hazyhaar/domap/metadata"
	"github.com/hazyhaar/domap/page"
	"github.com/hazyhaar/domap/pagecache"
	"github.com/hazyhaar/domap/templates"
)

// BuildInput is everything one build consumes. HTML and Fingerprint come
// from the browser side; Interactables from the accessibility-tree
// detector; the rest are hints.
type BuildInput struct {
	URL           string
	HTML          string
	Fingerprint   page.DomFingerprint
	Interactables []page.Interactable
	Schema        string
	Locale        string
	PageType      page.PageType
	ScrollOffset  int
}

// Result is one finished build.
type Result struct {
	Map page.PageMap
	// Tier records how much cached work was reused.
	Tier pagecache.Tier
	// Generation identifies this build for session bookkeeping.
	Generation string
	Budget     page.TokenBudget
}

// Build produces the PageMap for the current page state. Every failure
// inside the pipeline is recovered locally and surfaced through the
// artifact's warnings list; Build itself never fails.
func (s *Session) Build(in BuildInput) Result {
	tier, cached := s.pages.Lookup(in.URL, in.Fingerprint)
	switch tier {
	case pagecache.TierA:
		s.log.Debug("build served from cache", "url", in.URL, "generation", cached.Generation)
		return Result{Map: cached.Map, Tier: tier, Generation: cached.Generation}
	case pagecache.TierB:
		return s.refresh(in, cached)
	default:
		return s.rebuild(in)
	}
}

// refresh is the Tier-B path: the page kept its interactive skeleton, so
// cached interactables and pruned HTML stay valid and only metadata and
// compression re-run.
func (s *Session) refresh(in BuildInput, cached *pagecache.Entry) Result {
	pt := s.pageType(in)
	warnings := []string{}

	gq, err := goquery.NewDocumentFromReader(strings.NewReader(in.HTML))
	if err != nil {
		warnings = append(warnings, "content refresh: reparse failed, serving cached artifact")
		s.log.Warn("tier B reparse failed", "url", in.URL, "error", err)
		return Result{Map: cached.Map, Tier: pagecache.TierB, Generation: cached.Generation}
	}

	tpl, hasTpl := s.template(in.URL, pt)
	meta := s.extractMetadata(gq, pt, tpl, hasTpl, &warnings)

	locale, budget := s.budget(in.Locale, gq.Text())
	out := s.comp.Compress(pt, compress.Input{
		PrunedHTML:   cached.PrunedHTML,
		URL:          in.URL,
		MaxTokens:    budget.PrunedContext,
		Meta:         meta,
		Locale:       locale,
		StrategyHint: tpl.CardStrategy,
	})

	pm := cached.Map
	pm.Metadata = meta
	pm.PrunedContext = out.Text
	pm.PrunedTokens = out.Tokens
	pm.Title = s.title(gq, meta, in)
	pm.Warnings = warnings

	gen := s.newID()
	s.pages.Store(in.URL, pagecache.Entry{
		Map:          pm,
		Fingerprint:  in.Fingerprint,
		PrunedHTML:   cached.PrunedHTML,
		Generation:   gen,
		ScrollOffset: in.ScrollOffset,
	})
	return Result{Map: pm, Tier: pagecache.TierB, Generation: gen, Budget: budget}
}

// rebuild is the Tier-C path: the full pipeline.
func (s *Session) rebuild(in BuildInput) Result {
	pt := s.pageType(in)
	warnings := []string{}
	if strings.TrimSpace(in.HTML) == "" {
		warnings = append(warnings, "empty input document")
	}

	// The filter detaches nodes in place, so the raw document is parsed
	// twice: one tree is consumed by the pipeline, the other serves
	// metadata, pagination, and title lookups.
	doc, parseErr := html.Parse(strings.NewReader(in.HTML))
	gq, gqErr := goquery.NewDocumentFromReader(strings.NewReader(in.HTML))
	if parseErr != nil || gqErr != nil {
		warnings = append(warnings, "unparseable document, returning raw text")
		return s.degraded(in, pt, warnings)
	}

	tpl, hasTpl := s.template(in.URL, pt)

	headChunks := chunker.HarvestHead(doc)
	stats := aom.Filter(doc, aom.Options{
		Schema:     in.Schema,
		GridTokens: s.cfg.GridTokens,
		Threshold:  s.cfg.Threshold,
	})
	main := aom.FindMain(doc)
	bodyChunks := chunker.Decompose(doc, main)

	all := append(headChunks, bodyChunks...)
	decisions := chunker.Prune(all, in.Schema, main != nil)
	selected := chunker.Selected(decisions)
	selectionRatio := chunker.SelectionRatio(decisions)

	prunedHTML := renderSelected(selected)
	if prunedHTML == "" {
		// Minimum content guarantee: never hand the agent an empty page.
		warnings = append(warnings, "chunk selection empty, falling back to original content")
		prunedHTML = in.HTML
	}

	meta := s.extractMetadata(gq, pt, tpl, hasTpl, &warnings)

	locale, budget := s.budget(in.Locale, gq.Text())
	out := s.comp.Compress(pt, compress.Input{
		PrunedHTML:   prunedHTML,
		URL:          in.URL,
		MaxTokens:    budget.PrunedContext,
		Chunks:       selected,
		Meta:         meta,
		Locale:       locale,
		StrategyHint: tpl.CardStrategy,
	})

	pagination := compress.ExtractPagination(gq, in.URL, tpl.PageParam)
	images := imageList(doc, s.cfg.MaxImages)

	pm := page.PageMap{
		URL:           in.URL,
		Title:         s.title(gq, meta, in),
		PageType:      pt,
		Interactables: in.Interactables,
		PrunedContext: out.Text,
		PrunedTokens:  out.Tokens,
		Images:        images,
		Metadata:      meta,
		Warnings:      warnings,
		Navigation: page.NavigationHints{
			Pagination:  pagination,
			Breadcrumbs: compress.ExtractBreadcrumbs(gq),
		},
		PrunedRegions: stats.PrunedRegions,
	}

	gen := s.newID()
	s.pages.Store(in.URL, pagecache.Entry{
		Map:          pm,
		Fingerprint:  in.Fingerprint,
		PrunedHTML:   prunedHTML,
		Generation:   gen,
		ScrollOffset: in.ScrollOffset,
	})

	s.learn(in, pt, hasTpl, observedTemplate(in, gq, meta, out, pagination, stats, main != nil, selectionRatio))

	return Result{Map: pm, Tier: pagecache.TierC, Generation: gen, Budget: budget}
}

// degraded is the last-resort path for input the parser rejects: the raw
// text, sanitized and truncated, plus the warnings that got us here.
func (s *Session) degraded(in BuildInput, pt page.PageType, warnings []string) Result {
	_, budget := s.budget(in.Locale, in.HTML)
	text := s.comp.Counter().Truncate(s.comp.Sanitize(in.HTML), budget.PrunedContext)
	pm := page.PageMap{
		URL:           in.URL,
		Title:         in.Fingerprint.Title,
		PageType:      pt,
		Interactables: in.Interactables,
		PrunedContext: text,
		PrunedTokens:  s.comp.Counter().Count(text),
		Warnings:      warnings,
	}
	gen := s.newID()
	return Result{Map: pm, Tier: pagecache.TierC, Generation: gen, Budget: budget}
}

func (s *Session) pageType(in BuildInput) page.PageType {
	if in.PageType != "" {
		return page.ParsePageType(string(in.PageType))
	}
	return page.TypeDefault
}

// template loads the learned hints for the page's (domain, page type).
func (s *Session) template(rawURL string, pt page.PageType) (templates.Data, bool) {
	d := domain(rawURL)
	if d == "" {
		return templates.Data{}, false
	}
	return s.tpls.Get(templates.Key{Domain: d, PageType: pt})
}

// extractMetadata runs the cascade, starting at the hinted stage when a
// template is available. An empty extraction is non-fatal.
func (s *Session) extractMetadata(gq *goquery.Document, pt page.PageType, tpl templates.Data, hasTpl bool, warnings *[]string) page.Metadata {
	hint := ""
	if hasTpl {
		hint = tpl.MetadataSource
	}
	meta := metadata.ExtractWithHint(gq, pt, hint)
	if meta.IsEmpty() {
		s.log.Debug("metadata extraction found nothing", "page_type", string(pt))
		*warnings = append(*warnings, "no metadata extracted")
	}
	return meta
}

// budget resolves the locale (hint first, then detection) and computes
// the build's token budget from it and the sampled body text.
func (s *Session) budget(localeHint, sample string) (string, page.TokenBudget) {
	locale := localeHint
	if locale == "" && s.langs != nil {
		locale = s.langs.Detect(sample)
	}
	return locale, compress.ComputeBudget(locale, sample)
}

// learn records or validates the template for this build.
func (s *Session) learn(in BuildInput, pt page.PageType, hasTpl bool, observed templates.Data) {
	d := domain(in.URL)
	if d == "" {
		return
	}
	key := templates.Key{Domain: d, PageType: pt}
	if !hasTpl {
		s.tpls.Put(key, observed)
		return
	}
	if evicted := s.tpls.Observe(key, observed); evicted {
		s.log.Info("template evicted after repeated mismatches", "domain", d, "page_type", string(pt))
	}
}

func observedTemplate(in BuildInput, gq *goquery.Document, meta page.Metadata, out compress.Result, pagination *page.Pagination, stats *aom.Stats, hasMain bool, selectionRatio float64) templates.Data {
	removalRatio := 0.0
	if stats.TotalNodes > 0 {
		removalRatio = float64(stats.RemovedNodes) / float64(stats.TotalNodes)
	}
	pageParam := ""
	if pagination != nil {
		pageParam = pagination.PageParam
	}
	return templates.Data{
		Schema:            in.Schema,
		HasMain:           hasMain,
		HasStructuredData: gq.Find(`script[type="application/ld+json"]`).Length() > 0,
		MetadataSource:    meta.Source,
		FieldsFound:       meta.FieldsFound(),
		CardStrategy:      out.CardStrategy,
		PageParam:         pageParam,
		RemovalRatio:      removalRatio,
		SelectionRatio:    selectionRatio,
	}
}

func (s *Session) title(gq *goquery.Document, meta page.Metadata, in BuildInput) string {
	if t := strings.TrimSpace(gq.Find("title").First().Text()); t != "" {
		return t
	}
	if meta.Name != "" {
		return meta.Name
	}
	return in.Fingerprint.Title
}

// renderSelected concatenates the markup of the surviving chunks. Meta
// and streamed-data chunks carry no renderable markup and are skipped;
// they reach the compressor through the chunk list instead.
func renderSelected(chunks []chunker.Chunk) string {
	var b strings.Builder
	for _, ch := range chunks {
		switch ch.Type {
		case chunker.Meta, chunker.StreamedData:
			continue
		}
		if ch.HTML == "" {
			continue
		}
		b.WriteString(ch.HTML)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func imageList(doc *html.Node, limit int) []page.Image {
	refs := chunker.CollectImages(doc, limit)
	if len(refs) == 0 {
		return nil
	}
	images := make([]page.Image, 0, len(refs))
	for _, r := range refs {
		images = append(images, page.Image{Src: r.Src, Alt: r.Alt})
	}
	return images
}

func domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
