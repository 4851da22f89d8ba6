package aom

import (
	"strings"

	"golang.org/x/net/html"
)

// Noise-pattern matching against class and id attributes. A fixed list of
// keyword families marks ads, chrome, and overlay furniture for removal.
// Content keywords can override: a div class="article-content ad-free"
// is content, not an ad slot.

var noiseFamilies = []string{
	"ad", "advert", "sponsor", "banner", "recommend", "sidebar",
	"popup", "modal", "cookie", "consent", "track", "overlay",
	"promo", "widget", "toast", "newsletter", "subscribe", "social",
	"share", "paywall",
}

var contentKeywords = []string{
	"content", "article", "main", "post", "product", "item",
	"detail", "description", "body", "text",
}

// noiseWeight scores an element by its class/id tokens. Returns matched
// false when no noise family fires, letting the cascade fall through to
// link-density scoring.
func noiseWeight(n *html.Node) (Weight, bool) {
	ident := attrVal(n, "class") + " " + attrVal(n, "id")
	if strings.TrimSpace(ident) == "" {
		return Weight{}, false
	}
	tokens := splitIdent(ident)

	noiseHits := 0
	for _, tok := range tokens {
		if matchesFamily(tok, noiseFamilies) {
			noiseHits++
		}
	}
	if noiseHits == 0 {
		return Weight{}, false
	}

	contentHits := 0
	for _, tok := range tokens {
		if matchesFamily(tok, contentKeywords) {
			contentHits++
		}
	}
	if contentHits >= noiseHits && contentHits >= 2 {
		return Weight{0.8, ReasonContentOverride}, true
	}
	return Weight{0.0, ReasonNoise}, true
}

// splitIdent breaks a class/id string into lowercase tokens, splitting on
// separators and camelCase boundaries.
func splitIdent(ident string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}
	prevLower := false
	for _, r := range ident {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			cur.WriteRune(r)
			prevLower = true
		case r >= 'A' && r <= 'Z':
			if prevLower {
				flush()
			}
			cur.WriteRune(r + ('a' - 'A'))
			prevLower = false
		default:
			flush()
			prevLower = false
		}
	}
	flush()
	return tokens
}

// matchesFamily reports whether a token belongs to a keyword family.
// Short families ("ad") require an exact or plural match to avoid false
// hits inside unrelated words; longer ones match as substrings.
func matchesFamily(tok string, families []string) bool {
	for _, fam := range families {
		if len(fam) <= 3 {
			if tok == fam || tok == fam+"s" {
				return true
			}
			continue
		}
		if strings.Contains(tok, fam) {
			return true
		}
	}
	return false
}
