package aom

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Removal reason codes. These are the histogram keys of Stats.Reasons.
const (
	reasonLinkDensity = "link-density"

	ReasonRoleNavigation = "role-navigation"
	ReasonRoleBanner     = "role-banner"
	ReasonRoleContent    = "role-contentinfo"
	ReasonSemanticHeader = "semantic-header"
	ReasonSemanticFooter = "semantic-footer"
	ReasonNav            = "nav"
	ReasonAside          = "aside"
	ReasonNonContent     = "non-content"
	ReasonNoise          = "noise-pattern"
	ReasonLinkDensity    = reasonLinkDensity
)

// Keep reason codes (weights at or above threshold).
const (
	ReasonContentOverride = "content-override"
	ReasonGridWhitelist   = "grid-whitelist-ancestor"
	ReasonGovException    = "gov-footer-exception"
)

// priceRe matches currency/price-like text: a currency symbol or ISO code
// next to digits. Drives the content-rescue pass.
var priceRe = regexp.MustCompile(`(?i)([$€£¥₩₹]\s?\d[\d,.]*)|(\d[\d,.]*\s?(USD|EUR|GBP|JPY|KRW|CNY|원|円|元))`)

// weigh runs the rule cascade in its fixed priority order. Hidden-content
// detection always wins. The grid-whitelist override is applied after the
// role/tag/noise rules, so a listing grid survives a nav-ish tag default;
// the government-footer exception follows for the same reason. Anything
// unmatched falls through to link-density scoring.
func (c *filterCtx) weigh(n *html.Node) Weight {
	if reason, hidden := hiddenReason(n); hidden {
		return Weight{Value: 0.0, Reason: reason}
	}

	w, matched := c.roleWeight(n)
	if !matched {
		w, matched = c.tagWeight(n)
	}
	if !matched {
		w, matched = noiseWeight(n)
	}

	if matched {
		if w.Value < c.opts.Threshold {
			if c.gridAnc[n] {
				c.stats.GridWhitelistHits++
				return Weight{Value: 0.8, Reason: ReasonGridWhitelist}
			}
			if c.isGovPage && isFooterish(n) {
				return Weight{Value: 0.6, Reason: ReasonGovException}
			}
		}
		return w
	}

	return c.linkDensityWeight(n)
}

// roleWeight applies explicit ARIA role overrides. They take priority over
// tag defaults: a <div role="main"> outranks its div-ness.
func (c *filterCtx) roleWeight(n *html.Node) (Weight, bool) {
	switch attrVal(n, "role") {
	case "navigation":
		return Weight{0.0, ReasonRoleNavigation}, true
	case "banner":
		return Weight{0.0, ReasonRoleBanner}, true
	case "contentinfo":
		return Weight{0.0, ReasonRoleContent}, true
	case "main", "article":
		return Weight{1.0, "role-main"}, true
	case "region":
		return Weight{0.8, "role-region"}, true
	}
	return Weight{}, false
}

// tagWeight applies tag defaults. Header/footer semantics depend on
// position: direct children of <body> are page chrome, nested ones are
// card or article headers and stay.
func (c *filterCtx) tagWeight(n *html.Node) (Weight, bool) {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Iframe:
		return Weight{0.0, ReasonNonContent}, true
	case atom.Header:
		if n.Parent == c.body {
			return Weight{0.0, ReasonSemanticHeader}, true
		}
		return Weight{0.8, "nested-header"}, true
	case atom.Footer:
		if n.Parent == c.body {
			return Weight{0.0, ReasonSemanticFooter}, true
		}
		return Weight{0.8, "nested-footer"}, true
	case atom.Nav:
		return Weight{0.0, ReasonNav}, true
	case atom.Aside:
		if hasFormControls(n) {
			// Filter sidebar: facet checkboxes and range inputs matter
			// on listing pages.
			return Weight{0.7, "aside-filters"}, true
		}
		return Weight{0.3, ReasonAside}, true
	case atom.Section:
		if hasAccessibleName(n) {
			return Weight{0.8, "section-labeled"}, true
		}
		return Weight{0.6, "section"}, true
	}
	return Weight{}, false
}

// linkDensityWeight is the default path: elements whose text is mostly
// anchor text score low.
func (c *filterCtx) linkDensityWeight(n *html.Node) Weight {
	text := collectText(n)
	if text == "" {
		return Weight{0.6, "empty"}
	}
	linkText := collectLinkText(n)
	dens := float64(len(linkText)) / float64(len(text))
	if dens > 0.65 && len(text) > 40 {
		if c.gridAnc[n] {
			c.stats.GridWhitelistHits++
			return Weight{0.8, ReasonGridWhitelist}
		}
		return Weight{0.2, ReasonLinkDensity}
	}
	return Weight{0.8, "default"}
}

func isFooterish(n *html.Node) bool {
	return n.DataAtom == atom.Footer || attrVal(n, "role") == "contentinfo"
}

func hasFormControls(n *html.Node) bool {
	found := false
	var f func(*html.Node)
	f = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Input, atom.Select, atom.Textarea, atom.Button:
				found = true
				return
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			f(ch)
		}
	}
	f(n)
	return found
}

// hasAccessibleName reports whether a section carries an explicit label.
func hasAccessibleName(n *html.Node) bool {
	return strings.TrimSpace(attrVal(n, "aria-label")) != "" ||
		strings.TrimSpace(attrVal(n, "aria-labelledby")) != "" ||
		strings.TrimSpace(attrVal(n, "title")) != ""
}
