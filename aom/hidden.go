package aom

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Hidden-content detection. Weight 0.0, always wins over every other rule.
// This is a defense against hidden prompt-injection text: content invisible
// to a human must never reach the compressed artifact.
//
// Each technique gets its own reason code so the histogram shows which
// hiding trick a page used.

var (
	displayNoneRe    = regexp.MustCompile(`(?i)display\s*:\s*none`)
	visibilityRe     = regexp.MustCompile(`(?i)visibility\s*:\s*hidden`)
	opacityZeroRe    = regexp.MustCompile(`(?i)opacity\s*:\s*0(\.0+)?\s*([;!]|$)`)
	fontSizeZeroRe   = regexp.MustCompile(`(?i)font-size\s*:\s*0(\.0+)?\s*(px|pt|em|rem|%|vh|vw)?\s*([;!]|$)`)
	clipPathRe       = regexp.MustCompile(`(?i)clip-path\s*:\s*inset\(\s*100%`)
	zeroScaleRe      = regexp.MustCompile(`(?i)transform\s*:[^;]*\bscale[XY]?\(\s*0(\.0+)?\s*[,)]`)
	textIndentRe     = regexp.MustCompile(`(?i)text-indent\s*:\s*-\d{4,}`)
	overflowHiddenRe = regexp.MustCompile(`(?i)overflow\s*:\s*hidden`)
	heightZeroRe     = regexp.MustCompile(`(?i)(^|;)\s*height\s*:\s*0(\.0+)?\s*(px|em|rem|%)?\s*([;!]|$)`)
)

// hiddenReason reports whether the element is hidden and by which
// technique. Inspects aria-hidden and the inline style attribute.
func hiddenReason(n *html.Node) (string, bool) {
	if strings.EqualFold(attrVal(n, "aria-hidden"), "true") {
		return "aria-hidden", true
	}
	if attrVal(n, "hidden") != "" || hasAttr(n, "hidden") {
		return "hidden-attr", true
	}

	style := attrVal(n, "style")
	if style == "" {
		return "", false
	}
	switch {
	case displayNoneRe.MatchString(style):
		return "display-none", true
	case visibilityRe.MatchString(style):
		return "visibility-hidden", true
	case opacityZeroRe.MatchString(style):
		return "opacity-zero", true
	case fontSizeZeroRe.MatchString(style):
		return "font-size-zero", true
	case clipPathRe.MatchString(style):
		return "clip-path-inset", true
	case zeroScaleRe.MatchString(style):
		return "transform-zero-scale", true
	case textIndentRe.MatchString(style):
		return "text-indent-offscreen", true
	case overflowHiddenRe.MatchString(style) && heightZeroRe.MatchString(style):
		return "overflow-zero-height", true
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
