// CLAUDE:SUMMARY CJK-aware token budget math: locale base multiplier refined by measured script ratio.
package compress

import (
	"strings"
	"unicode"

	"github.com/hazyhaar/domap/page"
)

const (
	defaultPrunedBudget = 1500
	defaultTotalBudget  = 5000

	minMultiplier = 1.0
	maxMultiplier = 2.5

	// Measured-ratio refinement band. Below the low mark a CJK locale hint
	// is walked back; above the high mark a Latin hint is fully overridden.
	rampLow  = 0.3
	rampHigh = 0.7
	cjkFloor = 0.1

	// Minimum sample size before the measured ratio is trusted.
	minSampleRunes = 50

	sampleWindow = 2000
)

// ComputeBudget derives the token budget for one build. locale is a BCP-47
// style hint ("ko", "ja-JP", ...) and may be empty; sample is body text
// used to measure the actual CJK character ratio. The locale picks the
// base multiplier, the measurement corrects it in either direction, and
// the result is clamped to [1.0, 2.5].
func ComputeBudget(locale, sample string) page.TokenBudget {
	base := localeMultiplier(locale)
	ratio, measured := cjkRatio(sample)

	mult := base
	if measured {
		switch {
		case base <= minMultiplier && ratio > rampLow:
			// Locale said Latin but the page is dense script. Ramp up
			// linearly toward the Hangul multiplier across [0.3, 0.7].
			frac := (ratio - rampLow) / (rampHigh - rampLow)
			if frac > 1 {
				frac = 1
			}
			mult = minMultiplier + frac*(1.8-minMultiplier)
		case base > minMultiplier && ratio < cjkFloor:
			// Locale said CJK but the page is mostly Latin. Walk the
			// multiplier back toward 1.0 in proportion to what remains.
			mult = minMultiplier + (ratio/cjkFloor)*(base-minMultiplier)
		}
	}
	if mult < minMultiplier {
		mult = minMultiplier
	}
	if mult > maxMultiplier {
		mult = maxMultiplier
	}

	return page.TokenBudget{
		PrunedContext: int(defaultPrunedBudget * mult),
		Total:         int(defaultTotalBudget * mult),
		Multiplier:    mult,
		Locale:        locale,
		CJKRatio:      ratio,
	}
}

// localeMultiplier maps a locale hint to the base multiplier. Hangul packs
// the most meaning per token of the scripts we see, Japanese and Chinese
// somewhat less.
func localeMultiplier(locale string) float64 {
	lang := strings.ToLower(locale)
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	switch lang {
	case "ko":
		return 1.8
	case "ja":
		return 1.5
	case "zh":
		return 1.5
	default:
		return 1.0
	}
}

// cjkRatio measures the share of CJK runes among non-space runes in
// sample. Returns measured=false when the sample is too short to trust.
func cjkRatio(sample string) (ratio float64, measured bool) {
	total, cjk := 0, 0
	for _, r := range sample {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if isCJK(r) {
			cjk++
		}
		if total >= sampleWindow {
			break
		}
	}
	if total < minSampleRunes {
		return 0, false
	}
	return float64(cjk) / float64(total), true
}
