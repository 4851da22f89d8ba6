// CLAUDE:SUMMARY Token counting (tiktoken cl100k_base with heuristic fallback) and hard-budget truncation.
package compress

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts tokens the way the consuming model does. It wraps the
// cl100k_base BPE encoding; when the encoder cannot be initialised the
// counter degrades to a rune/word heuristic, which stays consistent for
// counting and truncation within one session.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter builds a Counter. Never fails: encoder init errors select the
// heuristic fallback.
func NewCounter() *Counter {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &Counter{}
	}
	return &Counter{enc: enc}
}

// Count returns the token count of text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c.enc != nil {
		return len(c.enc.Encode(text, nil, nil))
	}
	return estimateTokens(text)
}

// Truncate cuts text so Count(result) <= maxTokens. Binary search over
// rune prefixes gets close; a linear backoff guarantees the bound even
// where BPE boundaries shift.
func (c *Counter) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	if c.Count(text) <= maxTokens {
		return text
	}

	runes := []rune(text)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if c.Count(string(runes[:mid])) <= maxTokens {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	out := string(runes[:lo])
	for c.Count(out) > maxTokens && len(out) > 0 {
		r := []rune(out)
		out = string(r[:len(r)-1])
	}
	return strings.TrimRight(out, " \n")
}

// estimateTokens is the heuristic fallback: the average of a char-based
// (~4 chars/token) and word-based (~1.33 tokens/word) estimate. CJK runes
// count as roughly one token each.
func estimateTokens(text string) int {
	runeCount := utf8.RuneCountInString(text)
	words := 0
	cjk := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
		} else if !inWord {
			inWord = true
			words++
		}
		if isCJK(r) {
			cjk++
		}
	}
	charEst := runeCount / 4
	wordEst := words * 4 / 3
	est := (charEst + wordEst) / 2
	if cjk > est {
		est = cjk
	}
	if est == 0 && runeCount > 0 {
		est = 1
	}
	return est
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hangul, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r)
}
