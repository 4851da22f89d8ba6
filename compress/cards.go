// CLAUDE:SUMMARY Result-card extraction cascade for listing and search pages.
package compress

import (
	"regexp"
	"strings"

	"github.com/hazyhaar/domap/chunker"
	"github.com/hazyhaar/domap/page"
)

// Card is one listing entry: a name and, when present, its price.
type Card struct {
	Name  string
	Price string
	URL   string
}

// Strategy labels for the card cascade, recorded in learned templates so
// repeat visits can report how cards were found.
const (
	CardsFromStructuredData = "structured_data"
	CardsFromChunks         = "chunks"
	CardsFromTextLines      = "text_lines"
	CardsNone               = "none"
)

var cardPriceRe = regexp.MustCompile(`(?i)([$€£¥₩₹]\s?\d[\d,.]*)|(\d[\d,.]*\s?(USD|EUR|GBP|JPY|KRW|CNY|원|円|元))`)

// ExtractCards finds listing cards through a confidence-ordered cascade:
// structured-data items first, then chunk pairing, then adjacent text
// lines. Returns the cards and the strategy that produced them.
func ExtractCards(meta page.Metadata, chunks []chunker.Chunk) ([]Card, string) {
	if cards := cardsFromMeta(meta); len(cards) > 0 {
		return dedupeCards(cards), CardsFromStructuredData
	}
	if cards := cardsFromChunks(chunks); len(cards) > 0 {
		return dedupeCards(cards), CardsFromChunks
	}
	if cards := cardsFromTextLines(chunks); len(cards) > 0 {
		return dedupeCards(cards), CardsFromTextLines
	}
	return nil, CardsNone
}

func cardsFromMeta(meta page.Metadata) []Card {
	var cards []Card
	for _, item := range meta.Items {
		if item.Name == "" {
			continue
		}
		cards = append(cards, Card{Name: item.Name, Price: item.Price, URL: item.URL})
	}
	return cards
}

// cardsFromChunks pairs names and prices inside list chunks, then falls
// back to grouping sibling chunks by parent and pairing by position.
func cardsFromChunks(chunks []chunker.Chunk) []Card {
	var cards []Card
	for _, ch := range chunks {
		if ch.Type != chunker.List {
			continue
		}
		cards = append(cards, splitListItems(ch.Text)...)
	}
	if len(cards) > 0 {
		return cards
	}
	return pairSiblings(chunks)
}

// splitListItems treats each price occurrence in a list's text as the end
// of one card: the text before it is the name, the match is the price.
func splitListItems(text string) []Card {
	var cards []Card
	rest := text
	for {
		loc := cardPriceRe.FindStringIndex(rest)
		if loc == nil {
			break
		}
		name := cardName(rest[:loc[0]])
		price := strings.TrimSpace(rest[loc[0]:loc[1]])
		if name != "" {
			cards = append(cards, Card{Name: name, Price: price})
		}
		rest = rest[loc[1]:]
	}
	return cards
}

// pairSiblings groups text chunks by parent and pairs a name-looking
// chunk with the next price-bearing chunk under the same parent.
func pairSiblings(chunks []chunker.Chunk) []Card {
	var cards []Card
	byParent := make(map[string][]chunker.Chunk)
	var order []string
	for _, ch := range chunks {
		if ch.Type != chunker.TextBlock {
			continue
		}
		if _, seen := byParent[ch.ParentXPath]; !seen {
			order = append(order, ch.ParentXPath)
		}
		byParent[ch.ParentXPath] = append(byParent[ch.ParentXPath], ch)
	}
	for _, parent := range order {
		group := byParent[parent]
		var pendingName string
		for _, ch := range group {
			if price := cardPriceRe.FindString(ch.Text); price != "" {
				name := cardName(cardPriceRe.ReplaceAllString(ch.Text, ""))
				if name == "" {
					name = pendingName
				}
				if name != "" {
					cards = append(cards, Card{Name: name, Price: strings.TrimSpace(price)})
				}
				pendingName = ""
				continue
			}
			if n := cardName(ch.Text); n != "" {
				pendingName = n
			}
		}
	}
	return cards
}

// cardsFromTextLines is the last resort: a text line followed by a line
// that is mostly a price becomes one card.
func cardsFromTextLines(chunks []chunker.Chunk) []Card {
	var lines []string
	for _, ch := range chunks {
		if ch.Type != chunker.TextBlock {
			continue
		}
		for _, ln := range strings.Split(ch.Text, "\n") {
			if ln = strings.TrimSpace(ln); ln != "" {
				lines = append(lines, ln)
			}
		}
	}
	var cards []Card
	for i := 0; i+1 < len(lines); i++ {
		price := cardPriceRe.FindString(lines[i+1])
		if price == "" || len(price)*2 < len(lines[i+1]) {
			continue
		}
		if name := cardName(lines[i]); name != "" && !cardPriceRe.MatchString(lines[i]) {
			cards = append(cards, Card{Name: name, Price: strings.TrimSpace(price)})
			i++
		}
	}
	return cards
}

func cardName(s string) string {
	s = strings.Trim(strings.TrimSpace(s), "-–·•:|,")
	s = strings.TrimSpace(s)
	if len([]rune(s)) < 2 || len(s) > 200 {
		return ""
	}
	return s
}

// dedupeCards removes duplicates by (lowercased name, price text),
// preserving first-seen order.
func dedupeCards(cards []Card) []Card {
	seen := make(map[[2]string]bool, len(cards))
	out := cards[:0]
	for _, c := range cards {
		key := [2]string{strings.ToLower(c.Name), c.Price}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
