package compress

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
)

func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
}

// toMarkdown converts HTML to markdown. On conversion failure or empty
// output it falls back to a sanitized plain-text rendering of the input,
// so compression never returns raw markup.
func (c *Compressor) toMarkdown(html, pageURL string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	result, err := c.conv.ConvertString(html, converter.WithDomain(pageURL))
	if err != nil || strings.TrimSpace(result) == "" {
		return c.Sanitize(html)
	}
	return strings.TrimSpace(result)
}

// Sanitize strips all markup and collapses whitespace, leaving plain
// text. Used as the markdown fallback and for the minimum content
// guarantee path, where the original HTML is returned as text rather
// than markup.
func (c *Compressor) Sanitize(html string) string {
	text := c.strip.Sanitize(html)
	return strings.Join(strings.Fields(text), " ")
}

func newStripPolicy() *bluemonday.Policy {
	return bluemonday.StrictPolicy()
}
