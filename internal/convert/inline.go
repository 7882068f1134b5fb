package convert

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
)

// Inline-content regular expressions.
var (
	imgTag     = regexp.MustCompile(`(?is)<img[^>]*>`)
	brTag      = regexp.MustCompile(`(?i)<br\s*/?>`)
	wrapperTag = regexp.MustCompile(`(?is)</?(?:strong|b|em|i|u|span)[^>]*>`)
	anchorTag  = regexp.MustCompile(`(?is)<a\b[^>]*?href="([^"]*)"[^>]*>(.*?)</a>`)
	multiSpace = regexp.MustCompile(`[ \t\r\n]+`)

	// Anchors are swapped for control-character tokens before the
	// final tag strip, then the text is re-split on those tokens to
	// rebuild spans with the right mark references. Control bytes
	// cannot appear in exported HTML, so the tokens never collide.
	linkToken = regexp.MustCompile("(?s)\x00L(\\d+)\x00(.*?)\x00E\\d+\x00")
)

// textBlock parses one block body into a TextBlock, or nil when the
// body is empty (or only a non-breaking space).
func (c *Converter) textBlock(body string, style domain.BlockStyle, listItem domain.ListItemKind) *domain.TextBlock {
	// Images in running text are handled by the media pass; inline
	// leftovers are dropped here.
	body = imgTag.ReplaceAllString(body, "")
	body = brTag.ReplaceAllString(body, " ")
	body = wrapperTag.ReplaceAllString(body, "")

	// Swap anchors for placeholder tokens, keeping the resolved URL.
	var markDefs []domain.LinkMark
	body = replaceAnchors(body, func(href, inner string) string {
		idx := len(markDefs)
		markDefs = append(markDefs, domain.LinkMark{
			Key:  newKey(),
			Href: c.resolveHref(href),
		})
		return fmt.Sprintf("\x00L%d\x00%s\x00E%d\x00", idx, inner, idx)
	})

	body = allTags.ReplaceAllString(body, "")
	body = html.UnescapeString(body)

	spans := splitSpans(body, markDefs)
	if !hasText(spans) {
		return nil
	}

	// Only marks actually referenced stay in the definition list.
	markDefs = usedMarks(spans, markDefs)

	return &domain.TextBlock{
		Key:      newKey(),
		Style:    style,
		ListItem: listItem,
		MarkDefs: markDefs,
		Spans:    spans,
	}
}

// replaceAnchors rewrites every anchor tag through fn(href, innerHTML).
func replaceAnchors(body string, fn func(href, inner string) string) string {
	var b strings.Builder
	last := 0
	for _, m := range anchorTag.FindAllStringSubmatchIndex(body, -1) {
		b.WriteString(body[last:m[0]])
		b.WriteString(fn(body[m[2]:m[3]], body[m[4]:m[5]]))
		last = m[1]
	}
	b.WriteString(body[last:])
	return b.String()
}

// splitSpans walks the tokenised text and produces the ordered span
// list. Text between link tokens becomes unmarked spans. Whitespace
// inside segments is collapsed but boundary spaces survive so adjacent
// spans do not run together; trimSpans tidies the block edges.
func splitSpans(body string, markDefs []domain.LinkMark) []domain.Span {
	var spans []domain.Span
	last := 0
	for _, m := range linkToken.FindAllStringSubmatchIndex(body, -1) {
		if plain := collapseText(body[last:m[0]]); plain != "" {
			spans = append(spans, domain.Span{Key: newKey(), Text: plain})
		}
		idx, _ := strconv.Atoi(body[m[2]:m[3]])
		text := strings.TrimSpace(collapseText(body[m[4]:m[5]]))
		if text != "" && idx < len(markDefs) {
			spans = append(spans, domain.Span{
				Key:   newKey(),
				Text:  text,
				Marks: []string{markDefs[idx].Key},
			})
		}
		last = m[1]
	}
	if plain := collapseText(body[last:]); plain != "" {
		spans = append(spans, domain.Span{Key: newKey(), Text: plain})
	}
	return trimSpans(spans)
}

// trimSpans trims the leading edge of the first span and the trailing
// edge of the last, dropping spans that end up empty.
func trimSpans(spans []domain.Span) []domain.Span {
	for len(spans) > 0 {
		spans[0].Text = strings.TrimLeft(spans[0].Text, " ")
		if spans[0].Text != "" {
			break
		}
		spans = spans[1:]
	}
	for len(spans) > 0 {
		lastIdx := len(spans) - 1
		spans[lastIdx].Text = strings.TrimRight(spans[lastIdx].Text, " ")
		if spans[lastIdx].Text != "" {
			break
		}
		spans = spans[:lastIdx]
	}
	return spans
}

// usedMarks keeps only mark definitions referenced by some span.
func usedMarks(spans []domain.Span, markDefs []domain.LinkMark) []domain.LinkMark {
	used := make(map[string]bool)
	for _, s := range spans {
		for _, m := range s.Marks {
			used[m] = true
		}
	}
	var out []domain.LinkMark
	for _, d := range markDefs {
		if used[d.Key] {
			out = append(out, d)
		}
	}
	return out
}

// collapseText folds non-breaking spaces and whitespace runs into
// single spaces without trimming. A whitespace-only segment collapses
// to "" so empty paragraphs are detectable.
func collapseText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = multiSpace.ReplaceAllString(s, " ")
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// normaliseText collapses and trims, for single-value fields.
func normaliseText(s string) string {
	return strings.TrimSpace(collapseText(s))
}

// hasText reports whether any span carries visible text.
func hasText(spans []domain.Span) bool {
	for _, s := range spans {
		if s.Text != "" {
			return true
		}
	}
	return false
}

// stripInlineText reduces heading markup to plain text for promotion.
func stripInlineText(s string) string {
	s = allTags.ReplaceAllString(s, "")
	return normaliseText(html.UnescapeString(s))
}
