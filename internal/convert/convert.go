package convert

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
	"github.com/hifiworks/sanity-migrate/internal/logger"
)

// Config carries the policy knobs and lookup tables the converter
// needs. ResolveImage maps a source image reference to an uploaded
// asset ID ("" when the asset is unavailable).
type Config struct {
	LegacyBaseURL string
	TargetBaseURL string

	// PromoteHeadingClasses mark a legacy "primary heading" that is
	// promoted out-of-band instead of emitted as a body block. The
	// first <h1> is always promoted. Only the first match promotes;
	// later candidates demote to normal heading blocks.
	PromoteHeadingClasses []string

	// ProductSlugs maps legacy product IDs to target slugs, and
	// PageSlugs maps legacy page IDs to target paths, for resolving
	// link shortcodes.
	ProductSlugs map[string]string
	PageSlugs    map[string]string

	ResolveImage func(src string) string
}

// Result is the outcome of one Convert call.
type Result struct {
	Blocks []domain.ContentBlock

	// PromotedHeading is the lead heading lifted out of the body,
	// or "" when the source had none.
	PromotedHeading string
}

// Converter turns legacy HTML into content blocks.
type Converter struct {
	cfg Config
}

// New creates a converter with the given configuration.
func New(cfg Config) *Converter {
	return &Converter{cfg: cfg}
}

// Pre-compiled regular expressions for HTML scanning performance.
var (
	htmlComments   = regexp.MustCompile(`(?s)<!--.*?-->`)
	pagebreakMark  = regexp.MustCompile(`(?i)\[\s*pagebreak\s*\]`)
	imageShortcode = regexp.MustCompile(`(?i)\[image\s+([^\]]*)\]`)
	iframeTag      = regexp.MustCompile(`(?is)<iframe[^>]*\bsrc="([^"]*)"[^>]*>(?:.*?</iframe>)?`)
	headingTag     = regexp.MustCompile(`(?is)<h([1-6])([^>]*)>(.*?)</h[1-6]>`)
	paragraphTag   = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	ulTag          = regexp.MustCompile(`(?is)<ul[^>]*>(.*?)</ul>`)
	olTag          = regexp.MustCompile(`(?is)<ol[^>]*>(.*?)</ol>`)
	liTag          = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)
	blockquoteTag  = regexp.MustCompile(`(?is)<blockquote[^>]*>(.*?)</blockquote>`)
	attrPair       = regexp.MustCompile(`([a-zA-Z_-]+)\s*=\s*"([^"]*)"`)
	classAttr      = regexp.MustCompile(`(?i)class\s*=\s*"([^"]*)"`)
	allTags        = regexp.MustCompile(`<[^>]+>`)
)

// newKey returns a locally-unique key for a block, span or mark def.
func newKey() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

// item is one extracted element, positioned by its source offset so
// separately extracted media and block-level elements merge back into
// document order.
type item struct {
	offset int
	block  domain.ContentBlock

	// heading bookkeeping, used before styles are final
	isHeading bool
	level     int
	promote   bool
	text      string
	attrs     string
}

// Convert parses a legacy HTML fragment into ordered content blocks.
// Malformed HTML never fails: the worst case is a single plain-text
// block holding the stripped input.
func (c *Converter) Convert(html string) Result {
	src := htmlComments.ReplaceAllString(html, "")
	src = pagebreakMark.ReplaceAllString(src, "")

	var items []item

	// Media first: matches are blanked out in place so the block-level
	// pass never sees them as text, while offsets stay comparable.
	// Blockquotes and lists blank their ranges too, so the paragraph
	// pass cannot double-match a <p> nested inside either.
	src, mediaItems := c.extractMedia(src)
	items = append(items, mediaItems...)

	src, bqItems := c.extractBlockquotes(src)
	items = append(items, bqItems...)

	src, listItems := c.extractLists(src)
	items = append(items, listItems...)

	items = append(items, c.extractHeadings(src)...)
	items = append(items, c.extractParagraphs(src)...)

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].offset < items[j].offset
	})

	promoted := c.promoteAndNormaliseHeadings(items)

	blocks := make([]domain.ContentBlock, 0, len(items))
	for _, it := range items {
		if it.block != nil {
			blocks = append(blocks, it.block)
		}
	}

	// Fallback for inputs with text but no recognised structure.
	if len(blocks) == 0 && promoted == "" {
		if b := c.fallbackBlock(src); b != nil {
			blocks = append(blocks, b)
		}
	}

	return Result{Blocks: blocks, PromotedHeading: promoted}
}

// extractMedia pulls image shortcodes and video iframes out of the
// text stream, returning the input with those ranges blanked.
func (c *Converter) extractMedia(src string) (string, []item) {
	var items []item
	out := []byte(src)

	for _, m := range imageShortcode.FindAllStringSubmatchIndex(src, -1) {
		attrs := parseAttrs(src[m[2]:m[3]])
		if b := c.imageBlock(attrs); b != nil {
			items = append(items, item{offset: m[0], block: b})
		}
		blank(out, m[0], m[1])
	}

	for _, m := range iframeTag.FindAllStringSubmatchIndex(src, -1) {
		frameSrc := src[m[2]:m[3]]
		if b := videoBlock(frameSrc); b != nil {
			items = append(items, item{offset: m[0], block: b})
		} else {
			logger.Debug("skipping unsupported iframe embed: %s", frameSrc)
		}
		blank(out, m[0], m[1])
	}

	return string(out), items
}

// imageBlock builds an ImageBlock from shortcode attributes, or nil
// when the image cannot be resolved to an uploaded asset.
func (c *Converter) imageBlock(attrs map[string]string) *domain.ImageBlock {
	src := attrs["src"]
	if src == "" {
		return nil
	}
	assetID := ""
	if c.cfg.ResolveImage != nil {
		assetID = c.cfg.ResolveImage(src)
	}
	if assetID == "" {
		logger.Warn("image dropped, no asset for %s", src)
		return nil
	}
	return &domain.ImageBlock{
		Key:       newKey(),
		Asset:     domain.AssetRef{ID: assetID},
		Layout:    attrs["layout"],
		AutoWidth: attrs["auto_width"] == "true" || attrs["auto_width"] == "1",
	}
}

// Video host patterns. Group 1 captures the video ID.
var (
	youtubePattern = regexp.MustCompile(`(?i)(?:youtube\.com/embed/|youtu\.be/)([A-Za-z0-9_-]+)`)
	vimeoPattern   = regexp.MustCompile(`(?i)(?:player\.)?vimeo\.com/(?:video/)?(\d+)`)
)

// videoBlock recognises YouTube and Vimeo embed URLs.
func videoBlock(frameSrc string) *domain.VideoBlock {
	if m := youtubePattern.FindStringSubmatch(frameSrc); m != nil {
		return &domain.VideoBlock{Key: newKey(), Provider: domain.ProviderYouTube, VideoID: m[1]}
	}
	if m := vimeoPattern.FindStringSubmatch(frameSrc); m != nil {
		return &domain.VideoBlock{Key: newKey(), Provider: domain.ProviderVimeo, VideoID: m[1]}
	}
	return nil
}

func (c *Converter) extractHeadings(src string) []item {
	var items []item
	for _, m := range headingTag.FindAllStringSubmatchIndex(src, -1) {
		level, _ := strconv.Atoi(src[m[2]:m[3]])
		items = append(items, item{
			offset:    m[0],
			isHeading: true,
			level:     level,
			attrs:     src[m[4]:m[5]],
			text:      src[m[6]:m[7]],
		})
	}
	return items
}

func (c *Converter) extractParagraphs(src string) []item {
	var items []item
	for _, m := range paragraphTag.FindAllStringSubmatchIndex(src, -1) {
		body := src[m[2]:m[3]]
		b := c.textBlock(body, domain.StyleNormal, domain.ListNone)
		if b == nil {
			continue // empty paragraph, dropped
		}
		items = append(items, item{offset: m[0], block: b})
	}
	return items
}

func (c *Converter) extractLists(src string) (string, []item) {
	var items []item
	out := []byte(src)
	for _, lists := range []struct {
		re   *regexp.Regexp
		kind domain.ListItemKind
	}{{ulTag, domain.ListBullet}, {olTag, domain.ListNumber}} {
		for _, lm := range lists.re.FindAllStringSubmatchIndex(src, -1) {
			inner := src[lm[2]:lm[3]]
			for _, im := range liTag.FindAllStringSubmatchIndex(inner, -1) {
				b := c.textBlock(inner[im[2]:im[3]], domain.StyleNormal, lists.kind)
				if b == nil {
					continue
				}
				items = append(items, item{offset: lm[2] + im[0], block: b})
			}
			blank(out, lm[0], lm[1])
		}
	}
	return string(out), items
}

func (c *Converter) extractBlockquotes(src string) (string, []item) {
	var items []item
	out := []byte(src)
	for _, m := range blockquoteTag.FindAllStringSubmatchIndex(src, -1) {
		// A quote wrapping a single paragraph keeps just that body.
		body := src[m[2]:m[3]]
		if inner := paragraphTag.FindStringSubmatch(body); inner != nil && strings.TrimSpace(paragraphTag.ReplaceAllString(body, "")) == "" {
			body = inner[1]
		}
		blank(out, m[0], m[1])
		b := c.textBlock(body, domain.StyleBlockquote, domain.ListNone)
		if b == nil {
			continue
		}
		items = append(items, item{offset: m[0], block: b})
	}
	return string(out), items
}

// promoteAndNormaliseHeadings applies the heading policy in place:
// the first <h1> or first class-marked heading is promoted out of the
// body; remaining levels shift so the minimum used level renders as
// h2, capped at h3 below that.
func (c *Converter) promoteAndNormaliseHeadings(items []item) string {
	promoted := ""
	for i := range items {
		it := &items[i]
		if !it.isHeading {
			continue
		}
		if promoted == "" && (it.level == 1 || c.hasPromoteClass(it.attrs)) {
			promoted = strings.TrimSpace(stripInlineText(it.text))
			it.promote = true
		}
	}

	// The promoted heading leaves the body, so it does not count
	// toward the minimum: after <h1>Title</h1><h3>B</h3> the body's
	// smallest remaining level is 3 and B renders as h2.
	minLevel := 0
	for _, it := range items {
		if it.isHeading && !it.promote {
			if minLevel == 0 || it.level < minLevel {
				minLevel = it.level
			}
		}
	}
	shift := minLevel - 2
	if shift < 0 {
		shift = 0
	}

	for i := range items {
		it := &items[i]
		if !it.isHeading || it.promote {
			continue
		}
		style := domain.StyleH3
		if it.level-shift <= 2 {
			style = domain.StyleH2
		}
		// Headings whose body collapses to nothing are dropped, same
		// as empty paragraphs. A bare nil *TextBlock must not reach
		// the interface field or it survives the nil guards.
		if b := c.textBlock(it.text, style, domain.ListNone); b != nil {
			it.block = b
		}
	}

	return promoted
}

// hasPromoteClass checks the heading's attributes against the
// configured primary-heading CSS classes.
func (c *Converter) hasPromoteClass(attrs string) bool {
	m := classAttr.FindStringSubmatch(attrs)
	if m == nil {
		return false
	}
	classes := strings.Fields(m[1])
	for _, want := range c.cfg.PromoteHeadingClasses {
		for _, have := range classes {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

// fallbackBlock produces one plain-text block from tag-stripped input,
// used when no block structure was recognised. Returns an untyped nil
// for whitespace-only input so callers can compare against nil.
func (c *Converter) fallbackBlock(src string) domain.ContentBlock {
	if b := c.textBlock(src, domain.StyleNormal, domain.ListNone); b != nil {
		return b
	}
	return nil
}

// parseAttrs reads key="value" pairs from a shortcode body.
func parseAttrs(body string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrPair.FindAllStringSubmatch(body, -1) {
		attrs[strings.ToLower(m[1])] = m[2]
	}
	return attrs
}

// blank overwrites out[from:to] with spaces, preserving offsets.
func blank(out []byte, from, to int) {
	for i := from; i < to && i < len(out); i++ {
		out[i] = ' '
	}
}
