package convert

import (
	"regexp"
	"strings"

	"github.com/hifiworks/sanity-migrate/internal/logger"
)

// Legacy link shortcode patterns. The CMS stored internal links as
// bracket directives carrying the legacy numeric ID.
var (
	sitetreeLink = regexp.MustCompile(`(?i)\[sitetree_link[,\s]+id=(\d+)\]`)
	productLink  = regexp.MustCompile(`(?i)\[product_link[,\s]+id=(\d+)\]`)
)

// unresolvedHref is the sentinel for shortcode IDs with no slug
// mapping. Logged, never a failure.
const unresolvedHref = "#"

// resolveHref applies the link resolution policy:
//
//   - product/page shortcodes resolve via the pre-loaded slug maps to
//     absolute target-site URLs, or "#" when the ID is unknown
//   - bare relative paths absolutise against the legacy domain
//   - absolute URLs, mailto:, tel: and fragments pass through
func (c *Converter) resolveHref(href string) string {
	href = strings.TrimSpace(href)

	if m := productLink.FindStringSubmatch(href); m != nil {
		slug, ok := c.cfg.ProductSlugs[m[1]]
		if !ok {
			logger.Warn("unresolved product link shortcode id=%s", m[1])
			return unresolvedHref
		}
		return strings.TrimSuffix(c.cfg.TargetBaseURL, "/") + "/products/" + slug
	}

	if m := sitetreeLink.FindStringSubmatch(href); m != nil {
		path, ok := c.cfg.PageSlugs[m[1]]
		if !ok {
			logger.Warn("unresolved page link shortcode id=%s", m[1])
			return unresolvedHref
		}
		return strings.TrimSuffix(c.cfg.TargetBaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	}

	switch {
	case href == "",
		strings.HasPrefix(href, "#"),
		strings.HasPrefix(href, "http://"),
		strings.HasPrefix(href, "https://"),
		strings.HasPrefix(href, "mailto:"),
		strings.HasPrefix(href, "tel:"):
		return href
	}

	// Bare relative path from the legacy site.
	return strings.TrimSuffix(c.cfg.LegacyBaseURL, "/") + "/" + strings.TrimPrefix(href, "/")
}
