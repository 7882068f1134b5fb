package services

import (
	"regexp"
	"strings"
)

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9]+`)
	slugHyphens  = regexp.MustCompile(`-{2,}`)
	slugDiacrits = strings.NewReplacer(
		"ā", "a", "ē", "e", "ī", "i", "ō", "o", "ū", "u",
		"æ", "ae", "ø", "o", "å", "a", "é", "e", "è", "e",
		"ö", "o", "ü", "u", "ä", "a",
	)
)

// Slugify derives a URL slug from a title the same way the target
// site's studio does, so migrated slugs line up with editor-created
// ones.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugDiacrits.Replace(s)
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
