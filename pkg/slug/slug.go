package slug

import (
	"regexp"
	"strings"
	"unicode"
)

// Separator joins the words of a derived slug.
const Separator = "-"

var (
	slugRegexp  = regexp.MustCompile(`[^a-z0-9]+`)
	validRegexp = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// FromName derives a product slug from a display name: the name is
// lowercased and every whitespace rune becomes Separator. Surrounding
// whitespace is dropped first. Punctuation is kept as is.
//
// Examples:
//   - "Midnight Oud" → "midnight-oud"
//   - "Oud Supreme" → "oud-supreme"
func FromName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsSpace(r) {
			b.WriteString(Separator)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Generate creates a normalized URL-friendly slug from the given name.
// Runs of non-alphanumeric characters collapse into a single hyphen.
//
// Examples:
//   - "Hello   World!" → "hello-world"
//   - "Rose & Oud" → "rose-oud"
func Generate(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))

	// Replace any non-alphanumeric characters with hyphens
	slug = slugRegexp.ReplaceAllString(slug, "-")

	// Trim leading and trailing hyphens
	return strings.Trim(slug, "-")
}

// IsValid reports whether s is already in normalized slug form.
func IsValid(s string) bool {
	return validRegexp.MatchString(s)
}
