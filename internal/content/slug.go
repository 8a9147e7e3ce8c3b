// Package content holds the pure rules of the blog: slugs, locale fallback and HTML sanitizing.
package content

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// FallbackSlug is used when a title has no slug-safe characters at all.
const FallbackSlug = "post"

// Slugify lowercases the title, drops everything but word characters, spaces
// and hyphens, then joins words with single hyphens.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return FallbackSlug
	}
	return s
}

// WithSuffix disambiguates a colliding slug with a base-36 millisecond timestamp.
func WithSuffix(slug string, at time.Time) string {
	return slug + "-" + strconv.FormatInt(at.UnixMilli(), 36)
}
