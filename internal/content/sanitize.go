package content

import (
	"html"
	"strings"

	"studyabroad-backend/internal/models"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// SanitizeHTML keeps user-generated formatting and links but strips scripts and handlers.
func SanitizeHTML(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(richPolicy.Sanitize(s))
}

// StripTags removes all markup from single-line text such as titles and names.
// Entities are decoded again so "&" survives as itself.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(s)))
}

// SanitizeFields cleans one locale: content keeps safe HTML, everything else is plain text.
func SanitizeFields(f models.LocalizedFields) models.LocalizedFields {
	return models.LocalizedFields{
		Title:     StripTags(f.Title),
		Excerpt:   StripTags(f.Excerpt),
		Content:   SanitizeHTML(f.Content),
		MetaTitle: StripTags(f.MetaTitle),
		MetaDesc:  StripTags(f.MetaDesc),
		Keywords:  StripTags(f.Keywords),
	}
}
