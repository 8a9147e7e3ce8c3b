package models

import "time"

type Locale string

const (
	LocaleEN Locale = "en"
	LocaleFR Locale = "fr"
	LocaleAR Locale = "ar"
)

// ParseLocale maps unknown or empty values to English.
func ParseLocale(s string) Locale {
	switch Locale(s) {
	case LocaleFR:
		return LocaleFR
	case LocaleAR:
		return LocaleAR
	}
	return LocaleEN
}

// LocalizedFields is one language's copy of a post.
type LocalizedFields struct {
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"`
	MetaTitle string `json:"metaTitle"`
	MetaDesc  string `json:"metaDesc"`
	Keywords  string `json:"keywords"`
}

// PostContent holds every locale. English is required, the others fall back to it.
type PostContent struct {
	EN LocalizedFields `json:"en"`
	FR LocalizedFields `json:"fr"`
	AR LocalizedFields `json:"ar"`
}

// For returns the stored fields for a locale, without fallback.
func (c PostContent) For(l Locale) LocalizedFields {
	switch l {
	case LocaleFR:
		return c.FR
	case LocaleAR:
		return c.AR
	}
	return c.EN
}

type BlogPost struct {
	ID         string      `json:"id"`
	Slug       string      `json:"slug"`
	Published  bool        `json:"published"`
	Content    PostContent `json:"content"`
	CoverImage *string     `json:"coverImage"`
	AuthorID   *string     `json:"authorId"`
	Author     *AdminRef   `json:"author"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// LocalizedPost is the resolved public view of a post in one locale.
type LocalizedPost struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Locale     Locale    `json:"locale"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt"`
	Content    string    `json:"content"`
	MetaTitle  string    `json:"metaTitle"`
	MetaDesc   string    `json:"metaDesc"`
	Keywords   string    `json:"keywords"`
	CoverImage *string   `json:"coverImage"`
	Author     *AdminRef `json:"author"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PostSlug feeds the sitemap.
type PostSlug struct {
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostInput is the create/update payload.
type PostInput struct {
	Content    PostContent `json:"content"`
	CoverImage string      `json:"coverImage"`
	Published  bool        `json:"published"`
}
