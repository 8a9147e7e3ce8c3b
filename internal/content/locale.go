package content

import "studyabroad-backend/internal/models"

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Localize resolves every field of the post for locale l, falling back to English
// field by field. Meta title and description also fall back to the title and excerpt.
func Localize(p *models.BlogPost, l models.Locale) models.LocalizedPost {
	en := p.Content.EN
	loc := p.Content.For(l)
	if l == models.LocaleEN {
		loc = models.LocalizedFields{}
	}

	return models.LocalizedPost{
		ID:         p.ID,
		Slug:       p.Slug,
		Locale:     l,
		Title:      firstNonEmpty(loc.Title, en.Title),
		Excerpt:    firstNonEmpty(loc.Excerpt, en.Excerpt),
		Content:    firstNonEmpty(loc.Content, en.Content),
		MetaTitle:  firstNonEmpty(loc.MetaTitle, en.MetaTitle, loc.Title, en.Title),
		MetaDesc:   firstNonEmpty(loc.MetaDesc, en.MetaDesc, loc.Excerpt, en.Excerpt),
		Keywords:   firstNonEmpty(loc.Keywords, en.Keywords),
		CoverImage: p.CoverImage,
		Author:     p.Author,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
