package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"studyabroad-backend/internal/apperr"
	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/cache"
	"studyabroad-backend/internal/content"
	"studyabroad-backend/internal/models"
	"studyabroad-backend/internal/repositories"
	"studyabroad-backend/internal/timeutil"

	"go.uber.org/zap"
)

const (
	msgPostFieldsRequired = "Title, excerpt, and content (English) are required."
	msgPostNotFound       = "Post not found."
	postTarget            = "blog_post"

	DefaultRecentLimit = 3
	MaxRecentLimit     = 50

	publishedCacheTTL = 5 * time.Minute
	slugAttempts      = 3
)

type BlogService struct {
	Posts BlogStore
	Cache Cache
	Audit *Auditor
	Log   *zap.Logger
	now   func() time.Time
}

func NewBlogService(posts BlogStore, c Cache, audit *Auditor, log *zap.Logger) *BlogService {
	return &BlogService{Posts: posts, Cache: c, Audit: audit, Log: log, now: timeutil.Now}
}

// ============================================
// Public reads
// ============================================

// ListPublished returns published posts, newest first. Cached briefly.
func (s *BlogService) ListPublished(ctx context.Context) ([]models.BlogPost, error) {
	return s.cachedPosts(ctx, cache.BlogKeyPrefix+"published", func() ([]models.BlogPost, error) {
		return s.Posts.ListPublished(ctx, 0)
	})
}

// ListRecent returns the latest published posts. limit <= 0 uses the default.
func (s *BlogService) ListRecent(ctx context.Context, limit int) ([]models.BlogPost, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	return s.cachedPosts(ctx, cache.BlogKeyPrefix+"recent:"+strconv.Itoa(limit), func() ([]models.BlogPost, error) {
		return s.Posts.ListPublished(ctx, limit)
	})
}

// GetPublishedBySlug hides drafts behind the same not-found as missing posts.
func (s *BlogService) GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := s.Posts.GetPublishedBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound(msgPostNotFound)
		}
		return nil, err
	}
	return post, nil
}

func (s *BlogService) ListAllSlugs(ctx context.Context) ([]models.PostSlug, error) {
	return s.Posts.ListPublishedSlugs(ctx)
}

func (s *BlogService) cachedPosts(ctx context.Context, key string, load func() ([]models.BlogPost, error)) ([]models.BlogPost, error) {
	if s.Cache != nil {
		if data, ok := s.Cache.GetCached(ctx, key); ok {
			var posts []models.BlogPost
			if err := json.Unmarshal(data, &posts); err == nil {
				return posts, nil
			}
		}
	}

	posts, err := load()
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if data, err := json.Marshal(posts); err == nil {
			s.Cache.SetCached(ctx, key, data, publishedCacheTTL)
		}
	}
	return posts, nil
}

func (s *BlogService) invalidate(ctx context.Context) {
	if s.Cache != nil {
		s.Cache.InvalidatePrefix(ctx, cache.BlogKeyPrefix)
	}
}

// ============================================
// Admin console
// ============================================

func (s *BlogService) ListAdminPosts(ctx context.Context, c *auth.Caller) ([]models.BlogPost, error) {
	if _, err := auth.RequireAuthenticated(c); err != nil {
		return nil, err
	}
	return s.Posts.ListAll(ctx)
}

func (s *BlogService) GetByID(ctx context.Context, c *auth.Caller, id string) (*models.BlogPost, error) {
	if _, err := auth.RequireAuthenticated(c); err != nil {
		return nil, err
	}
	post, err := s.Posts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound(msgPostNotFound)
		}
		return nil, err
	}
	return post, nil
}

// CreatePost derives a unique slug from the English title. A taken slug gets a
// base-36 timestamp suffix.
func (s *BlogService) CreatePost(ctx context.Context, c *auth.Caller, in *models.PostInput) (*models.BlogPost, error) {
	c, err := auth.RequireAuthenticated(c)
	if err != nil {
		return nil, err
	}

	post, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	post.AuthorID = &c.ID

	base := content.Slugify(post.Content.EN.Title)
	slug := base
	exists, err := s.Posts.SlugExists(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}

	for attempt := 0; ; attempt++ {
		if exists {
			slug = content.WithSuffix(base, s.now().Add(time.Duration(attempt)*time.Millisecond))
		}
		post.Slug = slug

		err = s.Posts.Create(ctx, post)
		if err == nil {
			break
		}
		// Unique index caught a concurrent create with the same slug
		if errors.Is(err, repositories.ErrDuplicate) && attempt < slugAttempts {
			exists = true
			continue
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	post.Author = &models.AdminRef{ID: c.ID, Name: c.Name}
	s.invalidate(ctx)
	return post, nil
}

// UpdatePost replaces content, cover and publish flag. The slug is kept.
func (s *BlogService) UpdatePost(ctx context.Context, c *auth.Caller, id string, in *models.PostInput) (*models.BlogPost, error) {
	if _, err := auth.RequireAuthenticated(c); err != nil {
		return nil, err
	}

	post, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	post.ID = id

	if err := s.Posts.Update(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound(msgPostNotFound)
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.invalidate(ctx)
	return post, nil
}

func (s *BlogService) DeletePost(ctx context.Context, c *auth.Caller, id string) error {
	c, err := auth.RequireAuthenticated(c)
	if err != nil {
		return err
	}

	if err := s.Posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound(msgPostNotFound)
		}
		return fmt.Errorf("delete post: %w", err)
	}

	s.Audit.Record(ctx, c, models.ActionDeletePost, postTarget, id, "Deleted blog post")
	s.invalidate(ctx)
	return nil
}

// TogglePublish flips the published flag and returns the new value.
func (s *BlogService) TogglePublish(ctx context.Context, c *auth.Caller, id string) (bool, error) {
	if _, err := auth.RequireAuthenticated(c); err != nil {
		return false, err
	}

	published, err := s.Posts.TogglePublish(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, apperr.NotFound(msgPostNotFound)
		}
		return false, fmt.Errorf("toggle publish: %w", err)
	}

	s.invalidate(ctx)
	return published, nil
}

// prepare sanitizes every locale and checks the required English fields.
func (s *BlogService) prepare(in *models.PostInput) (*models.BlogPost, error) {
	if in == nil {
		return nil, apperr.Validation(msgPostFieldsRequired)
	}

	post := &models.BlogPost{
		Published: in.Published,
		Content: models.PostContent{
			EN: content.SanitizeFields(in.Content.EN),
			FR: content.SanitizeFields(in.Content.FR),
			AR: content.SanitizeFields(in.Content.AR),
		},
	}
	if cover := strings.TrimSpace(in.CoverImage); cover != "" {
		post.CoverImage = &cover
	}

	en := post.Content.EN
	if en.Title == "" || en.Excerpt == "" || en.Content == "" {
		return nil, apperr.Validation(msgPostFieldsRequired)
	}
	return post, nil
}
