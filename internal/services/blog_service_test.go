package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"studyabroad-backend/internal/apperr"
	"studyabroad-backend/internal/models"

	"go.uber.org/zap"
)

func newBlogFixture() (*memDB, *BlogService, *fakePosts, *models.Admin) {
	db := newMemDB()
	author := db.addAdmin("admin", "Lina", models.RoleAdmin)
	posts := &fakePosts{db: db}
	svc := NewBlogService(posts, newFakeCache(), newAuditor(db), zap.NewNop())
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return db, svc, posts, author
}

func postInput(title string, published bool) *models.PostInput {
	return &models.PostInput{
		Published: published,
		Content: models.PostContent{
			EN: models.LocalizedFields{Title: title, Excerpt: "Short", Content: "<p>Body</p>"},
		},
	}
}

func TestCreatePost_DistinctSlugs(t *testing.T) {
	_, svc, _, author := newBlogFixture()
	ctx := context.Background()

	first, err := svc.CreatePost(ctx, callerFor(author), postInput("Hello World!", true))
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.CreatePost(ctx, callerFor(author), postInput("Hello   world", true))
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if first.Slug != "hello-world" {
		t.Errorf("first slug: %q", first.Slug)
	}
	if second.Slug == first.Slug || !strings.HasPrefix(second.Slug, "hello-world-") {
		t.Errorf("second slug: %q", second.Slug)
	}
	if first.AuthorID == nil || *first.AuthorID != author.ID {
		t.Errorf("author: %v", first.AuthorID)
	}
}

func TestCreatePost_RequiresEnglish(t *testing.T) {
	_, svc, _, author := newBlogFixture()

	in := postInput("", false)
	in.Content.FR = models.LocalizedFields{Title: "Bonjour", Excerpt: "Court", Content: "Corps"}
	_, err := svc.CreatePost(context.Background(), callerFor(author), in)
	if apperr.MessageOf(err) != "Title, excerpt, and content (English) are required." {
		t.Fatalf("got %v", err)
	}

	// Content that sanitizes to nothing counts as missing
	in = postInput("Title", false)
	in.Content.EN.Content = "<script>alert(1)</script>"
	if _, err := svc.CreatePost(context.Background(), callerFor(author), in); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("script only: got %v", err)
	}
}

func TestCreatePost_Sanitizes(t *testing.T) {
	_, svc, _, author := newBlogFixture()

	in := postInput("<em>Study</em> in Lyon", true)
	in.Content.EN.Content = `<p onclick="x()">Hi<script>bad()</script></p>`
	post, err := svc.CreatePost(context.Background(), callerFor(author), in)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.Content.EN.Title != "Study in Lyon" {
		t.Errorf("title: %q", post.Content.EN.Title)
	}
	if strings.Contains(post.Content.EN.Content, "script") || strings.Contains(post.Content.EN.Content, "onclick") {
		t.Errorf("content: %q", post.Content.EN.Content)
	}
}

func TestUpdatePost_KeepsSlug(t *testing.T) {
	db, svc, _, author := newBlogFixture()
	ctx := context.Background()

	post, _ := svc.CreatePost(ctx, callerFor(author), postInput("Original", false))
	updated, err := svc.UpdatePost(ctx, callerFor(author), post.ID, postInput("Renamed", true))
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if updated.Slug != "original" || db.posts[post.ID].Content.EN.Title != "Renamed" {
		t.Errorf("updated: %+v", updated)
	}

	if _, err := svc.UpdatePost(ctx, callerFor(author), "missing", postInput("X", true)); apperr.MessageOf(err) != "Post not found." {
		t.Errorf("missing: got %v", err)
	}
}

func TestPublishedListing_CachedAndInvalidated(t *testing.T) {
	_, svc, posts, author := newBlogFixture()
	ctx := context.Background()

	post, _ := svc.CreatePost(ctx, callerFor(author), postInput("Draft", false))

	list, _ := svc.ListPublished(ctx)
	if len(list) != 0 {
		t.Fatalf("drafts must not be listed, got %d", len(list))
	}
	calls := posts.calls
	svc.ListPublished(ctx)
	if posts.calls != calls {
		t.Error("second read should be served from cache")
	}

	published, err := svc.TogglePublish(ctx, callerFor(author), post.ID)
	if err != nil || !published {
		t.Fatalf("TogglePublish: %v %v", published, err)
	}
	list, _ = svc.ListPublished(ctx)
	if len(list) != 1 {
		t.Fatalf("toggle should invalidate the cache, got %d posts", len(list))
	}

	if _, err := svc.GetPublishedBySlug(ctx, "draft"); err != nil {
		t.Errorf("GetPublishedBySlug: %v", err)
	}
	svc.TogglePublish(ctx, callerFor(author), post.ID)
	if _, err := svc.GetPublishedBySlug(ctx, "draft"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("unpublished post should be hidden, got %v", err)
	}
}

func TestListRecent_Limits(t *testing.T) {
	_, svc, _, author := newBlogFixture()
	ctx := context.Background()

	for _, title := range []string{"One", "Two", "Three", "Four"} {
		if _, err := svc.CreatePost(ctx, callerFor(author), postInput(title, true)); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		limit int
		want  int
	}{
		{0, DefaultRecentLimit},
		{2, 2},
		{500, 4},
	}
	for _, tt := range tests {
		got, err := svc.ListRecent(ctx, tt.limit)
		if err != nil || len(got) != tt.want {
			t.Errorf("limit %d: got %d posts (%v), want %d", tt.limit, len(got), err, tt.want)
		}
	}
}

func TestDeletePost_Audited(t *testing.T) {
	db, svc, _, author := newBlogFixture()
	ctx := context.Background()

	post, _ := svc.CreatePost(ctx, callerFor(author), postInput("Gone soon", true))
	if err := svc.DeletePost(ctx, callerFor(author), post.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if err := svc.DeletePost(ctx, callerFor(author), post.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("second delete: %v", err)
	}
	if types := db.actionTypes(); len(types) != 1 || types[0] != models.ActionDeletePost {
		t.Errorf("audit: %v", types)
	}

	if _, err := svc.ListAdminPosts(ctx, nil); apperr.KindOf(err) != apperr.KindUnauthenticated {
		t.Errorf("anonymous admin listing: %v", err)
	}
}
