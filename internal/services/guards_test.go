package services

import (
	"context"
	"testing"

	"studyabroad-backend/internal/apperr"
	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/models"

	"go.uber.org/zap"
)

// Every caller-taking operation must reject a missing session before it
// touches a store, whatever its arguments.
func TestOperations_WithoutSessionAreUnauthenticated(t *testing.T) {
	ctx := context.Background()
	_, authSvc, _ := newAuthFixture(t)

	db := newMemDB()
	db.addAdmin("root", "Root", models.RoleSuperAdmin)
	op := db.addAdmin("op1", "Sami", models.RoleOperator)
	db.addLead("l1", &op.ID)

	audit := newAuditor(db)
	objects := &fakeObjects{}
	posts := &fakePosts{db: db}
	leads := NewLeadService(&fakeLeads{db: db}, &fakeNotes{db: db}, &fakeAdmins{db: db}, audit, auth.TriageAny, zap.NewNop())
	admins := NewAdminService(&fakeAdmins{db: db}, audit, zap.NewNop())
	clock := NewClockService(&fakeClocks{db: db}, zap.NewNop())
	blog := NewBlogService(posts, newFakeCache(), audit, zap.NewNop())
	export := NewExportService(&fakeLeads{db: db}, objects, audit, zap.NewNop())

	geo := models.GeoPoint{Lat: floatPtr(36.75), Lng: floatPtr(3.06)}
	post := &models.PostInput{Content: models.PostContent{EN: models.LocalizedFields{Title: "T", Excerpt: "E", Content: "C"}}}
	newAdmin := &models.CreateAdminRequest{Email: "x@example.com", Password: "password1", Name: "X", Role: string(models.RoleAdmin)}

	ops := map[string]func() error{
		"ListLeads":        func() error { _, err := leads.ListLeads(ctx, nil); return err },
		"AssignLeads":      func() error { return leads.AssignLeads(ctx, nil, []string{"l1"}, op.ID) },
		"UnassignLeads":    func() error { return leads.UnassignLeads(ctx, nil, []string{"l1"}) },
		"UpdateLeadStatus": func() error { return leads.UpdateLeadStatus(ctx, nil, "l1", string(models.LeadStatusContacted)) },
		"DeleteLeads":      func() error { return leads.DeleteLeads(ctx, nil, []string{"l1"}) },
		"AddNote":          func() error { _, err := leads.AddNote(ctx, nil, "l1", "called"); return err },
		"DeleteNote":       func() error { return leads.DeleteNote(ctx, nil, "n1") },
		"ListOperators":    func() error { _, err := leads.ListOperators(ctx, nil); return err },
		"ListAdmins":       func() error { _, err := admins.ListAdmins(ctx, nil); return err },
		"CreateAdmin":      func() error { _, err := admins.CreateAdmin(ctx, nil, newAdmin); return err },
		"DeleteAdmin":      func() error { return admins.DeleteAdmin(ctx, nil, op.ID) },
		"ClockIn":          func() error { _, err := clock.ClockIn(ctx, nil, geo); return err },
		"ClockOut":         func() error { _, err := clock.ClockOut(ctx, nil, geo); return err },
		"ActiveRecord":     func() error { _, err := clock.ActiveRecord(ctx, nil); return err },
		"ListRecords":      func() error { _, err := clock.ListRecords(ctx, nil); return err },
		"TimesheetPDF":     func() error { _, err := clock.TimesheetPDF(ctx, nil); return err },
		"ListAdminPosts":   func() error { _, err := blog.ListAdminPosts(ctx, nil); return err },
		"GetByID":          func() error { _, err := blog.GetByID(ctx, nil, "p1"); return err },
		"CreatePost":       func() error { _, err := blog.CreatePost(ctx, nil, post); return err },
		"UpdatePost":       func() error { _, err := blog.UpdatePost(ctx, nil, "p1", post); return err },
		"DeletePost":       func() error { return blog.DeletePost(ctx, nil, "p1") },
		"TogglePublish":    func() error { _, err := blog.TogglePublish(ctx, nil, "p1"); return err },
		"ExportLeads":      func() error { _, err := export.ExportLeads(ctx, nil); return err },
		"ListLoginLogs":    func() error { _, err := authSvc.ListLoginLogs(ctx, nil); return err },
		"ListActionLogs":   func() error { _, err := audit.List(ctx, nil); return err },
	}

	for name, call := range ops {
		t.Run(name, func(t *testing.T) {
			err := call()
			if apperr.KindOf(err) != apperr.KindUnauthenticated {
				t.Fatalf("got %v, want unauthenticated", err)
			}
			if msg := apperr.MessageOf(err); msg != "Unauthorized" {
				t.Errorf("message: got %q", msg)
			}
		})
	}

	if got := db.actionTypes(); len(got) != 0 {
		t.Errorf("audit entries written: %v", got)
	}
	if len(objects.objects) != 0 {
		t.Errorf("objects uploaded: %d", len(objects.objects))
	}
	if posts.calls != 0 {
		t.Errorf("blog store touched %d times", posts.calls)
	}
	if a, _ := (&fakeAdmins{db: db}).Get(ctx, op.ID); a == nil {
		t.Error("operator account deleted")
	}
}
