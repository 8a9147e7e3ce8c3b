package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/models"
	"studyabroad-backend/internal/repositories"

	"go.uber.org/zap"
)

// memDB is a single in-memory backing store shared by the fake repositories so
// foreign keys behave like the SQL schema.
type memDB struct {
	mu      sync.Mutex
	seq     int
	admins  map[string]*models.Admin
	leads   map[string]*models.Lead
	notes   map[string]*models.Note
	clocks  []*models.ClockRecord
	posts   map[string]*models.BlogPost
	logins  []models.LoginLog
	actions []models.AdminActionLog
}

func newMemDB() *memDB {
	return &memDB{
		admins: map[string]*models.Admin{},
		leads:  map[string]*models.Lead{},
		notes:  map[string]*models.Note{},
		posts:  map[string]*models.BlogPost{},
	}
}

func (m *memDB) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memDB) addAdmin(id, name string, role models.Role) *models.Admin {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := &models.Admin{ID: id, Email: strings.ToLower(name) + "@example.com", Name: name, Role: role}
	m.admins[id] = a
	return a
}

func (m *memDB) addLead(id string, assignee *string) *models.Lead {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := &models.Lead{ID: id, Name: "Lead " + id, Status: models.LeadStatusNew, AssignedToID: assignee}
	m.leads[id] = l
	return l
}

// ============================================
// admins
// ============================================

type fakeAdmins struct{ db *memDB }

func (f *fakeAdmins) Create(_ context.Context, a *models.Admin) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.admins {
		if existing.Email == a.Email {
			return repositories.ErrDuplicate
		}
	}
	a.ID = f.db.nextID("admin")
	cp := *a
	f.db.admins[a.ID] = &cp
	return nil
}

func (f *fakeAdmins) Get(_ context.Context, id string) (*models.Admin, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	a, ok := f.db.admins[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAdmins) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, a := range f.db.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAdmins) List(_ context.Context) ([]models.Admin, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := make([]models.Admin, 0, len(f.db.admins))
	for _, a := range f.db.admins {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAdmins) ListOperators(_ context.Context) ([]models.Operator, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Operator
	for _, a := range f.db.admins {
		if a.Role != models.RoleOperator {
			continue
		}
		op := models.Operator{ID: a.ID, Name: a.Name, Email: a.Email}
		for _, l := range f.db.leads {
			if l.AssignedToID != nil && *l.AssignedToID == a.ID {
				op.AssignedLeadCount++
			}
		}
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeAdmins) Delete(_ context.Context, id string, check func(*models.Admin) error) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	a, ok := f.db.admins[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if check != nil {
		if err := check(a); err != nil {
			return err
		}
	}
	for _, l := range f.db.leads {
		if l.AssignedToID != nil && *l.AssignedToID == id {
			l.AssignedToID = nil
		}
	}
	delete(f.db.admins, id)
	return nil
}

// ============================================
// leads and notes
// ============================================

type fakeLeads struct {
	db      *memDB
	failing bool
}

func (f *fakeLeads) Create(_ context.Context, l *models.Lead) error {
	if f.failing {
		return fmt.Errorf("connection refused")
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	l.ID = f.db.nextID("lead")
	l.CreatedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cp := *l
	f.db.leads[l.ID] = &cp
	return nil
}

func (f *fakeLeads) List(_ context.Context, assignedTo *string) ([]models.Lead, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Lead
	for _, l := range f.db.leads {
		if assignedTo != nil && (l.AssignedToID == nil || *l.AssignedToID != *assignedTo) {
			continue
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLeads) GetAssignee(_ context.Context, id string) (*string, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	l, ok := f.db.leads[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return l.AssignedToID, nil
}

func (f *fakeLeads) Assign(_ context.Context, ids []string, assigneeID string) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.admins[assigneeID]; !ok {
		return 0, repositories.ErrNotFound
	}
	var n int64
	for _, id := range ids {
		if l, ok := f.db.leads[id]; ok {
			a := assigneeID
			l.AssignedToID = &a
			n++
		}
	}
	return n, nil
}

func (f *fakeLeads) Unassign(_ context.Context, ids []string) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var n int64
	for _, id := range ids {
		if l, ok := f.db.leads[id]; ok {
			l.AssignedToID = nil
			n++
		}
	}
	return n, nil
}

func (f *fakeLeads) UpdateStatus(_ context.Context, id string, status models.LeadStatus) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	l, ok := f.db.leads[id]
	if !ok {
		return repositories.ErrNotFound
	}
	l.Status = status
	return nil
}

func (f *fakeLeads) Delete(_ context.Context, ids []string) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := f.db.leads[id]; ok {
			delete(f.db.leads, id)
			n++
			for nid, note := range f.db.notes {
				if note.ContactID == id {
					delete(f.db.notes, nid)
				}
			}
		}
	}
	return n, nil
}

type fakeNotes struct{ db *memDB }

func (f *fakeNotes) Create(_ context.Context, n *models.Note) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.leads[n.ContactID]; !ok {
		return repositories.ErrNotFound
	}
	author, ok := f.db.admins[n.AuthorID]
	if !ok {
		return repositories.ErrNotFound
	}
	n.ID = f.db.nextID("note")
	n.Author = models.AdminRef{ID: author.ID, Name: author.Name}
	cp := *n
	f.db.notes[n.ID] = &cp
	return nil
}

func (f *fakeNotes) Get(_ context.Context, id string) (*models.Note, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	n, ok := f.db.notes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotes) Delete(_ context.Context, id string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.notes[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.db.notes, id)
	return nil
}

// ============================================
// clock records
// ============================================

// fakeClocks enforces one open record per admin like the partial unique index.
type fakeClocks struct{ db *memDB }

func (f *fakeClocks) Open(_ context.Context, adminID string, at time.Time, lat, lng *float64) (*models.ClockRecord, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, r := range f.db.clocks {
		if r.AdminID == adminID && r.IsOpen() {
			return nil, repositories.ErrDuplicate
		}
	}
	rec := &models.ClockRecord{ID: f.db.nextID("clock"), AdminID: adminID, ClockIn: at, EntryLat: lat, EntryLng: lng}
	f.db.clocks = append(f.db.clocks, rec)
	cp := *rec
	return &cp, nil
}

func (f *fakeClocks) Close(_ context.Context, adminID string, at time.Time, lat, lng *float64) (*models.ClockRecord, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, r := range f.db.clocks {
		if r.AdminID == adminID && r.IsOpen() {
			out := at
			d := at.Sub(r.ClockIn).Milliseconds()
			r.ClockOut, r.DurationMs, r.ExitLat, r.ExitLng = &out, &d, lat, lng
			cp := *r
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeClocks) Active(_ context.Context, adminID string) (*models.ClockRecord, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, r := range f.db.clocks {
		if r.AdminID == adminID && r.IsOpen() {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeClocks) ListAll(_ context.Context) ([]models.ClockRecord, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := make([]models.ClockRecord, 0, len(f.db.clocks))
	for _, r := range f.db.clocks {
		out = append(out, *r)
	}
	return out, nil
}

// ============================================
// blog
// ============================================

type fakePosts struct {
	db    *memDB
	calls int
}

func (f *fakePosts) SlugExists(_ context.Context, slug string) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, p := range f.db.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePosts) Create(_ context.Context, p *models.BlogPost) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.posts {
		if existing.Slug == p.Slug {
			return repositories.ErrDuplicate
		}
	}
	p.ID = f.db.nextID("post")
	cp := *p
	f.db.posts[p.ID] = &cp
	return nil
}

func (f *fakePosts) Update(_ context.Context, p *models.BlogPost) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	existing, ok := f.db.posts[p.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Slug = existing.Slug
	cp := *p
	f.db.posts[p.ID] = &cp
	return nil
}

func (f *fakePosts) Delete(_ context.Context, id string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.db.posts, id)
	return nil
}

func (f *fakePosts) TogglePublish(_ context.Context, id string) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.posts[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	p.Published = !p.Published
	return p.Published, nil
}

func (f *fakePosts) Get(_ context.Context, id string) (*models.BlogPost, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePosts) GetPublishedBySlug(_ context.Context, slug string) (*models.BlogPost, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, p := range f.db.posts {
		if p.Slug == slug && p.Published {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakePosts) ListAll(_ context.Context) ([]models.BlogPost, error) {
	return f.list(false, 0), nil
}

func (f *fakePosts) ListPublished(_ context.Context, limit int) ([]models.BlogPost, error) {
	return f.list(true, limit), nil
}

func (f *fakePosts) ListPublishedSlugs(_ context.Context) ([]models.PostSlug, error) {
	var out []models.PostSlug
	for _, p := range f.list(true, 0) {
		out = append(out, models.PostSlug{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	return out, nil
}

func (f *fakePosts) list(publishedOnly bool, limit int) []models.BlogPost {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.calls++
	var out []models.BlogPost
	for _, p := range f.db.posts {
		if publishedOnly && !p.Published {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ============================================
// logs, cache, limiter, publisher, storage
// ============================================

type fakeLoginLogs struct{ db *memDB }

func (f *fakeLoginLogs) CreateLoginLog(_ context.Context, adminID, ip, ua string) (int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.logins = append(f.db.logins, models.LoginLog{ID: len(f.db.logins) + 1, AdminID: adminID, IPAddress: ip, UserAgent: ua})
	return len(f.db.logins), nil
}

func (f *fakeLoginLogs) UpdateLogoutTimeByAdmin(_ context.Context, adminID string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	now := time.Now()
	for i := len(f.db.logins) - 1; i >= 0; i-- {
		if f.db.logins[i].AdminID == adminID && f.db.logins[i].LogoutTime == nil {
			f.db.logins[i].LogoutTime = &now
			return nil
		}
	}
	return nil
}

func (f *fakeLoginLogs) ListAllLoginLogs(_ context.Context) ([]models.LoginLog, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return append([]models.LoginLog(nil), f.db.logins...), nil
}

type fakeActionLogs struct{ db *memDB }

func (f *fakeActionLogs) CreateActionLog(_ context.Context, l *models.AdminActionLog) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.actions = append(f.db.actions, *l)
	return nil
}

func (f *fakeActionLogs) ListAllActionLogs(_ context.Context) ([]models.AdminActionLog, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return append([]models.AdminActionLog(nil), f.db.actions...), nil
}

func (m *memDB) actionTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, a := range m.actions {
		out = append(out, a.ActionType)
	}
	return out
}

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: map[string]time.Time{}}
}

func (f *fakeRevoker) RevokeToken(_ context.Context, id string, exp time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[id] = exp
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[id]
	return ok
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) GetCached(_ context.Context, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeCache) SetCached(_ context.Context, key string, data []byte, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = data
}

func (f *fakeCache) InvalidatePrefix(_ context.Context, prefix string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			delete(f.data, k)
		}
	}
}

type fakeLimiter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (f *fakeLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts == nil {
		f.counts = map[string]int{}
	}
	f.counts[key]++
	return f.counts[key] <= limit
}

type fakePublisher struct {
	mu    sync.Mutex
	leads []models.Lead
}

func (f *fakePublisher) PublishLeadCreated(l models.Lead) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads = append(f.leads, l)
}

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeObjects) Put(_ context.Context, key, _ string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = body
	return nil
}

// ============================================
// helpers
// ============================================

func callerFor(a *models.Admin) *auth.Caller {
	return auth.CallerFromAdmin(a)
}

func newAuditor(db *memDB) *Auditor {
	return NewAuditor(&fakeActionLogs{db: db}, zap.NewNop())
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
