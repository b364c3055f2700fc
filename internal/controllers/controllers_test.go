package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/pllus/clubmatch/dto"
	"github.com/pllus/clubmatch/internal/composer"
	"github.com/pllus/clubmatch/internal/models"
	"github.com/pllus/clubmatch/internal/repository"
	"github.com/pllus/clubmatch/internal/services"
	"github.com/pllus/clubmatch/internal/session"
)

type memStore struct {
	mu      sync.Mutex
	seq     int
	records map[string]*composer.Record
}

func newMemStore() *memStore { return &memStore{records: map[string]*composer.Record{}} }

func (s *memStore) put(id, author string, d composer.Draft) {
	r := &composer.Record{
		ID: id, AuthorID: author, IsDraft: d.IsDraft, PurposeType: d.PurposeType,
		Values: map[composer.Field]string{}, CustomItems: d.CustomItems, CreatedAt: time.Now(),
	}
	for _, f := range composer.TextFields() {
		r.Values[f] = d.Value(f)
	}
	s.records[id] = r
}

func (s *memStore) CreatePost(_ context.Context, author string, d composer.Draft) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := "p" + strconv.Itoa(s.seq)
	s.put(id, author, d)
	return id, nil
}

func (s *memStore) UpdateDraft(_ context.Context, author, id string, d composer.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.records[id]; !ok || r.AuthorID != author || !r.IsDraft {
		return composer.ErrDraftNotFound
	}
	s.put(id, author, d)
	return nil
}

func (s *memStore) PublishDraft(_ context.Context, author, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok || r.AuthorID != author || !r.IsDraft {
		return composer.ErrDraftNotFound
	}
	r.IsDraft = false
	return nil
}

func (s *memStore) GetPostByID(_ context.Context, id string) (*composer.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return nil, composer.ErrDraftNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) GetUserDrafts(_ context.Context, user string) ([]composer.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []composer.Summary{}
	for _, r := range s.records {
		if r.AuthorID == user && r.IsDraft {
			out = append(out, composer.Summary{ID: r.ID, Title: r.Values[composer.FieldTitle], CreatedAt: r.CreatedAt})
		}
	}
	return out, nil
}

func (s *memStore) DeletePost(_ context.Context, author, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.records[id]; !ok || r.AuthorID != author || !r.IsDraft {
		return composer.ErrDraftNotFound
	}
	delete(s.records, id)
	return nil
}

// testActor stands in for the JWT middleware.
func testActor(c *fiber.Ctx) error {
	if uid := c.Get("X-Test-User"); uid != "" {
		c.Locals("user_id", uid)
		c.Locals("user_email", uid+"@example.edu")
	}
	return c.Next()
}

func newComposerApp(t *testing.T) (*fiber.App, *memStore) {
	t.Helper()
	store := newMemStore()
	svc := services.NewComposerService(session.NewMemoryStore(time.Hour), store, nil, zap.NewNop(), "")

	app := fiber.New()
	app.Use(testActor)
	g := app.Group("/composer/sessions")
	g.Post("/", OpenComposerSession(svc))
	g.Get("/:sid", GetComposerSession(svc))
	g.Delete("/:sid", DiscardComposerSession(svc))
	g.Patch("/:sid/fields", SetComposerField(svc))
	g.Post("/:sid/validate", ValidateComposer(svc))
	g.Post("/:sid/save", SaveComposerDraft(svc))
	g.Post("/:sid/publish", PublishComposer(svc))
	g.Post("/:sid/reset", ResetComposer(svc))
	g.Get("/:sid/drafts", ListComposerDrafts(svc))
	g.Post("/:sid/drafts/:draft_id/load", LoadComposerDraft(svc))
	g.Delete("/:sid/drafts/:draft_id", DeleteComposerDraft(svc))
	return app, store
}

func call(t *testing.T, app *fiber.App, method, path, user string, body any, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func open(t *testing.T, app *fiber.App, user string) dto.SessionResp {
	t.Helper()
	var s dto.SessionResp
	if code := call(t, app, "POST", "/composer/sessions", user, nil, &s); code != fiber.StatusCreated {
		t.Fatalf("open: status %d", code)
	}
	return s
}

func set(t *testing.T, app *fiber.App, user, sid, field, value string) dto.SessionResp {
	t.Helper()
	var s dto.SessionResp
	code := call(t, app, "PATCH", "/composer/sessions/"+sid+"/fields", user,
		dto.SetFieldReq{Field: field, Value: &value}, &s)
	if code != fiber.StatusOK {
		t.Fatalf("set %s: status %d", field, code)
	}
	return s
}

func fillActivitySupport(t *testing.T, app *fiber.App, user, sid string) {
	t.Helper()
	for _, kv := range [][2]string{
		{"purposeType", string(composer.PurposeActivitySupport)},
		{"title", "開發者之夜"},
		{"contactPerson", "王小明"},
		{"contactPhone", "0912345678"},
		{"contactEmail", "contact@example.edu"},
		{"eventName", "開發者之夜"},
		{"eventType", "講座"},
		{"estimatedParticipants", "120"},
		{"location", "活動中心"},
		{"eventDate", "2025-06-15"},
		{"eventEndDate", "2025-06-16"},
		{"participationType", "贊助"},
	} {
		set(t, app, user, sid, kv[0], kv[1])
	}
	code := call(t, app, "PATCH", "/composer/sessions/"+sid+"/fields", user,
		dto.SetFieldReq{Field: "customItems", Items: []string{"場地", "餐點"}}, nil)
	if code != fiber.StatusOK {
		t.Fatalf("set customItems: status %d", code)
	}
}

func TestComposer_RequiresLogin(t *testing.T) {
	app, _ := newComposerApp(t)
	var e dto.ErrorResponse
	if code := call(t, app, "POST", "/composer/sessions", "", nil, &e); code != fiber.StatusUnauthorized {
		t.Fatalf("status = %d", code)
	}
}

func TestComposer_OpenPrefillsAndAutoFillsDeadline(t *testing.T) {
	app, _ := newComposerApp(t)
	s := open(t, app, "alice")
	if s.Draft.Email != "alice@example.edu" || s.Draft.OrganizationName != repository.UnknownOrganization {
		t.Fatalf("prefill = %q / %q", s.Draft.Email, s.Draft.OrganizationName)
	}

	s = set(t, app, "alice", s.SessionID, "eventDate", "2025-06-15")
	if s.Draft.CooperationReturn != "2025-06-12" {
		t.Fatalf("cooperationReturn = %q", s.Draft.CooperationReturn)
	}
	s = set(t, app, "alice", s.SessionID, "purposeType", string(composer.PurposeCampusPromotion))
	if len(s.RequiredFields) == 0 {
		t.Fatal("required fields missing")
	}
}

func TestComposer_SetFieldRejectsBadInput(t *testing.T) {
	app, _ := newComposerApp(t)
	sid := open(t, app, "alice").SessionID
	path := "/composer/sessions/" + sid + "/fields"
	v := "x"
	cases := []struct {
		name string
		body dto.SetFieldReq
	}{
		{"unknown field", dto.SetFieldReq{Field: "nope", Value: &v}},
		{"bad purpose", dto.SetFieldReq{Field: "purposeType", Value: &v}},
		{"missing value", dto.SetFieldReq{Field: "title"}},
		{"empty field", dto.SetFieldReq{Value: &v}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if code := call(t, app, "PATCH", path, "alice", tc.body, nil); code != fiber.StatusBadRequest {
				t.Fatalf("status = %d", code)
			}
		})
	}
}

func TestComposer_SaveInvalidReturnsFieldErrorsAndFocus(t *testing.T) {
	app, store := newComposerApp(t)
	sid := open(t, app, "alice").SessionID
	set(t, app, "alice", sid, "purposeType", string(composer.PurposeActivitySupport))

	var out dto.ActionResp
	if code := call(t, app, "POST", "/composer/sessions/"+sid+"/save", "alice", nil, &out); code != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d", code)
	}
	if out.Focus == nil || *out.Focus != composer.FieldTitle {
		t.Fatalf("focus = %v", out.Focus)
	}
	if !out.FieldErrors[composer.FieldTitle] || out.FieldErrors[composer.FieldEmail] {
		t.Fatalf("fieldErrors = %v", out.FieldErrors)
	}
	if out.Notice.Severity != composer.SeverityError {
		t.Fatalf("notice = %+v", out.Notice)
	}
	if len(store.records) != 0 {
		t.Fatal("invalid save reached the store")
	}

	var v dto.ValidateResp
	if code := call(t, app, "POST", "/composer/sessions/"+sid+"/validate", "alice", nil, &v); code != fiber.StatusOK {
		t.Fatalf("validate status = %d", code)
	}
	if v.IsValid || v.Focus == nil {
		t.Fatalf("validate = %+v", v)
	}
}

func TestComposer_SaveThenPublish(t *testing.T) {
	app, store := newComposerApp(t)
	sid := open(t, app, "alice").SessionID
	fillActivitySupport(t, app, "alice", sid)

	var saved dto.ActionResp
	if code := call(t, app, "POST", "/composer/sessions/"+sid+"/save", "alice", nil, &saved); code != fiber.StatusOK {
		t.Fatalf("save status = %d (%+v)", code, saved.Notice)
	}
	if saved.Session == nil || saved.Session.Draft.ID == "" || saved.Session.State != composer.StateSaved {
		t.Fatalf("saved session = %+v", saved.Session)
	}
	id := saved.Session.Draft.ID

	var drafts []composer.Summary
	if code := call(t, app, "GET", "/composer/sessions/"+sid+"/drafts", "alice", nil, &drafts); code != fiber.StatusOK {
		t.Fatalf("drafts status = %d", code)
	}
	if len(drafts) != 1 || drafts[0].ID != id {
		t.Fatalf("drafts = %+v", drafts)
	}

	var pub dto.ActionResp
	if code := call(t, app, "POST", "/composer/sessions/"+sid+"/publish", "alice", nil, &pub); code != fiber.StatusOK {
		t.Fatalf("publish status = %d", code)
	}
	if pub.Redirect != composer.DefaultRedirect || pub.RedirectAfterMs != composer.RedirectDelay.Milliseconds() {
		t.Fatalf("redirect = %q after %d", pub.Redirect, pub.RedirectAfterMs)
	}
	if pub.Session.Draft.Title != "" || pub.Session.State != composer.StatePublished {
		t.Fatalf("draft not cleared: %+v", pub.Session)
	}
	if store.records[id].IsDraft {
		t.Fatal("stored draft still a draft")
	}
}

func TestComposer_LoadAndDeleteDraft(t *testing.T) {
	app, store := newComposerApp(t)
	store.put("d1", "alice", composer.Draft{Title: "舊草稿", IsDraft: true})
	store.put("d2", "bob", composer.Draft{Title: "別人的", IsDraft: true})
	sid := open(t, app, "alice").SessionID
	base := "/composer/sessions/" + sid + "/drafts/"

	var out dto.ActionResp
	if code := call(t, app, "POST", base+"d1/load", "alice", nil, &out); code != fiber.StatusOK {
		t.Fatalf("load status = %d", code)
	}
	if out.Session.Draft.Title != "舊草稿" || out.Session.Draft.ID != "d1" {
		t.Fatalf("loaded = %+v", out.Session.Draft)
	}
	if code := call(t, app, "POST", base+"d2/load", "alice", nil, nil); code != fiber.StatusForbidden {
		t.Fatalf("foreign load status = %d", code)
	}
	if code := call(t, app, "POST", base+"missing/load", "alice", nil, nil); code != fiber.StatusNotFound {
		t.Fatalf("missing load status = %d", code)
	}

	out = dto.ActionResp{}
	if code := call(t, app, "DELETE", base+"d1", "alice", nil, &out); code != fiber.StatusOK {
		t.Fatalf("delete status = %d", code)
	}
	if out.Session.Draft.ID != "" {
		t.Fatal("form not reset after deleting the loaded draft")
	}
	if _, ok := store.records["d1"]; ok {
		t.Fatal("draft not deleted")
	}
}

func TestComposer_SessionOwnership(t *testing.T) {
	app, _ := newComposerApp(t)
	sid := open(t, app, "alice").SessionID

	if code := call(t, app, "GET", "/composer/sessions/"+sid, "bob", nil, nil); code != fiber.StatusForbidden {
		t.Fatalf("foreign get status = %d", code)
	}
	if code := call(t, app, "POST", "/composer/sessions/"+sid+"/save", "bob", nil, nil); code != fiber.StatusForbidden {
		t.Fatalf("foreign save status = %d", code)
	}
	if code := call(t, app, "GET", "/composer/sessions/not-a-uuid", "alice", nil, nil); code != fiber.StatusNotFound {
		t.Fatalf("bad sid status = %d", code)
	}
	if code := call(t, app, "DELETE", "/composer/sessions/"+sid, "alice", nil, nil); code != fiber.StatusNoContent {
		t.Fatalf("discard status = %d", code)
	}
	if code := call(t, app, "GET", "/composer/sessions/"+sid, "alice", nil, nil); code != fiber.StatusNotFound {
		t.Fatalf("discarded get status = %d", code)
	}
}

func TestComposer_ResetClearsForm(t *testing.T) {
	app, _ := newComposerApp(t)
	sid := open(t, app, "alice").SessionID
	set(t, app, "alice", sid, "title", "暫存")

	var s dto.SessionResp
	if code := call(t, app, "POST", "/composer/sessions/"+sid+"/reset", "alice", nil, &s); code != fiber.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if s.Draft.Title != "" || s.State != composer.StateEditing {
		t.Fatalf("after reset = %+v", s)
	}
}

type fakePosts struct {
	after string
	limit int64
	err   error
	post  *models.Post
}

func (f *fakePosts) ListPublished(_ context.Context, limit int64, after string) ([]models.Post, *string, bool, error) {
	f.limit, f.after = limit, after
	if f.err != nil {
		return nil, nil, false, f.err
	}
	next := "next"
	return []models.Post{{Title: "a"}}, &next, true, nil
}

func (f *fakePosts) GetPublished(context.Context, string) (*models.Post, error) {
	if f.post == nil {
		return nil, repository.ErrPostNotFound
	}
	return f.post, nil
}

func TestListPublishedPosts(t *testing.T) {
	posts := &fakePosts{}
	app := fiber.New()
	app.Get("/posts", ListPublishedPosts(posts))
	app.Get("/posts/:post_id", GetPublishedPost(posts))

	var page dto.ListByCursorResp[models.Post]
	if code := call(t, app, "GET", "/posts?limit=500&cursor=abc", "", nil, &page); code != fiber.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if posts.limit != maxPageSize || posts.after != "abc" {
		t.Fatalf("limit=%d after=%q", posts.limit, posts.after)
	}
	if !page.HasMore || page.NextCursor == nil || len(page.Items) != 1 {
		t.Fatalf("page = %+v", page)
	}

	call(t, app, "GET", "/posts", "", nil, nil)
	if posts.limit != defaultPageSize {
		t.Fatalf("default limit = %d", posts.limit)
	}

	posts.err = repository.ErrBadCursor
	if code := call(t, app, "GET", "/posts?cursor=zz", "", nil, nil); code != fiber.StatusBadRequest {
		t.Fatalf("bad cursor status = %d", code)
	}
	posts.err = errors.New("mongo down")
	var e dto.ErrorResponse
	if code := call(t, app, "GET", "/posts", "", nil, &e); code != fiber.StatusInternalServerError || e.Error != "internal error" {
		t.Fatalf("store error = %d %q", code, e.Error)
	}

	if code := call(t, app, "GET", "/posts/x", "", nil, nil); code != fiber.StatusNotFound {
		t.Fatalf("missing post status = %d", code)
	}
}

type fakeInbox struct {
	unread []models.Notification
	marked *models.Notification
}

func (f *fakeInbox) Unread(context.Context, bson.ObjectID) ([]models.Notification, error) {
	return f.unread, nil
}

func (f *fakeInbox) MarkRead(context.Context, bson.ObjectID, bson.ObjectID) (*models.Notification, error) {
	if f.marked == nil {
		return nil, repository.ErrNotificationNotFound
	}
	return f.marked, nil
}

func TestNotifications(t *testing.T) {
	inbox := &fakeInbox{unread: []models.Notification{{Title: "a"}, {Title: "b"}}}
	app := fiber.New()
	app.Use(testActor)
	app.Get("/notifications", GetUnreadNotifications(inbox))
	app.Get("/notifications/:id", GetNotificationAndMarkRead(inbox))
	user := bson.NewObjectID().Hex()

	var list dto.UnreadNotificationsResp
	if code := call(t, app, "GET", "/notifications", user, nil, &list); code != fiber.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if list.UnreadCount != 2 {
		t.Fatalf("unread = %d", list.UnreadCount)
	}
	if code := call(t, app, "GET", "/notifications", "", nil, nil); code != fiber.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", code)
	}

	id := bson.NewObjectID().Hex()
	if code := call(t, app, "GET", "/notifications/"+id, user, nil, nil); code != fiber.StatusNotFound {
		t.Fatalf("missing status = %d", code)
	}
	inbox.marked = &models.Notification{Title: "a", Read: true}
	var one dto.NotificationResp
	if code := call(t, app, "GET", "/notifications/"+id, user, nil, &one); code != fiber.StatusOK || !one.Data.Read {
		t.Fatalf("mark read = %d %+v", code, one.Data)
	}
}

func TestReadyz(t *testing.T) {
	app := fiber.New()
	app.Get("/readyz", Readyz(map[string]Check{
		"mongo": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
	}))
	var res map[string]string
	if code := call(t, app, "GET", "/readyz", "", nil, &res); code != fiber.StatusServiceUnavailable {
		t.Fatalf("status = %d", code)
	}
	if res["mongo"] != "ok" || res["redis"] == "ok" {
		t.Fatalf("res = %v", res)
	}
}
