package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/pllus/clubmatch/internal/composer"
	m "github.com/pllus/clubmatch/internal/models"
	"github.com/pllus/clubmatch/internal/repository"
	"github.com/pllus/clubmatch/internal/session"
)

// memPosts is an in-memory Post Store.
type memPosts struct {
	mu      sync.Mutex
	records map[string]*composer.Record
	created []composer.Draft
	fail    error
}

func newMemPosts() *memPosts { return &memPosts{records: map[string]*composer.Record{}} }

func (p *memPosts) CreatePost(_ context.Context, authorID string, d composer.Draft) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return "", p.fail
	}
	id := bson.NewObjectID().Hex()
	p.created = append(p.created, d)
	p.records[id] = toRecord(id, authorID, d)
	return id, nil
}

func (p *memPosts) UpdateDraft(_ context.Context, authorID, id string, d composer.Draft) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.records[id]
	if !ok || r.AuthorID != authorID || !r.IsDraft {
		return composer.ErrDraftNotFound
	}
	p.records[id] = toRecord(id, authorID, d)
	return nil
}

func (p *memPosts) PublishDraft(_ context.Context, authorID, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.records[id]
	if !ok || r.AuthorID != authorID || !r.IsDraft {
		return composer.ErrDraftNotFound
	}
	r.IsDraft = false
	return nil
}

func (p *memPosts) GetPostByID(_ context.Context, id string) (*composer.Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.records[id]
	if !ok {
		return nil, composer.ErrDraftNotFound
	}
	cp := *r
	return &cp, nil
}

func (p *memPosts) GetUserDrafts(_ context.Context, userID string) ([]composer.Summary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []composer.Summary
	for _, r := range p.records {
		if r.AuthorID == userID && r.IsDraft {
			out = append(out, composer.Summary{ID: r.ID, Title: r.Values[composer.FieldTitle]})
		}
	}
	return out, nil
}

func (p *memPosts) DeletePost(_ context.Context, authorID, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.records[id]
	if !ok || r.AuthorID != authorID || !r.IsDraft {
		return composer.ErrDraftNotFound
	}
	delete(p.records, id)
	return nil
}

func toRecord(id, authorID string, d composer.Draft) *composer.Record {
	r := &composer.Record{
		ID: id, AuthorID: authorID, IsDraft: d.IsDraft, PurposeType: d.PurposeType,
		Values: map[composer.Field]string{}, CustomItems: d.CustomItems,
	}
	for _, f := range composer.TextFields() {
		r.Values[f] = d.Value(f)
	}
	return r
}

type spyNotifier struct {
	calls []string
	err   error
}

func (n *spyNotifier) NotifyPostPublished(_ context.Context, authorID, postID, title string) (int, error) {
	n.calls = append(n.calls, postID+"|"+title)
	return 3, n.err
}

type fakeOrgs struct {
	name string
	ok   bool
	err  error
}

func (o fakeOrgs) FindName(context.Context, bson.ObjectID) (string, bool, error) {
	return o.name, o.ok, o.err
}

func TestBuildTitleBody(t *testing.T) {
	title, body, err := BuildTitleBody(NotiPostPublished, m.NotiParams{AuthorName: "資訊社", PostTitle: "講座"})
	if err != nil {
		t.Fatal(err)
	}
	if title != "資訊社發布了新文章" || !strings.Contains(body, "「講座」") {
		t.Fatalf("got %q / %q", title, body)
	}

	_, body, _ = BuildTitleBody(NotiPostPublished, m.NotiParams{PostTitle: "講座"})
	if !strings.Contains(body, someOrganization) {
		t.Fatalf("fallback author missing: %q", body)
	}

	if _, _, err := BuildTitleBody(NotiDeadlineReminder, m.NotiParams{PostTitle: "x"}); err == nil {
		t.Fatal("reminder without deadline accepted")
	}
	if _, _, err := BuildTitleBody("NOPE", m.NotiParams{}); err == nil {
		t.Fatal("unknown type accepted")
	}
}

func TestPostService_SanitizesAndAnnounces(t *testing.T) {
	store := newMemPosts()
	notifier := &spyNotifier{}
	svc := NewPostService(store, notifier, zap.NewNop())
	author := bson.NewObjectID().Hex()

	d := composer.Draft{Title: "<b>開發者之夜</b>", CustomItems: []string{"<i>場地</i>", "<p></p>"}, IsDraft: true}
	id, err := svc.CreatePost(context.Background(), author, d)
	if err != nil {
		t.Fatal(err)
	}
	got := store.created[0]
	if got.Title != "開發者之夜" || len(got.CustomItems) != 1 || got.CustomItems[0] != "場地" {
		t.Fatalf("stored %+v", got)
	}
	if len(notifier.calls) != 0 {
		t.Fatal("draft must not notify subscribers")
	}

	if err := svc.PublishDraft(context.Background(), author, id); err != nil {
		t.Fatal(err)
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != id+"|開發者之夜" {
		t.Fatalf("calls = %v", notifier.calls)
	}
}

func TestPostService_StoresNoPlaceholdersAndCalendarDates(t *testing.T) {
	store := newMemPosts()
	svc := NewPostService(store, nil, zap.NewNop())

	d := composer.Draft{
		Title:             "講座",
		EventDescription:  composer.NotFilled,
		SchoolName:        " " + composer.NotFilled + " ",
		EventDate:         "2025-06-10T09:00:00Z",
		CooperationReturn: "2025-06-07T18:30:00+08:00",
		IsDraft:           true,
	}
	if _, err := svc.CreatePost(context.Background(), bson.NewObjectID().Hex(), d); err != nil {
		t.Fatal(err)
	}
	got := store.created[0]
	if got.EventDescription != "" || got.SchoolName != "" {
		t.Fatalf("placeholder stored: %q / %q", got.EventDescription, got.SchoolName)
	}
	if got.EventDate != "2025-06-10" || got.CooperationReturn != "2025-06-07" {
		t.Fatalf("dates stored as %q / %q", got.EventDate, got.CooperationReturn)
	}
}

func TestPostService_FanOutFailureIsNotFatal(t *testing.T) {
	store := newMemPosts()
	notifier := &spyNotifier{err: errors.New("mongo down")}
	svc := NewPostService(store, notifier, zap.NewNop())

	id, err := svc.CreatePost(context.Background(), bson.NewObjectID().Hex(), composer.Draft{Title: "公開"})
	if err != nil || id == "" {
		t.Fatalf("publish failed because of fan-out: %v", err)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("calls = %v", notifier.calls)
	}
}

func completeDraft() composer.Draft {
	return composer.Draft{
		PurposeType:           composer.PurposeActivitySupport,
		Title:                 "開發者之夜",
		ContactPerson:         "王小明",
		ContactPhone:          "0912345678",
		ContactEmail:          "contact@example.edu",
		CustomItems:           []string{"場地"},
		EventName:             "開發者之夜",
		EventType:             "講座",
		EstimatedParticipants: "100",
		Location:              "活動中心",
		EventDate:             "2025-06-10",
		EventEndDate:          "2025-06-11",
		CooperationReturn:     "2025-06-05",
		ParticipationType:     "現場",
	}
}

func newComposerService(t *testing.T, orgs organizationNames) (*ComposerService, *memPosts, session.Store) {
	t.Helper()
	posts := newMemPosts()
	sessions := session.NewMemoryStore(0)
	return NewComposerService(sessions, posts, orgs, zap.NewNop(), ""), posts, sessions
}

func TestComposerService_OpenPrefills(t *testing.T) {
	svc, _, _ := newComposerService(t, fakeOrgs{name: "資訊社", ok: true})
	actor := &composer.Actor{ID: bson.NewObjectID().Hex(), Email: "club@example.edu"}

	sess, _, err := svc.Open(context.Background(), actor, "")
	if err != nil {
		t.Fatal(err)
	}
	d := sess.Snapshot.Draft
	if d.OrganizationName != "資訊社" || d.Email != "club@example.edu" {
		t.Fatalf("prefill = %q / %q", d.OrganizationName, d.Email)
	}

	svc2, _, _ := newComposerService(t, fakeOrgs{})
	sess2, _, err := svc2.Open(context.Background(), actor, "")
	if err != nil {
		t.Fatal(err)
	}
	if sess2.Snapshot.Draft.OrganizationName != repository.UnknownOrganization {
		t.Fatalf("fallback = %q", sess2.Snapshot.Draft.OrganizationName)
	}

	if _, _, err := svc.Open(context.Background(), nil, ""); !errors.Is(err, composer.ErrNotLoggedIn) {
		t.Fatalf("want ErrNotLoggedIn, got %v", err)
	}
}

func TestComposerService_SaveThenPublish(t *testing.T) {
	svc, posts, _ := newComposerService(t, fakeOrgs{name: "資訊社", ok: true})
	actor := &composer.Actor{ID: bson.NewObjectID().Hex(), Email: "club@example.edu"}
	ctx := context.Background()

	sess, _, err := svc.Open(ctx, actor, "")
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = svc.Do(ctx, actor, sess.ID, "edit", func(c *composer.Composer) (composer.Outcome, error) {
		d := completeDraft()
		for _, f := range composer.TextFields() {
			if v := d.Value(f); v != "" {
				if err := c.SetField(f, v); err != nil {
					return composer.Outcome{}, err
				}
			}
		}
		c.SetCustomItems(d.CustomItems)
		return composer.Outcome{}, c.SetField(composer.FieldPurposeType, string(d.PurposeType))
	})
	if err != nil {
		t.Fatal(err)
	}

	sess, out, err := svc.Do(ctx, actor, sess.ID, "save", func(c *composer.Composer) (composer.Outcome, error) {
		return c.SaveDraft(ctx, actor)
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.State != composer.StateSaved || sess.Snapshot.Draft.ID == "" {
		t.Fatalf("after save: %+v / id %q", out, sess.Snapshot.Draft.ID)
	}
	draftID := sess.Snapshot.Draft.ID

	sess, out, err = svc.Do(ctx, actor, sess.ID, "publish", func(c *composer.Composer) (composer.Outcome, error) {
		return c.Publish(ctx, actor)
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.State != composer.StatePublished || sess.Snapshot.Draft.ID != "" {
		t.Fatalf("after publish: %+v", out)
	}
	if rec, _ := posts.GetPostByID(ctx, draftID); rec == nil || rec.IsDraft {
		t.Fatal("draft not published in store")
	}
}

func TestComposerService_LockAndOwnership(t *testing.T) {
	svc, _, sessions := newComposerService(t, nil)
	owner := &composer.Actor{ID: bson.NewObjectID().Hex()}
	other := &composer.Actor{ID: bson.NewObjectID().Hex()}
	ctx := context.Background()

	sess, _, err := svc.Open(ctx, owner, "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(ctx, other, sess.ID); !errors.Is(err, ErrSessionForbidden) {
		t.Fatalf("want ErrSessionForbidden, got %v", err)
	}

	release, err := sessions.Lock(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = svc.Do(ctx, owner, sess.ID, "save", func(c *composer.Composer) (composer.Outcome, error) {
		t.Fatal("action ran while session locked")
		return composer.Outcome{}, nil
	})
	if !errors.Is(err, composer.ErrBusy) {
		t.Fatalf("want ErrBusy, got %v", err)
	}
	release()

	if _, err := svc.Get(ctx, owner, "not-a-uuid"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := svc.Discard(ctx, owner, sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, owner, sess.ID); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("discarded session still readable: %v", err)
	}
}

func TestComposerService_FailedActionStillStored(t *testing.T) {
	svc, _, _ := newComposerService(t, nil)
	actor := &composer.Actor{ID: bson.NewObjectID().Hex()}
	ctx := context.Background()

	sess, _, _ := svc.Open(ctx, actor, "")
	_, out, err := svc.Do(ctx, actor, sess.ID, "save", func(c *composer.Composer) (composer.Outcome, error) {
		if err := c.SetField(composer.FieldTitle, "只有標題"); err != nil {
			return composer.Outcome{}, err
		}
		return c.SaveDraft(ctx, actor)
	})
	var verr *composer.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if out.Focus == nil || *out.Focus != composer.FieldCustomItems {
		t.Fatalf("focus = %v", out.Focus)
	}
	got, _ := svc.Get(ctx, actor, sess.ID)
	if got.Snapshot.Draft.Title != "只有標題" {
		t.Fatal("edit before failed save was lost")
	}
}

func TestResultLabel(t *testing.T) {
	cases := map[string]error{
		"ok":              nil,
		"invalid":         &composer.ValidationError{},
		"unauthenticated": composer.ErrNotLoggedIn,
		"busy":            composer.ErrBusy,
		"not_found":       composer.ErrDraftNotFound,
		"store_error":     &composer.StoreError{Op: "x", Err: errors.New("y")},
		"error":           errors.New("other"),
	}
	for want, err := range cases {
		if got := resultLabel(err); got != want {
			t.Errorf("resultLabel(%v) = %q, want %q", err, got, want)
		}
	}
}
