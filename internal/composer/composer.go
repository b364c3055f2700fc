package composer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// State of the composer between user actions.
type State uint8

const (
	StateEditing State = iota
	StateSaving
	StateSaved
	StatePublished
)

var stateNames = [...]string{"editing", "saving", "saved", "published"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(b []byte) error {
	for i, n := range stateNames {
		if n == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown composer state %q", string(b))
}

// Actor is the authenticated user performing an action.
type Actor struct {
	ID    string
	Email string
}

func (a *Actor) loggedIn() bool { return a != nil && a.ID != "" }

// PostStore is the persistence collaborator. Write operations are scoped to
// the author so one user cannot touch another user's posts.
type PostStore interface {
	CreatePost(ctx context.Context, authorID string, d Draft) (string, error)
	UpdateDraft(ctx context.Context, authorID, id string, d Draft) error
	PublishDraft(ctx context.Context, authorID, id string) error
	GetPostByID(ctx context.Context, id string) (*Record, error)
	GetUserDrafts(ctx context.Context, userID string) ([]Summary, error)
	DeletePost(ctx context.Context, authorID, id string) error
}

// DefaultRedirect is where the form goes after a successful publish.
const DefaultRedirect = "/posts"

// RedirectDelay gives the user time to read the success notice.
const RedirectDelay = 2 * time.Second

// Outcome is what the UI needs after an action: a notice, an optional
// focus target, and an optional redirect.
type Outcome struct {
	State         State
	Notice        Notice
	Validation    *Result
	Focus         *Field
	Redirect      string
	RedirectAfter time.Duration
}

// Snapshot is the serialisable state of a composer.
type Snapshot struct {
	Draft  Draft     `json:"draft"`
	State  State     `json:"state"`
	Drafts []Summary `json:"drafts"`
}

// Composer runs the draft/publish flow for one editing session. It is not
// safe for concurrent use; callers serialise access per session.
type Composer struct {
	store    PostStore
	log      *zap.Logger
	redirect string

	draft   Draft
	state   State
	drafts  []Summary
	loading bool
}

type Option func(*Composer)

func WithLogger(l *zap.Logger) Option {
	return func(c *Composer) { c.log = l }
}

func WithRedirect(path string) Option {
	return func(c *Composer) { c.redirect = path }
}

// New returns a blank composer in the editing state.
func New(store PostStore, opts ...Option) *Composer {
	c := &Composer{
		store:    store,
		log:      zap.L(),
		redirect: DefaultRedirect,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Restore loads a snapshot taken by Snapshot.
func (c *Composer) Restore(s Snapshot) {
	c.draft = s.Draft
	c.state = s.State
	if c.state == StateSaving {
		// a save never finishes across processes
		c.state = StateEditing
	}
	c.drafts = append([]Summary(nil), s.Drafts...)
}

func (c *Composer) Snapshot() Snapshot {
	return Snapshot{
		Draft:  c.Draft(),
		State:  c.state,
		Drafts: c.Drafts(),
	}
}

func (c *Composer) Draft() Draft {
	d := c.draft
	d.CustomItems = append([]string(nil), c.draft.CustomItems...)
	return d
}

func (c *Composer) State() State { return c.state }

func (c *Composer) Loading() bool { return c.loading }

func (c *Composer) Drafts() []Summary { return append([]Summary(nil), c.drafts...) }

// SetField edits one text field. Changing eventDate re-derives the default
// sponsorship deadline when none is set.
func (c *Composer) SetField(f Field, v string) error {
	if err := c.draft.Set(f, v); err != nil {
		return err
	}
	if f == FieldEventDate {
		if deadline, ok := DeriveDefaultDeadline(c.draft.EventDate, c.draft.CooperationReturn); ok {
			c.draft.CooperationReturn = deadline
		}
	}
	c.state = StateEditing
	return nil
}

func (c *Composer) SetCustomItems(items []string) {
	c.draft.CustomItems = append([]string(nil), items...)
	c.state = StateEditing
}

// Reset blanks the form.
func (c *Composer) Reset() {
	c.draft = Draft{}
	c.state = StateEditing
}

// Validate runs the validator against the current draft and its purpose.
func (c *Composer) Validate() Result {
	return Validate(c.draft, c.draft.PurposeType)
}

// SaveDraft validates and persists the draft with isDraft=true, creating
// the record on first save and updating it afterwards.
func (c *Composer) SaveDraft(ctx context.Context, actor *Actor) (Outcome, error) {
	if out, err := c.gate(actor); err != nil {
		return out, err
	}

	c.begin()
	defer c.end()

	d := c.Draft().Stored()
	d.IsDraft = true

	id := d.ID
	var err error
	if id == "" {
		id, err = c.store.CreatePost(ctx, actor.ID, d)
	} else {
		err = c.store.UpdateDraft(ctx, actor.ID, id, d)
	}
	if err != nil {
		c.state = StateEditing
		c.log.Error("save draft failed",
			zap.String("draft_id", id), zap.String("user_id", actor.ID), zap.Error(err))
		return c.fail(msgSaveDraftFailed + "：" + err.Error()), &StoreError{Op: "save draft", Err: err}
	}

	c.draft.ID = id
	c.draft.IsDraft = true
	c.state = StateSaved
	c.log.Info("draft saved", zap.String("draft_id", id), zap.String("user_id", actor.ID))
	return Outcome{State: c.state, Notice: success(msgDraftSaved)}, nil
}

// Publish validates and makes the post public. A draft that was saved before
// is published from its stored copy; a fresh draft is created as published.
func (c *Composer) Publish(ctx context.Context, actor *Actor) (Outcome, error) {
	if out, err := c.gate(actor); err != nil {
		return out, err
	}

	c.begin()
	defer c.end()

	var (
		err error
		msg string
		id  = c.draft.ID
	)
	if id != "" {
		// Edits made after the last save are not sent; the stored draft is
		// what gets published.
		err = c.store.PublishDraft(ctx, actor.ID, id)
		msg = msgDraftPublished
	} else {
		d := c.Draft().Stored()
		d.IsDraft = false
		id, err = c.store.CreatePost(ctx, actor.ID, d)
		msg = msgPostPublished
	}
	if err != nil {
		c.state = StateEditing
		c.log.Error("publish failed",
			zap.String("draft_id", id), zap.String("user_id", actor.ID), zap.Error(err))
		return c.fail(msgPublishFailed), &StoreError{Op: "publish", Err: err}
	}

	if c.draft.ID != "" {
		c.dropDraft(c.draft.ID)
	}
	c.draft = Draft{}
	c.state = StatePublished
	c.log.Info("post published", zap.String("post_id", id), zap.String("user_id", actor.ID))
	return Outcome{
		State:         c.state,
		Notice:        success(msg),
		Redirect:      c.redirect,
		RedirectAfter: RedirectDelay,
	}, nil
}

// LoadDrafts fetches the actor's drafts, newest first.
func (c *Composer) LoadDrafts(ctx context.Context, actor *Actor) (Outcome, error) {
	if !actor.loggedIn() {
		return c.fail(msgLoginToViewDrafts), ErrNotLoggedIn
	}
	drafts, err := c.store.GetUserDrafts(ctx, actor.ID)
	if err != nil {
		c.log.Error("list drafts failed", zap.String("user_id", actor.ID), zap.Error(err))
		return c.fail(msgLoadDraftFailed), &StoreError{Op: "list drafts", Err: err}
	}
	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].CreatedAt.After(drafts[j].CreatedAt)
	})
	c.drafts = drafts
	return Outcome{State: c.state}, nil
}

// LoadDraft replaces the form with a stored draft of the actor.
func (c *Composer) LoadDraft(ctx context.Context, actor *Actor, id string) (Outcome, error) {
	if !actor.loggedIn() {
		return c.fail(msgNotLoggedIn), ErrNotLoggedIn
	}
	rec, err := c.store.GetPostByID(ctx, id)
	switch {
	case errors.Is(err, ErrDraftNotFound) || (err == nil && (rec == nil || !rec.IsDraft)):
		return c.fail(msgDraftNotFound), ErrDraftNotFound
	case err != nil:
		c.log.Error("load draft failed", zap.String("draft_id", id), zap.Error(err))
		return c.fail(msgLoadDraftFailed), &StoreError{Op: "load draft", Err: err}
	case rec.AuthorID != actor.ID:
		return c.fail(msgForbidden), ErrForbidden
	}

	c.draft = Hydrate(*rec)
	c.state = StateEditing
	return Outcome{State: c.state, Notice: success(msgDraftLoaded)}, nil
}

// DeleteDraft removes a stored draft. If it is the one in the form, the form
// is cleared too.
func (c *Composer) DeleteDraft(ctx context.Context, actor *Actor, id string) (Outcome, error) {
	if !actor.loggedIn() {
		return c.fail(msgNotLoggedIn), ErrNotLoggedIn
	}
	if err := c.store.DeletePost(ctx, actor.ID, id); err != nil {
		c.log.Error("delete draft failed", zap.String("draft_id", id), zap.Error(err))
		if errors.Is(err, ErrDraftNotFound) {
			return c.fail(msgDraftNotFound), err
		}
		return c.fail(msgDeleteDraftFailed), &StoreError{Op: "delete draft", Err: err}
	}

	c.dropDraft(id)
	if c.draft.ID == id {
		c.Reset()
	}
	return Outcome{State: c.state, Notice: success(msgDraftDeleted)}, nil
}

// gate runs the checks shared by save and publish: in-flight guard,
// validation, and login. No store call happens when it fails.
func (c *Composer) gate(actor *Actor) (Outcome, error) {
	if c.loading {
		return c.fail(msgBusy), ErrBusy
	}
	res := c.Validate()
	if !res.Valid {
		c.state = StateEditing
		out := c.fail(msgFillRequired)
		out.Validation = &res
		if f, ok := FirstErrorTarget(res.FieldErrors); ok {
			out.Focus = &f
		}
		c.log.Debug("submit blocked by validation",
			zap.Stringers("fields", fieldStringers(res.FieldErrors.Invalid())))
		return out, &ValidationError{Result: res, Focus: out.Focus}
	}
	if !actor.loggedIn() {
		c.state = StateEditing
		return c.fail(msgNotLoggedIn), ErrNotLoggedIn
	}
	return Outcome{}, nil
}

// dropDraft removes id from the draft list without touching the store's slice.
func (c *Composer) dropDraft(id string) {
	kept := make([]Summary, 0, len(c.drafts))
	for _, s := range c.drafts {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	c.drafts = kept
}

func (c *Composer) begin() {
	c.loading = true
	c.state = StateSaving
}

func (c *Composer) end() { c.loading = false }

func (c *Composer) fail(msg string) Outcome {
	return Outcome{State: c.state, Notice: failure(msg)}
}

func fieldStringers(fs []Field) []fmt.Stringer {
	out := make([]fmt.Stringer, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}
