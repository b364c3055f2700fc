package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/pllus/clubmatch/internal/composer"
	"github.com/pllus/clubmatch/internal/metrics"
	"github.com/pllus/clubmatch/internal/repository"
	"github.com/pllus/clubmatch/internal/session"
)

var ErrSessionForbidden = errors.New("composer session belongs to another user")

// ComposerService runs composer actions against sessions kept in a
// session.Store. Every mutating action holds the session lock, so a second
// submit while one is in flight fails with composer.ErrBusy.
type ComposerService struct {
	sessions session.Store
	posts    composer.PostStore
	orgs     organizationNames
	log      *zap.Logger
	redirect string
}

func NewComposerService(sessions session.Store, posts composer.PostStore, orgs organizationNames,
	log *zap.Logger, redirect string) *ComposerService {
	if redirect == "" {
		redirect = composer.DefaultRedirect
	}
	return &ComposerService{sessions: sessions, posts: posts, orgs: orgs, log: log, redirect: redirect}
}

func (s *ComposerService) newComposer() *composer.Composer {
	return composer.New(s.posts, composer.WithLogger(s.log), composer.WithRedirect(s.redirect))
}

// Open starts a session for actor. The organization name and email are
// prefilled; with a draftID the draft is loaded as well.
func (s *ComposerService) Open(ctx context.Context, actor *composer.Actor, draftID string) (*session.Session, composer.Outcome, error) {
	if actor == nil || actor.ID == "" {
		return nil, composer.Outcome{}, composer.ErrNotLoggedIn
	}
	c := s.newComposer()
	_ = c.SetField(composer.FieldOrganizationName, s.organizationName(ctx, actor.ID))
	_ = c.SetField(composer.FieldEmail, actor.Email)

	var out composer.Outcome
	if draftID != "" {
		var err error
		out, err = c.LoadDraft(ctx, actor, draftID)
		record("load", err)
		if err != nil {
			return nil, out, err
		}
	}

	sess := session.New(actor.ID, c.Snapshot())
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, out, fmt.Errorf("store session: %w", err)
	}
	metrics.ActiveSessions.Inc()
	s.log.Info("composer session opened", zap.String("session_id", sess.ID), zap.String("user_id", actor.ID))
	return sess, out, nil
}

func (s *ComposerService) organizationName(ctx context.Context, userID string) string {
	oid, err := bson.ObjectIDFromHex(userID)
	if err != nil || s.orgs == nil {
		return repository.UnknownOrganization
	}
	name, ok, err := s.orgs.FindName(ctx, oid)
	if err != nil {
		s.log.Warn("organization lookup failed", zap.String("user_id", userID), zap.Error(err))
	}
	if !ok {
		return repository.UnknownOrganization
	}
	return name
}

// Get returns the actor's session without locking it.
func (s *ComposerService) Get(ctx context.Context, actor *composer.Actor, sid string) (*session.Session, error) {
	if actor == nil || actor.ID == "" {
		return nil, composer.ErrNotLoggedIn
	}
	if !session.ValidID(sid) {
		return nil, session.ErrNotFound
	}
	sess, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if sess.OwnerID != actor.ID {
		return nil, ErrSessionForbidden
	}
	return sess, nil
}

// Do restores the session's composer, runs fn under the session lock and
// stores the resulting snapshot. The snapshot is stored even when fn fails,
// since failed actions still move the composer (back to editing, new focus).
func (s *ComposerService) Do(ctx context.Context, actor *composer.Actor, sid, action string,
	fn func(*composer.Composer) (composer.Outcome, error)) (*session.Session, composer.Outcome, error) {

	if actor == nil || actor.ID == "" {
		record(action, composer.ErrNotLoggedIn)
		return nil, composer.Outcome{}, composer.ErrNotLoggedIn
	}
	if !session.ValidID(sid) {
		return nil, composer.Outcome{}, session.ErrNotFound
	}

	release, err := s.sessions.Lock(ctx, sid)
	if errors.Is(err, session.ErrLocked) {
		record(action, composer.ErrBusy)
		return nil, composer.Outcome{}, composer.ErrBusy
	}
	if err != nil {
		return nil, composer.Outcome{}, err
	}
	defer release()

	sess, err := s.Get(ctx, actor, sid)
	if err != nil {
		return nil, composer.Outcome{}, err
	}

	c := s.newComposer()
	c.Restore(sess.Snapshot)
	out, actErr := fn(c)
	record(action, actErr)

	sess.Snapshot = c.Snapshot()
	if err := s.sessions.Put(ctx, sess); err != nil {
		s.log.Error("store session", zap.String("session_id", sid), zap.Error(err))
		if actErr == nil {
			actErr = fmt.Errorf("store session: %w", err)
		}
	}
	return sess, out, actErr
}

// Discard drops the session. Stored drafts are not touched.
func (s *ComposerService) Discard(ctx context.Context, actor *composer.Actor, sid string) error {
	if _, err := s.Get(ctx, actor, sid); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sid); err != nil {
		return err
	}
	metrics.ActiveSessions.Dec()
	return nil
}

func record(action string, err error) {
	metrics.ComposerActions.WithLabelValues(action, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	var verr *composer.ValidationError
	var serr *composer.StoreError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, composer.ErrNotLoggedIn):
		return "unauthenticated"
	case errors.Is(err, composer.ErrBusy):
		return "busy"
	case errors.Is(err, composer.ErrForbidden):
		return "forbidden"
	case errors.Is(err, composer.ErrDraftNotFound):
		return "not_found"
	case errors.As(err, &serr):
		return "store_error"
	}
	return "error"
}
