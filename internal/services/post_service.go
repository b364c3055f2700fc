package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pllus/clubmatch/internal/composer"
	"github.com/pllus/clubmatch/internal/utils"
)

// fanOutTimeout bounds subscriber notification after a publish.
const fanOutTimeout = 10 * time.Second

type publishNotifier interface {
	NotifyPostPublished(ctx context.Context, authorID, postID, title string) (int, error)
}

// PostService is the Post Store handed to composers. It cleans user text
// before it is stored and tells subscribers when a post goes public.
// Notification failures are logged and never fail the write.
type PostService struct {
	store    composer.PostStore
	notifier publishNotifier
	log      *zap.Logger
}

func NewPostService(store composer.PostStore, notifier publishNotifier, log *zap.Logger) *PostService {
	return &PostService{store: store, notifier: notifier, log: log}
}

var _ composer.PostStore = (*PostService)(nil)

func sanitize(d composer.Draft) composer.Draft {
	d = d.Stored()
	for _, f := range composer.TextFields() {
		// Set only fails for non-text fields
		_ = d.Set(f, utils.PlainText(d.Value(f)))
	}
	items := make([]string, 0, len(d.CustomItems))
	for _, it := range d.CustomItems {
		if it = utils.PlainText(it); it != "" {
			items = append(items, it)
		}
	}
	d.CustomItems = items
	return d
}

func (s *PostService) CreatePost(ctx context.Context, authorID string, d composer.Draft) (string, error) {
	d = sanitize(d)
	id, err := s.store.CreatePost(ctx, authorID, d)
	if err != nil {
		return "", err
	}
	if !d.IsDraft {
		s.announce(ctx, authorID, id, d.Title)
	}
	return id, nil
}

func (s *PostService) UpdateDraft(ctx context.Context, authorID, id string, d composer.Draft) error {
	return s.store.UpdateDraft(ctx, authorID, id, sanitize(d))
}

func (s *PostService) PublishDraft(ctx context.Context, authorID, id string) error {
	if err := s.store.PublishDraft(ctx, authorID, id); err != nil {
		return err
	}
	title := ""
	if rec, err := s.store.GetPostByID(ctx, id); err != nil {
		s.log.Warn("reload published post", zap.String("post_id", id), zap.Error(err))
	} else {
		title = rec.Values[composer.FieldTitle]
	}
	s.announce(ctx, authorID, id, title)
	return nil
}

func (s *PostService) GetPostByID(ctx context.Context, id string) (*composer.Record, error) {
	return s.store.GetPostByID(ctx, id)
}

func (s *PostService) GetUserDrafts(ctx context.Context, userID string) ([]composer.Summary, error) {
	return s.store.GetUserDrafts(ctx, userID)
}

func (s *PostService) DeletePost(ctx context.Context, authorID, id string) error {
	return s.store.DeletePost(ctx, authorID, id)
}

func (s *PostService) announce(ctx context.Context, authorID, postID, title string) {
	if s.notifier == nil || title == "" {
		return
	}
	// Runs inside the publish request; a client disconnect must not cut the
	// fan-out short, so only fanOutTimeout bounds it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fanOutTimeout)
	defer cancel()

	n, err := s.notifier.NotifyPostPublished(ctx, authorID, postID, title)
	if err != nil {
		s.log.Error("notify subscribers failed",
			zap.String("post_id", postID), zap.String("author_id", authorID), zap.Error(err))
		return
	}
	s.log.Info("subscribers notified", zap.String("post_id", postID), zap.Int("count", n))
}
