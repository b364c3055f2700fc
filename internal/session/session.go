package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pllus/clubmatch/internal/composer"
)

var (
	ErrNotFound = errors.New("composer session not found")
	ErrLocked   = errors.New("composer session busy")
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 2 * time.Hour

// lockTTL bounds a lock left behind by a crashed request.
const lockTTL = 30 * time.Second

// Session is one open composer, owned by the user who opened it.
type Session struct {
	ID        string            `json:"id"`
	OwnerID   string            `json:"ownerId"`
	Snapshot  composer.Snapshot `json:"snapshot"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// New returns a session with a fresh id.
func New(ownerID string, snap composer.Snapshot) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Snapshot:  snap,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Store persists sessions. Lock returns ErrLocked when another request holds
// the session; the returned release func is safe to call once.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Lock(ctx context.Context, id string) (release func(), err error)
}

// ValidID rejects ids that could not have come from New.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
