// Package session holds interactive ruler views for the preview server.
//
// Each session owns one [view.View] and is identified by a random UUID.
// Sessions expire after a sliding TTL; every access extends it.
//
// # Usage
//
//	store := session.NewMemoryStore()
//	sess := session.New(view.New(data, view.Options{}), session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) {
//	    // unknown or expired
//	}
//	sess.Do(func(v *view.View) { v.Click(date) })
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/timeruler/pkg/ruler/view"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// DefaultTTL is the default idle lifetime of a view session.
const DefaultTTL = time.Hour

// Session is one client's view of the ruler.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	view      *view.View
	ttl       time.Duration
	expiresAt time.Time
}

// New wraps v in a session with a fresh ID.
func New(v *view.View, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		view:      v,
		ttl:       ttl,
		expiresAt: now.Add(ttl),
	}
}

// Do runs fn with exclusive access to the view and extends the session.
func (s *Session) Do(fn func(v *view.View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.view)
	s.expiresAt = time.Now().Add(s.ttl)
}

// ExpiresAt returns when the session expires if left idle.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// IsExpired reports whether the session expired before now.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt())
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session doesn't exist and ErrExpired if it has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Missing sessions are not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns how many were removed.
	Cleanup(ctx context.Context) (int, error)
}
