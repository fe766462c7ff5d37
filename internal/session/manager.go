package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned when a session is not found
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a session has expired
	ErrSessionExpired = errors.New("session expired")
	// ErrInvalidSession is returned when stored session data is invalid
	ErrInvalidSession = errors.New("invalid session")
)

// Manager defines the interface for session management operations
type Manager interface {
	Establish(ctx context.Context, role string) (*Session, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	TTL() time.Duration
}

type manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewManager creates a session manager with the given fixed session TTL
func NewManager(store Store, ttl time.Duration) Manager {
	return &manager{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Establish creates a logged-in session carrying the granted role and
// returns it. The session id doubles as the bearer token set in the cookie.
func (m *manager) Establish(ctx context.Context, role string) (*Session, error) {
	now := m.now()
	sess := &Session{
		ID:        uuid.New().String(),
		LoggedIn:  true,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := m.store.Set(ctx, sessionKey(sess.ID), string(data), m.ttl); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return sess, nil
}

// Get retrieves a session by ID. An expired session is deleted and reported
// as expired.
func (m *manager) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := m.store.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, ErrSessionNotFound
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, ErrInvalidSession
	}

	// The store TTL should already have evicted this, but be defensive:
	// redis TTLs are best-effort on the millisecond scale.
	if m.now().After(sess.ExpiresAt) {
		_ = m.store.Delete(ctx, sessionKey(sessionID))
		return nil, ErrSessionExpired
	}

	return &sess, nil
}

// Delete removes a session (explicit logout)
func (m *manager) Delete(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionKey(sessionID))
}

// TTL returns the fixed session lifetime
func (m *manager) TTL() time.Duration {
	return m.ttl
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
