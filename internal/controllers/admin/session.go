package adminController

import (
	"context"
	"sync"
	"time"

	"elvalg/internal/database"
)

type Session struct {
	Token     string    `json:"token"`
	Login     string    `json:"login"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionStore holds sessions until they expire. Expiry is judged by the
// caller's clock; Get returns whatever is stored.
type SessionStore interface {
	Save(ctx context.Context, session Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (*Session, bool, error)
	Delete(ctx context.Context, token string) error
}

// NewSessionStore keeps sessions in the session cache, or in process memory
// when no cache is configured.
func NewSessionStore(client database.CacheClient) SessionStore {
	if client == nil {
		return &memorySessions{sessions: make(map[string]Session)}
	}
	return &cacheSessions{client: client}
}

type cacheSessions struct {
	client database.CacheClient
}

func sessionKey(token string) string {
	return "session:" + token
}

func (s *cacheSessions) Save(ctx context.Context, session Session, ttl time.Duration) error {
	return database.NewCacheBuilder(s.client, sessionKey(session.Token)).
		WithContext(ctx).
		WithStruct(session).
		WithTTL(ttl).
		Set()
}

func (s *cacheSessions) Get(ctx context.Context, token string) (*Session, bool, error) {
	var session Session
	found, err := database.NewCacheBuilder(s.client, sessionKey(token)).WithContext(ctx).Get(&session)
	if err != nil || !found {
		return nil, false, err
	}
	return &session, true, nil
}

func (s *cacheSessions) Delete(ctx context.Context, token string) error {
	return database.NewCacheBuilder(s.client, sessionKey(token)).WithContext(ctx).Delete()
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]Session
}

// Save drops sessions that expired before the new one was issued.
func (s *memorySessions) Save(_ context.Context, session Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	issuedAt := session.ExpiresAt.Add(-ttl)
	for token, existing := range s.sessions {
		if !existing.ExpiresAt.After(issuedAt) {
			delete(s.sessions, token)
		}
	}
	s.sessions[session.Token] = session
	return nil
}

func (s *memorySessions) Get(_ context.Context, token string) (*Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, false, nil
	}
	return &session, true, nil
}

func (s *memorySessions) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
