// Package session owns the upstream session token of each user. A Session
// is passed explicitly to every call into the prospecting API so the token
// and its refresh are never process-wide globals.
package session

import (
	"context"
	"sync"
)

// RefreshFunc obtains a new token for uid.
type RefreshFunc func(ctx context.Context, uid string) (string, error)

type Session struct {
	UserID string

	mu      sync.RWMutex
	token   string
	refresh RefreshFunc
}

func New(uid, token string, refresh RefreshFunc) *Session {
	return &Session{UserID: uid, token: token, refresh: refresh}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Refresh replaces the token with a freshly issued one and returns it.
func (s *Session) Refresh(ctx context.Context) (string, error) {
	if s.refresh == nil {
		return "", errNoRefresher
	}
	token, err := s.refresh(ctx, s.UserID)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return token, nil
}

type ctxKey struct{}

func ToContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by the session middleware, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
