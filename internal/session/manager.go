package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
	"github.com/GregMSThompson/insideoutbound-backend/pkg/logger"
)

var errNoRefresher = errs.NewAuthenticationError("session cannot be refreshed")

const refreshTimeout = 15 * time.Second

type Store interface {
	Get(ctx context.Context, uid string) (*models.SessionRecord, error)
	Put(ctx context.Context, rec *models.SessionRecord) error
}

type Cipher interface {
	Encrypt(ctx context.Context, plaintext string) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) (string, error)
}

// Issuer mints a new upstream session token for a user.
type Issuer interface {
	IssueSessionToken(ctx context.Context, uid string) (string, error)
}

// Manager caches tokens in memory and mirrors them, encrypted, to the store.
// Concurrent refreshes for the same user share one upstream call.
type Manager struct {
	store  Store
	cipher Cipher
	issuer Issuer

	mu     sync.RWMutex
	tokens map[string]string
	group  singleflight.Group
}

func NewManager(store Store, cipher Cipher, issuer Issuer) *Manager {
	return &Manager{
		store:  store,
		cipher: cipher,
		issuer: issuer,
		tokens: make(map[string]string),
	}
}

// Capture records a token presented by the browser, either in the
// X-Session-Token header or the one-shot session_token query parameter.
func (m *Manager) Capture(ctx context.Context, uid, token string) (*Session, error) {
	if token == "" {
		return nil, errs.NewValidationError("session token is required")
	}
	m.mu.RLock()
	current := m.tokens[uid]
	m.mu.RUnlock()
	if current != token {
		if err := m.save(ctx, uid, token); err != nil {
			return nil, err
		}
	}
	return New(uid, token, m.Refresh), nil
}

// Get returns the cached session for uid, falling back to the persisted
// record. It returns a NotFoundError when the user has no session yet.
func (m *Manager) Get(ctx context.Context, uid string) (*Session, error) {
	m.mu.RLock()
	token, ok := m.tokens[uid]
	m.mu.RUnlock()
	if ok {
		return New(uid, token, m.Refresh), nil
	}

	rec, err := m.store.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	token, err = m.cipher.Decrypt(ctx, rec.Token)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.tokens[uid] = token
	m.mu.Unlock()
	return New(uid, token, m.Refresh), nil
}

// EnsureFresh is the guard run before persistence calls: it returns the
// user's session, issuing one when none exists.
func (m *Manager) EnsureFresh(ctx context.Context, uid string) (*Session, error) {
	s, err := m.Get(ctx, uid)
	if err == nil {
		return s, nil
	}
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		return nil, err
	}
	token, err := m.Refresh(ctx, uid)
	if err != nil {
		return nil, err
	}
	return New(uid, token, m.Refresh), nil
}

// Refresh issues a new token for uid. Callers racing on the same user
// receive the result of a single upstream refresh. The shared call outlives
// any one caller's context so a disconnect does not fail the others.
func (m *Manager) Refresh(ctx context.Context, uid string) (string, error) {
	ch := m.group.DoChan(uid, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		token, err := m.issuer.IssueSessionToken(fctx, uid)
		if err != nil {
			return "", err
		}
		if err := m.save(fctx, uid, token); err != nil {
			return "", err
		}
		return token, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		logger.FromContext(ctx).Debug("session refreshed", "uid", uid, "shared", res.Shared)
		return res.Val.(string), nil
	}
}

// Forget drops the cached token; the persisted record is kept.
func (m *Manager) Forget(uid string) {
	m.mu.Lock()
	delete(m.tokens, uid)
	m.mu.Unlock()
}

func (m *Manager) save(ctx context.Context, uid, token string) error {
	ciphertext, err := m.cipher.Encrypt(ctx, token)
	if err != nil {
		return err
	}
	if err := m.store.Put(ctx, &models.SessionRecord{
		UserID:    uid,
		Token:     ciphertext,
		UpdatedAt: time.Now(),
	}); err != nil {
		return err
	}
	m.mu.Lock()
	m.tokens[uid] = token
	m.mu.Unlock()
	return nil
}
