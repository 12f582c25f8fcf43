package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/GregMSThompson/insideoutbound-backend/internal/debounce"
	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
)

const (
	DefaultAutosaveDelay = 500 * time.Millisecond
	autosaveTimeout      = 10 * time.Second
)

type autosaveStore interface {
	Get(ctx context.Context, uid string) (*models.Settings, error)
	Upsert(ctx context.Context, settings *models.Settings) error
}

// Autosaver coalesces field edits per user and writes them once the user
// has paused for the delay. Each user has an independent window.
type Autosaver struct {
	store autosaveStore
	delay time.Duration
	log   *slog.Logger

	mu      sync.Mutex
	pending map[string]*debounce.Debouncer[models.SettingsPatch]
	writers map[string]*userLock
	closed  bool
}

// userLock serialises read-modify-write cycles on one user's record.
type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewAutosaver(store autosaveStore, delay time.Duration, log *slog.Logger) *Autosaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Autosaver{
		store:   store,
		delay:   delay,
		log:     log,
		pending: make(map[string]*debounce.Debouncer[models.SettingsPatch]),
		writers: make(map[string]*userLock),
	}
}

// Queue merges patch into the user's pending edit and restarts the window.
func (a *Autosaver) Queue(uid string, patch models.SettingsPatch) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return errs.NewValidationError("autosave is shut down")
	}

	d, ok := a.pending[uid]
	if !ok {
		d = debounce.New(a.delay, func(p models.SettingsPatch) { a.save(uid, p) })
		a.pending[uid] = d
	}
	cur, _ := d.Pending()
	d.Push(cur.Merge(patch))
	return nil
}

// Pending returns the unsaved edit for uid.
func (a *Autosaver) Pending(uid string) (models.SettingsPatch, bool) {
	a.mu.Lock()
	d, ok := a.pending[uid]
	a.mu.Unlock()
	if !ok {
		return models.SettingsPatch{}, false
	}
	return d.Pending()
}

// Cancel drops the unsaved edit for uid, used when a full save supersedes it.
func (a *Autosaver) Cancel(uid string) {
	a.mu.Lock()
	d, ok := a.pending[uid]
	a.mu.Unlock()
	if ok {
		d.Cancel()
	}
}

// Flush writes the pending edit for uid now.
func (a *Autosaver) Flush(uid string) bool {
	a.mu.Lock()
	d, ok := a.pending[uid]
	a.mu.Unlock()
	return ok && d.Flush()
}

// Close writes every pending edit and rejects further ones. It is called on
// shutdown so no timer fires after the store is closed.
func (a *Autosaver) Close() {
	a.mu.Lock()
	a.closed = true
	all := make([]*debounce.Debouncer[models.SettingsPatch], 0, len(a.pending))
	for _, d := range a.pending {
		all = append(all, d)
	}
	a.mu.Unlock()

	for _, d := range all {
		d.Flush()
		d.Stop()
	}
}

func (a *Autosaver) save(uid string, patch models.SettingsPatch) {
	ctx, cancel := context.WithTimeout(context.Background(), autosaveTimeout)
	defer cancel()
	log := a.log.With("uid", uid)

	err := a.apply(ctx, uid, patch)
	if err != nil {
		log.Error("autosave failed", "error", err)
		var nf *errs.NotFoundError
		if !errors.As(err, &nf) {
			sentry.CaptureException(err)
		}
		return
	}
	log.Debug("settings autosaved")
	a.release(uid)
}

func (a *Autosaver) apply(ctx context.Context, uid string, patch models.SettingsPatch) error {
	unlock := a.lockUser(uid)
	defer unlock()

	settings, err := a.store.Get(ctx, uid)
	if err != nil {
		return err
	}
	patch.Apply(settings)
	return a.store.Upsert(ctx, settings)
}

// release drops the user's debouncer once nothing is waiting on it.
func (a *Autosaver) release(uid string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	d, ok := a.pending[uid]
	if !ok || a.closed {
		return
	}
	if _, waiting := d.Pending(); !waiting {
		delete(a.pending, uid)
		d.Stop()
	}
}

// lockUser blocks until no other write for uid is in flight. Autosaves and
// full saves both hold it across their Get and Upsert.
func (a *Autosaver) lockUser(uid string) (unlock func()) {
	a.mu.Lock()
	l, ok := a.writers[uid]
	if !ok {
		l = &userLock{}
		a.writers[uid] = l
	}
	l.refs++
	a.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		a.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(a.writers, uid)
		}
		a.mu.Unlock()
	}
}
