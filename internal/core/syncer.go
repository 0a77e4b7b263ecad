package core

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"recipe-studio-backend/internal/db"
	"recipe-studio-backend/internal/models"
)

const eventPublishTimeout = 5 * time.Second

// SyncStatus is what the UI needs to render its sync indicator.
type SyncStatus struct {
	Syncing       bool         `json:"syncing"`
	Pending       bool         `json:"pending"`
	Saves         int          `json:"saves"`
	LastSavedAt   *time.Time   `json:"lastSavedAt,omitempty"`
	LastError     string       `json:"lastError,omitempty"`
	LastErrorKind db.ErrorKind `json:"lastErrorKind,omitempty"`
}

type pendingSave struct {
	sess models.UserSession
	lib  models.Library
	seq  uint64
}

// Syncer debounces library saves: every Schedule restarts a quiet period and
// only the latest snapshot is written when it elapses. Saves run one at a
// time, and a snapshot older than one already written is skipped.
type Syncer struct {
	store       db.LibraryStore
	delay       time.Duration
	saveTimeout time.Duration
	events      EventPublisher
	logger      *zap.Logger
	now         func() time.Time

	mu      sync.Mutex
	timer   *time.Timer
	pending *pendingSave
	seq     uint64
	status  SyncStatus
	closed  bool
	wg      sync.WaitGroup

	saveMu  sync.Mutex
	written uint64 // guarded by saveMu
}

// NewSyncer creates a Syncer. A nil events publisher drops events.
func NewSyncer(store db.LibraryStore, delay, saveTimeout time.Duration, events EventPublisher, logger *zap.Logger) *Syncer {
	if events == nil {
		events = NewNoopPublisher()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		store:       store,
		delay:       delay,
		saveTimeout: saveTimeout,
		events:      events,
		logger:      logger,
		now:         time.Now,
	}
}

// Schedule records a snapshot of lib and (re)starts the debounce timer.
func (s *Syncer) Schedule(sess models.UserSession, lib models.Library) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.seq++
	seq := s.seq
	s.pending = &pendingSave{sess: sess, lib: lib.Clone(), seq: seq}
	s.status.Pending = true

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() { s.fire(seq) })
}

func (s *Syncer) fire(seq uint64) {
	s.mu.Lock()
	if s.closed || s.pending == nil || s.pending.seq != seq {
		s.mu.Unlock()
		return
	}
	p := s.takePendingLocked()
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()
	// Autosave failures are recorded in the status and otherwise dropped.
	_ = s.save(ctx, p)
}

// Flush writes the pending snapshot immediately and returns the store error.
func (s *Syncer) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.closed || s.pending == nil {
		s.mu.Unlock()
		return nil
	}
	p := s.takePendingLocked()
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()
	return s.save(ctx, p)
}

func (s *Syncer) takePendingLocked() *pendingSave {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	p := s.pending
	s.pending = nil
	s.status.Pending = false
	return p
}

func (s *Syncer) save(ctx context.Context, p *pendingSave) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if p.seq <= s.written {
		s.logger.Debug("Skipping superseded library snapshot", zap.Uint64("seq", p.seq), zap.Uint64("written", s.written))
		return nil
	}

	s.mu.Lock()
	s.status.Syncing = true
	s.mu.Unlock()

	err := s.store.Save(ctx, p.sess, p.lib)
	at := s.now()

	s.mu.Lock()
	s.status.Syncing = false
	if err != nil {
		s.status.LastError = err.Error()
		s.status.LastErrorKind = db.KindOf(err)
	} else {
		s.written = p.seq
		s.status.Saves++
		s.status.LastSavedAt = &at
		s.status.LastError = ""
		s.status.LastErrorKind = ""
	}
	s.mu.Unlock()

	event := SyncEvent{Type: EventLibrarySaved, Email: p.sess.Email, Books: len(p.lib), At: at}
	if err != nil {
		s.logger.Error("Library save failed",
			zap.Error(err),
			zap.String("kind", string(db.KindOf(err))),
			zap.Int("books", len(p.lib)),
		)
		event.Type = EventLibrarySaveFailed
		event.Error = err.Error()
	} else {
		s.logger.Info("Library saved", zap.Int("books", len(p.lib)), zap.Uint64("seq", p.seq))
	}
	s.publish(ctx, event)
	return err
}

func (s *Syncer) publish(ctx context.Context, event SyncEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish sync event", zap.String("type", event.Type), zap.Error(err))
	}
}

// Status returns a copy of the current sync status.
func (s *Syncer) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	if st.LastSavedAt != nil {
		at := *st.LastSavedAt
		st.LastSavedAt = &at
	}
	return st
}

// Close drops any pending snapshot and waits for an in-flight save.
func (s *Syncer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.pending != nil {
		s.logger.Warn("Dropping unsaved library snapshot on close", zap.Int("books", len(s.pending.lib)))
	}
	s.pending = nil
	s.status.Pending = false
	s.mu.Unlock()

	s.wg.Wait()
}
