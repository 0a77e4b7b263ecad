package core

import (
	"context"
	"sync"

	"recipe-studio-backend/internal/models"
)

// fakeStore is an in-memory db.LibraryStore that records every save.
type fakeStore struct {
	mu       sync.Mutex
	lib      models.Library
	loadErr  error
	saveErr  error
	saves    []models.Library
	sessions []models.UserSession
	// started, when set, receives once per Save before it proceeds; release
	// must then be closed or sent to for it to finish.
	started chan struct{}
	release chan struct{}
}

func (f *fakeStore) Load(_ context.Context, _ models.UserSession) (models.Library, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.lib.Clone(), nil
}

func (f *fakeStore) Save(ctx context.Context, sess models.UserSession, lib models.Library) error {
	if f.started != nil {
		f.started <- struct{}{}
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, sess)
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, lib.Clone())
	f.lib = lib.Clone()
	return nil
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeStore) attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func (f *fakeStore) lastSave() models.Library {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saves) == 0 {
		return nil
	}
	return f.saves[len(f.saves)-1]
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []SyncEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev SyncEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) all() []SyncEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]SyncEvent(nil), p.events...)
}

// manualSyncer records Schedule calls without any timer.
type manualSyncer struct {
	mu        sync.Mutex
	scheduled []models.Library
	sessions  []models.UserSession
	flushes   int
	flushErr  error
	// onFlush, when set, runs at the start of every Flush.
	onFlush func()
}

func (m *manualSyncer) Schedule(sess models.UserSession, lib models.Library) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduled = append(m.scheduled, lib.Clone())
	m.sessions = append(m.sessions, sess)
}

func (m *manualSyncer) Flush(context.Context) error {
	if m.onFlush != nil {
		m.onFlush()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
	return m.flushErr
}

func (m *manualSyncer) Status() SyncStatus { return SyncStatus{} }

func (m *manualSyncer) Close() {}

func (m *manualSyncer) scheduleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.scheduled)
}

func (m *manualSyncer) last() models.Library {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.scheduled) == 0 {
		return nil
	}
	return m.scheduled[len(m.scheduled)-1]
}

func book(id string, recipes ...models.Recipe) models.RecipeBook {
	return models.RecipeBook{ID: id, Title: "LIBRO " + id, Subtitle: DefaultBookSubtitle, Recipes: recipes, CreatedAt: 1}
}
