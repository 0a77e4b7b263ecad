package core

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recipe-studio-backend/internal/db"
	"recipe-studio-backend/internal/models"
)

// View is a screen of the studio.
type View string

const (
	ViewLibrary View = "library"
	ViewImport  View = "import"
	ViewReader  View = "reader"
)

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewLibrary, ViewImport, ViewReader:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidView, s)
}

const (
	// DefaultBookTitle is used when an import has no topic.
	DefaultBookTitle = "NUEVO RECETARIO"
	// DefaultBookSubtitle is given to every imported book.
	DefaultBookSubtitle = "EDICIÓN DE AUTOR IA ✨"
)

// BookView is a book together with its computed category label.
type BookView struct {
	models.RecipeBook
	Category string `json:"category"`
}

// StudioSnapshot is the observable state of the studio.
type StudioSnapshot struct {
	Active        bool         `json:"active"`
	Email         string       `json:"email,omitempty"`
	Loaded        bool         `json:"loaded"`
	View          View         `json:"view"`
	CurrentBookID string       `json:"currentBookId,omitempty"`
	Topic         string       `json:"topic,omitempty"`
	Books         int          `json:"books"`
	LoadError     string       `json:"loadError,omitempty"`
	LoadErrorKind db.ErrorKind `json:"loadErrorKind,omitempty"`
	Sync          SyncStatus   `json:"sync"`
}

// Studio owns the in-memory library of the signed-in user and the current
// view. Every library mutation schedules a debounced save.
type Studio struct {
	store        db.LibraryStore
	syncer       LibrarySyncer
	defaultCover string
	logger       *zap.Logger
	newID        func() string
	now          func() time.Time

	mu            sync.Mutex
	epoch         uint64
	session       models.UserSession
	active        bool
	loaded        bool
	library       models.Library
	view          View
	currentBookID string
	topic         string
	loadErr       error
	// mutated is set by the first edit after a load.
	mutated bool
}

// NewStudio creates a Studio in the library view with no active session.
func NewStudio(store db.LibraryStore, syncer LibrarySyncer, defaultCover string, logger *zap.Logger) *Studio {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Studio{
		store:        store,
		syncer:       syncer,
		defaultCover: defaultCover,
		logger:       logger,
		newID:        uuid.NewString,
		now:          time.Now,
		library:      models.Library{},
		view:         ViewLibrary,
	}
}

// Start activates sess and loads its library. Any load failure leaves an
// empty library; the error is logged and exposed in the snapshot only.
func (s *Studio) Start(ctx context.Context, sess models.UserSession) {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.session = sess
	s.active = sess.Active()
	s.loaded = false
	s.library = models.Library{}
	s.view = ViewLibrary
	s.currentBookID = ""
	s.topic = ""
	s.loadErr = nil
	s.mutated = false
	s.mu.Unlock()

	if !sess.Active() {
		return
	}

	lib, err := s.store.Load(ctx, sess)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.logger.Debug("Discarding library load for a replaced session")
		return
	}
	if err != nil {
		s.logger.Warn("Library load failed, starting with an empty library",
			zap.Error(err),
			zap.String("kind", string(db.KindOf(err))),
		)
		lib = models.Library{}
		s.loadErr = err
	}
	s.library = lib
	s.loaded = true
	s.logger.Info("Library loaded", zap.String("email", sess.Email), zap.Int("books", len(lib)))
}

// Stop deactivates the studio, flushes any pending save with the outgoing
// session and forgets all in-memory state. No edit is accepted once Stop has
// begun.
func (s *Studio) Stop(ctx context.Context) {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.active = false
	s.mu.Unlock()

	if err := s.syncer.Flush(ctx); err != nil {
		s.logger.Warn("Final library save failed", zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		// A new session started while flushing.
		return
	}
	s.session = models.UserSession{}
	s.loaded = false
	s.library = models.Library{}
	s.view = ViewLibrary
	s.currentBookID = ""
	s.topic = ""
	s.loadErr = nil
	s.mutated = false
}

// Snapshot returns the current studio state.
func (s *Studio) Snapshot() StudioSnapshot {
	s.mu.Lock()
	snap := StudioSnapshot{
		Active:        s.active,
		Email:         s.session.Email,
		Loaded:        s.loaded,
		View:          s.view,
		CurrentBookID: s.currentBookID,
		Topic:         s.topic,
		Books:         len(s.library),
	}
	if s.loadErr != nil {
		snap.LoadError = s.loadErr.Error()
		snap.LoadErrorKind = db.KindOf(s.loadErr)
	}
	s.mu.Unlock()

	snap.Sync = s.syncer.Status()
	return snap
}

func (s *Studio) readyLocked() error {
	if !s.active {
		return ErrNoActiveSession
	}
	if !s.loaded {
		return ErrLibraryNotLoaded
	}
	return nil
}

// scheduleSaveLocked hands the library to the syncer. An empty library is
// only written when it became empty through a delete.
func (s *Studio) scheduleSaveLocked(deleted bool) {
	if !s.active || !s.loaded {
		return
	}
	s.mutated = true
	if len(s.library) == 0 && !deleted {
		return
	}
	s.syncer.Schedule(s.session, s.library)
}

// Navigate switches views. The reader view requires an existing book.
func (s *Studio) Navigate(view View, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked(); err != nil {
		return err
	}

	switch view {
	case ViewLibrary:
		s.currentBookID = ""
	case ViewImport:
	case ViewReader:
		if s.library.Find(bookID) < 0 {
			return fmt.Errorf("%w: %s", ErrBookNotFound, bookID)
		}
		s.currentBookID = bookID
	default:
		return fmt.Errorf("%w: %q", ErrInvalidView, view)
	}
	s.view = view
	return nil
}

// BeginImport builds the generator prompt for topic and moves to the import view.
func (s *Studio) BeginImport(topic string) (string, error) {
	prompt, err := BuildPrompt(topic)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked(); err != nil {
		return "", err
	}
	s.topic = strings.TrimSpace(topic)
	s.view = ViewImport
	return prompt, nil
}

// Import parses pasted generator output into a new book at the head of the
// library and opens it. On error the library is left untouched. A blank
// topic falls back to the one given to BeginImport.
func (s *Studio) Import(topic, raw string) (BookView, error) {
	recipes, err := ParseImport(raw, func() string { return "rcp-" + s.newID() })
	if err != nil {
		return BookView{}, err
	}
	if len(recipes) == 0 {
		return BookView{}, fmt.Errorf("%w: the array contains no recipes", ErrInvalidImport)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked(); err != nil {
		return BookView{}, err
	}

	if strings.TrimSpace(topic) == "" {
		topic = s.topic
	}
	title := strings.ToUpper(strings.TrimSpace(topic))
	if title == "" {
		title = DefaultBookTitle
	}

	book := models.RecipeBook{
		ID:        "book-" + s.newID(),
		Title:     title,
		Subtitle:  DefaultBookSubtitle,
		Recipes:   recipes,
		CreatedAt: s.now().UnixMilli(),
	}
	s.library = append(models.Library{book}, s.library...)
	s.view = ViewReader
	s.currentBookID = book.ID
	s.topic = ""
	s.scheduleSaveLocked(false)

	s.logger.Info("Recipe book imported",
		zap.String("bookID", book.ID),
		zap.String("title", book.Title),
		zap.Int("recipes", len(recipes)),
	)
	return newBookView(book), nil
}

func newBookView(b models.RecipeBook) BookView {
	return BookView{RecipeBook: b.Clone(), Category: Categorize(b.Recipes)}
}

// Books lists the library in order, optionally keeping only books whose
// category label equals category.
func (s *Studio) Books(category string) []BookView {
	category = strings.TrimSpace(category)

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]BookView, 0, len(s.library))
	for _, b := range s.library {
		v := newBookView(b)
		if category != "" && v.Category != category {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Book returns one book.
func (s *Studio) Book(bookID string) (BookView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.library.Find(bookID)
	if i < 0 {
		return BookView{}, fmt.Errorf("%w: %s", ErrBookNotFound, bookID)
	}
	return newBookView(s.library[i]), nil
}

// UpdateBook applies the provided fields of req to a book.
func (s *Studio) UpdateBook(bookID string, req models.UpdateBookRequest) (BookView, error) {
	if req.CoverImage != nil && *req.CoverImage != "" && !isHTTPURL(*req.CoverImage) {
		return BookView{}, ErrInvalidCoverImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked(); err != nil {
		return BookView{}, err
	}
	i := s.library.Find(bookID)
	if i < 0 {
		return BookView{}, fmt.Errorf("%w: %s", ErrBookNotFound, bookID)
	}

	book := &s.library[i]
	if req.Title != nil {
		book.Title = strings.TrimSpace(*req.Title)
	}
	if req.Subtitle != nil {
		book.Subtitle = strings.TrimSpace(*req.Subtitle)
	}
	if req.CoverImage != nil {
		book.CoverImage = strings.TrimSpace(*req.CoverImage)
	}
	s.scheduleSaveLocked(false)
	return newBookView(*book), nil
}

// DeleteBook removes a book. Deleting the last book still persists the now
// empty library.
func (s *Studio) DeleteBook(bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked(); err != nil {
		return err
	}
	i := s.library.Find(bookID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrBookNotFound, bookID)
	}

	lib := make(models.Library, 0, len(s.library)-1)
	lib = append(lib, s.library[:i]...)
	s.library = append(lib, s.library[i+1:]...)
	if s.currentBookID == bookID {
		s.currentBookID = ""
		s.view = ViewLibrary
	}
	s.scheduleSaveLocked(true)
	s.logger.Info("Recipe book deleted", zap.String("bookID", bookID), zap.Int("remaining", len(s.library)))
	return nil
}

// ReplicationPrompt builds the style-replication prompt for a book.
func (s *Studio) ReplicationPrompt(bookID string) (string, error) {
	book, err := s.Book(bookID)
	if err != nil {
		return "", err
	}
	return BuildReplicationPrompt(book.RecipeBook)
}

// CoverURL returns the book's cover image, or the default cover.
func (s *Studio) CoverURL(bookID string) (string, error) {
	book, err := s.Book(bookID)
	if err != nil {
		return "", err
	}
	if book.CoverImage != "" {
		return book.CoverImage, nil
	}
	return s.defaultCover, nil
}

// SyncNow writes the current library immediately, bypassing the quiet period.
// It refuses while the library failed to load and nothing was edited since,
// and it never writes an empty library that no edit produced, so the remote
// copy is not replaced by a placeholder.
func (s *Studio) SyncNow(ctx context.Context) error {
	s.mu.Lock()
	if err := s.readyLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if !s.mutated {
		if s.loadErr != nil {
			err := fmt.Errorf("%w: %w", ErrLibraryLoadFailed, s.loadErr)
			s.mu.Unlock()
			return err
		}
		if len(s.library) == 0 {
			s.mu.Unlock()
			s.logger.Debug("Nothing to sync, library is empty and unchanged")
			return nil
		}
	}
	s.syncer.Schedule(s.session, s.library)
	s.mu.Unlock()

	return s.syncer.Flush(ctx)
}

// SetSession replaces the credential used for future saves without
// reloading, e.g. after the e-mail became known through verification.
func (s *Studio) SetSession(sess models.UserSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active && s.session.AccessToken == sess.AccessToken {
		s.session = sess
	}
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
