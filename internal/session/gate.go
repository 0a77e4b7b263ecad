package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"recipe-studio-backend/internal/models"
)

// State is the authentication state of the gate.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
)

// Validity is how much is known about the held token.
type Validity string

const (
	// ValidityAbsent means there is no token.
	ValidityAbsent Validity = "absent"
	// ValidityAssumed means a token is held but was never checked, e.g.
	// after restoring a persisted record.
	ValidityAssumed Validity = "assumed-valid"
	// ValidityVerified means the issuer confirmed the token.
	ValidityVerified Validity = "verified"
)

// Status is a point-in-time view of the gate.
type Status struct {
	State    State    `json:"state"`
	Validity Validity `json:"validity"`
	Email    string   `json:"email,omitempty"`
}

// Change is the kind of session transition reported to listeners.
type Change int

const (
	// ChangeLogin: a session became authenticated.
	ChangeLogin Change = iota
	// ChangeVerified: the current session was verified; its e-mail may be new.
	ChangeVerified
	// ChangeLogout: the session ended. The listener gets the outgoing session.
	ChangeLogout
)

// ChangeFunc is called after a transition, outside the gate's lock.
type ChangeFunc func(ctx context.Context, change Change, sess models.UserSession)

// Gate is the session/auth state machine. Nothing in the studio is reachable
// unless the gate is authenticated.
type Gate struct {
	records  RecordStore
	provider IdentityProvider
	verifier TokenVerifier
	logger   *zap.Logger

	mu         sync.Mutex
	state      State
	validity   Validity
	session    models.UserSession
	loginState string
	listeners  []ChangeFunc
}

// NewGate creates a gate and restores a persisted session, if any. A restored
// session is authenticated optimistically: the token is not checked until
// Verify is called or a downstream request fails.
func NewGate(ctx context.Context, records RecordStore, provider IdentityProvider, verifier TokenVerifier, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gate{
		records:  records,
		provider: provider,
		verifier: verifier,
		logger:   logger,
		state:    StateUnauthenticated,
		validity: ValidityAbsent,
	}

	sess, err := records.Load(ctx)
	switch {
	case err != nil:
		logger.Warn("Could not restore session record", zap.Error(err))
	case sess != nil:
		g.state = StateAuthenticated
		g.validity = ValidityAssumed
		g.session = *sess
		logger.Info("Restored persisted session", zap.String("email", sess.Email))
	}
	return g
}

// OnChange registers fn for future transitions.
func (g *Gate) OnChange(fn ChangeFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

func (g *Gate) notify(ctx context.Context, change Change, sess models.UserSession) {
	g.mu.Lock()
	listeners := append([]ChangeFunc(nil), g.listeners...)
	g.mu.Unlock()
	for _, fn := range listeners {
		fn(ctx, change, sess)
	}
}

// Current returns the session when authenticated.
func (g *Gate) Current() (models.UserSession, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateAuthenticated {
		return models.UserSession{}, false
	}
	return g.session, true
}

// Status returns the gate state.
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Status{State: g.state, Validity: g.validity, Email: g.session.Email}
}

// BeginLogin moves to authenticating and returns the provider URL to send the
// user to. Calling it again restarts the handshake with a new state value.
func (g *Gate) BeginLogin() (string, error) {
	nonce, err := newLoginState()
	if err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateAuthenticated {
		return "", ErrAlreadyAuthenticated
	}
	g.state = StateAuthenticating
	g.loginState = nonce
	return g.provider.AuthCodeURL(nonce), nil
}

// AbortLogin returns an in-progress login to unauthenticated.
func (g *Gate) AbortLogin() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateAuthenticating {
		g.resetLocked()
	}
}

// CompleteLogin finishes the handshake. Only a non-empty access token
// authenticates; every other outcome leaves the gate unauthenticated.
func (g *Gate) CompleteLogin(ctx context.Context, state, code string) error {
	g.mu.Lock()
	if g.state != StateAuthenticating {
		g.mu.Unlock()
		return ErrNoLoginInProgress
	}
	expected := g.loginState
	if state == "" || state != expected {
		g.resetLocked()
		g.mu.Unlock()
		return ErrStateMismatch
	}
	g.mu.Unlock()

	tok, err := g.provider.Exchange(ctx, code)
	if err == nil && (tok == nil || tok.AccessToken == "") {
		err = ErrEmptyToken
	}
	if err != nil {
		g.abort(expected)
		g.logger.Warn("Login failed", zap.Error(err))
		if errors.Is(err, ErrEmptyToken) {
			return err
		}
		return fmt.Errorf("token exchange: %w", err)
	}

	sess := models.UserSession{AccessToken: tok.AccessToken}
	validity := ValidityAssumed
	if g.verifier != nil {
		email, verr := g.verifier.Verify(ctx, sess.AccessToken)
		if verr != nil {
			g.logger.Warn("Could not verify new token, keeping it unverified", zap.Error(verr))
		} else {
			sess.Email = email
			validity = ValidityVerified
		}
	}

	g.mu.Lock()
	if g.state != StateAuthenticating || g.loginState != expected {
		g.mu.Unlock()
		return ErrNoLoginInProgress
	}
	g.state = StateAuthenticated
	g.validity = validity
	g.session = sess
	g.loginState = ""
	g.mu.Unlock()

	if err := g.records.Save(ctx, sess); err != nil {
		g.logger.Error("Failed to persist session record", zap.Error(err))
	}
	g.logger.Info("Login completed", zap.String("email", sess.Email), zap.String("validity", string(validity)))
	g.notify(ctx, ChangeLogin, sess)
	return nil
}

func (g *Gate) abort(expected string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateAuthenticating && g.loginState == expected {
		g.resetLocked()
	}
}

// Logout ends the session and discards the persisted record. Listeners run
// before the record is deleted, while the outgoing token is still known.
func (g *Gate) Logout(ctx context.Context) error {
	g.mu.Lock()
	wasAuthenticated := g.state == StateAuthenticated
	sess := g.session
	g.resetLocked()
	g.mu.Unlock()

	if wasAuthenticated {
		g.notify(ctx, ChangeLogout, sess)
		g.logger.Info("Logged out", zap.String("email", sess.Email))
	}
	if err := g.records.Delete(ctx); err != nil {
		return fmt.Errorf("discard session record: %w", err)
	}
	return nil
}

// Verify checks the current token with the issuer. A rejected token logs the
// user out; a transient failure leaves the session as it was.
func (g *Gate) Verify(ctx context.Context) (Status, error) {
	g.mu.Lock()
	if g.state != StateAuthenticated {
		g.mu.Unlock()
		return Status{State: g.state, Validity: g.validity}, ErrNotAuthenticated
	}
	sess := g.session
	g.mu.Unlock()

	if g.verifier == nil {
		return g.Status(), errors.New("no token verifier configured")
	}

	email, err := g.verifier.Verify(ctx, sess.AccessToken)
	if err != nil {
		if errors.Is(err, ErrTokenRejected) {
			g.logger.Warn("Session token rejected, logging out", zap.Error(err))
			if lerr := g.Logout(ctx); lerr != nil {
				g.logger.Error("Logout after rejected token failed", zap.Error(lerr))
			}
		}
		return g.Status(), err
	}

	g.mu.Lock()
	if g.state != StateAuthenticated || g.session.AccessToken != sess.AccessToken {
		g.mu.Unlock()
		return g.Status(), ErrNotAuthenticated
	}
	if email != "" {
		g.session.Email = email
	}
	g.validity = ValidityVerified
	sess = g.session
	g.mu.Unlock()

	if err := g.records.Save(ctx, sess); err != nil {
		g.logger.Error("Failed to persist verified session record", zap.Error(err))
	}
	g.notify(ctx, ChangeVerified, sess)
	return g.Status(), nil
}

func (g *Gate) resetLocked() {
	g.state = StateUnauthenticated
	g.validity = ValidityAbsent
	g.session = models.UserSession{}
	g.loginState = ""
}

func newLoginState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate login state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
