// Package session owns the user's authentication state: the in-memory
// identity and token, their persisted copy, and the login/register/logout
// transitions between them. All reads of the current token go through this
// store — nothing else touches credentials.
package session

import (
	"context"
	"fmt"
	"sync"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
)

// State is the session lifecycle state.
type State int

const (
	// StateRestoring is the initial state, before persisted credentials
	// have been checked.
	StateRestoring State = iota
	// StateUnauthenticated means no valid session exists.
	StateUnauthenticated
	// StateAuthenticated means a token and identity are held.
	StateAuthenticated
)

// String returns a human-readable state.
func (s State) String() string {
	switch s {
	case StateRestoring:
		return "restoring"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Compile-time interface check.
var _ domain.CredentialSource = (*Store)(nil)

// Store holds the current session. Token and user are set together or both
// absent, in memory and in the credential store alike; every transition
// writes the persisted copy before the in-memory one so a crash resumes the
// last committed state.
type Store struct {
	gw    domain.Gateway
	creds domain.CredentialStore
	log   *logger.Logger

	mu    sync.RWMutex
	state State
	token string
	user  *domain.User
}

// New creates a session store in StateRestoring. Call [Store.Restore] once
// at startup, then hand the store to the gateway via AuthorizeWith.
func New(gw domain.Gateway, creds domain.CredentialStore, log *logger.Logger) *Store {
	return &Store{
		gw:    gw,
		creds: creds,
		log:   log,
		state: StateRestoring,
	}
}

// Restore reads any persisted credentials and transitions to Authenticated
// when a complete pair exists, Unauthenticated otherwise. A read failure
// lands Unauthenticated rather than blocking startup.
func (s *Store) Restore(ctx context.Context) State {
	token, user, err := s.creds.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.log.Error("session: restore failed: %v", err)
		s.state = StateUnauthenticated
		return s.state
	}
	if token == "" || user == nil {
		s.state = StateUnauthenticated
		return s.state
	}

	s.token = token
	s.user = user
	s.state = StateAuthenticated
	s.log.Info("session: restored for %s", user.Email)
	return s.state
}

// Login authenticates and commits the resulting session. On failure the
// current state is left untouched and the error propagates.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.User, error) {
	res, err := s.gw.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("session: login: %w", err)
	}
	return s.commit(ctx, res)
}

// Register creates an account and commits its first session. Same contract
// as Login.
func (s *Store) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	res, err := s.gw.Register(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("session: register: %w", err)
	}
	return s.commit(ctx, res)
}

func (s *Store) commit(ctx context.Context, res *domain.AuthResult) (*domain.User, error) {
	user := res.User
	if err := s.creds.Save(ctx, res.AccessToken, &user); err != nil {
		// The service accepted the credentials but we cannot persist them.
		// Refuse the session rather than hold state that dies on restart.
		return nil, fmt.Errorf("session: persist credentials: %w", err)
	}

	s.mu.Lock()
	s.token = res.AccessToken
	s.user = &user
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.log.Info("session: authenticated as %s", user.Email)
	return &user, nil
}

// Logout clears the session in memory and on disk. It makes no server call
// and cannot fail; a persistence error is logged and the in-memory session
// is dropped regardless.
func (s *Store) Logout(ctx context.Context) {
	if err := s.creds.Clear(ctx); err != nil {
		s.log.Error("session: clearing persisted credentials: %v", err)
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.state = StateUnauthenticated
	s.mu.Unlock()

	s.log.Info("session: logged out")
}

// Invalidate is the gateway's notification that the service rejected the
// current token. Identical to Logout; kept separate so the forced path is
// visible in logs.
func (s *Store) Invalidate() {
	s.log.Warn("session: token rejected by service, forcing logout")
	s.Logout(context.Background())
}

// Token returns the current bearer token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current identity, or nil when unauthenticated.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
