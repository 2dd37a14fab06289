// Package session tracks who is currently logged in. The session pointer is
// a single value in the key-value store, separate from the user table, and is
// resolved against the record store on every read so the manager never serves
// a stale copy.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/creatorspace/memberkit/internal/common"
	"github.com/creatorspace/memberkit/internal/kvstore"
	"github.com/creatorspace/memberkit/internal/logging"
	"github.com/creatorspace/memberkit/internal/models"
	"github.com/creatorspace/memberkit/internal/users"
)

// pointerKey stores the current username (or a signed token carrying it).
const pointerKey = "current_user"

// Status is the authentication state machine, re-entered on every process
// start. Checking exists so a UI can show a spinner instead of flashing a
// login prompt before the first resolution completes.
type Status int

const (
	StatusChecking Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "checking"
	}
}

// Manager owns the session pointer. With a token issuer configured (the
// remote-backend variant) the pointer value is a signed, expiring token;
// without one it is the bare username.
type Manager struct {
	store  kvstore.Store
	users  users.Repository
	tokens *TokenIssuer
	log    logging.Logger
	status Status
	now    func() time.Time
}

type Option func(*Manager)

// WithTokenIssuer makes the manager store signed session tokens instead of
// plain usernames. An expired or malformed token is handled exactly like an
// orphaned pointer.
func WithTokenIssuer(iss *TokenIssuer) Option {
	return func(m *Manager) { m.tokens = iss }
}

func NewManager(store kvstore.Store, repo users.Repository, log logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		users:  repo,
		log:    log,
		status: StatusChecking,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Status reports the last resolved state. It starts at StatusChecking and is
// updated by Login, Logout and CurrentUser.
func (m *Manager) Status() Status { return m.status }

// Login stamps LastLogin on an existing record and points the session at it.
// The record must already be in the record store.
func (m *Manager) Login(ctx context.Context, user *models.User) error {
	stored, err := m.users.Get(ctx, user.Username)
	if err != nil {
		return fmt.Errorf("resolving user %q: %w", user.Username, err)
	}

	stored.LastLogin = m.now().UTC()
	if err := m.users.Upsert(ctx, stored); err != nil {
		return err
	}
	*user = *stored

	value := stored.Username
	if m.tokens != nil {
		value, err = m.tokens.Issue(stored.Username)
		if err != nil {
			return fmt.Errorf("issuing session token: %w", err)
		}
	}
	if !m.store.SetRaw(pointerKey, value) {
		return fmt.Errorf("saving session: %w", common.ErrInternal)
	}

	m.status = StatusAuthenticated
	return nil
}

// Logout clears the session pointer unconditionally. It never fails, even
// when nothing was set.
func (m *Manager) Logout(ctx context.Context) {
	m.store.Remove(pointerKey)
	m.status = StatusUnauthenticated
}

// CurrentUser resolves the pointer and re-fetches the full record from the
// record store. A pointer referencing a missing user is cleared as a side
// effect and reads as "not authenticated"; calling again is a no-op.
func (m *Manager) CurrentUser(ctx context.Context) (*models.User, error) {
	raw, ok := m.store.GetRaw(pointerKey)
	if !ok {
		m.status = StatusUnauthenticated
		return nil, nil
	}

	username := raw
	if m.tokens != nil {
		var err error
		username, err = m.tokens.Verify(raw)
		if err != nil {
			m.log.Warn(ctx, "clearing invalid session token", "error", err)
			m.store.Remove(pointerKey)
			m.status = StatusUnauthenticated
			return nil, nil
		}
	}

	user, err := m.users.Get(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			m.log.Warn(ctx, "clearing orphaned session pointer", "username", username)
			m.store.Remove(pointerKey)
			m.status = StatusUnauthenticated
			return nil, nil
		}
		return nil, err
	}

	m.status = StatusAuthenticated
	return user, nil
}

// Check drives the checking -> authenticated/unauthenticated transition at
// startup and returns both the resulting state and the resolved user.
func (m *Manager) Check(ctx context.Context) (Status, *models.User) {
	user, err := m.CurrentUser(ctx)
	if err != nil {
		m.log.Error(ctx, "session check failed", "error", err)
		m.status = StatusUnauthenticated
		return m.status, nil
	}
	return m.status, user
}
