package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorspace/memberkit/internal/kvstore"
	"github.com/creatorspace/memberkit/internal/logging"
	"github.com/creatorspace/memberkit/internal/models"
	"github.com/creatorspace/memberkit/internal/users"
)

func newTestManager(t *testing.T, opts ...Option) (*Manager, *users.KVRepository, *kvstore.Memory) {
	t.Helper()
	store := kvstore.NewMemory()
	repo := users.NewKVRepository(store, logging.NewNopLogger())
	return NewManager(store, repo, logging.NewNopLogger(), opts...), repo, store
}

func seedUser(t *testing.T, repo *users.KVRepository, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:  username,
		Email:     username + "@x.com",
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, repo.Upsert(context.Background(), u))
	return u
}

func TestStatusStartsChecking(t *testing.T) {
	m, _, _ := newTestManager(t)
	assert.Equal(t, StatusChecking, m.Status())
}

func TestLoginSetsPointerAndStampsLastLogin(t *testing.T) {
	ctx := context.Background()
	m, repo, _ := newTestManager(t)
	u := seedUser(t, repo, "alice")

	before := time.Now().UTC()
	require.NoError(t, m.Login(ctx, u))

	assert.Equal(t, StatusAuthenticated, m.Status())
	assert.False(t, u.LastLogin.Before(before), "LastLogin must be stamped")

	got, err := m.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
}

func TestLoginUnknownUserFails(t *testing.T) {
	m, _, _ := newTestManager(t)

	err := m.Login(context.Background(), &models.User{Username: "ghost"})
	assert.Error(t, err)
}

func TestLogoutClearsSession(t *testing.T) {
	ctx := context.Background()
	m, repo, _ := newTestManager(t)
	u := seedUser(t, repo, "alice")
	require.NoError(t, m.Login(ctx, u))

	m.Logout(ctx)
	assert.Equal(t, StatusUnauthenticated, m.Status())

	got, err := m.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	// logging out again must not blow up
	m.Logout(ctx)
}

func TestCurrentUserNilWhenNoSession(t *testing.T) {
	m, _, _ := newTestManager(t)

	got, err := m.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, StatusUnauthenticated, m.Status())
}

func TestCurrentUserRefetchesFromStore(t *testing.T) {
	ctx := context.Background()
	m, repo, _ := newTestManager(t)
	u := seedUser(t, repo, "alice")
	require.NoError(t, m.Login(ctx, u))

	// mutate the stored record behind the manager's back
	u.Premium = true
	require.NoError(t, repo.Upsert(ctx, u))

	got, err := m.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Premium, "CurrentUser must not serve a cached copy")
}

func TestOrphanedPointerSelfHeals(t *testing.T) {
	ctx := context.Background()
	m, _, store := newTestManager(t)

	// pointer references a user that was never written
	store.SetRaw(pointerKey, "ghost")

	got, err := m.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, StatusUnauthenticated, m.Status())

	_, ok := store.GetRaw(pointerKey)
	assert.False(t, ok, "orphaned pointer must be cleared")

	// idempotent: a second call is a plain miss
	got, err = m.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCheckTransitions(t *testing.T) {
	ctx := context.Background()
	m, repo, _ := newTestManager(t)

	status, user := m.Check(ctx)
	assert.Equal(t, StatusUnauthenticated, status)
	assert.Nil(t, user)

	u := seedUser(t, repo, "alice")
	require.NoError(t, m.Login(ctx, u))

	status, user = m.Check(ctx)
	assert.Equal(t, StatusAuthenticated, status)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
}

func TestTokenModeRoundTrip(t *testing.T) {
	ctx := context.Background()
	iss := NewTokenIssuer("test-secret", time.Hour)
	m, repo, store := newTestManager(t, WithTokenIssuer(iss))
	u := seedUser(t, repo, "alice")

	require.NoError(t, m.Login(ctx, u))

	raw, ok := store.GetRaw(pointerKey)
	require.True(t, ok)
	assert.NotEqual(t, "alice", raw, "pointer must hold a token, not the username")

	got, err := m.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
}

func TestTokenModeExpiredTokenClearsSession(t *testing.T) {
	ctx := context.Background()
	expired := NewTokenIssuer("test-secret", -time.Minute)
	m, repo, store := newTestManager(t, WithTokenIssuer(expired))
	u := seedUser(t, repo, "alice")

	require.NoError(t, m.Login(ctx, u))

	got, err := m.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, StatusUnauthenticated, m.Status())

	_, ok := store.GetRaw(pointerKey)
	assert.False(t, ok, "expired token must be cleared like an orphan")
}

func TestTokenVerifyRejectsGarbage(t *testing.T) {
	iss := NewTokenIssuer("test-secret", time.Hour)

	_, err := iss.Verify("not-a-token")
	assert.Error(t, err)

	other := NewTokenIssuer("other-secret", time.Hour)
	tok, err := other.Issue("alice")
	require.NoError(t, err)

	_, err = iss.Verify(tok)
	assert.Error(t, err, "token signed with another secret must not verify")
}
