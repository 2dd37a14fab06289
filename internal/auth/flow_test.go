package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorspace/memberkit/internal/common"
	"github.com/creatorspace/memberkit/internal/kvstore"
	"github.com/creatorspace/memberkit/internal/logging"
	"github.com/creatorspace/memberkit/internal/referral"
	"github.com/creatorspace/memberkit/internal/session"
	"github.com/creatorspace/memberkit/internal/users"
)

type fixture struct {
	flow     *Flow
	repo     *users.KVRepository
	sessions *session.Manager
	ledger   *referral.Ledger
	store    *kvstore.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := kvstore.NewMemory()
	log := logging.NewNopLogger()
	repo := users.NewKVRepository(store, log)
	sessions := session.NewManager(store, repo, log)
	ledger := referral.NewLedger(store, repo, log)
	return &fixture{
		flow:     NewFlow(repo, sessions, ledger, log),
		repo:     repo,
		sessions: sessions,
		ledger:   ledger,
		store:    store,
	}
}

func validInput(username, email string) RegisterInput {
	return RegisterInput{
		Username:        username,
		Email:           email,
		Password:        "secret-password-1",
		ConfirmPassword: "secret-password-1",
		AgeConfirmed:    true,
		TermsAccepted:   true,
	}
}

func (f *fixture) register(t *testing.T, username, email string) {
	t.Helper()
	_, err := f.flow.Register(context.Background(), validInput(username, email))
	require.NoError(t, err)
}

func TestRegisterSuccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.flow.Register(ctx, validInput("alice", "a@x.com"))
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.Premium)
	assert.NotEqual(t, "secret-password-1", user.PasswordHash)

	current, err := f.sessions.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "alice", current.Username)
	assert.False(t, current.Premium)

	// zero counters are initialized at signup
	assert.Equal(t, referral.Counters{}, f.ledger.Counters(ctx, "alice"))
}

func TestRegisterStructuralValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegisterInput)
		wantErr error
	}{
		{"short username", func(in *RegisterInput) { in.Username = "ab" }, common.ErrUsernameFormat},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, common.ErrEmailFormat},
		{"short password", func(in *RegisterInput) { in.Password = "short"; in.ConfirmPassword = "short" }, common.ErrPasswordFormat},
		{"confirm mismatch", func(in *RegisterInput) { in.ConfirmPassword = "different-password" }, common.ErrPasswordConfirm},
		{"age not confirmed", func(in *RegisterInput) { in.AgeConfirmed = false }, common.ErrTermsNotAgreed},
		{"terms not accepted", func(in *RegisterInput) { in.TermsAccepted = false }, common.ErrTermsNotAgreed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := validInput("alice", "a@x.com")
			tt.mutate(&in)

			_, err := f.flow.Register(context.Background(), in)
			assert.ErrorIs(t, err, tt.wantErr)

			// rejected locally: nothing was written
			all, _ := f.repo.All(context.Background())
			assert.Empty(t, all)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", "a@x.com")

	_, err := f.flow.Register(ctx, validInput("alice", "other@x.com"))
	assert.ErrorIs(t, err, common.ErrUsernameTaken)

	all, _ := f.repo.All(ctx)
	assert.Len(t, all, 1, "no new record on duplicate username")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", "a@x.com")

	_, err := f.flow.Register(ctx, validInput("bob", "A@X.com"))
	assert.ErrorIs(t, err, common.ErrEmailTaken)

	all, _ := f.repo.All(ctx)
	assert.Len(t, all, 1)
}

func TestRegisterConsumesPendingReferral(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", "a@x.com")

	require.NoError(t, f.ledger.SetPending(ctx, "alice"))
	f.register(t, "carol", "c@x.com")

	c := f.ledger.Counters(ctx, "alice")
	assert.Equal(t, 1, c.Members)
	assert.Equal(t, referral.RewardPerSignup, c.Earnings)

	_, ok := f.ledger.Pending(ctx)
	assert.False(t, ok, "pending referral must be consumed")

	// a later signup without attribution credits nobody
	f.register(t, "dave", "d@x.com")
	assert.Equal(t, 1, f.ledger.Counters(ctx, "alice").Members)
}

func TestRegisterFailedValidationDoesNotCredit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", "a@x.com")
	require.NoError(t, f.ledger.SetPending(ctx, "alice"))

	_, err := f.flow.Register(ctx, validInput("alice", "dup@x.com"))
	require.ErrorIs(t, err, common.ErrUsernameTaken)

	assert.Zero(t, f.ledger.Counters(ctx, "alice").Members, "failed registration must not pay out")
	_, ok := f.ledger.Pending(ctx)
	assert.True(t, ok, "attribution stays pending until a registration completes")
}

func TestLoginSuccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", "a@x.com")
	f.sessions.Logout(ctx)

	user, err := f.flow.Login(ctx, "alice", "secret-password-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	current, err := f.sessions.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "alice", current.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", "a@x.com")
	f.sessions.Logout(ctx)

	_, err := f.flow.Login(ctx, "alice", "wrongpass")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	current, err := f.sessions.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current, "session must be unchanged after a failed login")
}

func TestLoginUnknownUserSameError(t *testing.T) {
	f := newFixture(t)

	_, err := f.flow.Login(context.Background(), "ghost", "whatever-pass")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLoginUpdatesLastLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", "a@x.com")
	f.sessions.Logout(ctx)

	before, err := f.repo.Get(ctx, "alice")
	require.NoError(t, err)

	_, err = f.flow.Login(ctx, "alice", "secret-password-1")
	require.NoError(t, err)

	after, err := f.repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, after.LastLogin.Before(before.LastLogin))
}
