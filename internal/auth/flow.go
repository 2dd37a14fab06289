// Package auth orchestrates the record store, session manager and referral
// ledger into the user-facing sign-up and sign-in operations.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/creatorspace/memberkit/internal/common"
	"github.com/creatorspace/memberkit/internal/logging"
	"github.com/creatorspace/memberkit/internal/models"
	"github.com/creatorspace/memberkit/internal/referral"
	"github.com/creatorspace/memberkit/internal/session"
	"github.com/creatorspace/memberkit/internal/users"
)

type Flow struct {
	users    users.Repository
	sessions *session.Manager
	ledger   *referral.Ledger
	log      logging.Logger
	now      func() time.Time
}

func NewFlow(repo users.Repository, sessions *session.Manager, ledger *referral.Ledger, log logging.Logger) *Flow {
	return &Flow{
		users:    repo,
		sessions: sessions,
		ledger:   ledger,
		log:      log,
		now:      time.Now,
	}
}

// RegisterInput carries the sign-up form. Username and Email are normalized
// before any store access.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	AgeConfirmed    bool
	TermsAccepted   bool
}

// Register runs the full sign-up sequence: structural validation, username
// then email uniqueness, record creation, session establishment, and finally
// consumption of any pending referral. The referral credit happens only after
// the new record is durably written, so a failed registration can never pay
// out.
func (f *Flow) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := f.users.Get(ctx, in.Username); err == nil {
		return nil, common.ErrUsernameTaken
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	if _, err := f.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, common.ErrEmailTaken
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := f.now().UTC()
	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		LastLogin:    now,
	}
	if err := f.users.Upsert(ctx, user); err != nil {
		return nil, err
	}

	if err := f.sessions.Login(ctx, user); err != nil {
		return nil, err
	}

	f.ledger.EnsureCounters(ctx, user.Username)
	f.consumePendingReferral(ctx, user.Username)

	f.log.Info(ctx, "user registered", "username", user.Username)
	return user, nil
}

// consumePendingReferral credits the stored attribution, once, for this
// completed signup. Self-referrals are dropped without credit.
func (f *Flow) consumePendingReferral(ctx context.Context, username string) {
	referrer, ok := f.ledger.Pending(ctx)
	if !ok {
		return
	}
	f.ledger.ClearPending(ctx)

	if referrer == username {
		f.log.Warn(ctx, "ignoring self-referral", "username", username)
		return
	}
	if err := f.ledger.Credit(ctx, referrer); err != nil {
		// the signup itself succeeded; losing the credit is logged, not fatal
		f.log.Error(ctx, "referral credit failed", "referrer", referrer, "error", err)
	}
}

// Login verifies credentials and establishes the session. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (f *Flow) Login(ctx context.Context, username, password string) (*models.User, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return nil, common.ErrInvalidCredentials
	}

	user, err := f.users.Get(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	if err := f.sessions.Login(ctx, user); err != nil {
		return nil, err
	}

	f.log.Info(ctx, "user logged in", "username", user.Username)
	return user, nil
}
