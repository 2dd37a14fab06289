// Package referral keeps per-user counters of completed referred signups and
// accrued earnings, plus the ephemeral pending-referral attribution captured
// from an invite link.
package referral

import (
	"context"
	"errors"
	"fmt"

	"github.com/creatorspace/memberkit/internal/common"
	"github.com/creatorspace/memberkit/internal/kvstore"
	"github.com/creatorspace/memberkit/internal/logging"
	"github.com/creatorspace/memberkit/internal/users"
)

const (
	statsKey   = "referral_stats"
	pendingKey = "referred_by"
)

// RewardPerSignup is the fixed credit added to a referrer's earnings for
// each completed signup.
const RewardPerSignup = 5.0

// Counters are a user's referral totals. Members only ever grows.
type Counters struct {
	Members  int     `json:"members"`
	Earnings float64 `json:"earnings"`
}

// Ledger stores all counters as one JSON object keyed by referrer username.
type Ledger struct {
	store kvstore.Store
	users users.Repository
	log   logging.Logger
}

func NewLedger(store kvstore.Store, repo users.Repository, log logging.Logger) *Ledger {
	return &Ledger{store: store, users: repo, log: log}
}

func (l *Ledger) all(ctx context.Context) map[string]Counters {
	all := make(map[string]Counters)
	kvstore.Get(ctx, l.log, l.store, statsKey, &all)
	if all == nil {
		all = make(map[string]Counters)
	}
	return all
}

// Counters returns the user's totals, or zeros when none were recorded yet.
// Never fails: a degraded store reads as zeros.
func (l *Ledger) Counters(ctx context.Context, username string) Counters {
	return l.all(ctx)[username]
}

// Credit attributes one completed signup to referrer: members +1, earnings
// +RewardPerSignup. The counters record is created on first use. Call this
// exactly once per completed registration carrying a pending referral, after
// the new user record has been durably written.
func (l *Ledger) Credit(ctx context.Context, referrer string) error {
	all := l.all(ctx)

	c := all[referrer]
	c.Members++
	c.Earnings += RewardPerSignup
	all[referrer] = c

	if !kvstore.Set(ctx, l.log, l.store, statsKey, all) {
		return fmt.Errorf("crediting referral for %q: %w", referrer, common.ErrInternal)
	}
	return nil
}

// EnsureCounters lazily records a zero-value counters entry for a newly
// registered user so their dashboard reads {0,0} rather than nothing.
func (l *Ledger) EnsureCounters(ctx context.Context, username string) {
	all := l.all(ctx)
	if _, ok := all[username]; ok {
		return
	}
	all[username] = Counters{}
	if !kvstore.Set(ctx, l.log, l.store, statsKey, all) {
		l.log.Warn(ctx, "could not initialize referral counters", "username", username)
	}
}

// SetPending records the referrer attribution captured from an invite link.
// The referrer must exist; attributions for unknown users are rejected.
func (l *Ledger) SetPending(ctx context.Context, referrer string) error {
	if _, err := l.users.Get(ctx, referrer); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%q: %w", referrer, common.ErrUnknownReferrer)
		}
		return err
	}
	if !l.store.SetRaw(pendingKey, referrer) {
		return fmt.Errorf("saving pending referral: %w", common.ErrInternal)
	}
	return nil
}

// Pending returns the stored attribution, if any.
func (l *Ledger) Pending(ctx context.Context) (string, bool) {
	return l.store.GetRaw(pendingKey)
}

// ClearPending consumes the attribution. Clearing an absent value is a no-op.
func (l *Ledger) ClearPending(ctx context.Context) {
	l.store.Remove(pendingKey)
}
