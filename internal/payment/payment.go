// Package payment holds the premium-upgrade hook and the contract for the
// external payment collaborator. The core never inspects transaction details;
// it only reacts to the collaborator reporting success. That trust boundary
// is deliberate: verifying the transfer is the collaborator's job.
package payment

import (
	"context"

	"github.com/creatorspace/memberkit/internal/common"
	"github.com/creatorspace/memberkit/internal/logging"
	"github.com/creatorspace/memberkit/internal/session"
	"github.com/creatorspace/memberkit/internal/users"
)

// Processor is the injected payment collaborator. Pay returns nil only after
// the external provider confirms the transfer.
type Processor interface {
	TokenAddress() string
	AdminAddress() string
	Amount() float64
	Pay(ctx context.Context) error
}

// Hook flips the premium flag on the current user's stored record once the
// processor reports success, so the entitlement survives a restart.
type Hook struct {
	users    users.Repository
	sessions *session.Manager
	log      logging.Logger
}

func NewHook(repo users.Repository, sessions *session.Manager, log logging.Logger) *Hook {
	return &Hook{users: repo, sessions: sessions, log: log}
}

// OnPaymentSuccess marks the current user premium through the record store,
// not just in memory. Fails when nobody is logged in.
func (h *Hook) OnPaymentSuccess(ctx context.Context) error {
	user, err := h.sessions.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		return common.ErrNotAuthenticated
	}

	user.Premium = true
	if err := h.users.Upsert(ctx, user); err != nil {
		return err
	}

	h.log.Info(ctx, "premium activated", "username", user.Username)
	return nil
}
